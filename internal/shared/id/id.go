// Package id provides centralized ID generation for the page builder.
//
// IDs are prefixed ULIDs:
//   - Lexicographic sortability: pages and components created later sort later
//   - Prefixed types: pg_*, cmp_*, exp_* make snapshots and logs readable
//   - Type safety: separate types prevent passing a component ID where a page ID is expected
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// PageID identifies a page within a project
type PageID string

// ComponentID identifies a placed component instance
type ComponentID string

// ExportID identifies a single export run
type ExportID string

const (
	PagePrefix      = "pg"
	ComponentPrefix = "cmp"
	ExportPrefix    = "exp"
)

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex // Protects entropy reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a new ULID generator
func NewGenerator() *Generator {
	return &Generator{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// NewGeneratorWithEntropy creates a generator with custom entropy source
// Useful for testing with deterministic entropy
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{
		entropy: entropy,
	}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateString creates a new ULID as a string
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.GenerateString())
}

// NewPageID generates a new page ID
func NewPageID() PageID {
	return PageID(Default().GenerateWithPrefix(PagePrefix))
}

// NewComponentID generates a new component instance ID
func NewComponentID() ComponentID {
	return ComponentID(Default().GenerateWithPrefix(ComponentPrefix))
}

// NewExportID generates a new export run ID
func NewExportID() ExportID {
	return ExportID(Default().GenerateWithPrefix(ExportPrefix))
}

// Segment returns n lowercase characters taken from the random tail of a fresh ULID.
// Used where a short, human-tolerable unique token is needed (slug fallbacks).
func Segment(n int) string {
	s := strings.ToLower(Default().GenerateString())
	if n <= 0 || n > len(s) {
		return s
	}
	return s[len(s)-n:]
}

func (id PageID) String() string      { return string(id) }
func (id ComponentID) String() string { return string(id) }
func (id ExportID) String() string    { return string(id) }

// IsValid checks if an ID string is a valid ULID, with or without a prefix
func IsValid(id string) bool {
	if i := strings.LastIndexByte(id, '_'); i >= 0 {
		id = id[i+1:]
	}
	_, err := ulid.Parse(id)
	return err == nil
}

// Timestamp extracts the timestamp from a (possibly prefixed) ULID
func Timestamp(id string) (time.Time, error) {
	if i := strings.LastIndexByte(id, '_'); i >= 0 {
		id = id[i+1:]
	}
	parsed, err := ulid.Parse(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
