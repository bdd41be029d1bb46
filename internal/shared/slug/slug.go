// Package slug turns page names into URL path segments and keeps them unique within a project.
package slug

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/GriffinCanCode/pagebuilder/internal/shared/id"
)

// MaxLength caps the length of a generated slug.
const MaxLength = 48

// fallbackPrefix is used when a name normalizes to nothing.
const fallbackPrefix = "page"

// Slugify lower-cases name, folds accents, maps every character outside [a-z0-9]
// to '-', collapses dash runs, trims dashes at both ends and caps the length.
// The result is never empty.
func Slugify(name string) string {
	folded := fold(name)

	var b strings.Builder
	b.Grow(len(folded))
	dash := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}

	s := strings.TrimRight(b.String(), "-")
	if len(s) > MaxLength {
		s = strings.TrimRight(s[:MaxLength], "-")
	}
	if s == "" {
		return fallbackPrefix + "-" + id.Segment(8)
	}
	return s
}

// Unique returns base if it is not in existing, otherwise the first free
// base-2, base-3, ... An empty base is slugified first.
func Unique(base string, existing map[string]struct{}) string {
	if base == "" {
		base = Slugify(base)
	}
	if _, taken := existing[base]; !taken {
		return base
	}
	for n := 2; ; n++ {
		candidate := base + "-" + strconv.Itoa(n)
		if _, taken := existing[candidate]; !taken {
			return candidate
		}
	}
}

// fold strips combining marks after canonical decomposition ("Café" -> "Cafe").
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
