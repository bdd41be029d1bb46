package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/pagebuilder/internal/shared/types"
)

// catalogSchema describes a catalog file: {"blocks": [{id, name, category, ...}]}
const catalogSchema = `{
  "type": "object",
  "required": ["blocks"],
  "properties": {
    "blocks": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "category"],
        "properties": {
          "id":          {"type": "string", "minLength": 1},
          "name":        {"type": "string"},
          "description": {"type": "string"},
          "category":    {"type": "string", "enum": ["block", "element", "layout", "chrome"]},
          "component":   {"type": "string"},
          "markup":      {"type": "string"},
          "tags":        {"type": "array", "items": {"type": "string"}}
        }
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(catalogSchema)

type catalogFile struct {
	Blocks []types.Block `json:"blocks"`
}

// Seeder handles loading block catalogs from disk
type Seeder struct {
	manager    *Manager
	catalogDir string
	logger     *zap.Logger
}

// NewSeeder creates a new catalog seeder
func NewSeeder(manager *Manager, catalogDir string, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{
		manager:    manager,
		catalogDir: catalogDir,
		logger:     logger,
	}
}

// SeedDefaults registers the built-in catalog
func (s *Seeder) SeedDefaults() error {
	for i := range defaultBlocks {
		if err := s.manager.Register(&defaultBlocks[i]); err != nil {
			return fmt.Errorf("register default block %s: %w", defaultBlocks[i].ID, err)
		}
	}
	s.logger.Info("Seeded default blocks", zap.Int("count", len(defaultBlocks)))
	return nil
}

// SeedDir loads every catalog file in the catalog directory.
// A missing directory is not an error; a broken file is logged and skipped.
func (s *Seeder) SeedDir() error {
	if s.catalogDir == "" {
		return nil
	}
	if _, err := os.Stat(s.catalogDir); os.IsNotExist(err) {
		s.logger.Warn("Block catalog directory not found", zap.String("dir", s.catalogDir))
		return nil
	}

	entries, err := os.ReadDir(s.catalogDir)
	if err != nil {
		return fmt.Errorf("read catalog dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && isCatalogFile(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var loaded, failed int
	for _, name := range names {
		path := filepath.Join(s.catalogDir, name)
		n, err := s.LoadFile(path)
		if err != nil {
			s.logger.Warn("Failed to load catalog file", zap.String("file", name), zap.Error(err))
			failed++
			continue
		}
		s.logger.Debug("Loaded catalog file", zap.String("file", name), zap.Int("blocks", n))
		loaded += n
	}

	s.logger.Info("Catalog seeding complete", zap.Int("blocks", loaded), zap.Int("failed_files", failed))
	return nil
}

// LoadFile parses, validates and registers one catalog file, returning the number of blocks registered
func (s *Seeder) LoadFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	blocks, err := ParseCatalog(filepath.Ext(path), data)
	if err != nil {
		return 0, err
	}
	for i := range blocks {
		if err := s.manager.Register(&blocks[i]); err != nil {
			return i, err
		}
	}
	return len(blocks), nil
}

// ParseCatalog decodes a catalog document of the given extension and validates it
func ParseCatalog(ext string, data []byte) ([]types.Block, error) {
	var doc interface{}
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	case ".toml":
		var m map[string]interface{}
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parse toml: %w", err)
		}
		doc = m
	case ".json":
		if err := sonic.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", ext)
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("invalid catalog: %s", strings.Join(msgs, "; "))
	}

	// Round-trip through JSON so yaml and toml documents share one decoder
	normalized, err := sonic.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("normalize catalog: %w", err)
	}
	var cf catalogFile
	if err := sonic.Unmarshal(normalized, &cf); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return cf.Blocks, nil
}

func isCatalogFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".toml", ".json":
		return true
	}
	return false
}
