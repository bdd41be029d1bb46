// Package registry provides the Block Registry: the catalog of prebuilt UI blocks
// that pages are composed from.
//
// The document core only ever sees the registry through Lookup and the
// IsInsertable capability predicate. It carries block ids and branches on
// Category; it never depends on the identity of a concrete block.
//
// Components:
//   - Manager: In-memory catalog with category filtering
//   - Seeder: Loads catalog files (.yaml, .yml, .toml, .json) and the built-in defaults
//
// Catalog files are validated against a JSON schema before any entry is registered,
// so a broken file is skipped as a whole.
//
// Example Usage:
//
//	blocks := registry.NewManager()
//	seeder := registry.NewSeeder(blocks, "./catalog", logger)
//	_ = seeder.SeedDefaults()
//	_ = seeder.SeedDir()
//	b, ok := blocks.ByID("hero-simple")
package registry
