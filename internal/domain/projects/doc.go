// Package projects persists named project snapshots in a key-value store.
//
// Backends:
//   - MemoryStore: process-local map
//   - FileStore: one JSON file per project, written atomically
//   - SQLiteStore: a single projects table (modernc.org/sqlite, no cgo)
//
// Writes are last-write-wins with no conflict detection. Reads always pass
// through the rehydrator, so any stored shape loads as a valid project.
package projects
