// Package types provides shared data structures for the page builder.
//
// Core Types:
//   - Project: Multi-page document (pages + entry page)
//   - Page: Ordered list of component instances behind a unique slug
//   - ComponentInstance: Placed catalog block plus its text overrides
//   - TextOverride: Per-instance text replacement {original, value}
//   - Block: Block Registry entry tagged with a Category
//
// These types are plain values. Ownership and mutation rules live in
// internal/domain/document; this package only carries shape and lookups.
package types
