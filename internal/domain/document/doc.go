// Package document owns the live multi-page project being edited.
//
// Every mutation returns the new snapshot and leaves previously returned
// snapshots untouched:
//   - Pages: add, rename, delete, select
//   - Components: add, insert at index, delete, reorder
//   - Text overrides: read and write one node of one instance
//
// The store always holds at least one page. Unknown page ids passed to
// component operations fall back to the first page.
package document
