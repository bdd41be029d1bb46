// Package export turns a project plus generated page sources into a downloadable archive.
//
// Pipeline stages:
//   - Validate: required fields and page path rules, before anything is written
//   - Build: the ordered file set (manifest, layout, pages, scaffold)
//   - Package: a zip of the file set, verified by content sniffing
//
// Errors are typed: *ValidationError for bad requests and *PackagingError
// for assembly failures. No partial archive is ever returned.
package export
