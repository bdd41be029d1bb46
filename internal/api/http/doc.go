// Package http exposes the page builder over a gin router.
//
// Routes:
//   - POST /export: zip download, or {"error": msg} with 400/413/500
//   - GET /blocks, GET /blocks/:id: block catalog
//   - GET/PUT/DELETE /projects/:name, GET /projects: saved projects
//   - GET /, GET /health: liveness and stats
package http
