// Package middleware provides the HTTP middleware stack of the page builder API.
//
//   - CORS: cross-origin access for the browser editor, exposing the download headers
//   - RateLimit: per-IP token buckets with idle client eviction
//   - RequestID: X-Request-ID propagation
//   - AccessLog: one structured zap line per request
//
//	router.Use(middleware.RequestID(), middleware.AccessLog(logger))
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
