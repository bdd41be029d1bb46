/*
Package monitoring provides Prometheus metrics for the page builder service.

# Overview

Metrics live on a private registry owned by Metrics, so several servers (and
tests) can coexist in one process.

# Metrics

- HTTP request counters, latency and size histograms
- Export outcomes and archive sizes
- Project saves, loads and deletes
- Registered block count

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics, "save")
	// ... perform operation ...
	timer.Stop("success")
*/
package monitoring
