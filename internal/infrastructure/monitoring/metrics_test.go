package monitoring

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorsAreIndependent(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.RecordExport(ExportSuccess, time.Millisecond, 2048, 11)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.Exports.WithLabelValues(ExportSuccess)))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Exports.WithLabelValues(ExportSuccess)))
}

func TestRecordExportSnapshot(t *testing.T) {
	m := NewMetrics()

	m.RecordExport(ExportSuccess, time.Millisecond, 100, 11)
	m.RecordExport(ExportRejected, time.Millisecond, 0, 0)
	m.RecordExport(ExportFailed, time.Millisecond, 0, 0)

	snap := m.GetSnapshot()
	assert.Equal(t, int64(3), snap.Exports)
	assert.Equal(t, int64(2), snap.ExportErrors)
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()

	router := gin.New()
	router.Use(Middleware(m))
	router.GET("/blocks/:id", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	router.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/blocks/hero", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/blocks/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, int64(1), m.GetSnapshot().TotalErrors)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "pagebuilder_http_requests_total"))
	assert.True(t, strings.Contains(w.Body.String(), "pagebuilder_uptime_seconds"))
}

func TestTimer(t *testing.T) {
	m := NewMetrics()

	NewTimer(m, "save").Stop("success")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProjectOps.WithLabelValues("save", "success")))
}
