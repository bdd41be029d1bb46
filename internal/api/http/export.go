package http

import (
	"errors"
	"mime"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/pagebuilder/internal/api/middleware"
	"github.com/GriffinCanCode/pagebuilder/internal/domain/export"
	"github.com/GriffinCanCode/pagebuilder/internal/infrastructure/monitoring"
)

// Export builds a project archive and streams it as a download
func (h *Handlers) Export(c *gin.Context) {
	start := time.Now()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBody)

	var req export.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.RecordExport(monitoring.ExportRejected, time.Since(start), 0, 0)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	archive, err := h.exporter.Run(c.Request.Context(), req)
	if err != nil {
		var invalid *export.ValidationError
		if errors.As(err, &invalid) {
			h.metrics.RecordExport(monitoring.ExportRejected, time.Since(start), 0, 0)
			c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error()})
			return
		}

		h.metrics.RecordExport(monitoring.ExportFailed, time.Since(start), 0, 0)
		h.logger.Error("Export failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.metrics.RecordExport(monitoring.ExportSuccess, time.Since(start), len(archive.Data), len(archive.Files))
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": archive.Filename,
	}))
	c.Data(http.StatusOK, "application/zip", archive.Data)
}
