package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/pagebuilder/internal/domain/projects"
	"github.com/GriffinCanCode/pagebuilder/internal/infrastructure/monitoring"
)

// ListProjects lists saved projects
func (h *Handlers) ListProjects(c *gin.Context) {
	timer := monitoring.NewTimer(h.metrics, "list")

	list, err := h.projects.List(c.Request.Context())
	if err != nil {
		timer.Stop("error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	timer.Stop("success")

	c.JSON(http.StatusOK, gin.H{
		"projects": list,
		"count":    len(list),
	})
}

// GetProject returns one saved project, rehydrated
func (h *Handlers) GetProject(c *gin.Context) {
	name := c.Param("name")
	timer := monitoring.NewTimer(h.metrics, "load")

	project, err := h.projects.Load(c.Request.Context(), name)
	if err != nil {
		timer.Stop("error")
		c.JSON(projectStatus(err), gin.H{"error": err.Error()})
		return
	}
	timer.Stop("success")

	c.JSON(http.StatusOK, gin.H{
		"name":    name,
		"project": project,
	})
}

// SaveProject stores the request body under name as given and responds with
// the rehydrated project. Any JSON snapshot shape is accepted.
func (h *Handlers) SaveProject(c *gin.Context) {
	name := c.Param("name")
	timer := monitoring.NewTimer(h.metrics, "save")

	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBody))
	if err != nil {
		timer.Stop("error")
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	project, err := h.projects.SaveRaw(c.Request.Context(), name, raw)
	if err != nil {
		timer.Stop("error")
		c.JSON(projectStatus(err), gin.H{"error": err.Error()})
		return
	}
	timer.Stop("success")

	c.JSON(http.StatusOK, gin.H{
		"name":    name,
		"project": project,
	})
}

// DeleteProject removes a saved project
func (h *Handlers) DeleteProject(c *gin.Context) {
	name := c.Param("name")
	timer := monitoring.NewTimer(h.metrics, "delete")

	if err := h.projects.Delete(c.Request.Context(), name); err != nil {
		timer.Stop("error")
		c.JSON(projectStatus(err), gin.H{"error": err.Error()})
		return
	}
	timer.Stop("success")

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"name":    name,
	})
}

func projectStatus(err error) int {
	switch {
	case errors.Is(err, projects.ErrBlankName), errors.Is(err, projects.ErrInvalidSnapshot):
		return http.StatusBadRequest
	case errors.Is(err, projects.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
