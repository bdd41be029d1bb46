package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/pagebuilder/internal/domain/registry"
	"github.com/GriffinCanCode/pagebuilder/internal/shared/types"
)

// ListBlocks lists the catalog, optionally filtered by ?category=
func (h *Handlers) ListBlocks(c *gin.Context) {
	var category *types.Category
	if raw := c.Query("category"); raw != "" {
		cat := types.Category(raw)
		category = &cat
	}

	c.JSON(http.StatusOK, gin.H{
		"blocks": h.blocks.ListMetadata(category),
		"stats":  h.blocks.Stats(),
	})
}

// GetBlock returns one catalog entry
func (h *Handlers) GetBlock(c *gin.Context) {
	id := c.Param("id")

	block, ok := h.blocks.ByID(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "block not found: " + id})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"block":      block,
		"insertable": registry.IsInsertable(block),
	})
}
