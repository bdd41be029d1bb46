package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/pagebuilder/internal/domain/export"
	"github.com/GriffinCanCode/pagebuilder/internal/domain/projects"
	"github.com/GriffinCanCode/pagebuilder/internal/domain/registry"
	"github.com/GriffinCanCode/pagebuilder/internal/infrastructure/monitoring"
)

// Version is reported by the root endpoint
const Version = "0.1.0"

// Handlers contains all HTTP handlers
type Handlers struct {
	blocks   *registry.Manager
	projects *projects.Service
	exporter *export.Pipeline
	metrics  *monitoring.Metrics
	logger   *zap.Logger
	maxBody  int64
	started  time.Time
}

// Options configures Handlers
type Options struct {
	Blocks       *registry.Manager
	Projects     *projects.Service
	Exporter     *export.Pipeline
	Metrics      *monitoring.Metrics
	Logger       *zap.Logger
	MaxBodyBytes int64
}

// NewHandlers creates a new handler set
func NewHandlers(opts Options) *Handlers {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Metrics == nil {
		opts.Metrics = monitoring.NewMetrics()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 10 << 20
	}
	return &Handlers{
		blocks:   opts.Blocks,
		projects: opts.Projects,
		exporter: opts.Exporter,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
		maxBody:  opts.MaxBodyBytes,
		started:  time.Now(),
	}
}

// Register mounts every route on router
func (h *Handlers) Register(router gin.IRouter) {
	router.GET("/", h.Root)
	router.GET("/health", h.Health)

	router.POST("/export", h.Export)

	router.GET("/blocks", h.ListBlocks)
	router.GET("/blocks/:id", h.GetBlock)

	router.GET("/projects", h.ListProjects)
	router.GET("/projects/:name", h.GetProject)
	router.PUT("/projects/:name", h.SaveProject)
	router.DELETE("/projects/:name", h.DeleteProject)
}

// Root handles liveness
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "Page Builder",
		"version": Version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"uptime":   time.Since(h.started).Round(time.Second).String(),
		"registry": h.blocks.Stats(),
		"requests": h.metrics.GetSnapshot(),
		"latency":  h.metrics.AverageLatency().String(),
	})
}
