// Package server assembles the page builder HTTP service from configuration.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/pagebuilder/internal/api/http"
	"github.com/GriffinCanCode/pagebuilder/internal/api/middleware"
	"github.com/GriffinCanCode/pagebuilder/internal/domain/export"
	"github.com/GriffinCanCode/pagebuilder/internal/domain/projects"
	"github.com/GriffinCanCode/pagebuilder/internal/domain/registry"
	"github.com/GriffinCanCode/pagebuilder/internal/infrastructure/config"
	"github.com/GriffinCanCode/pagebuilder/internal/infrastructure/logging"
	"github.com/GriffinCanCode/pagebuilder/internal/infrastructure/monitoring"
)

const shutdownTimeout = 10 * time.Second

// Server wraps the HTTP server and dependencies
type Server struct {
	router   *gin.Engine
	http     *http.Server
	blocks   *registry.Manager
	projects *projects.Service
	store    projects.ProjectStore
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	logger, err := NewLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}

	logger.Info("Initializing Page Builder server",
		zap.String("addr", cfg.Server.Addr()),
		zap.String("project_store", cfg.Projects.Backend),
	)

	metrics := monitoring.NewMetrics()

	blocks, err := LoadCatalog(cfg.Blocks.CatalogDir, logger.Logger)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}
	for category, count := range blocks.Stats().Categories {
		metrics.SetRegistryBlocks(string(category), count)
	}

	store, err := OpenStore(context.Background(), cfg.Projects)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}
	service := projects.NewService(store, blocks, logger.Named("projects"))

	pipeline, err := export.NewPipeline(cfg.Export.PageGlob, logger.Named("export"))
	if err != nil {
		closeStore(store)
		_ = logger.Close()
		return nil, err
	}

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog(logger.Named("http")))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		limits := middleware.DefaultRateLimitConfig()
		limits.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		limits.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(limits))
	}

	handlers := apihttp.NewHandlers(apihttp.Options{
		Blocks:       blocks,
		Projects:     service,
		Exporter:     pipeline,
		Metrics:      metrics,
		Logger:       logger.Named("api"),
		MaxBodyBytes: cfg.Export.MaxBodyBytes,
	})
	handlers.Register(router)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	logger.Info("Server initialized successfully", zap.Int("blocks", blocks.Len()))

	return &Server{
		router:   router,
		blocks:   blocks,
		projects: service,
		store:    store,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
	}, nil
}

// NewLogger builds the process logger from configuration
func NewLogger(cfg config.LogConfig) (*logging.Logger, error) {
	logCfg := logging.DefaultConfig()
	if cfg.Development {
		logCfg = logging.DevelopmentConfig()
	}
	if cfg.Level != "" && !cfg.Development {
		logCfg.Level = cfg.Level
	}
	logCfg.File = cfg.File

	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

// LoadCatalog builds the block registry: built-in blocks first, then catalog files
func LoadCatalog(dir string, logger *zap.Logger) (*registry.Manager, error) {
	blocks := registry.NewManager()
	seeder := registry.NewSeeder(blocks, dir, logger.Named("registry"))
	if err := seeder.SeedDefaults(); err != nil {
		return nil, fmt.Errorf("failed to seed default blocks: %w", err)
	}
	if dir != "" {
		if err := seeder.SeedDir(); err != nil {
			logger.Warn("Failed to load block catalog", zap.String("dir", dir), zap.Error(err))
		}
	}
	return blocks, nil
}

// OpenStore opens the configured project store backend
func OpenStore(ctx context.Context, cfg config.ProjectStoreConfig) (projects.ProjectStore, error) {
	switch cfg.Backend {
	case config.StoreMemory, "":
		return projects.NewMemoryStore(), nil
	case config.StoreFile:
		return projects.NewFileStore(cfg.Path)
	case config.StoreSQLite:
		path := cfg.Path
		if filepath.Ext(path) == "" {
			path = filepath.Join(path, "projects.db")
		}
		return projects.OpenSQLite(ctx, path)
	default:
		return nil, fmt.Errorf("unknown project store %q", cfg.Backend)
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on the configured address until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Server.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Server.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.http = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", ln.Addr().String()))
		errCh <- s.http.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close releases the project store and flushes the logger
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	var firstErr error
	if c, ok := s.store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			s.logger.Error("Failed to close project store", zap.Error(err))
			firstErr = fmt.Errorf("failed to close project store: %w", err)
		}
	}
	if err := s.logger.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func closeStore(store projects.ProjectStore) {
	if c, ok := store.(io.Closer); ok {
		_ = c.Close()
	}
}

