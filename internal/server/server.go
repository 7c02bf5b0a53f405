// Package server exposes the matching engine over a small JSON API.
package server

import (
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/havenly/planmatch/internal/ai"
	"github.com/havenly/planmatch/internal/catalog"
)

// ReloadFunc rebuilds a catalog snapshot from the configured sources.
type ReloadFunc func() (*catalog.Catalog, error)

// Server serves match, lookup and chat requests over HTTP. The catalog is an
// atomically swappable snapshot: reload builds a whole new catalog and swaps
// the pointer, so in-flight requests keep the snapshot they started with.
type Server struct {
	engine  *gin.Engine
	logger  *zap.Logger
	advisor ai.Advisor
	reload  ReloadFunc
	cat     atomic.Pointer[catalog.Catalog]
}

// New builds a Server around an initial catalog snapshot. advisor and reload
// may be nil; the corresponding endpoints then answer with an explanatory
// message.
func New(cat *catalog.Catalog, advisor ai.Advisor, reload ReloadFunc, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine:  gin.New(),
		logger:  logger,
		advisor: advisor,
		reload:  reload,
	}
	s.cat.Store(cat)

	s.engine.Use(gin.Recovery())
	s.routes()

	return s
}

func (s *Server) routes() {
	api := s.engine.Group("/api/v1")
	api.GET("/health", s.handleHealth)
	api.POST("/match", s.handleMatch)
	api.GET("/plans/search", s.handleLookup)
	api.GET("/states", s.handleStates)
	api.POST("/chat", s.handleChat)
	api.POST("/reload", s.handleReload)
}

// Handler returns the underlying HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the HTTP server on the given address and blocks.
func (s *Server) Run(addr string) error {
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.engine.Run(addr)
}

func (s *Server) catalog() *catalog.Catalog {
	return s.cat.Load()
}

func (s *Server) handleHealth(c *gin.Context) {
	cat := s.catalog()
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"plans":  len(cat.Plans),
	})
}

// handleStates lists the states with at least one service area, for clients
// building a state selector.
func (s *Server) handleStates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"states": s.catalog().States()})
}

func (s *Server) handleReload(c *gin.Context) {
	if s.reload == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "reload is not configured"})
		return
	}

	cat, err := s.reload()
	if err != nil {
		s.logger.Error("catalog reload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reload failed: " + err.Error()})
		return
	}

	s.cat.Store(cat)
	s.logger.Info("catalog reloaded", zap.Int("plans", len(cat.Plans)))
	c.JSON(http.StatusOK, gin.H{"plans": len(cat.Plans)})
}
