package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"kvvec/internal/config"
	DB "kvvec/internal/db"
	"kvvec/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	router *gin.Engine
	db     *DB.DB
	addr   string
}

// New creates a new server instance
func New(db *DB.DB, conf *config.Config) *Server {
	gin.SetMode(conf.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	s := &Server{
		db:     db,
		router: router,
		addr:   conf.Server.Addr,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleHealthCheck())
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.POST("/v1/vectors", s.handleCreateVector())
	s.router.GET("/v1/vectors", s.handleListVectors())
	s.router.GET("/v1/vectors/:name", s.handleGetVector())
	s.router.DELETE("/v1/vectors/:name", s.handleDeleteVector())

	s.router.POST("/v1/vectors/:name/entries", s.handlePush())
	s.router.POST("/v1/vectors/:name/entries/pop", s.handlePop())
	s.router.GET("/v1/vectors/:name/entries/:key", s.handleFind())
	s.router.DELETE("/v1/vectors/:name/entries/:key", s.handleDeleteEntry())
	s.router.POST("/v1/vectors/:name/sort", s.handleSort())

	s.router.GET("/v1/utils/seed", s.handleSeed())
	s.router.GET("/v1/utils/memory", s.handleMemory())
	s.router.GET("/v1/utils/random", s.handleRandom())
	s.router.GET("/v1/utils/combinatorics", s.handleCombinatorics())
	s.router.GET("/v1/utils/divceil", s.handleDivCeil())
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}
