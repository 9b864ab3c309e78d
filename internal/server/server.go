// Package server exposes the analysis engine over HTTP with gin.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/signalnine/algolens/internal/intelligence"
	"github.com/signalnine/algolens/internal/metrics"
	"github.com/signalnine/algolens/internal/pipeline"
)

const RequestIDHeader = "X-Request-ID"

type Server struct {
	pipeline *pipeline.Pipeline
	advisor  *intelligence.Advisor
	metrics  *metrics.Registry
	logger   *zap.Logger
	router   *gin.Engine
}

// New wires the routes. advisor may be nil, in which case analyses run
// offline and trace requests are rejected.
func New(p *pipeline.Pipeline, advisor *intelligence.Advisor, m *metrics.Registry, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{pipeline: p, advisor: advisor, metrics: m, logger: logger}

	router := gin.New()
	router.Use(gin.Recovery(), s.requestID(), s.accessLog())

	router.GET("/healthz", s.handleHealth)
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	v1 := router.Group("/v1")
	v1.GET("/providers", s.handleProviders)
	v1.GET("/samples/:language", s.handleSample)
	v1.POST("/classify", s.handleClassify)
	v1.POST("/synthesize", s.handleSynthesize)
	v1.POST("/judge", s.handleJudge)
	v1.POST("/analyze", s.handleAnalyze)
	v1.POST("/trace", s.handleTrace)

	s.router = router
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		status := c.Writer.Status()
		s.metrics.RecordHTTPRequest(c.Request.Method, route, strconv.Itoa(status), elapsed)
		s.logger.Debug("request",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("elapsed", elapsed))
	}
}
