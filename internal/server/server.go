// Package server exposes classification and market-list management over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Kris2339/MEO-PayDay/internal/logging"
	"github.com/gin-gonic/gin"
)

// Options configures the HTTP server.
type Options struct {
	Addr           string
	MaxUploadBytes int64
	TrustedProxies []string
	Debug          bool
}

// Server is the HTTP front end.
type Server struct {
	router  *gin.Engine
	handler *Handler
	logger  logging.Logger
	opts    Options
}

// NewServer builds the router and registers all routes.
func NewServer(h *Handler, opts Options, logger logging.Logger) (*Server, error) {
	if !opts.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))
	if err := router.SetTrustedProxies(opts.TrustedProxies); err != nil {
		return nil, err
	}
	if opts.MaxUploadBytes > 0 {
		router.MaxMultipartMemory = opts.MaxUploadBytes
		router.Use(limitBody(opts.MaxUploadBytes))
	}

	s := &Server{router: router, handler: h, logger: logger, opts: opts}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.router.Group("/api")
	{
		s.handler.RegisterRoutes(api)
	}
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", s.opts.Addr).Info("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("Shutting down HTTP server")
		return srv.Shutdown(shutdownCtx)
	}
}

func requestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(
			logging.Field{Key: "method", Value: c.Request.Method},
			logging.Field{Key: "path", Value: c.FullPath()},
			logging.Field{Key: logging.FieldStatus, Value: c.Writer.Status()},
			logging.Field{Key: logging.FieldDuration, Value: time.Since(start).String()},
		).Debug("Request handled")
	}
}

func limitBody(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
