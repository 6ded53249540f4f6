// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes verification, fixing, PDF span extraction and
// history over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/citeverify/internal/history"
	"github.com/pdiddy/citeverify/pkg/types"
)

// RequestIDHeader carries the per-request ID in responses.
const RequestIDHeader = "X-Request-ID"

const shutdownTimeout = 10 * time.Second

// Verifier checks one citation.
type Verifier interface {
	Verify(ctx context.Context, citation, email string) (types.VerificationResult, error)
}

// Fixer proposes a corrected citation.
type Fixer interface {
	Fix(ctx context.Context, citation string) (types.FixResult, error)
}

// History lists recorded verifications.
type History interface {
	Recent(ctx context.Context, q history.Query) ([]history.Entry, error)
}

// Server holds the collaborators behind the HTTP routes.
type Server struct {
	verifier       Verifier
	fixer          Fixer
	history        History
	maxUploadBytes int64
	log            *zap.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithHistory enables GET /api/history.
func WithHistory(h History) Option { return func(s *Server) { s.history = h } }

// WithMaxUploadBytes caps PDF uploads.
func WithMaxUploadBytes(n int64) Option { return func(s *Server) { s.maxUploadBytes = n } }

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option { return func(s *Server) { s.log = l } }

// New returns a Server. The verifier and fixer are required.
func New(v Verifier, f Fixer, opts ...Option) *Server {
	s := &Server{
		verifier:       v,
		fixer:          f,
		maxUploadBytes: types.DefaultConfig().Server.MaxUploadBytes,
		log:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/verify", s.handleVerify)
		api.POST("/fix-citation", s.handleFix)
		api.POST("/upload-pdf", s.handleUploadPDF)
		api.GET("/history", s.handleHistory)
	}
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("starting HTTP server", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving on %s: %w", addr, err)
	case <-ctx.Done():
	}

	s.log.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

// requestLogger tags each request with an ID and logs it on completion.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)
		c.Set("request_id", id)

		start := time.Now()
		c.Next()

		s.log.Info("request",
			zap.String("request_id", id),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
