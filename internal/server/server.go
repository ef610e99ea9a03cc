// Package server exposes model extraction and analysis over HTTP.
//
// The server keeps a single session: every successful upload, or every new
// export dropped into the watch directory, replaces the current snapshot as a
// whole and pings SSE listeners.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/leapstack-labs/pbiassist/internal/server/notifier"
	"github.com/leapstack-labs/pbiassist/pkg/lint"
	"github.com/leapstack-labs/pbiassist/pkg/vpax"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxUploadBytes bounds request bodies when Config leaves it unset.
const DefaultMaxUploadBytes int64 = 100 << 20

// Config holds configuration for the HTTP server.
type Config struct {
	Port           int
	WatchDir       string
	MaxUploadBytes int64
	AllowedOrigins []string
	Lint           *lint.Config
	Logger         *slog.Logger
}

// Server is the HTTP service.
type Server struct {
	cfg       Config
	logger    *slog.Logger
	extractor *vpax.Extractor
	analyzer  *lint.Analyzer
	session   *Session
	notifier  *notifier.Notifier
	now       func() time.Time
	newID     func() string
}

// New creates a new server instance.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	return &Server{
		cfg:       cfg,
		logger:    cfg.Logger,
		extractor: vpax.NewExtractor(cfg.Logger),
		analyzer:  lint.NewAnalyzer(cfg.Lint),
		session:   &Session{},
		notifier:  notifier.New(),
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
	}
}

// Session returns the server's session.
func (s *Server) Session() *Session {
	return s.session
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins: s.cfg.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-File-Name"},
			MaxAge:         300,
		}),
	)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/upload", s.handleUpload)
		r.Get("/model", s.handleModel)
		r.Get("/model/summary", s.handleSummary)
		r.Get("/analysis", s.handleAnalysis)
		r.Get("/graph", s.handleGraph)
		r.Get("/rules", s.handleRules)
		r.Get("/events", s.handleEvents)
	})
	return r
}

// Ingest extracts and analyzes raw, then replaces the current snapshot.
// On error the current snapshot is left untouched.
func (s *Server) Ingest(fileName, source string, raw []byte) (*Snapshot, error) {
	data, err := s.extractor.Extract(raw)
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{
		ID:          s.newID(),
		Fingerprint: vpax.Fingerprint(raw),
		FileName:    fileName,
		Source:      source,
		UploadedAt:  s.now().UTC(),
		Data:        data,
		Analysis:    s.analyzer.Analyze(data),
	}
	prev := s.session.Replace(snap)

	attrs := []any{"id", snap.ID, "file", fileName, "source", source, "score", snap.Analysis.Score()}
	if prev != nil && prev.Fingerprint == snap.Fingerprint {
		attrs = append(attrs, "unchanged", true)
	}
	s.logger.Info("model snapshot replaced", attrs...)

	s.notifier.Broadcast(snap.ID)
	return snap, nil
}

// Serve starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.logger.Info("starting server", "addr", fmt.Sprintf("http://localhost:%d", s.cfg.Port))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.cfg.WatchDir != "" {
		eg.Go(func() error {
			return s.watch(egctx, s.cfg.WatchDir)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
