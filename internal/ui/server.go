// Package ui provides the web UI for browsing and adding grants.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/grantview/internal/app"
	"github.com/leapstack-labs/grantview/internal/grants"
	"github.com/leapstack-labs/grantview/internal/ui/notifier"
	"github.com/leapstack-labs/grantview/internal/ui/resources"
	"github.com/leapstack-labs/grantview/internal/ui/router"
	"github.com/leapstack-labs/grantview/internal/ui/session"
)

// DefaultPort is the port used when Config.Port is zero.
const DefaultPort = 8765

// Server is the main UI server.
type Server struct {
	store        *grants.Store
	sessions     *session.Registry
	port         int
	pollInterval time.Duration
	dev          bool
	logger       *slog.Logger
	notifier     *notifier.Notifier
	// reload is set in dev mode
	reload *router.Reloader
}

// Config holds configuration for the UI server.
type Config struct {
	Store         *grants.Store
	Port          int
	SessionSecret string
	// PollInterval, if positive, refreshes the store periodically so
	// grants added by other clients show up without a manual refresh.
	PollInterval time.Duration
	// Dev enables the hot reload endpoints and, when assets are served
	// from disk, reloads browsers on asset changes.
	Dev    bool
	Logger *slog.Logger
}

// NewServer creates a new UI server instance. Store changes are broadcast
// to every connected browser.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}

	s := &Server{
		store:        cfg.Store,
		port:         port,
		pollInterval: cfg.PollInterval,
		dev:          cfg.Dev,
		logger:       logger,
		notifier:     notifier.New(),
	}
	if cfg.Dev {
		s.reload = router.NewReloader()
	}
	if strings.TrimSpace(cfg.SessionSecret) == "" {
		logger.Warn("no session secret configured, using a random key; sessions reset on restart")
	}
	s.sessions = session.NewRegistry(
		session.NewCookieStore(cfg.SessionSecret),
		func() *app.Controller { return app.NewController(cfg.Store, logger) },
		logger,
	)
	cfg.Store.SetOnChange(s.notifyClients)
	return s
}

// Handler builds the HTTP handler with middleware and all routes.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	if err := router.SetupRoutes(r, s.sessions, s.notifier, s.reload, s.logger); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting UI server", "addr", s.URL())

	handler, err := s.Handler()
	if err != nil {
		return err
	}

	// Initial load; a failure is shown to browsers as the refresh notice.
	_ = s.store.Refresh(ctx)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if dir := resources.Dir(); s.reload != nil && dir != "" {
		watcher, err := newAssetWatcher(dir)
		if err != nil {
			// Don't fail - continue without watching
			s.logger.Error("failed to watch static assets", "dir", dir, "error", err)
		} else {
			eg.Go(func() error {
				return s.watchAssets(egctx, watcher)
			})
		}
	}

	if s.pollInterval > 0 {
		eg.Go(func() error {
			s.poll(egctx)
			return nil
		})
	}

	// Start HTTP server
	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// URL returns the local address browsers should open.
func (s *Server) URL() string {
	return fmt.Sprintf("http://localhost:%d", s.port)
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// poll refreshes the store every pollInterval until ctx is done.
func (s *Server) poll(ctx context.Context) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Failures are logged by the store.
			_ = s.store.Refresh(ctx)
		}
	}
}

// notifyClients sends the current revision to all connected SSE clients.
func (s *Server) notifyClients() {
	s.notifier.Broadcast(s.store.Snapshot().Revision)
}
