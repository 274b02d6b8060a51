// Package router sets up HTTP routes for the UI server.
package router

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	grantsFeature "github.com/leapstack-labs/grantview/internal/ui/features/grants"
	"github.com/leapstack-labs/grantview/internal/ui/notifier"
	"github.com/leapstack-labs/grantview/internal/ui/resources"
	"github.com/leapstack-labs/grantview/internal/ui/session"
)

// Reloader tells connected dev browsers to reload the page.
type Reloader struct {
	ch chan struct{}
}

// NewReloader creates a Reloader.
func NewReloader() *Reloader {
	return &Reloader{ch: make(chan struct{}, 1)}
}

// Trigger requests a reload. Requests made while one is pending coalesce.
func (r *Reloader) Trigger() {
	select {
	case r.ch <- struct{}{}:
	default:
	}
}

// C delivers pending reload requests.
func (r *Reloader) C() <-chan struct{} {
	return r.ch
}

// SetupRoutes configures all routes for the UI server. A non-nil reload
// enables dev mode: the reload endpoints and the page hook that uses them.
func SetupRoutes(
	router chi.Router,
	sessions *session.Registry,
	notify *notifier.Notifier,
	reload *Reloader,
	logger *slog.Logger,
) error {
	isDev := reload != nil

	// Hot reload endpoint for dev mode
	if isDev {
		setupReload(router, reload)
	}

	// Static assets
	router.Handle("/static/*", resources.Handler())

	// Feature routes
	if err := grantsFeature.SetupRoutes(router, sessions, notify, logger, isDev); err != nil {
		return err
	}

	return nil
}

func setupReload(router chi.Router, reload *Reloader) {
	var hotReloadOnce sync.Once

	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		sse := datastar.NewSSE(w, r)
		doReload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		hotReloadOnce.Do(doReload)
		select {
		case <-reload.C():
			doReload()
		case <-r.Context().Done():
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		reload.Trigger()
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
