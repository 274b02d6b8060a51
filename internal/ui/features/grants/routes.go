// Package grants provides the grant list and add-grant feature for the UI.
package grants

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/grantview/internal/ui/notifier"
	"github.com/leapstack-labs/grantview/internal/ui/session"
)

// SetupRoutes configures routes for the grants feature.
func SetupRoutes(
	router chi.Router,
	sessions *session.Registry,
	notify *notifier.Notifier,
	logger *slog.Logger,
	isDev bool,
) error {
	handlers := NewHandlers(sessions, notify, logger, isDev)

	router.Get("/", handlers.GrantsPage)
	router.Get("/updates", handlers.GrantsPageUpdates)

	router.Route("/actions", func(r chi.Router) {
		r.Post("/tab/{tab}", handlers.SelectTab)
		r.Post("/tags/{tag}/toggle", handlers.ToggleTag)
		r.Post("/filters/clear", handlers.ClearFilters)
		r.Post("/refresh", handlers.Refresh)
		r.Post("/grants", handlers.SubmitGrant)
	})

	return nil
}
