package grants

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/grantview/internal/app"
	"github.com/leapstack-labs/grantview/internal/grants"
	"github.com/leapstack-labs/grantview/internal/ui/features/grants/components"
	"github.com/leapstack-labs/grantview/internal/ui/notifier"
	"github.com/leapstack-labs/grantview/internal/ui/session"
)

// Handlers provides HTTP handlers for the grants feature.
type Handlers struct {
	sessions *session.Registry
	notifier *notifier.Notifier
	logger   *slog.Logger
	isDev    bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(sessions *session.Registry, notify *notifier.Notifier, logger *slog.Logger, isDev bool) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		sessions: sessions,
		notifier: notify,
		logger:   logger,
		isDev:    isDev,
	}
}

// GrantsPage renders the page with the current view server-rendered.
func (h *Handlers) GrantsPage(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	if err := components.Page("Grants", h.isDev, ctrl.View()).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// GrantsPageUpdates is the long-lived SSE endpoint. It pushes a fresh app
// shell whenever the grant store changes. It does not send initial state;
// that is rendered by GrantsPage.
func (h *Handlers) GrantsPageUpdates(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}
	sse := datastar.NewSSE(w, r)

	updates := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			if err := h.patchApp(sse, ctrl); err != nil {
				// Keep the stream open; the next update may succeed.
				_ = sse.ConsoleError(err)
			}
		}
	}
}

// SelectTab switches between the grant list and the add form.
func (h *Handlers) SelectTab(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}
	sse := datastar.NewSSE(w, r)

	tab, known := app.ParseTab(chi.URLParam(r, "tab"))
	if !known {
		_ = sse.ConsoleError(fmt.Errorf("unknown tab %q", chi.URLParam(r, "tab")))
		return
	}
	ctrl.SetTab(tab)
	h.respond(sse, ctrl)
}

// ToggleTag adds or removes a tag from this session's filter.
func (h *Handlers) ToggleTag(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}
	sse := datastar.NewSSE(w, r)

	ctrl.ToggleTag(tagParam(r))
	h.respond(sse, ctrl)
}

// ClearFilters returns this session to the unfiltered view.
func (h *Handlers) ClearFilters(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}
	sse := datastar.NewSSE(w, r)

	ctrl.ClearFilters()
	h.respond(sse, ctrl)
}

// Refresh refetches the grant list. A failure shows up as the refresh
// notice rather than an error response.
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}
	sse := datastar.NewSSE(w, r)

	_ = ctrl.Refresh(r.Context())
	h.respond(sse, ctrl)
}

// SubmitGrant creates a grant from the form signals.
func (h *Handlers) SubmitGrant(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	// Read signals BEFORE creating SSE (SSE consumes the request body)
	var signals components.FormSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(fmt.Errorf("failed to read signals: %w", err))
		return
	}
	ctrl.SetName(signals.Name)
	ctrl.SetDescription(signals.Description)

	sse := datastar.NewSSE(w, r)

	err := ctrl.Submit(r.Context())
	switch {
	case err == nil:
		if err := sse.MarshalAndPatchSignals(components.FormSignals{}); err != nil {
			_ = sse.ConsoleError(err)
		}
	case errors.Is(err, grants.ErrInvalidGrant), errors.Is(err, app.ErrSubmitPending):
		h.logger.Debug("submit refused", "error", err)
	default:
		h.logger.Info("submit failed", "error", err)
	}
	h.respond(sse, ctrl)
}

// controller resolves the session controller or writes a 500.
func (h *Handlers) controller(w http.ResponseWriter, r *http.Request) (*app.Controller, bool) {
	ctrl, err := h.sessions.Controller(w, r)
	if err != nil {
		h.logger.Error("session unavailable", "error", err)
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return nil, false
	}
	return ctrl, true
}

func (h *Handlers) respond(sse *datastar.ServerSentEventGenerator, ctrl *app.Controller) {
	if err := h.patchApp(sse, ctrl); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// patchApp builds and sends the full app shell for the session.
func (h *Handlers) patchApp(sse *datastar.ServerSentEventGenerator, ctrl *app.Controller) error {
	return sse.PatchElementTempl(components.AppShell(ctrl.View()))
}

// tagParam returns the decoded {tag} URL parameter. chi matches against
// RawPath when the request has one, leaving the parameter escaped;
// otherwise it matches the already decoded Path.
func tagParam(r *http.Request) string {
	tag := chi.URLParam(r, "tag")
	if r.URL.RawPath == "" {
		return tag
	}
	if decoded, err := url.PathUnescape(tag); err == nil {
		return decoded
	}
	return tag
}
