// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/grantview/internal/app"
	"github.com/leapstack-labs/grantview/internal/grants"
	"github.com/leapstack-labs/grantview/internal/grants/grantstest"
	"github.com/leapstack-labs/grantview/internal/testutil"
	"github.com/leapstack-labs/grantview/internal/ui/notifier"
	"github.com/leapstack-labs/grantview/internal/ui/session"
	"github.com/leapstack-labs/grantview/pkg/core"
)

// TestSessionSecret is the cookie secret used by fixtures.
const TestSessionSecret = "test-secret-key-32-bytes-long!!"

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Service  *grantstest.Server
	Store    *grants.Store
	Notifier *notifier.Notifier
	Sessions *session.Registry
}

// SetupTestFixture starts a fake grants service seeded with grants and
// wires a store, notifier and session registry around it. Store changes
// are broadcast to the notifier the same way the server does it. The
// store is loaded once before returning.
func SetupTestFixture(t *testing.T, seed ...core.Grant) *TestFixture {
	t.Helper()

	logger := testutil.NewTestLogger(t)
	svc := grantstest.NewServer(t, seed...)

	client, err := grants.NewClient(grants.ClientConfig{
		BaseURL: svc.URL,
		Timeout: 2 * time.Second,
		Logger:  logger,
	})
	require.NoError(t, err)

	store := grants.NewStore(grants.StoreConfig{Service: client, Logger: logger})
	notify := notifier.New()
	store.SetOnChange(func() { notify.Broadcast(store.Snapshot().Revision) })

	registry := session.NewRegistry(
		session.NewCookieStore(TestSessionSecret),
		func() *app.Controller { return app.NewController(store, logger) },
		logger,
	)

	require.NoError(t, store.Refresh(context.Background()))

	return &TestFixture{
		Service:  svc,
		Store:    store,
		Notifier: notify,
		Sessions: registry,
	}
}

// RequestWithPathParam wraps a request with chi URL params.
func RequestWithPathParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// WithCookies copies the cookies set on a previous response onto r, so the
// request belongs to the same browser session.
func WithCookies(r *http.Request, resp *http.Response) *http.Request {
	for _, c := range resp.Cookies() {
		r.AddCookie(c)
	}
	return r
}
