package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/grantview/internal/app"
	"github.com/leapstack-labs/grantview/internal/grants"
)

func newTestRegistry() *Registry {
	store := grants.NewStore(grants.StoreConfig{})
	return NewRegistry(
		NewCookieStore("test-secret-key-32-bytes-long!!"),
		func() *app.Controller { return app.NewController(store, nil) },
		nil,
	)
}

func TestRegistry_NewSessionSetsCookie(t *testing.T) {
	reg := newTestRegistry()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctrl, err := reg.Controller(rec, req)
	require.NoError(t, err)
	require.NotNil(t, ctrl)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_SameCookieSameController(t *testing.T) {
	reg := newTestRegistry()

	rec := httptest.NewRecorder()
	first, err := reg.Controller(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	first.ToggleTag("x")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	rec2 := httptest.NewRecorder()
	second, err := reg.Controller(rec2, req)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Empty(t, rec2.Result().Cookies(), "existing session is not re-saved")
	assert.Equal(t, []string{"x"}, second.View().Selected)
}

func TestRegistry_SessionsAreIsolated(t *testing.T) {
	reg := newTestRegistry()

	a, err := reg.Controller(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	b, err := reg.Controller(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	a.ToggleTag("x")
	assert.NotSame(t, a, b)
	assert.Empty(t, b.View().Selected)
	assert.Equal(t, 2, reg.Len())
}

func TestRegistry_InvalidCookieStartsOver(t *testing.T) {
	reg := newTestRegistry()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "garbage"})
	rec := httptest.NewRecorder()

	ctrl, err := reg.Controller(rec, req)
	require.NoError(t, err)
	require.NotNil(t, ctrl)
	assert.Len(t, rec.Result().Cookies(), 1)
}

func TestRegistry_PrunesIdleSessions(t *testing.T) {
	reg := newTestRegistry()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return now }

	_, err := reg.Controller(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Len())

	now = now.Add(DefaultIdleTTL + time.Minute)
	_, err = reg.Controller(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Len(), "idle session pruned, new one added")
}

func TestNewCookieStore_BlankSecret(t *testing.T) {
	for _, secret := range []string{"", "   "} {
		t.Run("secret="+secret, func(t *testing.T) {
			store := grants.NewStore(grants.StoreConfig{})
			reg := NewRegistry(
				NewCookieStore(secret),
				func() *app.Controller { return app.NewController(store, nil) },
				nil,
			)

			rec := httptest.NewRecorder()
			first, err := reg.Controller(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			cookies := rec.Result().Cookies()
			require.Len(t, cookies, 1)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(cookies[0])
			again, err := reg.Controller(httptest.NewRecorder(), req)
			require.NoError(t, err)
			assert.Same(t, first, again)
		})
	}
}
