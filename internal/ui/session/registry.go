// Package session maps browser sessions to application controllers.
//
// Each browser gets its own app.Controller (tab, tag selection, form,
// message) while every controller shares the same grant store.
package session

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/grantview/internal/app"
)

// CookieName is the name of the session cookie.
const CookieName = "grantview"

// idKey is the session value holding the controller id.
const idKey = "sid"

// DefaultIdleTTL is how long an unused controller is kept.
const DefaultIdleTTL = 24 * time.Hour

// NewCookieStore creates the cookie store used for browser sessions.
// A blank secret gets a random signing key, so cookies do not outlive
// the process.
func NewCookieStore(secret string) *sessions.CookieStore {
	key := []byte(secret)
	if strings.TrimSpace(secret) == "" {
		key = securecookie.GenerateRandomKey(32)
	}
	store := sessions.NewCookieStore(key)
	store.MaxAge(86400 * 30) // 30 days
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.SameSite = http.SameSiteLaxMode
	return store
}

type entry struct {
	ctrl     *app.Controller
	lastSeen time.Time
}

// Registry hands out one controller per browser session.
type Registry struct {
	cookies sessions.Store
	factory func() *app.Controller
	idleTTL time.Duration
	logger  *slog.Logger
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

// NewRegistry creates a registry. factory builds the controller for a new session.
func NewRegistry(cookies sessions.Store, factory func() *app.Controller, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		cookies: cookies,
		factory: factory,
		idleTTL: DefaultIdleTTL,
		logger:  logger,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

// Controller returns the controller bound to the request's session,
// creating the session (and setting its cookie) when needed. It must be
// called before anything is written to w.
func (r *Registry) Controller(w http.ResponseWriter, req *http.Request) (*app.Controller, error) {
	sess, err := r.cookies.Get(req, CookieName)
	if err != nil {
		// Undecodable cookie (e.g. rotated secret): start over with the fresh session.
		r.logger.Debug("discarding invalid session cookie", "error", err)
	}

	id, _ := sess.Values[idKey].(string)
	if id == "" {
		id = uuid.NewString()
		sess.Values[idKey] = id
		if err := sess.Save(req, w); err != nil {
			return nil, err
		}
	}

	return r.lookup(id), nil
}

func (r *Registry) lookup(id string) *app.Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.pruneLocked(now)

	e, ok := r.entries[id]
	if !ok {
		e = &entry{ctrl: r.factory()}
		r.entries[id] = e
		r.logger.Debug("new browser session", "session", id)
	}
	e.lastSeen = now
	return e.ctrl
}

func (r *Registry) pruneLocked(now time.Time) {
	for id, e := range r.entries {
		if now.Sub(e.lastSeen) > r.idleTTL {
			delete(r.entries, id)
		}
	}
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
