package grants

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/leapstack-labs/grantview/internal/tagfilter"
	"github.com/leapstack-labs/grantview/pkg/core"
)

// StoreConfig holds configuration for a Store.
type StoreConfig struct {
	Service Service
	Logger  *slog.Logger
	// OnChange, if set, is called after every applied refresh, successful or not.
	OnChange func()
}

// Snapshot is a consistent copy of the store state. Grants and Tags always
// come from the same completed fetch.
type Snapshot struct {
	Grants []core.Grant
	Tags   []string
	// Loaded is true once at least one refresh has succeeded
	Loaded bool
	// RefreshErr is the error of the most recent refresh, nil if it succeeded
	RefreshErr error
	// Revision increments on every applied refresh
	Revision uint64
}

// Store is the single source of truth for the grant list.
type Store struct {
	service  Service
	logger   *slog.Logger
	onChange func()

	mu         sync.RWMutex
	grants     []core.Grant
	tags       []string
	loaded     bool
	refreshErr error
	revision   uint64
	// applied is the ticket of the newest refresh whose result was applied
	applied uint64

	tickets  atomic.Uint64
	creating atomic.Bool
}

// NewStore creates an empty store backed by cfg.Service.
func NewStore(cfg StoreConfig) *Store {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		service:  cfg.Service,
		logger:   logger,
		onChange: cfg.OnChange,
		grants:   []core.Grant{},
		tags:     []string{},
	}
}

// SetOnChange replaces the change hook. It must be called before the store
// is shared between goroutines.
func (s *Store) SetOnChange(fn func()) {
	s.onChange = fn
}

// Refresh replaces the local list with the service's current list.
// On failure the previous list is kept, the failure is logged and
// recorded in the snapshot, and the error is returned.
//
// A response that arrives after a newer refresh has already been applied
// is discarded.
func (s *Store) Refresh(ctx context.Context) error {
	ticket := s.tickets.Add(1)

	list, err := s.service.ListGrants(ctx)
	if err != nil {
		s.logger.Warn("refresh grants failed, keeping previous list", "error", err)
	}

	s.mu.Lock()
	if ticket < s.applied {
		s.mu.Unlock()
		s.logger.Debug("discarding stale refresh", "ticket", ticket)
		return err
	}
	s.applied = ticket
	s.revision++
	if err != nil {
		s.refreshErr = err
	} else {
		s.grants = core.CloneGrants(list)
		s.tags = tagfilter.AllTags(s.grants)
		s.loaded = true
		s.refreshErr = nil
	}
	count := len(s.grants)
	s.mu.Unlock()

	if err == nil {
		s.logger.Debug("grants refreshed", "count", count)
	}
	s.notify()

	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	return nil
}

// Create validates and submits a new grant, then refreshes so the list
// reflects server-assigned tags. Fields are checked after trimming but
// sent as given. On failure the local list is untouched,
// no refresh is issued and nothing is retried.
//
// Only one create may be in flight; a concurrent call returns
// ErrCreateInFlight without contacting the service.
func (s *Store) Create(ctx context.Context, name, description string) error {
	grant := core.NewGrant{Name: name, Description: description}
	if !grant.Valid() {
		return ErrInvalidGrant
	}

	if !s.creating.CompareAndSwap(false, true) {
		return ErrCreateInFlight
	}
	defer s.creating.Store(false)

	if err := s.service.CreateGrant(ctx, grant); err != nil {
		s.logger.Warn("create grant failed", "name", grant.Name, "error", err)
		return err
	}
	s.logger.Info("grant created", "name", grant.Name)

	// Read failures are already logged and recorded by Refresh; the create
	// itself succeeded.
	_ = s.Refresh(ctx)
	return nil
}

// Creating reports whether a create request is pending.
func (s *Store) Creating() bool {
	return s.creating.Load()
}

// Snapshot returns a consistent copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Grants:     core.CloneGrants(s.grants),
		Tags:       append([]string{}, s.tags...),
		Loaded:     s.loaded,
		RefreshErr: s.refreshErr,
		Revision:   s.revision,
	}
}

func (s *Store) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}
