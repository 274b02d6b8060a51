package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/leapstack-labs/grantview/internal/grants"
	"github.com/leapstack-labs/grantview/internal/tagfilter"
	"github.com/leapstack-labs/grantview/pkg/core"
)

// ErrSubmitPending is returned by Submit while a previous submit is running.
var ErrSubmitPending = errors.New("submit already in progress")

// Store is the subset of grants.Store the controller relies on.
type Store interface {
	Refresh(ctx context.Context) error
	Create(ctx context.Context, name, description string) error
	Snapshot() grants.Snapshot
}

// Controller owns one State and mediates every user action.
// All methods are safe for concurrent use; the lock is never held
// across a network call.
type Controller struct {
	store  Store
	logger *slog.Logger

	mu    sync.Mutex
	state State
}

// NewController creates a controller showing the grants tab.
func NewController(store Store, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{
		store:  store,
		logger: logger,
		state:  State{Tab: TabGrants},
	}
}

// Load performs the initial fetch. Failures are logged by the store and
// reflected in the view as a refresh notice.
func (c *Controller) Load(ctx context.Context) {
	_ = c.store.Refresh(ctx)
}

// Refresh refetches the grant list on user request.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.store.Refresh(ctx)
}

// State returns a copy of the current client-only state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetTab switches the visible screen.
func (c *Controller) SetTab(tab Tab) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Tab = tab
}

// SetName updates the form's name field.
func (c *Controller) SetName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Name = name
}

// SetDescription updates the form's description field.
func (c *Controller) SetDescription(description string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Description = description
}

// ToggleTag adds or removes tag from the filter selection.
func (c *Controller) ToggleTag(tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Selected = tagfilter.Toggle(c.state.Selected, tag)
}

// ClearFilters returns to the unfiltered view.
func (c *Controller) ClearFilters() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Selected = tagfilter.Clear(c.state.Selected)
}

// CanSubmit reports whether the submit control should be enabled.
func (c *Controller) CanSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canSubmitLocked()
}

func (c *Controller) canSubmitLocked() bool {
	if c.state.Submitting {
		return false
	}
	return core.NewGrant{Name: c.state.Name, Description: c.state.Description}.Valid()
}

// Submit sends the form to the service. It refuses without any request
// when the form is incomplete or a submit is already running. On success
// the list has been refreshed before the form is cleared; on failure the
// form is kept and the server message is shown.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Submitting {
		c.mu.Unlock()
		return ErrSubmitPending
	}
	if !c.canSubmitLocked() {
		c.mu.Unlock()
		return grants.ErrInvalidGrant
	}
	name, description := c.state.Name, c.state.Description
	c.state.Submitting = true
	c.state.Message = Message{}
	c.mu.Unlock()

	err := c.store.Create(ctx, name, description)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Submitting = false
	if err != nil {
		c.state.Message = Message{Kind: MessageError, Text: ErrorMessagePrefix + grants.UserMessage(err)}
		c.logger.Debug("submit failed", "error", err)
		return err
	}
	c.state.Message = Message{Kind: MessageSuccess, Text: SuccessMessage}
	c.state.Name = ""
	c.state.Description = ""
	return nil
}

// DismissMessage clears the inline message.
func (c *Controller) DismissMessage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Message = Message{}
}
