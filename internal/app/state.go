// Package app holds the application state shared by every presentation
// layer: the active tab, the tag selection, the add-grant form and the
// last user-facing message. A Controller owns that state and turns it,
// together with the grant store, into immutable View snapshots.
package app

import "github.com/leapstack-labs/grantview/internal/tagfilter"

// Tab identifies the visible screen.
type Tab string

// Tab constants.
const (
	TabGrants Tab = "grants"
	TabAdd    Tab = "add"
)

// ParseTab converts a string to a Tab, reporting whether it was known.
func ParseTab(s string) (Tab, bool) {
	switch Tab(s) {
	case TabGrants, TabAdd:
		return Tab(s), true
	default:
		return "", false
	}
}

// MessageKind classifies a user-facing message.
type MessageKind string

// Message kinds.
const (
	MessageNone    MessageKind = ""
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
)

// Message is the inline feedback shown after a submit.
type Message struct {
	Kind MessageKind
	Text string
}

// IsZero reports whether there is nothing to show.
func (m Message) IsZero() bool {
	return m.Text == ""
}

// User-facing texts.
const (
	SuccessMessage      = "Grant added successfully!"
	ErrorMessagePrefix  = "Error adding grant: "
	RefreshFailedNotice = "Could not refresh grants; showing the last loaded list."
	EmptyNoGrants       = `No grants added yet. Go to "Add Grants" to get started.`
	EmptyNoMatches      = "No grants match the selected filters."
)

// State is the client-only application state. Nothing here is ever sent
// to the grants service except the form fields on submit.
type State struct {
	Tab         Tab
	Selected    tagfilter.Selection
	Name        string
	Description string
	Submitting  bool
	Message     Message
}
