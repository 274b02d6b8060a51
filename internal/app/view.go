package app

import (
	"github.com/leapstack-labs/grantview/internal/grants"
	"github.com/leapstack-labs/grantview/internal/tagfilter"
	"github.com/leapstack-labs/grantview/pkg/core"
)

// TagChip is a filter toggle as displayed.
type TagChip struct {
	Name     string
	Selected bool
}

// View is an immutable snapshot of everything a presentation layer draws.
// It is derived from the store snapshot and the controller state on every
// call; nothing in it is maintained incrementally.
type View struct {
	Tab Tab

	// Grants is the filtered list in server order
	Grants []core.Grant
	// Total is the unfiltered list size
	Total int
	Tags  []TagChip
	// Selected is the sorted list of selected tags
	Selected []string
	Filtered bool

	Name        string
	Description string
	CanSubmit   bool
	Submitting  bool
	Message     Message

	// Loaded is true once any refresh succeeded
	Loaded bool
	// Notice is a non-blocking warning about the last refresh, if it failed
	Notice string
	// EmptyText explains an empty Grants list
	EmptyText string
	Revision  uint64
}

// View builds the current snapshot.
func (c *Controller) View() View {
	return BuildView(c.store.Snapshot(), c.State())
}

// BuildView derives a View from a store snapshot and a controller state.
func BuildView(snap grants.Snapshot, st State) View {
	list := snap.Grants
	v := View{
		Tab:         st.Tab,
		Grants:      tagfilter.Filtered(list, st.Selected),
		Total:       len(list),
		Selected:    st.Selected.Tags(),
		Filtered:    !st.Selected.IsEmpty(),
		Name:        st.Name,
		Description: st.Description,
		Submitting:  st.Submitting,
		Message:     st.Message,
		Loaded:      snap.Loaded,
		Revision:    snap.Revision,
	}
	v.CanSubmit = !st.Submitting && core.NewGrant{Name: st.Name, Description: st.Description}.Valid()

	v.Tags = make([]TagChip, len(snap.Tags))
	for i, t := range snap.Tags {
		v.Tags[i] = TagChip{Name: t, Selected: st.Selected.Has(t)}
	}

	if snap.RefreshErr != nil {
		v.Notice = RefreshFailedNotice
	}
	if len(v.Grants) == 0 {
		if len(list) == 0 {
			v.EmptyText = EmptyNoGrants
		} else {
			v.EmptyText = EmptyNoMatches
		}
	}
	return v
}
