// Package tagfilter derives the tag set and the filtered grant view from a
// grant list. Every function is pure: no I/O, no shared state, and inputs
// are never mutated.
package tagfilter

import (
	"sort"

	"github.com/leapstack-labs/grantview/pkg/core"
)

// Selection is an immutable set of tags chosen for filtering.
// The zero value is the empty (unfiltered) selection.
type Selection struct {
	tags map[string]struct{}
}

// NewSelection builds a selection from the given tags, ignoring duplicates.
func NewSelection(tags ...string) Selection {
	if len(tags) == 0 {
		return Selection{}
	}
	m := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		m[t] = struct{}{}
	}
	return Selection{tags: m}
}

// Has reports whether tag is selected.
func (s Selection) Has(tag string) bool {
	_, ok := s.tags[tag]
	return ok
}

// Len returns the number of selected tags.
func (s Selection) Len() int {
	return len(s.tags)
}

// IsEmpty reports whether the selection is in the unfiltered mode.
func (s Selection) IsEmpty() bool {
	return len(s.tags) == 0
}

// Tags returns the selected tags sorted lexicographically.
func (s Selection) Tags() []string {
	out := make([]string, 0, len(s.tags))
	for t := range s.tags {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Equal reports whether both selections contain the same tags.
func (s Selection) Equal(other Selection) bool {
	if len(s.tags) != len(other.tags) {
		return false
	}
	for t := range s.tags {
		if !other.Has(t) {
			return false
		}
	}
	return true
}

// AllTags returns the sorted, duplicate-free union of every grant's tags.
func AllTags(list []core.Grant) []string {
	seen := make(map[string]struct{})
	for _, g := range list {
		for _, t := range g.Tags {
			seen[t] = struct{}{}
		}
	}
	tags := make([]string, 0, len(seen))
	for t := range seen {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// Toggle returns a new selection with tag removed if present, added if absent.
func Toggle(selected Selection, tag string) Selection {
	next := make(map[string]struct{}, len(selected.tags)+1)
	for t := range selected.tags {
		next[t] = struct{}{}
	}
	if _, ok := next[tag]; ok {
		delete(next, tag)
	} else {
		next[tag] = struct{}{}
	}
	if len(next) == 0 {
		return Selection{}
	}
	return Selection{tags: next}
}

// Clear returns the empty selection.
func Clear(Selection) Selection {
	return Selection{}
}

// Filtered returns list unchanged when nothing is selected. Otherwise it
// returns, in order, the grants carrying at least one selected tag.
func Filtered(list []core.Grant, selected Selection) []core.Grant {
	if selected.IsEmpty() {
		return list
	}
	out := make([]core.Grant, 0, len(list))
	for _, g := range list {
		if g.HasAnyTag(selected.tags) {
			out = append(out, g)
		}
	}
	return out
}
