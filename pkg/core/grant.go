package core

import "strings"

// Grant is a named opportunity record as returned by the grants service.
// Identity is positional; the client never assigns ids or edits a grant.
type Grant struct {
	// Name is the grant title
	Name string `json:"grant_name" yaml:"grant_name"`
	// Description is the free-text grant description
	Description string `json:"grant_description" yaml:"grant_description"`
	// Tags are server-assigned classification labels (may be empty)
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// HasAnyTag reports whether the grant carries at least one of the given tags.
func (g Grant) HasAnyTag(tags map[string]struct{}) bool {
	for _, t := range g.Tags {
		if _, ok := tags[t]; ok {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the grant.
func (g Grant) Clone() Grant {
	c := g
	if g.Tags != nil {
		c.Tags = append([]string(nil), g.Tags...)
	}
	return c
}

// CloneGrants returns a deep copy of a grant list. A nil list yields an empty one.
func CloneGrants(list []Grant) []Grant {
	out := make([]Grant, len(list))
	for i, g := range list {
		out[i] = g.Clone()
	}
	return out
}

// NewGrant is the payload of a create request.
type NewGrant struct {
	Name        string `json:"grant_name"`
	Description string `json:"grant_description"`
}

// Trimmed returns a copy with surrounding whitespace removed from both fields.
func (n NewGrant) Trimmed() NewGrant {
	return NewGrant{
		Name:        strings.TrimSpace(n.Name),
		Description: strings.TrimSpace(n.Description),
	}
}

// Valid reports whether both fields are present after trimming.
func (n NewGrant) Valid() bool {
	t := n.Trimmed()
	return t.Name != "" && t.Description != ""
}

// GrantList is the envelope of GET /api/grants.
// A missing grants field decodes to a nil slice and is treated as empty.
type GrantList struct {
	Grants []Grant `json:"grants"`
}

// CreateGrantRequest is the envelope of POST /api/grants.
type CreateGrantRequest struct {
	Grant NewGrant `json:"grant"`
}

// ErrorResponse is the body the service returns on failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Health is the decoded response of GET /api/health.
type Health struct {
	Status      string `json:"status" yaml:"status"`
	Database    string `json:"database,omitempty" yaml:"database,omitempty"`
	GroqAPI     string `json:"groq_api,omitempty" yaml:"groq_api,omitempty"`
	GrantsCount int    `json:"grants_count,omitempty" yaml:"grants_count,omitempty"`
	Error       string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Healthy reports whether the service described itself as healthy.
func (h Health) Healthy() bool {
	return h.Status == "healthy"
}
