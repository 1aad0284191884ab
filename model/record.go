package model

import (
	"strings"
	"time"
)

// Record holds what blueprints and contracts share: identity, naming and
// timestamps assigned by the store.
type Record struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DescriptionText returns the description, or "" when there is none.
func (r Record) DescriptionText() string {
	if r.Description == nil {
		return ""
	}
	return *r.Description
}

// Matches reports whether query occurs, ignoring case, in the name or the
// description. An empty query matches everything.
func (r Record) Matches(query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.Name), query) ||
		strings.Contains(strings.ToLower(r.DescriptionText()), query)
}

// OptionalString turns an empty (or blank) string into nil.
func OptionalString(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func (r Record) clone() Record {
	if r.Description != nil {
		d := *r.Description
		r.Description = &d
	}
	return r
}

func (r Record) validate(p *problems, kind string) {
	if strings.TrimSpace(r.Name) == "" {
		p.addf("%s name is required", kind)
	}
}
