// Package entry holds collection records and converts their values between
// the storage shape and the shape the entry form edits.
package entry

import (
	"maps"
	"time"
)

// Entry is one record of a collection.
type Entry struct {
	ID        string         `json:"id"`
	Data      map[string]any `json:"data,omitempty"`
	DataDraft map[string]any `json:"dataDraft,omitempty"`
	Published bool           `json:"published"`
	CreatedAt time.Time      `json:"createdAt,omitzero"`
	UpdatedAt time.Time      `json:"updatedAt,omitzero"`
}

// WorkingData returns a copy of the values the editor starts from: the
// unpublished draft when one exists, the published data otherwise.
func (e Entry) WorkingData() map[string]any {
	src := e.Data
	if e.DataDraft != nil {
		src = e.DataDraft
	}
	if src == nil {
		return map[string]any{}
	}
	return maps.Clone(src)
}

// HasDraft reports whether the entry carries unpublished changes.
func (e Entry) HasDraft() bool { return e.DataDraft != nil }

// List pagination defaults.
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// ListParams filters and pages an entry listing.
type ListParams struct {
	Search string
	Page   int
	Limit  int
}

// Normalized fills defaults and clamps the limit.
func (p ListParams) Normalized() ListParams {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Page is one page of a listing.
type Page struct {
	Items []Entry `json:"items"`
	Total int     `json:"total"`
	Page  int     `json:"page"`
	Limit int     `json:"limit"`
}
