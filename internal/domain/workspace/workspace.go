// Package workspace models the organization and project a user is working in.
package workspace

import (
	"context"
	"time"

	"github.com/kailas-cloud/cmsconsole/internal/domain"
)

// Organization is a client tenant.
type Organization struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// Project is a hosted project inside an organization.
type Project struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organizationId"`
	Name           string `json:"name"`
}

// Context is the current selection of one authenticated user. It is carried
// explicitly through request contexts and persisted per user.
type Context struct {
	UserID         string    `json:"userId"`
	OrganizationID string    `json:"organizationId"`
	ProjectID      string    `json:"projectId,omitempty"`
	SelectedAt     time.Time `json:"selectedAt,omitzero"`
}

// IsZero reports whether no organization is selected.
func (c Context) IsZero() bool { return c.OrganizationID == "" }

type ctxKey struct{}

// WithContext attaches the workspace selection to ctx.
func WithContext(ctx context.Context, wc Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, wc)
}

// FromContext returns the workspace selection attached to ctx, or
// domain.ErrNoWorkspace.
func FromContext(ctx context.Context) (Context, error) {
	wc, ok := ctx.Value(ctxKey{}).(Context)
	if !ok || wc.IsZero() {
		return Context{}, domain.ErrNoWorkspace
	}
	return wc, nil
}
