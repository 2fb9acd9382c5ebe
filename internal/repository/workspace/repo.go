// Package workspace persists each user's selected organization and project
// as a hash keyed by user id.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/cmsconsole/internal/db"
	"github.com/kailas-cloud/cmsconsole/internal/domain"
	domws "github.com/kailas-cloud/cmsconsole/internal/domain/workspace"
)

const (
	fieldOrganization = "organization_id"
	fieldProject      = "project_id"
	fieldSelectedAt   = "selected_at"
)

// store is the consumer interface for workspace selections (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string, ttl time.Duration) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
}

// Repo implements usecase/workspace.Store.
type Repo struct {
	store store
	ttl   time.Duration
}

// New creates a workspace repository. A zero ttl keeps selections until cleared.
func New(s store, ttl time.Duration) *Repo {
	return &Repo{store: s, ttl: ttl}
}

// Get returns the user's selection, or domain.ErrNoWorkspace.
func (r *Repo) Get(ctx context.Context, userID string) (domws.Context, error) {
	m, err := r.store.HGetAll(ctx, workspaceKey(userID))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domws.Context{}, domain.ErrNoWorkspace
		}
		return domws.Context{}, fmt.Errorf("get workspace %s: %w", userID, err)
	}

	wc := domws.Context{
		UserID:         userID,
		OrganizationID: m[fieldOrganization],
		ProjectID:      m[fieldProject],
	}
	if wc.IsZero() {
		return domws.Context{}, domain.ErrNoWorkspace
	}
	if ts := m[fieldSelectedAt]; ts != "" {
		if at, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			wc.SelectedAt = at
		}
	}
	return wc, nil
}

// Save replaces the user's selection.
func (r *Repo) Save(ctx context.Context, wc domws.Context) error {
	fields := map[string]string{
		fieldOrganization: wc.OrganizationID,
		fieldSelectedAt:   wc.SelectedAt.UTC().Format(time.RFC3339Nano),
	}
	if wc.ProjectID != "" {
		fields[fieldProject] = wc.ProjectID
	}
	if err := r.store.HSet(ctx, workspaceKey(wc.UserID), fields, r.ttl); err != nil {
		return fmt.Errorf("save workspace %s: %w", wc.UserID, err)
	}
	return nil
}

// Delete forgets the user's selection.
func (r *Repo) Delete(ctx context.Context, userID string) error {
	if err := r.store.Del(ctx, workspaceKey(userID)); err != nil {
		return fmt.Errorf("delete workspace %s: %w", userID, err)
	}
	return nil
}

func workspaceKey(userID string) string {
	return fmt.Sprintf("%sworkspace:%s", domain.KeyPrefix, userID)
}
