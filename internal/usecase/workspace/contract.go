package workspace

import (
	"context"

	domws "github.com/kailas-cloud/cmsconsole/internal/domain/workspace"
)

// Directory lists the organizations and projects a user can access.
type Directory interface {
	ListOrganizations(ctx context.Context) ([]domws.Organization, error)
	ListProjects(ctx context.Context, organizationID string) ([]domws.Project, error)
}

// Store persists one selection per user.
type Store interface {
	Get(ctx context.Context, userID string) (domws.Context, error)
	Save(ctx context.Context, wc domws.Context) error
	Delete(ctx context.Context, userID string) error
}
