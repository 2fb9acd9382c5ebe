// Package workspace manages the organization and project a user works in.
// The selection is stored per user so it survives reloads and restarts.
package workspace

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cmsconsole/internal/domain"
	domws "github.com/kailas-cloud/cmsconsole/internal/domain/workspace"
	logpkg "github.com/kailas-cloud/cmsconsole/internal/logger"
)

// Service handles workspace selection.
type Service struct {
	dir   Directory
	store Store
	now   func() time.Time
}

// New creates a workspace service.
func New(dir Directory, store Store) *Service {
	return &Service{dir: dir, store: store, now: time.Now}
}

// Organizations lists the organizations visible to the caller.
func (s *Service) Organizations(ctx context.Context) ([]domws.Organization, error) {
	orgs, err := s.dir.ListOrganizations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w: %w", domain.ErrLoadFailed, err)
	}
	return orgs, nil
}

// Projects lists the projects of an organization.
func (s *Service) Projects(ctx context.Context, organizationID string) ([]domws.Project, error) {
	projects, err := s.dir.ListProjects(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w: %w", domain.ErrLoadFailed, err)
	}
	return projects, nil
}

// Select checks that the organization (and project, when given) is visible
// to the caller, then stores it as the user's current workspace.
func (s *Service) Select(ctx context.Context, userID, organizationID, projectID string) (domws.Context, error) {
	if userID == "" {
		return domws.Context{}, domain.ErrUnauthorized
	}

	orgs, err := s.Organizations(ctx)
	if err != nil {
		return domws.Context{}, err
	}
	if !containsOrg(orgs, organizationID) {
		return domws.Context{}, fmt.Errorf("organization %q: %w", organizationID, domain.ErrNotFound)
	}

	if projectID != "" {
		projects, err := s.Projects(ctx, organizationID)
		if err != nil {
			return domws.Context{}, err
		}
		if !containsProject(projects, projectID) {
			return domws.Context{}, fmt.Errorf("project %q: %w", projectID, domain.ErrNotFound)
		}
	}

	wc := domws.Context{
		UserID:         userID,
		OrganizationID: organizationID,
		ProjectID:      projectID,
		SelectedAt:     s.now().UTC(),
	}
	if err := s.store.Save(ctx, wc); err != nil {
		return domws.Context{}, fmt.Errorf("save workspace: %w", err)
	}

	logpkg.FromContext(ctx).Info("Workspace selected",
		zap.String("user_id", userID),
		zap.String("organization_id", organizationID),
		zap.String("project_id", projectID),
	)
	return wc, nil
}

// Current returns the stored selection, or domain.ErrNoWorkspace.
func (s *Service) Current(ctx context.Context, userID string) (domws.Context, error) {
	wc, err := s.store.Get(ctx, userID)
	if err != nil {
		return domws.Context{}, fmt.Errorf("get workspace: %w", err)
	}
	return wc, nil
}

// Clear forgets the selection, typically on logout.
func (s *Service) Clear(ctx context.Context, userID string) error {
	if err := s.store.Delete(ctx, userID); err != nil {
		return fmt.Errorf("clear workspace: %w", err)
	}
	return nil
}

func containsOrg(orgs []domws.Organization, id string) bool {
	for _, o := range orgs {
		if o.ID == id {
			return true
		}
	}
	return false
}

func containsProject(projects []domws.Project, id string) bool {
	for _, p := range projects {
		if p.ID == id {
			return true
		}
	}
	return false
}
