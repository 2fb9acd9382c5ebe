package entry

import (
	"context"

	domentry "github.com/kailas-cloud/cmsconsole/internal/domain/entry"
	"github.com/kailas-cloud/cmsconsole/internal/domain/field"
)

// Backend is the entry part of the CMS API.
type Backend interface {
	GetSchema(ctx context.Context, projectID, collectionID string) ([]field.Definition, error)
	ListEntries(ctx context.Context, projectID, collectionID string, p domentry.ListParams) (domentry.Page, error)
	GetEntry(ctx context.Context, projectID, collectionID, entryID string) (domentry.Entry, error)
	CreateEntry(ctx context.Context, projectID, collectionID string, data map[string]any, publish bool) (domentry.Entry, error)
	SaveDraft(ctx context.Context, projectID, collectionID, entryID string, data map[string]any) (domentry.Entry, error)
	Publish(ctx context.Context, projectID, collectionID, entryID string, data map[string]any) (domentry.Entry, error)
	Unpublish(ctx context.Context, projectID, collectionID, entryID string) (domentry.Entry, error)
}

// Resolvers hands out file resolvers bound to a project.
type Resolvers interface {
	ForProject(projectID string) domentry.FileResolver
}
