package schema

import (
	"context"

	"github.com/kailas-cloud/cmsconsole/internal/domain/changeset"
	"github.com/kailas-cloud/cmsconsole/internal/domain/field"
	domschema "github.com/kailas-cloud/cmsconsole/internal/domain/schema"
)

// Backend is the schema part of the CMS API.
type Backend interface {
	GetSchema(ctx context.Context, projectID, collectionID string) ([]field.Definition, error)
	UpdateSchema(ctx context.Context, projectID, collectionID string, cs changeset.ChangeSet) error
}

// SessionStore persists editor sessions between requests.
type SessionStore interface {
	Save(ctx context.Context, s *domschema.Session) error
	Get(ctx context.Context, id string) (*domschema.Session, error)
	Delete(ctx context.Context, id string) error
}
