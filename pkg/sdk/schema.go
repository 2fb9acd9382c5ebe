package cmsconsole

import (
	"context"
	"fmt"
	"time"
)

// SchemaService edits the schema of one collection.
type SchemaService struct {
	projectID    string
	collectionID string
	svc          schemaUseCase
	obs          *observer
}

// Pull returns the current fields of the collection.
func (s *SchemaService) Pull(ctx context.Context) (_ []Field, err error) {
	start := time.Now()
	defer func() { s.observe("schema.pull", start, err) }()

	sess, err := s.svc.Open(ctx, "", s.projectID, s.collectionID)
	if err != nil {
		return nil, fmt.Errorf("pull schema: %w", err)
	}
	return sess.Fields, nil
}

// Diff returns the change-set that Apply would submit for edited, without
// submitting it. Fields keep their ids from Pull; fields without an id are new.
func (s *SchemaService) Diff(ctx context.Context, edited []Field) (_ ChangeSet, err error) {
	start := time.Now()
	defer func() { s.observe("schema.diff", start, err) }()

	sess, err := s.svc.Open(ctx, "", s.projectID, s.collectionID)
	if err != nil {
		return ChangeSet{}, fmt.Errorf("diff schema: %w", err)
	}
	cs, err := s.svc.Preview(sess, edited)
	if err != nil {
		return ChangeSet{}, fmt.Errorf("diff schema: %w", err)
	}
	return cs, nil
}

// Apply submits the difference between edited and the current schema. An
// empty change-set makes no request.
func (s *SchemaService) Apply(ctx context.Context, edited []Field) (_ ChangeSet, err error) {
	start := time.Now()
	defer func() { s.observe("schema.apply", start, err) }()

	sess, err := s.svc.Open(ctx, "", s.projectID, s.collectionID)
	if err != nil {
		return ChangeSet{}, fmt.Errorf("apply schema: %w", err)
	}
	cs, err := s.svc.Save(ctx, sess, edited)
	if err != nil {
		return cs, fmt.Errorf("apply schema: %w", err)
	}
	s.obs.applied(s.target(), cs)
	return cs, nil
}

func (s *SchemaService) target() target {
	return target{project: s.projectID, collection: s.collectionID}
}

func (s *SchemaService) observe(op string, start time.Time, err error) {
	s.obs.observe(op, s.target(), start, err)
}
