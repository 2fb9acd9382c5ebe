// Package schema runs the schema editor: load a collection schema, keep the
// user's edits, and submit the diff against the load-time snapshot.
package schema

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cmsconsole/internal/domain"
	"github.com/kailas-cloud/cmsconsole/internal/domain/changeset"
	"github.com/kailas-cloud/cmsconsole/internal/domain/field"
	domschema "github.com/kailas-cloud/cmsconsole/internal/domain/schema"
	logpkg "github.com/kailas-cloud/cmsconsole/internal/logger"
	"github.com/kailas-cloud/cmsconsole/internal/metrics"
	"github.com/kailas-cloud/cmsconsole/internal/notify"
)

// Service handles schema editing sessions.
type Service struct {
	backend  Backend
	store    SessionStore
	notifier notify.Notifier
	now      func() time.Time
	newID    func() string
	localID  func() string
}

// New creates a schema editor service. store may be nil for one-shot use
// (the CLI), in which case sessions live only in memory.
func New(backend Backend, store SessionStore, notifier notify.Notifier) *Service {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Service{
		backend:  backend,
		store:    store,
		notifier: notifier,
		now:      time.Now,
		newID:    uuid.NewString,
		localID:  field.NewLocalID,
	}
}

// Open loads the collection schema and starts a session on it.
func (s *Service) Open(ctx context.Context, userID, projectID, collectionID string) (*domschema.Session, error) {
	defs, err := s.backend.GetSchema(ctx, projectID, collectionID)
	if err != nil {
		return nil, fmt.Errorf("load schema: %w: %w", domain.ErrLoadFailed, err)
	}

	sess := domschema.NewSession(s.newID(), userID, projectID, collectionID, defs, s.now())
	if err := s.persist(ctx, sess); err != nil {
		return nil, err
	}

	logpkg.FromContext(ctx).Debug("Schema session opened",
		zap.String("session_id", sess.ID),
		zap.String("project_id", projectID),
		zap.String("collection_id", collectionID),
		zap.Int("fields", len(defs)),
	)
	return sess, nil
}

// Get restores a stored session. Sessions of another user are reported as missing.
func (s *Service) Get(ctx context.Context, userID, sessionID string) (*domschema.Session, error) {
	if s.store == nil {
		return nil, domain.ErrSessionNotFound
	}
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if sess.UserID != userID {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

// Discard drops a stored session.
func (s *Service) Discard(ctx context.Context, sessionID string) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("discard session: %w", err)
	}
	return nil
}

// Preview validates edited and returns the change-set Save would submit.
func (s *Service) Preview(sess *domschema.Session, edited []domschema.EditableField) (changeset.ChangeSet, error) {
	edited = s.prepare(edited)
	if err := field.Validate(domschema.Definitions(edited)); err != nil {
		return changeset.ChangeSet{}, err
	}
	return changeset.Diff(edited, sess.Snapshot), nil
}

// Save submits the difference between edited and the session snapshot.
//
// On any failure the edits become the session's working fields and the
// snapshot is left alone, so nothing typed by the user is lost. After a
// successful save the schema is re-fetched and replaces both.
func (s *Service) Save(
	ctx context.Context, sess *domschema.Session, edited []domschema.EditableField,
) (changeset.ChangeSet, error) {
	n := notify.FromContext(ctx, s.notifier)
	logger := logpkg.FromContext(ctx).With(zap.String("session_id", sess.ID))
	edited = s.prepare(edited)

	if err := field.Validate(domschema.Definitions(edited)); err != nil {
		s.keep(ctx, sess, edited)
		metrics.SchemaSavesTotal.WithLabelValues("error").Inc()
		n.Error(domain.UserMessage(err))
		return changeset.ChangeSet{}, err
	}

	cs := changeset.Diff(edited, sess.Snapshot)
	if cs.IsEmpty() {
		s.keep(ctx, sess, edited)
		metrics.SchemaSavesTotal.WithLabelValues("noop").Inc()
		n.Info("No changes to save")
		return cs, nil
	}

	if err := s.backend.UpdateSchema(ctx, sess.ProjectID, sess.CollectionID, cs); err != nil {
		s.keep(ctx, sess, edited)
		metrics.SchemaSavesTotal.WithLabelValues("error").Inc()
		logger.Warn("Schema update rejected", zap.Stringer("changes", cs), zap.Error(err))
		n.Error(domain.UserMessage(err))
		return cs, fmt.Errorf("update schema: %w", err)
	}

	metrics.SchemaSavesTotal.WithLabelValues("ok").Inc()
	metrics.SchemaChangesTotal.WithLabelValues("create").Add(float64(len(cs.ToCreate)))
	metrics.SchemaChangesTotal.WithLabelValues("update").Add(float64(len(cs.ToUpdate)))
	metrics.SchemaChangesTotal.WithLabelValues("delete").Add(float64(len(cs.ToDelete)))
	logger.Info("Schema updated", zap.Stringer("changes", cs))
	n.Success("Schema saved")

	defs, err := s.backend.GetSchema(ctx, sess.ProjectID, sess.CollectionID)
	if err != nil {
		// The snapshot no longer matches the backend; force a reopen.
		_ = s.Discard(ctx, sess.ID)
		return cs, fmt.Errorf("reload schema: %w: %w", domain.ErrLoadFailed, err)
	}
	sess.Reload(defs, s.now())
	if err := s.persist(ctx, sess); err != nil {
		return cs, err
	}
	return cs, nil
}

// prepare copies edited, assigns local ids to new fields and renumbers positions.
func (s *Service) prepare(edited []domschema.EditableField) []domschema.EditableField {
	out := domschema.CloneFields(edited)
	domschema.AssignLocalIDs(out, s.localID)
	domschema.Reindex(out)
	return out
}

func (s *Service) keep(ctx context.Context, sess *domschema.Session, edited []domschema.EditableField) {
	sess.Keep(edited, s.now())
	if err := s.persist(ctx, sess); err != nil {
		logpkg.FromContext(ctx).Error("Failed to keep schema edits",
			zap.String("session_id", sess.ID), zap.Error(err))
	}
}

func (s *Service) persist(ctx context.Context, sess *domschema.Session) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

