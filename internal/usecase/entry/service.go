// Package entry loads entries into the dynamic form and saves form values
// back, resolving relationships and uploading files first.
package entry

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cmsconsole/internal/domain"
	domentry "github.com/kailas-cloud/cmsconsole/internal/domain/entry"
	"github.com/kailas-cloud/cmsconsole/internal/domain/field"
	"github.com/kailas-cloud/cmsconsole/internal/domain/form"
	logpkg "github.com/kailas-cloud/cmsconsole/internal/logger"
	"github.com/kailas-cloud/cmsconsole/internal/metrics"
	"github.com/kailas-cloud/cmsconsole/internal/notify"
)

// Scope addresses a collection inside a project.
type Scope struct {
	ProjectID    string
	CollectionID string
}

// Editable is an entry prepared for the form.
type Editable struct {
	Entry  domentry.Entry `json:"entry"`
	Values map[string]any `json:"values"`
	Form   form.Model     `json:"form"`
}

// Service handles entry reads and writes.
type Service struct {
	backend     Backend
	resolvers   Resolvers
	transformer *domentry.Transformer
	notifier    notify.Notifier
}

// New creates an entry service.
func New(backend Backend, resolvers Resolvers, transformer *domentry.Transformer, notifier notify.Notifier) *Service {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Service{backend: backend, resolvers: resolvers, transformer: transformer, notifier: notifier}
}

// Form returns the empty form of a collection, for creating entries.
func (s *Service) Form(ctx context.Context, sc Scope) (form.Model, error) {
	fields, err := s.schema(ctx, sc)
	if err != nil {
		return form.Model{}, err
	}
	m, err := form.Build(fields)
	if err != nil {
		return form.Model{}, fmt.Errorf("build form: %w", err)
	}
	return m, nil
}

// List returns one page of entries. Paging defaults are applied here.
func (s *Service) List(ctx context.Context, sc Scope, p domentry.ListParams) (domentry.Page, error) {
	p = p.Normalized()
	page, err := s.backend.ListEntries(ctx, sc.ProjectID, sc.CollectionID, p)
	if err != nil {
		return domentry.Page{}, fmt.Errorf("list entries: %w: %w", domain.ErrLoadFailed, err)
	}
	if page.Page == 0 {
		page.Page = p.Page
	}
	if page.Limit == 0 {
		page.Limit = p.Limit
	}
	return page, nil
}

// Get loads an entry and converts its working values for the form.
func (s *Service) Get(ctx context.Context, sc Scope, entryID string) (Editable, error) {
	fields, err := s.schema(ctx, sc)
	if err != nil {
		return Editable{}, err
	}
	e, err := s.backend.GetEntry(ctx, sc.ProjectID, sc.CollectionID, entryID)
	if err != nil {
		return Editable{}, fmt.Errorf("load entry: %w: %w", domain.ErrLoadFailed, err)
	}
	values, err := s.transformer.ToForm(e.WorkingData(), fields)
	if err != nil {
		return Editable{}, fmt.Errorf("prepare entry: %w", err)
	}
	m, err := form.Build(fields)
	if err != nil {
		return Editable{}, fmt.Errorf("build form: %w", err)
	}
	return Editable{Entry: e, Values: values, Form: m}, nil
}

// Create stores a new entry, published or as a draft.
func (s *Service) Create(ctx context.Context, sc Scope, values map[string]any, publish bool) (domentry.Entry, error) {
	return s.write(ctx, sc, "create", values, "Entry created", func(data map[string]any) (domentry.Entry, error) {
		return s.backend.CreateEntry(ctx, sc.ProjectID, sc.CollectionID, data, publish)
	})
}

// SaveDraft stores values as the entry's unpublished draft.
func (s *Service) SaveDraft(ctx context.Context, sc Scope, entryID string, values map[string]any) (domentry.Entry, error) {
	return s.write(ctx, sc, "save_draft", values, "Draft saved", func(data map[string]any) (domentry.Entry, error) {
		return s.backend.SaveDraft(ctx, sc.ProjectID, sc.CollectionID, entryID, data)
	})
}

// Publish makes the entry public. With nil values the current draft is published as is.
func (s *Service) Publish(ctx context.Context, sc Scope, entryID string, values map[string]any) (domentry.Entry, error) {
	return s.write(ctx, sc, "publish", values, "Entry published", func(data map[string]any) (domentry.Entry, error) {
		return s.backend.Publish(ctx, sc.ProjectID, sc.CollectionID, entryID, data)
	})
}

// Unpublish withdraws the entry from public view.
func (s *Service) Unpublish(ctx context.Context, sc Scope, entryID string) (domentry.Entry, error) {
	return s.write(ctx, sc, "unpublish", nil, "Entry unpublished", func(map[string]any) (domentry.Entry, error) {
		return s.backend.Unpublish(ctx, sc.ProjectID, sc.CollectionID, entryID)
	})
}

// write runs one save: schema fetch, transform with uploads, submit. Every
// failure is reported to the user and returned so the form keeps its state.
func (s *Service) write(
	ctx context.Context, sc Scope, action string, values map[string]any, success string,
	submit func(data map[string]any) (domentry.Entry, error),
) (domentry.Entry, error) {
	n := notify.FromContext(ctx, s.notifier)
	logger := logpkg.FromContext(ctx).With(
		zap.String("action", action),
		zap.String("project_id", sc.ProjectID),
		zap.String("collection_id", sc.CollectionID),
	)

	fail := func(err error) (domentry.Entry, error) {
		metrics.EntryWritesTotal.WithLabelValues(action, "error").Inc()
		logger.Warn("Entry write failed", zap.Error(err))
		n.Error(domain.UserMessage(err))
		return domentry.Entry{}, err
	}

	// Upload progress goes to the same place as the outcome.
	ctx = notify.ContextWithNotifier(ctx, n)

	var data map[string]any
	if values != nil {
		fields, err := s.schema(ctx, sc)
		if err != nil {
			return fail(err)
		}
		data, err = s.transformer.ToStorage(ctx, values, fields, s.resolvers.ForProject(sc.ProjectID))
		if err != nil {
			return fail(fmt.Errorf("prepare entry: %w", err))
		}
	}

	e, err := submit(data)
	if err != nil {
		return fail(fmt.Errorf("%s entry: %w", action, err))
	}

	metrics.EntryWritesTotal.WithLabelValues(action, "ok").Inc()
	logger.Info("Entry written", zap.String("entry_id", e.ID))
	n.Success(success)
	return e, nil
}

func (s *Service) schema(ctx context.Context, sc Scope) ([]field.Definition, error) {
	fields, err := s.backend.GetSchema(ctx, sc.ProjectID, sc.CollectionID)
	if err != nil {
		return nil, fmt.Errorf("load schema: %w: %w", domain.ErrLoadFailed, err)
	}
	return fields, nil
}
