package cmsconsole

import (
	"context"
	"fmt"
	"time"

	entryuc "github.com/kailas-cloud/cmsconsole/internal/usecase/entry"
)

// EntryService reads and writes the entries of one collection. Values are
// in form shape: relationships may be objects with an "id", and file fields
// may hold NewFile values, uploaded before the entry is submitted.
type EntryService struct {
	scope entryuc.Scope
	svc   entryUseCase
	obs   *observer
}

// Form returns the form model of the collection.
func (s *EntryService) Form(ctx context.Context) (_ Form, err error) {
	start := time.Now()
	defer func() { s.observe("entries.form", start, err) }()

	m, err := s.svc.Form(ctx, s.scope)
	if err != nil {
		return Form{}, fmt.Errorf("entry form: %w", err)
	}
	return m, nil
}

// List returns one page of entries.
func (s *EntryService) List(ctx context.Context, p ListParams) (_ EntryPage, err error) {
	start := time.Now()
	defer func() { s.observe("entries.list", start, err) }()

	page, err := s.svc.List(ctx, s.scope, p)
	if err != nil {
		return EntryPage{}, fmt.Errorf("list entries: %w", err)
	}
	return page, nil
}

// Get loads an entry with its draft values prepared for editing.
func (s *EntryService) Get(ctx context.Context, entryID string) (_ EditableEntry, err error) {
	start := time.Now()
	defer func() { s.observe("entries.get", start, err) }()

	ed, err := s.svc.Get(ctx, s.scope, entryID)
	if err != nil {
		return EditableEntry{}, fmt.Errorf("get entry: %w", err)
	}
	return EditableEntry{Entry: ed.Entry, Values: ed.Values, Form: ed.Form}, nil
}

// Create stores a new entry, published or as a draft.
func (s *EntryService) Create(ctx context.Context, values map[string]any, publish bool) (_ Entry, err error) {
	start := time.Now()
	defer func() { s.observe("entries.create", start, err) }()

	e, err := s.svc.Create(ctx, s.scope, values, publish)
	if err != nil {
		return Entry{}, fmt.Errorf("create entry: %w", err)
	}
	return e, nil
}

// SaveDraft stores values as the entry's unpublished draft.
func (s *EntryService) SaveDraft(ctx context.Context, entryID string, values map[string]any) (_ Entry, err error) {
	start := time.Now()
	defer func() { s.observe("entries.save_draft", start, err) }()

	e, err := s.svc.SaveDraft(ctx, s.scope, entryID, values)
	if err != nil {
		return Entry{}, fmt.Errorf("save draft: %w", err)
	}
	return e, nil
}

// Publish makes the entry public. With nil values the stored draft is published.
func (s *EntryService) Publish(ctx context.Context, entryID string, values map[string]any) (_ Entry, err error) {
	start := time.Now()
	defer func() { s.observe("entries.publish", start, err) }()

	e, err := s.svc.Publish(ctx, s.scope, entryID, values)
	if err != nil {
		return Entry{}, fmt.Errorf("publish entry: %w", err)
	}
	return e, nil
}

// Unpublish withdraws the entry from public view.
func (s *EntryService) Unpublish(ctx context.Context, entryID string) (_ Entry, err error) {
	start := time.Now()
	defer func() { s.observe("entries.unpublish", start, err) }()

	e, err := s.svc.Unpublish(ctx, s.scope, entryID)
	if err != nil {
		return Entry{}, fmt.Errorf("unpublish entry: %w", err)
	}
	return e, nil
}

func (s *EntryService) observe(op string, start time.Time, err error) {
	s.obs.observe(op, target{project: s.scope.ProjectID, collection: s.scope.CollectionID}, start, err)
}
