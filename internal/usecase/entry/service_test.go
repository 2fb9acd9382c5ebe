package entry

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kailas-cloud/cmsconsole/internal/domain"
	domentry "github.com/kailas-cloud/cmsconsole/internal/domain/entry"
	"github.com/kailas-cloud/cmsconsole/internal/domain/field"
	"github.com/kailas-cloud/cmsconsole/internal/domain/file"
	"github.com/kailas-cloud/cmsconsole/internal/metrics"
	"github.com/kailas-cloud/cmsconsole/internal/notify"
	"github.com/kailas-cloud/cmsconsole/internal/usecase/upload"
)

func TestMain(m *testing.M) {
	metrics.RegisterConsoleMetrics()
	os.Exit(m.Run())
}

// --- Mocks ---

type mockBackend struct {
	fields    []field.Definition
	schemaErr error
	entry     domentry.Entry
	entryErr  error
	writeErr  error

	listParams domentry.ListParams
	written    map[string]any
	published  bool
	actions    []string
}

func (m *mockBackend) GetSchema(context.Context, string, string) ([]field.Definition, error) {
	return m.fields, m.schemaErr
}

func (m *mockBackend) ListEntries(_ context.Context, _, _ string, p domentry.ListParams) (domentry.Page, error) {
	m.listParams = p
	return domentry.Page{Items: []domentry.Entry{m.entry}, Total: 1}, m.entryErr
}

func (m *mockBackend) GetEntry(context.Context, string, string, string) (domentry.Entry, error) {
	return m.entry, m.entryErr
}

func (m *mockBackend) CreateEntry(_ context.Context, _, _ string, data map[string]any, publish bool) (domentry.Entry, error) {
	m.actions = append(m.actions, "create")
	m.written, m.published = data, publish
	return domentry.Entry{ID: "e1", Data: data, Published: publish}, m.writeErr
}

func (m *mockBackend) SaveDraft(_ context.Context, _, _, id string, data map[string]any) (domentry.Entry, error) {
	m.actions = append(m.actions, "draft")
	m.written = data
	return domentry.Entry{ID: id, DataDraft: data}, m.writeErr
}

func (m *mockBackend) Publish(_ context.Context, _, _, id string, data map[string]any) (domentry.Entry, error) {
	m.actions = append(m.actions, "publish")
	m.written = data
	return domentry.Entry{ID: id, Published: true}, m.writeErr
}

func (m *mockBackend) Unpublish(_ context.Context, _, _, id string) (domentry.Entry, error) {
	m.actions = append(m.actions, "unpublish")
	return domentry.Entry{ID: id}, m.writeErr
}

type mockUploader struct {
	names []string
	err   error
}

func (m *mockUploader) UploadFile(_ context.Context, _ string, f *file.Pending) (file.Ref, error) {
	m.names = append(m.names, f.Name())
	if m.err != nil {
		return nil, m.err
	}
	return file.Ref{"key": "uploads/" + f.Name()}, nil
}

type userError struct{ msg string }

func (e *userError) Error() string       { return e.msg }
func (e *userError) UserMessage() string { return e.msg }

var scope = Scope{ProjectID: "p1", CollectionID: "posts"}

func postFields() []field.Definition {
	rel := field.Definition{FieldConfig: field.Config{Key: "author", Type: field.Relationship}}
	rel.ConfigOptions.RelationshipConfig = &field.RelationshipConfig{RelatedCollectionID: "users"}
	return []field.Definition{
		{FieldConfig: field.Config{Key: "title", Type: field.String}},
		rel,
		{FieldConfig: field.Config{Key: "cover", Type: field.File}},
		{FieldConfig: field.Config{Key: "attachments", Type: field.File}},
	}
}

func newService(b *mockBackend, up *mockUploader, rec *notify.Recorder) *Service {
	var n notify.Notifier
	if rec != nil {
		n = rec
	}
	return New(b, upload.New(up, nil), domentry.NewTransformer("https://cdn.example.com"), n)
}

// --- Tests ---

func TestCreate_TransformsAndUploads(t *testing.T) {
	b := &mockBackend{fields: postFields()}
	up := &mockUploader{}
	rec := notify.NewRecorder()
	svc := newService(b, up, rec)

	values := map[string]any{
		"title":  "Hello",
		"author": map[string]any{"id": "u42", "name": "Jane"},
		"cover":  map[string]any{"file": file.NewPending("cover.jpg", "image/jpeg", []byte("x")), "id": "local-1"},
		"attachments": []any{
			map[string]any{"file": file.NewPending("a.pdf", "application/pdf", []byte("a"))},
			map[string]any{"file": file.NewPending("b.pdf", "application/pdf", []byte("b"))},
		},
	}
	e, err := svc.Create(context.Background(), scope, values, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.ID != "e1" || !b.published {
		t.Errorf("entry = %+v", e)
	}

	want := map[string]any{
		"title":       "Hello",
		"author":      "u42",
		"cover":       map[string]any{"key": "uploads/cover.jpg"},
		"attachments": []any{map[string]any{"key": "uploads/a.pdf"}, map[string]any{"key": "uploads/b.pdf"}},
	}
	if diff := cmp.Diff(want, b.written); diff != "" {
		t.Errorf("submitted data (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"cover.jpg", "a.pdf", "b.pdf"}, up.names); diff != "" {
		t.Errorf("upload order (-want +got):\n%s", diff)
	}

	wantNotices := []notify.Notice{
		{Level: notify.LevelInfo, Message: "Uploading cover.jpg…"},
		{Level: notify.LevelInfo, Message: "Uploading a.pdf…"},
		{Level: notify.LevelInfo, Message: "Uploading b.pdf…"},
		{Level: notify.LevelSuccess, Message: "Entry created"},
	}
	if diff := cmp.Diff(wantNotices, rec.Notices()); diff != "" {
		t.Errorf("notices (-want +got):\n%s", diff)
	}
}

func TestSaveDraft_UploadFailureAbortsSubmit(t *testing.T) {
	b := &mockBackend{fields: postFields()}
	up := &mockUploader{err: &userError{msg: "File too large"}}
	rec := notify.NewRecorder()
	svc := newService(b, up, rec)

	_, err := svc.SaveDraft(context.Background(), scope, "e1", map[string]any{
		"cover": map[string]any{"file": file.NewPending("huge.png", "image/png", []byte("x"))},
	})
	if !errors.Is(err, domain.ErrUploadFailed) {
		t.Fatalf("expected ErrUploadFailed, got %v", err)
	}
	if len(b.actions) != 0 {
		t.Errorf("nothing must be submitted after a failed upload, got %v", b.actions)
	}
	notices := rec.Notices()
	last := notices[len(notices)-1]
	if last.Level != notify.LevelError || last.Message != "File too large" {
		t.Errorf("last notice = %+v", last)
	}
}

func TestSaveDraft_BackendErrorMessage(t *testing.T) {
	b := &mockBackend{fields: postFields(), writeErr: &userError{msg: "Title is required"}}
	rec := notify.NewRecorder()
	svc := newService(b, &mockUploader{}, rec)

	_, err := svc.SaveDraft(context.Background(), scope, "e1", map[string]any{"title": ""})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := rec.Notices(); len(got) != 1 || got[0].Message != "Title is required" {
		t.Errorf("notices = %v", got)
	}
}

func TestSaveDraft_EmptyFileOmitted(t *testing.T) {
	b := &mockBackend{fields: postFields()}
	svc := newService(b, &mockUploader{}, nil)

	_, err := svc.SaveDraft(context.Background(), scope, "e1", map[string]any{"title": "x", "cover": "", "attachments": []any{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"title": "x"}, b.written); diff != "" {
		t.Errorf("submitted (-want +got):\n%s", diff)
	}
}

func TestPublish_NilValuesSkipsTransform(t *testing.T) {
	b := &mockBackend{schemaErr: errors.New("should not be called")}
	svc := newService(b, &mockUploader{}, nil)

	e, err := svc.Publish(context.Background(), scope, "e1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !e.Published || b.written != nil {
		t.Errorf("entry = %+v written = %v", e, b.written)
	}
}

func TestUnpublish(t *testing.T) {
	b := &mockBackend{}
	rec := notify.NewRecorder()
	svc := newService(b, &mockUploader{}, rec)

	if _, err := svc.Unpublish(context.Background(), scope, "e1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"unpublish"}, b.actions); diff != "" {
		t.Errorf("actions (-want +got):\n%s", diff)
	}
	if got := rec.Notices(); len(got) != 1 || got[0].Level != notify.LevelSuccess {
		t.Errorf("notices = %v", got)
	}
}

func TestGet_PreparesDraftForForm(t *testing.T) {
	b := &mockBackend{
		fields: postFields(),
		entry: domentry.Entry{
			ID:        "e1",
			Data:      map[string]any{"title": "Published"},
			DataDraft: map[string]any{"title": "Draft", "cover": map[string]any{"key": "abc123"}},
		},
	}
	svc := newService(b, &mockUploader{}, nil)

	ed, err := svc.Get(context.Background(), scope, "e1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ed.Values["title"] != "Draft" {
		t.Errorf("expected draft values, got %v", ed.Values)
	}
	cover := ed.Values["cover"].(map[string]any)
	if cover["preview"] != "https://cdn.example.com/abc123" || cover["id"] != "abc123" {
		t.Errorf("cover = %v", cover)
	}
	if len(ed.Form.Controls) != 4 {
		t.Errorf("form controls = %d", len(ed.Form.Controls))
	}
}

func TestGet_LoadFailure(t *testing.T) {
	b := &mockBackend{fields: postFields(), entryErr: errors.New("503")}
	svc := newService(b, &mockUploader{}, nil)

	if _, err := svc.Get(context.Background(), scope, "e1"); !errors.Is(err, domain.ErrLoadFailed) {
		t.Errorf("expected ErrLoadFailed, got %v", err)
	}
}

func TestList_AppliesDefaults(t *testing.T) {
	b := &mockBackend{}
	svc := newService(b, &mockUploader{}, nil)

	page, err := svc.List(context.Background(), scope, domentry.ListParams{Search: "go", Limit: 500})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := domentry.ListParams{Search: "go", Page: 1, Limit: 100}
	if b.listParams != want {
		t.Errorf("params = %+v, want %+v", b.listParams, want)
	}
	if page.Page != 1 || page.Limit != 100 {
		t.Errorf("page = %+v", page)
	}
}
