package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cmsconsole/internal/domain"
	"github.com/kailas-cloud/cmsconsole/internal/domain/changeset"
	domentry "github.com/kailas-cloud/cmsconsole/internal/domain/entry"
	"github.com/kailas-cloud/cmsconsole/internal/domain/field"
	"github.com/kailas-cloud/cmsconsole/internal/domain/file"
	domschema "github.com/kailas-cloud/cmsconsole/internal/domain/schema"
	domws "github.com/kailas-cloud/cmsconsole/internal/domain/workspace"
	"github.com/kailas-cloud/cmsconsole/internal/metrics"
	"github.com/kailas-cloud/cmsconsole/internal/notify"
	"github.com/kailas-cloud/cmsconsole/internal/transport/backend"
	entryuc "github.com/kailas-cloud/cmsconsole/internal/usecase/entry"
	healthuc "github.com/kailas-cloud/cmsconsole/internal/usecase/health"
	schemauc "github.com/kailas-cloud/cmsconsole/internal/usecase/schema"
	"github.com/kailas-cloud/cmsconsole/internal/usecase/upload"
	workspaceuc "github.com/kailas-cloud/cmsconsole/internal/usecase/workspace"
)

func TestMain(m *testing.M) {
	metrics.RegisterConsoleMetrics()
	os.Exit(m.Run())
}

// --- Fakes ---

type fakeBackend struct {
	mu sync.Mutex

	fields    []field.Definition
	schemaErr error
	healthErr error

	tokens  []string
	updates []changeset.ChangeSet
	written []map[string]any
	actions []string
	uploads []string
}

func (f *fakeBackend) seen(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, backend.TokenFromContext(ctx))
}

func (f *fakeBackend) ListOrganizations(ctx context.Context) ([]domws.Organization, error) {
	f.seen(ctx)
	return []domws.Organization{{ID: "o1", Name: "Acme"}}, nil
}

func (f *fakeBackend) ListProjects(_ context.Context, organizationID string) ([]domws.Project, error) {
	if organizationID != "o1" {
		return nil, nil
	}
	return []domws.Project{{ID: "p1", OrganizationID: "o1", Name: "Blog"}, {ID: "p2", OrganizationID: "o1", Name: "Shop"}}, nil
}

func (f *fakeBackend) Health(context.Context) error { return f.healthErr }

func (f *fakeBackend) GetSchema(context.Context, string, string) ([]field.Definition, error) {
	return f.fields, f.schemaErr
}

func (f *fakeBackend) UpdateSchema(_ context.Context, _, _ string, cs changeset.ChangeSet) error {
	f.updates = append(f.updates, cs)
	return nil
}

func (f *fakeBackend) ListEntries(_ context.Context, _, _ string, p domentry.ListParams) (domentry.Page, error) {
	return domentry.Page{Items: nil, Total: 0, Page: p.Page, Limit: p.Limit}, nil
}

func (f *fakeBackend) GetEntry(_ context.Context, _, _, id string) (domentry.Entry, error) {
	return domentry.Entry{ID: id, Data: map[string]any{"title": "Hello"}}, nil
}

func (f *fakeBackend) CreateEntry(_ context.Context, _, _ string, data map[string]any, publish bool) (domentry.Entry, error) {
	f.actions = append(f.actions, "create")
	f.written = append(f.written, data)
	return domentry.Entry{ID: "e1", Data: data, Published: publish}, nil
}

func (f *fakeBackend) SaveDraft(_ context.Context, _, _, id string, data map[string]any) (domentry.Entry, error) {
	f.actions = append(f.actions, "draft")
	f.written = append(f.written, data)
	return domentry.Entry{ID: id, DataDraft: data}, nil
}

func (f *fakeBackend) Publish(_ context.Context, _, _, id string, data map[string]any) (domentry.Entry, error) {
	f.actions = append(f.actions, "publish")
	f.written = append(f.written, data)
	return domentry.Entry{ID: id, Published: true}, nil
}

func (f *fakeBackend) Unpublish(_ context.Context, _, _, id string) (domentry.Entry, error) {
	f.actions = append(f.actions, "unpublish")
	return domentry.Entry{ID: id}, nil
}

func (f *fakeBackend) UploadFile(_ context.Context, _ string, p *file.Pending) (file.Ref, error) {
	f.uploads = append(f.uploads, p.Name())
	return file.Ref{"key": "up/" + p.Name()}, nil
}

type memSessions struct {
	mu       sync.Mutex
	sessions map[string]*domschema.Session
}

func (m *memSessions) Save(_ context.Context, s *domschema.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memSessions) Get(_ context.Context, id string) (*domschema.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return s, nil
}

func (m *memSessions) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

type memWorkspaces struct {
	mu    sync.Mutex
	byUID map[string]domws.Context
}

func (m *memWorkspaces) Get(_ context.Context, userID string) (domws.Context, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wc, ok := m.byUID[userID]
	if !ok {
		return domws.Context{}, domain.ErrNoWorkspace
	}
	return wc, nil
}

func (m *memWorkspaces) Save(_ context.Context, wc domws.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byUID[wc.UserID] = wc
	return nil
}

func (m *memWorkspaces) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byUID, userID)
	return nil
}

// --- Helpers ---

func postFields() []field.Definition {
	return []field.Definition{
		{ID: "f1", IndexOrder: "0", FieldConfig: field.Config{Label: "Title", Key: "title", Type: field.String}},
		{ID: "f2", IndexOrder: "1", FieldConfig: field.Config{Label: "Cover", Key: "cover", Type: field.File}},
	}
}

type testEnv struct {
	backend    *fakeBackend
	workspaces *memWorkspaces
	router     http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	b := &fakeBackend{fields: postFields()}
	ws := &memWorkspaces{byUID: map[string]domws.Context{}}
	srv := NewServer(
		schemauc.New(b, &memSessions{sessions: map[string]*domschema.Session{}}, nil),
		entryuc.New(b, upload.New(b, nil), domentry.NewTransformer("https://cdn.example.com"), nil),
		workspaceuc.New(b, ws),
		healthuc.New(nil, b),
		zap.NewNop(),
	)
	r := chi.NewRouter()
	r.Use(BearerAuthMiddleware(AuthOptions{}))
	srv.Routes(r)
	return &testEnv{backend: b, workspaces: ws, router: r}
}

func (e *testEnv) selectProject(userID, projectID string) {
	e.workspaces.byUID[userID] = domws.Context{UserID: userID, OrganizationID: "o1", ProjectID: projectID}
}

func (e *testEnv) do(t *testing.T, method, path, user string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = http.NoBody
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Authorization", "Bearer tok-"+user)
	req.Header.Set(UserIDHeader, user)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) doJSON(t *testing.T, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(b)
	}
	return e.do(t, method, path, user, r, "application/json")
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

// --- Tests ---

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/health", "", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	env.backend.healthErr = errors.New("down")
	rr = env.do(t, "GET", "/health", "", nil, "")
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rr.Code)
	}
}

func TestOrganizations_ForwardsToken(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/organizations", "u1", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rr.Code, rr.Body)
	}
	got := decode[struct {
		Items []domws.Organization `json:"items"`
	}](t, rr)
	if len(got.Items) != 1 || got.Items[0].ID != "o1" {
		t.Errorf("items = %+v", got.Items)
	}
	if diff := cmp.Diff([]string{"tok-u1"}, env.backend.tokens); diff != "" {
		t.Errorf("tokens (-want +got):\n%s", diff)
	}
}

func TestWorkspace_SelectGetClear(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/workspace", "u1", nil, "")
	if rr.Code != http.StatusConflict {
		t.Fatalf("before select: status = %d", rr.Code)
	}
	if got := decode[ErrorResponse](t, rr); got.Code != CodeNoWorkspace {
		t.Errorf("code = %q", got.Code)
	}

	rr = env.doJSON(t, "PUT", "/workspace", "u1", selectWorkspaceRequest{OrganizationID: "o1", ProjectID: "p1"})
	if rr.Code != http.StatusOK {
		t.Fatalf("select: status = %d body = %s", rr.Code, rr.Body)
	}

	rr = env.do(t, "GET", "/workspace", "u1", nil, "")
	got := decode[domws.Context](t, rr)
	if got.OrganizationID != "o1" || got.ProjectID != "p1" || got.UserID != "u1" {
		t.Errorf("workspace = %+v", got)
	}

	// Selections are per user.
	if rr := env.do(t, "GET", "/workspace", "u2", nil, ""); rr.Code != http.StatusConflict {
		t.Errorf("other user: status = %d", rr.Code)
	}

	if rr := env.do(t, "DELETE", "/workspace", "u1", nil, ""); rr.Code != http.StatusNoContent {
		t.Fatalf("clear: status = %d", rr.Code)
	}
	if rr := env.do(t, "GET", "/workspace", "u1", nil, ""); rr.Code != http.StatusConflict {
		t.Errorf("after clear: status = %d", rr.Code)
	}
}

func TestWorkspace_SelectUnknownProject(t *testing.T) {
	env := newTestEnv(t)

	rr := env.doJSON(t, "PUT", "/workspace", "u1", selectWorkspaceRequest{OrganizationID: "o1", ProjectID: "nope"})
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d", rr.Code)
	}
	rr = env.doJSON(t, "PUT", "/workspace", "u1", selectWorkspaceRequest{})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("missing org: status = %d", rr.Code)
	}
}

func TestRequireProject(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "GET", "/projects/p1/collections/posts/form", "u1", nil, "")
	if rr.Code != http.StatusConflict {
		t.Errorf("no workspace: status = %d", rr.Code)
	}

	env.selectProject("u1", "p2")
	rr = env.do(t, "GET", "/projects/p1/collections/posts/form", "u1", nil, "")
	if rr.Code != http.StatusForbidden {
		t.Fatalf("other project: status = %d", rr.Code)
	}
	if got := decode[ErrorResponse](t, rr); got.Code != CodeForbiddenProject {
		t.Errorf("code = %q", got.Code)
	}

	env.selectProject("u1", "p1")
	if rr := env.do(t, "GET", "/projects/p1/collections/posts/form", "u1", nil, ""); rr.Code != http.StatusOK {
		t.Errorf("selected project: status = %d body = %s", rr.Code, rr.Body)
	}
}

func TestSchemaSession_OpenDiffSave(t *testing.T) {
	env := newTestEnv(t)
	env.selectProject("u1", "p1")

	rr := env.do(t, "POST", "/projects/p1/collections/posts/schema/sessions", "u1", nil, "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("open: status = %d body = %s", rr.Code, rr.Body)
	}
	opened := decode[sessionResponse](t, rr)
	sessPath := "/schema/sessions/" + opened.Session.ID
	if rr.Header().Get("Location") != sessPath {
		t.Errorf("location = %q", rr.Header().Get("Location"))
	}

	edited := append(domschema.CloneFields(opened.Session.Fields),
		domschema.EditableField{Label: "Subtitle", Key: "subtitle", Type: field.String})

	rr = env.doJSON(t, "POST", sessPath+"/diff", "u1", fieldsRequest{Fields: edited})
	if rr.Code != http.StatusOK {
		t.Fatalf("diff: status = %d body = %s", rr.Code, rr.Body)
	}
	preview := decode[saveSchemaResponse](t, rr)
	if len(preview.ChangeSet.ToCreate) != 1 || len(env.backend.updates) != 0 {
		t.Errorf("diff must not submit: %+v, updates %d", preview.ChangeSet, len(env.backend.updates))
	}

	rr = env.doJSON(t, "PUT", sessPath, "u1", fieldsRequest{Fields: edited})
	if rr.Code != http.StatusOK {
		t.Fatalf("save: status = %d body = %s", rr.Code, rr.Body)
	}
	saved := decode[saveSchemaResponse](t, rr)
	if len(env.backend.updates) != 1 || len(saved.ChangeSet.ToCreate) != 1 {
		t.Errorf("updates = %v", env.backend.updates)
	}
	wantNotices := []notify.Notice{{Level: notify.LevelSuccess, Message: "Schema saved"}}
	if diff := cmp.Diff(wantNotices, saved.Notices); diff != "" {
		t.Errorf("notices (-want +got):\n%s", diff)
	}
}

func TestSchemaSession_OtherUserNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.selectProject("u1", "p1")

	rr := env.do(t, "POST", "/projects/p1/collections/posts/schema/sessions", "u1", nil, "")
	opened := decode[sessionResponse](t, rr)

	rr = env.do(t, "GET", "/schema/sessions/"+opened.Session.ID, "u2", nil, "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := decode[ErrorResponse](t, rr); got.Code != CodeSessionNotFound {
		t.Errorf("code = %q", got.Code)
	}

	if rr := env.do(t, "DELETE", "/schema/sessions/"+opened.Session.ID, "u1", nil, ""); rr.Code != http.StatusNoContent {
		t.Errorf("discard: status = %d", rr.Code)
	}
	if rr := env.do(t, "GET", "/schema/sessions/"+opened.Session.ID, "u1", nil, ""); rr.Code != http.StatusNotFound {
		t.Errorf("after discard: status = %d", rr.Code)
	}
}

func TestSchemaSession_InvalidEditsAre422(t *testing.T) {
	env := newTestEnv(t)
	env.selectProject("u1", "p1")

	rr := env.do(t, "POST", "/projects/p1/collections/posts/schema/sessions", "u1", nil, "")
	opened := decode[sessionResponse](t, rr)

	edited := append(domschema.CloneFields(opened.Session.Fields),
		domschema.EditableField{Label: "Dup", Key: "title", Type: field.String})
	rr = env.doJSON(t, "PUT", "/schema/sessions/"+opened.Session.ID, "u1", fieldsRequest{Fields: edited})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d body = %s", rr.Code, rr.Body)
	}
	got := decode[ErrorResponse](t, rr)
	if got.Code != CodeValidationFailed || len(got.Notices) != 1 || got.Notices[0].Level != notify.LevelError {
		t.Errorf("response = %+v", got)
	}
}

func TestLoadFailureIsRetryable(t *testing.T) {
	env := newTestEnv(t)
	env.selectProject("u1", "p1")
	env.backend.schemaErr = errors.New("connection reset")

	rr := env.do(t, "GET", "/projects/p1/collections/posts/form", "u1", nil, "")
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", rr.Code)
	}
	got := decode[ErrorResponse](t, rr)
	if got.Code != CodeLoadFailed || !got.Retry {
		t.Errorf("response = %+v", got)
	}
}

func TestCreateEntry_Multipart(t *testing.T) {
	env := newTestEnv(t)
	env.selectProject("u1", "p1")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("data", `{"title":"Hi","cover":{"file":"cover","id":"local-1"}}`)
	_ = mw.WriteField("published", "true")
	part, err := mw.CreateFormFile("cover", "c.png")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = part.Write([]byte("png"))
	_ = mw.Close()

	rr := env.do(t, "POST", "/projects/p1/collections/posts/entries", "u1", &buf, mw.FormDataContentType())
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d body = %s", rr.Code, rr.Body)
	}

	want := map[string]any{"title": "Hi", "cover": map[string]any{"key": "up/c.png"}}
	if diff := cmp.Diff(want, env.backend.written[0]); diff != "" {
		t.Errorf("submitted (-want +got):\n%s", diff)
	}
	got := decode[entryResponse](t, rr)
	if !got.Entry.Published {
		t.Error("expected a published entry")
	}
	wantNotices := []notify.Notice{
		{Level: notify.LevelInfo, Message: "Uploading c.png…"},
		{Level: notify.LevelSuccess, Message: "Entry created"},
	}
	if diff := cmp.Diff(wantNotices, got.Notices); diff != "" {
		t.Errorf("notices (-want +got):\n%s", diff)
	}
}

func TestCreateEntry_MultipartUnknownPart(t *testing.T) {
	env := newTestEnv(t)
	env.selectProject("u1", "p1")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("data", `{"cover":{"file":"missing"}}`)
	_ = mw.Close()

	rr := env.do(t, "POST", "/projects/p1/collections/posts/entries", "u1", &buf, mw.FormDataContentType())
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rr.Code)
	}
	if len(env.backend.actions) != 0 {
		t.Errorf("nothing must be submitted, got %v", env.backend.actions)
	}
}

func TestCreateEntry_JSONFileReferenceRejected(t *testing.T) {
	env := newTestEnv(t)
	env.selectProject("u1", "p1")

	for _, data := range []map[string]any{
		{"cover": map[string]any{"file": "cover"}},
		{"gallery": []any{map[string]any{"key": "kept"}, map[string]any{"file": "two"}}},
	} {
		rr := env.doJSON(t, "POST", "/projects/p1/collections/posts/entries", "u1", map[string]any{"data": data})
		if rr.Code != http.StatusBadRequest {
			t.Errorf("data %v: status = %d", data, rr.Code)
		}
		if got := decode[ErrorResponse](t, rr); got.Code != CodeBadRequest {
			t.Errorf("data %v: code = %q", data, got.Code)
		}
	}
	if len(env.backend.actions) != 0 {
		t.Errorf("nothing must be submitted, got %v", env.backend.actions)
	}
}

func TestEntryWrites_JSON(t *testing.T) {
	env := newTestEnv(t)
	env.selectProject("u1", "p1")
	base := "/projects/p1/collections/posts/entries/e1"

	rr := env.doJSON(t, "PUT", base+"/draft", "u1", map[string]any{"data": map[string]any{"title": "Draft"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("draft: status = %d body = %s", rr.Code, rr.Body)
	}
	if rr := env.do(t, "POST", base+"/publish", "u1", nil, ""); rr.Code != http.StatusOK {
		t.Fatalf("publish: status = %d body = %s", rr.Code, rr.Body)
	}
	if rr := env.do(t, "POST", base+"/unpublish", "u1", nil, ""); rr.Code != http.StatusOK {
		t.Fatalf("unpublish: status = %d", rr.Code)
	}

	if diff := cmp.Diff([]string{"draft", "publish", "unpublish"}, env.backend.actions); diff != "" {
		t.Errorf("actions (-want +got):\n%s", diff)
	}
	// An empty publish body publishes the stored draft untouched.
	if env.backend.written[1] != nil {
		t.Errorf("publish data = %v, want nil", env.backend.written[1])
	}
}

func TestGetEntry_PreparesForm(t *testing.T) {
	env := newTestEnv(t)
	env.selectProject("u1", "p1")

	rr := env.do(t, "GET", "/projects/p1/collections/posts/entries/e1", "u1", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rr.Code, rr.Body)
	}
	got := decode[entryuc.Editable](t, rr)
	if got.Values["title"] != "Hello" || len(got.Form.Controls) != 2 {
		t.Errorf("editable = %+v", got)
	}
}

func TestListEntries(t *testing.T) {
	env := newTestEnv(t)
	env.selectProject("u1", "p1")

	rr := env.do(t, "GET", "/projects/p1/collections/posts/entries?search=go&page=2", "u1", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	page := decode[domentry.Page](t, rr)
	if page.Page != 2 || page.Limit != domentry.DefaultLimit || page.Items == nil {
		t.Errorf("page = %+v", page)
	}
	if !strings.Contains(rr.Header().Get("Content-Type"), "application/json") {
		t.Errorf("content-type = %q", rr.Header().Get("Content-Type"))
	}

	rr = env.do(t, "GET", "/projects/p1/collections/posts/entries?page=x", "u1", nil, "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad page: status = %d", rr.Code)
	}
}

func TestHandleDomainError_Mapping(t *testing.T) {
	srv := NewServer(nil, nil, nil, nil, zap.NewNop())
	tests := []struct {
		err  error
		code int
		want string
	}{
		{domain.ErrUnauthorized, http.StatusUnauthorized, CodeUnauthorized},
		{domain.ErrNotFound, http.StatusNotFound, CodeNotFound},
		{errors.Join(domain.ErrLoadFailed, domain.ErrNotFound), http.StatusNotFound, CodeNotFound},
		{domain.ErrLoadFailed, http.StatusBadGateway, CodeLoadFailed},
		{domain.ErrUploadFailed, http.StatusBadGateway, CodeUploadFailed},
		{domain.ErrConflict, http.StatusConflict, CodeConflict},
		{domain.ErrUnknownFieldType, http.StatusUnprocessableEntity, CodeValidationFailed},
		{domain.ErrBackendUnavailable, http.StatusBadGateway, CodeBackendUnavailable},
		{errors.New("boom"), http.StatusInternalServerError, CodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			rr := httptest.NewRecorder()
			srv.handleDomainError(rr, httptest.NewRequest("GET", "/", http.NoBody), tt.err)
			if rr.Code != tt.code {
				t.Errorf("status = %d, want %d", rr.Code, tt.code)
			}
			got := decode[ErrorResponse](t, rr)
			if got.Code != tt.want {
				t.Errorf("code = %q, want %q", got.Code, tt.want)
			}
		})
	}
}

func TestAttachFiles(t *testing.T) {
	pending := file.NewPending("a.pdf", "application/pdf", []byte("a"))
	lookup := func(part string) (*file.Pending, bool) {
		if part == "a" {
			return pending, true
		}
		return nil, false
	}

	in := map[string]any{
		"docs": []any{map[string]any{"file": "a"}, map[string]any{"key": "old"}},
		"seo":  map[string]any{"title": "x"},
	}
	out, err := attachFiles(in, lookup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	docs := out.(map[string]any)["docs"].([]any)
	if p, ok := file.PendingOf(docs[0].(map[string]any)); !ok || p != pending {
		t.Errorf("docs[0] = %v", docs[0])
	}

	if _, err := attachFiles(map[string]any{"f": map[string]any{"file": "zzz"}}, lookup); !errors.Is(err, errUnknownPart) {
		t.Errorf("expected errUnknownPart, got %v", err)
	}
}
