package cmsconsole

import (
	"context"

	"github.com/kailas-cloud/cmsconsole/internal/domain/changeset"
	domentry "github.com/kailas-cloud/cmsconsole/internal/domain/entry"
	"github.com/kailas-cloud/cmsconsole/internal/domain/form"
	domschema "github.com/kailas-cloud/cmsconsole/internal/domain/schema"
	domws "github.com/kailas-cloud/cmsconsole/internal/domain/workspace"
	entryuc "github.com/kailas-cloud/cmsconsole/internal/usecase/entry"
	healthuc "github.com/kailas-cloud/cmsconsole/internal/usecase/health"
)

// --- schemaUseCase mock ---

type mockSchemaUC struct {
	openFn    func(ctx context.Context, userID, projectID, collectionID string) (*domschema.Session, error)
	previewFn func(sess *domschema.Session, edited []domschema.EditableField) (changeset.ChangeSet, error)
	saveFn    func(ctx context.Context, sess *domschema.Session, edited []domschema.EditableField) (changeset.ChangeSet, error)
}

func (m *mockSchemaUC) Open(ctx context.Context, userID, projectID, collectionID string) (*domschema.Session, error) {
	return m.openFn(ctx, userID, projectID, collectionID)
}

func (m *mockSchemaUC) Preview(sess *domschema.Session, edited []domschema.EditableField) (changeset.ChangeSet, error) {
	return m.previewFn(sess, edited)
}

func (m *mockSchemaUC) Save(
	ctx context.Context, sess *domschema.Session, edited []domschema.EditableField,
) (changeset.ChangeSet, error) {
	return m.saveFn(ctx, sess, edited)
}

// --- entryUseCase mock ---

type mockEntryUC struct {
	formFn      func(ctx context.Context, sc entryuc.Scope) (form.Model, error)
	listFn      func(ctx context.Context, sc entryuc.Scope, p domentry.ListParams) (domentry.Page, error)
	getFn       func(ctx context.Context, sc entryuc.Scope, id string) (entryuc.Editable, error)
	createFn    func(ctx context.Context, sc entryuc.Scope, values map[string]any, publish bool) (domentry.Entry, error)
	saveDraftFn func(ctx context.Context, sc entryuc.Scope, id string, values map[string]any) (domentry.Entry, error)
	publishFn   func(ctx context.Context, sc entryuc.Scope, id string, values map[string]any) (domentry.Entry, error)
	unpublishFn func(ctx context.Context, sc entryuc.Scope, id string) (domentry.Entry, error)
}

func (m *mockEntryUC) Form(ctx context.Context, sc entryuc.Scope) (form.Model, error) {
	return m.formFn(ctx, sc)
}

func (m *mockEntryUC) List(ctx context.Context, sc entryuc.Scope, p domentry.ListParams) (domentry.Page, error) {
	return m.listFn(ctx, sc, p)
}

func (m *mockEntryUC) Get(ctx context.Context, sc entryuc.Scope, id string) (entryuc.Editable, error) {
	return m.getFn(ctx, sc, id)
}

func (m *mockEntryUC) Create(
	ctx context.Context, sc entryuc.Scope, values map[string]any, publish bool,
) (domentry.Entry, error) {
	return m.createFn(ctx, sc, values, publish)
}

func (m *mockEntryUC) SaveDraft(
	ctx context.Context, sc entryuc.Scope, id string, values map[string]any,
) (domentry.Entry, error) {
	return m.saveDraftFn(ctx, sc, id, values)
}

func (m *mockEntryUC) Publish(
	ctx context.Context, sc entryuc.Scope, id string, values map[string]any,
) (domentry.Entry, error) {
	return m.publishFn(ctx, sc, id, values)
}

func (m *mockEntryUC) Unpublish(ctx context.Context, sc entryuc.Scope, id string) (domentry.Entry, error) {
	return m.unpublishFn(ctx, sc, id)
}

// --- directory mock ---

type mockDirectory struct {
	orgsFn     func(ctx context.Context) ([]domws.Organization, error)
	projectsFn func(ctx context.Context, organizationID string) ([]domws.Project, error)
}

func (m *mockDirectory) ListOrganizations(ctx context.Context) ([]domws.Organization, error) {
	return m.orgsFn(ctx)
}

func (m *mockDirectory) ListProjects(ctx context.Context, organizationID string) ([]domws.Project, error) {
	return m.projectsFn(ctx, organizationID)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }
