package cmsconsole

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kailas-cloud/cmsconsole/internal/domain/changeset"
	domentry "github.com/kailas-cloud/cmsconsole/internal/domain/entry"
	"github.com/kailas-cloud/cmsconsole/internal/domain/form"
	domschema "github.com/kailas-cloud/cmsconsole/internal/domain/schema"
	domws "github.com/kailas-cloud/cmsconsole/internal/domain/workspace"
	"github.com/kailas-cloud/cmsconsole/internal/notify"
	"github.com/kailas-cloud/cmsconsole/internal/transport/backend"
	entryuc "github.com/kailas-cloud/cmsconsole/internal/usecase/entry"
	healthuc "github.com/kailas-cloud/cmsconsole/internal/usecase/health"
	schemauc "github.com/kailas-cloud/cmsconsole/internal/usecase/schema"
	"github.com/kailas-cloud/cmsconsole/internal/usecase/upload"
)

// Internal interfaces, replaced in tests.
type schemaUseCase interface {
	Open(ctx context.Context, userID, projectID, collectionID string) (*domschema.Session, error)
	Preview(sess *domschema.Session, edited []domschema.EditableField) (changeset.ChangeSet, error)
	Save(ctx context.Context, sess *domschema.Session, edited []domschema.EditableField) (changeset.ChangeSet, error)
}

type entryUseCase interface {
	Form(ctx context.Context, sc entryuc.Scope) (form.Model, error)
	List(ctx context.Context, sc entryuc.Scope, p domentry.ListParams) (domentry.Page, error)
	Get(ctx context.Context, sc entryuc.Scope, entryID string) (entryuc.Editable, error)
	Create(ctx context.Context, sc entryuc.Scope, values map[string]any, publish bool) (domentry.Entry, error)
	SaveDraft(ctx context.Context, sc entryuc.Scope, entryID string, values map[string]any) (domentry.Entry, error)
	Publish(ctx context.Context, sc entryuc.Scope, entryID string, values map[string]any) (domentry.Entry, error)
	Unpublish(ctx context.Context, sc entryuc.Scope, entryID string) (domentry.Entry, error)
}

type directory interface {
	ListOrganizations(ctx context.Context) ([]domws.Organization, error)
	ListProjects(ctx context.Context, organizationID string) ([]domws.Project, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the SDK entry point. It is safe for concurrent use.
type Client struct {
	schemaSvc schemaUseCase
	entrySvc  entryUseCase
	dir       directory
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client. No request is made until the first call.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.baseURL == "" {
		return nil, errors.New("cmsconsole: backend URL required (use WithBackend)")
	}

	bc := backend.Config{BaseURL: cfg.baseURL, Timeout: cfg.timeout}
	if cfg.httpClient != nil {
		bc.Doer = cfg.httpClient
	}
	if cfg.token != "" {
		bc.Editors = append(bc.Editors, staticToken(cfg.token))
	}
	cms, err := backend.New(bc)
	if err != nil {
		return nil, fmt.Errorf("cmsconsole: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	var n notify.Notifier
	if cfg.onNotice != nil {
		n = noticeFunc(cfg.onNotice)
	}

	return &Client{
		// No session store: every schema call works on a fresh snapshot.
		schemaSvc: schemauc.New(cms, nil, n),
		entrySvc:  entryuc.New(cms, upload.New(cms, nil), domentry.NewTransformer(cfg.publicStorageURL), n),
		dir:       cms,
		healthSvc: healthuc.New(nil, cms),
		obs:       obs,
	}, nil
}

// staticToken authenticates requests whose context carries no token.
func staticToken(token string) backend.RequestEditorFn {
	return func(_ context.Context, req *http.Request) error {
		if req.Header.Get("Authorization") == "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		return nil
	}
}

// noticeFunc adapts a callback to notify.Notifier.
type noticeFunc func(Notice)

func (f noticeFunc) Info(msg string)    { f(Notice{Level: notify.LevelInfo, Message: msg}) }
func (f noticeFunc) Success(msg string) { f(Notice{Level: notify.LevelSuccess, Message: msg}) }
func (f noticeFunc) Error(msg string)   { f(Notice{Level: notify.LevelError, Message: msg}) }

// Schema returns the schema service of a collection.
func (c *Client) Schema(projectID, collectionID string) *SchemaService {
	return &SchemaService{projectID: projectID, collectionID: collectionID, svc: c.schemaSvc, obs: c.obs}
}

// Entries returns the entry service of a collection.
func (c *Client) Entries(projectID, collectionID string) *EntryService {
	return &EntryService{
		scope: entryuc.Scope{ProjectID: projectID, CollectionID: collectionID},
		svc:   c.entrySvc,
		obs:   c.obs,
	}
}

// Organizations lists the organizations the token can access.
func (c *Client) Organizations(ctx context.Context) (_ []Organization, err error) {
	start := time.Now()
	defer func() { c.obs.observe("organizations", target{}, start, err) }()

	orgs, err := c.dir.ListOrganizations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	return orgs, nil
}

// Projects lists the projects of an organization.
func (c *Client) Projects(ctx context.Context, organizationID string) (_ []Project, err error) {
	start := time.Now()
	defer func() { c.obs.observe("projects", target{organization: organizationID}, start, err) }()

	projects, err := c.dir.ListProjects(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// Health checks that the backend answers.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}
