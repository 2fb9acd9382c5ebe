// Package chi is the console's backend-for-frontend HTTP API.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cmsconsole/internal/domain"
	"github.com/kailas-cloud/cmsconsole/internal/domain/changeset"
	domentry "github.com/kailas-cloud/cmsconsole/internal/domain/entry"
	domschema "github.com/kailas-cloud/cmsconsole/internal/domain/schema"
	domws "github.com/kailas-cloud/cmsconsole/internal/domain/workspace"
	"github.com/kailas-cloud/cmsconsole/internal/notify"
	entryuc "github.com/kailas-cloud/cmsconsole/internal/usecase/entry"
	healthuc "github.com/kailas-cloud/cmsconsole/internal/usecase/health"
	schemauc "github.com/kailas-cloud/cmsconsole/internal/usecase/schema"
	workspaceuc "github.com/kailas-cloud/cmsconsole/internal/usecase/workspace"
)

// Error codes returned in error bodies.
const (
	CodeBadRequest         = "bad_request"
	CodeUnauthorized       = "unauthorized"
	CodeNotFound           = "not_found"
	CodeSessionNotFound    = "session_not_found"
	CodeNoWorkspace        = "no_workspace"
	CodeForbiddenProject   = "project_not_selected"
	CodeValidationFailed   = "validation_failed"
	CodeConflict           = "conflict"
	CodeLoadFailed         = "load_failed"
	CodeUploadFailed       = "upload_failed"
	CodeBackendUnavailable = "backend_unavailable"
	CodeInternalError      = "internal_error"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Retry marks section load failures the UI offers to retry.
	Retry   bool            `json:"retry,omitempty"`
	Notices []notify.Notice `json:"notices,omitempty"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, r *http.Request, err error) bool

// Server serves the console API.
type Server struct {
	schemas       *schemauc.Service
	entries       *entryuc.Service
	workspaces    *workspaceuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	maxUploadMB   int64
	errorHandlers []errorHandler
}

// NewServer creates the HTTP API server.
func NewServer(
	schemas *schemauc.Service,
	entries *entryuc.Service,
	workspaces *workspaceuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		schemas:     schemas,
		entries:     entries,
		workspaces:  workspaces,
		health:      health,
		logger:      logger,
		maxUploadMB: defaultMaxUploadMB,
	}
	// Order matters: a failed load of a missing resource is a 404, not a retry.
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrUnauthorized, http.StatusUnauthorized, CodeUnauthorized, false),
		sentinelHandler(domain.ErrSessionNotFound, http.StatusNotFound, CodeSessionNotFound, false),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound, false),
		sentinelHandler(domain.ErrNoWorkspace, http.StatusConflict, CodeNoWorkspace, false),
		sentinelHandler(domain.ErrLoadFailed, http.StatusBadGateway, CodeLoadFailed, true),
		sentinelHandler(domain.ErrUploadFailed, http.StatusBadGateway, CodeUploadFailed, false),
		sentinelHandler(domain.ErrInvalidSchema, http.StatusUnprocessableEntity, CodeValidationFailed, false),
		sentinelHandler(domain.ErrUnknownFieldType, http.StatusUnprocessableEntity, CodeValidationFailed, false),
		sentinelHandler(domain.ErrConflict, http.StatusConflict, CodeConflict, false),
		sentinelHandler(domain.ErrBackendUnavailable, http.StatusBadGateway, CodeBackendUnavailable, false),
	}
	return s
}

// WithMaxUploadMB bounds multipart entry writes.
func (s *Server) WithMaxUploadMB(mb int64) *Server {
	if mb > 0 {
		s.maxUploadMB = mb
	}
	return s
}

// Routes registers every console endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Group(func(r chi.Router) {
		r.Use(noticesMiddleware)

		r.Get("/organizations", s.ListOrganizations)
		r.Get("/organizations/{organization}/projects", s.ListProjects)

		r.Get("/workspace", s.GetWorkspace)
		r.Put("/workspace", s.SelectWorkspace)
		r.Delete("/workspace", s.ClearWorkspace)

		r.Get("/schema/sessions/{session}", s.GetSchemaSession)
		r.Post("/schema/sessions/{session}/diff", s.DiffSchemaSession)
		r.Put("/schema/sessions/{session}", s.SaveSchemaSession)
		r.Delete("/schema/sessions/{session}", s.DiscardSchemaSession)

		r.Route("/projects/{project}/collections/{collection}", func(r chi.Router) {
			r.Use(s.requireProject)
			r.Post("/schema/sessions", s.OpenSchemaSession)
			r.Get("/form", s.GetForm)
			r.Get("/entries", s.ListEntries)
			r.Post("/entries", s.CreateEntry)
			r.Get("/entries/{entry}", s.GetEntry)
			r.Put("/entries/{entry}/draft", s.SaveDraft)
			r.Post("/entries/{entry}/publish", s.PublishEntry)
			r.Post("/entries/{entry}/unpublish", s.UnpublishEntry)
		})
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())
	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// --- workspace ---

// ListOrganizations handles GET /organizations.
func (s *Server) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs, err := s.workspaces.Organizations(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": nonNil(orgs)})
}

// ListProjects handles GET /organizations/{organization}/projects.
func (s *Server) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.workspaces.Projects(r.Context(), chi.URLParam(r, "organization"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": nonNil(projects)})
}

// GetWorkspace handles GET /workspace.
func (s *Server) GetWorkspace(w http.ResponseWriter, r *http.Request) {
	wc, err := s.workspaces.Current(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wc)
}

type selectWorkspaceRequest struct {
	OrganizationID string `json:"organizationId"`
	ProjectID      string `json:"projectId"`
}

// SelectWorkspace handles PUT /workspace.
func (s *Server) SelectWorkspace(w http.ResponseWriter, r *http.Request) {
	var req selectWorkspaceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.OrganizationID == "" {
		writeError(w, r, http.StatusBadRequest, CodeBadRequest, "organizationId is required")
		return
	}
	wc, err := s.workspaces.Select(r.Context(), UserIDFromContext(r.Context()), req.OrganizationID, req.ProjectID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wc)
}

// ClearWorkspace handles DELETE /workspace.
func (s *Server) ClearWorkspace(w http.ResponseWriter, r *http.Request) {
	if err := s.workspaces.Clear(r.Context(), UserIDFromContext(r.Context())); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// requireProject loads the user's workspace and rejects projects other than
// the selected one. The selection travels in the request context.
func (s *Server) requireProject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wc, err := s.workspaces.Current(r.Context(), UserIDFromContext(r.Context()))
		if err != nil {
			s.handleDomainError(w, r, err)
			return
		}
		if project := chi.URLParam(r, "project"); wc.ProjectID != project {
			writeError(w, r, http.StatusForbidden, CodeForbiddenProject,
				"Select project "+strconv.Quote(project)+" before editing its collections")
			return
		}
		next.ServeHTTP(w, r.WithContext(domws.WithContext(r.Context(), wc)))
	})
}

// --- schema editor ---

type sessionResponse struct {
	Session *domschema.Session `json:"session"`
	Notices []notify.Notice    `json:"notices"`
}

type fieldsRequest struct {
	Fields []domschema.EditableField `json:"fields"`
}

type saveSchemaResponse struct {
	ChangeSet changeset.ChangeSet `json:"changeSet"`
	Session   *domschema.Session  `json:"session,omitempty"`
	Notices   []notify.Notice     `json:"notices"`
}

// OpenSchemaSession handles POST /projects/{project}/collections/{collection}/schema/sessions.
func (s *Server) OpenSchemaSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.schemas.Open(r.Context(), UserIDFromContext(r.Context()),
		chi.URLParam(r, "project"), chi.URLParam(r, "collection"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.Header().Set("Location", "/schema/sessions/"+sess.ID)
	writeJSON(w, http.StatusCreated, sessionResponse{Session: sess, Notices: noticesOf(r)})
}

// GetSchemaSession handles GET /schema/sessions/{session}.
func (s *Server) GetSchemaSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Session: sess, Notices: noticesOf(r)})
}

// DiffSchemaSession handles POST /schema/sessions/{session}/diff.
func (s *Server) DiffSchemaSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	var req fieldsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	cs, err := s.schemas.Preview(sess, req.Fields)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saveSchemaResponse{ChangeSet: cs, Notices: noticesOf(r)})
}

// SaveSchemaSession handles PUT /schema/sessions/{session}.
func (s *Server) SaveSchemaSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	var req fieldsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	cs, err := s.schemas.Save(r.Context(), sess, req.Fields)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saveSchemaResponse{ChangeSet: cs, Session: sess, Notices: noticesOf(r)})
}

// DiscardSchemaSession handles DELETE /schema/sessions/{session}.
func (s *Server) DiscardSchemaSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	if err := s.schemas.Discard(r.Context(), sess.ID); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) (*domschema.Session, bool) {
	sess, err := s.schemas.Get(r.Context(), UserIDFromContext(r.Context()), chi.URLParam(r, "session"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return nil, false
	}
	return sess, true
}

// --- entries ---

type entryResponse struct {
	Entry   domentry.Entry  `json:"entry"`
	Notices []notify.Notice `json:"notices"`
}

func scopeOf(r *http.Request) entryuc.Scope {
	return entryuc.Scope{ProjectID: chi.URLParam(r, "project"), CollectionID: chi.URLParam(r, "collection")}
}

// GetForm handles GET .../form.
func (s *Server) GetForm(w http.ResponseWriter, r *http.Request) {
	m, err := s.entries.Form(r.Context(), scopeOf(r))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// ListEntries handles GET .../entries.
func (s *Server) ListEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := domentry.ListParams{Search: q.Get("search")}
	var err error
	if params.Page, err = intParam(q.Get("page")); err != nil {
		writeError(w, r, http.StatusBadRequest, CodeBadRequest, "page must be an integer")
		return
	}
	if params.Limit, err = intParam(q.Get("limit")); err != nil {
		writeError(w, r, http.StatusBadRequest, CodeBadRequest, "limit must be an integer")
		return
	}

	page, err := s.entries.List(r.Context(), scopeOf(r), params)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if page.Items == nil {
		page.Items = []domentry.Entry{}
	}
	writeJSON(w, http.StatusOK, page)
}

// GetEntry handles GET .../entries/{entry}.
func (s *Server) GetEntry(w http.ResponseWriter, r *http.Request) {
	ed, err := s.entries.Get(r.Context(), scopeOf(r), chi.URLParam(r, "entry"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ed)
}

// CreateEntry handles POST .../entries.
func (s *Server) CreateEntry(w http.ResponseWriter, r *http.Request) {
	body, ok := s.decodeEntryWrite(w, r)
	if !ok {
		return
	}
	if body.Data == nil {
		body.Data = map[string]any{}
	}
	e, err := s.entries.Create(r.Context(), scopeOf(r), body.Data, body.Published)
	s.writeEntry(w, r, http.StatusCreated, e, err)
}

// SaveDraft handles PUT .../entries/{entry}/draft.
func (s *Server) SaveDraft(w http.ResponseWriter, r *http.Request) {
	body, ok := s.decodeEntryWrite(w, r)
	if !ok {
		return
	}
	if body.Data == nil {
		body.Data = map[string]any{}
	}
	e, err := s.entries.SaveDraft(r.Context(), scopeOf(r), chi.URLParam(r, "entry"), body.Data)
	s.writeEntry(w, r, http.StatusOK, e, err)
}

// PublishEntry handles POST .../entries/{entry}/publish. An empty body
// publishes the stored draft.
func (s *Server) PublishEntry(w http.ResponseWriter, r *http.Request) {
	var data map[string]any
	if r.ContentLength != 0 {
		body, ok := s.decodeEntryWrite(w, r)
		if !ok {
			return
		}
		data = body.Data
	}
	e, err := s.entries.Publish(r.Context(), scopeOf(r), chi.URLParam(r, "entry"), data)
	s.writeEntry(w, r, http.StatusOK, e, err)
}

// UnpublishEntry handles POST .../entries/{entry}/unpublish.
func (s *Server) UnpublishEntry(w http.ResponseWriter, r *http.Request) {
	e, err := s.entries.Unpublish(r.Context(), scopeOf(r), chi.URLParam(r, "entry"))
	s.writeEntry(w, r, http.StatusOK, e, err)
}

func (s *Server) writeEntry(w http.ResponseWriter, r *http.Request, status int, e domentry.Entry, err error) {
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, status, entryResponse{Entry: e, Notices: noticesOf(r)})
}

// --- helpers ---

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err //nolint:wrapcheck // reported as a 400
	}
	return n, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message, Notices: noticesOf(r)})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
// The message is the error's human-readable form, never its internals.
func sentinelHandler(sentinel error, status int, code string, retry bool) errorHandler {
	return func(w http.ResponseWriter, r *http.Request, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeJSON(w, status, ErrorResponse{
			Code:    code,
			Message: domain.UserMessage(err),
			Retry:   retry,
			Notices: noticesOf(r),
		})
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Warn("domain error", zap.String("path", r.URL.Path), zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, r, err) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, r, http.StatusInternalServerError, CodeInternalError, domain.GenericErrorMessage)
}
