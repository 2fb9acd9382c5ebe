// Package backend is the typed client of the CMS REST backend. Request
// building follows the shape of oapi-codegen clients: an HttpRequestDoer,
// per-request editors, and runtime-styled path and query parameters.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cmsconsole/internal/domain"
	logpkg "github.com/kailas-cloud/cmsconsole/internal/logger"
	"github.com/kailas-cloud/cmsconsole/internal/metrics"
)

// HttpRequestDoer performs HTTP requests. *http.Client satisfies it.
//
//nolint:revive // name matches generated clients
type HttpRequestDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RequestEditorFn may modify a request before it is sent.
type RequestEditorFn func(ctx context.Context, req *http.Request) error

// Config holds the client settings.
type Config struct {
	BaseURL string
	// Timeout bounds each request. Zero leaves the HTTP client default.
	Timeout time.Duration
	// Doer replaces the default *http.Client, mostly in tests.
	Doer HttpRequestDoer
	// Editors run on every request after the bearer token is applied.
	Editors []RequestEditorFn
}

// Client talks to the CMS backend.
type Client struct {
	server  string
	doer    HttpRequestDoer
	editors []RequestEditorFn
}

// New creates a backend client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("backend base url is required")
	}
	server := cfg.BaseURL
	if !strings.HasSuffix(server, "/") {
		server += "/"
	}
	if _, err := url.Parse(server); err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}

	doer := cfg.Doer
	if doer == nil {
		doer = &http.Client{Timeout: cfg.Timeout}
	}
	editors := append([]RequestEditorFn{bearerEditor}, cfg.Editors...)
	return &Client{server: server, doer: doer, editors: editors}, nil
}

type tokenKey struct{}

// WithToken attaches the caller's bearer token to ctx. Every request made
// with ctx forwards it.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext returns the token attached by WithToken.
func TokenFromContext(ctx context.Context) string {
	t, _ := ctx.Value(tokenKey{}).(string)
	return t
}

func bearerEditor(ctx context.Context, req *http.Request) error {
	if t := TokenFromContext(ctx); t != "" {
		req.Header.Set("Authorization", "Bearer "+t)
	}
	return nil
}

// pathParam styles a path parameter the way generated clients do.
func pathParam(name, value string) (string, error) {
	p, err := runtime.StyleParamWithLocation("simple", false, name, runtime.ParamLocationPath, value)
	if err != nil {
		return "", fmt.Errorf("path param %s: %w", name, err)
	}
	return p, nil
}

// addQuery appends a form-styled query parameter.
func addQuery(q url.Values, name string, value any) error {
	frag, err := runtime.StyleParamWithLocation("form", true, name, runtime.ParamLocationQuery, value)
	if err != nil {
		return fmt.Errorf("query param %s: %w", name, err)
	}
	parsed, err := url.ParseQuery(frag)
	if err != nil {
		return fmt.Errorf("query param %s: %w", name, err)
	}
	for k, vs := range parsed {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	return nil
}

// operationURL joins the server with a path template whose %s verbs are
// filled with styled path parameters, given as name/value pairs.
func (c *Client) operationURL(template string, params ...string) (*url.URL, error) {
	styled := make([]any, 0, len(params)/2)
	for i := 0; i+1 < len(params); i += 2 {
		p, err := pathParam(params[i], params[i+1])
		if err != nil {
			return nil, err
		}
		styled = append(styled, p)
	}
	path := strings.TrimPrefix(fmt.Sprintf(template, styled...), "/")
	u, err := url.Parse(c.server + path)
	if err != nil {
		return nil, fmt.Errorf("build url: %w", err)
	}
	return u, nil
}

func newJSONRequest(ctx context.Context, method string, u *url.URL, body any) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		r = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), r)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do sends req and decodes a 2xx JSON body into out (when non-nil).
// Non-2xx responses become *APIError; transport failures wrap
// domain.ErrBackendUnavailable.
func (c *Client) do(ctx context.Context, operation string, req *http.Request, out any) error {
	for _, edit := range c.editors {
		if err := edit(ctx, req); err != nil {
			return fmt.Errorf("%s: edit request: %w", operation, err)
		}
	}

	start := time.Now()
	resp, err := c.doer.Do(req)
	if err != nil {
		metrics.BackendRequestDuration.WithLabelValues(operation, "error").Observe(time.Since(start).Seconds())
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s: %w", operation, ctxErr)
		}
		return fmt.Errorf("%s: %w: %w", operation, domain.ErrBackendUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	duration := time.Since(start)
	metrics.BackendRequestDuration.WithLabelValues(operation, statusClass(resp.StatusCode)).Observe(duration.Seconds())
	logpkg.FromContext(ctx).Debug("Backend request",
		zap.String("operation", operation),
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", duration),
	)
	if err != nil {
		return fmt.Errorf("%s: read response: %w: %w", operation, domain.ErrBackendUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(operation, resp.StatusCode, body)
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", operation, err)
	}
	return nil
}

func statusClass(code int) string {
	return fmt.Sprintf("%dxx", code/100)
}
