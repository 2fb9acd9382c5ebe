package cmsconsole

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	baseURL    string
	token      string
	timeout    time.Duration
	httpClient *http.Client

	publicStorageURL string
	onNotice         func(Notice)

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithBackend sets the CMS backend API base URL. Required.
func WithBackend(baseURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.baseURL = baseURL
	})
}

// WithToken sets the bearer token sent with every request. A token attached
// to the request context takes precedence.
func WithToken(token string) Option {
	return optionFunc(func(c *clientConfig) {
		c.token = token
	})
}

// WithTimeout bounds every backend request. Requests have no timeout by default.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithHTTPClient replaces the default HTTP client. WithTimeout is ignored
// when set.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithPublicStorageURL sets the base URL that file keys are appended to when
// building preview links.
func WithPublicStorageURL(u string) Option {
	return optionFunc(func(c *clientConfig) {
		c.publicStorageURL = u
	})
}

// WithNotices receives progress and outcome messages of schema and entry
// saves, in order.
func WithNotices(fn func(Notice)) Option {
	return optionFunc(func(c *clientConfig) {
		c.onNotice = fn
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
