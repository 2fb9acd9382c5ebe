package health

import (
	"context"

	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/cmsconsole/internal/logger"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates every component failed.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names reported in Report.Checks.
const (
	ComponentSessions = "sessions"
	ComponentBackend  = "backend"
)

// Report aggregates health check results.
type Report struct {
	Status Status                 `json:"status"`
	Checks map[string]CheckResult `json:"checks"`
}

// Service coordinates health checks.
type Service struct {
	store   StorePinger
	backend BackendChecker
}

// New creates a Service. Either dependency can be nil to skip its check.
func New(store StorePinger, backend BackendChecker) *Service {
	return &Service{store: store, backend: backend}
}

// Check probes the session store and the CMS backend.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, 2)
	logger := logpkg.FromContext(ctx)

	if s.store != nil {
		checks[ComponentSessions] = result(s.store.Ping(ctx), ComponentSessions, logger)
	}
	if s.backend != nil {
		checks[ComponentBackend] = result(s.backend.Health(ctx), ComponentBackend, logger)
	}

	failed := 0
	for _, v := range checks {
		if v == CheckError {
			failed++
		}
	}

	status := Healthy
	switch {
	case failed > 0 && failed == len(checks):
		status = Unhealthy
	case failed > 0:
		status = Degraded
	}
	return Report{Status: status, Checks: checks}
}

func result(err error, component string, logger *zap.Logger) CheckResult {
	if err != nil {
		logger.Warn("Health check failed", zap.String("component", component), zap.Error(err))
		return CheckError
	}
	return CheckOK
}
