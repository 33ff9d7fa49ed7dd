package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	store     StorePinger
	embedding EmbeddingChecker
	console   ConsoleReporter
}

// New creates a Service. embedding and console can be nil.
func New(store StorePinger, embedding EmbeddingChecker, console ConsoleReporter) *Service {
	return &Service{store: store, embedding: embedding, console: console}
}

// Check runs health checks against all components. A console without
// Unicode support is reported but does not degrade overall status; it
// only affects rendering.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.store.Ping(ctx); err != nil {
		checks["store"] = CheckError
	} else {
		checks["store"] = CheckOK
	}

	if s.embedding != nil {
		if err := s.embedding.HealthCheck(ctx); err != nil {
			checks["embedding"] = CheckError
		} else {
			checks["embedding"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	if s.console != nil {
		if s.console.UnicodeSupported() {
			checks["console_unicode"] = CheckOK
		} else {
			checks["console_unicode"] = CheckError
		}
	}

	return Report{Status: status, Checks: checks}
}
