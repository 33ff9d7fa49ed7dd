package health

import "context"

// StorePinger checks document store availability.
type StorePinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}

// ConsoleReporter reports whether the hosting console renders Unicode.
type ConsoleReporter interface {
	UnicodeSupported() bool
}
