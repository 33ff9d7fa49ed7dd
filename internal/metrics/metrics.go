package metrics

import "github.com/prometheus/client_golang/prometheus"

// Console and embedding Prometheus metrics.
var (
	ConsoleFontApplyTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "embabel",
			Name:      "console_font_apply_total",
			Help:      "Console font application attempts",
		},
		[]string{"font", "result"}, // result: "ok" / "error"
	)

	ConsoleCodePageTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "embabel",
			Name:      "console_code_page_total",
			Help:      "Console code page configuration attempts",
		},
		[]string{"result"},
	)

	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "embabel",
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding requests",
		},
		[]string{"provider", "model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "embabel",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "model"},
	)

	EmbeddingErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "embabel",
			Name:      "embedding_errors_total",
			Help:      "Total embedding errors",
		},
		[]string{"provider", "model", "error_type"},
	)
)

// RegisterAppMetrics registers console and embedding metrics explicitly (no init()).
func RegisterAppMetrics() {
	prometheus.MustRegister(ConsoleFontApplyTotal)
	prometheus.MustRegister(ConsoleCodePageTotal)
	prometheus.MustRegister(EmbeddingRequestsTotal)
	prometheus.MustRegister(EmbeddingRequestDuration)
	prometheus.MustRegister(EmbeddingErrorsTotal)
}
