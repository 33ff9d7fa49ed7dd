package embabel

// Document is a stored unit of searchable text.
type Document struct {
	ID      string
	Content string
	Tags    map[string]string
	Vector  []float32 // optional; computed from Content when an embedder is configured
}

// SearchResult is a single search hit. Score is normalized to [0, 1].
type SearchResult struct {
	ID      string
	Score   float64
	Content string
	Tags    map[string]string
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok" or "degraded"
	Checks map[string]string // component → "ok"/"error"
}
