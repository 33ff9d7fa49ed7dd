package request

import "fmt"

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 4096
	DefaultTopK    = 10
	MaxTopK        = 500
)

// Request is a validated text similarity-search query.
type Request struct {
	query     string
	threshold float64
	topK      int
}

// New validates and normalizes similarity-search parameters.
// Defaults: threshold=0, topK=10. TopK is clamped to its maximum.
func New(query string, threshold float64, topK int) (Request, error) {
	if query == "" {
		return Request{}, fmt.Errorf("query is required")
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if threshold < 0 || threshold > 1 {
		return Request{}, fmt.Errorf("threshold must be between 0 and 1")
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	if topK > MaxTopK {
		topK = MaxTopK
	}

	return Request{
		query:     query,
		threshold: threshold,
		topK:      topK,
	}, nil
}

// Query returns the search query text.
func (r *Request) Query() string { return r.query }

// Threshold returns the minimum similarity score a match must reach.
func (r *Request) Threshold() float64 { return r.threshold }

// TopK returns the maximum number of results to return.
func (r *Request) TopK() int { return r.topK }
