package embabel

import (
	"context"
	"time"

	"github.com/belinwu/embabel-common/internal/domain/search/request"
)

// SearchOption adjusts a single search call.
type SearchOption func(*searchParams)

type searchParams struct {
	threshold float64
	topK      int
}

// WithThreshold drops results scoring below min. Valid range is [0, 1];
// the default 0 keeps everything.
func WithThreshold(min float64) SearchOption {
	return func(p *searchParams) {
		p.threshold = min
	}
}

// WithTopK caps the number of returned results. Values outside (0, 500]
// fall back to the default of 10.
func WithTopK(k int) SearchOption {
	return func(p *searchParams) {
		p.topK = k
	}
}

// Search ranks stored documents against the query, best match first.
// With an embedder configured the ranking is semantic; otherwise it is
// lexical token overlap.
func (c *Client) Search(ctx context.Context, query string, opts ...SearchOption) (hits []SearchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	p := searchParams{topK: request.DefaultTopK}
	for _, o := range opts {
		o(&p)
	}

	req, err := request.New(query, p.threshold, p.topK)
	if err != nil {
		return nil, err
	}

	results, err := c.searchSvc.Search(ctx, &req)
	if err != nil {
		return nil, err
	}

	hits = make([]SearchResult, 0, len(results))
	for i := range results {
		r := &results[i]
		hits = append(hits, SearchResult{
			ID:      r.ID(),
			Score:   r.Score(),
			Content: r.Content(),
			Tags:    r.Tags(),
		})
	}
	return hits, nil
}
