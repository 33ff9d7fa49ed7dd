package search

import (
	"context"

	"github.com/belinwu/embabel-common/internal/domain"
	"github.com/belinwu/embabel-common/internal/domain/search/result"
)

// Repository ranks stored documents against a query.
type Repository interface {
	SearchVector(ctx context.Context, vector []float32, topK int) (result.Results, error)
	SearchLexical(ctx context.Context, query string, topK int) (result.Results, error)
}

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
