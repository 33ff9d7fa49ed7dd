package document

import (
	"context"

	"github.com/belinwu/embabel-common/internal/domain"
)

// Repository stores documents.
type Repository interface {
	Put(ctx context.Context, doc domain.Document) error
	Get(ctx context.Context, id string) (domain.Document, error)
	Delete(ctx context.Context, id string) error
}

// Embedder vectorizes document content.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
