package document

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/belinwu/embabel-common/internal/domain"
)

// Service manages stored documents, vectorizing content on ingest when an
// embedder is configured.
type Service struct {
	repo   Repository
	embed  Embedder // nil disables ingest-time vectorization
	logger *zap.Logger
}

// New creates a document service. embed may be nil.
func New(repo Repository, embed Embedder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, embed: embed, logger: logger}
}

// Put validates and stores a document. A document arriving without a vector
// is embedded first when an embedder is available; otherwise it is stored
// as-is and stays reachable through lexical search only.
func (s *Service) Put(ctx context.Context, doc domain.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	if len(doc.Vector) == 0 && s.embed != nil {
		embResult, err := s.embed.Embed(ctx, doc.Content)
		if err != nil {
			return fmt.Errorf("vectorize document %q: %w", doc.ID, err)
		}
		doc.Vector = embResult.Embedding
	}

	if err := s.repo.Put(ctx, doc); err != nil {
		return fmt.Errorf("store document %q: %w", doc.ID, err)
	}

	s.logger.Debug("document stored",
		zap.String("id", doc.ID),
		zap.Int("vector_dims", len(doc.Vector)),
	)
	return nil
}

// Get returns a stored document.
func (s *Service) Get(ctx context.Context, id string) (domain.Document, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Document{}, fmt.Errorf("get document %q: %w", id, err)
	}
	return doc, nil
}

// Delete removes a stored document.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete document %q: %w", id, err)
	}
	return nil
}
