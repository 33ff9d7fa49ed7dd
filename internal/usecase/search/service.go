package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/belinwu/embabel-common/internal/domain/search/request"
	"github.com/belinwu/embabel-common/internal/domain/search/result"
)

// Service executes similarity searches over a repository.
type Service struct {
	repo   Repository
	embed  Embedder // nil disables semantic search
	logger *zap.Logger
}

// New creates a search service. embed may be nil; the service then ranks
// lexically only.
func New(repo Repository, embed Embedder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, embed: embed, logger: logger}
}

// Search ranks stored documents against the request, drops matches below
// the similarity threshold, and returns at most TopK results ordered by
// descending score.
func (s *Service) Search(ctx context.Context, req *request.Request) (result.Results, error) {
	var (
		results result.Results
		err     error
	)

	if s.embed != nil {
		results, err = s.searchSemantic(ctx, req)
	} else {
		results, err = s.repo.SearchLexical(ctx, req.Query(), req.TopK())
		if err != nil {
			err = fmt.Errorf("lexical search: %w", err)
		}
	}
	if err != nil {
		return nil, err
	}

	results = results.AboveThreshold(req.Threshold())
	results.SortByScore()
	results = results.Top(req.TopK())

	s.logger.Debug("similarity search executed",
		zap.Int("results", len(results)),
		zap.Int("top_k", req.TopK()),
		zap.Float64("threshold", req.Threshold()),
	)
	return results, nil
}

// searchSemantic embeds the query and runs a vector search.
func (s *Service) searchSemantic(ctx context.Context, req *request.Request) (result.Results, error) {
	embResult, err := s.embed.Embed(ctx, req.Query())
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	results, err := s.repo.SearchVector(ctx, embResult.Embedding, req.TopK())
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	return results, nil
}
