package embabel

import "context"

// Embedder converts text to vector embeddings. Without one the client
// falls back to lexical token-overlap ranking.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult carries the embedding vector and token counts.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}
