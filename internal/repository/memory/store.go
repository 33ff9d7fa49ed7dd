// Package memory implements a process-local document store with
// brute-force similarity ranking. It exists for hosts that need the
// search surface without any external database.
package memory

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/belinwu/embabel-common/internal/domain"
	"github.com/belinwu/embabel-common/internal/domain/search/result"
)

// Store holds documents in memory. Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	docs map[string]domain.Document
}

// New creates an empty store.
func New() *Store {
	return &Store{docs: make(map[string]domain.Document)}
}

// Put stores or replaces a document.
func (s *Store) Put(_ context.Context, doc domain.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = doc
	return nil
}

// Get returns a stored document by id.
func (s *Store) Get(_ context.Context, id string) (domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return domain.Document{}, fmt.Errorf("document %q: %w", id, domain.ErrNotFound)
	}
	return doc, nil
}

// Delete removes a document by id.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return fmt.Errorf("document %q: %w", id, domain.ErrNotFound)
	}
	delete(s.docs, id)
	return nil
}

// Len returns the number of stored documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// SearchVector ranks stored documents by cosine similarity to the query
// vector, normalized to [0,1]. Documents without a vector are skipped;
// a document whose vector dimension differs from the query's is an error.
func (s *Store) SearchVector(_ context.Context, vector []float32, topK int) (result.Results, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make(result.Results, 0, len(s.docs))
	for _, doc := range s.docs {
		if len(doc.Vector) == 0 {
			continue
		}
		if len(doc.Vector) != len(vector) {
			return nil, fmt.Errorf(
				"document %q has %d dims, query has %d: %w",
				doc.ID, len(doc.Vector), len(vector), domain.ErrVectorDimMismatch,
			)
		}
		results = append(results, result.New(doc.ID, cosineScore(vector, doc.Vector), doc.Content, doc.Tags))
	}

	results.SortByScore()
	return results.Top(topK), nil
}

// SearchLexical ranks stored documents by token overlap with the query
// (Jaccard index over lowercased whitespace tokens). Zero-score documents
// are omitted.
func (s *Store) SearchLexical(_ context.Context, query string, topK int) (result.Results, error) {
	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make(result.Results, 0, len(s.docs))
	for _, doc := range s.docs {
		score := jaccard(queryTokens, tokenize(doc.Content))
		if score > 0 {
			results = append(results, result.New(doc.ID, score, doc.Content, doc.Tags))
		}
	}

	results.SortByScore()
	return results.Top(topK), nil
}

// Ping reports store availability; an in-memory store is always reachable.
func (s *Store) Ping(_ context.Context) error { return nil }

// cosineScore maps cosine similarity from [-1,1] into [0,1].
func cosineScore(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return clamp01((1 + cos) / 2)
}

// jaccard computes |a∩b| / |a∪b| over token sets.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var common int
	for tok := range a {
		if _, ok := b[tok]; ok {
			common++
		}
	}
	union := len(a) + len(b) - common
	return clamp01(float64(common) / float64(union))
}

func tokenize(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.Trim(tok, ".,;:!?\"'()[]{}")
		if tok != "" {
			tokens[tok] = struct{}{}
		}
	}
	return tokens
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
