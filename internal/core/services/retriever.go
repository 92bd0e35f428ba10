package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ufro-labs/norma-cli/internal/core/domain"
	"github.com/ufro-labs/norma-cli/internal/core/ports/driven"
	"github.com/ufro-labs/norma-cli/internal/core/ports/driving"
	"github.com/ufro-labs/norma-cli/internal/logger"
)

// Ensure RetrieverService implements the interface.
var _ driving.RetrievalService = (*RetrieverService)(nil)

// DefaultK is the number of chunks retrieved when the caller passes a
// non-positive k.
const DefaultK = 4

// RetrievalContext owns the loaded (vector index, chunk metadata) pair.
// It is built once at startup, shared read-only across queries, and
// replaced wholesale by an explicit reload; nothing mutates it in
// place. Rebuilds must not run while queries are in flight.
type RetrievalContext struct {
	index  driven.VectorIndex
	chunks []domain.Chunk
}

// NewRetrievalContext pairs a loaded index with its metadata rows.
// The positional correspondence between the two is the central
// retrieval invariant, so a count mismatch means one artifact was
// written without the other: the pair is rejected as corrupt rather
// than silently mis-attributing every future result.
func NewRetrievalContext(index driven.VectorIndex, chunks []domain.Chunk) (*RetrievalContext, error) {
	if index.Len() != len(chunks) {
		return nil, fmt.Errorf("%w: index has %d vectors but metadata has %d rows",
			domain.ErrCorruptIndex, index.Len(), len(chunks))
	}
	return &RetrievalContext{index: index, chunks: chunks}, nil
}

// Len returns the number of indexed chunks.
func (rc *RetrievalContext) Len() int {
	return len(rc.chunks)
}

// RetrieverService finds the chunks most similar to a query.
type RetrieverService struct {
	embedder driven.EmbeddingService
	rc       *RetrievalContext
}

// NewRetrieverService creates a retriever over a loaded retrieval
// context. rc may be nil when no index exists yet; Search then reports
// domain.ErrIndexNotFound and callers degrade to ungrounded answering.
func NewRetrieverService(embedder driven.EmbeddingService, rc *RetrievalContext) *RetrieverService {
	return &RetrieverService{embedder: embedder, rc: rc}
}

// Search returns at most k chunks ordered by descending similarity.
// Scores are set on copies; the base metadata rows are never touched.
func (s *RetrieverService) Search(ctx context.Context, query string, k int) ([]domain.Chunk, error) {
	if s.rc == nil {
		return nil, fmt.Errorf("retrieval not configured: %w", domain.ErrIndexNotFound)
	}
	if k <= 0 {
		k = DefaultK
	}

	logger.Section("Retrieval")
	logger.Debug("query: %q, k: %d, indexed chunks: %d", query, k, s.rc.Len())

	if s.rc.Len() == 0 {
		// A loaded but empty index is a valid state, not an error.
		return []domain.Chunk{}, nil
	}

	query = strings.TrimSpace(query)
	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	if dims := s.rc.index.Dimensions(); len(vec) != dims {
		// The index was built with a different encoder configuration;
		// the search below cannot match anything.
		logger.Warn("query embedding has %d dimensions but the index has %d, rebuild the index with the current encoder", len(vec), dims)
	}

	hits := s.rc.index.Search(vec, k)

	results := make([]domain.Chunk, 0, len(hits))
	for _, hit := range hits {
		if hit.Position < 0 || hit.Position >= len(s.rc.chunks) {
			// "No match" sentinels from the underlying structure are
			// filtered here, never surfaced as chunks.
			logger.Debug("dropping out-of-range hit at position %d", hit.Position)
			continue
		}
		chunk := s.rc.chunks[hit.Position]
		chunk.Score = hit.Similarity
		results = append(results, chunk)
	}

	logger.Debug("retrieved %d chunks", len(results))
	return results, nil
}
