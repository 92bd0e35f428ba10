package driven

import (
	"context"

	"github.com/ufro-labs/norma-cli/internal/core/domain"
)

// ChunkStore is the persisted chunk metadata table paired with the
// vector index. Row order is insertion order and must match the vector
// positions; only the index-build step ever writes to it.
type ChunkStore interface {
	// All returns every chunk in insertion order.
	All(ctx context.Context) ([]domain.Chunk, error)

	// Count returns the number of stored chunks.
	Count(ctx context.Context) (int, error)

	// ReplaceAll atomically replaces the whole table with the given
	// chunks, preserving their order. Used only at index-build time.
	ReplaceAll(ctx context.Context, chunks []domain.Chunk) error

	// Close releases resources.
	Close() error
}
