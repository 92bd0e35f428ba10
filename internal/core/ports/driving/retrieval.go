package driving

import (
	"context"

	"github.com/ufro-labs/norma-cli/internal/core/domain"
)

// RetrievalService finds the chunks most similar to a query.
type RetrievalService interface {
	// Search returns at most k chunks ordered by descending similarity,
	// each copy annotated with its score. A loaded but empty index
	// yields an empty slice; an unconfigured index yields
	// domain.ErrIndexNotFound so callers can continue ungrounded.
	Search(ctx context.Context, query string, k int) ([]domain.Chunk, error)
}
