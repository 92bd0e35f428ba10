package driving

import (
	"context"

	"github.com/ufro-labs/norma-cli/internal/core/domain"
)

// EvaluationService runs a labelled question batch through the full
// retrieve → assemble → generate pipeline and scores the results.
type EvaluationService interface {
	// Evaluate scores every gold item against one provider. A provider
	// failure on one item is captured in that item's answer text; it
	// never aborts the batch.
	Evaluate(ctx context.Context, items []domain.EvalItem) ([]domain.EvalResult, error)

	// AggregateMetrics computes batch metrics. An empty batch yields
	// the zero value, never a division error.
	AggregateMetrics(results []domain.EvalResult) domain.EvalMetrics

	// Run evaluates, aggregates and persists both artifacts.
	Run(ctx context.Context, items []domain.EvalItem) (domain.EvalMetrics, error)
}
