package driven

import (
	"github.com/ufro-labs/norma-cli/internal/core/domain"
)

// ResultStore persists evaluation artifacts. Filenames are timestamped
// per run so repeated evaluations never overwrite prior results.
type ResultStore interface {
	// WriteResults persists one row per evaluated question and returns
	// the path of the written artifact.
	WriteResults(provider string, results []domain.EvalResult) (string, error)

	// WriteSummary persists the aggregate metrics for a run and returns
	// the path of the written artifact.
	WriteSummary(provider string, metrics domain.EvalMetrics) (string, error)
}
