// Package file persists evaluation artifacts: a per-question CSV and a
// JSON metrics summary, both timestamped so repeated runs never
// overwrite earlier results.
package file

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ufro-labs/norma-cli/internal/core/domain"
	"github.com/ufro-labs/norma-cli/internal/core/ports/driven"
)

// Ensure ResultStore implements the interface.
var _ driven.ResultStore = (*ResultStore)(nil)

// stampFormat matches the original artifact naming: 20060102_150405.
const stampFormat = "20060102_150405"

// ResultStore writes evaluation artifacts into a directory.
type ResultStore struct {
	dir string
	now func() time.Time
}

// New creates a result store writing into dir (created if absent).
func New(dir string) (*ResultStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating results directory: %w", err)
	}
	return &ResultStore{dir: dir, now: time.Now}, nil
}

// WriteResults persists one CSV row per evaluated question and returns
// the written path.
func (s *ResultStore) WriteResults(provider string, results []domain.EvalResult) (string, error) {
	path := filepath.Join(s.dir, fmt.Sprintf("results_%s_%s.csv", slug(provider), s.now().Format(stampFormat)))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating results file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"question", "provider", "answer", "references"}); err != nil {
		return "", fmt.Errorf("writing header: %w", err)
	}
	for _, r := range results {
		if err := w.Write([]string{r.Question, r.Provider, r.Answer, r.References}); err != nil {
			return "", fmt.Errorf("writing result row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing results: %w", err)
	}

	return path, nil
}

// WriteSummary persists the aggregate metrics for a run and returns the
// written path.
func (s *ResultStore) WriteSummary(provider string, metrics domain.EvalMetrics) (string, error) {
	path := filepath.Join(s.dir, fmt.Sprintf("summary_%s_%s.json", slug(provider), s.now().Format(stampFormat)))

	data, err := json.MarshalIndent(map[string]any{
		"provider":          provider,
		"run_id":            uuid.NewString(),
		"n":                 metrics.N,
		"exact_match":       metrics.ExactMatch,
		"citation_coverage": metrics.CitationCoverage,
		"avg_latency_sec":   metrics.AvgLatencySec,
		"avg_cost_usd":      metrics.AvgCostUSD,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshalling summary: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("writing summary: %w", err)
	}
	return path, nil
}

// slug makes a provider label safe for filenames.
func slug(provider string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, provider)
}
