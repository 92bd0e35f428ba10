package services

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ufro-labs/norma-cli/internal/core/domain"
	"github.com/ufro-labs/norma-cli/internal/core/ports/driven"
	"github.com/ufro-labs/norma-cli/internal/core/ports/driving"
	"github.com/ufro-labs/norma-cli/internal/logger"
)

var _ driving.EvaluationService = (*EvaluatorService)(nil)

// referencesPattern captures everything after a "Referencias:" marker,
// case-insensitively and across lines.
var referencesPattern = regexp.MustCompile(`(?is)referencias:\s*(.*)`)

// maxSynthesizedReferences caps how many retrieved fragments back a
// synthesized references block when the answer carries none.
const maxSynthesizedReferences = 3

// EvaluatorService scores a provider against a gold question set.
type EvaluatorService struct {
	retriever driving.RetrievalService
	provider  driven.Provider
	results   driven.ResultStore
	k         int

	// limiter paces provider calls across the batch; nil disables pacing.
	limiter *rate.Limiter
}

// NewEvaluatorService creates an evaluator. k is the retrieval depth per
// question; callsPerSec caps the provider call rate (zero or negative
// disables pacing).
func NewEvaluatorService(retriever driving.RetrievalService, provider driven.Provider, results driven.ResultStore, k int, callsPerSec float64) *EvaluatorService {
	var limiter *rate.Limiter
	if callsPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(callsPerSec), 1)
	}
	return &EvaluatorService{
		retriever: retriever,
		provider:  provider,
		results:   results,
		k:         k,
		limiter:   limiter,
	}
}

// ExtractReferences returns the text following a "Referencias:" marker,
// or empty when the answer carries none.
func ExtractReferences(answer string) string {
	m := referencesPattern.FindStringSubmatch(answer)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// SynthesizeReferences builds a references block from retrieved
// fragments, used when the provider's answer omits one.
func SynthesizeReferences(chunks []domain.Chunk) string {
	if len(chunks) == 0 {
		return ""
	}
	n := len(chunks)
	if n > maxSynthesizedReferences {
		n = maxSynthesizedReferences
	}
	lines := make([]string, 0, n)
	for _, c := range chunks[:n] {
		lines = append(lines, fmt.Sprintf("- [%s, p.%d]", c.DisplayName(), c.Page))
	}
	return strings.Join(lines, "\n")
}

// matchesGold applies the intentionally lenient exact-match rule: the
// gold answer must appear as a case-insensitive substring of the
// generated answer. A coverage signal, not strict correctness.
func matchesGold(answer, gold string) bool {
	gold = strings.TrimSpace(gold)
	if gold == "" {
		return false
	}
	return strings.Contains(strings.ToLower(answer), strings.ToLower(gold))
}

// Evaluate runs every gold item through retrieve, assemble and
// generate. One provider failure marks that item's answer and keeps
// going.
func (s *EvaluatorService) Evaluate(ctx context.Context, items []domain.EvalItem) ([]domain.EvalResult, error) {
	logger.Section("Evaluation")
	logger.Info("evaluating %d questions against %s", len(items), s.provider.Name())

	results := make([]domain.EvalResult, 0, len(items))
	for i, item := range items {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("pacing evaluation: %w", err)
			}
		}

		result, err := s.evaluateOne(ctx, item)
		if err != nil {
			return nil, fmt.Errorf("evaluating question %d: %w", i+1, err)
		}
		results = append(results, result)
		logger.Debug("question %d/%d: exact_match=%v latency=%.2fs", i+1, len(items), result.ExactMatch, result.LatencySec)
	}
	return results, nil
}

func (s *EvaluatorService) evaluateOne(ctx context.Context, item domain.EvalItem) (domain.EvalResult, error) {
	// Latency spans the full per-item pipeline, not just generation.
	start := time.Now()

	chunks, _, err := retrieveOrDegrade(ctx, s.retriever, item.Question, s.k)
	if err != nil {
		return domain.EvalResult{}, err
	}

	messages := BuildMessages(item.Question, chunks)
	answer, chatErr := s.provider.Chat(ctx, messages)

	result := domain.EvalResult{
		Question:   item.Question,
		Provider:   s.provider.Name(),
		LatencySec: time.Since(start).Seconds(),
	}

	if chatErr != nil {
		logger.Warn("provider %s failed on %q: %v", s.provider.Name(), item.Question, chatErr)
		result.Answer = errorAnswerPrefix + chatErr.Error()
		return result, nil
	}

	refs := ExtractReferences(answer)
	if refs == "" {
		if synth := SynthesizeReferences(chunks); synth != "" {
			refs = synth
			answer = answer + "\n\nReferencias:\n" + synth
		}
	}

	result.Answer = answer
	result.References = refs
	result.EstCostUSD = s.provider.EstimateCost(domain.ApproxMessageTokens(messages), domain.ApproxTokens(answer))
	result.ExactMatch = matchesGold(answer, item.Answer)
	return result, nil
}

// AggregateMetrics computes batch-level metrics. An empty batch yields
// the zero value.
func (s *EvaluatorService) AggregateMetrics(results []domain.EvalResult) domain.EvalMetrics {
	if len(results) == 0 {
		return domain.EvalMetrics{}
	}

	var exact, cited int
	var latency, cost float64
	for _, r := range results {
		if r.ExactMatch {
			exact++
		}
		if strings.TrimSpace(r.References) != "" {
			cited++
		}
		latency += r.LatencySec
		cost += r.EstCostUSD
	}

	n := float64(len(results))
	return domain.EvalMetrics{
		N:                len(results),
		ExactMatch:       round(float64(exact)/n, 3),
		CitationCoverage: round(float64(cited)/n, 3),
		AvgLatencySec:    round(latency/n, 3),
		AvgCostUSD:       round(cost/n, 6),
	}
}

// Run evaluates, aggregates and persists both artifacts.
func (s *EvaluatorService) Run(ctx context.Context, items []domain.EvalItem) (domain.EvalMetrics, error) {
	results, err := s.Evaluate(ctx, items)
	if err != nil {
		return domain.EvalMetrics{}, err
	}

	metrics := s.AggregateMetrics(results)

	resultsPath, err := s.results.WriteResults(s.provider.Name(), results)
	if err != nil {
		return domain.EvalMetrics{}, fmt.Errorf("writing results: %w", err)
	}
	summaryPath, err := s.results.WriteSummary(s.provider.Name(), metrics)
	if err != nil {
		return domain.EvalMetrics{}, fmt.Errorf("writing summary: %w", err)
	}

	logger.Info("results written to %s", resultsPath)
	logger.Info("summary written to %s", summaryPath)
	return metrics, nil
}

func round(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
