package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ufro-labs/norma-cli/internal/core/domain"
	"github.com/ufro-labs/norma-cli/internal/core/ports/driven"
	"github.com/ufro-labs/norma-cli/internal/core/ports/driving"
	"github.com/ufro-labs/norma-cli/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// errorAnswerPrefix marks answers that stand in for a failed provider
// call. The error text replaces the answer; it never aborts the flow.
const errorAnswerPrefix = "[Error proveedor] "

// AnswerService produces grounded answers from providers.
type AnswerService struct {
	retriever driving.RetrievalService
	primary   driven.Provider
	secondary driven.Provider
}

// NewAnswerService creates an answer service. secondary is only needed
// for Compare and may be nil otherwise.
func NewAnswerService(retriever driving.RetrievalService, primary, secondary driven.Provider) *AnswerService {
	return &AnswerService{retriever: retriever, primary: primary, secondary: secondary}
}

// retrieveOrDegrade fetches grounding context, degrading to none when
// the index is missing or corrupt.
func retrieveOrDegrade(ctx context.Context, retriever driving.RetrievalService, query string, k int) ([]domain.Chunk, float64, error) {
	start := time.Now()
	chunks, err := retriever.Search(ctx, query, k)
	if err != nil {
		if errors.Is(err, domain.ErrIndexNotFound) || errors.Is(err, domain.ErrCorruptIndex) {
			logger.Warn("retrieval disabled, answering without grounding context: %v", err)
			return nil, time.Since(start).Seconds(), nil
		}
		return nil, 0, fmt.Errorf("retrieving context: %w", err)
	}
	return chunks, time.Since(start).Seconds(), nil
}

// chat runs one provider call and packages the outcome, converting a
// provider failure into an error-marked answer at zero cost.
func chat(ctx context.Context, provider driven.Provider, query string, messages []domain.ChatMessage) driving.Answer {
	answer := driving.Answer{
		Question: query,
		Provider: provider.Name(),
		TokensIn: domain.ApproxMessageTokens(messages),
	}

	start := time.Now()
	text, err := provider.Chat(ctx, messages)
	answer.ChatSec = time.Since(start).Seconds()

	if err != nil {
		logger.Warn("provider %s failed: %v", provider.Name(), err)
		answer.Text = errorAnswerPrefix + err.Error()
		answer.Failed = true
		return answer
	}

	answer.Text = text
	answer.TokensOut = domain.ApproxTokens(text)
	answer.EstCostUSD = provider.EstimateCost(answer.TokensIn, answer.TokensOut)
	return answer
}

// Ask answers a single question with the primary provider.
func (s *AnswerService) Ask(ctx context.Context, query string, k int) (driving.Answer, error) {
	chunks, retrievalSec, err := retrieveOrDegrade(ctx, s.retriever, query, k)
	if err != nil {
		return driving.Answer{}, err
	}

	messages := BuildMessages(query, chunks)

	logger.Section("Generation")
	logger.Debug("provider: %s, grounding fragments: %d", s.primary.Name(), len(chunks))

	answer := chat(ctx, s.primary, query, messages)
	answer.Chunks = chunks
	answer.RetrievalSec = retrievalSec
	return answer, nil
}

// Compare sends the same assembled prompt to both providers through
// two independent concurrent calls. Each reported latency spans only
// that provider's own call, and the fastest/slowest ranking is a pure
// function of the recorded latencies.
func (s *AnswerService) Compare(ctx context.Context, query string, k int) (driving.Comparison, error) {
	if s.secondary == nil {
		return driving.Comparison{}, fmt.Errorf("%w: compare requires two providers", domain.ErrInvalidInput)
	}

	chunks, retrievalSec, err := retrieveOrDegrade(ctx, s.retriever, query, k)
	if err != nil {
		return driving.Comparison{}, err
	}

	messages := BuildMessages(query, chunks)
	providers := []driven.Provider{s.primary, s.secondary}
	answers := make([]driving.Answer, len(providers))

	var wg sync.WaitGroup
	for i, p := range providers {
		wg.Add(1)
		go func(i int, p driven.Provider) {
			defer wg.Done()
			answers[i] = chat(ctx, p, query, messages)
		}(i, p)
	}
	wg.Wait()

	fastest := 0
	for i, a := range answers {
		a.Chunks = chunks
		a.RetrievalSec = retrievalSec
		answers[i] = a
		if a.ChatSec < answers[fastest].ChatSec {
			fastest = i
		}
	}

	return driving.Comparison{
		Question:     query,
		Chunks:       chunks,
		RetrievalSec: retrievalSec,
		Answers:      answers,
		Fastest:      fastest,
	}, nil
}
