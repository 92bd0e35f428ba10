package driving

import (
	"context"

	"github.com/ufro-labs/norma-cli/internal/core/domain"
)

// Answer is the outcome of asking one provider a single question.
type Answer struct {
	// Question is the user's question.
	Question string

	// Provider is the answering backend's label.
	Provider string

	// Text is the generated answer, or an error-marked string when the
	// provider call failed.
	Text string

	// Chunks are the retrieved grounding fragments (may be empty).
	Chunks []domain.Chunk

	// RetrievalSec is the time spent on retrieval.
	RetrievalSec float64

	// ChatSec is the time spent on the provider call only.
	ChatSec float64

	// TokensIn and TokensOut are approximate token counts.
	TokensIn  int
	TokensOut int

	// EstCostUSD is the estimated provider cost; zero on failure.
	EstCostUSD float64

	// Failed reports whether the provider call failed.
	Failed bool
}

// Comparison is the outcome of sending the same prompt to two providers.
type Comparison struct {
	// Question is the user's question.
	Question string

	// Chunks are the shared grounding fragments.
	Chunks []domain.Chunk

	// RetrievalSec is the shared retrieval time.
	RetrievalSec float64

	// Answers holds one entry per provider. Fastest reports the index
	// into Answers of the lower-latency call; it is a pure function of
	// the recorded ChatSec values.
	Answers []Answer

	// Fastest is the index into Answers with the lowest ChatSec.
	Fastest int
}

// AnswerService produces grounded answers from providers.
type AnswerService interface {
	// Ask retrieves grounding context (continuing without it when no
	// index is available), assembles the prompt and queries one
	// provider. Provider failure is reported inside the Answer, not as
	// a returned error.
	Ask(ctx context.Context, query string, k int) (Answer, error)

	// Compare sends the same assembled prompt to two providers and
	// ranks them by their own call latency.
	Compare(ctx context.Context, query string, k int) (Comparison, error)
}
