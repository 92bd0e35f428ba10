package driven

import (
	"context"

	"github.com/ufro-labs/norma-cli/internal/core/domain"
)

// Provider is an interchangeable answer-generation backend.
//
// Implementations translate every transport-level failure, rate limit,
// authentication failure and malformed response into a
// *domain.ProviderError before returning; no vendor SDK error type
// crosses this boundary. A backend constructed without a credential
// never errors at construction time: it answers every call with a
// clearly marked disabled message at zero cost.
type Provider interface {
	// Chat produces an answer from an ordered message sequence.
	Chat(ctx context.Context, messages []domain.ChatMessage) (string, error)

	// EstimateCost estimates the USD cost of a call from approximate
	// token counts. The figure is an estimate, never billed truth.
	EstimateCost(inputTokens, outputTokens int) float64

	// Name returns a stable human-readable provider label.
	Name() string
}
