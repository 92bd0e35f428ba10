package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrIndexNotFound indicates the vector index or its chunk metadata
	// table is missing, or retrieval is not configured at all.
	// Callers degrade to answering without grounding context.
	ErrIndexNotFound = errors.New("vector index not found")

	// ErrCorruptIndex indicates the vector structure and the chunk
	// metadata table disagree (partial write, count mismatch, malformed
	// file). Partial recovery is unsafe, so loaders treat this the same
	// as ErrIndexNotFound.
	ErrCorruptIndex = errors.New("vector index corrupt")

	// ErrProviderUnavailable indicates a provider has no configured
	// credential. The factory degrades to a disabled stub answer.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")
)

// ProviderError is the single failure type a provider adapter may return
// from Chat. Transport errors, authentication failures, rate limits and
// malformed responses are all translated into it before crossing the
// port boundary; nothing vendor-specific leaks upward.
type ProviderError struct {
	// Provider is the human-readable provider name.
	Provider string

	// Cause describes what went wrong, in terms a user can act on.
	Cause string

	// Err is the underlying error, if any.
	Err error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Cause, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Cause)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError builds a ProviderError for the given provider.
func NewProviderError(provider, cause string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Cause: cause, Err: err}
}
