package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProviderError_Message(t *testing.T) {
	err := NewProviderError("deepseek", "rate limit (429)", nil)
	assert.Equal(t, "deepseek: rate limit (429)", err.Error())

	wrapped := NewProviderError("openai", "send request", errors.New("connection refused"))
	assert.Equal(t, "openai: send request: connection refused", wrapped.Error())
}

func TestProviderError_Unwrap(t *testing.T) {
	inner := errors.New("timeout")
	err := NewProviderError("deepseek", "request failed", inner)

	assert.ErrorIs(t, err, inner)

	var provErr *ProviderError
	assert.ErrorAs(t, fmt.Errorf("chat: %w", err), &provErr)
	assert.Equal(t, "deepseek", provErr.Provider)
}

func TestSentinelErrors_Distinguishable(t *testing.T) {
	wrapped := fmt.Errorf("loading index: %w", ErrIndexNotFound)

	assert.ErrorIs(t, wrapped, ErrIndexNotFound)
	assert.NotErrorIs(t, wrapped, ErrCorruptIndex)
	assert.NotErrorIs(t, ErrProviderUnavailable, ErrIndexNotFound)
}

func TestApproxTokens(t *testing.T) {
	assert.Equal(t, 1, ApproxTokens(""))
	assert.Equal(t, 1, ApproxTokens("abc"))
	assert.Equal(t, 3, ApproxTokens("abcdefghijklm"))
}

func TestApproxMessageTokens(t *testing.T) {
	msgs := []ChatMessage{
		{Role: RoleSystem, Content: "instrucciones del sistema aquí"},
		{Role: RoleUser, Content: "¿qué es la matrícula?"},
	}
	assert.Equal(t, ApproxTokens(msgs[0].Content)+ApproxTokens(msgs[1].Content), ApproxMessageTokens(msgs))
	assert.Equal(t, 1, ApproxMessageTokens(nil))
}
