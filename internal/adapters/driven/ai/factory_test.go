package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ufro-labs/norma-cli/internal/core/domain"
)

func TestCreateProvider_Stub(t *testing.T) {
	p, err := CreateProvider(ProviderStub)
	require.NoError(t, err)
	assert.Equal(t, "stub", p.Name())
}

func TestCreateProvider_Unknown(t *testing.T) {
	_, err := CreateProvider("claude")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateProvider_MissingKeyDegrades(t *testing.T) {
	t.Setenv("DEEPSEEK_API_KEY", "")

	p, err := CreateProvider(ProviderDeepSeek)
	require.NoError(t, err, "missing credential must not fail construction")

	answer, err := p.Chat(context.Background(), []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "¿qué es la matrícula?"},
	})
	require.NoError(t, err)
	assert.Contains(t, answer, "[Proveedor deshabilitado]")
	assert.Zero(t, p.EstimateCost(100, 100))
}

func TestCreateProvider_OpenAIMissingKeyDegrades(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")

	p, err := CreateProvider(ProviderOpenAI)
	require.NoError(t, err)
	assert.Contains(t, p.Name(), "deshabilitado")
}

func TestCreateProvider_WithKey(t *testing.T) {
	t.Setenv("DEEPSEEK_API_KEY", "test-key")

	p, err := CreateProvider(ProviderDeepSeek)
	require.NoError(t, err)
	assert.Equal(t, "deepseek (DeepSeek Chat)", p.Name())
}

func TestCreateEmbeddingService_DefaultsToHash(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	svc, err := CreateEmbeddingService(128)
	require.NoError(t, err)
	defer svc.Close()

	assert.Equal(t, "feature-hash-v1", svc.ModelName())
	assert.Equal(t, 128, svc.Dimensions())
}

func TestCreateEmbeddingService_ForcedHash(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "some-key")
	t.Setenv("NORMA_EMBEDDINGS", "hash")

	svc, err := CreateEmbeddingService(0)
	require.NoError(t, err)
	defer svc.Close()

	assert.Equal(t, "feature-hash-v1", svc.ModelName())
}
