// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"errors"
	"fmt"
	"os"

	hashembed "github.com/ufro-labs/norma-cli/internal/adapters/driven/embedding/hash"
	openaiembed "github.com/ufro-labs/norma-cli/internal/adapters/driven/embedding/openai"
	deepseekprov "github.com/ufro-labs/norma-cli/internal/adapters/driven/provider/deepseek"
	openaiprov "github.com/ufro-labs/norma-cli/internal/adapters/driven/provider/openai"
	"github.com/ufro-labs/norma-cli/internal/adapters/driven/provider/stub"
	"github.com/ufro-labs/norma-cli/internal/core/domain"
	"github.com/ufro-labs/norma-cli/internal/core/ports/driven"
	"github.com/ufro-labs/norma-cli/internal/logger"
)

// Provider keys accepted by CreateProvider.
const (
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
	ProviderStub     = "stub"
)

// CreateProvider builds the requested provider from environment
// credentials. A missing credential never fails construction: the
// result degrades to the disabled variant so callers can proceed at
// zero cost (a warning is logged). An unknown key is an error.
func CreateProvider(key string) (driven.Provider, error) {
	switch key {
	case ProviderOpenAI:
		p, err := openaiprov.New(openaiprov.Config{
			APIKey:  firstEnv("OPENROUTER_API_KEY", "OPENAI_API_KEY"),
			BaseURL: os.Getenv("OPENAI_BASE_URL"),
			Model:   os.Getenv("OPENAI_MODEL"),
		})
		if err != nil {
			return degrade(key, err)
		}
		return p, nil

	case ProviderDeepSeek:
		p, err := deepseekprov.New(deepseekprov.Config{
			APIKey:   os.Getenv("DEEPSEEK_API_KEY"),
			Endpoint: os.Getenv("DEEPSEEK_BASE_URL"),
			Model:    os.Getenv("DEEPSEEK_MODEL"),
		})
		if err != nil {
			return degrade(key, err)
		}
		return p, nil

	case ProviderStub:
		return stub.New(), nil

	default:
		return nil, fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, key)
	}
}

// degrade turns a missing-credential failure into a disabled provider.
// Anything else is a real configuration error and propagates.
func degrade(key string, err error) (driven.Provider, error) {
	if errors.Is(err, domain.ErrProviderUnavailable) {
		logger.Warn("provider %q unavailable, degrading to disabled answers: %v", key, err)
		return stub.NewDisabled(key, err.Error()), nil
	}
	return nil, fmt.Errorf("creating provider %q: %w", key, err)
}

// CreateEmbeddingService builds the embedding backend. With an OpenAI
// key present the remote encoder is used; otherwise the local
// deterministic hash encoder. Retrieval then works offline out of the
// box, matching whatever encoder built the index.
func CreateEmbeddingService(dimensions int) (driven.EmbeddingService, error) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && os.Getenv("NORMA_EMBEDDINGS") != "hash" {
		svc, err := openaiembed.New(openaiembed.Config{
			APIKey: key,
			Model:  os.Getenv("EMBED_MODEL"),
		})
		if err != nil {
			return nil, fmt.Errorf("creating openai embeddings: %w", err)
		}
		logger.Debug("embeddings: %s (%d dims)", svc.ModelName(), svc.Dimensions())
		return svc, nil
	}

	svc := hashembed.New(dimensions)
	logger.Debug("embeddings: %s (%d dims)", svc.ModelName(), svc.Dimensions())
	return svc, nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
