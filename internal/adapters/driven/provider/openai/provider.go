// Package openai provides an answer-generation provider backed by the
// OpenAI chat completions API (or any compatible endpoint, e.g.
// OpenRouter).
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/ufro-labs/norma-cli/internal/core/domain"
	"github.com/ufro-labs/norma-cli/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.Provider = (*Provider)(nil)

// Default configuration values.
const (
	DefaultModel       = "gpt-4o-mini"
	DefaultTimeout     = 60 * time.Second
	DefaultTemperature = 0.2
	DefaultMaxTokens   = 1024
)

// modelPricing holds USD prices per 1K tokens.
type modelPricing struct {
	input  float64
	output float64
}

var modelPrices = map[string]modelPricing{
	"gpt-4o-mini": {input: 0.00015, output: 0.0006},
	"gpt-4o":      {input: 0.0025, output: 0.01},
	"gpt-4.1":     {input: 0.002, output: 0.008},
}

// fallbackPricePerMTokens is used for models not in the table.
const fallbackPricePerMTokens = 0.10

// Config holds configuration for the OpenAI provider.
type Config struct {
	// APIKey is the API key (required).
	APIKey string

	// BaseURL overrides the API base URL, e.g. for OpenRouter.
	BaseURL string

	// Model is the chat model to use (default: gpt-4o-mini).
	Model string

	// Timeout bounds every chat request (default: 60s).
	Timeout time.Duration

	// Temperature controls sampling (default: 0.2).
	Temperature float32

	// MaxTokens caps the generated answer length (default: 1024).
	MaxTokens int
}

// Provider answers questions through the OpenAI chat completions API.
type Provider struct {
	client      *goopenai.Client
	model       string
	timeout     time.Duration
	temperature float32
	maxTokens   int
}

// New creates a new OpenAI provider.
func New(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY is not set", domain.ErrProviderUnavailable)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Provider{
		client:      goopenai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		timeout:     cfg.Timeout,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// Name returns the stable human-readable provider label.
func (p *Provider) Name() string {
	return "openai (" + p.model + ")"
}

// Chat produces an answer from the message sequence. Every SDK or
// transport failure is translated into *domain.ProviderError.
func (p *Provider) Chat(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	reqMessages := make([]goopenai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		reqMessages[i] = goopenai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    reqMessages,
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
	})
	if err != nil {
		return "", p.translateError(err)
	}

	if len(resp.Choices) == 0 {
		return "", domain.NewProviderError(p.Name(), "empty response: no choices returned", nil)
	}

	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if answer == "" {
		return "", domain.NewProviderError(p.Name(), "empty response: blank answer", nil)
	}
	return answer, nil
}

// EstimateCost estimates the USD cost of a call from approximate token
// counts.
func (p *Provider) EstimateCost(inputTokens, outputTokens int) float64 {
	prices, ok := modelPrices[p.model]
	if !ok {
		return float64(inputTokens+outputTokens) / 1_000_000 * fallbackPricePerMTokens
	}
	return float64(inputTokens)/1000*prices.input + float64(outputTokens)/1000*prices.output
}

// translateError maps SDK errors onto the uniform provider failure.
func (p *Provider) translateError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized:
			return domain.NewProviderError(p.Name(), "authentication failed (401): check the API key", nil)
		case http.StatusTooManyRequests:
			return domain.NewProviderError(p.Name(), "rate limit (429): too many requests", nil)
		case http.StatusBadRequest:
			return domain.NewProviderError(p.Name(), fmt.Sprintf("bad request (400): %s", apiErr.Message), nil)
		default:
			return domain.NewProviderError(p.Name(),
				fmt.Sprintf("API error (status %d): %s", apiErr.HTTPStatusCode, apiErr.Message), nil)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewProviderError(p.Name(), fmt.Sprintf("timeout after %s", p.timeout), nil)
	}
	return domain.NewProviderError(p.Name(), "request failed", err)
}
