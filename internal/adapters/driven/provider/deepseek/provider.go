// Package deepseek provides an answer-generation provider using the
// DeepSeek OpenAI-compatible HTTP API directly.
package deepseek

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ufro-labs/norma-cli/internal/core/domain"
	"github.com/ufro-labs/norma-cli/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.Provider = (*Provider)(nil)

// Default configuration values.
const (
	DefaultEndpoint    = "https://api.deepseek.com/v1/chat/completions"
	DefaultModel       = "deepseek-chat"
	DefaultTimeout     = 60 * time.Second
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 2000
)

// modelInfo holds the display name and USD prices per 1K tokens.
type modelInfo struct {
	name   string
	input  float64
	output float64
}

// supportedModels lists the tested models and their pricing.
var supportedModels = map[string]modelInfo{
	"deepseek-chat":     {name: "DeepSeek Chat", input: 0.00014, output: 0.00028},
	"deepseek-reasoner": {name: "DeepSeek Reasoner", input: 0.00055, output: 0.0022},
}

// fallbackPricePerMTokens is used for models not in the table.
const fallbackPricePerMTokens = 0.10

// Config holds configuration for the DeepSeek provider.
type Config struct {
	// APIKey is the DeepSeek API key (required).
	APIKey string

	// Endpoint is the chat completions URL (default: DefaultEndpoint).
	Endpoint string

	// Model is the chat model to use (default: deepseek-chat).
	Model string

	// Timeout bounds every chat request (default: 60s).
	Timeout time.Duration

	// Temperature controls sampling (default: 0.7).
	Temperature float64

	// MaxTokens caps the generated answer length (default: 2000).
	MaxTokens int
}

// Provider answers questions through the DeepSeek HTTP API.
type Provider struct {
	client      *http.Client
	endpoint    string
	apiKey      string
	model       string
	timeout     time.Duration
	temperature float64
	maxTokens   int
}

// chatRequest is the OpenAI-compatible request format.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the OpenAI-compatible response format.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// New creates a new DeepSeek provider.
func New(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: DEEPSEEK_API_KEY is not set", domain.ErrProviderUnavailable)
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
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

	return &Provider{
		client:      &http.Client{Timeout: cfg.Timeout},
		endpoint:    cfg.Endpoint,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		timeout:     cfg.Timeout,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// Name returns the stable human-readable provider label.
func (p *Provider) Name() string {
	if info, ok := supportedModels[p.model]; ok {
		return "deepseek (" + info.name + ")"
	}
	return "deepseek (" + p.model + ")"
}

// Chat sends a chat completion request. HTTP status codes, transport
// failures and malformed responses are all translated into
// *domain.ProviderError with a human-readable cause.
func (p *Provider) Chat(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	reqMessages := make([]chatMessage, len(messages))
	for i, m := range messages {
		reqMessages[i] = chatMessage{Role: m.Role, Content: m.Content}
	}

	jsonBody, err := json.Marshal(chatRequest{
		Model:       p.model,
		Messages:    reqMessages,
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
		Stream:      false,
	})
	if err != nil {
		return "", domain.NewProviderError(p.Name(), "marshal request", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", domain.NewProviderError(p.Name(), "create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", domain.NewProviderError(p.Name(), fmt.Sprintf("timeout after %s", p.timeout), nil)
		}
		return "", domain.NewProviderError(p.Name(), "connection failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domain.NewProviderError(p.Name(), "read response", err)
	}

	if err := p.checkStatus(resp.StatusCode, body); err != nil {
		return "", err
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", domain.NewProviderError(p.Name(), "malformed response", err)
	}
	if chatResp.Error != nil {
		return "", domain.NewProviderError(p.Name(), "API error: "+chatResp.Error.Message, nil)
	}
	if len(chatResp.Choices) == 0 {
		return "", domain.NewProviderError(p.Name(), "empty response: no choices returned", nil)
	}

	answer := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if answer == "" {
		return "", domain.NewProviderError(p.Name(), "empty response: blank answer", nil)
	}
	return answer, nil
}

// checkStatus maps HTTP status codes onto actionable failure causes.
func (p *Provider) checkStatus(status int, body []byte) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusUnauthorized:
		return domain.NewProviderError(p.Name(), "authentication failed (401): check DEEPSEEK_API_KEY", nil)
	case status == http.StatusBadRequest:
		var errResp chatResponse
		msg := string(body)
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != nil {
			msg = errResp.Error.Message
		}
		return domain.NewProviderError(p.Name(), "bad request (400): "+msg, nil)
	case status == http.StatusTooManyRequests:
		return domain.NewProviderError(p.Name(), "rate limit (429): too many requests", nil)
	case status == http.StatusServiceUnavailable:
		return domain.NewProviderError(p.Name(), "service unavailable (503)", nil)
	case status >= http.StatusInternalServerError:
		return domain.NewProviderError(p.Name(), fmt.Sprintf("server error (%d)", status), nil)
	default:
		return domain.NewProviderError(p.Name(), fmt.Sprintf("unexpected status %d", status), nil)
	}
}

// EstimateCost estimates the USD cost of a call from approximate token
// counts.
func (p *Provider) EstimateCost(inputTokens, outputTokens int) float64 {
	info, ok := supportedModels[p.model]
	if !ok {
		return float64(inputTokens+outputTokens) / 1_000_000 * fallbackPricePerMTokens
	}
	return float64(inputTokens)/1000*info.input + float64(outputTokens)/1000*info.output
}
