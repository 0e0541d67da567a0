package llm

import (
	"context"

	"github.com/ppiankov/saaquiz/internal/model"
)

// Provider defines the interface for text-generation providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends a system instruction and a user prompt and returns the reply text
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Embedder turns text into an embedding vector
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// CompletionRequest contains the input for one generation call
type CompletionRequest struct {
	// System is the fixed instruction sent as the system message
	System string

	// Prompt is the user message
	Prompt string

	// Model overrides the configured model when set
	Model string

	// MaxTokens limits the response length
	MaxTokens int

	// Temperature overrides the configured temperature when > 0
	Temperature float32
}

// CompletionResponse contains the model's reply
type CompletionResponse struct {
	// Text is the reply, trimmed of surrounding spaces and newlines
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Temperature for response generation
	Temperature float32

	// RequestsPerSecond throttles calls; 0 disables throttling
	RequestsPerSecond float64

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:    "openai",
		Model:       "gpt-3.5-turbo",
		Timeout:     60,
		MaxTokens:   1000,
		Temperature: 0.7,
	}
}

// ConfigFromModel converts the generation settings to llm.Config
func ConfigFromModel(c model.LLMConfig, h model.HTTPConfig) Config {
	return Config{
		Provider:          c.Provider,
		Model:             c.Model,
		APIKey:            c.APIKey,
		BaseURL:           c.BaseURL,
		Timeout:           c.Timeout,
		MaxTokens:         c.MaxTokens,
		Temperature:       c.Temperature,
		RequestsPerSecond: c.RequestsPerSecond,
		HTTPProxy:         h.HTTPProxy,
		HTTPSProxy:        h.HTTPSProxy,
		NoProxy:           h.NoProxy,
	}
}

// EmbeddingConfigFromModel converts the embedding settings to llm.Config.
// Embedding calls share the generation throttle setting.
func EmbeddingConfigFromModel(c model.EmbeddingConfig, rps float64, h model.HTTPConfig) Config {
	return Config{
		Provider:          c.Provider,
		Model:             c.Model,
		APIKey:            c.APIKey,
		BaseURL:           c.BaseURL,
		Timeout:           c.Timeout,
		RequestsPerSecond: rps,
		HTTPProxy:         h.HTTPProxy,
		HTTPSProxy:        h.HTTPSProxy,
		NoProxy:           h.NoProxy,
	}
}

func (c Config) maxTokens(req CompletionRequest) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return 1000
}

func (c Config) temperature(req CompletionRequest) float32 {
	if req.Temperature > 0 {
		return req.Temperature
	}
	return c.Temperature
}
