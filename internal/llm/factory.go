package llm

import (
	"fmt"
	"strings"
)

// NewProvider creates a text-generation provider based on configuration.
// Calls are throttled when RequestsPerSecond is set.
func NewProvider(config Config) (Provider, error) {
	var (
		p   Provider
		err error
	)

	switch strings.ToLower(config.Provider) {
	case "openai":
		p, err = NewOpenAIProvider(config)
	case "anthropic", "claude":
		p, err = NewAnthropicProvider(config)
	case "ollama":
		p, err = NewOllamaProvider(config)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q (supported: openai, anthropic, ollama)", config.Provider)
	}
	if err != nil {
		return nil, err
	}

	if config.RequestsPerSecond > 0 {
		return NewThrottledProvider(p, NewThrottle(config.RequestsPerSecond, 1)), nil
	}
	return p, nil
}

// NewEmbedder creates an embedding client based on configuration
func NewEmbedder(config Config) (Embedder, error) {
	var (
		e   Embedder
		err error
	)

	switch strings.ToLower(config.Provider) {
	case "openai":
		e, err = NewOpenAIProvider(config)
	case "ollama":
		e, err = NewOllamaProvider(config)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %q (supported: openai, ollama)", config.Provider)
	}
	if err != nil {
		return nil, err
	}

	if config.RequestsPerSecond > 0 {
		return NewThrottledEmbedder(e, NewThrottle(config.RequestsPerSecond, 1)), nil
	}
	return e, nil
}
