package llm

import (
	"fmt"

	"go.uber.org/zap"
)

// Supported providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// NewClientFromConfig creates the chat client for cfg.Provider. The image
// generator is nil for providers without an image API.
func NewClientFromConfig(cfg *Config, logger *zap.Logger) (LLMClient, ImageGenerator, error) {
	switch cfg.Provider {
	case "", ProviderOpenAI:
		c, err := NewClient(cfg, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("create openai client: %w", err)
		}
		return c, c, nil
	case ProviderAnthropic:
		c, err := NewAnthropicClient(cfg, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("create anthropic client: %w", err)
		}
		return c, nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}
