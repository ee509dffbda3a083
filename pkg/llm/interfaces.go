// Package llm provides the generative fallback collaborators used when the
// rule-based pipeline has no usable answer.
package llm

import (
	"context"
)

// GenerateResponseResult contains the generated text and token usage.
type GenerateResponseResult struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// LLMClient defines the interface for chat completion providers.
// Use this interface for dependency injection to enable mocking in tests.
type LLMClient interface {
	// GenerateResponse generates a single free-text reply.
	GenerateResponse(ctx context.Context, prompt string, systemMessage string, temperature float64) (*GenerateResponseResult, error)

	// GetModel returns the configured model name.
	GetModel() string

	// GetEndpoint returns the configured endpoint.
	GetEndpoint() string
}

// ImageGenerator creates an image for a prompt and returns a URL (or data URI).
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string, size string) (string, error)
}

// Ensure the providers implement the interfaces at compile time.
var (
	_ LLMClient      = (*Client)(nil)
	_ ImageGenerator = (*Client)(nil)
	_ LLMClient      = (*AnthropicClient)(nil)
)
