package llm

import (
	"context"
)

// MockLLMClient is a configurable mock for testing LLM functionality.
// Set the function fields to control behavior in tests.
type MockLLMClient struct {
	// GenerateResponseFunc is called when GenerateResponse is invoked.
	// If nil, returns an empty result and nil error.
	GenerateResponseFunc func(ctx context.Context, prompt string, systemMessage string, temperature float64) (*GenerateResponseResult, error)

	// GenerateImageFunc is called when GenerateImage is invoked.
	GenerateImageFunc func(ctx context.Context, prompt string, size string) (string, error)

	Model    string
	Endpoint string

	GenerateResponseCalls int
	GenerateImageCalls    int
	LastPrompt            string
}

// NewMockLLMClient creates a new mock with sensible defaults.
func NewMockLLMClient() *MockLLMClient {
	return &MockLLMClient{
		Model:    "mock-model",
		Endpoint: "http://mock-endpoint",
	}
}

// GenerateResponse implements LLMClient.
func (m *MockLLMClient) GenerateResponse(ctx context.Context, prompt string, systemMessage string, temperature float64) (*GenerateResponseResult, error) {
	m.GenerateResponseCalls++
	m.LastPrompt = prompt
	if m.GenerateResponseFunc != nil {
		return m.GenerateResponseFunc(ctx, prompt, systemMessage, temperature)
	}
	return &GenerateResponseResult{}, nil
}

// GenerateImage implements ImageGenerator.
func (m *MockLLMClient) GenerateImage(ctx context.Context, prompt string, size string) (string, error) {
	m.GenerateImageCalls++
	if m.GenerateImageFunc != nil {
		return m.GenerateImageFunc(ctx, prompt, size)
	}
	return "", nil
}

// GetModel implements LLMClient.
func (m *MockLLMClient) GetModel() string {
	return m.Model
}

// GetEndpoint implements LLMClient.
func (m *MockLLMClient) GetEndpoint() string {
	return m.Endpoint
}

var (
	_ LLMClient      = (*MockLLMClient)(nil)
	_ ImageGenerator = (*MockLLMClient)(nil)
)
