package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Client provides access to OpenAI-compatible endpoints.
type Client struct {
	client     *openai.Client
	endpoint   string
	model      string
	imageModel string
	logger     *zap.Logger
}

// Config holds configuration for creating an LLM client.
type Config struct {
	Provider   string // "openai" (default) or "anthropic"
	Endpoint   string // Base URL, e.g., "https://api.openai.com/v1"
	Model      string // Chat model, e.g., "gpt-4o-mini"
	ImageModel string // Image model, e.g., "gpt-image-1"
	APIKey     string // Optional for local endpoints
}

// NewClient creates a new OpenAI-compatible client.
func NewClient(cfg *Config, logger *zap.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = strings.TrimSuffix(cfg.Endpoint, "/")
	clientConfig.HTTPClient = newHTTPClient()

	return &Client{
		client:     openai.NewClientWithConfig(clientConfig),
		endpoint:   cfg.Endpoint,
		model:      cfg.Model,
		imageModel: cfg.ImageModel,
		logger:     logger.Named("llm"),
	}, nil
}

// GenerateResponse generates a chat completion response with usage stats.
func (c *Client) GenerateResponse(
	ctx context.Context,
	prompt string,
	systemMessage string,
	temperature float64,
) (*GenerateResponseResult, error) {
	var messages []openai.ChatCompletionMessage
	if systemMessage != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: systemMessage})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt})

	c.logger.Debug("LLM request",
		zap.String("model", c.model),
		zap.Int("prompt_len", len(prompt)),
		zap.Float64("temperature", temperature))

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: float32(temperature),
	})
	if err != nil {
		c.logger.Error("LLM request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, ClassifyError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, NewError(ErrorTypeUnknown, "no choices in response", false, nil)
	}

	c.logger.Info("LLM request completed",
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)))

	return &GenerateResponseResult{
		Content:          strings.TrimSpace(resp.Choices[0].Message.Content),
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}, nil
}

// GenerateImage creates one image. Providers that only return base64 payloads
// get a data URI back.
func (c *Client) GenerateImage(ctx context.Context, prompt string, size string) (string, error) {
	if c.imageModel == "" {
		return "", NewError(ErrorTypeModel, "image model is not configured", false, nil)
	}

	resp, err := c.client.CreateImage(ctx, openai.ImageRequest{
		Prompt: prompt,
		Model:  c.imageModel,
		Size:   size,
		N:      1,
	})
	if err != nil {
		c.logger.Error("Image generation failed", zap.Error(err))
		return "", ClassifyError(err)
	}
	if len(resp.Data) == 0 {
		return "", NewError(ErrorTypeUnknown, "no image in response", false, nil)
	}

	img := resp.Data[0]
	if img.URL != "" {
		return img.URL, nil
	}
	if img.B64JSON != "" {
		return "data:image/png;base64," + img.B64JSON, nil
	}
	return "", NewError(ErrorTypeUnknown, "empty image payload", false, nil)
}

// GetModel returns the configured model name.
func (c *Client) GetModel() string {
	return c.model
}

// GetEndpoint returns the configured endpoint.
func (c *Client) GetEndpoint() string {
	return c.endpoint
}
