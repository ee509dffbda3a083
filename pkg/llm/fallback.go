package llm

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-groundwater/pkg/retry"
)

// Image size requested in image mode.
const DefaultImageSize = "512x512"

// FallbackConfig bounds calls to the generative fallback.
type FallbackConfig struct {
	Timeout     time.Duration
	Temperature float64
	Retry       *retry.Config
	Breaker     CircuitBreakerConfig
}

// Fallback answers questions the rule-based pipeline could not, by sending
// the raw question to an LLM and returning its reply verbatim.
type Fallback struct {
	client  LLMClient
	images  ImageGenerator
	breaker *CircuitBreaker
	cfg     FallbackConfig
	logger  *zap.Logger
}

// NewFallback wraps client with a timeout, retries and a circuit breaker.
// images may be nil when the provider cannot generate images.
func NewFallback(client LLMClient, images ImageGenerator, cfg FallbackConfig, logger *zap.Logger) *Fallback {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Fallback{
		client:  client,
		images:  images,
		breaker: NewCircuitBreaker(cfg.Breaker),
		cfg:     cfg,
		logger:  logger.Named("fallback"),
	}
}

// Generate returns the model's reply to query.
func (f *Fallback) Generate(ctx context.Context, query string) (string, error) {
	result, err := guarded(ctx, f, func(ctx context.Context) (*GenerateResponseResult, error) {
		return f.client.GenerateResponse(ctx, query, "", f.cfg.Temperature)
	})
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(result.Content)
	if text == "" {
		return "", NewError(ErrorTypeUnknown, "empty reply", false, nil)
	}
	return text, nil
}

// GenerateImage returns an image URL (or data URI) for prompt.
func (f *Fallback) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if f.images == nil {
		return "", NewError(ErrorTypeModel, "image generation not supported by provider", false, nil)
	}
	return guarded(ctx, f, func(ctx context.Context) (string, error) {
		return f.images.GenerateImage(ctx, prompt, DefaultImageSize)
	})
}

// Breaker exposes the circuit state for health reporting.
func (f *Fallback) Breaker() *CircuitBreaker {
	return f.breaker
}

// Model returns the configured model name.
func (f *Fallback) Model() string {
	return f.client.GetModel()
}

func guarded[T any](ctx context.Context, f *Fallback, call func(context.Context) (T, error)) (T, error) {
	var zero T
	if err := f.breaker.Allow(); err != nil {
		f.logger.Warn("Fallback skipped", zap.Stringer("circuit", f.breaker.State()))
		return zero, err
	}

	callCtx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	result, err := retry.DoWithResult(callCtx, f.cfg.Retry, func() (T, error) {
		return call(callCtx)
	})
	if err != nil {
		// The caller giving up says nothing about the provider's health.
		if ctx.Err() != nil {
			f.breaker.Release()
			return zero, ctx.Err()
		}
		f.breaker.RecordFailure()
		return zero, ClassifyError(err)
	}

	f.breaker.RecordSuccess()
	return result, nil
}
