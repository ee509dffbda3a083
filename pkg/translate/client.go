// Package translate provides a client for a LibreTranslate-compatible
// translation service.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-groundwater/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-groundwater/pkg/retry"
)

// DefaultTimeout is the maximum time to wait for a translation.
const DefaultTimeout = 10 * time.Second

// SourceLanguage is the language every reply is produced in.
const SourceLanguage = "en"

// SupportedLanguages are the reply languages offered to users.
var SupportedLanguages = []string{"en", "hi", "kn", "te", "mr", "ta", "gu"}

// IsSupported reports whether lang is a supported reply language.
func IsSupported(lang string) bool {
	return slices.Contains(SupportedLanguages, lang)
}

// Config holds translation client settings.
type Config struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
	Retry    *retry.Config
}

// Client translates replies through a LibreTranslate-compatible API.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	retry      *retry.Config
	logger     *zap.Logger
}

// NewClient creates a new translation client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		retry:      cfg.Retry,
		logger:     logger.Named("translate"),
	}
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

// Translate converts English text into target. English targets and empty
// text are returned unchanged without a network call.
func (c *Client) Translate(ctx context.Context, text, target string) (string, error) {
	if text == "" || target == "" || target == SourceLanguage {
		return text, nil
	}
	if !IsSupported(target) {
		return "", fmt.Errorf("unsupported language %q", target)
	}

	endpoint, err := buildURL(c.endpoint, "translate")
	if err != nil {
		return "", fmt.Errorf("failed to build URL: %w", err)
	}

	payload, err := json.Marshal(translateRequest{
		Q:      text,
		Source: SourceLanguage,
		Target: target,
		Format: "text",
		APIKey: c.apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	return retry.DoWithResult(ctx, c.retry, func() (string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return "", fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		c.logger.Debug("Translating reply",
			zap.String("target", target),
			zap.Int("text_len", len(text)))

		return c.do(req)
	})
}

func (c *Client) do(req *http.Request) (string, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: failed to call translation service: %w", apperrors.ErrCollaboratorUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Translation service returned error",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)))
		return "", fmt.Errorf("%w: translation service returned status %d: %s",
			apperrors.ErrCollaboratorUnavailable, resp.StatusCode, string(body))
	}

	// Response format: { "translatedText": "..." }
	var response struct {
		TranslatedText string `json:"translatedText"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if response.TranslatedText == "" {
		return "", fmt.Errorf("translation service returned empty text")
	}

	return response.TranslatedText, nil
}

// buildURL constructs a URL by parsing the base and joining path segments.
func buildURL(baseURL string, pathSegments ...string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid base URL %q", baseURL)
	}

	segments := append([]string{u.Path}, pathSegments...)
	u.Path = path.Join(segments...)

	return u.String(), nil
}
