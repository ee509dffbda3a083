package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/ekaya-inc/ekaya-groundwater/pkg/llm"
	"github.com/ekaya-inc/ekaya-groundwater/pkg/retry"
	"github.com/ekaya-inc/ekaya-groundwater/pkg/translate"
)

// DefaultPath is the configuration file read by Load.
const DefaultPath = "config.yaml"

// Config holds all configuration for ekaya-groundwater.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (API keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8000"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	BaseURL  string `yaml:"base_url" env:"BASE_URL" env-default:""` // Auto-derived from Port if empty
	Version  string `yaml:"-"`                                      // Set at load time, not from config

	// CORSAllowedOrigins lists browser origins allowed to call the API. Empty disables CORS.
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:3000,http://localhost:5173"`

	Data           DataConfig               `yaml:"data"`
	Resolver       ResolverConfig           `yaml:"resolver"`
	Aggregation    AggregationConfig        `yaml:"aggregation"`
	Chart          ChartConfig              `yaml:"chart"`
	LLM            LLMConfig                `yaml:"llm"`
	Translation    TranslationConfig        `yaml:"translation"`
	Retry          retry.Config             `yaml:"retry"`
	CircuitBreaker llm.CircuitBreakerConfig `yaml:"circuit_breaker"`
}

// DataConfig locates the year-indexed dataset.
type DataConfig struct {
	DatasetPath string `yaml:"dataset_path" env:"DATASET_PATH" env-default:"data/allyears.json"`
}

// ResolverConfig controls location matching.
type ResolverConfig struct {
	// LongestMatch prefers "North Goa" over "Goa" when both occur in a question.
	LongestMatch bool `yaml:"longest_match" env:"RESOLVER_LONGEST_MATCH" env-default:"false"`
}

// AggregationConfig holds aggregation policies.
type AggregationConfig struct {
	SafeExtractThreshold float64 `yaml:"safe_extract_threshold" env:"SAFE_EXTRACT_THRESHOLD" env-default:"100"`
	// StateSumsAllYears sums every year of a state; false sums the latest year only.
	StateSumsAllYears bool `yaml:"state_sums_all_years" env:"STATE_SUMS_ALL_YEARS" env-default:"true"`
}

// ChartConfig controls chart output.
type ChartConfig struct {
	Enabled   bool   `yaml:"enabled" env:"CHART_ENABLED" env-default:"true"`
	OutputDir string `yaml:"output_dir" env:"CHART_OUTPUT_DIR" env-default:"static/charts"`
	URLPrefix string `yaml:"url_prefix" env:"CHART_URL_PREFIX" env-default:"/static/charts"`
}

// LLMConfig configures the generative fallback.
type LLMConfig struct {
	Provider    string        `yaml:"provider" env:"LLM_PROVIDER" env-default:"openai"`
	Endpoint    string        `yaml:"endpoint" env:"LLM_ENDPOINT" env-default:"https://api.openai.com/v1"`
	Model       string        `yaml:"model" env:"LLM_MODEL" env-default:"gpt-4o-mini"`
	ImageModel  string        `yaml:"image_model" env:"LLM_IMAGE_MODEL" env-default:"gpt-image-1"`
	Timeout     time.Duration `yaml:"timeout" env:"LLM_TIMEOUT" env-default:"30s"`
	Temperature float64       `yaml:"temperature" env:"LLM_TEMPERATURE" env-default:"0.7"`
	APIKey      string        `yaml:"-" env:"LLM_API_KEY"` // Secret - not in YAML
}

// IsAvailable returns true if the fallback can be called. Hosted providers
// need a key; a self-hosted OpenAI-compatible endpoint may not.
func (c *LLMConfig) IsAvailable() bool {
	if c.Model == "" {
		return false
	}
	if c.APIKey != "" {
		return true
	}
	return c.Provider == llm.ProviderOpenAI && c.Endpoint != "" && !strings.Contains(c.Endpoint, "api.openai.com")
}

// ClientConfig converts to the llm package configuration.
func (c *LLMConfig) ClientConfig() *llm.Config {
	return &llm.Config{
		Provider:   c.Provider,
		Endpoint:   c.Endpoint,
		Model:      c.Model,
		ImageModel: c.ImageModel,
		APIKey:     c.APIKey,
	}
}

// TranslationConfig configures reply translation. An empty endpoint disables it.
type TranslationConfig struct {
	Endpoint  string        `yaml:"endpoint" env:"TRANSLATION_ENDPOINT" env-default:""`
	Timeout   time.Duration `yaml:"timeout" env:"TRANSLATION_TIMEOUT" env-default:"10s"`
	Languages []string      `yaml:"languages" env:"TRANSLATION_LANGUAGES" env-separator:"," env-default:"en,hi,kn,te,mr,ta,gu"`
	APIKey    string        `yaml:"-" env:"TRANSLATION_API_KEY"` // Secret - not in YAML
}

// IsAvailable returns true if a translation service is configured.
func (c *TranslationConfig) IsAvailable() bool {
	return c.Endpoint != ""
}

// Supports reports whether lang is offered to users.
func (c *TranslationConfig) Supports(lang string) bool {
	return slices.Contains(c.Languages, lang)
}

// Load reads configuration from config.yaml with environment variable overrides.
// The version parameter is injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	return LoadFrom(DefaultPath, version)
}

// LoadFrom reads configuration from path. A missing file is not an error:
// defaults and environment variables are used instead.
func LoadFrom(path, version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	} else if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg.LLM.Endpoint = ResolveEndpointForDocker(cfg.LLM.Endpoint)
	cfg.Translation.Endpoint = ResolveEndpointForDocker(cfg.Translation.Endpoint)

	// Auto-derive BaseURL from Port if not explicitly set
	if cfg.BaseURL == "" {
		cfg.BaseURL = (&url.URL{
			Scheme: "http",
			Host:   "localhost:" + cfg.Port,
		}).String()
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.LLM.Provider {
	case llm.ProviderOpenAI, llm.ProviderAnthropic:
	default:
		return fmt.Errorf("llm.provider must be %q or %q, got %q", llm.ProviderOpenAI, llm.ProviderAnthropic, c.LLM.Provider)
	}

	if c.Aggregation.SafeExtractThreshold < 0 {
		return fmt.Errorf("aggregation.safe_extract_threshold must not be negative")
	}

	if c.Chart.Enabled {
		if c.Chart.OutputDir == "" {
			return fmt.Errorf("chart.output_dir is required when charts are enabled")
		}
		if err := validateURLPrefix(c.Chart.URLPrefix); err != nil {
			return fmt.Errorf("chart.url_prefix: %w", err)
		}
	}

	for _, lang := range c.Translation.Languages {
		if !translate.IsSupported(lang) {
			return fmt.Errorf("translation.languages: unsupported language %q", lang)
		}
	}

	if c.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries must not be negative")
	}

	return nil
}

// validateURLPrefix accepts an absolute URL path below the server root, such
// as "/static/charts". Chart files are served by this process under it.
func validateURLPrefix(prefix string) error {
	if strings.Trim(prefix, "/") == "" {
		return errors.New("must be a non-root path such as /static/charts")
	}
	if !strings.HasPrefix(prefix, "/") || strings.HasPrefix(prefix, "//") {
		return fmt.Errorf("must be a path starting with a single /, got %q", prefix)
	}
	u, err := url.Parse(prefix)
	if err != nil {
		return fmt.Errorf("invalid path %q: %w", prefix, err)
	}
	if u.Scheme != "" || u.Host != "" || u.RawQuery != "" || u.Fragment != "" || strings.ContainsAny(prefix, " \t") {
		return fmt.Errorf("must be a plain path, got %q", prefix)
	}
	return nil
}
