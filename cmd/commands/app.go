package commands

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-groundwater/pkg/chart"
	"github.com/ekaya-inc/ekaya-groundwater/pkg/config"
	"github.com/ekaya-inc/ekaya-groundwater/pkg/llm"
	"github.com/ekaya-inc/ekaya-groundwater/pkg/metrics"
	"github.com/ekaya-inc/ekaya-groundwater/pkg/services"
	"github.com/ekaya-inc/ekaya-groundwater/pkg/store"
	"github.com/ekaya-inc/ekaya-groundwater/pkg/translate"
)

// app is the assistant wired to its collaborators as configured.
type app struct {
	cfg       *config.Config
	store     *store.Store
	assistant *services.Assistant
	fallback  *llm.Fallback
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// newApp loads the dataset named by cfg and wires the assistant.
func newApp(cfg *config.Config, logger *zap.Logger) (*app, error) {
	st, err := store.LoadFile(cfg.Data.DatasetPath, logger)
	if err != nil {
		return nil, err
	}
	return newAppWithStore(cfg, st, logger)
}

func newAppWithStore(cfg *config.Config, st *store.Store, logger *zap.Logger) (*app, error) {
	a := &app{
		cfg:     cfg,
		store:   st,
		metrics: metrics.New(),
		logger:  logger,
	}

	collab := services.Collaborators{Metrics: a.metrics}

	if cfg.Chart.Enabled {
		collab.Charts = chart.NewFileRenderer(cfg.Chart.OutputDir, cfg.Chart.URLPrefix, logger)
	}

	if cfg.LLM.IsAvailable() {
		client, images, err := llm.NewClientFromConfig(cfg.LLM.ClientConfig(), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create llm client: %w", err)
		}
		retryCfg := cfg.Retry
		a.fallback = llm.NewFallback(client, images, llm.FallbackConfig{
			Timeout:     cfg.LLM.Timeout,
			Temperature: cfg.LLM.Temperature,
			Retry:       &retryCfg,
			Breaker:     cfg.CircuitBreaker,
		}, logger)
		collab.Fallback = a.fallback
		collab.Images = a.fallback
		logger.Info("Generative fallback enabled",
			zap.String("provider", cfg.LLM.Provider),
			zap.String("model", a.fallback.Model()))
	} else {
		logger.Info("Generative fallback disabled: no model or API key configured")
	}

	if cfg.Translation.IsAvailable() {
		retryCfg := cfg.Retry
		collab.Translator = translate.NewClient(translate.Config{
			Endpoint: cfg.Translation.Endpoint,
			APIKey:   cfg.Translation.APIKey,
			Timeout:  cfg.Translation.Timeout,
			Retry:    &retryCfg,
		}, logger)
	}

	assistant, err := services.NewAssistant(st, services.AssistantConfig{
		Resolver: services.ResolverConfig{LongestMatch: cfg.Resolver.LongestMatch},
		Aggregation: services.AggregatorConfig{
			SafeExtractThreshold: cfg.Aggregation.SafeExtractThreshold,
			StateSumsAllYears:    cfg.Aggregation.StateSumsAllYears,
		},
	}, collab, logger)
	if err != nil {
		return nil, err
	}
	a.assistant = assistant

	logger.Info("Assistant ready",
		zap.Int("records", st.Len()),
		zap.Int("states", len(st.States())),
		zap.Strings("years", st.Years()),
		zap.Bool("charts", cfg.Chart.Enabled),
		zap.Bool("translation", cfg.Translation.IsAvailable()))

	return a, nil
}

// breaker returns the fallback circuit breaker, or nil without a fallback.
func (a *app) breaker() *llm.CircuitBreaker {
	if a.fallback == nil {
		return nil
	}
	return a.fallback.Breaker()
}

// supports reports whether lang may be requested as a reply language.
func (a *app) supports(lang string) bool {
	if lang == services.DefaultLanguage {
		return true
	}
	return a.cfg.Translation.Supports(lang)
}
