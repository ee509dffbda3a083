package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-groundwater/pkg/chart"
	"github.com/ekaya-inc/ekaya-groundwater/pkg/logging"
	"github.com/ekaya-inc/ekaya-groundwater/pkg/metrics"
	"github.com/ekaya-inc/ekaya-groundwater/pkg/models"
	"github.com/ekaya-inc/ekaya-groundwater/pkg/store"
)

// Replies used when a collaborator fails.
const (
	FallbackUnavailableReply = "Sorry, I'm having trouble connecting to the AI service."
	ImageUnavailableReply    = "Sorry, I couldn't generate the image."
)

// DefaultLanguage is the language replies are produced in.
const DefaultLanguage = "en"

// Generator produces a free-text answer for a question the rules could not
// answer. It receives the question and nothing else.
type Generator interface {
	Generate(ctx context.Context, query string) (string, error)
}

// Translator translates an English reply into the target language.
type Translator interface {
	Translate(ctx context.Context, text, target string) (string, error)
}

// ImageGenerator returns an image reference for a prompt.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// Collaborators are the optional external services the pipeline degrades
// without. Any field may be nil.
type Collaborators struct {
	Charts     chart.Renderer
	Fallback   Generator
	Translator Translator
	Images     ImageGenerator
	Metrics    *metrics.Metrics
}

// AssistantConfig holds the rule engine policies.
type AssistantConfig struct {
	Resolver    ResolverConfig
	Aggregation AggregatorConfig
}

// Answer is the result of one question.
type Answer struct {
	Text         string
	ChartURL     string
	Intent       models.Intent
	Location     models.Location
	UsedFallback bool
}

// Assistant answers groundwater questions over a loaded record store.
// It is safe for concurrent use: the store is read-only and nothing is cached.
type Assistant struct {
	classifier QueryClassifier
	resolver   LocationResolver
	parser     *QueryParser
	aggregator *Aggregator
	collab     Collaborators
	logger     *zap.Logger
}

// NewAssistant wires the rule engine over s.
func NewAssistant(s *store.Store, cfg AssistantConfig, collab Collaborators, logger *zap.Logger) (*Assistant, error) {
	if s == nil {
		return nil, errors.New("record store is required")
	}
	return &Assistant{
		classifier: NewQueryClassifier(),
		resolver:   NewLocationResolver(s, cfg.Resolver),
		parser:     NewQueryParser(s, cfg.Resolver),
		aggregator: NewAggregator(s, cfg.Aggregation),
		collab:     collab,
		logger:     logger.Named("assistant"),
	}, nil
}

// ProcessQuery answers text in language ("" or "en" for English). Collaborator
// failures never surface as errors; only a cancelled context does.
func (a *Assistant) ProcessQuery(ctx context.Context, text, language string) (*Answer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	answer, records, wantChart := a.answer(text)
	if wantChart && len(records) > 0 {
		answer.ChartURL = a.renderChart(ctx, answer, records, text)
	}

	if NeedsFallback(answer.Text) {
		answer.Text = a.fallback(ctx, text, answer.Text)
		answer.UsedFallback = true
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	answer.Text = a.translate(ctx, answer.Text, language)
	if answer.ChartURL != "" {
		answer.Text += ChartLink(answer.ChartURL)
	}

	a.collab.Metrics.ObserveQuery(string(answer.Intent), time.Since(start))
	a.logger.Info("Query answered",
		zap.String("query", logging.SanitizeQuery(text)),
		zap.String("intent", string(answer.Intent)),
		zap.String("location", answer.Location.Name),
		zap.Bool("chart", answer.ChartURL != ""),
		zap.Bool("used_fallback", answer.UsedFallback),
		zap.Duration("elapsed", time.Since(start)))

	return answer, nil
}

// GenerateImage returns an image URL for prompt, or a canned reply as the
// text when no image could be produced.
func (a *Assistant) GenerateImage(ctx context.Context, prompt string) (url string, reply string) {
	if a.collab.Images == nil {
		return "", ImageUnavailableReply
	}
	url, err := a.collab.Images.GenerateImage(ctx, prompt)
	if err != nil || url == "" {
		a.logger.Warn("Image generation failed",
			zap.String("prompt", logging.SanitizeQuery(prompt)),
			zap.String("error", logging.SanitizeError(err)))
		return "", ImageUnavailableReply
	}
	return url, url
}

// answer returns the rule-based reply, the records that may be charted and
// whether a chart was asked for.
func (a *Assistant) answer(text string) (*Answer, []*models.Record, bool) {
	cls := a.classifier.Classify(text)
	answer := &Answer{Intent: cls.Intent}

	if cls.Intent == models.IntentGreeting {
		answer.Text = GreetingReply
		return answer, nil, false
	}

	loc := a.resolver.Resolve(text)
	answer.Location = loc

	if cls.Intent.IsLocationScoped() {
		agg := a.aggregator.AggregateLocation(loc, cls.Intent)
		a.debugUnanswered(agg)
		answer.Text = FormatLocation(agg)
		if !agg.Found {
			return answer, nil, cls.Chart
		}
		return answer, agg.Records, cls.Chart
	}

	agg := a.aggregator.Aggregate(a.aggregator.Filter(a.parser.Parse(text)), cls.Intent)
	a.debugUnanswered(agg)
	answer.Text, _ = FormatGeneric(agg, text)

	// A zero or empty aggregate is not plotted; an unclassified question
	// still charts whatever its filters matched.
	if agg.NoUsableData && cls.Intent != models.IntentUnknown {
		return answer, nil, cls.Chart
	}
	return answer, agg.Records, cls.Chart
}

func (a *Assistant) debugUnanswered(agg *Aggregation) {
	if err := agg.Err(); err != nil {
		a.logger.Debug("No rule-based answer",
			zap.String("intent", string(agg.Intent)),
			zap.String("location", agg.Location.Name),
			zap.Error(err))
	}
}

func (a *Assistant) renderChart(ctx context.Context, answer *Answer, records []*models.Record, text string) string {
	if a.collab.Charts == nil {
		return ""
	}

	ref, err := a.collab.Charts.Render(ctx, chart.Request{
		Location: answer.Location.Name,
		Metric:   chart.MetricFor(answer.Intent, text),
		Records:  records,
	})
	if err != nil {
		a.collab.Metrics.Chart(metrics.OutcomeFailure)
		a.logger.Error("Chart rendering failed",
			zap.String("location", answer.Location.Name),
			zap.Error(err))
		return ""
	}
	if ref != "" {
		a.collab.Metrics.Chart(metrics.OutcomeSuccess)
	}
	return ref
}

func (a *Assistant) fallback(ctx context.Context, query, reply string) string {
	if a.collab.Fallback == nil {
		a.collab.Metrics.Fallback(metrics.OutcomeSkipped)
		if reply == "" {
			return NoDataReply
		}
		return reply
	}

	generated, err := a.collab.Fallback.Generate(ctx, query)
	if err != nil {
		a.collab.Metrics.Fallback(metrics.OutcomeFailure)
		a.logger.Warn("Fallback generation failed",
			zap.String("query", logging.SanitizeQuery(query)),
			zap.String("error", logging.SanitizeError(err)))
		return FallbackUnavailableReply
	}

	a.collab.Metrics.Fallback(metrics.OutcomeSuccess)
	return generated
}

func (a *Assistant) translate(ctx context.Context, text, language string) string {
	if language == "" || language == DefaultLanguage || text == "" {
		return text
	}
	if a.collab.Translator == nil {
		a.collab.Metrics.Translation(metrics.OutcomeSkipped)
		return text
	}

	translated, err := a.collab.Translator.Translate(ctx, text, language)
	if err != nil || translated == "" {
		a.collab.Metrics.Translation(metrics.OutcomeFailure)
		a.logger.Warn("Translation failed, returning original text",
			zap.String("language", language),
			zap.String("error", logging.SanitizeError(err)))
		return text
	}

	a.collab.Metrics.Translation(metrics.OutcomeSuccess)
	return translated
}
