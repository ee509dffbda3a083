package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-groundwater/pkg/logging"
	"github.com/ekaya-inc/ekaya-groundwater/pkg/services"
)

// QueryProcessor answers groundwater questions. *services.Assistant satisfies it.
type QueryProcessor interface {
	ProcessQuery(ctx context.Context, text, language string) (*services.Answer, error)
}

// QueryToolDeps defines dependencies for the question answering tool.
type QueryToolDeps struct {
	Assistant QueryProcessor
	// Supports reports whether a reply language is offered. Nil accepts English only.
	Supports func(lang string) bool
	Logger   *zap.Logger
}

type queryResult struct {
	Answer       string `json:"answer"`
	Intent       string `json:"intent"`
	Location     string `json:"location,omitempty"`
	LocationKind string `json:"location_kind,omitempty"`
	ChartURL     string `json:"chart_url,omitempty"`
	UsedFallback bool   `json:"used_fallback"`
}

// RegisterQueryTool registers the groundwater_query tool.
func RegisterQueryTool(s *server.MCPServer, deps *QueryToolDeps) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	tool := mcp.NewTool(
		"groundwater_query",
		mcp.WithDescription(`Answer a natural-language question about Indian groundwater assessment data.
Covers rainfall, groundwater extraction, annual recharge, losses, safe extraction counts and
assessment categories for states and districts, e.g. "What is the rainfall in Kerala?".`),
		mcp.WithString(
			"question",
			mcp.Required(),
			mcp.Description("The question to answer"),
		),
		mcp.WithString(
			"language",
			mcp.Description("Reply language code (en, hi, kn, te, mr, ta, gu). Defaults to en"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		question, err := req.RequireString("question")
		if err != nil {
			return NewErrorResult("invalid_parameters", err.Error()), nil
		}
		question = strings.TrimSpace(question)
		if question == "" {
			return NewErrorResult("invalid_parameters", "question parameter cannot be empty"), nil
		}

		language := strings.ToLower(strings.TrimSpace(req.GetString("language", "")))
		if language == "" {
			language = services.DefaultLanguage
		}
		if language != services.DefaultLanguage && (deps.Supports == nil || !deps.Supports(language)) {
			return NewErrorResultWithDetails("unsupported_language",
				fmt.Sprintf("language %q is not supported", language), nil), nil
		}

		answer, err := deps.Assistant.ProcessQuery(ctx, question, language)
		if err != nil {
			logger.Warn("groundwater_query failed",
				zap.String("question", logging.SanitizeQuery(question)),
				zap.Error(err))
			return nil, fmt.Errorf("failed to answer question: %w", err)
		}

		return jsonResult(queryResult{
			Answer:       answer.Text,
			Intent:       string(answer.Intent),
			Location:     answer.Location.Name,
			LocationKind: string(answer.Location.Kind),
			ChartURL:     answer.ChartURL,
			UsedFallback: answer.UsedFallback,
		})
	})
}
