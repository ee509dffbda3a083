package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-groundwater/pkg/llm"
	"github.com/ekaya-inc/ekaya-groundwater/pkg/logging"
	"github.com/ekaya-inc/ekaya-groundwater/pkg/services"
)

const (
	// ModeText answers from the dataset; ModeImage asks the image generator.
	ModeText  = "text"
	ModeImage = "image"

	maxChatBodyBytes = 64 << 10
)

// QueryProcessor is the part of the assistant the chat endpoint needs.
type QueryProcessor interface {
	ProcessQuery(ctx context.Context, text, language string) (*services.Answer, error)
	GenerateImage(ctx context.Context, prompt string) (url string, reply string)
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message  string `json:"message"`
	Language string `json:"language"`
	Mode     string `json:"mode"`
}

// ChatResponse is returned by POST /api/chat.
type ChatResponse struct {
	Response  string `json:"response"`
	ChartURL  string `json:"chart_url,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
	Intent    string `json:"intent,omitempty"`
	RequestID string `json:"request_id"`
}

// ChatHandler serves the question answering endpoint.
type ChatHandler struct {
	assistant QueryProcessor
	supports  func(lang string) bool
	logger    *zap.Logger
}

// NewChatHandler creates a ChatHandler. supports decides which reply
// languages are accepted; anything else is answered in English.
func NewChatHandler(assistant QueryProcessor, supports func(lang string) bool, logger *zap.Logger) *ChatHandler {
	if supports == nil {
		supports = func(lang string) bool { return lang == services.DefaultLanguage }
	}
	return &ChatHandler{
		assistant: assistant,
		supports:  supports,
		logger:    logger.Named("chat"),
	}
}

// RegisterRoutes registers the chat routes on the given mux.
func (h *ChatHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/chat", h.Chat)
}

// Chat handles POST /api/chat requests.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := llm.RequestID(ctx)

	var req ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxChatBodyBytes)).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "request body must be JSON with a message field")
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "message is required")
		return
	}

	if req.Mode == ModeImage {
		url, reply := h.assistant.GenerateImage(ctx, message)
		h.writeJSON(w, ChatResponse{Response: reply, ImageURL: url, RequestID: requestID})
		return
	}
	if req.Mode != "" && req.Mode != ModeText {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "mode must be text or image")
		return
	}

	language := h.language(req.Language)
	answer, err := h.assistant.ProcessQuery(ctx, message, language)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			h.logger.Debug("Chat request cancelled", zap.String("request_id", requestID))
			return
		}
		h.logger.Error("Failed to process query",
			zap.String("request_id", requestID),
			zap.String("query", logging.SanitizeQuery(message)),
			zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal_error", "failed to process question")
		return
	}

	h.writeJSON(w, ChatResponse{
		Response:  answer.Text,
		ChartURL:  answer.ChartURL,
		Intent:    string(answer.Intent),
		RequestID: requestID,
	})
}

// language coerces unsupported or missing languages to English.
func (h *ChatHandler) language(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" || !h.supports(lang) {
		return services.DefaultLanguage
	}
	return lang
}

func (h *ChatHandler) writeJSON(w http.ResponseWriter, resp ChatResponse) {
	if err := WriteJSON(w, http.StatusOK, resp); err != nil {
		h.logger.Error("Failed to encode chat response", zap.Error(err))
	}
}

func (h *ChatHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	if err := ErrorResponse(w, status, code, message); err != nil {
		h.logger.Error("Failed to encode error response", zap.Error(err))
	}
}
