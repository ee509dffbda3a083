package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const chatCompletionBody = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "choices": [{"index": 0, "message": {"role": "assistant", "content": "  Recharge helps.  "}, "finish_reason": "stop"}],
  "usage": {"prompt_tokens": 7, "completion_tokens": 3, "total_tokens": 10}
}`

func newOpenAITestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewClient(&Config{
		Endpoint:   server.URL + "/v1/",
		Model:      "gpt-4o-mini",
		ImageModel: "gpt-image-1",
		APIKey:     "sk-test",
	}, zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(&Config{Model: "m"}, zap.NewNop())
	assert.EqualError(t, err, "endpoint is required")

	_, err = NewClient(&Config{Endpoint: "http://x"}, zap.NewNop())
	assert.EqualError(t, err, "model is required")
}

func TestClient_GenerateResponse(t *testing.T) {
	var body map[string]any
	var requestID string
	c := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		requestID = r.Header.Get(requestIDHeader)
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chatCompletionBody))
	})

	ctx := WithRequestID(context.Background(), "req-42")
	result, err := c.GenerateResponse(ctx, "what is recharge?", "", 0.2)
	require.NoError(t, err)

	assert.Equal(t, "Recharge helps.", result.Content)
	assert.Equal(t, 10, result.TotalTokens)
	assert.Equal(t, "req-42", requestID)

	messages, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1, "empty system message is not sent")
	assert.Equal(t, "gpt-4o-mini", c.GetModel())
}

func TestClient_GenerateResponse_ClassifiesAuthError(t *testing.T) {
	c := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "Incorrect API key", "type": "invalid_request_error"}}`))
	})

	_, err := c.GenerateResponse(context.Background(), "q", "", 0)
	require.Error(t, err)
	assert.Equal(t, ErrorTypeAuth, GetErrorType(err))
	assert.False(t, IsRetryable(err))
}

func TestClient_GenerateImage_Base64FallsBackToDataURI(t *testing.T) {
	c := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/images/generations", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"created": 1, "data": [{"b64_json": "aGVsbG8="}]}`))
	})

	got, err := c.GenerateImage(context.Background(), "a well", DefaultImageSize)
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", got)
}

func TestClient_GenerateImage_PrefersURL(t *testing.T) {
	c := newOpenAITestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"created": 1, "data": [{"url": "https://img.example/1.png", "b64_json": "x"}]}`))
	})

	got, err := c.GenerateImage(context.Background(), "a well", DefaultImageSize)
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/1.png", got)
}

func TestClient_GenerateImage_NoImageModel(t *testing.T) {
	c, err := NewClient(&Config{Endpoint: "http://localhost", Model: "m"}, zap.NewNop())
	require.NoError(t, err)

	_, err = c.GenerateImage(context.Background(), "x", DefaultImageSize)
	assert.Equal(t, ErrorTypeModel, GetErrorType(err))
}

func TestAnthropicClient_GenerateResponse(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
		  "id": "msg_1", "type": "message", "role": "assistant", "model": "claude-test",
		  "content": [{"type": "text", "text": "Groundwater is water below the surface."}],
		  "stop_reason": "end_turn",
		  "usage": {"input_tokens": 5, "output_tokens": 8}
		}`))
	}))
	defer server.Close()

	c, err := NewAnthropicClient(&Config{Endpoint: server.URL, Model: "claude-test", APIKey: "sk-ant"}, zap.NewNop())
	require.NoError(t, err)

	result, err := c.GenerateResponse(context.Background(), "what is groundwater?", "", 0.3)
	require.NoError(t, err)

	assert.Equal(t, "Groundwater is water below the surface.", result.Content)
	assert.Equal(t, 13, result.TotalTokens)
	assert.Equal(t, "claude-test", body["model"])
}

func TestNewAnthropicClient_Validation(t *testing.T) {
	_, err := NewAnthropicClient(&Config{APIKey: "k"}, zap.NewNop())
	assert.EqualError(t, err, "model is required")

	_, err = NewAnthropicClient(&Config{Model: "m"}, zap.NewNop())
	assert.EqualError(t, err, "api key is required")
}

func TestContextAwareTransport_NoHeaderWithoutRequestID(t *testing.T) {
	var present bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present = r.Header[requestIDHeader]
	}))
	defer server.Close()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	resp, err := newHTTPClient().Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.False(t, present)
	assert.Equal(t, "", RequestID(context.Background()))
}
