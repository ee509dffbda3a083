package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-groundwater/pkg/logging"
)

// MCPRequestLogger returns middleware that logs MCP JSON-RPC traffic: the
// method, the tool name, sanitized arguments and whether the call failed.
// Pass nil logger to disable logging.
func MCPRequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if logger == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			if err != nil {
				logger.Error("Failed to read MCP request body", zap.Error(err))
				http.Error(w, "failed to read request body", http.StatusBadRequest)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			var req rpcRequest
			if err := json.Unmarshal(body, &req); err != nil {
				logger.Debug("MCP request is not a single JSON-RPC object", zap.Error(err))
			}

			logger.Debug("MCP request",
				zap.String("method", req.Method),
				zap.String("tool", req.Params.Name),
				zap.Any("arguments", sanitizeArguments(req.Params.Arguments)),
			)

			rec := &bodyRecorder{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(rec, r)

			var resp rpcResponse
			if err := json.Unmarshal(rec.body.Bytes(), &resp); err != nil {
				return
			}

			fields := []zap.Field{
				zap.String("tool", req.Params.Name),
				zap.Duration("duration", time.Since(start)),
			}
			switch {
			case resp.Error != nil:
				logger.Warn("MCP call failed", append(fields,
					zap.Int("error_code", resp.Error.Code),
					zap.String("error_message", resp.Error.Message))...)
			case resp.Result.IsError:
				logger.Debug("MCP tool returned error result", fields...)
			default:
				logger.Debug("MCP call succeeded", fields...)
			}
		})
	}
}

type rpcRequest struct {
	Method string `json:"method"`
	Params struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	} `json:"params"`
}

type rpcResponse struct {
	Result struct {
		IsError bool `json:"isError"`
	} `json:"result"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type bodyRecorder struct {
	http.ResponseWriter
	body bytes.Buffer
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

var sensitiveArgumentKeys = []string{"password", "secret", "token", "key", "credential"}

// sanitizeArguments redacts secret-looking keys and shortens free text such as
// the question, which may carry personal details.
func sanitizeArguments(args map[string]any) map[string]any {
	if args == nil {
		return nil
	}

	out := make(map[string]any, len(args))
	for k, v := range args {
		lower := strings.ToLower(k)
		redacted := false
		for _, kw := range sensitiveArgumentKeys {
			if strings.Contains(lower, kw) {
				redacted = true
				break
			}
		}
		if redacted {
			out[k] = "[REDACTED]"
			continue
		}
		if s, ok := v.(string); ok {
			out[k] = logging.SanitizeQuery(s)
			continue
		}
		out[k] = v
	}
	return out
}
