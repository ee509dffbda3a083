package llm

import (
	"context"
	"net/http"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// requestIDHeader carries the chat request ID to the provider so its logs can
// be correlated with ours.
const requestIDHeader = "X-Request-Id"

// WithRequestID returns a context carrying the chat request ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the request ID from ctx, or "" if none is set.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// contextAwareTransport adds the request ID header to outgoing provider calls.
type contextAwareTransport struct {
	base http.RoundTripper
}

func (t *contextAwareTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	id := RequestID(req.Context())
	if id == "" {
		return t.base.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	req.Header.Set(requestIDHeader, id)
	return t.base.RoundTrip(req)
}

func newHTTPClient() *http.Client {
	return &http.Client{Transport: &contextAwareTransport{base: http.DefaultTransport}}
}
