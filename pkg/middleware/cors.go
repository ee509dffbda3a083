package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS returns middleware allowing browser front ends at origins to call the
// API. With no origins the handler is returned unchanged.
func CORS(origins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if len(origins) == 0 {
			return next
		}
		return cors.New(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader, "Mcp-Session-Id"},
			ExposedHeaders: []string{RequestIDHeader},
			MaxAge:         300,
		}).Handler(next)
	}
}
