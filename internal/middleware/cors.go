package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/cors"
)

// CORS lets the web client at origin call the API with credentials. Requests
// from any other origin get no CORS headers.
func CORS(origin string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{strings.TrimSuffix(origin, "/")},
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           600,
	})
	return c.Handler
}
