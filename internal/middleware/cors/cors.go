// Package cors configures the cross-origin policy of the API.
package cors

import (
	"net/http"

	rscors "github.com/rs/cors"
)

// Config holds the cross-origin policy.
type Config struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	ExposedHeaders []string
	MaxAge         int
}

// DefaultConfig lets any origin call the API with a bearer token and read
// the Authorization header back.
func DefaultConfig() Config {
	return Config{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"Authorization"},
		MaxAge:         3600,
	}
}

// Middleware answers preflight requests with 204 and decorates every other
// cross-origin response.
func Middleware(config Config) func(http.Handler) http.Handler {
	c := rscors.New(rscors.Options{
		AllowedOrigins:       config.AllowedOrigins,
		AllowedMethods:       config.AllowedMethods,
		AllowedHeaders:       config.AllowedHeaders,
		ExposedHeaders:       config.ExposedHeaders,
		MaxAge:               config.MaxAge,
		OptionsSuccessStatus: http.StatusNoContent,
	})
	return c.Handler
}
