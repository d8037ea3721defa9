package httputil

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// GetOptionalIntQueryParameter reads a non-negative integer query parameter,
// returning fallback when it is missing or blank.
func GetOptionalIntQueryParameter(r *http.Request, key string, fallback int) (int, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("expected %s to be a non-negative integer, got %q", key, value)
	}
	return i, nil
}

// RequestLogger returns a logger carrying the request method, path and the
// given query parameters.
func RequestLogger(r *http.Request, paramKeys ...string) zerolog.Logger {
	logger := log.With().Str("method", r.Method).Str("path", r.URL.Path)
	query := r.URL.Query()
	for _, key := range paramKeys {
		if value := query.Get(key); value != "" {
			logger = logger.Str(key, value)
		}
	}
	return logger.Logger()
}
