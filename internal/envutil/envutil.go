package envutil

import (
	"os"
)

const defaultPort = "8080"

// GetPort returns the port callcountd listens on, from PORT or 8080.
func GetPort() string {
	return GetEnvOrFallback("PORT", defaultPort)
}

// GetEnvOrFallback returns the value of key, or fallback when it is unset or
// empty.
func GetEnvOrFallback(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// ServiceURL returns the base URL of callcountd: CALLCOUNT_URL when set,
// the local service otherwise.
func ServiceURL() string {
	return GetEnvOrFallback("CALLCOUNT_URL", "http://localhost:"+GetPort())
}
