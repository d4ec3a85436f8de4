package config

import (
	"strings"
	"time"
)

// BackendConfig contains e-filing backend API client configuration.
type BackendConfig struct {
	// BaseURL is the root of the backend REST API. Every proxied and
	// internal backend call is resolved against it.
	BaseURL string `env:"BACKEND_BASE_URL" envDefault:"http://localhost:9000/api"`

	// Timeout bounds a single backend request.
	Timeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"15s"`
}

// Sanitize applies guardrails to backend configuration values.
func (b *BackendConfig) Sanitize() {
	b.BaseURL = strings.TrimRight(strings.TrimSpace(b.BaseURL), "/")
	if b.Timeout < time.Second {
		b.Timeout = time.Second
	}
}
