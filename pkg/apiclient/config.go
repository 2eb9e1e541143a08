package apiclient

import (
	"time"

	"github.com/dmitrymomot/hrportal/pkg/tokenstore"
)

// Config holds the environment driven client settings.
type Config struct {
	BaseURL     string        `env:"API_BASE_URL" envDefault:"http://localhost:3000/api"`
	Timeout     time.Duration `env:"API_TIMEOUT" envDefault:"15s"`
	AutoRefresh bool          `env:"API_AUTO_REFRESH" envDefault:"false"`
	Retries     int           `env:"API_RETRIES" envDefault:"0"` // extra attempts for idempotent reads
}

// NewFromConfig creates a client from cfg. Explicit opts are applied last.
func NewFromConfig(cfg Config, store tokenstore.Store, opts ...Option) (*Client, error) {
	configOpts := make([]Option, 0, 4+len(opts))
	if cfg.BaseURL != "" {
		configOpts = append(configOpts, WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		configOpts = append(configOpts, WithTimeout(cfg.Timeout))
	}
	if cfg.AutoRefresh {
		configOpts = append(configOpts, WithAutoRefresh())
	}
	if cfg.Retries > 0 {
		configOpts = append(configOpts, WithRetries(cfg.Retries, nil))
	}
	return New(store, append(configOpts, opts...)...)
}
