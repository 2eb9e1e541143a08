package logger

import (
	"log/slog"
)

// Config is the environment driven logger configuration.
type Config struct {
	Env     string `env:"APP_ENV" envDefault:"development"`
	Service string `env:"APP_NAME" envDefault:"hrportal"`
	Level   string `env:"LOG_LEVEL"`  // overrides the environment default when set
	Format  string `env:"LOG_FORMAT"` // json or text; overrides the environment default when set
}

// NewFromConfig builds a logger from cfg. Explicit opts are applied last.
func NewFromConfig(cfg Config, opts ...Option) *slog.Logger {
	base := []Option{WithEnvironment(cfg.Env, cfg.Service)}
	if cfg.Level != "" {
		base = append(base, WithLevelName(cfg.Level))
	}
	if cfg.Format != "" {
		base = append(base, WithFormat(Format(cfg.Format)))
	}
	return New(append(base, opts...)...)
}
