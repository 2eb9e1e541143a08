package httpserver

import (
	"log/slog"
	"time"
)

// Option configures the server.
type Option func(*config)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	if addr == "" {
		panic("httpserver: addr cannot be empty")
	}
	return func(c *config) { c.addr = addr }
}

// WithReadTimeout sets the maximum duration for reading the entire request.
func WithReadTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("httpserver: read timeout must be > 0")
	}
	return func(c *config) { c.readTimeout = d }
}

// WithWriteTimeout sets the maximum duration for writing the response.
func WithWriteTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("httpserver: write timeout must be > 0")
	}
	return func(c *config) { c.writeTimeout = d }
}

func WithIdleTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("httpserver: idle timeout must be > 0")
	}
	return func(c *config) { c.idleTimeout = d }
}

// WithShutdownTimeout bounds graceful shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("httpserver: shutdown timeout must be > 0")
	}
	return func(c *config) { c.shutdownTimeout = d }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
