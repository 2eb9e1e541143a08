package guard

import (
	"log/slog"

	"github.com/a-h/templ"
)

// Option configures a Guard.
type Option func(*Guard)

// WithSource sets where the guard reads the session from. Without it the
// guard uses the manager stored in the request context.
func WithSource(src SnapshotSource) Option {
	return func(g *Guard) {
		g.source = src
	}
}

// WithLoginPath sets the redirect target for anonymous visitors.
func WithLoginPath(path string) Option {
	return func(g *Guard) {
		if path != "" {
			g.loginPath = path
		}
	}
}

// WithHomePath sets the redirect target for users lacking a required role.
func WithHomePath(path string) Option {
	return func(g *Guard) {
		if path != "" {
			g.homePath = path
		}
	}
}

// WithLoadingView replaces the placeholder rendered while initializing.
func WithLoadingView(c templ.Component) Option {
	return func(g *Guard) {
		if c != nil {
			g.loading = c
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(g *Guard) {
		if l != nil {
			g.log = l
		}
	}
}
