package guard

import (
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/hrportal/pkg/logger"
	"github.com/dmitrymomot/hrportal/pkg/rbac"
	"github.com/dmitrymomot/hrportal/pkg/session"
)

// SnapshotSource provides the current session view. *session.Manager
// implements it.
type SnapshotSource interface {
	Snapshot() session.Snapshot
}

// Guard renders or redirects requests according to Decide.
type Guard struct {
	source    SnapshotSource
	loginPath string
	homePath  string
	loading   templ.Component
	log       *slog.Logger
}

// New creates a guard with /login and /dashboard as redirect targets.
func New(opts ...Option) *Guard {
	g := &Guard{
		loginPath: "/login",
		homePath:  "/dashboard",
		loading:   LoadingView(1),
		log:       logger.Discard(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.log = g.log.With(logger.Component("guard"))
	return g
}

// LoginPath returns the redirect target for anonymous visitors.
func (g *Guard) LoginPath() string { return g.loginPath }

// HomePath returns the redirect target for users lacking a required role.
func (g *Guard) HomePath() string { return g.homePath }

// Evaluate returns the decision for r.
func (g *Guard) Evaluate(r *http.Request, required ...rbac.Role) Decision {
	return Decide(g.snapshot(r), required...)
}

// Require returns middleware that lets the request through only when the
// session is authenticated and, if roles are given, holds one of them.
func (g *Guard) Require(roles ...rbac.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := g.Evaluate(r, roles...)
			if decision != Allow {
				g.log.DebugContext(r.Context(), "request intercepted",
					slog.String("path", r.URL.Path),
					slog.String("decision", decision.String()),
				)
			}

			var err error
			switch decision {
			case Allow:
				next.ServeHTTP(w, r)
				return
			case Loading:
				err = g.renderLoading(w, r)
			case RedirectLogin:
				err = Redirect(w, r, g.loginPath)
			case RedirectHome:
				err = Redirect(w, r, g.homePath)
			}
			if err != nil {
				g.log.ErrorContext(r.Context(), "failed to render guard response", logger.Error(err))
			}
		})
	}
}

func (g *Guard) snapshot(r *http.Request) session.Snapshot {
	if g.source != nil {
		return g.source.Snapshot()
	}
	if m, ok := session.FromContext(r.Context()); ok {
		return m.Snapshot()
	}
	return session.Snapshot{State: session.StateAnonymous}
}

func (g *Guard) renderLoading(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	return g.loading.Render(r.Context(), w)
}
