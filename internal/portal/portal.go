// Package portal is the local web console: login, logout, a dashboard
// landing view and guarded JSON views over the HR API.
package portal

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dmitrymomot/hrportal/internal/app"
	"github.com/dmitrymomot/hrportal/pkg/apiclient"
	"github.com/dmitrymomot/hrportal/pkg/environment"
	"github.com/dmitrymomot/hrportal/pkg/guard"
	"github.com/dmitrymomot/hrportal/pkg/httpserver"
	"github.com/dmitrymomot/hrportal/pkg/logger"
	"github.com/dmitrymomot/hrportal/pkg/rbac"
	"github.com/dmitrymomot/hrportal/pkg/requestid"
	"github.com/dmitrymomot/hrportal/pkg/session"
)

// Portal serves the console for one process-wide session.
type Portal struct {
	session *session.Manager
	api     *apiclient.Client
	guard   *guard.Guard
	env     environment.Environment
	checks  []httpserver.Check
	origins []string
	log     *slog.Logger
}

// Option configures a Portal.
type Option func(*Portal)

func WithLogger(l *slog.Logger) Option {
	return func(p *Portal) {
		if l != nil {
			p.log = l
		}
	}
}

func WithEnvironment(env environment.Environment) Option {
	return func(p *Portal) { p.env = env }
}

// WithHealthChecks adds readiness probes to /healthz.
func WithHealthChecks(checks ...httpserver.Check) Option {
	return func(p *Portal) { p.checks = append(p.checks, checks...) }
}

// WithCORS allows the given browser origins to read the /data views.
func WithCORS(origins ...string) Option {
	return func(p *Portal) { p.origins = append(p.origins, origins...) }
}

// New creates a portal. g decides access for the guarded routes.
func New(m *session.Manager, api *apiclient.Client, g *guard.Guard, opts ...Option) *Portal {
	p := &Portal{
		session: m,
		api:     api,
		guard:   g,
		env:     environment.Development,
		log:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.With(logger.Component("portal"))
	return p
}

// Routes returns the console router.
func (p *Portal) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer,
		requestid.Middleware,
		environment.Middleware(p.env),
		p.session.Middleware,
		p.logRequests,
	)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, p.guard.HomePath(), http.StatusSeeOther)
	})
	r.Get("/healthz", httpserver.HealthCheckHandler(p.log, p.checks...))
	r.Get("/login", p.loginPage)
	r.Post("/login", p.login)
	r.Post("/logout", p.logout)

	r.With(p.guard.Require()).Get("/dashboard", p.dashboard)

	r.Route("/data", func(r chi.Router) {
		if len(p.origins) > 0 {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: p.origins,
				AllowedMethods: []string{http.MethodGet, http.MethodOptions},
				AllowedHeaders: []string{"Accept", requestid.Header},
				ExposedHeaders: []string{requestid.Header},
				MaxAge:         300,
			}))
		}
		r.With(p.guard.Require()).Get("/dashboard/{metric}", p.metric)
		for _, name := range apiclient.ResourceNames() {
			guarded := r.With(p.guard.Require(app.RequiredRoles(name)...))
			guarded.Get("/"+name, p.list(name))
			guarded.Get("/"+name+"/{id}", p.get(name))
			if c, ok := app.WriteCapability(name); ok {
				writes := guarded.With(p.requireCapability(c))
				writes.Post("/"+name, p.create(name))
				writes.Put("/"+name+"/{id}", p.update(name))
				writes.Delete("/"+name+"/{id}", p.remove(name))
			}
		}
	})

	return r
}

// allowedResources lists the data views the snapshot may open.
func allowedResources(s session.Snapshot) []string {
	var names []string
	for _, name := range apiclient.ResourceNames() {
		if s.HasPermission(app.RequiredRoles(name)...) {
			names = append(names, name)
		}
	}
	return names
}

// requireCapability refuses requests whose role, as stored by the session
// middleware, lacks c.
func (p *Portal) requireCapability(c rbac.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := rbac.CanFromContext(r.Context(), c); err != nil {
				p.log.WarnContext(r.Context(), "write refused", logger.Request(r.Method, r.URL.Path), logger.Error(err))
				p.fail(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (p *Portal) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		p.log.DebugContext(r.Context(), "request",
			logger.Request(r.Method, r.URL.Path),
			logger.StatusCode(ww.Status()),
		)
	})
}
