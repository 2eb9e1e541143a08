// Package app builds the components shared by the hrctl and hrportal
// binaries: logger, token store, API client and session manager.
package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/hrportal/pkg/apiclient"
	"github.com/dmitrymomot/hrportal/pkg/environment"
	"github.com/dmitrymomot/hrportal/pkg/httpserver"
	"github.com/dmitrymomot/hrportal/pkg/logger"
	"github.com/dmitrymomot/hrportal/pkg/redis"
	"github.com/dmitrymomot/hrportal/pkg/requestid"
	"github.com/dmitrymomot/hrportal/pkg/session"
	"github.com/dmitrymomot/hrportal/pkg/tokenstore"
)

// App holds the wired components.
type App struct {
	Config  Config
	Env     environment.Environment
	Log     *slog.Logger
	Store   tokenstore.Store
	API     *apiclient.Client
	Session *session.Manager

	rdb        goredis.UniversalClient
	closeRedis bool
}

type options struct {
	logOutput  io.Writer
	log        *slog.Logger
	rdb        goredis.UniversalClient
	apiOptions []apiclient.Option
	observers  []func(from, to session.Snapshot)
}

// Option customizes New.
type Option func(*options)

// WithLogOutput sends logs to w instead of stderr.
func WithLogOutput(w io.Writer) Option {
	return func(o *options) { o.logOutput = w }
}

// WithLogger replaces the configured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithRedisClient supplies the client for the redis token store instead of
// connecting with the redis configuration.
func WithRedisClient(rdb goredis.UniversalClient) Option {
	return func(o *options) { o.rdb = rdb }
}

// WithAPIOptions appends options to the API client construction.
func WithAPIOptions(opts ...apiclient.Option) Option {
	return func(o *options) { o.apiOptions = append(o.apiOptions, opts...) }
}

// WithSessionObserver registers a session state observer.
func WithSessionObserver(fn func(from, to session.Snapshot)) Option {
	return func(o *options) { o.observers = append(o.observers, fn) }
}

// New wires the components and runs the session startup check.
func New(ctx context.Context, cfg Config, opts ...Option) (*App, error) {
	o := options{logOutput: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{Config: cfg, Env: environment.Parse(cfg.Logger.Env)}

	a.Log = o.log
	if a.Log == nil {
		a.Log = logger.NewFromConfig(cfg.Logger,
			logger.WithOutput(o.logOutput),
			logger.WithContextExtractors(requestid.LoggerExtractor(), environment.LoggerExtractor()),
		)
	}

	if cfg.TokenStore.Driver == tokenstore.DriverRedis {
		a.rdb = o.rdb
		if a.rdb == nil {
			rdb, err := redis.Connect(ctx, cfg.Redis)
			if err != nil {
				return nil, err
			}
			a.rdb, a.closeRedis = rdb, true
		}
	}

	store, err := tokenstore.Open(cfg.TokenStore, a.rdb)
	if err != nil {
		return nil, errors.Join(err, a.Close())
	}
	a.Store = store

	apiOpts := append([]apiclient.Option{apiclient.WithLogger(a.Log)}, o.apiOptions...)
	a.API, err = apiclient.NewFromConfig(cfg.API, store, apiOpts...)
	if err != nil {
		return nil, errors.Join(err, a.Close())
	}

	sessOpts := []session.Option{session.WithLogger(a.Log)}
	for _, fn := range o.observers {
		sessOpts = append(sessOpts, session.WithObserver(fn))
	}
	a.Session = session.New(a.API, store, sessOpts...)
	if err := a.Session.Start(ctx); err != nil {
		return nil, errors.Join(err, a.Close())
	}

	a.Log.DebugContext(ctx, "application ready",
		slog.String("api", a.API.BaseURL()),
		slog.String("token_store", cfg.TokenStore.Driver),
		logger.SessionState(a.Session.State().String()),
	)
	return a, nil
}

// HealthChecks returns the readiness probes of the wired dependencies.
func (a *App) HealthChecks() []httpserver.Check {
	var checks []httpserver.Check
	if a.rdb != nil {
		checks = append(checks, httpserver.Check{Name: "redis", Probe: redis.Healthcheck(a.rdb)})
	}
	return checks
}

// Close releases the session hook and any connection New opened.
func (a *App) Close() error {
	if a.Session != nil {
		a.Session.Close()
	}
	if a.closeRedis && a.rdb != nil {
		return a.rdb.Close()
	}
	return nil
}
