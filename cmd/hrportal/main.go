// Command hrportal serves the local web console for one HR API session.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/hrportal/internal/app"
	"github.com/dmitrymomot/hrportal/internal/portal"
	"github.com/dmitrymomot/hrportal/pkg/config"
	"github.com/dmitrymomot/hrportal/pkg/guard"
	"github.com/dmitrymomot/hrportal/pkg/httpserver"
	"github.com/dmitrymomot/hrportal/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "hrportal:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}

	var portalCfg portal.Config
	if err := config.Load(&portalCfg); err != nil {
		return err
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			a.Log.ErrorContext(ctx, "failed to close application", logger.Error(err))
		}
	}()

	g := guard.NewFromConfig(cfg.Guard, guard.WithSource(a.Session), guard.WithLogger(a.Log))
	p := portal.New(a.Session, a.API, g,
		portal.WithLogger(a.Log),
		portal.WithEnvironment(a.Env),
		portal.WithHealthChecks(a.HealthChecks()...),
		portal.WithCORS(portalCfg.CORSOrigins...),
	)

	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(a.Log))
	return srv.Run(ctx, p.Routes())
}
