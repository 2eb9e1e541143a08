package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/dmitrymomot/hrportal/internal/app"
	"github.com/dmitrymomot/hrportal/pkg/apiclient"
	"github.com/dmitrymomot/hrportal/pkg/config"
	"github.com/dmitrymomot/hrportal/pkg/guard"
	"github.com/dmitrymomot/hrportal/pkg/logger"
	"github.com/dmitrymomot/hrportal/pkg/rbac"
	"github.com/dmitrymomot/hrportal/pkg/session"
	"github.com/dmitrymomot/hrportal/pkg/validator"
)

const appKey = "app"

var errNotSignedIn = errors.New("not signed in, run `hrctl login` first")

func newCLI(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "hrctl",
		Usage:     "work with the HR API from the terminal",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env-file", Usage: "load variables from `FILE` before reading the configuration"},
			&cli.StringFlag{Name: "api-url", Usage: "API root", EnvVars: []string{"API_BASE_URL"}},
			&cli.StringFlag{Name: "profile", Usage: "credentials profile", EnvVars: []string{"TOKEN_STORE_PROFILE"}},
			&cli.StringFlag{Name: "store", Usage: "token store driver (memory, file, redis)", EnvVars: []string{"TOKEN_STORE_DRIVER"}},
			&cli.StringFlag{Name: "store-path", Usage: "credentials file for the file driver", EnvVars: []string{"TOKEN_STORE_PATH"}},
			&cli.BoolFlag{Name: "auto-refresh", Usage: "refresh the access token once when the API rejects it", EnvVars: []string{"API_AUTO_REFRESH"}},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: "json", Usage: "output format: json or yaml"},
			&cli.StringFlag{Name: "log-level", Value: "error", Usage: "log level", EnvVars: []string{"LOG_LEVEL"}},
		},
		Before: setup,
		After:  teardown,
		Commands: []*cli.Command{
			loginCommand(),
			logoutCommand(),
			whoamiCommand(),
			refreshCommand(),
			tokenCommand(),
			registerCommand(),
			forgotPasswordCommand(),
			profileCommand(),
			listCommand(),
			getCommand(),
			createCommand(),
			updateCommand(),
			deleteCommand(),
			dashboardCommand(),
		},
	}
}

func setup(c *cli.Context) error {
	if _, err := parseFormat(c.String("output")); err != nil {
		return err
	}
	load := app.LoadConfig
	if path := c.String("env-file"); path != "" {
		if err := config.LoadEnv(path); err != nil {
			return err
		}
		load = app.ReloadConfig
	}

	cfg, err := load()
	if err != nil {
		return err
	}
	if c.IsSet("api-url") {
		cfg.API.BaseURL = c.String("api-url")
	}
	if c.IsSet("profile") {
		cfg.TokenStore.Profile = c.String("profile")
	}
	if c.IsSet("store") {
		cfg.TokenStore.Driver = c.String("store")
	}
	if c.IsSet("store-path") {
		cfg.TokenStore.Path = c.String("store-path")
	}
	if c.IsSet("auto-refresh") {
		cfg.API.AutoRefresh = c.Bool("auto-refresh")
	}
	cfg.Logger.Level = c.String("log-level")
	cfg.Logger.Format = "text"

	a, err := app.New(c.Context, cfg,
		app.WithLogOutput(c.App.ErrWriter),
		app.WithAPIOptions(apiclient.WithUserAgent("hrctl")),
	)
	if err != nil {
		return err
	}
	c.App.Metadata = map[string]any{appKey: a}
	return nil
}

func teardown(c *cli.Context) error {
	if a, ok := c.App.Metadata[appKey].(*app.App); ok {
		return a.Close()
	}
	return nil
}

func appFrom(c *cli.Context) *app.App {
	return c.App.Metadata[appKey].(*app.App)
}

// authorize applies the route guard rules to a command.
func authorize(c *cli.Context, what string, roles ...rbac.Role) error {
	snap := appFrom(c).Session.Snapshot()
	switch guard.Decide(snap, roles...) {
	case guard.Allow:
		return nil
	case guard.RedirectHome:
		return fmt.Errorf("role %q cannot access %s", snap.User.Role, what)
	default:
		return errNotSignedIn
	}
}

// userError carries the message shown to the user and keeps the cause
// for errors.Is.
type userError struct {
	msg string
	err error
}

func (e *userError) Error() string { return e.msg }
func (e *userError) Unwrap() error { return e.err }

// failure turns an API error into the message shown to the user.
func failure(c *cli.Context, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, session.ErrNotAuthenticated):
		return errNotSignedIn
	case errors.Is(err, apiclient.ErrSessionTerminated):
		return &userError{msg: apiclient.Message(err) + " Run `hrctl login`.", err: err}
	}

	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) || errors.Is(err, apiclient.ErrNetwork) || validator.IsValidationError(err) {
		appFrom(c).Log.DebugContext(c.Context, "command failed", logger.Error(err))
		return &userError{msg: apiclient.Message(err), err: err}
	}
	return err
}
