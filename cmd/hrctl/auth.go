package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dmitrymomot/hrportal/pkg/apiclient"
	"github.com/dmitrymomot/hrportal/pkg/identity"
	"github.com/dmitrymomot/hrportal/pkg/session"
)

type whoami struct {
	State         string         `json:"state"`
	User          *identity.User `json:"user,omitempty"`
	AccessExpires string         `json:"access_expires,omitempty"`
}

func describe(s session.Snapshot) whoami {
	out := whoami{State: s.State.String(), User: s.User}
	if !s.AccessExpiresAt.IsZero() {
		out.AccessExpires = s.AccessExpiresAt.UTC().Format(time.RFC3339)
	}
	return out
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "sign in and store the credentials",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"HRCTL_PASSWORD"}},
		},
		Action: func(c *cli.Context) error {
			a := appFrom(c)
			if _, err := a.Session.Login(c.Context, c.String("email"), c.String("password")); err != nil {
				return failure(c, err)
			}
			return output(c, describe(a.Session.Snapshot()))
		},
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "revoke the session and forget the credentials",
		Action: func(c *cli.Context) error {
			a := appFrom(c)
			if err := a.Session.Logout(c.Context); err != nil {
				return err
			}
			return output(c, describe(a.Session.Snapshot()))
		},
	}
}

func whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "show the stored session",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verify", Usage: "ask the server who the credentials belong to"},
		},
		Action: func(c *cli.Context) error {
			a := appFrom(c)
			if c.Bool("verify") {
				if _, err := a.Session.Verify(c.Context); err != nil {
					return failure(c, err)
				}
			}
			return output(c, describe(a.Session.Snapshot()))
		},
	}
}

func refreshCommand() *cli.Command {
	return &cli.Command{
		Name:  "refresh",
		Usage: "rotate the token pair",
		Action: func(c *cli.Context) error {
			a := appFrom(c)
			if err := a.Session.Refresh(c.Context); err != nil {
				return failure(c, err)
			}
			return output(c, describe(a.Session.Snapshot()))
		},
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "print a valid access token, refreshing an expired one",
		Action: func(c *cli.Context) error {
			tok, err := appFrom(c).API.TokenSource(c.Context).Token()
			if errors.Is(err, apiclient.ErrNotAuthenticated) {
				return errNotSignedIn
			}
			if err != nil {
				return failure(c, err)
			}
			_, err = fmt.Fprintln(c.App.Writer, tok.AccessToken)
			return err
		},
	}
}

func registerCommand() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "create an account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Required: true},
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"HRCTL_PASSWORD"}},
			&cli.StringFlag{Name: "role"},
		},
		Action: func(c *cli.Context) error {
			err := appFrom(c).Session.Register(c.Context, apiclient.RegisterRequest{
				Name:     c.String("name"),
				Email:    c.String("email"),
				Password: c.String("password"),
				Role:     c.String("role"),
			})
			if err != nil {
				return failure(c, err)
			}
			return output(c, map[string]string{"status": "registered", "email": c.String("email")})
		},
	}
}

func forgotPasswordCommand() *cli.Command {
	return &cli.Command{
		Name:  "forgot-password",
		Usage: "request a password reset mail",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
		},
		Action: func(c *cli.Context) error {
			if err := appFrom(c).Session.ForgotPassword(c.Context, c.String("email")); err != nil {
				return failure(c, err)
			}
			return output(c, map[string]string{"status": "requested", "email": c.String("email")})
		},
	}
}

func profileCommand() *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "manage your own profile",
		Subcommands: []*cli.Command{
			{
				Name:  "update",
				Usage: "change name, email or password",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name"},
					&cli.StringFlag{Name: "email"},
					&cli.StringFlag{Name: "current-password"},
					&cli.StringFlag{Name: "new-password"},
				},
				Action: func(c *cli.Context) error {
					update := apiclient.ProfileUpdate{
						Name:            c.String("name"),
						Email:           c.String("email"),
						CurrentPassword: c.String("current-password"),
						NewPassword:     c.String("new-password"),
					}
					if update == (apiclient.ProfileUpdate{}) {
						return errors.New("nothing to update")
					}
					if update.NewPassword != "" && update.CurrentPassword == "" {
						return errors.New("--current-password is required with --new-password")
					}
					user, err := appFrom(c).Session.UpdateProfile(c.Context, update)
					if err != nil {
						return failure(c, err)
					}
					return output(c, user)
				},
			},
		},
	}
}
