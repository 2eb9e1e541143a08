package apiclient

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrymomot/hrportal/pkg/identity"
	"github.com/dmitrymomot/hrportal/pkg/logger"
	"github.com/dmitrymomot/hrportal/pkg/rbac"
	"github.com/dmitrymomot/hrportal/pkg/tokenstore"
	"github.com/dmitrymomot/hrportal/pkg/validator"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// tokenResponse is the body of login and refresh responses.
// The backend has used both "accessToken" and "token" for the access token.
type tokenResponse struct {
	AccessToken  string         `json:"accessToken"`
	Token        string         `json:"token"`
	RefreshToken string         `json:"refreshToken"`
	User         *identity.User `json:"user"`
}

func (r tokenResponse) access() string {
	if r.AccessToken != "" {
		return r.AccessToken
	}
	return r.Token
}

// RegisterRequest is the sign up payload.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// ProfileUpdate is the payload of PUT /users/profile. Password fields are
// sent only when NewPassword is set.
type ProfileUpdate struct {
	Name            string `json:"name,omitempty"`
	Email           string `json:"email,omitempty"`
	CurrentPassword string `json:"currentPassword,omitempty"`
	NewPassword     string `json:"newPassword,omitempty"`
}

const minPasswordLen = 6

// Validate checks the payload before it is sent.
func (r RegisterRequest) Validate() error {
	return validator.Apply(
		validator.Required("name", r.Name),
		validator.MaxLen("name", r.Name, 120),
		validator.Email("email", r.Email),
		validator.MinLen("password", r.Password, minPasswordLen),
		knownRole("role", r.Role),
	)
}

func (u ProfileUpdate) Validate() error {
	return validator.Apply(
		validator.When(u.Name != "", validator.MaxLen("name", u.Name, 120)),
		validator.When(u.Email != "", validator.Email("email", u.Email)),
		validator.When(u.NewPassword != "",
			validator.Required("currentPassword", u.CurrentPassword),
			validator.MinLen("newPassword", u.NewPassword, minPasswordLen),
		),
	)
}

func knownRole(field, value string) validator.Rule {
	return validator.Rule{
		Check: func() bool {
			if value == "" {
				return true
			}
			_, err := rbac.ParseRole(value)
			return err == nil
		},
		Error: validator.ValidationError{Field: field, Message: "unknown role"},
	}
}

// Login exchanges credentials for a token pair and stores the full triple.
// On failure the store is left untouched.
func (c *Client) Login(ctx context.Context, email, password string) (*identity.User, error) {
	var resp tokenResponse
	if err := c.send(ctx, http.MethodPost, pathLogin, nil, loginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	if resp.access() == "" || resp.RefreshToken == "" || resp.User == nil {
		return nil, errors.Join(ErrInvalidResponse, errors.New("login response lacks tokens or user"))
	}

	entry := tokenstore.Entry{
		Credentials: identity.Credentials{AccessToken: resp.access(), RefreshToken: resp.RefreshToken},
		User:        resp.User,
	}
	if err := c.store.Set(ctx, entry); err != nil {
		return nil, err
	}

	c.log.InfoContext(ctx, "logged in", logger.UserID(resp.User.ID), logger.Role(resp.User.Role))
	return resp.User.Clone(), nil
}

// Logout revokes the refresh token on the server when one is stored and then
// clears the store. The store is cleared even when the request fails; the
// request error is still returned so callers can report it.
func (c *Client) Logout(ctx context.Context) error {
	var reqErr error
	entry, err := c.store.Get(ctx)
	if err == nil && entry.RefreshToken != "" {
		reqErr = c.send(ctx, http.MethodPost, pathLogout, nil, refreshRequest{RefreshToken: entry.RefreshToken}, nil)
		if reqErr != nil {
			c.log.WarnContext(ctx, "server logout failed, clearing local credentials", logger.Error(reqErr))
		}
	}

	if err := c.store.Clear(ctx); err != nil {
		return errors.Join(err, reqErr)
	}
	return reqErr
}

// RefreshAccessToken rotates the token pair and keeps the stored user unless
// the server returns a new one. Any failure clears the store, notifies the
// termination hooks and returns an error matching ErrSessionTerminated.
func (c *Client) RefreshAccessToken(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()
	return c.refreshLocked(ctx)
}

func (c *Client) refreshLocked(ctx context.Context) error {
	err := c.rotate(ctx)
	if err == nil {
		return nil
	}

	c.log.WarnContext(ctx, "token refresh failed, terminating session", logger.Error(err))
	if clearErr := c.store.Clear(ctx); clearErr != nil {
		err = errors.Join(err, clearErr)
	}
	err = errors.Join(ErrSessionTerminated, err)
	c.terminated(ctx, err)
	return err
}

func (c *Client) rotate(ctx context.Context) error {
	entry, err := c.store.Get(ctx)
	if err != nil {
		return err
	}
	if entry.RefreshToken == "" {
		return ErrNoRefreshToken
	}

	var resp tokenResponse
	if err := c.send(ctx, http.MethodPost, pathRefresh, nil, refreshRequest{RefreshToken: entry.RefreshToken}, &resp); err != nil {
		return err
	}
	if resp.access() == "" {
		return errors.Join(ErrInvalidResponse, errors.New("refresh response lacks access token"))
	}

	next := tokenstore.Entry{
		Credentials: identity.Credentials{AccessToken: resp.access(), RefreshToken: resp.RefreshToken},
		User:        entry.User,
	}
	if next.RefreshToken == "" {
		// Servers without rotation keep the refresh token valid.
		next.RefreshToken = entry.RefreshToken
	}
	if resp.User != nil {
		next.User = resp.User
	}
	if next.User == nil {
		return errors.Join(ErrInvalidResponse, errors.New("no user to keep after refresh"))
	}
	if err := c.store.Set(ctx, next); err != nil {
		return err
	}

	c.log.DebugContext(ctx, "token pair rotated")
	return nil
}

// Me fetches the current user from the server.
func (c *Client) Me(ctx context.Context) (*identity.User, error) {
	var wrapped struct {
		User *identity.User `json:"user"`
	}
	var user identity.User
	if err := c.call(ctx, http.MethodGet, pathMe, nil, nil, &rawInto{&wrapped, &user}); err != nil {
		return nil, err
	}
	if wrapped.User != nil {
		return wrapped.User, nil
	}
	if user.ID == "" {
		return nil, errors.Join(ErrInvalidResponse, errors.New("no user in response"))
	}
	return &user, nil
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	if err := req.Validate(); err != nil {
		return errors.Join(ErrValidation, err)
	}
	return c.send(ctx, http.MethodPost, pathRegister, nil, req, nil)
}

// ForgotPassword asks the server to mail a reset link.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	if err := validator.Apply(validator.Email("email", email)); err != nil {
		return errors.Join(ErrValidation, err)
	}
	return c.send(ctx, http.MethodPost, pathForgotPassword, nil, map[string]string{"email": email}, nil)
}

// UpdateProfile saves the profile and replaces the stored user wholesale with
// the server's answer.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*identity.User, error) {
	if err := update.Validate(); err != nil {
		return nil, errors.Join(ErrValidation, err)
	}
	var wrapped struct {
		User *identity.User `json:"user"`
	}
	var user identity.User
	if err := c.call(ctx, http.MethodPut, pathProfile, nil, update, &rawInto{&wrapped, &user}); err != nil {
		return nil, err
	}
	updated := wrapped.User
	if updated == nil {
		updated = &user
	}
	if updated.ID == "" {
		return nil, errors.Join(ErrInvalidResponse, errors.New("no user in response"))
	}

	entry, err := c.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	if entry.Present() {
		entry.User = updated
		if err := c.store.Set(ctx, entry); err != nil {
			return nil, err
		}
	}

	c.log.InfoContext(ctx, "profile updated", logger.UserID(updated.ID))
	return updated.Clone(), nil
}
