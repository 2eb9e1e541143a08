package apiclient_test

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hrportal/pkg/apiclient"
	"github.com/dmitrymomot/hrportal/pkg/identity"
	"github.com/dmitrymomot/hrportal/pkg/rbac"
	"github.com/dmitrymomot/hrportal/pkg/tokenstore"
	"github.com/dmitrymomot/hrportal/pkg/validator"
)

func TestClient_Login(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("stores the returned triple", func(t *testing.T) {
		t.Parallel()
		b := newBackend(t)
		b.handle("POST /auth/login", respond(http.StatusOK, map[string]any{
			"accessToken":  "t1",
			"refreshToken": "r1",
			"user":         map[string]any{"id": 1, "role": "Admin"},
		}))
		store := tokenstore.NewMemoryStore()
		c := newClient(t, b, store)

		user, err := c.Login(ctx, "a@b.com", "x")
		require.NoError(t, err)
		assert.Equal(t, identity.ID("1"), user.ID)
		assert.Equal(t, rbac.RoleAdmin, user.Role)

		entry := stored(t, store)
		assert.Equal(t, "t1", entry.AccessToken)
		assert.Equal(t, "r1", entry.RefreshToken)
		assert.Equal(t, identity.ID("1"), entry.User.ID)

		req := b.last()
		assert.Equal(t, "a@b.com", req.Body["email"])
		assert.Equal(t, "x", req.Body["password"])
	})

	t.Run("accepts wrapped body and token alias", func(t *testing.T) {
		t.Parallel()
		b := newBackend(t)
		b.handle("POST /auth/login", respond(http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{
				"token":        "t2",
				"refreshToken": "r2",
				"user":         map[string]any{"id": "u-7", "nome": "Bia", "perfil": "gestor"},
			},
		}))
		store := tokenstore.NewMemoryStore()
		c := newClient(t, b, store)

		user, err := c.Login(ctx, "b@b.com", "y")
		require.NoError(t, err)
		assert.Equal(t, "Bia", user.Name)
		assert.Equal(t, rbac.RoleManager, user.Role)
		assert.Equal(t, "t2", stored(t, store).AccessToken)
	})

	t.Run("rejection leaves store untouched", func(t *testing.T) {
		t.Parallel()
		b := newBackend(t)
		b.handle("POST /auth/login", respond(http.StatusUnauthorized, map[string]any{"message": "Credenciais inválidas"}))
		store := seeded(t, "old", "old-r")
		c := newClient(t, b, store)

		_, err := c.Login(ctx, "a@b.com", "wrong")
		assert.ErrorIs(t, err, apiclient.ErrUnauthorized)
		assert.Equal(t, "Credenciais inválidas", apiclient.Message(err))
		assert.Equal(t, "old", stored(t, store).AccessToken)
	})

	t.Run("incomplete response is invalid", func(t *testing.T) {
		t.Parallel()
		b := newBackend(t)
		b.handle("POST /auth/login", respond(http.StatusOK, map[string]any{"accessToken": "t1", "user": map[string]any{"id": 1}}))
		store := tokenstore.NewMemoryStore()
		c := newClient(t, b, store)

		_, err := c.Login(ctx, "a@b.com", "x")
		assert.ErrorIs(t, err, apiclient.ErrInvalidResponse)
		assert.False(t, stored(t, store).Present())
	})
}

func TestClient_Logout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("revokes and clears", func(t *testing.T) {
		t.Parallel()
		b := newBackend(t)
		b.handle("POST /auth/logout", respond(http.StatusOK, map[string]any{}))
		store := seeded(t, "t1", "r1")
		c := newClient(t, b, store)

		require.NoError(t, c.Logout(ctx))
		assert.Equal(t, "r1", b.last().Body["refreshToken"])
		assert.Equal(t, "Bearer t1", b.last().Header.Get("Authorization"))
		assert.False(t, stored(t, store).Present())
	})

	t.Run("server failure still clears", func(t *testing.T) {
		t.Parallel()
		b := newBackend(t)
		b.handle("POST /auth/logout", respond(http.StatusInternalServerError, map[string]any{"message": "boom"}))
		store := seeded(t, "t1", "r1")
		c := newClient(t, b, store)

		err := c.Logout(ctx)
		assert.ErrorIs(t, err, apiclient.ErrServer)
		assert.False(t, stored(t, store).Present())
	})

	t.Run("nothing stored skips the request", func(t *testing.T) {
		t.Parallel()
		b := newBackend(t)
		c := newClient(t, b, tokenstore.NewMemoryStore())

		require.NoError(t, c.Logout(ctx))
		require.NoError(t, c.Logout(ctx))
		assert.Empty(t, b.requests())
	})
}

func TestClient_RefreshAccessToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("rotates both tokens and keeps user", func(t *testing.T) {
		t.Parallel()
		b := newBackend(t)
		b.handle("POST /auth/refresh-token", respond(http.StatusOK, map[string]any{
			"data": map[string]any{"accessToken": "t2", "refreshToken": "r2"},
		}))
		store := seeded(t, "t1", "r1")
		c := newClient(t, b, store)

		require.NoError(t, c.RefreshAccessToken(ctx))
		entry := stored(t, store)
		assert.Equal(t, "t2", entry.AccessToken)
		assert.Equal(t, "r2", entry.RefreshToken)
		assert.Equal(t, "Ana", entry.User.Name)
		assert.Equal(t, "r1", b.last().Body["refreshToken"])
	})

	t.Run("keeps refresh token when server does not rotate it", func(t *testing.T) {
		t.Parallel()
		b := newBackend(t)
		b.handle("POST /auth/refresh-token", respond(http.StatusOK, map[string]any{"token": "t2"}))
		store := seeded(t, "t1", "r1")
		c := newClient(t, b, store)

		require.NoError(t, c.RefreshAccessToken(ctx))
		entry := stored(t, store)
		assert.Equal(t, "t2", entry.AccessToken)
		assert.Equal(t, "r1", entry.RefreshToken)
	})

	t.Run("failure terminates session", func(t *testing.T) {
		t.Parallel()
		b := newBackend(t)
		b.handle("POST /auth/refresh-token", respond(http.StatusUnauthorized, map[string]any{"message": "expired"}))
		store := seeded(t, "t1", "r1")
		c := newClient(t, b, store)

		var fired atomic.Int32
		var cause error
		c.OnSessionTerminated(func(ctx context.Context, err error) {
			fired.Add(1)
			cause = err
		})

		err := c.RefreshAccessToken(ctx)
		assert.ErrorIs(t, err, apiclient.ErrSessionTerminated)
		assert.ErrorIs(t, err, apiclient.ErrUnauthorized)
		assert.False(t, stored(t, store).Present())
		assert.Equal(t, int32(1), fired.Load())
		assert.ErrorIs(t, cause, apiclient.ErrSessionTerminated)
	})

	t.Run("missing refresh token terminates session", func(t *testing.T) {
		t.Parallel()
		b := newBackend(t)
		c := newClient(t, b, tokenstore.NewMemoryStore())

		err := c.RefreshAccessToken(ctx)
		assert.ErrorIs(t, err, apiclient.ErrSessionTerminated)
		assert.ErrorIs(t, err, apiclient.ErrNoRefreshToken)
		assert.Empty(t, b.requests())
	})

	t.Run("removed hook does not fire", func(t *testing.T) {
		t.Parallel()
		b := newBackend(t)
		c := newClient(t, b, tokenstore.NewMemoryStore())

		var fired atomic.Int32
		remove := c.OnSessionTerminated(func(ctx context.Context, err error) { fired.Add(1) })
		remove()

		_ = c.RefreshAccessToken(ctx)
		assert.Zero(t, fired.Load())
	})
}

func TestClient_AccountCalls(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("me accepts bare and wrapped users", func(t *testing.T) {
		t.Parallel()
		for _, body := range []any{
			map[string]any{"id": 1, "name": "Ana", "role": "admin"},
			map[string]any{"user": map[string]any{"id": 1, "name": "Ana", "role": "admin"}},
			map[string]any{"data": map[string]any{"id": 1, "name": "Ana", "role": "admin"}},
		} {
			b := newBackend(t)
			b.handle("GET /auth/me", respond(http.StatusOK, body))
			c := newClient(t, b, seeded(t, "t1", "r1"))

			user, err := c.Me(ctx)
			require.NoError(t, err)
			assert.Equal(t, "Ana", user.Name)
			assert.Equal(t, rbac.RoleAdmin, user.Role)
		}
	})

	t.Run("update profile replaces stored user", func(t *testing.T) {
		t.Parallel()
		b := newBackend(t)
		b.handle("PUT /users/profile", respond(http.StatusOK, map[string]any{"id": 1, "name": "Ana Maria", "email": "am@b.com", "role": "manager"}))
		store := seeded(t, "t1", "r1")
		c := newClient(t, b, store)

		user, err := c.UpdateProfile(ctx, apiclient.ProfileUpdate{Name: "Ana Maria", Email: "am@b.com"})
		require.NoError(t, err)
		assert.Equal(t, "Ana Maria", user.Name)

		entry := stored(t, store)
		assert.Equal(t, "Ana Maria", entry.User.Name)
		assert.Equal(t, "am@b.com", entry.User.Email)
		assert.Equal(t, "t1", entry.AccessToken)

		body := b.last().Body
		assert.Equal(t, "Ana Maria", body["name"])
		assert.NotContains(t, body, "newPassword")
	})

	t.Run("register and forgot password", func(t *testing.T) {
		t.Parallel()
		b := newBackend(t)
		b.handle("POST /auth/register", respond(http.StatusCreated, map[string]any{"message": "ok"}))
		b.handle("POST /auth/forgot-password", respond(http.StatusOK, map[string]any{"message": "sent"}))
		store := tokenstore.NewMemoryStore()
		c := newClient(t, b, store)

		require.NoError(t, c.Register(ctx, apiclient.RegisterRequest{Name: "Ana", Email: "a@b.com", Password: "secret"}))
		assert.Equal(t, "a@b.com", b.last().Body["email"])
		assert.False(t, stored(t, store).Present(), "register does not log in")

		require.NoError(t, c.ForgotPassword(ctx, "a@b.com"))
		assert.Equal(t, "/auth/forgot-password", b.last().Path)
		assert.Equal(t, "a@b.com", b.last().Body["email"])
	})

	t.Run("invalid payloads never reach the server", func(t *testing.T) {
		t.Parallel()
		b := newBackend(t)
		c := newClient(t, b, tokenstore.NewMemoryStore())

		err := c.Register(ctx, apiclient.RegisterRequest{Name: "Ana", Email: "nope", Password: "123", Role: "root"})
		require.ErrorIs(t, err, apiclient.ErrValidation)
		verrs := validator.ExtractValidationErrors(err)
		require.NotNil(t, verrs)
		assert.Equal(t, []string{"email", "password", "role"}, verrs.Fields())
		assert.Contains(t, apiclient.Message(err), "email: must be a valid email address")

		_, err = c.UpdateProfile(ctx, apiclient.ProfileUpdate{NewPassword: "longenough"})
		require.ErrorIs(t, err, apiclient.ErrValidation)
		assert.True(t, validator.ExtractValidationErrors(err).Has("currentPassword"))

		require.ErrorIs(t, c.ForgotPassword(ctx, ""), apiclient.ErrValidation)
		assert.Empty(t, b.requests())
	})
}
