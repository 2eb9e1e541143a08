package session_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hrportal/pkg/apiclient"
	"github.com/dmitrymomot/hrportal/pkg/identity"
	"github.com/dmitrymomot/hrportal/pkg/rbac"
	"github.com/dmitrymomot/hrportal/pkg/session"
	"github.com/dmitrymomot/hrportal/pkg/tokenstore"
)

func jsonReply(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestSession_WithAPIClient(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var refreshCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct{ Email, Password string }
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Email != "a@b.com" || body.Password != "x" {
			jsonReply(w, http.StatusUnauthorized, map[string]string{"message": "Credenciais inválidas"})
			return
		}
		jsonReply(w, http.StatusOK, map[string]any{
			"accessToken":  "t1",
			"refreshToken": "r1",
			"user":         map[string]any{"id": 1, "role": "admin"},
		})
	})
	mux.HandleFunc("POST /auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		jsonReply(w, http.StatusUnauthorized, map[string]string{"message": "refresh token expired"})
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /employees", func(w http.ResponseWriter, r *http.Request) {
		jsonReply(w, http.StatusUnauthorized, map[string]string{"message": "token expired"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	t.Run("login stores the triple and grants admin everything", func(t *testing.T) {
		t.Parallel()
		store := tokenstore.NewMemoryStore()
		client, err := apiclient.New(store, apiclient.WithBaseURL(srv.URL))
		require.NoError(t, err)
		m := session.New(client, store)
		t.Cleanup(m.Close)
		require.NoError(t, m.Start(ctx))

		user, err := m.Login(ctx, "a@b.com", "x")
		require.NoError(t, err)
		assert.Equal(t, identity.ID("1"), user.ID)
		assert.True(t, m.HasPermission("anything"))

		entry := storedEntry(t, store)
		assert.Equal(t, "t1", entry.AccessToken)
		assert.Equal(t, "r1", entry.RefreshToken)
		assert.Equal(t, rbac.RoleAdmin, entry.User.Role)
	})

	t.Run("wrong password keeps anonymous", func(t *testing.T) {
		t.Parallel()
		store := tokenstore.NewMemoryStore()
		client, err := apiclient.New(store, apiclient.WithBaseURL(srv.URL))
		require.NoError(t, err)
		m := session.New(client, store)
		t.Cleanup(m.Close)
		require.NoError(t, m.Start(ctx))

		_, err = m.Login(ctx, "a@b.com", "nope")
		assert.ErrorIs(t, err, apiclient.ErrUnauthorized)
		assert.Equal(t, "Credenciais inválidas", apiclient.Message(err))
		assert.Equal(t, session.StateAnonymous, m.State())
		assert.False(t, storedEntry(t, store).Present())
	})

	t.Run("failed automatic refresh ends the session", func(t *testing.T) {
		t.Parallel()
		store := seedStore(t, rbac.RoleManager)
		client, err := apiclient.New(store, apiclient.WithBaseURL(srv.URL), apiclient.WithAutoRefresh())
		require.NoError(t, err)
		m := session.New(client, store)
		t.Cleanup(m.Close)
		require.NoError(t, m.Start(ctx))
		require.True(t, m.Snapshot().IsAuthenticated)

		_, err = client.Employees().List(ctx, nil)
		assert.ErrorIs(t, err, apiclient.ErrSessionTerminated)
		assert.Equal(t, session.StateAnonymous, m.State())
		assert.False(t, storedEntry(t, store).Present())
		assert.GreaterOrEqual(t, refreshCalls.Load(), int32(1))
	})

	t.Run("closed manager stops following the client", func(t *testing.T) {
		t.Parallel()
		store := seedStore(t, rbac.RoleManager)
		client, err := apiclient.New(store, apiclient.WithBaseURL(srv.URL), apiclient.WithAutoRefresh())
		require.NoError(t, err)
		m := session.New(client, store)
		require.NoError(t, m.Start(ctx))
		m.Close()

		_, err = client.Employees().List(ctx, nil)
		assert.ErrorIs(t, err, apiclient.ErrSessionTerminated)
		assert.Equal(t, session.StateAuthenticated, m.State())
	})
}
