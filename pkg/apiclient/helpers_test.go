package apiclient_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hrportal/pkg/apiclient"
	"github.com/dmitrymomot/hrportal/pkg/identity"
	"github.com/dmitrymomot/hrportal/pkg/rbac"
	"github.com/dmitrymomot/hrportal/pkg/tokenstore"
)

// recorded is one request seen by the fake backend.
type recorded struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   map[string]any
}

// backend is a scriptable stand-in for the HR API mounted under /api.
type backend struct {
	t      *testing.T
	srv    *httptest.Server
	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	calls  []recorded
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	b := &backend{t: t, routes: make(map[string]http.HandlerFunc)}
	b.srv = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *backend) URL() string {
	return b.srv.URL + "/api"
}

// handle registers h for "METHOD /path" (path without the /api prefix).
func (b *backend) handle(route string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[route] = h
}

func (b *backend) serve(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path[len("/api"):]
	rec := recorded{Method: r.Method, Path: path, Query: r.URL.RawQuery, Header: r.Header.Clone()}
	if data, _ := io.ReadAll(r.Body); len(data) > 0 {
		_ = json.Unmarshal(data, &rec.Body)
	}

	b.mu.Lock()
	b.calls = append(b.calls, rec)
	h, ok := b.routes[r.Method+" "+path]
	b.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "route not found"})
		return
	}
	h(w, r)
}

func (b *backend) requests() []recorded {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]recorded(nil), b.calls...)
}

func (b *backend) count(method, path string) int {
	n := 0
	for _, c := range b.requests() {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

func (b *backend) last() recorded {
	calls := b.requests()
	require.NotEmpty(b.t, calls)
	return calls[len(calls)-1]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respond(status int, v any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, status, v)
	}
}

func newClient(t *testing.T, b *backend, store tokenstore.Store, opts ...apiclient.Option) *apiclient.Client {
	t.Helper()
	c, err := apiclient.New(store, append([]apiclient.Option{apiclient.WithBaseURL(b.URL())}, opts...)...)
	require.NoError(t, err)
	return c
}

func seeded(t *testing.T, access, refresh string) *tokenstore.MemoryStore {
	t.Helper()
	store := tokenstore.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), tokenstore.Entry{
		Credentials: identity.Credentials{AccessToken: access, RefreshToken: refresh},
		User:        &identity.User{ID: "1", Name: "Ana", Role: rbac.RoleManager},
	}))
	return store
}

func stored(t *testing.T, store tokenstore.Store) tokenstore.Entry {
	t.Helper()
	entry, err := store.Get(context.Background())
	require.NoError(t, err)
	return entry
}

func signedJWT(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}
