package apiclient

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrymomot/hrportal/pkg/requestid"
	"github.com/dmitrymomot/hrportal/pkg/tokenstore"
)

const (
	pathLogin          = "/auth/login"
	pathLogout         = "/auth/logout"
	pathRefresh        = "/auth/refresh-token"
	pathMe             = "/auth/me"
	pathRegister       = "/auth/register"
	pathForgotPassword = "/auth/forgot-password"
	pathProfile        = "/users/profile"
)

// bearerTransport injects the stored access token and the request headers
// shared by every call.
type bearerTransport struct {
	next      http.RoundTripper
	store     tokenstore.Store
	userAgent string
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not mutate the caller's request.
	r := req.Clone(req.Context())

	if r.Header.Get("Accept") == "" {
		r.Header.Set("Accept", "application/json")
	}
	if t.userAgent != "" {
		r.Header.Set("User-Agent", t.userAgent)
	}
	if r.Header.Get(requestid.Header) == "" {
		id := requestid.FromContext(r.Context())
		if id == "" {
			id = uuid.NewString()
		}
		r.Header.Set(requestid.Header, id)
	}

	if !isLoginRequest(r) && r.Header.Get("Authorization") == "" {
		entry, err := t.store.Get(r.Context())
		if err == nil && entry.AccessToken != "" {
			r.Header.Set("Authorization", "Bearer "+entry.AccessToken)
		}
	}

	return t.next.RoundTrip(r)
}

func isLoginRequest(r *http.Request) bool {
	return r.Method == http.MethodPost && strings.HasSuffix(strings.TrimSuffix(r.URL.Path, "/"), pathLogin)
}

// isSessionFlow reports paths that must never trigger an automatic refresh.
func isSessionFlow(path string) bool {
	switch path {
	case pathLogin, pathLogout, pathRefresh, pathRegister, pathForgotPassword:
		return true
	}
	return false
}
