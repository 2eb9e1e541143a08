package session

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/hrportal/pkg/rbac"
)

type managerContextKey struct{}

// WithManager stores m in ctx.
func WithManager(ctx context.Context, m *Manager) context.Context {
	return context.WithValue(ctx, managerContextKey{}, m)
}

// FromContext returns the manager stored in ctx.
func FromContext(ctx context.Context) (*Manager, bool) {
	m, ok := ctx.Value(managerContextKey{}).(*Manager)
	return m, ok && m != nil
}

// MustFromContext is like FromContext but panics when no manager is present.
func MustFromContext(ctx context.Context) *Manager {
	m, ok := FromContext(ctx)
	if !ok {
		panic("session: manager not found in context")
	}
	return m
}

// Middleware makes m available to handlers through FromContext. When a user
// is signed in, the role as of request start is stored for rbac's context
// checks.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithManager(r.Context(), m)
		if snap := m.Snapshot(); snap.IsAuthenticated && snap.User != nil {
			ctx = rbac.SetRoleToContext(ctx, snap.User.Role)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
