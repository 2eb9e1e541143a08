package environment

import (
	"context"
	"log/slog"
	"net/http"
)

// Middleware stores env in every request context.
func Middleware(env Environment) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), env)))
		})
	}
}

// LoggerExtractor adds the request environment to log records.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if env, ok := ctx.Value(contextKey{}).(Environment); ok {
			return slog.String("env", string(env)), true
		}
		return slog.Attr{}, false
	}
}
