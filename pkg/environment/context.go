package environment

import (
	"context"
	"strings"
)

type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Parse normalizes an environment name. Short forms (dev, stage, prod) are
// accepted; anything unknown is treated as development.
func Parse(s string) Environment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "production", "prod":
		return Production
	case "staging", "stage":
		return Staging
	default:
		return Development
	}
}

func (e Environment) IsProduction() bool  { return e == Production }
func (e Environment) IsDevelopment() bool { return e == Development }

type contextKey struct{}

func WithContext(ctx context.Context, env Environment) context.Context {
	return context.WithValue(ctx, contextKey{}, env)
}

// FromContext returns the environment stored in ctx, or development.
func FromContext(ctx context.Context) Environment {
	if ctx == nil {
		return Development
	}
	if env, ok := ctx.Value(contextKey{}).(Environment); ok {
		return env
	}
	return Development
}
