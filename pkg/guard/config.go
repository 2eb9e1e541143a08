package guard

// Config holds the guard's redirect targets.
type Config struct {
	LoginPath string `env:"GUARD_LOGIN_PATH" envDefault:"/login"`
	HomePath  string `env:"GUARD_HOME_PATH" envDefault:"/dashboard"`
}

// NewFromConfig creates a guard from cfg. Options are applied after the
// config values.
func NewFromConfig(cfg Config, opts ...Option) *Guard {
	return New(append([]Option{
		WithLoginPath(cfg.LoginPath),
		WithHomePath(cfg.HomePath),
	}, opts...)...)
}
