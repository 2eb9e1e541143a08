package portal

// Config holds portal settings read from the environment.
type Config struct {
	// CORSOrigins lists browser origins allowed to call the /data views.
	// Empty disables CORS headers.
	CORSOrigins []string `env:"PORTAL_CORS_ORIGINS" envSeparator:","`
}
