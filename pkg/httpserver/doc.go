// Package httpserver runs an http.Handler with graceful shutdown.
//
// Run blocks until the context is cancelled or the process receives an
// interrupt or TERM signal, then shuts down within the configured timeout.
// Errors are wrapped with ErrStart or ErrShutdown.
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		return err
//	}
//
// HealthCheckHandler reports liveness, or readiness when named checks are
// supplied.
package httpserver
