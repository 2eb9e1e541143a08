package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrymomot/hrportal/pkg/logger"
)

type config struct {
	addr            string
	readTimeout     time.Duration
	writeTimeout    time.Duration
	idleTimeout     time.Duration
	shutdownTimeout time.Duration
	logger          *slog.Logger
}

// Server wraps http.Server with graceful shutdown and logging.
type Server struct {
	cfg config

	mu   sync.Mutex
	srv  *http.Server
	ln   net.Listener
	once sync.Once
}

// New returns a configured server listening on 127.0.0.1:8090 by default.
func New(opts ...Option) *Server {
	cfg := config{
		addr:            "127.0.0.1:8090",
		shutdownTimeout: 5 * time.Second,
		logger:          logger.Discard(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.logger = cfg.logger.With(logger.Component("httpserver"))
	return &Server{cfg: cfg}
}

// Addr returns the bound address once Run has started listening, or the
// configured address before that.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.cfg.addr
}

// Run serves handler until ctx is cancelled, an interrupt or TERM signal
// arrives, or Shutdown is called.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	if handler == nil {
		handler = http.NotFoundHandler()
	}

	s.mu.Lock()
	if s.srv != nil {
		s.mu.Unlock()
		return errors.Join(ErrStart, ErrAlreadyRunning)
	}
	ln, err := net.Listen("tcp", s.cfg.addr)
	if err != nil {
		s.mu.Unlock()
		return errors.Join(ErrStart, err)
	}
	srv := &http.Server{
		Handler:      handler,
		ReadTimeout:  s.cfg.readTimeout,
		WriteTimeout: s.cfg.writeTimeout,
		IdleTimeout:  s.cfg.idleTimeout,
		BaseContext:  func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}
	s.srv, s.ln = srv, ln
	s.mu.Unlock()

	s.cfg.logger.InfoContext(ctx, "http server listening", slog.String("addr", ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	var runErr error
	select {
	case <-ctx.Done():
		runErr = s.shutdownAndWait(errCh)
	case sig := <-stop:
		s.cfg.logger.InfoContext(ctx, "signal received", slog.String("signal", sig.String()))
		runErr = s.shutdownAndWait(errCh)
	case runErr = <-errCh:
	}

	if runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
		return errors.Join(ErrStart, runErr)
	}
	s.cfg.logger.InfoContext(ctx, "http server stopped")
	return nil
}

func (s *Server) shutdownAndWait(errCh <-chan error) error {
	shutdownErr := s.Shutdown(context.Background())
	serveErr := <-errCh
	if shutdownErr != nil {
		return shutdownErr
	}
	return serveErr
}

// Shutdown stops the server gracefully. Repeated calls are no-ops.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	var err error
	s.once.Do(func() {
		ctx, cancel := context.WithTimeout(ctx, s.cfg.shutdownTimeout)
		defer cancel()
		err = srv.Shutdown(ctx)
	})
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Join(ErrShutdown, err)
	}
	return nil
}
