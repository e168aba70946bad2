// Package httpapi exposes the service over HTTP/JSON. It is a thin layer:
// handlers decode input, call the accounts service, and translate sentinel
// errors into status codes. All design content lives below it.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/authvault/internal/dbx"
	"github.com/dmitrijs2005/authvault/internal/logging"
	"github.com/dmitrijs2005/authvault/internal/server/accounts"
	"github.com/go-chi/chi/v5"
)

type Server struct {
	address         string
	logger          logging.Logger
	accounts        *accounts.Service
	pool            *dbx.Pool
	jwtSecret       []byte
	shutdownTimeout time.Duration
	srv             *http.Server
}

func NewServer(address string, l logging.Logger, as *accounts.Service, pool *dbx.Pool, secretKey string, shutdownTimeout time.Duration) *Server {
	return &Server{
		address:         address,
		logger:          l.With("module", "http_server"),
		accounts:        as,
		pool:            pool,
		jwtSecret:       []byte(secretKey),
		shutdownTimeout: shutdownTimeout,
	}
}

// Handler builds the route tree. Exposed separately from Run so tests can
// drive it through httptest.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestID)
	r.Use(s.recoverer)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/signup", s.handleSignup)
		r.Post("/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)
			r.Get("/profile", s.handleProfile)
			r.Post("/logout", s.handleLogout)
			r.Delete("/account", s.handleDeactivate)
		})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully: the
// listener stops accepting work and in-flight requests get the shutdown
// timeout to drain. The pool stays open for that whole window; the caller
// closes it after Run returns.
func (s *Server) Run(ctx context.Context) error {

	s.srv = &http.Server{Addr: s.address, Handler: s.Handler()}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
