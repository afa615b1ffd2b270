// Package api exposes the authentication service over HTTP/JSON.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/avelichko/inkwell-auth/internal/logging"
	"github.com/avelichko/inkwell-auth/internal/server/auth"
	"github.com/avelichko/inkwell-auth/internal/server/models"
	"github.com/avelichko/inkwell-auth/internal/server/services"
	"github.com/go-chi/chi/v5"
)

const shutdownTimeout = 5 * time.Second

// Server hosts the HTTP endpoints of the auth service.
type Server struct {
	address string
	logger  logging.Logger
	auth    *services.AuthService
	codec   *auth.TokenCodec
}

// NewServer constructs a Server listening on address.
func NewServer(address string, l logging.Logger, as *services.AuthService, codec *auth.TokenCodec) *Server {
	return &Server{
		address: address,
		logger:  l.With("module", "http_server"),
		auth:    as,
		codec:   codec,
	}
}

// Routes builds the router. Exposed separately so tests can drive the
// handlers through httptest without binding a socket.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/api/health", s.handleHealth)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Post("/refresh", s.handleRefresh)
		r.Post("/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)
			r.Get("/me", s.handleMe)
			r.With(requireRoles(models.RoleAdmin)).Get("/sessions", s.handleSessions)
		})
	})

	return r
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh // ListenAndServe has returned ErrServerClosed
		return nil
	}
}
