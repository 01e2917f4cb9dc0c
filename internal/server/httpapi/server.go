// Package httpapi is the HTTP boundary: routing, bearer-token middleware,
// request validation, and the response envelope. It maps the service-layer
// error taxonomy to transport status codes and never leaks an unsanitized
// account.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/dberzins/accountd/internal/logging"
	"github.com/dberzins/accountd/internal/server/auth"
	"github.com/dberzins/accountd/internal/server/blob"
	"github.com/dberzins/accountd/internal/server/services"
)

type Server struct {
	address  string
	logger   logging.Logger
	accounts *services.AccountService
	sessions *services.SessionService
	blobs    *blob.Service
	issuer   *auth.Issuer
}

func NewServer(address string, l logging.Logger, as *services.AccountService,
	ss *services.SessionService, bs *blob.Service, issuer *auth.Issuer) *Server {
	return &Server{
		address:  address,
		logger:   l.With("module", "http_server"),
		accounts: as,
		sessions: ss,
		blobs:    bs,
		issuer:   issuer,
	}
}

// Router wires all routes. Exposed separately from Run so tests can drive
// the full middleware/handler chain through httptest.
func (s *Server) Router() http.Handler {
	router := httprouter.New()

	router.GET("/health", s.health)

	router.POST("/api/users/register", s.register)
	router.POST("/api/users/login", s.login)
	router.POST("/api/users/refresh-token", s.refreshToken)
	router.POST("/api/users/logout", s.authenticate(s.logout))

	router.GET("/api/users/profile", s.authenticate(s.getProfile))
	router.PUT("/api/users/profile", s.authenticate(s.updateProfile))
	router.POST("/api/users/logo", s.authenticate(s.uploadLogo))

	router.NotFound = http.HandlerFunc(s.notFound)

	return router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.address,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
