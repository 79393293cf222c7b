// Package rest exposes the authentication service over HTTP.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avoronova/postboard-auth/internal/logging"
	"github.com/avoronova/postboard-auth/internal/server/models"
	"github.com/avoronova/postboard-auth/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

// AuthService is the slice of the service layer the HTTP handlers need.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password, clientIP string) (*services.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	LogoutAll(ctx context.Context, userID int64) error
	CurrentUser(ctx context.Context, accessToken string) (*models.User, error)
}

type Server struct {
	address    string
	auth       AuthService
	logger     logging.Logger
	httpServer *http.Server
}

func NewServer(address string, auth AuthService, logger logging.Logger) *Server {
	return &Server{
		address: address,
		auth:    auth,
		logger:  logger.With("module", "rest_server"),
	}
}

// Routes builds the gin engine with all endpoints attached. Separated from
// Run so tests can drive the handlers through httptest.
func (s *Server) Routes() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestID())

	engine.POST("/users", s.register)
	engine.GET("/users/me", s.bearerAuth(), s.me)

	auth := engine.Group("/auth")
	auth.POST("/login", s.login)
	auth.POST("/refresh", s.refresh)
	auth.POST("/logout", s.logout)
	auth.POST("/logout-all", s.bearerAuth(), s.logoutAll)

	return engine
}

// Run starts the HTTP server and blocks until ctx is cancelled, then drains
// in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:    s.address,
		Handler: s.Routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "error shutting down HTTP server", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := s.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
