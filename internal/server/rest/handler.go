package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avoronova/postboard-auth/internal/common"
	"github.com/avoronova/postboard-auth/internal/server/models"
)

type loginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type userResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func newTokenResponse(access, refresh string) tokenResponse {
	return tokenResponse{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}

// login exchanges an email/password form for a token pair. The form field is
// named username for OAuth2 password-flow compatibility but carries the email.
func (s *Server) login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "username and password are required"})
		return
	}

	pair, err := s.auth.Login(c.Request.Context(), form.Username, form.Password, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			c.JSON(http.StatusNotFound, gin.H{"detail": "User with this email does not exist"})
		case errors.Is(err, common.ErrInvalidCredentials):
			c.Header("WWW-Authenticate", "Bearer")
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Incorrect password"})
		case errors.Is(err, common.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"detail": "Too many login attempts, try again later"})
		default:
			s.serverError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, newTokenResponse(pair.AccessToken, pair.RefreshToken))
}

// refresh rotates a refresh token and returns a fresh pair.
func (s *Server) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "refresh_token is required"})
		return
	}

	pair, err := s.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, common.ErrRefreshTokenInvalid) {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid or expired refresh token"})
			return
		}
		s.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTokenResponse(pair.AccessToken, pair.RefreshToken))
}

// logout revokes the presented refresh token.
func (s *Server) logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "refresh_token is required"})
		return
	}

	if err := s.auth.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Token not found"})
			return
		}
		s.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

// logoutAll revokes every session of the authenticated user.
func (s *Server) logoutAll(c *gin.Context) {
	user := mustCurrentUser(c)

	if err := s.auth.LogoutAll(c.Request.Context(), user.ID); err != nil {
		s.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out from all devices"})
}

// register creates a new user account.
func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "a valid email and a password are required"})
		return
	}

	user, err := s.auth.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"detail": "Email already registered"})
			return
		}
		s.serverError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newUserResponse(user))
}

// me returns the account the access token resolves to.
func (s *Server) me(c *gin.Context) {
	c.JSON(http.StatusOK, newUserResponse(mustCurrentUser(c)))
}

func (s *Server) serverError(c *gin.Context, err error) {
	s.logger.Error(c.Request.Context(), "request failed",
		"path", c.FullPath(), "request_id", c.GetString(requestIDKey), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
}

// mustCurrentUser reads the user stored by bearerAuth. Routes calling it are
// always registered behind that middleware.
func mustCurrentUser(c *gin.Context) *models.User {
	return c.MustGet(currentUserKey).(*models.User)
}
