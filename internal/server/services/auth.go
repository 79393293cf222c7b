// Package services contains server-side business logic. This file implements
// AuthService, which handles registration, login, refresh-token rotation,
// logout and resolving the user behind an access token.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/avoronova/postboard-auth/internal/common"
	"github.com/avoronova/postboard-auth/internal/dbx"
	"github.com/avoronova/postboard-auth/internal/logging"
	"github.com/avoronova/postboard-auth/internal/server/auth"
	"github.com/avoronova/postboard-auth/internal/server/limiter"
	"github.com/avoronova/postboard-auth/internal/server/models"
	"github.com/avoronova/postboard-auth/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// refreshTokenBytes is the entropy of an opaque refresh token (256 bits).
const refreshTokenBytes = 32

// AuthService provides the authentication operations:
//   - Register: create credentials
//   - Login: verify credentials and mint a token pair
//   - Refresh: rotate refresh tokens and mint new access tokens
//   - Logout / LogoutAll: revoke one or all refresh tokens
//   - CurrentUser: resolve the account behind an access token
type AuthService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	codec                        *auth.Codec
	limiter                      *limiter.LoginLimiter
	logger                       logging.Logger
	refreshTokenValidityDuration time.Duration
}

// NewAuthService constructs an AuthService. lim may be nil, which disables
// login throttling.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, codec *auth.Codec,
	lim *limiter.LoginLimiter, logger logging.Logger, refreshTokenValidity time.Duration) *AuthService {
	return &AuthService{
		db:                           db,
		repomanager:                  m,
		codec:                        codec,
		limiter:                      lim,
		logger:                       logger,
		refreshTokenValidityDuration: refreshTokenValidity,
	}
}

// Register creates a new credential for email. A duplicate email surfaces as
// common.ErrorAlreadyExists.
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err)
		return nil, common.ErrorInternal
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.Create(ctx, &models.User{Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		s.logger.Error(ctx, "error creating user", "error", err)
		return nil, common.ErrorInternal
	}
	return user, nil
}

// Login verifies the email/password pair and, on success, returns a new
// TokenPair. An unknown email yields common.ErrorNotFound and a wrong
// password common.ErrInvalidCredentials; the HTTP layer maps them to the
// 404/401 pair the API promises.
func (s *AuthService) Login(ctx context.Context, email, password, clientIP string) (*TokenPair, error) {
	if s.limiter != nil {
		if err := s.limiter.Enforce(ctx, email, clientIP); err != nil {
			if errors.Is(err, common.ErrRateLimited) {
				return nil, common.ErrRateLimited
			}
			// Fail open: a dead throttle backend must not lock everyone out.
			s.logger.Error(ctx, "login limiter unavailable", "error", err)
		}
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "error searching user", "error", err)
		return nil, common.ErrorInternal
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	return s.generateTokenPair(ctx, user.ID, s.db)
}

// Refresh validates a refresh token, rotates it transactionally, and returns
// a fresh TokenPair. Absent, revoked and expired tokens all yield
// common.ErrRefreshTokenInvalid. The revoke inside the transaction is
// conditional, so of two concurrent calls with the same token exactly one
// wins the rotation; the other gets ErrRefreshTokenInvalid.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrRefreshTokenInvalid
		}
		s.logger.Error(ctx, "error searching refresh token", "error", err)
		return nil, common.ErrorInternal
	}
	if !token.Valid(time.Now()) {
		return nil, common.ErrRefreshTokenInvalid
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.RefreshTokens(tx)
		revoked, err := repoTx.Revoke(ctx, refreshToken)
		if err != nil {
			return err
		}
		if !revoked {
			// Another rotation of this token committed first.
			return common.ErrRefreshTokenInvalid
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.UserID, tx)
		return genErr
	}); err != nil {
		if errors.Is(err, common.ErrRefreshTokenInvalid) {
			return nil, common.ErrRefreshTokenInvalid
		}
		if errors.Is(err, common.ErrorInternal) {
			return nil, common.ErrorInternal
		}
		s.logger.Error(ctx, "error rotating refresh token", "error", err)
		return nil, common.ErrorInternal
	}
	return pair, nil
}

// Logout revokes a single refresh token. An unknown or already-revoked token
// yields common.ErrorNotFound.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	repo := s.repomanager.RefreshTokens(s.db)
	revoked, err := repo.Revoke(ctx, refreshToken)
	if err != nil {
		s.logger.Error(ctx, "error revoking refresh token", "error", err)
		return common.ErrorInternal
	}
	if !revoked {
		return common.ErrorNotFound
	}
	return nil
}

// LogoutAll revokes every active refresh token of userID. The caller is
// expected to have authenticated the user already; zero active tokens is
// still a success.
func (s *AuthService) LogoutAll(ctx context.Context, userID int64) error {
	repo := s.repomanager.RefreshTokens(s.db)
	if err := repo.RevokeAll(ctx, userID); err != nil {
		s.logger.Error(ctx, "error revoking user tokens", "error", err)
		return common.ErrorInternal
	}
	return nil
}

// CurrentUser verifies an access token and resolves its subject. Any token
// failure, and a subject that no longer exists (deleted account with a live
// token), collapse to common.ErrorUnauthorized.
func (s *AuthService) CurrentUser(ctx context.Context, accessToken string) (*models.User, error) {
	userID, err := s.codec.Verify(accessToken)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "error searching user", "error", err)
		return nil, common.ErrorInternal
	}
	return user, nil
}

// --- helpers below ---

func (s *AuthService) generateRefreshToken() (string, error) {
	return common.MakeRandURLString(refreshTokenBytes)
}

func (s *AuthService) generateTokenPair(ctx context.Context, userID int64, tx dbx.DBTX) (*TokenPair, error) {
	access, err := s.codec.Issue(userID)
	if err != nil {
		s.logger.Error(ctx, "error signing access token", "error", err)
		return nil, common.ErrorInternal
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		s.logger.Error(ctx, "error generating refresh token", "error", err)
		return nil, common.ErrorInternal
	}
	refreshRepo := s.repomanager.RefreshTokens(tx)
	if err := refreshRepo.Create(ctx, userID, refresh, s.refreshTokenValidityDuration); err != nil {
		s.logger.Error(ctx, "error storing refresh token", "error", err)
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
