// Package refreshtokens declares the server-side repository contract for
// managing refresh tokens in persistent storage.
package refreshtokens

import (
	"context"
	"time"

	"github.com/avoronova/postboard-auth/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking refresh
// tokens. Rows are never deleted; revocation is the only mutation and it is
// monotonic.
type Repository interface {
	// Create stores a new refresh token for userID with an expiry of now+validity.
	Create(ctx context.Context, userID int64, token string, validity time.Duration) error

	// Find looks up a refresh token by its opaque token string and returns the
	// full row including revocation state. Implementations should return
	// common.ErrorNotFound when the token is absent.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Revoke marks the token revoked iff it is not revoked yet, and reports
	// whether this call performed the transition. Exactly one concurrent caller
	// can observe true for a given token.
	Revoke(ctx context.Context, token string) (bool, error)

	// RevokeAll marks every active token owned by userID revoked.
	// Matching zero rows is not an error.
	RevokeAll(ctx context.Context, userID int64) error
}
