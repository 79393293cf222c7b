// Package auth implements the stateless pieces of the authentication core:
// the signed access-token codec and password hashing/verification.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/avoronova/postboard-auth/internal/common"
)

// TokenTypeAccess is the discriminator carried by every access token.
// Verification rejects any other value, so a differently-typed payload signed
// with the same key can never pass as an access token.
const TokenTypeAccess = "access"

// Claims is the access-token payload: registered claims plus the subject's
// user id and the token type tag.
type Claims struct {
	jwt.RegisteredClaims
	UserID    int64  `json:"user_id"`
	TokenType string `json:"type"`
}

// Codec issues and verifies signed access tokens. It holds the server secret,
// the configured signing method and the token lifetime, all immutable after
// construction.
type Codec struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
}

// NewCodec builds a Codec for the named signing algorithm. Only HMAC methods
// are supported; the secret is the shared signing key.
func NewCodec(secret []byte, algorithm string, ttl time.Duration) (*Codec, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing algorithm %q is not an HMAC method", algorithm)
	}
	return &Codec{secret: secret, method: method, ttl: ttl}, nil
}

// Issue signs an access token for userID expiring at now+ttl.
func (c *Codec) Issue(userID int64) (string, error) {
	token := jwt.NewWithClaims(c.method, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(c.ttl)),
		},
		UserID:    userID,
		TokenType: TokenTypeAccess,
	})

	tokenString, err := token.SignedString(c.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify checks signature, expiry and the "access" type tag, and returns the
// subject user id. Every failure mode collapses to common.ErrInvalidToken so
// callers cannot leak which check rejected the token.
func (c *Codec) Verify(tokenString string) (int64, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{c.method.Alg()}))
	if err != nil {
		return 0, common.ErrInvalidToken
	}

	if !token.Valid || claims.TokenType != TokenTypeAccess {
		return 0, common.ErrInvalidToken
	}

	return claims.UserID, nil
}

// TTL returns the configured access-token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}
