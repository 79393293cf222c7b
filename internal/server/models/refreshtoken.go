package models

import "time"

// RefreshToken is a persisted opaque session credential. Rows are append-only:
// revocation flips IsRevoked once and nothing ever clears it, so the table
// doubles as an audit trail. A token is usable iff !IsRevoked and Expires is
// in the future.
type RefreshToken struct {
	ID        int64
	UserID    int64
	Token     string
	Expires   time.Time
	IsRevoked bool
	CreatedAt time.Time
}

// Valid reports whether the token can still be exchanged at the given instant.
func (t *RefreshToken) Valid(now time.Time) bool {
	return !t.IsRevoked && t.Expires.After(now)
}
