package models

import "time"

// User is a credential row: a unique email and the argon2id hash of the
// password. The hash never leaves the repository layer in API responses.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
