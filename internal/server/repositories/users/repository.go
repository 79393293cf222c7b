// Package users declares the repository contract for credential rows.
package users

import (
	"context"

	"github.com/avoronova/postboard-auth/internal/server/models"
)

// Repository defines persistence operations for user credentials.
type Repository interface {
	// Create inserts a new credential row. A duplicate email must surface as
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail returns the credential for the given email, or
	// common.ErrorNotFound when absent.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID returns the credential by primary key, or common.ErrorNotFound.
	GetByID(ctx context.Context, id int64) (*models.User, error)
}
