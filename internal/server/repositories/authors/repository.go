// Package authors declares the repository contract for author accounts.
// The authentication flow only reads accounts; Create and UpdatePassword
// exist for provisioning via the operator CLI.
package authors

import (
	"context"

	"github.com/avelichko/inkwell-auth/internal/server/models"
)

// Repository defines the account lookups the authentication flow needs,
// plus provisioning operations.
type Repository interface {
	// GetByEmail returns the account with the given email or
	// common.ErrorNotFound. Emails are matched case-sensitively, as stored.
	GetByEmail(ctx context.Context, email string) (*models.Author, error)

	// GetByID returns the account with the given id or common.ErrorNotFound.
	GetByID(ctx context.Context, id int64) (*models.Author, error)

	// Create inserts a new account and returns it with DB-assigned fields
	// filled in. An empty PasswordHash is stored as NULL.
	Create(ctx context.Context, author *models.Author) (*models.Author, error)

	// UpdatePassword replaces the stored password hash for the account.
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}
