// Package refreshtokens declares the server-side repository contract for
// managing refresh-token records in persistent storage.
package refreshtokens

import (
	"context"
	"time"

	"github.com/avelichko/inkwell-auth/internal/server/models"
)

// Repository defines operations for issuing, retrieving and revoking
// refresh-token records. Records are never deleted here; cleanup of
// expired rows is a maintenance concern outside this interface.
type Repository interface {
	// Create persists a new non-revoked record for authorID with a fresh
	// unguessable identifier and an expiry of now+validity, returning the
	// full record.
	Create(ctx context.Context, authorID int64, validity time.Duration) (*models.RefreshToken, error)

	// Get looks up a record by id, scoped to its owner. A record held by a
	// different author behaves exactly like a missing one
	// (common.ErrorNotFound).
	Get(ctx context.Context, id string, authorID int64) (*models.RefreshToken, error)

	// Revoke marks a record revoked. It is idempotent: revoking an
	// already-revoked or nonexistent record is not an error.
	Revoke(ctx context.Context, id string) error

	// RevokeActive marks a record revoked only if it is not revoked yet and
	// reports whether this call performed the transition. Concurrent callers
	// racing over the same record see exactly one true result.
	RevokeActive(ctx context.Context, id string) (bool, error)

	// ListByAuthor returns all records owned by authorID, for auditing.
	ListByAuthor(ctx context.Context, authorID int64) ([]models.RefreshToken, error)
}
