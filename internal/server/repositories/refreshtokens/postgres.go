// Package refreshtokens provides a PostgreSQL-backed repository for the
// refresh-token records behind the authentication flow.
package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/avelichko/inkwell-auth/internal/common"
	"github.com/avelichko/inkwell-auth/internal/dbx"
	"github.com/avelichko/inkwell-auth/internal/server/models"
	"github.com/google/uuid"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new record with a random UUID identifier and an expiry
// of now+validity.
func (r *PostgresRepository) Create(ctx context.Context, authorID int64, validity time.Duration) (*models.RefreshToken, error) {
	token := &models.RefreshToken{
		ID:        uuid.NewString(),
		AuthorID:  authorID,
		ExpiresAt: time.Now().Add(validity),
	}
	query := `
		INSERT INTO refresh_tokens (id, author_id, expires_at)
		VALUES ($1, $2, $3)
		RETURNING revoked, created_at, updated_at
	`
	if err := r.db.QueryRowContext(ctx, query, token.ID, token.AuthorID, token.ExpiresAt).
		Scan(&token.Revoked, &token.CreatedAt, &token.UpdatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return token, nil
}

// Get returns the record with the given id owned by authorID.
// If not found, it returns common.ErrorNotFound.
func (r *PostgresRepository) Get(ctx context.Context, id string, authorID int64) (*models.RefreshToken, error) {
	query := `
		SELECT id, author_id, revoked, expires_at, created_at, updated_at
		FROM refresh_tokens
		WHERE id = $1 AND author_id = $2
	`
	token := &models.RefreshToken{}
	if err := r.db.QueryRowContext(ctx, query, id, authorID).
		Scan(&token.ID, &token.AuthorID, &token.Revoked, &token.ExpiresAt, &token.CreatedAt, &token.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return token, nil
}

// Revoke marks the record revoked regardless of its current state.
func (r *PostgresRepository) Revoke(ctx context.Context, id string) error {
	query := `
		UPDATE refresh_tokens
		SET revoked = TRUE, updated_at = now()
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// RevokeActive is the conditional form of Revoke used by rotation: the
// update only matches a record that is still active, so of any number of
// concurrent callers exactly one observes true.
func (r *PostgresRepository) RevokeActive(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE refresh_tokens
		SET revoked = TRUE, updated_at = now()
		WHERE id = $1 AND NOT revoked
	`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return affected == 1, nil
}

// ListByAuthor returns every record owned by authorID, newest first.
func (r *PostgresRepository) ListByAuthor(ctx context.Context, authorID int64) ([]models.RefreshToken, error) {
	query := `
		SELECT id, author_id, revoked, expires_at, created_at, updated_at
		FROM refresh_tokens
		WHERE author_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var tokens []models.RefreshToken
	for rows.Next() {
		var token models.RefreshToken
		if err := rows.Scan(&token.ID, &token.AuthorID, &token.Revoked, &token.ExpiresAt, &token.CreatedAt, &token.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return tokens, nil
}
