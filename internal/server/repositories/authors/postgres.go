package authors

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avelichko/inkwell-auth/internal/common"
	"github.com/avelichko/inkwell-auth/internal/dbx"
	"github.com/avelichko/inkwell-auth/internal/server/models"
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

const authorColumns = `id, name, email, password_hash, is_active, role, created_at, updated_at`

func scanAuthor(row *sql.Row) (*models.Author, error) {
	author := &models.Author{}
	var passwordHash sql.NullString
	if err := row.Scan(&author.ID, &author.Name, &author.Email, &passwordHash,
		&author.IsActive, &author.Role, &author.CreatedAt, &author.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if passwordHash.Valid {
		author.PasswordHash = passwordHash.String
	}
	return author, nil
}

// GetByEmail returns the account stored under email or common.ErrorNotFound.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Author, error) {
	query := `
		SELECT ` + authorColumns + `
		FROM authors
		WHERE email = $1
	`
	return scanAuthor(r.db.QueryRowContext(ctx, query, email))
}

// GetByID returns the account with the given id or common.ErrorNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Author, error) {
	query := `
		SELECT ` + authorColumns + `
		FROM authors
		WHERE id = $1
	`
	return scanAuthor(r.db.QueryRowContext(ctx, query, id))
}

// Create inserts a new account. An empty PasswordHash is stored as NULL so
// the account cannot authenticate until a password is set.
func (r *PostgresRepository) Create(ctx context.Context, author *models.Author) (*models.Author, error) {
	query := `
		INSERT INTO authors (name, email, password_hash, is_active, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	passwordHash := sql.NullString{String: author.PasswordHash, Valid: author.PasswordHash != ""}
	if err := r.db.QueryRowContext(ctx, query,
		author.Name, author.Email, passwordHash, author.IsActive, author.Role).
		Scan(&author.ID, &author.CreatedAt, &author.UpdatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return author, nil
}

// UpdatePassword replaces the stored password hash.
func (r *PostgresRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	query := `
		UPDATE authors
		SET password_hash = $2, updated_at = now()
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id, passwordHash); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
