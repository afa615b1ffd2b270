// Package repomanager wires repository constructors to a storage backend
// and owns schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/avelichko/inkwell-auth/internal/dbx"
	"github.com/avelichko/inkwell-auth/internal/server/repositories/authors"
	"github.com/avelichko/inkwell-auth/internal/server/repositories/refreshtokens"
)

// RepositoryManager vends repositories bound to a DBTX. Passing a *sql.Tx
// yields repositories participating in that transaction.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Authors(db dbx.DBTX) authors.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
