// Package repomanager hands out repositories bound to a specific DB handle,
// so services can run them against either a connection pool or an open
// transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dberzins/accountd/internal/dbx"
	"github.com/dberzins/accountd/internal/server/repositories/accounts"
)

type RepositoryManager interface {
	Accounts(db dbx.DBTX) accounts.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
