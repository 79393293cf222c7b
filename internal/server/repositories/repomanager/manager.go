package repomanager

import (
	"context"
	"database/sql"

	"github.com/avoronova/postboard-auth/internal/dbx"
	"github.com/avoronova/postboard-auth/internal/server/repositories/refreshtokens"
	"github.com/avoronova/postboard-auth/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so a service can run
// the same repository code against the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
