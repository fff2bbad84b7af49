// Package repomanager wires repository implementations to a database handle
// and owns schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/mlegrand/gotasks/internal/dbx"
	"github.com/mlegrand/gotasks/internal/server/repositories/tasks"
	"github.com/mlegrand/gotasks/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so the same
// repository code runs against the pool or inside a transaction.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Tasks(db dbx.DBTX) tasks.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
