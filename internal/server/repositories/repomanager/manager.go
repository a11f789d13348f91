// Package repomanager hands out repositories bound to a DBTX, so services
// can run them against the pooled connection or inside a transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/mvoronova/journeykeeper/internal/dbx"
	"github.com/mvoronova/journeykeeper/internal/server/repositories/journeys"
	"github.com/mvoronova/journeykeeper/internal/server/repositories/recoverables"
	"github.com/mvoronova/journeykeeper/internal/server/repositories/snapshots"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Journeys(db dbx.DBTX) journeys.Repository
	Snapshots(db dbx.DBTX) snapshots.Repository
	Recoverables(db dbx.DBTX) recoverables.Repository
}
