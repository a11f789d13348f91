package repomanager

import (
	"context"
	"database/sql"

	"github.com/mvoronova/journeykeeper/internal/dbx"
	migrations "github.com/mvoronova/journeykeeper/internal/server/migrations/sqlite"
	"github.com/mvoronova/journeykeeper/internal/server/repositories/journeys"
	"github.com/mvoronova/journeykeeper/internal/server/repositories/recoverables"
	"github.com/mvoronova/journeykeeper/internal/server/repositories/snapshots"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// SqliteRepositoryManager backs the embedded/local mode and the service
// tests with an in-process SQLite database.
type SqliteRepositoryManager struct {
}

func NewSqliteRepositoryManager() *SqliteRepositoryManager {
	return &SqliteRepositoryManager{}
}

func (m *SqliteRepositoryManager) Journeys(db dbx.DBTX) journeys.Repository {
	return journeys.NewSqliteRepository(db)
}

func (m *SqliteRepositoryManager) Snapshots(db dbx.DBTX) snapshots.Repository {
	return snapshots.NewSqliteRepository(db)
}

func (m *SqliteRepositoryManager) Recoverables(db dbx.DBTX) recoverables.Repository {
	return recoverables.NewSqliteRepository(db)
}

func (m *SqliteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return err
	}

	return nil
}
