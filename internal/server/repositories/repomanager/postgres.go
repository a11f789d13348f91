package repomanager

import (
	"context"
	"database/sql"

	"github.com/mvoronova/journeykeeper/internal/dbx"
	migrations "github.com/mvoronova/journeykeeper/internal/server/migrations/postgres"
	"github.com/mvoronova/journeykeeper/internal/server/repositories/journeys"
	"github.com/mvoronova/journeykeeper/internal/server/repositories/recoverables"
	"github.com/mvoronova/journeykeeper/internal/server/repositories/snapshots"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct {
}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Journeys(db dbx.DBTX) journeys.Repository {
	return journeys.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Snapshots(db dbx.DBTX) snapshots.Repository {
	return snapshots.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Recoverables(db dbx.DBTX) recoverables.Repository {
	return recoverables.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return err
	}

	return nil
}
