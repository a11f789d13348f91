// Package server initializes and runs the recovery server: it opens the
// configured storage backend, runs migrations, wires the services and
// starts the HTTP facade, handling graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/mvoronova/journeykeeper/internal/logging"
	"github.com/mvoronova/journeykeeper/internal/server/config"
	"github.com/mvoronova/journeykeeper/internal/server/httpserver"
	"github.com/mvoronova/journeykeeper/internal/server/repositories/repomanager"
	"github.com/mvoronova/journeykeeper/internal/server/services"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	httpServer *httpserver.HTTPServer
}

func NewApp(c *config.Config) (*App, error) {
	l := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, repos, err := openStorage(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := repos.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	ss := services.NewSnapshotService(db, repos, l)
	rb := services.NewRecycleBinService(db, repos, ss, l)
	js := services.NewJourneyService(db, repos, ss, l)

	hs := httpserver.NewHTTPServer(c.EndpointAddr, l, ss, rb, js, c.SecretKey, c.ShutdownTimeout)

	return &App{config: c, logger: l, db: db, httpServer: hs}, nil
}

// openStorage picks the backend from the DSN: postgres:// goes to pgx,
// anything else is treated as an embedded SQLite database path.
func openStorage(dsn string) (*sql.DB, repomanager.RepositoryManager, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, nil, err
		}
		return db, repomanager.NewPostgresRepositoryManager(), nil
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, err
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return db, repomanager.NewSqliteRepositoryManager(), nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.httpServer.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "error closing db", "error", err)
	}
}
