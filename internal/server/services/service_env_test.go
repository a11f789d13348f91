package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/mvoronova/journeykeeper/internal/logging"
	"github.com/mvoronova/journeykeeper/internal/server/repositories/repomanager"
)

// testEnv wires the services against a fresh in-memory SQLite database, the
// same backend the embedded mode runs on.
type testEnv struct {
	db        *sql.DB
	repos     repomanager.RepositoryManager
	snapshots *SnapshotService
	recycle   *RecycleBinService
	journeys  *JourneyService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := sql.Open("sqlite", "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	t.Cleanup(func() { db.Close() })

	repos := repomanager.NewSqliteRepositoryManager()
	if err := repos.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("migrations failed: %v", err)
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ss := NewSnapshotService(db, repos, logger)

	return &testEnv{
		db:        db,
		repos:     repos,
		snapshots: ss,
		recycle:   NewRecycleBinService(db, repos, ss, logger),
		journeys:  NewJourneyService(db, repos, ss, logger),
	}
}

func (e *testEnv) seedJourney(t *testing.T, ownerID string, state, clientState []byte) {
	t.Helper()
	_, err := e.db.Exec(
		`INSERT INTO journeys (owner_id, state, client_state, updated_at) VALUES (?, ?, ?, ?)`,
		ownerID, state, clientState, time.Now().UTC().UnixNano())
	if err != nil {
		t.Fatalf("failed to seed journey: %v", err)
	}
}

func (e *testEnv) journeyState(t *testing.T, ownerID string) []byte {
	t.Helper()
	var state []byte
	err := e.db.QueryRow(`SELECT state FROM journeys WHERE owner_id = ?`, ownerID).Scan(&state)
	if err != nil {
		t.Fatalf("failed to read journey state: %v", err)
	}
	return state
}

func (e *testEnv) seedNote(t *testing.T, id, ownerID, title, content string, deletedAt *time.Time) {
	t.Helper()
	var deleted any
	if deletedAt != nil {
		deleted = deletedAt.UnixNano()
	}
	_, err := e.db.Exec(
		`INSERT INTO notes (id, owner_id, title, content, deleted_at, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, ownerID, title, content, deleted, time.Now().UTC().UnixNano(), time.Now().UTC().UnixNano())
	if err != nil {
		t.Fatalf("failed to seed note: %v", err)
	}
}

func daysAgo(n int) time.Time {
	return time.Now().UTC().AddDate(0, 0, -n)
}
