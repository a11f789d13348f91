package journeys

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mvoronova/journeykeeper/internal/common"
	"github.com/mvoronova/journeykeeper/internal/dbx"
	"github.com/mvoronova/journeykeeper/internal/server/models"
)

// SqliteRepository implements journey storage for the embedded backend.
// Timestamps are stored as unix nanoseconds. SQLite allows a single writer,
// so GetLocked does not need a row lock.
type SqliteRepository struct {
	db dbx.DBTX
}

func NewSqliteRepository(db dbx.DBTX) *SqliteRepository {
	return &SqliteRepository{db: db}
}

func (r *SqliteRepository) Get(ctx context.Context, ownerID string) (*models.Journey, error) {
	query := `SELECT owner_id, state, client_state, updated_at FROM journeys WHERE owner_id = ?`

	var j models.Journey
	var updated int64
	err := r.db.QueryRowContext(ctx, query, ownerID).
		Scan(&j.OwnerID, &j.State, &j.ClientState, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	j.UpdatedAt = time.Unix(0, updated).UTC()
	return &j, nil
}

func (r *SqliteRepository) GetLocked(ctx context.Context, ownerID string) (*models.Journey, error) {
	return r.Get(ctx, ownerID)
}

func (r *SqliteRepository) SetState(ctx context.Context, ownerID string, state, clientState []byte) error {
	query := `
		UPDATE journeys
		SET state = ?, client_state = COALESCE(?, client_state), updated_at = ?
		WHERE owner_id = ?
	`
	res, err := r.db.ExecContext(ctx, query, state, clientState, time.Now().UTC().UnixNano(), ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
