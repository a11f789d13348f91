package snapshots

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

// SqliteRepository implements snapshot storage for the embedded backend.
// created_at is stored as unix nanoseconds, which keeps ordering exact even
// for snapshots created within the same millisecond.
type SqliteRepository struct {
	db dbx.DBTX
}

func NewSqliteRepository(db dbx.DBTX) *SqliteRepository {
	return &SqliteRepository{db: db}
}

func (r *SqliteRepository) Insert(ctx context.Context, snap *models.Snapshot) error {
	query := `
		INSERT INTO snapshots (id, owner_id, trigger_type, label, state, client_state, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		snap.ID, snap.OwnerID, snap.Trigger, snap.Label, snap.State, snap.ClientState,
		snap.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SqliteRepository) TrimToCap(ctx context.Context, ownerID string, limit int) (int64, error) {
	query := `
		DELETE FROM snapshots
		WHERE owner_id = ? AND id NOT IN (
			SELECT id FROM snapshots
			WHERE owner_id = ?
			ORDER BY created_at DESC, id DESC
			LIMIT ?
		)
	`
	res, err := r.db.ExecContext(ctx, query, ownerID, ownerID, limit)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

func (r *SqliteRepository) List(ctx context.Context, ownerID string) ([]*models.SnapshotSummary, error) {
	query := `
		SELECT id, trigger_type, label, created_at FROM snapshots
		WHERE owner_id = ?
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select snapshots: %w", err)
	}
	defer rows.Close()

	var result []*models.SnapshotSummary
	for rows.Next() {
		var s models.SnapshotSummary
		var created int64
		if err := rows.Scan(&s.ID, &s.Trigger, &s.Label, &created); err != nil {
			return nil, err
		}
		s.CreatedAt = time.Unix(0, created).UTC()
		result = append(result, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SqliteRepository) GetByID(ctx context.Context, ownerID, id string) (*models.Snapshot, error) {
	query := `
		SELECT id, owner_id, trigger_type, label, state, client_state, created_at
		FROM snapshots
		WHERE id = ? AND owner_id = ?
	`
	var s models.Snapshot
	var created int64
	err := r.db.QueryRowContext(ctx, query, id, ownerID).
		Scan(&s.ID, &s.OwnerID, &s.Trigger, &s.Label, &s.State, &s.ClientState, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	s.CreatedAt = time.Unix(0, created).UTC()
	return &s, nil
}

func (r *SqliteRepository) UpdateLabel(ctx context.Context, ownerID, id, label string) (bool, error) {
	query := `UPDATE snapshots SET label = ? WHERE id = ? AND owner_id = ?`
	res, err := r.db.ExecContext(ctx, query, label, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n > 0, nil
}

func (r *SqliteRepository) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	query := `DELETE FROM snapshots WHERE id = ? AND owner_id = ?`
	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n > 0, nil
}
