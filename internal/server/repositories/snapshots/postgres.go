package snapshots

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mvoronova/journeykeeper/internal/common"
	"github.com/mvoronova/journeykeeper/internal/dbx"
	"github.com/mvoronova/journeykeeper/internal/server/models"
)

// PostgresRepository implements snapshot storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Insert(ctx context.Context, snap *models.Snapshot) error {
	query := `
		INSERT INTO snapshots (id, owner_id, trigger_type, label, state, client_state, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		snap.ID, snap.OwnerID, snap.Trigger, snap.Label, snap.State, snap.ClientState, snap.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// TrimToCap keeps the `limit` most recent snapshots by (created_at, id) and
// deletes the rest.
func (r *PostgresRepository) TrimToCap(ctx context.Context, ownerID string, limit int) (int64, error) {
	query := `
		DELETE FROM snapshots
		WHERE owner_id = $1 AND id NOT IN (
			SELECT id FROM snapshots
			WHERE owner_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		)
	`
	res, err := r.db.ExecContext(ctx, query, ownerID, limit)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) List(ctx context.Context, ownerID string) ([]*models.SnapshotSummary, error) {
	query := `
		SELECT id, trigger_type, label, created_at FROM snapshots
		WHERE owner_id = $1
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
		if err := rows.Scan(&s.ID, &s.Trigger, &s.Label, &s.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, ownerID, id string) (*models.Snapshot, error) {
	query := `
		SELECT id, owner_id, trigger_type, label, state, client_state, created_at
		FROM snapshots
		WHERE id = $1 AND owner_id = $2
	`
	var s models.Snapshot
	err := r.db.QueryRowContext(ctx, query, id, ownerID).
		Scan(&s.ID, &s.OwnerID, &s.Trigger, &s.Label, &s.State, &s.ClientState, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &s, nil
}

func (r *PostgresRepository) UpdateLabel(ctx context.Context, ownerID, id, label string) (bool, error) {
	query := `UPDATE snapshots SET label = $3 WHERE id = $1 AND owner_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, ownerID, label)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected error: %w", err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	query := `DELETE FROM snapshots WHERE id = $1 AND owner_id = $2`
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
