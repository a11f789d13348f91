package recoverables

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

// SqliteRepository implements the generic soft-delete store for the embedded
// backend. deleted_at is stored as unix nanoseconds.
type SqliteRepository struct {
	db dbx.DBTX
}

func NewSqliteRepository(db dbx.DBTX) *SqliteRepository {
	return &SqliteRepository{db: db}
}

func (r *SqliteRepository) ListDeleted(ctx context.Context, ownerID string, kind models.RecoverableKind, cutoff time.Time) ([]*models.RecoverableRecord, error) {
	spec, err := specFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id, owner_id, %s, %s, deleted_at FROM %s
		WHERE owner_id = ? AND deleted_at IS NOT NULL AND deleted_at >= ?
		ORDER BY deleted_at DESC, id DESC
	`, spec.labelExpr, spec.detailExpr, spec.table)

	rows, err := r.db.QueryContext(ctx, query, ownerID, cutoff.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("failed to select deleted records: %w", err)
	}
	defer rows.Close()

	var result []*models.RecoverableRecord
	for rows.Next() {
		rec := models.RecoverableRecord{Kind: kind}
		var deleted int64
		if err := rows.Scan(&rec.ID, &rec.OwnerID, &rec.Label, &rec.Detail, &deleted); err != nil {
			return nil, err
		}
		deletedAt := time.Unix(0, deleted).UTC()
		rec.DeletedAt = &deletedAt
		result = append(result, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SqliteRepository) RestoreDeleted(ctx context.Context, ownerID string, kind models.RecoverableKind, id string, cutoff time.Time) (*models.RecoverableRecord, error) {
	spec, err := specFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		UPDATE %s SET deleted_at = NULL, updated_at = ?
		WHERE id = ? AND owner_id = ? AND deleted_at IS NOT NULL AND deleted_at >= ?
		RETURNING id, owner_id, %s, %s
	`, spec.table, spec.labelExpr, spec.detailExpr)

	rec := models.RecoverableRecord{Kind: kind}
	err = r.db.QueryRowContext(ctx, query,
		time.Now().UTC().UnixNano(), id, ownerID, cutoff.UnixNano()).
		Scan(&rec.ID, &rec.OwnerID, &rec.Label, &rec.Detail)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &rec, nil
}

func (r *SqliteRepository) Purge(ctx context.Context, ownerID string, kind models.RecoverableKind, id string) (bool, error) {
	spec, err := specFor(kind)
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = ? AND owner_id = ? AND deleted_at IS NOT NULL
	`, spec.table)

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

func (r *SqliteRepository) SoftDeleteLive(ctx context.Context, ownerID string, kind models.RecoverableKind, deletedAt time.Time) (int64, error) {
	spec, err := specFor(kind)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`
		UPDATE %s SET deleted_at = ?, updated_at = ?
		WHERE owner_id = ? AND deleted_at IS NULL
	`, spec.table)

	res, err := r.db.ExecContext(ctx, query, deletedAt.UnixNano(), time.Now().UTC().UnixNano(), ownerID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
