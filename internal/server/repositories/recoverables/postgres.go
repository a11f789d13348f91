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

// PostgresRepository implements the generic soft-delete store over a
// dbx.DBTX. Table and projection names come from the kind spec, never from
// caller input.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListDeleted(ctx context.Context, ownerID string, kind models.RecoverableKind, cutoff time.Time) ([]*models.RecoverableRecord, error) {
	spec, err := specFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id, owner_id, %s, %s, deleted_at FROM %s
		WHERE owner_id = $1 AND deleted_at IS NOT NULL AND deleted_at >= $2
		ORDER BY deleted_at DESC, id DESC
	`, spec.labelExpr, spec.detailExpr, spec.table)

	rows, err := r.db.QueryContext(ctx, query, ownerID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to select deleted records: %w", err)
	}
	defer rows.Close()

	var result []*models.RecoverableRecord
	for rows.Next() {
		rec := models.RecoverableRecord{Kind: kind}
		var deletedAt time.Time
		if err := rows.Scan(&rec.ID, &rec.OwnerID, &rec.Label, &rec.Detail, &deletedAt); err != nil {
			return nil, err
		}
		rec.DeletedAt = &deletedAt
		result = append(result, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) RestoreDeleted(ctx context.Context, ownerID string, kind models.RecoverableKind, id string, cutoff time.Time) (*models.RecoverableRecord, error) {
	spec, err := specFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		UPDATE %s SET deleted_at = NULL, updated_at = now()
		WHERE id = $1 AND owner_id = $2 AND deleted_at IS NOT NULL AND deleted_at >= $3
		RETURNING id, owner_id, %s, %s
	`, spec.table, spec.labelExpr, spec.detailExpr)

	rec := models.RecoverableRecord{Kind: kind}
	err = r.db.QueryRowContext(ctx, query, id, ownerID, cutoff).
		Scan(&rec.ID, &rec.OwnerID, &rec.Label, &rec.Detail)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &rec, nil
}

func (r *PostgresRepository) Purge(ctx context.Context, ownerID string, kind models.RecoverableKind, id string) (bool, error) {
	spec, err := specFor(kind)
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND owner_id = $2 AND deleted_at IS NOT NULL
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

func (r *PostgresRepository) SoftDeleteLive(ctx context.Context, ownerID string, kind models.RecoverableKind, deletedAt time.Time) (int64, error) {
	spec, err := specFor(kind)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`
		UPDATE %s SET deleted_at = $2, updated_at = now()
		WHERE owner_id = $1 AND deleted_at IS NULL
	`, spec.table)

	res, err := r.db.ExecContext(ctx, query, ownerID, deletedAt)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
