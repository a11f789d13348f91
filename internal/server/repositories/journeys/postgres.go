package journeys

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mvoronova/journeykeeper/internal/common"
	"github.com/mvoronova/journeykeeper/internal/dbx"
	"github.com/mvoronova/journeykeeper/internal/server/models"
)

// PostgresRepository implements journey storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) get(ctx context.Context, ownerID string, forUpdate bool) (*models.Journey, error) {
	query := `SELECT owner_id, state, client_state, updated_at FROM journeys WHERE owner_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var j models.Journey
	err := r.db.QueryRowContext(ctx, query, ownerID).
		Scan(&j.OwnerID, &j.State, &j.ClientState, &j.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &j, nil
}

func (r *PostgresRepository) Get(ctx context.Context, ownerID string) (*models.Journey, error) {
	return r.get(ctx, ownerID, false)
}

// GetLocked takes a FOR UPDATE row lock; the per-owner serialization point
// for snapshot creation and restore.
func (r *PostgresRepository) GetLocked(ctx context.Context, ownerID string) (*models.Journey, error) {
	return r.get(ctx, ownerID, true)
}

func (r *PostgresRepository) SetState(ctx context.Context, ownerID string, state, clientState []byte) error {
	query := `
		UPDATE journeys
		SET state = $2, client_state = COALESCE($3, client_state), updated_at = now()
		WHERE owner_id = $1
	`
	res, err := r.db.ExecContext(ctx, query, ownerID, state, clientState)
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
