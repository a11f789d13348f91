// Package snapshots persists point-in-time copies of journey documents with
// a capped, owner-scoped history.
package snapshots

import (
	"context"

	"github.com/mvoronova/journeykeeper/internal/server/models"
)

type Repository interface {
	// Insert stores a new snapshot row.
	Insert(ctx context.Context, snap *models.Snapshot) error

	// TrimToCap deletes the oldest snapshots of ownerID until at most limit
	// remain, returning how many rows were removed. Runs in the same
	// transaction as Insert so the check observes the post-insert count.
	TrimToCap(ctx context.Context, ownerID string, limit int) (int64, error)

	// List returns summaries for ownerID, newest first.
	List(ctx context.Context, ownerID string) ([]*models.SnapshotSummary, error)

	// GetByID loads a full snapshot. Missing and foreign-owned rows both
	// yield common.ErrorNotFound.
	GetByID(ctx context.Context, ownerID, id string) (*models.Snapshot, error)

	// UpdateLabel changes only the label. Returns false when the snapshot
	// does not exist or belongs to another owner.
	UpdateLabel(ctx context.Context, ownerID, id, label string) (bool, error)

	// Delete removes a snapshot, reporting whether a row was deleted.
	Delete(ctx context.Context, ownerID, id string) (bool, error)
}
