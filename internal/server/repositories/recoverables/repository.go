// Package recoverables implements the generic soft-delete store spanning
// every recoverable child-record kind (notes, saved items, trait
// observations). The invariants are identical across kinds; only the table
// and the label/detail projection differ, supplied by a per-kind spec.
package recoverables

import (
	"context"
	"time"

	"github.com/mvoronova/journeykeeper/internal/server/models"
)

type Repository interface {
	// ListDeleted returns soft-deleted records of one kind for ownerID whose
	// deleted_at is at or after cutoff, newest deletion first.
	ListDeleted(ctx context.Context, ownerID string, kind models.RecoverableKind, cutoff time.Time) ([]*models.RecoverableRecord, error)

	// RestoreDeleted clears deleted_at on a record that is soft-deleted and
	// still inside the grace window, returning the restored record. Live,
	// missing, foreign-owned and expired records all yield
	// common.ErrorNotFound.
	RestoreDeleted(ctx context.Context, ownerID string, kind models.RecoverableKind, id string, cutoff time.Time) (*models.RecoverableRecord, error)

	// Purge physically deletes a soft-deleted record regardless of grace
	// expiry. Returns false when nothing was purged.
	Purge(ctx context.Context, ownerID string, kind models.RecoverableKind, id string) (bool, error)

	// SoftDeleteLive marks every live record of a kind as deleted at the
	// given time, returning the number of records affected.
	SoftDeleteLive(ctx context.Context, ownerID string, kind models.RecoverableKind, deletedAt time.Time) (int64, error)
}
