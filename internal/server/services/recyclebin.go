package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mvoronova/journeykeeper/internal/common"
	"github.com/mvoronova/journeykeeper/internal/dbx"
	"github.com/mvoronova/journeykeeper/internal/logging"
	"github.com/mvoronova/journeykeeper/internal/server/models"
	"github.com/mvoronova/journeykeeper/internal/server/repositories/repomanager"
)

// RecycleBinService exposes the soft-delete recycle bin: listing, restoring
// and purging deleted child records of any recoverable kind within the
// grace window.
type RecycleBinService struct {
	db        *sql.DB
	repos     repomanager.RepositoryManager
	snapshots *SnapshotService
	logger    logging.Logger
}

func NewRecycleBinService(db *sql.DB, repos repomanager.RepositoryManager, snapshots *SnapshotService, logger logging.Logger) *RecycleBinService {
	return &RecycleBinService{
		db:        db,
		repos:     repos,
		snapshots: snapshots,
		logger:    logger.With("module", "recyclebin_service"),
	}
}

// BulkDeleteResult reports how many records a bulk delete moved into the
// recycle bin and which safety snapshot was taken first.
type BulkDeleteResult struct {
	Deleted int64
	Backup  *models.SnapshotSummary
}

// ListDeleted returns the soft-deleted records of one kind still inside the
// grace window, each annotated with the days remaining before expiry.
func (s *RecycleBinService) ListDeleted(ctx context.Context, ownerID string, kind models.RecoverableKind) ([]*models.DeletedRecord, error) {
	if err := validateKind(kind); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	records, err := s.repos.Recoverables(s.db).ListDeleted(ctx, ownerID, kind, graceCutoff(now))
	if err != nil {
		return nil, fmt.Errorf("error listing deleted records: %w", err)
	}

	result := make([]*models.DeletedRecord, 0, len(records))
	for _, rec := range records {
		result = append(result, &models.DeletedRecord{
			RecoverableRecord: *rec,
			DaysLeft:          daysLeft(*rec.DeletedAt, now),
		})
	}
	return result, nil
}

// Restore brings a soft-deleted record back to life by clearing its
// deletedAt. Records that are live, missing, foreign-owned or past the grace
// window are all reported as not found.
func (s *RecycleBinService) Restore(ctx context.Context, ownerID string, kind models.RecoverableKind, itemID string) (*models.RecoverableRecord, error) {
	if err := validateKind(kind); err != nil {
		return nil, err
	}

	rec, err := s.repos.Recoverables(s.db).RestoreDeleted(ctx, ownerID, kind, itemID, graceCutoff(time.Now().UTC()))
	if err != nil {
		return nil, fmt.Errorf("error restoring record: %w", err)
	}

	s.logger.Info(ctx, "record restored from recycle bin", "owner", ownerID, "kind", kind, "id", itemID)
	return rec, nil
}

// PurgeOne physically deletes a soft-deleted record. Irreversible. Also
// works past the grace window, so an external sweep can use it. Returns
// false when nothing was purged.
func (s *RecycleBinService) PurgeOne(ctx context.Context, ownerID string, kind models.RecoverableKind, itemID string) (bool, error) {
	if err := validateKind(kind); err != nil {
		return false, err
	}

	found, err := s.repos.Recoverables(s.db).Purge(ctx, ownerID, kind, itemID)
	if err != nil {
		return false, fmt.Errorf("error purging record: %w", err)
	}
	if found {
		s.logger.Info(ctx, "record purged", "owner", ownerID, "kind", kind, "id", itemID)
	}
	return found, nil
}

// BulkDelete soft-deletes every live record of a kind, preceded by an
// automatic pre_bulk_delete snapshot in the same transaction. The records
// land in the recycle bin with a fresh grace window.
func (s *RecycleBinService) BulkDelete(ctx context.Context, ownerID string, kind models.RecoverableKind) (*BulkDeleteResult, error) {
	if err := validateKind(kind); err != nil {
		return nil, err
	}

	var deleted int64
	backup, err := s.snapshots.RunProtected(ctx, ownerID, models.TriggerPreBulkDelete, nil,
		func(ctx context.Context, tx dbx.DBTX) error {
			n, err := s.repos.Recoverables(tx).SoftDeleteLive(ctx, ownerID, kind, time.Now().UTC())
			if err != nil {
				return err
			}
			deleted = n
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("error bulk deleting records: %w", err)
	}

	s.logger.Info(ctx, "bulk delete completed", "owner", ownerID, "kind", kind, "deleted", deleted, "backup", backup.ID)
	return &BulkDeleteResult{Deleted: deleted, Backup: summaryOf(backup)}, nil
}

func validateKind(kind models.RecoverableKind) error {
	if !models.ValidKind(kind) {
		return fmt.Errorf("%w: unknown kind %q", common.ErrorValidation, kind)
	}
	return nil
}

// graceCutoff is the oldest deletedAt still restorable at time now.
func graceCutoff(now time.Time) time.Time {
	return now.AddDate(0, 0, -common.GracePeriodDays)
}

// daysLeft computes 30 minus whole days elapsed since deletion, clamped at
// zero. A record deleted 29 days ago shows "1 day left".
func daysLeft(deletedAt, now time.Time) int {
	elapsed := int(now.Sub(deletedAt).Hours() / 24)
	left := common.GracePeriodDays - elapsed
	if left < 0 {
		left = 0
	}
	return left
}
