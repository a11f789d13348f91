// Package services implements the recovery operations consumed by the HTTP
// facade: snapshot versioning of the journey document and the soft-delete
// recycle bin over child records.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mvoronova/journeykeeper/internal/common"
	"github.com/mvoronova/journeykeeper/internal/dbx"
	"github.com/mvoronova/journeykeeper/internal/logging"
	"github.com/mvoronova/journeykeeper/internal/server/models"
	"github.com/mvoronova/journeykeeper/internal/server/repositories/repomanager"
)

// SnapshotService maintains the capped snapshot history of each profile's
// journey document and performs transactional restore.
type SnapshotService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	logger logging.Logger
}

func NewSnapshotService(db *sql.DB, repos repomanager.RepositoryManager, logger logging.Logger) *SnapshotService {
	return &SnapshotService{
		db:     db,
		repos:  repos,
		logger: logger.With("module", "snapshot_service"),
	}
}

// RestoreResult carries identifying information about the pre_restore backup
// created during a restore, so the caller can tell the user a safety copy
// exists.
type RestoreResult struct {
	Backup *models.SnapshotSummary
}

// List returns the profile's snapshot summaries, newest first. The per-owner
// cap guarantees at most common.SnapshotCap entries. An unknown owner simply
// gets an empty list.
func (s *SnapshotService) List(ctx context.Context, ownerID string) ([]*models.SnapshotSummary, error) {
	result, err := s.repos.Snapshots(s.db).List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing snapshots: %w", err)
	}
	return result, nil
}

// Create captures the current journey state of ownerID into a new snapshot.
// Labels longer than common.LabelMaxLength characters are truncated. After
// the insert the history is trimmed to the cap inside the same transaction,
// so concurrent creates cannot jointly exceed it.
func (s *SnapshotService) Create(ctx context.Context, ownerID, trigger, label string, clientState []byte) (*models.Snapshot, error) {
	if !models.ValidTrigger(trigger) {
		return nil, fmt.Errorf("%w: unknown trigger %q", common.ErrorValidation, trigger)
	}
	label = truncateLabel(label)

	var snap *models.Snapshot
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		j, err := s.repos.Journeys(tx).GetLocked(ctx, ownerID)
		if err != nil {
			return err
		}
		snap, err = s.createTx(ctx, tx, j, trigger, label, clientState)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error creating snapshot: %w", err)
	}
	return snap, nil
}

// createTx inserts a snapshot of the given (already locked) journey and
// trims the owner's history to the cap. Insert-then-trim runs as one
// transactional step; the trim observes the post-insert count.
func (s *SnapshotService) createTx(ctx context.Context, tx dbx.DBTX, j *models.Journey, trigger, label string, clientState []byte) (*models.Snapshot, error) {
	snap := &models.Snapshot{
		ID:          uuid.NewString(),
		OwnerID:     j.OwnerID,
		Trigger:     trigger,
		Label:       label,
		State:       j.State,
		ClientState: clientState,
		CreatedAt:   time.Now().UTC(),
	}

	repo := s.repos.Snapshots(tx)
	if err := repo.Insert(ctx, snap); err != nil {
		return nil, err
	}

	evicted, err := repo.TrimToCap(ctx, j.OwnerID, common.SnapshotCap)
	if err != nil {
		return nil, err
	}
	if evicted > 0 {
		s.logger.Debug(ctx, "evicted oldest snapshots", "owner", j.OwnerID, "count", evicted)
	}

	return snap, nil
}

// RunProtected executes apply inside one transaction, creating an automatic
// safety snapshot of the owner's journey immediately before it. The optional
// before hook runs after the journey lock is taken but before the safety
// snapshot (restore uses it to read the target snapshot, which the safety
// snapshot's own eviction may remove). Any error aborts the whole
// transaction, safety snapshot included.
func (s *SnapshotService) RunProtected(ctx context.Context, ownerID, trigger string, before, apply func(ctx context.Context, tx dbx.DBTX) error) (*models.Snapshot, error) {
	var backup *models.Snapshot

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		j, err := s.repos.Journeys(tx).GetLocked(ctx, ownerID)
		if err != nil {
			return err
		}

		if before != nil {
			if err := before(ctx, tx); err != nil {
				return err
			}
		}

		backup, err = s.createTx(ctx, tx, j, trigger, "", j.ClientState)
		if err != nil {
			return err
		}

		return apply(ctx, tx)
	})
	if err != nil {
		return nil, err
	}
	return backup, nil
}

// Restore overwrites the live journey of ownerID with the state stored in
// snapshotID. A pre_restore snapshot of the pre-restore state is created in
// the same transaction, making every restore reversible. actingUserID is
// recorded for the audit log only.
func (s *SnapshotService) Restore(ctx context.Context, ownerID, actingUserID, snapshotID string) (*RestoreResult, error) {
	var target *models.Snapshot

	backup, err := s.RunProtected(ctx, ownerID, models.TriggerPreRestore,
		func(ctx context.Context, tx dbx.DBTX) error {
			// The target must be in memory before the safety snapshot is
			// created: when the target is the oldest of a full history, the
			// safety snapshot's eviction removes its row.
			t, err := s.repos.Snapshots(tx).GetByID(ctx, ownerID, snapshotID)
			if err != nil {
				return err
			}
			target = t
			return nil
		},
		func(ctx context.Context, tx dbx.DBTX) error {
			return s.repos.Journeys(tx).SetState(ctx, ownerID, target.State, target.ClientState)
		})
	if err != nil {
		return nil, fmt.Errorf("error restoring snapshot: %w", err)
	}

	s.logger.Info(ctx, "journey restored from snapshot",
		"owner", ownerID, "snapshot", snapshotID, "acting_user", actingUserID, "backup", backup.ID)

	return &RestoreResult{Backup: summaryOf(backup)}, nil
}

// Rename updates only the label of a snapshot. Empty or whitespace-only
// labels and labels over the length limit are rejected; createdAt, trigger
// and payload are never touched.
func (s *SnapshotService) Rename(ctx context.Context, ownerID, snapshotID, newLabel string) (*models.SnapshotSummary, error) {
	if strings.TrimSpace(newLabel) == "" {
		return nil, fmt.Errorf("%w: label must not be empty", common.ErrorValidation)
	}
	if len([]rune(newLabel)) > common.LabelMaxLength {
		return nil, fmt.Errorf("%w: label exceeds %d characters", common.ErrorValidation, common.LabelMaxLength)
	}

	repo := s.repos.Snapshots(s.db)

	found, err := repo.UpdateLabel(ctx, ownerID, snapshotID, newLabel)
	if err != nil {
		return nil, fmt.Errorf("error renaming snapshot: %w", err)
	}
	if !found {
		return nil, common.ErrorNotFound
	}

	snap, err := repo.GetByID(ctx, ownerID, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("error loading renamed snapshot: %w", err)
	}
	return summaryOf(snap), nil
}

// Delete removes a snapshot. Deleting a missing or foreign-owned snapshot
// returns false without an error; the operation is idempotent for callers.
func (s *SnapshotService) Delete(ctx context.Context, ownerID, snapshotID string) (bool, error) {
	found, err := s.repos.Snapshots(s.db).Delete(ctx, ownerID, snapshotID)
	if err != nil {
		return false, fmt.Errorf("error deleting snapshot: %w", err)
	}
	return found, nil
}

func summaryOf(snap *models.Snapshot) *models.SnapshotSummary {
	return &models.SnapshotSummary{
		ID:        snap.ID,
		Trigger:   snap.Trigger,
		Label:     snap.Label,
		CreatedAt: snap.CreatedAt,
	}
}

func truncateLabel(label string) string {
	runes := []rune(label)
	if len(runes) > common.LabelMaxLength {
		return string(runes[:common.LabelMaxLength])
	}
	return label
}
