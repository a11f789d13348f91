package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mvoronova/journeykeeper/internal/common"
	"github.com/mvoronova/journeykeeper/internal/dbx"
	"github.com/mvoronova/journeykeeper/internal/logging"
	"github.com/mvoronova/journeykeeper/internal/server/models"
	"github.com/mvoronova/journeykeeper/internal/server/repositories/repomanager"
)

// JourneyService covers the document-level risky operation owned by the
// recovery core: importing an externally supplied state, always preceded by
// an automatic pre_import snapshot.
type JourneyService struct {
	db        *sql.DB
	repos     repomanager.RepositoryManager
	snapshots *SnapshotService
	logger    logging.Logger
}

func NewJourneyService(db *sql.DB, repos repomanager.RepositoryManager, snapshots *SnapshotService, logger logging.Logger) *JourneyService {
	return &JourneyService{
		db:        db,
		repos:     repos,
		snapshots: snapshots,
		logger:    logger.With("module", "journey_service"),
	}
}

// ImportResult identifies the pre_import backup taken before the overwrite.
type ImportResult struct {
	Backup *models.SnapshotSummary
}

// ImportState overwrites the live journey with the supplied state blob.
// The current state is captured into a pre_import snapshot inside the same
// transaction, so a bad import is always recoverable.
func (s *JourneyService) ImportState(ctx context.Context, ownerID string, state, clientState []byte) (*ImportResult, error) {
	if len(state) == 0 {
		return nil, fmt.Errorf("%w: imported state must not be empty", common.ErrorValidation)
	}

	backup, err := s.snapshots.RunProtected(ctx, ownerID, models.TriggerPreImport, nil,
		func(ctx context.Context, tx dbx.DBTX) error {
			return s.repos.Journeys(tx).SetState(ctx, ownerID, state, clientState)
		})
	if err != nil {
		return nil, fmt.Errorf("error importing state: %w", err)
	}

	s.logger.Info(ctx, "journey state imported", "owner", ownerID, "backup", backup.ID)
	return &ImportResult{Backup: summaryOf(backup)}, nil
}
