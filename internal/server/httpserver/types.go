package httpserver

import (
	"encoding/json"
	"time"

	"github.com/mvoronova/journeykeeper/internal/server/models"
)

// The journey state is opaque to the recovery core; json.RawMessage keeps it
// unparsed on the way through.

type createSnapshotRequest struct {
	Trigger     string          `json:"trigger,omitempty"`
	Label       string          `json:"label,omitempty"`
	ClientState json.RawMessage `json:"client_state,omitempty"`
}

type renameSnapshotRequest struct {
	Label string `json:"label"`
}

type importRequest struct {
	State       json.RawMessage `json:"state"`
	ClientState json.RawMessage `json:"client_state,omitempty"`
}

type bulkDeleteRequest struct {
	Kind string `json:"kind"`
}

type snapshotSummaryResponse struct {
	ID        string    `json:"id"`
	Trigger   string    `json:"trigger"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
}

type restoreSnapshotResponse struct {
	BackupSnapshot snapshotSummaryResponse `json:"backup_snapshot"`
}

type importResponse struct {
	BackupSnapshot snapshotSummaryResponse `json:"backup_snapshot"`
}

type bulkDeleteResponse struct {
	Deleted        int64                   `json:"deleted"`
	BackupSnapshot snapshotSummaryResponse `json:"backup_snapshot"`
}

type deletedRecordResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Label     string    `json:"label"`
	Detail    string    `json:"detail,omitempty"`
	DeletedAt time.Time `json:"deleted_at"`
	DaysLeft  int       `json:"days_left"`
}

type restoredRecordResponse struct {
	ID     string `json:"id"`
	Kind   string `json:"kind"`
	Label  string `json:"label"`
	Detail string `json:"detail,omitempty"`
}

type foundResponse struct {
	Found bool `json:"found"`
}

func toSummaryResponse(s *models.SnapshotSummary) snapshotSummaryResponse {
	return snapshotSummaryResponse{
		ID:        s.ID,
		Trigger:   s.Trigger,
		Label:     s.Label,
		CreatedAt: s.CreatedAt,
	}
}
