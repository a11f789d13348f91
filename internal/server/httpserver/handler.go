package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mvoronova/journeykeeper/internal/common"
	"github.com/mvoronova/journeykeeper/internal/server/models"
)

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *HTTPServer) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerFromContext(r.Context())

	summaries, err := s.snapshots.List(r.Context(), ownerID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result := make([]snapshotSummaryResponse, 0, len(summaries))
	for _, sum := range summaries {
		result = append(result, toSummaryResponse(sum))
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *HTTPServer) handleCreateSnapshot(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerFromContext(r.Context())

	var req createSnapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Trigger == "" {
		req.Trigger = models.TriggerManual
	}

	snap, err := s.snapshots.Create(r.Context(), ownerID, req.Trigger, req.Label, req.ClientState)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, snapshotSummaryResponse{
		ID:        snap.ID,
		Trigger:   snap.Trigger,
		Label:     snap.Label,
		CreatedAt: snap.CreatedAt,
	})
}

func (s *HTTPServer) handleRestoreSnapshot(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerFromContext(r.Context())

	result, err := s.snapshots.Restore(r.Context(), ownerID, ownerID, r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, restoreSnapshotResponse{
		BackupSnapshot: toSummaryResponse(result.Backup),
	})
}

func (s *HTTPServer) handleRenameSnapshot(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerFromContext(r.Context())

	var req renameSnapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	sum, err := s.snapshots.Rename(r.Context(), ownerID, r.PathValue("id"), req.Label)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toSummaryResponse(sum))
}

func (s *HTTPServer) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerFromContext(r.Context())

	found, err := s.snapshots.Delete(r.Context(), ownerID, r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, foundResponse{Found: found})
}

func (s *HTTPServer) handleListDeleted(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerFromContext(r.Context())
	kind := models.RecoverableKind(r.PathValue("kind"))

	records, err := s.recycleBin.ListDeleted(r.Context(), ownerID, kind)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result := make([]deletedRecordResponse, 0, len(records))
	for _, rec := range records {
		result = append(result, deletedRecordResponse{
			ID:        rec.ID,
			Kind:      string(rec.Kind),
			Label:     rec.Label,
			Detail:    rec.Detail,
			DeletedAt: *rec.DeletedAt,
			DaysLeft:  rec.DaysLeft,
		})
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *HTTPServer) handleRestoreDeleted(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerFromContext(r.Context())
	kind := models.RecoverableKind(r.PathValue("kind"))

	rec, err := s.recycleBin.Restore(r.Context(), ownerID, kind, r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, restoredRecordResponse{
		ID:     rec.ID,
		Kind:   string(rec.Kind),
		Label:  rec.Label,
		Detail: rec.Detail,
	})
}

func (s *HTTPServer) handlePurgeDeleted(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerFromContext(r.Context())
	kind := models.RecoverableKind(r.PathValue("kind"))

	found, err := s.recycleBin.PurgeOne(r.Context(), ownerID, kind, r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, foundResponse{Found: found})
}

func (s *HTTPServer) handleImport(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerFromContext(r.Context())

	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := s.journeys.ImportState(r.Context(), ownerID, req.State, req.ClientState)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, importResponse{
		BackupSnapshot: toSummaryResponse(result.Backup),
	})
}

func (s *HTTPServer) handleBulkDelete(w http.ResponseWriter, r *http.Request) {
	ownerID := ownerFromContext(r.Context())

	var req bulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := s.recycleBin.BulkDelete(r.Context(), ownerID, models.RecoverableKind(req.Kind))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, bulkDeleteResponse{
		Deleted:        result.Deleted,
		BackupSnapshot: toSummaryResponse(result.Backup),
	})
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(context.Background(), "failed to encode response", "error", err)
	}
}

// writeError maps service errors to HTTP statuses. NotFound covers both
// missing and foreign-owned records, so the response never reveals whether a
// record exists under another profile.
func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, common.ErrorValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		s.logger.Error(r.Context(), "internal error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
