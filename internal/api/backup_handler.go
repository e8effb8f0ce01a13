package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/hrtrack/hrtrack-api/internal/api/shared"
	"github.com/hrtrack/hrtrack-api/internal/domain"
	"github.com/hrtrack/hrtrack-api/internal/service"
)

// BackupHandler serves /api/backups. Envelopes pass through untouched.
type BackupHandler struct {
	backups service.BackupService
	logger  *slog.Logger
}

// NewBackupHandler creates a new BackupHandler.
func NewBackupHandler(backups service.BackupService, logger *slog.Logger) *BackupHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for BackupHandler")
	}
	return &BackupHandler{
		backups: backups,
		logger:  logger.With(slog.String("component", "backup_handler")),
	}
}

// PushBackup handles POST /api/backups. The body is the envelope itself.
func (h *BackupHandler) PushBackup(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	body, err := shared.ReadBody(r)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	backup, err := h.backups.Push(r.Context(), userID, json.RawMessage(body))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to store backup")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, summarize(backup))
}

// ListBackups handles GET /api/backups.
func (h *BackupHandler) ListBackups(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	backups, err := h.backups.List(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list backups")
		return
	}

	out := make([]BackupSummary, 0, len(backups))
	for i := range backups {
		out = append(out, summarize(&backups[i]))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, out)
}

// LatestBackup handles GET /api/backups/latest and returns the newest
// envelope as stored.
func (h *BackupHandler) LatestBackup(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	backup, err := h.backups.Latest(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load backup")
		return
	}
	h.writeEnvelope(w, r, backup)
}

// GetBackup handles GET /api/backups/{id}.
func (h *BackupHandler) GetBackup(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	backup, err := h.backups.Get(r.Context(), userID, id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load backup")
		return
	}
	h.writeEnvelope(w, r, backup)
}

// DeleteBackup handles DELETE /api/backups/{id}.
func (h *BackupHandler) DeleteBackup(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.backups.Delete(r.Context(), userID, id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete backup")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BackupHandler) writeEnvelope(w http.ResponseWriter, r *http.Request, backup *domain.Backup) {
	w.Header().Set("X-Backup-ID", backup.ID.String())
	w.Header().Set("X-Backup-Created-At", backup.CreatedAt.UTC().Format(time.RFC3339))
	shared.RespondWithBytes(w, r, "application/json", "", backup.Envelope)
}

func summarize(b *domain.Backup) BackupSummary {
	return BackupSummary{
		ID:        b.ID,
		SizeBytes: b.SizeBytes,
		CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339),
	}
}
