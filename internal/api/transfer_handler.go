package api

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/hrtrack/hrtrack-api/internal/api/shared"
	"github.com/hrtrack/hrtrack-api/internal/service"
)

// Content type of XLSX workbooks.
const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// TransferHandler serves export and import.
type TransferHandler struct {
	transfer service.TransferService
	now      func() time.Time
	logger   *slog.Logger
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transfer service.TransferService, logger *slog.Logger) *TransferHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TransferHandler")
	}
	return &TransferHandler{
		transfer: transfer,
		now:      time.Now,
		logger:   logger.With(slog.String("component", "transfer_handler")),
	}
}

// Export handles POST /api/export. An empty body exports unencrypted.
func (h *TransferHandler) Export(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req ExportRequest
	if err := shared.DecodeJSON(r, &req); err != nil && !errors.Is(err, shared.ErrEmptyBody) {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	data, err := h.transfer.Export(r.Context(), userID, req.Passphrase)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to export data")
		return
	}
	shared.RespondWithBytes(w, r, "application/json", h.filename("json"), data)
}

// ExportWorkbook handles GET /api/export.xlsx.
func (h *TransferHandler) ExportWorkbook(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.transfer.ExportWorkbook(r.Context(), userID, &buf); err != nil {
		HandleAPIError(w, r, err, "Failed to export workbook")
		return
	}
	shared.RespondWithBytes(w, r, xlsxContentType, h.filename("xlsx"), buf.Bytes())
}

// Import handles POST /api/import. The user's doses and labs are replaced.
func (h *TransferHandler) Import(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req ImportRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.transfer.Import(r.Context(), userID, req.Data, req.Passphrase)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to import data")
		return
	}

	requestLogger(r, h.logger).Info("import completed",
		"accepted_events", result.AcceptedEvents,
		"rejected_events", result.RejectedEvents,
		"accepted_labs", result.AcceptedLabs,
		"rejected_labs", result.RejectedLabs)

	shared.RespondWithJSON(w, r, http.StatusOK, ImportResponse{
		ImportResult: *result,
		WeightKG:     result.Payload.WeightKG,
	})
}

func (h *TransferHandler) filename(ext string) string {
	return "hrtrack-" + h.now().UTC().Format("20060102") + "." + ext
}
