package api

import (
	"net/http"

	"github.com/garnizeh/gymtrack/pkg/models"
	"github.com/garnizeh/gymtrack/pkg/repository"
)

type LogsHandler struct {
	logRepo repository.LogRepo
}

func NewLogsHandler(lr repository.LogRepo) *LogsHandler {
	return &LogsHandler{logRepo: lr}
}

// ListLogs returns the audit trail, newest first. Staff/admin only (route
// guard).
func (h *LogsHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, offset := pagination(q.Get("limit"), q.Get("offset"))

	logs, err := h.logRepo.ListLogs(r.Context(), limit, offset)
	if err != nil {
		writeRepoError(w, err, "failed to list logs")
		return
	}

	total, err := h.logRepo.CountLogs(r.Context())
	if err != nil {
		writeRepoError(w, err, "failed to count logs")
		return
	}

	if logs == nil {
		logs = []models.LogEntry{}
	}

	resp := map[string]any{
		"total":  total,
		"limit":  limit,
		"offset": offset,
		"items":  logs,
	}

	writeJSON(w, resp, http.StatusOK)
}
