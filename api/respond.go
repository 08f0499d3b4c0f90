package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"

	"github.com/garnizeh/gymtrack/pkg/repository"
)

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", slog.Any("err", err))
	}
}

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func writeMessage(w http.ResponseWriter, message string, status int) {
	writeJSON(w, successResponse{Success: true, Message: message}, status)
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, errorResponse{Success: false, Message: message}, status)
}

// writeRepoError maps repository sentinel errors to HTTP statuses. Raw driver
// errors never reach the response body; they go to the server log only.
func writeRepoError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, repository.ErrOwnership):
		writeError(w, "permission denied", http.StatusForbidden)
	case errors.Is(err, repository.ErrDuplicate):
		writeError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, repository.ErrValidation):
		writeError(w, err.Error(), http.StatusBadRequest)
	default:
		logger.Error(fallback, slog.Any("err", err))
		writeError(w, fallback, http.StatusInternalServerError)
	}
}
