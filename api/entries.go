package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/garnizeh/gymtrack/internal/audit"
	"github.com/garnizeh/gymtrack/pkg/models"
	"github.com/garnizeh/gymtrack/pkg/repository"
)

type EntriesHandler struct {
	userRepo  repository.UserRepo
	entryRepo repository.EntryRepo
	recorder  Recorder
}

func NewEntriesHandler(ur repository.UserRepo, er repository.EntryRepo, recorder Recorder) *EntriesHandler {
	return &EntriesHandler{userRepo: ur, entryRepo: er, recorder: recorder}
}

type validateResponse struct {
	UserExists        bool         `json:"userExists"`
	AlreadyEntered    bool         `json:"alreadyEntered"`
	MembershipExpired bool         `json:"membershipExpired,omitempty"`
	User              *models.User `json:"user,omitempty"`
}

// ValidateQR checks a scanned code at the front desk without logging an entry.
func (h *EntriesHandler) ValidateQR(w http.ResponseWriter, r *http.Request) {
	qrCode := r.URL.Query().Get("qr_code")
	if qrCode == "" {
		writeError(w, "qr_code is required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	user, err := h.userRepo.GetByQRCode(ctx, qrCode)
	if err != nil {
		writeRepoError(w, err, "failed to look up user")
		return
	}
	if user == nil {
		writeJSON(w, validateResponse{}, http.StatusOK)
		return
	}

	entered, err := h.entryRepo.HasEnteredToday(ctx, user.ID)
	if err != nil {
		writeRepoError(w, err, "failed to check entries")
		return
	}

	resp := validateResponse{UserExists: true, AlreadyEntered: entered, User: user}
	if user.MembershipExpiry != nil && time.UnixMilli(*user.MembershipExpiry).Before(time.Now()) {
		resp.MembershipExpired = true
	}

	writeJSON(w, resp, http.StatusOK)
}

type logEntryRequest struct {
	QRCode string `json:"qr_code"`
	UserID int64  `json:"user_id"`
}

// LogEntry records today's gym entry for the scanned user. One entry per user
// per day.
func (h *EntriesHandler) LogEntry(w http.ResponseWriter, r *http.Request) {
	var req logEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.QRCode == "" && req.UserID <= 0 {
		writeError(w, "qr_code or user_id is required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	var (
		user *models.User
		err  error
	)
	if req.QRCode != "" {
		user, err = h.userRepo.GetByQRCode(ctx, req.QRCode)
	} else {
		user, err = h.userRepo.GetByID(ctx, req.UserID)
	}
	if err != nil {
		writeRepoError(w, err, "failed to look up user")
		return
	}
	if user == nil {
		writeError(w, "user not found", http.StatusNotFound)
		return
	}

	entry, err := h.entryRepo.LogEntry(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			writeJSON(w, map[string]any{"success": false, "message": "already entered today", "alreadyEntered": true}, http.StatusConflict)
			return
		}
		writeRepoError(w, err, "failed to log entry")
		return
	}

	h.recorder.Record(user.ID, audit.ActionEntry, "entered the gym")
	writeJSON(w, map[string]any{"success": true, "entry": entry, "user": user}, http.StatusCreated)
}

func (h *EntriesHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userStr := q.Get("user_id")
	if userStr == "" {
		writeError(w, "user_id is required", http.StatusBadRequest)
		return
	}
	userID, err := strconv.ParseInt(userStr, 10, 64)
	if err != nil || userID <= 0 {
		writeError(w, "invalid user_id", http.StatusBadRequest)
		return
	}

	limit, offset := pagination(q.Get("limit"), q.Get("offset"))

	entries, err := h.entryRepo.ListEntries(r.Context(), userID, limit, offset)
	if err != nil {
		writeRepoError(w, err, "failed to list entries")
		return
	}
	if entries == nil {
		entries = []models.GymEntry{}
	}

	writeJSON(w, entries, http.StatusOK)
}
