package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"log/slog"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/garnizeh/gymtrack/internal/audit"
	"github.com/garnizeh/gymtrack/pkg/models"
	"github.com/garnizeh/gymtrack/pkg/repository"
)

type UsersHandler struct {
	userRepo repository.UserRepo
	recorder Recorder
}

func NewUsersHandler(ur repository.UserRepo, recorder Recorder) *UsersHandler {
	return &UsersHandler{userRepo: ur, recorder: recorder}
}

type createUserRequest struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Contact  string `json:"contact"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

// CreateUser registers an account. Reachable by staff/admin only (route
// guard); a fresh QR identifier is issued on creation.
func (h *UsersHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}

	// collect missing fields, fail fast before any write
	var missing []string
	for field, value := range map[string]string{
		"username":  req.Username,
		"full_name": req.FullName,
		"email":     req.Email,
		"password":  req.Password,
	} {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		writeError(w, fmt.Sprintf("missing fields: %s", strings.Join(missing, ", ")), http.StatusBadRequest)
		return
	}
	if req.Role == "" {
		req.Role = models.RoleMember
	}
	if !models.ValidRole(req.Role) {
		writeError(w, fmt.Sprintf("invalid role %q", req.Role), http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("hash password", slog.Any("err", err))
		writeError(w, "failed to hash password", http.StatusInternalServerError)
		return
	}

	user := models.User{
		Username:     req.Username,
		FullName:     req.FullName,
		Email:        req.Email,
		Contact:      req.Contact,
		Role:         req.Role,
		PasswordHash: string(hash),
		QRCode:       uuid.NewString(),
	}

	id, err := h.userRepo.CreateUser(r.Context(), &user)
	if err != nil {
		writeRepoError(w, err, "failed to create user")
		return
	}
	user.ID = id

	if actor, ok := callerID(r); ok {
		h.recorder.Record(actor, audit.ActionUserCreate, fmt.Sprintf("created %s (%s)", user.Username, user.Role))
	}

	writeJSON(w, user, http.StatusCreated)
}

func (h *UsersHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	user, err := h.userRepo.GetByID(r.Context(), id)
	if err != nil {
		writeRepoError(w, err, "failed to get user")
		return
	}
	if user == nil {
		writeError(w, "user not found", http.StatusNotFound)
		return
	}

	writeJSON(w, user, http.StatusOK)
}

func (h *UsersHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	role := q.Get("role")
	if role == "" {
		writeError(w, "role is required", http.StatusBadRequest)
		return
	}
	if !models.ValidRole(role) {
		writeError(w, fmt.Sprintf("invalid role %q", role), http.StatusBadRequest)
		return
	}

	limit, offset := pagination(q.Get("limit"), q.Get("offset"))

	users, err := h.userRepo.ListByRole(r.Context(), role, limit, offset)
	if err != nil {
		writeRepoError(w, err, "failed to list users")
		return
	}
	if users == nil {
		users = []models.User{}
	}

	writeJSON(w, users, http.StatusOK)
}

type updateProfileRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Contact  string `json:"contact"`
}

// UpdateProfile changes profile fields. Members may update only themselves;
// staff and admin may update anyone.
func (h *UsersHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	actor, _ := callerID(r)
	role, _ := r.Context().Value(CtxRole).(string)
	if actor != id && role != models.RoleStaff && role != models.RoleAdmin {
		writeError(w, "permission denied", http.StatusForbidden)
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.FullName == "" || req.Email == "" {
		writeError(w, "full_name and email are required", http.StatusBadRequest)
		return
	}

	user := models.User{ID: id, FullName: req.FullName, Email: req.Email, Contact: req.Contact}
	if err := h.userRepo.UpdateProfile(r.Context(), &user); err != nil {
		writeRepoError(w, err, "failed to update profile")
		return
	}

	writeMessage(w, "profile updated", http.StatusOK)
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (h *UsersHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	actor, _ := callerID(r)
	if actor != id {
		writeError(w, "permission denied", http.StatusForbidden)
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.OldPassword == "" || len(req.NewPassword) < 8 {
		writeError(w, "old password and a new password of at least 8 characters are required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	user, err := h.userRepo.GetByID(ctx, id)
	if err != nil {
		writeRepoError(w, err, "failed to get user")
		return
	}
	if user == nil {
		writeError(w, "user not found", http.StatusNotFound)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)) != nil {
		writeError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("hash password", slog.Any("err", err))
		writeError(w, "failed to hash password", http.StatusInternalServerError)
		return
	}

	if err := h.userRepo.UpdatePassword(ctx, id, string(hash)); err != nil {
		writeRepoError(w, err, "failed to update password")
		return
	}

	h.recorder.Record(id, audit.ActionPasswordChange, "self-service")
	writeMessage(w, "password updated", http.StatusOK)
}

type extendMembershipRequest struct {
	Months int `json:"months"`
}

// ExtendMembership extends a member's expiry; staff/admin only (route guard).
func (h *UsersHandler) ExtendMembership(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req extendMembershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Months <= 0 || req.Months > 36 {
		writeError(w, "months must be between 1 and 36", http.StatusBadRequest)
		return
	}

	expiry, err := h.userRepo.ExtendMembership(r.Context(), id, req.Months)
	if err != nil {
		writeRepoError(w, err, "failed to extend membership")
		return
	}

	if actor, ok := callerID(r); ok {
		h.recorder.Record(actor, audit.ActionMembershipExtend, fmt.Sprintf("user %d extended by %d months", id, req.Months))
	}

	writeJSON(w, map[string]any{"success": true, "membership_expiry": expiry}, http.StatusOK)
}

// pathID parses a numeric {name} path variable, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	idStr := mux.Vars(r)[name]
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, fmt.Sprintf("invalid %s", name), http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func pagination(limitStr, offsetStr string) (int, int) {
	limit := 50
	if limitStr != "" {
		if v, err := strconv.Atoi(limitStr); err == nil && v > 0 && v <= 500 {
			limit = v
		}
	}
	offset := 0
	if offsetStr != "" {
		if v, err := strconv.Atoi(offsetStr); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}
