package api

import (
	"encoding/json"
	"net/http"
	"time"

	"log/slog"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/garnizeh/gymtrack/internal/audit"
	"github.com/garnizeh/gymtrack/internal/mail"
	"github.com/garnizeh/gymtrack/pkg/repository"
)

// Recorder is the audit hook handlers use; satisfied by audit.Recorder.
type Recorder interface {
	Record(userID int64, action, info string)
}

const resetTokenDuration = 1 * time.Hour

type AuthHandler struct {
	userRepo      repository.UserRepo
	resetRepo     repository.ResetRepo
	mailer        mail.Sender
	recorder      Recorder
	jwtSecret     string
	tokenDuration time.Duration
	resetBaseURL  string
}

func NewAuthHandler(ur repository.UserRepo, rr repository.ResetRepo, mailer mail.Sender, recorder Recorder, jwtSecret string, tokenDuration time.Duration, resetBaseURL string) *AuthHandler {
	return &AuthHandler{
		userRepo:      ur,
		resetRepo:     rr,
		mailer:        mailer,
		recorder:      recorder,
		jwtSecret:     jwtSecret,
		tokenDuration: tokenDuration,
		resetBaseURL:  resetBaseURL,
	}
}

type signinRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	UserID  int64  `json:"user_id"`
	Role    string `json:"role"`
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if (req.Username == "" && req.Email == "") || req.Password == "" {
		writeError(w, "missing fields", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	var user, err = h.userRepo.GetByUsername(ctx, req.Username)
	if err == nil && user == nil && req.Email != "" {
		user, err = h.userRepo.GetByEmail(ctx, req.Email)
	}
	if err != nil {
		writeRepoError(w, err, "failed to look up user")
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		// uniform message for unknown account and wrong password
		writeError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(h.tokenDuration).Unix(),
	})
	tokenStr, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		logger.Error("sign token", slog.Any("err", err))
		writeError(w, "failed to sign token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, authResponse{Success: true, Token: tokenStr, UserID: user.ID, Role: user.Role}, http.StatusOK)
}

func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	// For stateless JWT, signout is client-side (just delete token)
	writeMessage(w, "signed out", http.StatusOK)
}

type resetRequestPayload struct {
	Email string `json:"email"`
}

// ResetRequest creates a single-use reset token and mails the link. The
// response is identical whether or not the account exists.
func (h *AuthHandler) ResetRequest(w http.ResponseWriter, r *http.Request) {
	var req resetRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Email == "" {
		writeError(w, "email is required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	user, err := h.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		writeRepoError(w, err, "failed to look up user")
		return
	}
	if user != nil {
		token := uuid.NewString()
		expires := time.Now().UTC().Add(resetTokenDuration).UnixMilli()
		if _, err := h.resetRepo.CreateReset(ctx, user.ID, token, expires); err != nil {
			writeRepoError(w, err, "failed to create reset token")
			return
		}

		resetURL := h.resetBaseURL + "?token=" + token
		if err := h.mailer.SendPasswordReset(ctx, user.Email, user.FullName, resetURL); err != nil {
			// token already stored; delivery failure is logged by the sender
			logger.Warn("reset mail not delivered", slog.Int64("user_id", user.ID))
		}
		h.recorder.Record(user.ID, audit.ActionPasswordReset, "reset requested")
	}

	writeMessage(w, "if the account exists, a reset link has been sent", http.StatusOK)
}

type resetConfirmPayload struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (h *AuthHandler) ResetConfirm(w http.ResponseWriter, r *http.Request) {
	var req resetConfirmPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.Token == "" || len(req.Password) < 8 {
		writeError(w, "token and a password of at least 8 characters are required", http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("hash password", slog.Any("err", err))
		writeError(w, "failed to hash password", http.StatusInternalServerError)
		return
	}

	if err := h.resetRepo.ResetPassword(r.Context(), req.Token, string(hash)); err != nil {
		writeRepoError(w, err, "failed to reset password")
		return
	}

	writeMessage(w, "password updated", http.StatusOK)
}
