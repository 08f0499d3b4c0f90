package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/garnizeh/gymtrack/pkg/models"
	"github.com/garnizeh/gymtrack/pkg/repository"
)

type FeedbackHandler struct {
	feedbackRepo repository.FeedbackRepo
}

func NewFeedbackHandler(fr repository.FeedbackRepo) *FeedbackHandler {
	return &FeedbackHandler{feedbackRepo: fr}
}

type feedbackRequest struct {
	UserID    int64  `json:"user_id"`
	Body      string `json:"feedback"`
	Rating    *int   `json:"rating,omitempty"`
	WorkoutID *int64 `json:"workout_id,omitempty"`
	TrainerID *int64 `json:"trainer_id,omitempty"`
}

// SubmitFeedback stores feedback; a second submit for the same workout by the
// same user updates the previous row instead of inserting another.
func (h *FeedbackHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	body, msg, err := validateBody(r.Context(), r, "feedback")
	if err != nil {
		writeRepoError(w, err, "failed to read request")
		return
	}
	if msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return
	}

	var req feedbackRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}

	f := models.Feedback{
		UserID:    req.UserID,
		Body:      req.Body,
		Rating:    req.Rating,
		WorkoutID: req.WorkoutID,
		TrainerID: req.TrainerID,
	}

	id, err := h.feedbackRepo.SubmitFeedback(r.Context(), &f)
	if err != nil {
		writeRepoError(w, err, "failed to submit feedback")
		return
	}

	writeJSON(w, map[string]any{"success": true, "id": id, "message": "feedback recorded"}, http.StatusOK)
}

// ListFeedback serves the workout/trainer/user views; exactly one of the
// query parameters selects the view.
func (h *FeedbackHandler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		feedback []models.Feedback
		err      error
	)
	switch {
	case q.Get("workout_id") != "":
		var id int64
		if id, err = strconv.ParseInt(q.Get("workout_id"), 10, 64); err == nil {
			feedback, err = h.feedbackRepo.ListFeedbackByWorkout(r.Context(), id)
		}
	case q.Get("trainer_id") != "":
		var id int64
		if id, err = strconv.ParseInt(q.Get("trainer_id"), 10, 64); err == nil {
			feedback, err = h.feedbackRepo.ListFeedbackByTrainer(r.Context(), id)
		}
	case q.Get("user_id") != "":
		var id int64
		if id, err = strconv.ParseInt(q.Get("user_id"), 10, 64); err == nil {
			feedback, err = h.feedbackRepo.ListFeedbackByUser(r.Context(), id)
		}
	default:
		writeError(w, "one of workout_id, trainer_id or user_id is required", http.StatusBadRequest)
		return
	}
	if err != nil {
		writeRepoError(w, err, "failed to list feedback")
		return
	}
	if feedback == nil {
		feedback = []models.Feedback{}
	}

	writeJSON(w, feedback, http.StatusOK)
}
