package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/garnizeh/gymtrack/internal/audit"
	"github.com/garnizeh/gymtrack/pkg/repository"
)

type assignRequest struct {
	AssignedBy int64   `json:"assigned_by"`
	TraineeIDs []int64 `json:"trainee_ids"`
}

type assignResponse struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message"`
	Assigned int      `json:"assigned"`
	Errors   []string `json:"errors,omitempty"`
}

// AssignWorkout copies the template to each trainee. Per-trainee failures are
// reported in the errors list; the whole batch fails only when no trainee
// succeeded.
func (h *WorkoutsHandler) AssignWorkout(w http.ResponseWriter, r *http.Request) {
	templateID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	body, msg, err := validateBody(r.Context(), r, "assign")
	if err != nil {
		writeRepoError(w, err, "failed to read request")
		return
	}
	if msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return
	}

	var req assignRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}

	result, err := h.workoutRepo.AssignWorkout(r.Context(), templateID, req.AssignedBy, req.TraineeIDs)
	if err != nil {
		writeRepoError(w, err, "failed to assign workout")
		return
	}

	resp := assignResponse{Assigned: result.Assigned, Errors: result.Errors}
	switch {
	case result.Assigned == 0:
		resp.Message = "no trainees were assigned"
		writeJSON(w, resp, http.StatusConflict)
		return
	case len(result.Errors) > 0:
		resp.Success = true
		resp.Message = fmt.Sprintf("assigned to %d of %d trainees", result.Assigned, len(req.TraineeIDs))
	default:
		resp.Success = true
		resp.Message = fmt.Sprintf("assigned to %d trainees", result.Assigned)
	}

	h.recorder.Record(req.AssignedBy, audit.ActionWorkoutAssign,
		fmt.Sprintf("workout %d assigned to %d trainees", templateID, result.Assigned))

	writeJSON(w, resp, http.StatusOK)
}

type saveRequest struct {
	MemberID int64  `json:"member_id"`
	Action   string `json:"action"`
}

// SaveOrUnsaveWorkout creates or removes a member's self-owned copy of the
// template. Re-saving is an idempotent no-op.
func (h *WorkoutsHandler) SaveOrUnsaveWorkout(w http.ResponseWriter, r *http.Request) {
	templateID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	body, msg, err := validateBody(r.Context(), r, "save")
	if err != nil {
		writeRepoError(w, err, "failed to read request")
		return
	}
	if msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return
	}

	var req saveRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}

	switch req.Action {
	case "save":
		if _, err := h.workoutRepo.SaveWorkout(r.Context(), templateID, req.MemberID); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				writeMessage(w, "already saved", http.StatusOK)
				return
			}
			writeRepoError(w, err, "failed to save workout")
			return
		}
		writeMessage(w, "workout saved", http.StatusOK)
	case "unsave":
		if err := h.workoutRepo.UnsaveWorkout(r.Context(), templateID, req.MemberID); err != nil {
			writeRepoError(w, err, "failed to unsave workout")
			return
		}
		writeMessage(w, "workout unsaved", http.StatusOK)
	default:
		writeError(w, fmt.Sprintf("unknown action %q", req.Action), http.StatusBadRequest)
	}
}

type progressRequest struct {
	MemberID int64  `json:"member_id"`
	Status   string `json:"status"`
}

func (h *WorkoutsHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	instanceID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	body, msg, err := validateBody(r.Context(), r, "progress")
	if err != nil {
		writeRepoError(w, err, "failed to read request")
		return
	}
	if msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return
	}

	var req progressRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := h.workoutRepo.UpdateProgress(r.Context(), instanceID, req.MemberID, req.Status); err != nil {
		writeRepoError(w, err, "failed to update progress")
		return
	}

	writeMessage(w, "progress updated", http.StatusOK)
}
