package api

import (
	"encoding/json"
	"net/http"

	"github.com/garnizeh/gymtrack/pkg/models"
	"github.com/garnizeh/gymtrack/pkg/repository"
)

type TrainersHandler struct {
	trainerRepo repository.TrainerRepo
}

func NewTrainersHandler(tr repository.TrainerRepo) *TrainersHandler {
	return &TrainersHandler{trainerRepo: tr}
}

type assignMemberRequest struct {
	MemberID int64 `json:"member_id"`
}

// AssignMember links a member to the trainer. A member may have at most one
// trainer.
func (h *TrainersHandler) AssignMember(w http.ResponseWriter, r *http.Request) {
	trainerID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req assignMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.MemberID <= 0 {
		writeError(w, "member_id is required", http.StatusBadRequest)
		return
	}

	if _, err := h.trainerRepo.AssignMember(r.Context(), trainerID, req.MemberID); err != nil {
		writeRepoError(w, err, "failed to assign member")
		return
	}

	writeMessage(w, "member assigned", http.StatusCreated)
}

func (h *TrainersHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	trainerID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	members, err := h.trainerRepo.ListMembers(r.Context(), trainerID)
	if err != nil {
		writeRepoError(w, err, "failed to list members")
		return
	}
	if members == nil {
		members = []models.User{}
	}

	writeJSON(w, members, http.StatusOK)
}

func (h *TrainersHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	trainerID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	memberID, ok := pathID(w, r, "memberID")
	if !ok {
		return
	}

	if err := h.trainerRepo.RemoveMember(r.Context(), trainerID, memberID); err != nil {
		writeRepoError(w, err, "failed to remove member")
		return
	}

	writeMessage(w, "member removed", http.StatusOK)
}
