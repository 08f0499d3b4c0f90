package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/garnizeh/gymtrack/pkg/models"
	"github.com/garnizeh/gymtrack/pkg/repository"
)

type WorkoutsHandler struct {
	workoutRepo repository.WorkoutRepo
	recorder    Recorder
}

func NewWorkoutsHandler(wr repository.WorkoutRepo, recorder Recorder) *WorkoutsHandler {
	return &WorkoutsHandler{workoutRepo: wr, recorder: recorder}
}

type exercisePayload struct {
	Name string `json:"name"`
	Sets int    `json:"sets"`
	Reps int    `json:"reps"`
}

type workoutPayload struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Level       string            `json:"level"`
	Exercises   []exercisePayload `json:"exercises"`
}

// validateExercises rejects the payload wholesale on the first violation.
func validateExercises(exercises []exercisePayload) string {
	for i, e := range exercises {
		if strings.TrimSpace(e.Name) == "" {
			return fmt.Sprintf("exercise %d: name is required", i+1)
		}
		if e.Sets <= 0 || e.Reps <= 0 {
			return fmt.Sprintf("exercise %q: sets and reps must be positive", e.Name)
		}
	}
	return ""
}

func toModelExercises(exercises []exercisePayload) []models.Exercise {
	out := make([]models.Exercise, 0, len(exercises))
	for _, e := range exercises {
		out = append(out, models.Exercise{Name: e.Name, Sets: e.Sets, Reps: e.Reps})
	}
	return out
}

func (h *WorkoutsHandler) CreateWorkout(w http.ResponseWriter, r *http.Request) {
	actor, ok := callerID(r)
	if !ok {
		writeError(w, "missing identity", http.StatusUnauthorized)
		return
	}

	var req workoutPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, "name is required", http.StatusBadRequest)
		return
	}
	if msg := validateExercises(req.Exercises); msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return
	}

	workout := models.Workout{
		Name:        req.Name,
		Description: req.Description,
		Level:       req.Level,
		CreatorID:   actor,
		Exercises:   toModelExercises(req.Exercises),
	}

	id, err := h.workoutRepo.CreateWorkout(r.Context(), &workout)
	if err != nil {
		writeRepoError(w, err, "failed to create workout")
		return
	}

	writeJSON(w, map[string]any{"success": true, "id": id}, http.StatusCreated)
}

func (h *WorkoutsHandler) GetWorkout(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	workout, err := h.workoutRepo.GetWorkout(r.Context(), id)
	if err != nil {
		writeRepoError(w, err, "failed to get workout")
		return
	}
	if workout == nil {
		writeError(w, "workout not found", http.StatusNotFound)
		return
	}

	writeJSON(w, workout, http.StatusOK)
}

// ListWorkouts serves the creator/member/trainer views; exactly one of the
// query parameters selects the view.
func (h *WorkoutsHandler) ListWorkouts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		workouts []models.Workout
		err      error
	)
	switch {
	case q.Get("creator_id") != "":
		var id int64
		if id, err = strconv.ParseInt(q.Get("creator_id"), 10, 64); err == nil {
			workouts, err = h.workoutRepo.ListByCreator(r.Context(), id)
		}
	case q.Get("member_id") != "":
		var id int64
		if id, err = strconv.ParseInt(q.Get("member_id"), 10, 64); err == nil {
			workouts, err = h.workoutRepo.ListAssignedTo(r.Context(), id)
		}
	case q.Get("trainer_id") != "":
		var id int64
		if id, err = strconv.ParseInt(q.Get("trainer_id"), 10, 64); err == nil {
			workouts, err = h.workoutRepo.ListAssignedBy(r.Context(), id)
		}
	default:
		writeError(w, "one of creator_id, member_id or trainer_id is required", http.StatusBadRequest)
		return
	}
	if err != nil {
		writeRepoError(w, err, "failed to list workouts")
		return
	}
	if workouts == nil {
		workouts = []models.Workout{}
	}

	writeJSON(w, workouts, http.StatusOK)
}

func (h *WorkoutsHandler) UpdateWorkout(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	actor, ok := callerID(r)
	if !ok {
		writeError(w, "missing identity", http.StatusUnauthorized)
		return
	}

	var req workoutPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, "name is required", http.StatusBadRequest)
		return
	}
	if msg := validateExercises(req.Exercises); msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return
	}

	workout := models.Workout{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Level:       req.Level,
		Exercises:   toModelExercises(req.Exercises),
	}

	if err := h.workoutRepo.UpdateWorkout(r.Context(), &workout, actor); err != nil {
		writeRepoError(w, err, "failed to update workout")
		return
	}

	writeMessage(w, "workout updated", http.StatusOK)
}

func (h *WorkoutsHandler) DeleteWorkout(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	actor, ok := callerID(r)
	if !ok {
		writeError(w, "missing identity", http.StatusUnauthorized)
		return
	}

	if err := h.workoutRepo.DeleteWorkout(r.Context(), id, actor); err != nil {
		writeRepoError(w, err, "failed to delete workout")
		return
	}

	writeMessage(w, "workout deleted", http.StatusOK)
}
