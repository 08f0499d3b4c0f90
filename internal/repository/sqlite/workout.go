package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/gymtrack/pkg/models"
	"github.com/garnizeh/gymtrack/pkg/repository"
)

const workoutColumns = `id, name, description, level, creator_id, assigned_by, assigned_to, source_id, progress, active, created, updated`

// CreateWorkout inserts the workout and its exercises in one transaction.
func (r *SQLiteRepo) CreateWorkout(ctx context.Context, w *models.Workout) (int64, error) {
	if w == nil {
		return 0, fmt.Errorf("workout is nil")
	}

	tx, err := r.conn.BeginTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	ts := now()
	res, err := tx.ExecContext(ctx, `INSERT INTO workouts (name, description, level, creator_id, assigned_by, assigned_to, source_id, progress, active, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		w.Name, w.Description, w.Level, w.CreatorID, w.AssignedBy, w.AssignedTo, w.SourceID, w.Progress, ts, ts)
	if err != nil {
		return 0, fmt.Errorf("insert workout: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if err := insertExercises(ctx, tx, id, w.Exercises); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	return id, nil
}

func insertExercises(ctx context.Context, tx *sql.Tx, workoutID int64, exercises []models.Exercise) error {
	for i, e := range exercises {
		if _, err := tx.ExecContext(ctx, `INSERT INTO exercises (workout_id, name, sets, reps, position, active) VALUES (?, ?, ?, ?, ?, 1)`,
			workoutID, e.Name, e.Sets, e.Reps, i); err != nil {
			return fmt.Errorf("insert exercise %q: %w", e.Name, err)
		}
	}

	return nil
}

// GetWorkout returns an active workout with its active exercises, or nil.
func (r *SQLiteRepo) GetWorkout(ctx context.Context, id int64) (*models.Workout, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+workoutColumns+` FROM workouts WHERE id = ? AND active = 1`, id)
	w, err := scanWorkout(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	exercises, err := r.listExercises(ctx, w.ID)
	if err != nil {
		return nil, err
	}
	w.Exercises = exercises

	return w, nil
}

func scanWorkout(scan func(dest ...any) error) (*models.Workout, error) {
	var w models.Workout
	var desc, level sql.NullString
	var assignedBy, assignedTo, sourceID sql.NullInt64
	if err := scan(&w.ID, &w.Name, &desc, &level, &w.CreatorID, &assignedBy, &assignedTo, &sourceID, &w.Progress, &w.Active, &w.Created, &w.Updated); err != nil {
		return nil, err
	}

	if desc.Valid {
		w.Description = desc.String
	}
	if level.Valid {
		w.Level = level.String
	}
	if assignedBy.Valid {
		w.AssignedBy = &assignedBy.Int64
	}
	if assignedTo.Valid {
		w.AssignedTo = &assignedTo.Int64
	}
	if sourceID.Valid {
		w.SourceID = &sourceID.Int64
	}

	return &w, nil
}

func (r *SQLiteRepo) listExercises(ctx context.Context, workoutID int64) ([]models.Exercise, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, workout_id, name, sets, reps, position, active FROM exercises WHERE workout_id = ? AND active = 1 ORDER BY position`, workoutID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Exercise
	for rows.Next() {
		var e models.Exercise
		if err := rows.Scan(&e.ID, &e.WorkoutID, &e.Name, &e.Sets, &e.Reps, &e.Position, &e.Active); err != nil {
			return nil, err
		}

		out = append(out, e)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) ListByCreator(ctx context.Context, creatorID int64) ([]models.Workout, error) {
	return r.listWorkouts(ctx, `SELECT `+workoutColumns+` FROM workouts WHERE creator_id = ? AND assigned_to IS NULL AND active = 1 ORDER BY created DESC`, creatorID)
}

func (r *SQLiteRepo) ListAssignedTo(ctx context.Context, memberID int64) ([]models.Workout, error) {
	return r.listWorkouts(ctx, `SELECT `+workoutColumns+` FROM workouts WHERE assigned_to = ? AND active = 1 ORDER BY created DESC`, memberID)
}

func (r *SQLiteRepo) ListAssignedBy(ctx context.Context, trainerID int64) ([]models.Workout, error) {
	return r.listWorkouts(ctx, `SELECT `+workoutColumns+` FROM workouts WHERE assigned_by = ? AND active = 1 ORDER BY created DESC`, trainerID)
}

func (r *SQLiteRepo) listWorkouts(ctx context.Context, query string, arg any) ([]models.Workout, error) {
	rows, err := r.conn.QueryRows(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Workout
	for rows.Next() {
		w, err := scanWorkout(rows.Scan)
		if err != nil {
			return nil, err
		}

		out = append(out, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// nested exercises, one query per workout
	for i := range out {
		exercises, err := r.listExercises(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Exercises = exercises
	}

	return out, nil
}

// UpdateWorkout updates the workout fields and replaces its exercise set
// wholesale in one transaction. Only the creator may update.
func (r *SQLiteRepo) UpdateWorkout(ctx context.Context, w *models.Workout, callerID int64) error {
	if w == nil {
		return fmt.Errorf("workout is nil")
	}

	tx, err := r.conn.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := checkOwnership(ctx, tx, w.ID, callerID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE workouts SET name = ?, description = ?, level = ?, updated = ? WHERE id = ?`,
		w.Name, w.Description, w.Level, now(), w.ID); err != nil {
		return fmt.Errorf("update workout: %w", err)
	}

	// old exercise rows go away with the template edit; copies keep theirs
	if _, err := tx.ExecContext(ctx, `DELETE FROM exercises WHERE workout_id = ?`, w.ID); err != nil {
		return fmt.Errorf("delete exercises: %w", err)
	}
	if err := insertExercises(ctx, tx, w.ID, w.Exercises); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

// DeleteWorkout soft-deletes the workout and its exercises. Only the creator
// may delete.
func (r *SQLiteRepo) DeleteWorkout(ctx context.Context, id, callerID int64) error {
	tx, err := r.conn.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := checkOwnership(ctx, tx, id, callerID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE workouts SET active = 0, updated = ? WHERE id = ?`, now(), id); err != nil {
		return fmt.Errorf("soft delete workout: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE exercises SET active = 0 WHERE workout_id = ?`, id); err != nil {
		return fmt.Errorf("soft delete exercises: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

func checkOwnership(ctx context.Context, tx *sql.Tx, workoutID, callerID int64) error {
	var creatorID int64
	row := tx.QueryRowContext(ctx, `SELECT creator_id FROM workouts WHERE id = ? AND active = 1`, workoutID)
	if err := row.Scan(&creatorID); err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("workout %d: %w", workoutID, repository.ErrNotFound)
		}

		return err
	}
	if creatorID != callerID {
		return fmt.Errorf("workout %d: %w", workoutID, repository.ErrOwnership)
	}

	return nil
}
