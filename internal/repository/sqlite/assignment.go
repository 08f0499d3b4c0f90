package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"log/slog"

	"github.com/garnizeh/gymtrack/pkg/models"
	"github.com/garnizeh/gymtrack/pkg/repository"
)

// AssignWorkout copies the template once per trainee. The whole batch runs in
// a single transaction with two-tier failure semantics: one trainee's failure
// is recorded and the loop continues, but the transaction only commits when at
// least one trainee succeeded. No instance is ever left without its exercises.
func (r *SQLiteRepo) AssignWorkout(ctx context.Context, templateID, trainerID int64, traineeIDs []int64) (*models.AssignmentResult, error) {
	if len(traineeIDs) == 0 {
		return nil, fmt.Errorf("no trainees given")
	}

	tx, err := r.conn.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	template, exercises, err := loadTemplate(ctx, tx, templateID)
	if err != nil {
		return nil, err
	}

	result := &models.AssignmentResult{}
	for _, traineeID := range traineeIDs {
		if err := r.assignToTrainee(ctx, tx, template, exercises, trainerID, traineeID); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("trainee %d: %v", traineeID, err))
			continue
		}
		result.Assigned++
	}

	if result.Assigned == 0 {
		// nothing succeeded; roll the batch back wholesale
		return result, nil
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	r.logger.Info("workout assigned",
		slog.Int64("template_id", templateID),
		slog.Int64("trainer_id", trainerID),
		slog.Int("assigned", result.Assigned),
		slog.Int("failed", len(result.Errors)),
	)

	return result, nil
}

func loadTemplate(ctx context.Context, tx *sql.Tx, templateID int64) (*models.Workout, []models.Exercise, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+workoutColumns+` FROM workouts WHERE id = ? AND active = 1`, templateID)
	template, err := scanWorkout(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, fmt.Errorf("template %d: %w", templateID, repository.ErrNotFound)
		}

		return nil, nil, err
	}

	rows, err := tx.QueryContext(ctx, `SELECT id, workout_id, name, sets, reps, position, active FROM exercises WHERE workout_id = ? AND active = 1 ORDER BY position`, templateID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var exercises []models.Exercise
	for rows.Next() {
		var e models.Exercise
		if err := rows.Scan(&e.ID, &e.WorkoutID, &e.Name, &e.Sets, &e.Reps, &e.Position, &e.Active); err != nil {
			return nil, nil, err
		}

		exercises = append(exercises, e)
	}

	return template, exercises, rows.Err()
}

// assignToTrainee performs the per-trainee copy: duplicate check, trainee role
// check, workout row copy, exercise row copies.
func (r *SQLiteRepo) assignToTrainee(ctx context.Context, tx *sql.Tx, template *models.Workout, exercises []models.Exercise, trainerID, traineeID int64) error {
	var role string
	row := tx.QueryRowContext(ctx, `SELECT role FROM users WHERE id = ?`, traineeID)
	if err := row.Scan(&role); err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("user %w", repository.ErrNotFound)
		}

		return err
	}
	if role != models.RoleMember {
		return fmt.Errorf("user is not a member: %w", repository.ErrValidation)
	}

	var count int
	row = tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM workouts WHERE source_id = ? AND assigned_to = ? AND active = 1`, template.ID, traineeID)
	if err := row.Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("already assigned: %w", repository.ErrDuplicate)
	}

	ts := now()
	res, err := tx.ExecContext(ctx, `INSERT INTO workouts (name, description, level, creator_id, assigned_by, assigned_to, source_id, progress, active, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		template.Name, template.Description, template.Level, template.CreatorID, trainerID, traineeID, template.ID, models.ProgressAssigned, ts, ts)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("already assigned: %w", repository.ErrDuplicate)
		}
		return fmt.Errorf("copy workout: %w", err)
	}
	instanceID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for _, e := range exercises {
		if _, err := tx.ExecContext(ctx, `INSERT INTO exercises (workout_id, name, sets, reps, position, active) VALUES (?, ?, ?, ?, ?, 1)`,
			instanceID, e.Name, e.Sets, e.Reps, e.Position); err != nil {
			return fmt.Errorf("copy exercise %q: %w", e.Name, err)
		}
	}

	return nil
}

// SaveWorkout deep-copies the template into a self-owned copy for the member.
// Saving an already-saved template is reported as ErrDuplicate so callers can
// treat it as an idempotent no-op.
func (r *SQLiteRepo) SaveWorkout(ctx context.Context, templateID, memberID int64) (int64, error) {
	tx, err := r.conn.BeginTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	template, exercises, err := loadTemplate(ctx, tx, templateID)
	if err != nil {
		return 0, err
	}

	var count int
	row := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM workouts WHERE source_id = ? AND creator_id = ? AND assigned_to IS NULL AND active = 1`, templateID, memberID)
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, fmt.Errorf("already saved: %w", repository.ErrDuplicate)
	}

	ts := now()
	res, err := tx.ExecContext(ctx, `INSERT INTO workouts (name, description, level, creator_id, assigned_by, assigned_to, source_id, progress, active, created, updated) VALUES (?, ?, ?, ?, NULL, NULL, ?, '', 1, ?, ?)`,
		template.Name, template.Description, template.Level, memberID, templateID, ts, ts)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("already saved: %w", repository.ErrDuplicate)
		}
		return 0, fmt.Errorf("copy workout: %w", err)
	}
	copyID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, e := range exercises {
		if _, err := tx.ExecContext(ctx, `INSERT INTO exercises (workout_id, name, sets, reps, position, active) VALUES (?, ?, ?, ?, ?, 1)`,
			copyID, e.Name, e.Sets, e.Reps, e.Position); err != nil {
			return 0, fmt.Errorf("copy exercise %q: %w", e.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	return copyID, nil
}

// UnsaveWorkout removes the member's self-owned copy of the template. The copy
// is never referenced elsewhere, so exercises go first, then the row itself.
func (r *SQLiteRepo) UnsaveWorkout(ctx context.Context, templateID, memberID int64) error {
	tx, err := r.conn.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var copyID int64
	row := tx.QueryRowContext(ctx, `SELECT id FROM workouts WHERE source_id = ? AND creator_id = ? AND assigned_to IS NULL AND active = 1`, templateID, memberID)
	if err := row.Scan(&copyID); err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("saved copy: %w", repository.ErrNotFound)
		}

		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM exercises WHERE workout_id = ?`, copyID); err != nil {
		return fmt.Errorf("delete exercises: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM workouts WHERE id = ?`, copyID); err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

// UpdateProgress sets the progress of an instance owned by the member. A
// missing instance and one assigned to someone else are reported identically,
// so existence is not leaked to unauthorized callers.
func (r *SQLiteRepo) UpdateProgress(ctx context.Context, instanceID, memberID int64, status string) error {
	if !models.ValidProgress(status) {
		return fmt.Errorf("invalid status %q: %w", status, repository.ErrValidation)
	}

	res, err := r.conn.Exec(ctx, `UPDATE workouts SET progress = ?, updated = ? WHERE id = ? AND assigned_to = ? AND active = 1`,
		status, now(), instanceID, memberID)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("workout not found or not assigned to this member: %w", repository.ErrNotFound)
	}

	return nil
}
