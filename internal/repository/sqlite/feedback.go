package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/gymtrack/pkg/models"
)

// SubmitFeedback stores feedback. Workout feedback upserts on the
// (workout_id, user_id) pair: a second submit updates the existing row instead
// of inserting another. General and trainer feedback always inserts.
func (r *SQLiteRepo) SubmitFeedback(ctx context.Context, f *models.Feedback) (int64, error) {
	if f == nil {
		return 0, fmt.Errorf("feedback is nil")
	}

	ts := now()

	if f.WorkoutID == nil {
		res, err := r.conn.Exec(ctx, `INSERT INTO feedback (workout_id, user_id, trainer_id, body, rating, created, updated) VALUES (NULL, ?, ?, ?, ?, ?, ?)`,
			f.UserID, f.TrainerID, f.Body, f.Rating, ts, ts)
		if err != nil {
			return 0, err
		}

		return res.LastInsertId()
	}

	tx, err := r.conn.BeginTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var existingID int64
	row := tx.QueryRowContext(ctx, `SELECT id FROM feedback WHERE workout_id = ? AND user_id = ?`, *f.WorkoutID, f.UserID)
	err = row.Scan(&existingID)
	switch {
	case err == sql.ErrNoRows:
		res, err := tx.ExecContext(ctx, `INSERT INTO feedback (workout_id, user_id, trainer_id, body, rating, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			*f.WorkoutID, f.UserID, f.TrainerID, f.Body, f.Rating, ts, ts)
		if err != nil {
			return 0, err
		}
		existingID, err = res.LastInsertId()
		if err != nil {
			return 0, err
		}
	case err != nil:
		return 0, err
	default:
		if _, err := tx.ExecContext(ctx, `UPDATE feedback SET body = ?, rating = ?, updated = ? WHERE id = ?`, f.Body, f.Rating, ts, existingID); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	return existingID, nil
}

func (r *SQLiteRepo) ListFeedbackByWorkout(ctx context.Context, workoutID int64) ([]models.Feedback, error) {
	return r.listFeedback(ctx, `SELECT id, workout_id, user_id, trainer_id, body, rating, created, updated FROM feedback WHERE workout_id = ? ORDER BY created DESC`, workoutID)
}

func (r *SQLiteRepo) ListFeedbackByTrainer(ctx context.Context, trainerID int64) ([]models.Feedback, error) {
	return r.listFeedback(ctx, `SELECT id, workout_id, user_id, trainer_id, body, rating, created, updated FROM feedback WHERE trainer_id = ? ORDER BY created DESC`, trainerID)
}

func (r *SQLiteRepo) ListFeedbackByUser(ctx context.Context, userID int64) ([]models.Feedback, error) {
	return r.listFeedback(ctx, `SELECT id, workout_id, user_id, trainer_id, body, rating, created, updated FROM feedback WHERE user_id = ? ORDER BY created DESC`, userID)
}

func (r *SQLiteRepo) listFeedback(ctx context.Context, query string, arg any) ([]models.Feedback, error) {
	rows, err := r.conn.QueryRows(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Feedback
	for rows.Next() {
		var f models.Feedback
		var workoutID, trainerID sql.NullInt64
		var rating sql.NullInt64
		if err := rows.Scan(&f.ID, &workoutID, &f.UserID, &trainerID, &f.Body, &rating, &f.Created, &f.Updated); err != nil {
			return nil, err
		}

		if workoutID.Valid {
			f.WorkoutID = &workoutID.Int64
		}
		if trainerID.Valid {
			f.TrainerID = &trainerID.Int64
		}
		if rating.Valid {
			v := int(rating.Int64)
			f.Rating = &v
		}

		out = append(out, f)
	}

	return out, rows.Err()
}
