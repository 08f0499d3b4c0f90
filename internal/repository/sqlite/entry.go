package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/garnizeh/gymtrack/pkg/models"
	"github.com/garnizeh/gymtrack/pkg/repository"
)

const entryDateLayout = "2006-01-02"

// LogEntry records one gym entry per user per day. A second entry on the same
// day is rejected with ErrDuplicate and leaves no extra row.
func (r *SQLiteRepo) LogEntry(ctx context.Context, userID int64) (*models.GymEntry, error) {
	entered := time.Now().UTC()
	e := &models.GymEntry{
		UserID:    userID,
		EnteredAt: entered.UnixMilli(),
		EntryDate: entered.Format(entryDateLayout),
	}

	res, err := r.conn.Exec(ctx, `INSERT INTO gym_entries (user_id, entered_at, entry_date) VALUES (?, ?, ?)`, e.UserID, e.EnteredAt, e.EntryDate)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("already entered today: %w", repository.ErrDuplicate)
		}
		return nil, err
	}

	e.ID, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return e, nil
}

func (r *SQLiteRepo) HasEnteredToday(ctx context.Context, userID int64) (bool, error) {
	today := time.Now().UTC().Format(entryDateLayout)

	var count int
	row := r.conn.QueryRow(ctx, `SELECT COUNT(1) FROM gym_entries WHERE user_id = ? AND entry_date = ?`, userID, today)
	if err := row.Scan(&count); err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *SQLiteRepo) ListEntries(ctx context.Context, userID int64, limit, offset int) ([]models.GymEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.conn.QueryRows(ctx, `SELECT id, user_id, entered_at, entry_date FROM gym_entries WHERE user_id = ? ORDER BY entered_at DESC LIMIT ? OFFSET ?`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.GymEntry
	for rows.Next() {
		var e models.GymEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.EnteredAt, &e.EntryDate); err != nil {
			return nil, err
		}

		out = append(out, e)
	}

	return out, rows.Err()
}
