package sqlite

import (
	"context"
	"fmt"

	"github.com/garnizeh/gymtrack/pkg/models"
)

func (r *SQLiteRepo) AppendLog(ctx context.Context, e *models.LogEntry) (int64, error) {
	if e == nil {
		return 0, fmt.Errorf("log entry is nil")
	}

	ts := e.Created
	if ts == 0 {
		ts = now()
	}

	res, err := r.conn.Exec(ctx, `INSERT INTO activity_logs (user_id, action, info, created) VALUES (?, ?, ?, ?)`, e.UserID, e.Action, e.Info, ts)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) ListLogs(ctx context.Context, limit, offset int) ([]models.LogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.conn.QueryRows(ctx, `SELECT id, user_id, action, info, created FROM activity_logs ORDER BY created DESC, id DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.LogEntry
	for rows.Next() {
		var e models.LogEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.Info, &e.Created); err != nil {
			return nil, err
		}

		out = append(out, e)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) CountLogs(ctx context.Context) (int64, error) {
	row := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM activity_logs`)
	var cnt int64
	if err := row.Scan(&cnt); err != nil {
		return 0, err
	}
	return cnt, nil
}
