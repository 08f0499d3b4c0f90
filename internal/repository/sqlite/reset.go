package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/gymtrack/pkg/repository"
)

func (r *SQLiteRepo) CreateReset(ctx context.Context, userID int64, token string, expires int64) (int64, error) {
	res, err := r.conn.Exec(ctx, `INSERT INTO password_resets (user_id, token, expires, used, created) VALUES (?, ?, ?, 0, ?)`, userID, token, expires, now())
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

// ResetPassword consumes an unexpired, unused token and sets the new password
// hash in one transaction. The token is single-use.
func (r *SQLiteRepo) ResetPassword(ctx context.Context, token, passwordHash string) error {
	tx, err := r.conn.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var id, userID int64
	row := tx.QueryRowContext(ctx, `SELECT id, user_id FROM password_resets WHERE token = ? AND used = 0 AND expires > ?`, token, now())
	if err := row.Scan(&id, &userID); err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("reset token: %w", repository.ErrNotFound)
		}

		return err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE users SET password_hash = ?, updated = ? WHERE id = ?`, passwordHash, now(), userID); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE password_resets SET used = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark token used: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}
