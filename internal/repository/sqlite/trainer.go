package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/gymtrack/pkg/models"
	"github.com/garnizeh/gymtrack/pkg/repository"
)

// AssignMember links a member to a trainer. A member may have at most one
// trainer; the UNIQUE(member_id) index backs the application-level check.
func (r *SQLiteRepo) AssignMember(ctx context.Context, trainerID, memberID int64) (int64, error) {
	tx, err := r.conn.BeginTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var role string
	row := tx.QueryRowContext(ctx, `SELECT role FROM users WHERE id = ?`, memberID)
	if err := row.Scan(&role); err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("member %d: %w", memberID, repository.ErrNotFound)
		}

		return 0, err
	}
	if role != models.RoleMember {
		return 0, fmt.Errorf("user %d is not a member: %w", memberID, repository.ErrValidation)
	}

	var count int
	row = tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM trainer_members WHERE member_id = ?`, memberID)
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, fmt.Errorf("member already has a trainer: %w", repository.ErrDuplicate)
	}

	res, err := tx.ExecContext(ctx, `INSERT INTO trainer_members (trainer_id, member_id, assigned_at) VALUES (?, ?, ?)`, trainerID, memberID, now())
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("member already has a trainer: %w", repository.ErrDuplicate)
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	return id, nil
}

func (r *SQLiteRepo) ListMembers(ctx context.Context, trainerID int64) ([]models.User, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT u.id, u.username, u.full_name, u.email, u.contact, u.role, u.password_hash, u.membership_expiry, u.qr_code, u.created, u.updated FROM users u JOIN trainer_members tm ON tm.member_id = u.id WHERE tm.trainer_id = ? ORDER BY u.full_name`, trainerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		u, err := scanUser(rows.Scan)
		if err != nil {
			return nil, err
		}

		out = append(out, *u)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) RemoveMember(ctx context.Context, trainerID, memberID int64) error {
	res, err := r.conn.Exec(ctx, `DELETE FROM trainer_members WHERE trainer_id = ? AND member_id = ?`, trainerID, memberID)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("trainer %d member %d: %w", trainerID, memberID, repository.ErrNotFound)
	}

	return nil
}
