package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/garnizeh/gymtrack/pkg/models"
	"github.com/garnizeh/gymtrack/pkg/repository"
)

const userColumns = `id, username, full_name, email, contact, role, password_hash, membership_expiry, qr_code, created, updated`

func (r *SQLiteRepo) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	if u == nil {
		return 0, fmt.Errorf("user is nil")
	}

	ts := now()
	res, err := r.conn.Exec(ctx, `INSERT INTO users (username, full_name, email, contact, role, password_hash, membership_expiry, qr_code, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Username, u.FullName, u.Email, u.Contact, u.Role, u.PasswordHash, u.MembershipExpiry, u.QRCode, ts, ts)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("username or email taken: %w", repository.ErrDuplicate)
		}
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (r *SQLiteRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
}

func (r *SQLiteRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

func (r *SQLiteRepo) GetByQRCode(ctx context.Context, qrCode string) (*models.User, error) {
	return r.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE qr_code = ?`, qrCode)
}

func (r *SQLiteRepo) getUser(ctx context.Context, query string, arg any) (*models.User, error) {
	row := r.conn.QueryRow(ctx, query, arg)
	u, err := scanUser(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return u, nil
}

func scanUser(scan func(dest ...any) error) (*models.User, error) {
	var u models.User
	var contact sql.NullString
	var expiry sql.NullInt64
	if err := scan(&u.ID, &u.Username, &u.FullName, &u.Email, &contact, &u.Role, &u.PasswordHash, &expiry, &u.QRCode, &u.Created, &u.Updated); err != nil {
		return nil, err
	}

	if contact.Valid {
		u.Contact = contact.String
	}
	if expiry.Valid {
		u.MembershipExpiry = &expiry.Int64
	}

	return &u, nil
}

func (r *SQLiteRepo) ListByRole(ctx context.Context, role string, limit, offset int) ([]models.User, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.conn.QueryRows(ctx, `SELECT `+userColumns+` FROM users WHERE role = ? ORDER BY full_name LIMIT ? OFFSET ?`, role, limit, offset)
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

func (r *SQLiteRepo) UpdateProfile(ctx context.Context, u *models.User) error {
	if u == nil {
		return fmt.Errorf("user is nil")
	}

	res, err := r.conn.Exec(ctx, `UPDATE users SET full_name = ?, email = ?, contact = ?, updated = ? WHERE id = ?`,
		u.FullName, u.Email, u.Contact, now(), u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("email taken: %w", repository.ErrDuplicate)
		}
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("user %d: %w", u.ID, repository.ErrNotFound)
	}

	return nil
}

func (r *SQLiteRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := r.conn.Exec(ctx, `UPDATE users SET password_hash = ?, updated = ? WHERE id = ?`, passwordHash, now(), id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("user %d: %w", id, repository.ErrNotFound)
	}

	return nil
}

// ExtendMembership extends the membership by the given number of months,
// counting from the current expiry when it is still in the future, and returns
// the new expiry timestamp.
func (r *SQLiteRepo) ExtendMembership(ctx context.Context, id int64, months int) (int64, error) {
	if months <= 0 {
		return 0, fmt.Errorf("months must be positive")
	}

	u, err := r.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if u == nil {
		return 0, fmt.Errorf("user %d: %w", id, repository.ErrNotFound)
	}

	start := time.Now().UTC()
	if u.MembershipExpiry != nil {
		if cur := time.UnixMilli(*u.MembershipExpiry).UTC(); cur.After(start) {
			start = cur
		}
	}
	expiry := start.AddDate(0, months, 0).UnixMilli()

	if _, err := r.conn.Exec(ctx, `UPDATE users SET membership_expiry = ?, updated = ? WHERE id = ?`, expiry, now(), id); err != nil {
		return 0, err
	}

	return expiry, nil
}
