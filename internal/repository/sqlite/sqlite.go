package sqlite

import (
	"strings"
	"time"

	"log/slog"

	"github.com/garnizeh/gymtrack/internal/db"
	"github.com/garnizeh/gymtrack/pkg/repository"
)

// SQLiteRepo implements repository interfaces using the internal DB wrapper.
type SQLiteRepo struct {
	conn   *db.DB
	logger *slog.Logger
}

// Ensure SQLiteRepo implements the public interfaces.
var _ repository.UserRepo = (*SQLiteRepo)(nil)
var _ repository.WorkoutRepo = (*SQLiteRepo)(nil)
var _ repository.TrainerRepo = (*SQLiteRepo)(nil)
var _ repository.FeedbackRepo = (*SQLiteRepo)(nil)
var _ repository.EntryRepo = (*SQLiteRepo)(nil)
var _ repository.LogRepo = (*SQLiteRepo)(nil)
var _ repository.ResetRepo = (*SQLiteRepo)(nil)

func New(conn *db.DB, logger *slog.Logger) *SQLiteRepo {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteRepo{conn: conn, logger: logger}
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}

// isUniqueViolation detects a UNIQUE constraint failure from the sqlite driver.
// The unique indexes back the application-level duplicate checks, closing the
// check-then-act race window under concurrent identical requests.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
