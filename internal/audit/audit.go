// Package audit writes the append-only activity log without blocking request
// handlers: entries are buffered on a channel and drained by a small worker
// pool with bounded retry.
package audit

import (
	"context"
	"sync"
	"time"

	"log/slog"

	"github.com/garnizeh/gymtrack/pkg/models"
	"github.com/garnizeh/gymtrack/pkg/repository"
)

// Action labels recorded in the activity log.
const (
	ActionEntry            = "gym_entry"
	ActionMembershipExtend = "membership_extend"
	ActionPasswordChange   = "password_change"
	ActionPasswordReset    = "password_reset"
	ActionUserCreate       = "user_create"
	ActionWorkoutAssign    = "workout_assign"
)

const (
	maxAttempts  = 3
	writeTimeout = 5 * time.Second
)

type Recorder struct {
	repo    repository.LogRepo
	logger  *slog.Logger
	entries chan models.LogEntry
	wg      sync.WaitGroup
}

// NewRecorder starts workerCount goroutines draining a buffer of bufferSize
// entries. Close must be called to flush and stop them.
func NewRecorder(repo repository.LogRepo, logger *slog.Logger, bufferSize, workerCount int) *Recorder {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	if workerCount <= 0 {
		workerCount = 2
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := &Recorder{
		repo:    repo,
		logger:  logger,
		entries: make(chan models.LogEntry, bufferSize),
	}
	for i := 0; i < workerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	return r
}

// Record enqueues an entry. It never blocks a request: when the buffer is
// full the entry is dropped and the drop is logged.
func (r *Recorder) Record(userID int64, action, info string) {
	e := models.LogEntry{UserID: userID, Action: action, Info: info, Created: time.Now().UTC().UnixMilli()}
	select {
	case r.entries <- e:
	default:
		r.logger.Warn("audit buffer full, entry dropped",
			slog.Int64("user_id", userID),
			slog.String("action", action),
		)
	}
}

// Close flushes buffered entries and waits for the workers to finish.
func (r *Recorder) Close() {
	close(r.entries)
	r.wg.Wait()
}

func (r *Recorder) worker(id int) {
	defer r.wg.Done()
	for e := range r.entries {
		r.write(e, id)
	}
}

func (r *Recorder) write(e models.LogEntry, workerID int) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		_, err := r.repo.AppendLog(ctx, &e)
		cancel()
		if err == nil {
			return
		}

		r.logger.Error("audit write failed",
			slog.Int("worker", workerID),
			slog.Int("attempt", attempt),
			slog.String("action", e.Action),
			slog.Any("err", err),
		)
		if attempt < maxAttempts {
			time.Sleep(backoffDuration(attempt))
		}
	}
}

// backoffDuration returns exponential backoff for attempt n, capped.
func backoffDuration(attempt int) time.Duration {
	if attempt <= 0 {
		return 100 * time.Millisecond
	}
	d := time.Duration(1<<uint(attempt)) * 100 * time.Millisecond
	if max := 2 * time.Second; d > max {
		return max
	}
	return d
}
