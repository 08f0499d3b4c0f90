package repository

import (
	"context"
	"errors"

	"github.com/garnizeh/gymtrack/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

// Sentinel errors returned by implementations; callers match with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrOwnership  = errors.New("not owned by caller")
	ErrDuplicate  = errors.New("duplicate")
	ErrValidation = errors.New("invalid input")
)

type UserRepo interface {
	CreateUser(ctx context.Context, u *models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByQRCode(ctx context.Context, qrCode string) (*models.User, error)
	ListByRole(ctx context.Context, role string, limit, offset int) ([]models.User, error)
	UpdateProfile(ctx context.Context, u *models.User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	ExtendMembership(ctx context.Context, id int64, months int) (int64, error)
}

type WorkoutRepo interface {
	CreateWorkout(ctx context.Context, w *models.Workout) (int64, error)
	GetWorkout(ctx context.Context, id int64) (*models.Workout, error)
	ListByCreator(ctx context.Context, creatorID int64) ([]models.Workout, error)
	ListAssignedTo(ctx context.Context, memberID int64) ([]models.Workout, error)
	ListAssignedBy(ctx context.Context, trainerID int64) ([]models.Workout, error)
	UpdateWorkout(ctx context.Context, w *models.Workout, callerID int64) error
	DeleteWorkout(ctx context.Context, id, callerID int64) error

	AssignWorkout(ctx context.Context, templateID, trainerID int64, traineeIDs []int64) (*models.AssignmentResult, error)
	SaveWorkout(ctx context.Context, templateID, memberID int64) (int64, error)
	UnsaveWorkout(ctx context.Context, templateID, memberID int64) error
	UpdateProgress(ctx context.Context, instanceID, memberID int64, status string) error
}

type TrainerRepo interface {
	AssignMember(ctx context.Context, trainerID, memberID int64) (int64, error)
	ListMembers(ctx context.Context, trainerID int64) ([]models.User, error)
	RemoveMember(ctx context.Context, trainerID, memberID int64) error
}

type FeedbackRepo interface {
	SubmitFeedback(ctx context.Context, f *models.Feedback) (int64, error)
	ListFeedbackByWorkout(ctx context.Context, workoutID int64) ([]models.Feedback, error)
	ListFeedbackByTrainer(ctx context.Context, trainerID int64) ([]models.Feedback, error)
	ListFeedbackByUser(ctx context.Context, userID int64) ([]models.Feedback, error)
}

type EntryRepo interface {
	LogEntry(ctx context.Context, userID int64) (*models.GymEntry, error)
	HasEnteredToday(ctx context.Context, userID int64) (bool, error)
	ListEntries(ctx context.Context, userID int64, limit, offset int) ([]models.GymEntry, error)
}

type LogRepo interface {
	AppendLog(ctx context.Context, e *models.LogEntry) (int64, error)
	ListLogs(ctx context.Context, limit, offset int) ([]models.LogEntry, error)
	CountLogs(ctx context.Context) (int64, error)
}

type ResetRepo interface {
	CreateReset(ctx context.Context, userID int64, token string, expires int64) (int64, error)
	ResetPassword(ctx context.Context, token, passwordHash string) error
}
