// Package mock provides hand-rolled repository fakes for handler tests.
package mock

import (
	"context"

	"github.com/garnizeh/gymtrack/pkg/models"
	"github.com/garnizeh/gymtrack/pkg/repository"
)

type Mocks struct {
	UserRepo     *UserRepo
	WorkoutRepo  *WorkoutRepo
	TrainerRepo  *TrainerRepo
	FeedbackRepo *FeedbackRepo
	EntryRepo    *EntryRepo
	ResetRepo    *ResetRepo
	LogRepo      *LogRepo
	Recorder     *Recorder
}

func NewMocks() *Mocks {
	return &Mocks{
		UserRepo:     &UserRepo{},
		WorkoutRepo:  &WorkoutRepo{},
		TrainerRepo:  &TrainerRepo{},
		FeedbackRepo: &FeedbackRepo{},
		EntryRepo:    &EntryRepo{},
		ResetRepo:    &ResetRepo{},
		LogRepo:      &LogRepo{},
		Recorder:     &Recorder{},
	}
}

// Recorder captures audit calls.
type Recorder struct {
	Entries []models.LogEntry
}

func (r *Recorder) Record(userID int64, action, info string) {
	r.Entries = append(r.Entries, models.LogEntry{UserID: userID, Action: action, Info: info})
}

type UserRepo struct {
	Stored    *models.User
	Listed    []models.User
	CreateErr error
	NewExpiry int64
	ExtendErr error
}

var _ repository.UserRepo = (*UserRepo)(nil)

func (m *UserRepo) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	stored := *u
	stored.ID = 1
	m.Stored = &stored
	return 1, nil
}

func (m *UserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if m.Stored != nil && m.Stored.ID == id {
		return m.Stored, nil
	}
	return nil, nil
}

func (m *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.Stored != nil && m.Stored.Username == username {
		return m.Stored, nil
	}
	return nil, nil
}

func (m *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.Stored != nil && m.Stored.Email == email {
		return m.Stored, nil
	}
	return nil, nil
}

func (m *UserRepo) GetByQRCode(ctx context.Context, qrCode string) (*models.User, error) {
	if m.Stored != nil && m.Stored.QRCode == qrCode {
		return m.Stored, nil
	}
	return nil, nil
}

func (m *UserRepo) ListByRole(ctx context.Context, role string, limit, offset int) ([]models.User, error) {
	return m.Listed, nil
}

func (m *UserRepo) UpdateProfile(ctx context.Context, u *models.User) error {
	if m.Stored == nil || m.Stored.ID != u.ID {
		return repository.ErrNotFound
	}
	m.Stored.FullName = u.FullName
	m.Stored.Email = u.Email
	m.Stored.Contact = u.Contact
	return nil
}

func (m *UserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	if m.Stored == nil || m.Stored.ID != id {
		return repository.ErrNotFound
	}
	m.Stored.PasswordHash = passwordHash
	return nil
}

func (m *UserRepo) ExtendMembership(ctx context.Context, id int64, months int) (int64, error) {
	if m.ExtendErr != nil {
		return 0, m.ExtendErr
	}
	if m.Stored == nil || m.Stored.ID != id {
		return 0, repository.ErrNotFound
	}
	return m.NewExpiry, nil
}

type WorkoutRepo struct {
	Stored       *models.Workout
	Listed       []models.Workout
	CreatedID    int64
	CreateErr    error
	UpdateErr    error
	DeleteErr    error
	AssignResult *models.AssignmentResult
	AssignErr    error
	SavedID      int64
	SaveErr      error
	UnsaveErr    error
	ProgressErr  error

	LastProgress string
}

var _ repository.WorkoutRepo = (*WorkoutRepo)(nil)

func (m *WorkoutRepo) CreateWorkout(ctx context.Context, w *models.Workout) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	stored := *w
	stored.ID = m.CreatedID
	if stored.ID == 0 {
		stored.ID = 1
	}
	m.Stored = &stored
	return stored.ID, nil
}

func (m *WorkoutRepo) GetWorkout(ctx context.Context, id int64) (*models.Workout, error) {
	if m.Stored != nil && m.Stored.ID == id {
		return m.Stored, nil
	}
	return nil, nil
}

func (m *WorkoutRepo) ListByCreator(ctx context.Context, creatorID int64) ([]models.Workout, error) {
	return m.Listed, nil
}

func (m *WorkoutRepo) ListAssignedTo(ctx context.Context, memberID int64) ([]models.Workout, error) {
	return m.Listed, nil
}

func (m *WorkoutRepo) ListAssignedBy(ctx context.Context, trainerID int64) ([]models.Workout, error) {
	return m.Listed, nil
}

func (m *WorkoutRepo) UpdateWorkout(ctx context.Context, w *models.Workout, callerID int64) error {
	return m.UpdateErr
}

func (m *WorkoutRepo) DeleteWorkout(ctx context.Context, id, callerID int64) error {
	return m.DeleteErr
}

func (m *WorkoutRepo) AssignWorkout(ctx context.Context, templateID, trainerID int64, traineeIDs []int64) (*models.AssignmentResult, error) {
	if m.AssignErr != nil {
		return nil, m.AssignErr
	}
	if m.AssignResult != nil {
		return m.AssignResult, nil
	}
	return &models.AssignmentResult{Assigned: len(traineeIDs)}, nil
}

func (m *WorkoutRepo) SaveWorkout(ctx context.Context, templateID, memberID int64) (int64, error) {
	if m.SaveErr != nil {
		return 0, m.SaveErr
	}
	return m.SavedID, nil
}

func (m *WorkoutRepo) UnsaveWorkout(ctx context.Context, templateID, memberID int64) error {
	return m.UnsaveErr
}

func (m *WorkoutRepo) UpdateProgress(ctx context.Context, instanceID, memberID int64, status string) error {
	if m.ProgressErr != nil {
		return m.ProgressErr
	}
	m.LastProgress = status
	return nil
}

type TrainerRepo struct {
	AssignErr error
	Members   []models.User
	RemoveErr error
}

var _ repository.TrainerRepo = (*TrainerRepo)(nil)

func (m *TrainerRepo) AssignMember(ctx context.Context, trainerID, memberID int64) (int64, error) {
	if m.AssignErr != nil {
		return 0, m.AssignErr
	}
	return 1, nil
}

func (m *TrainerRepo) ListMembers(ctx context.Context, trainerID int64) ([]models.User, error) {
	return m.Members, nil
}

func (m *TrainerRepo) RemoveMember(ctx context.Context, trainerID, memberID int64) error {
	return m.RemoveErr
}

type FeedbackRepo struct {
	Stored    []models.Feedback
	SubmitErr error
}

var _ repository.FeedbackRepo = (*FeedbackRepo)(nil)

func (m *FeedbackRepo) SubmitFeedback(ctx context.Context, f *models.Feedback) (int64, error) {
	if m.SubmitErr != nil {
		return 0, m.SubmitErr
	}
	// upsert on (workout, user)
	for i, existing := range m.Stored {
		if existing.UserID == f.UserID && int64ptrEq(existing.WorkoutID, f.WorkoutID) {
			f.ID = existing.ID
			m.Stored[i] = *f
			return f.ID, nil
		}
	}
	f.ID = int64(len(m.Stored) + 1)
	m.Stored = append(m.Stored, *f)
	return f.ID, nil
}

func (m *FeedbackRepo) ListFeedbackByWorkout(ctx context.Context, workoutID int64) ([]models.Feedback, error) {
	var out []models.Feedback
	for _, f := range m.Stored {
		if f.WorkoutID != nil && *f.WorkoutID == workoutID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *FeedbackRepo) ListFeedbackByTrainer(ctx context.Context, trainerID int64) ([]models.Feedback, error) {
	var out []models.Feedback
	for _, f := range m.Stored {
		if f.TrainerID != nil && *f.TrainerID == trainerID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *FeedbackRepo) ListFeedbackByUser(ctx context.Context, userID int64) ([]models.Feedback, error) {
	var out []models.Feedback
	for _, f := range m.Stored {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

func int64ptrEq(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

type EntryRepo struct {
	Entries  []models.GymEntry
	Entered  bool
	LogErr   error
	CheckErr error
}

var _ repository.EntryRepo = (*EntryRepo)(nil)

func (m *EntryRepo) LogEntry(ctx context.Context, userID int64) (*models.GymEntry, error) {
	if m.LogErr != nil {
		return nil, m.LogErr
	}
	if m.Entered {
		return nil, repository.ErrDuplicate
	}
	entry := models.GymEntry{ID: int64(len(m.Entries) + 1), UserID: userID}
	m.Entries = append(m.Entries, entry)
	m.Entered = true
	return &entry, nil
}

func (m *EntryRepo) HasEnteredToday(ctx context.Context, userID int64) (bool, error) {
	if m.CheckErr != nil {
		return false, m.CheckErr
	}
	return m.Entered, nil
}

func (m *EntryRepo) ListEntries(ctx context.Context, userID int64, limit, offset int) ([]models.GymEntry, error) {
	return m.Entries, nil
}

type ResetRepo struct {
	Tokens   []string
	ResetErr error
}

var _ repository.ResetRepo = (*ResetRepo)(nil)

func (m *ResetRepo) CreateReset(ctx context.Context, userID int64, token string, expires int64) (int64, error) {
	m.Tokens = append(m.Tokens, token)
	return int64(len(m.Tokens)), nil
}

func (m *ResetRepo) ResetPassword(ctx context.Context, token, passwordHash string) error {
	return m.ResetErr
}

type LogRepo struct {
	Entries []models.LogEntry
}

var _ repository.LogRepo = (*LogRepo)(nil)

func (m *LogRepo) AppendLog(ctx context.Context, e *models.LogEntry) (int64, error) {
	m.Entries = append(m.Entries, *e)
	return int64(len(m.Entries)), nil
}

func (m *LogRepo) ListLogs(ctx context.Context, limit, offset int) ([]models.LogEntry, error) {
	return m.Entries, nil
}

func (m *LogRepo) CountLogs(ctx context.Context) (int64, error) {
	return int64(len(m.Entries)), nil
}
