package models

// Domain models matching the database schema in db/migrations/0001_init.sql

// User roles.
const (
	RoleMember  = "member"
	RoleTrainer = "trainer"
	RoleStaff   = "staff"
	RoleAdmin   = "admin"
)

// ValidRole reports whether role is one of the closed role set.
func ValidRole(role string) bool {
	switch role {
	case RoleMember, RoleTrainer, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// Workout progress states. Any transition among the three is allowed.
const (
	ProgressAssigned   = "Assigned"
	ProgressInProgress = "In Progress"
	ProgressCompleted  = "Completed"
)

// ValidProgress reports whether status is one of the closed progress set.
func ValidProgress(status string) bool {
	switch status {
	case ProgressAssigned, ProgressInProgress, ProgressCompleted:
		return true
	}
	return false
}

type User struct {
	ID               int64  `json:"id" db:"id"`
	Username         string `json:"username" db:"username"`
	FullName         string `json:"full_name" db:"full_name"`
	Email            string `json:"email" db:"email"`
	Contact          string `json:"contact,omitempty" db:"contact"`
	Role             string `json:"role" db:"role"`
	PasswordHash     string `json:"-" db:"password_hash"`
	MembershipExpiry *int64 `json:"membership_expiry,omitempty" db:"membership_expiry"`
	QRCode           string `json:"qr_code" db:"qr_code"`
	Created          int64  `json:"created" db:"created"`
	Updated          int64  `json:"updated" db:"updated"`
}

// Workout is either a template (AssignedTo nil, SourceID nil), a saved copy
// (AssignedTo nil, SourceID set) or an assigned instance (AssignedTo set).
// Instances are full copies; they never share rows with their template.
type Workout struct {
	ID          int64      `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description,omitempty" db:"description"`
	Level       string     `json:"level,omitempty" db:"level"`
	CreatorID   int64      `json:"creator_id" db:"creator_id"`
	AssignedBy  *int64     `json:"assigned_by,omitempty" db:"assigned_by"`
	AssignedTo  *int64     `json:"assigned_to,omitempty" db:"assigned_to"`
	SourceID    *int64     `json:"source_id,omitempty" db:"source_id"`
	Progress    string     `json:"progress,omitempty" db:"progress"`
	Active      bool       `json:"active" db:"active"`
	Created     int64      `json:"created" db:"created"`
	Updated     int64      `json:"updated" db:"updated"`
	Exercises   []Exercise `json:"exercises,omitempty"`
}

type Exercise struct {
	ID        int64  `json:"id" db:"id"`
	WorkoutID int64  `json:"workout_id" db:"workout_id"`
	Name      string `json:"name" db:"name"`
	Sets      int    `json:"sets" db:"sets"`
	Reps      int    `json:"reps" db:"reps"`
	Position  int    `json:"position" db:"position"`
	Active    bool   `json:"active" db:"active"`
}

// TrainerMember links a trainer to a trainee; at most one trainer per member.
type TrainerMember struct {
	ID         int64 `json:"id" db:"id"`
	TrainerID  int64 `json:"trainer_id" db:"trainer_id"`
	MemberID   int64 `json:"member_id" db:"member_id"`
	AssignedAt int64 `json:"assigned_at" db:"assigned_at"`
}

type Feedback struct {
	ID        int64  `json:"id" db:"id"`
	WorkoutID *int64 `json:"workout_id,omitempty" db:"workout_id"`
	UserID    int64  `json:"user_id" db:"user_id"`
	TrainerID *int64 `json:"trainer_id,omitempty" db:"trainer_id"`
	Body      string `json:"feedback" db:"body"`
	Rating    *int   `json:"rating,omitempty" db:"rating"`
	Created   int64  `json:"created" db:"created"`
	Updated   int64  `json:"updated" db:"updated"`
}

type GymEntry struct {
	ID        int64  `json:"id" db:"id"`
	UserID    int64  `json:"user_id" db:"user_id"`
	EnteredAt int64  `json:"entered_at" db:"entered_at"`
	EntryDate string `json:"entry_date" db:"entry_date"`
}

// LogEntry is append-only; rows are never mutated or deleted.
type LogEntry struct {
	ID      int64  `json:"id" db:"id"`
	UserID  int64  `json:"user_id" db:"user_id"`
	Action  string `json:"action" db:"action"`
	Info    string `json:"info,omitempty" db:"info"`
	Created int64  `json:"created" db:"created"`
}

type PasswordReset struct {
	ID      int64  `json:"id" db:"id"`
	UserID  int64  `json:"user_id" db:"user_id"`
	Token   string `json:"token" db:"token"`
	Expires int64  `json:"expires" db:"expires"`
	Used    bool   `json:"used" db:"used"`
	Created int64  `json:"created" db:"created"`
}

// AssignmentResult aggregates a batch assignment: per-trainee errors are data,
// the batch only fails wholesale when no trainee succeeded.
type AssignmentResult struct {
	Assigned int      `json:"assigned"`
	Errors   []string `json:"errors,omitempty"`
}
