package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/gymtrack/internal/config"
	"github.com/garnizeh/gymtrack/internal/db"
	"github.com/garnizeh/gymtrack/internal/mail"
	"github.com/garnizeh/gymtrack/internal/repository/sqlite"
	"github.com/garnizeh/gymtrack/pkg/models"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, db *db.DB, recorder Recorder, mailer mail.Sender) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Browser preflights must match a route or mux never runs the middleware
	// chain; CORSMiddleware answers them before this handler is reached.
	r.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Repository
	repo := sqlite.New(db, logger)

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(repo, repo, mailer, recorder, cfg.JWTSecret, cfg.TokenDuration, cfg.Mail.ResetBaseURL)
	usersHandler := NewUsersHandler(repo, recorder)
	workoutsHandler := NewWorkoutsHandler(repo, recorder)
	trainersHandler := NewTrainersHandler(repo)
	feedbackHandler := NewFeedbackHandler(repo)
	entriesHandler := NewEntriesHandler(repo, repo, recorder)
	logsHandler := NewLogsHandler(repo)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/v1/auth/signin", authHandler.Signin).Methods("POST")
	r.HandleFunc("/v1/auth/reset/request", authHandler.ResetRequest).Methods("POST")
	r.HandleFunc("/v1/auth/reset/confirm", authHandler.ResetConfirm).Methods("POST")
	// front-desk scanner runs unauthenticated
	r.HandleFunc("/v1/entries/validate", entriesHandler.ValidateQR).Methods("GET")
	r.HandleFunc("/v1/entries", entriesHandler.LogEntry).Methods("POST")

	// API v1 Protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))

	// Auth endpoints
	apiV1.HandleFunc("/auth/signout", authHandler.Signout).Methods("POST")

	// User endpoints
	apiV1.HandleFunc("/users/{id:[0-9]+}", usersHandler.GetUser).Methods("GET")
	apiV1.HandleFunc("/users/{id:[0-9]+}", usersHandler.UpdateProfile).Methods("PUT")
	apiV1.HandleFunc("/users/{id:[0-9]+}/password", usersHandler.ChangePassword).Methods("POST")

	// Staff-only user management
	staffV1 := apiV1.NewRoute().Subrouter()
	staffV1.Use(RequireRoles(models.RoleStaff, models.RoleAdmin))
	staffV1.HandleFunc("/users", usersHandler.CreateUser).Methods("POST")
	staffV1.HandleFunc("/users", usersHandler.ListUsers).Methods("GET")
	staffV1.HandleFunc("/users/{id:[0-9]+}/membership", usersHandler.ExtendMembership).Methods("POST")
	staffV1.HandleFunc("/logs", logsHandler.ListLogs).Methods("GET")
	staffV1.HandleFunc("/entries", entriesHandler.ListEntries).Methods("GET")

	// Workout endpoints
	apiV1.HandleFunc("/workouts", workoutsHandler.CreateWorkout).Methods("POST")
	apiV1.HandleFunc("/workouts", workoutsHandler.ListWorkouts).Methods("GET")
	apiV1.HandleFunc("/workouts/{id:[0-9]+}", workoutsHandler.GetWorkout).Methods("GET")
	apiV1.HandleFunc("/workouts/{id:[0-9]+}", workoutsHandler.UpdateWorkout).Methods("PUT")
	apiV1.HandleFunc("/workouts/{id:[0-9]+}", workoutsHandler.DeleteWorkout).Methods("DELETE")
	apiV1.HandleFunc("/workouts/{id:[0-9]+}/assign", workoutsHandler.AssignWorkout).Methods("POST")
	apiV1.HandleFunc("/workouts/{id:[0-9]+}/save", workoutsHandler.SaveOrUnsaveWorkout).Methods("POST")
	apiV1.HandleFunc("/workouts/{id:[0-9]+}/progress", workoutsHandler.UpdateProgress).Methods("POST", "PUT")

	// Trainer endpoints
	apiV1.HandleFunc("/trainers/{id:[0-9]+}/members", trainersHandler.AssignMember).Methods("POST")
	apiV1.HandleFunc("/trainers/{id:[0-9]+}/members", trainersHandler.ListMembers).Methods("GET")
	apiV1.HandleFunc("/trainers/{id:[0-9]+}/members/{memberID:[0-9]+}", trainersHandler.RemoveMember).Methods("DELETE")

	// Feedback endpoints
	apiV1.HandleFunc("/feedback", feedbackHandler.SubmitFeedback).Methods("POST")
	apiV1.HandleFunc("/feedback", feedbackHandler.ListFeedback).Methods("GET")

	return r
}
