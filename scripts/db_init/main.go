package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	dbfs "github.com/garnizeh/gymtrack/db"
	"github.com/garnizeh/gymtrack/internal/config"
	"github.com/garnizeh/gymtrack/internal/db"
	"github.com/garnizeh/gymtrack/internal/repository/sqlite"
	"github.com/garnizeh/gymtrack/pkg/models"
)

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	database, err := db.New(ctx, cfg.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.Migrate(ctx, database, dbfs.Migrations); err != nil {
		fmt.Fprintf(os.Stderr, "Migration runner error: %v\n", err)
		os.Exit(1)
	}

	// bootstrap admin account when GYM_ADMIN_PASSWORD is set and none exists
	if pw := os.Getenv("GYM_ADMIN_PASSWORD"); pw != "" {
		repo := sqlite.New(database, nil)
		existing, err := repo.GetByUsername(ctx, "admin")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Admin lookup error: %v\n", err)
			os.Exit(1)
		}
		if existing == nil {
			hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Hash error: %v\n", err)
				os.Exit(1)
			}
			admin := models.User{
				Username:     "admin",
				FullName:     "Administrator",
				Email:        "admin@gymtrack.local",
				Role:         models.RoleAdmin,
				PasswordHash: string(hash),
				QRCode:       uuid.NewString(),
			}
			if _, err := repo.CreateUser(ctx, &admin); err != nil {
				fmt.Fprintf(os.Stderr, "Admin create error: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("Admin account created.")
		}
	}

	fmt.Println("Database initialized successfully.")
}
