package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/garnizeh/gymtrack/internal/config"
)

// Restores the gym database (GYM_DATABASE_PATH) from a backup produced by
// db_backup. With no argument the newest .bak alongside the database is used.
//
//	db_restore [backup]
func main() {
	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	dst := cfg.DatabasePath

	var src string
	if len(os.Args) > 1 {
		src = os.Args[1]
	} else {
		src, err = newestBackup(dst)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Restore error: %v\n", err)
			os.Exit(1)
		}
	}

	if err := copyFile(src, dst); err != nil {
		fmt.Fprintf(os.Stderr, "Restore error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Gym database restored from %s\n", src)
}

// Backup names embed a UTC timestamp, so the lexically greatest match is the
// most recent one.
func newestBackup(dbPath string) (string, error) {
	matches, err := filepath.Glob(dbPath + ".*.bak")
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no backups found for %s", dbPath)
	}
	sort.Strings(matches)

	return matches[len(matches)-1], nil
}

func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return err
	}

	return dstFile.Sync()
}
