package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/garnizeh/gymtrack/internal/config"
)

// Copies the gym database (GYM_DATABASE_PATH) to a timestamped .bak file so
// front-desk machines can snapshot before a migration. An optional argument
// overrides the destination path.
//
//	db_backup [dest]
func main() {
	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	src := cfg.DatabasePath
	dst := fmt.Sprintf("%s.%s.bak", src, time.Now().UTC().Format("20060102-150405"))
	if len(os.Args) > 1 {
		dst = os.Args[1]
	}

	if err := copyFile(src, dst); err != nil {
		fmt.Fprintf(os.Stderr, "Backup error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Gym database backed up to %s\n", dst)
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
