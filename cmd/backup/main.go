package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/nayakvinit/lendbook/internal/config"
	"github.com/nayakvinit/lendbook/internal/repository"
)

const backupPrefix = "lendbook-"

func main() {
	log.Println("Starting snapshot backup daemon...")

	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	snapshots, err := repository.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer snapshots.Close()

	// Initialize cron scheduler
	c := cron.New(cron.WithSeconds())

	_, err = c.AddFunc(cfg.Backup.Schedule, func() {
		if err := runBackup(snapshots, cfg); err != nil {
			log.Printf("Backup failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Error scheduling backup job: %v", err)
	}

	// Start the scheduler
	c.Start()
	log.Printf("Backup scheduled (%s) into %s, keeping %d", cfg.Backup.Schedule, cfg.Backup.Dir, cfg.Backup.Keep)

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down backup daemon...")
	c.Stop()
	log.Println("Backup daemon stopped")
}

// runBackup copies the current snapshot into a timestamped file and prunes
// old backups beyond the configured keep count.
func runBackup(snapshots repository.SnapshotStore, cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	records, err := snapshots.Load(ctx)
	if err != nil {
		return err
	}

	payload, err := repository.EncodeSnapshot(records)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Backup.Dir, 0o755); err != nil {
		return err
	}

	name := fmt.Sprintf("%s%s.json", backupPrefix, time.Now().UTC().Format("20060102T150405"))
	path := filepath.Join(cfg.Backup.Dir, name)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return err
	}
	log.Printf("Backup written: %s (%d records)", path, len(records))

	return pruneBackups(cfg.Backup.Dir, cfg.Backup.Keep)
}

func pruneBackups(dir string, keep int) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	var backups []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), backupPrefix) && strings.HasSuffix(e.Name(), ".json") {
			backups = append(backups, e.Name())
		}
	}
	if len(backups) <= keep {
		return nil
	}

	// Timestamped names sort chronologically
	sort.Strings(backups)
	for _, name := range backups[:len(backups)-keep] {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return err
		}
		log.Printf("Pruned old backup: %s", name)
	}
	return nil
}
