package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// BackupConfig controls the periodic sqlite file backup.
type BackupConfig struct {
	Enabled       bool
	StoragePath   string
	Interval      time.Duration
	RetentionDays int
}

// Backupper periodically copies the agenda database file aside and prunes
// copies older than the retention window.
type Backupper struct {
	dbPath string
	cfg    BackupConfig
	logger *zerolog.Logger
}

func NewBackupper(dbPath string, cfg BackupConfig, logger *zerolog.Logger) *Backupper {
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}
	return &Backupper{dbPath: dbPath, cfg: cfg, logger: logger}
}

// Run performs an immediate backup, then one per interval until ctx ends.
func (b *Backupper) Run(ctx context.Context) {
	if !b.cfg.Enabled {
		b.logger.Info().Msg("database backup disabled")
		return
	}

	b.logger.Info().
		Dur("interval", b.cfg.Interval).
		Str("storage_path", b.cfg.StoragePath).
		Msg("database backup started")

	if err := b.Backup(); err != nil {
		b.logger.Error().Err(err).Msg("initial backup failed")
	}

	ticker := time.NewTicker(b.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := b.Backup(); err != nil {
				b.logger.Error().Err(err).Msg("scheduled backup failed")
			}
			b.prune()
		}
	}
}

// Backup copies the database file to a timestamped file under StoragePath.
func (b *Backupper) Backup() error {
	if err := os.MkdirAll(b.cfg.StoragePath, 0o755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}

	name := fmt.Sprintf("agenda_%s.db", time.Now().Format("20060102_150405"))
	path := filepath.Join(b.cfg.StoragePath, name)

	source, err := os.Open(b.dbPath)
	if err != nil {
		return fmt.Errorf("open database file: %w", err)
	}
	defer source.Close()

	dest, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create backup file: %w", err)
	}
	defer dest.Close()

	if _, err := io.Copy(dest, source); err != nil {
		return fmt.Errorf("copy database: %w", err)
	}

	b.logger.Info().Str("path", path).Msg("database backup written")
	return nil
}

func (b *Backupper) prune() {
	if b.cfg.RetentionDays <= 0 {
		return
	}

	entries, err := os.ReadDir(b.cfg.StoragePath)
	if err != nil {
		b.logger.Error().Err(err).Msg("read backup directory failed")
		return
	}

	cutoff := time.Now().AddDate(0, 0, -b.cfg.RetentionDays)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			b.logger.Info().Str("file", entry.Name()).Msg("pruning old backup")
			_ = os.Remove(filepath.Join(b.cfg.StoragePath, entry.Name()))
		}
	}
}
