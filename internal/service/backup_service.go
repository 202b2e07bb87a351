package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"nextgenacademy/internal/models"
	"nextgenacademy/internal/store"
)

// BackupVersion is written into every export
const BackupVersion = "1.0"

// BackupData represents a complete profile backup
type BackupData struct {
	Version    string          `json:"version"`
	ExportedAt time.Time       `json:"exported_at"`
	Profiles   []ProfileBackup `json:"profiles"`
}

// ProfileBackup is a stored profile including its pin hash
type ProfileBackup struct {
	models.Profile
	PINHash string `json:"pin_hash"`
}

// ImportStats reports what an import did
type ImportStats struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// BackupService handles profile export and restore
type BackupService struct {
	store  store.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewBackupService creates a new backup service
func NewBackupService(st store.Store, logger *zap.Logger) *BackupService {
	return &BackupService{store: st, logger: logger, now: time.Now}
}

// Export writes every stored profile to a file
func (s *BackupService) Export(ctx context.Context, outputPath string) (int, error) {
	file, err := os.Create(outputPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	n, err := s.ExportToWriter(ctx, file)
	if err != nil {
		return 0, err
	}
	if err := file.Close(); err != nil {
		return 0, fmt.Errorf("failed to close output file: %w", err)
	}

	s.logger.Info("profiles exported", zap.String("path", outputPath), zap.Int("profiles", n))
	return n, nil
}

// ExportToWriter writes every stored profile as indented JSON
func (s *BackupService) ExportToWriter(ctx context.Context, w io.Writer) (int, error) {
	profiles, err := s.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to export profiles: %w", err)
	}

	backup := BackupData{
		Version:    BackupVersion,
		ExportedAt: s.now().UTC(),
		Profiles:   make([]ProfileBackup, 0, len(profiles)),
	}
	for _, p := range profiles {
		backup.Profiles = append(backup.Profiles, ProfileBackup{Profile: p, PINHash: p.PINHash})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return 0, fmt.Errorf("failed to encode backup: %w", err)
	}
	return len(backup.Profiles), nil
}

// Import restores profiles from a backup file
func (s *BackupService) Import(ctx context.Context, inputPath string) (ImportStats, error) {
	file, err := os.Open(inputPath)
	if err != nil {
		return ImportStats{}, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(ctx, file)
}

// ImportFromReader restores profiles from a backup reader. Profiles whose name
// is already stored are skipped, never overwritten.
func (s *BackupService) ImportFromReader(ctx context.Context, reader io.Reader) (ImportStats, error) {
	var backup BackupData
	if err := json.NewDecoder(reader).Decode(&backup); err != nil {
		return ImportStats{}, fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version != BackupVersion {
		return ImportStats{}, fmt.Errorf("unsupported backup version %q", backup.Version)
	}

	s.logger.Info("importing backup",
		zap.Time("exported_at", backup.ExportedAt),
		zap.Int("profiles", len(backup.Profiles)))

	var stats ImportStats
	for _, b := range backup.Profiles {
		p := b.Profile
		p.PINHash = b.PINHash
		p.IsGuest = false

		_, err := s.store.Create(ctx, p)
		switch {
		case errors.Is(err, store.ErrNameTaken), errors.Is(err, store.ErrFriendCodeTaken):
			s.logger.Warn("skipping existing profile", zap.String("name", p.Name), zap.Error(err))
			stats.Skipped++
		case err != nil:
			return stats, fmt.Errorf("failed to import profile %s: %w", p.Name, err)
		default:
			stats.Created++
		}
	}

	s.logger.Info("backup import completed", zap.Int("created", stats.Created), zap.Int("skipped", stats.Skipped))
	return stats, nil
}
