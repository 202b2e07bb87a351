package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"nextgenacademy/internal/database"
	"nextgenacademy/internal/models"
	"nextgenacademy/internal/store"
)

const profileColumns = `id, name, pin_hash, friend_code, xp, level, coins, streak,
	avatar_config, completed_lessons, friends, theme_preference, is_muted,
	championship_wins, last_spin_date, unlocked_secret, story_progress,
	created_at, updated_at`

// ProfileRepository stores learner profiles in SQL
type ProfileRepository struct {
	db *database.DB
}

var _ store.Store = (*ProfileRepository)(nil)

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *database.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// FindByName retrieves a profile by name, ignoring case
func (r *ProfileRepository) FindByName(ctx context.Context, name string) (models.Profile, error) {
	return findByName(ctx, r.db, name)
}

func findByName(ctx context.Context, q database.DBTX, name string) (models.Profile, error) {
	query := "SELECT " + profileColumns + " FROM profiles WHERE LOWER(name) = LOWER(?)"
	p, err := scanProfile(q.QueryRowContext(ctx, query, name))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, store.ErrNotFound
	}
	if err != nil {
		return models.Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// uniqueConflict names the store error for a unique violation on profiles.
// Every dialect mentions the violated column or its constraint in the message.
func uniqueConflict(err error) error {
	if strings.Contains(strings.ToLower(err.Error()), "friend_code") {
		return store.ErrFriendCodeTaken
	}
	return store.ErrNameTaken
}

// Create inserts a new profile
func (r *ProfileRepository) Create(ctx context.Context, p models.Profile) (models.Profile, error) {
	avatar, completed, friends, err := encodeProfile(p)
	if err != nil {
		return models.Profile{}, err
	}

	now := time.Now().UTC()
	err = r.db.WithTx(ctx, func(tx *database.Tx) error {
		if _, err := findByName(ctx, tx, p.Name); err == nil {
			return store.ErrNameTaken
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		var codes int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM profiles WHERE friend_code = ?", p.FriendCode).Scan(&codes); err != nil {
			return fmt.Errorf("failed to check friend code: %w", err)
		}
		if codes > 0 {
			return store.ErrFriendCodeTaken
		}

		query := `
			INSERT INTO profiles (name, pin_hash, friend_code, xp, level, coins, streak,
				avatar_config, completed_lessons, friends, theme_preference, is_muted,
				championship_wins, last_spin_date, unlocked_secret, story_progress,
				created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		id, err := tx.ExecReturningID(ctx, query,
			p.Name, p.PINHash, p.FriendCode, p.XP, p.Level, p.Coins, p.Streak,
			avatar, completed, friends, p.ThemePreference, p.IsMuted,
			p.ChampionshipWins, nullTime(p.LastSpinDate), p.UnlockedSecret, p.StoryProgress,
			now, now,
		)
		if err != nil {
			if r.db.Dialect.IsUniqueViolation(err) {
				return uniqueConflict(err)
			}
			return fmt.Errorf("failed to create profile: %w", err)
		}
		p.ID = id
		return nil
	})
	if err != nil {
		return models.Profile{}, err
	}

	p.CreatedAt = now
	p.UpdatedAt = now
	return p, nil
}

// Update writes the mutable progression fields of the named profile
func (r *ProfileRepository) Update(ctx context.Context, p models.Profile) error {
	avatar, completed, friends, err := encodeProfile(p)
	if err != nil {
		return err
	}

	query := `
		UPDATE profiles
		SET xp = ?, level = ?, coins = ?, streak = ?, avatar_config = ?,
			completed_lessons = ?, friends = ?, theme_preference = ?, is_muted = ?,
			championship_wins = ?, last_spin_date = ?, unlocked_secret = ?,
			story_progress = ?, updated_at = ?
		WHERE LOWER(name) = LOWER(?)
	`
	result, err := r.db.ExecContext(ctx, query,
		p.XP, p.Level, p.Coins, p.Streak, avatar,
		completed, friends, p.ThemePreference, p.IsMuted,
		p.ChampionshipWins, nullTime(p.LastSpinDate), p.UnlockedSecret,
		p.StoryProgress, time.Now().UTC(),
		p.Name,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if rows == 0 {
		return store.ErrNotFound
	}
	return nil
}

// List returns all profiles, highest xp first
func (r *ProfileRepository) List(ctx context.Context) ([]models.Profile, error) {
	query := "SELECT " + profileColumns + " FROM profiles ORDER BY xp DESC, id ASC"
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// IsBlockedName reports whether the name contains a blocklisted word
func (r *ProfileRepository) IsBlockedName(ctx context.Context, name string) (bool, error) {
	return r.db.IsBlockedName(ctx, name)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (models.Profile, error) {
	var (
		p                          models.Profile
		avatar, completed, friends []byte
		lastSpin                   sql.NullTime
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.PINHash, &p.FriendCode, &p.XP, &p.Level, &p.Coins, &p.Streak,
		&avatar, &completed, &friends, &p.ThemePreference, &p.IsMuted,
		&p.ChampionshipWins, &lastSpin, &p.UnlockedSecret, &p.StoryProgress,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return models.Profile{}, err
	}

	if err := json.Unmarshal(avatar, &p.Avatar); err != nil {
		return models.Profile{}, fmt.Errorf("failed to decode avatar for %s: %w", p.Name, err)
	}
	if err := json.Unmarshal(completed, &p.CompletedLessons); err != nil {
		return models.Profile{}, fmt.Errorf("failed to decode completed lessons for %s: %w", p.Name, err)
	}
	if err := json.Unmarshal(friends, &p.Friends); err != nil {
		return models.Profile{}, fmt.Errorf("failed to decode friends for %s: %w", p.Name, err)
	}
	if p.CompletedLessons == nil {
		p.CompletedLessons = []string{}
	}
	if p.Friends == nil {
		p.Friends = []models.FriendRef{}
	}
	if lastSpin.Valid {
		t := lastSpin.Time
		p.LastSpinDate = &t
	}
	return p, nil
}

func encodeProfile(p models.Profile) (avatar, completed, friends string, err error) {
	a, err := json.Marshal(p.Avatar)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to encode avatar: %w", err)
	}
	if p.CompletedLessons == nil {
		p.CompletedLessons = []string{}
	}
	c, err := json.Marshal(p.CompletedLessons)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to encode completed lessons: %w", err)
	}
	if p.Friends == nil {
		p.Friends = []models.FriendRef{}
	}
	f, err := json.Marshal(p.Friends)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to encode friends: %w", err)
	}
	return string(a), string(c), string(f), nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
