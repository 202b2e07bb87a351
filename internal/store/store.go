// Package store defines where learner profiles live and provides the local
// file fallback used when no database is configured.
package store

import (
	"context"
	"errors"

	"nextgenacademy/internal/models"
)

var (
	ErrNameTaken       = errors.New("that hero name is already taken")
	ErrFriendCodeTaken = errors.New("friend code already in use")
	ErrNotFound        = errors.New("profile not found")
)

// Store persists learner profiles. Names are matched case-insensitively.
type Store interface {
	// FindByName returns ErrNotFound when no profile has the name
	FindByName(ctx context.Context, name string) (models.Profile, error)

	// Create inserts a new profile, failing with ErrNameTaken or ErrFriendCodeTaken
	Create(ctx context.Context, p models.Profile) (models.Profile, error)

	// Update overwrites the stored profile with the same name
	Update(ctx context.Context, p models.Profile) error

	// List returns every stored profile ordered by xp descending
	List(ctx context.Context) ([]models.Profile, error)
}
