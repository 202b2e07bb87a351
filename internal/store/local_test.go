package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nextgenacademy/internal/models"
)

func newProfile(name, code string) models.Profile {
	p := models.NewProfile(name, code, "#6366f1")
	p.PINHash = "hash-" + name
	return p
}

func TestLocalStoreCreateAndFind(t *testing.T) {
	ctx := context.Background()
	s, err := OpenLocal(filepath.Join(t.TempDir(), "profiles.json"))
	require.NoError(t, err)

	created, err := s.Create(ctx, newProfile("Nova", "NO-AAAA"))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := s.FindByName(ctx, "nova")
	require.NoError(t, err)
	assert.Equal(t, "Nova", got.Name)
	assert.Equal(t, "hash-Nova", got.PINHash)

	_, err = s.FindByName(ctx, "Orion")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStoreRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	s, err := OpenLocal(filepath.Join(t.TempDir(), "profiles.json"))
	require.NoError(t, err)

	_, err = s.Create(ctx, newProfile("Nova", "NO-AAAA"))
	require.NoError(t, err)

	_, err = s.Create(ctx, newProfile("NOVA", "NO-BBBB"))
	assert.ErrorIs(t, err, ErrNameTaken)

	_, err = s.Create(ctx, newProfile("Orion", "NO-AAAA"))
	assert.ErrorIs(t, err, ErrFriendCodeTaken)
}

func TestLocalStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "profiles.json")

	s, err := OpenLocal(path)
	require.NoError(t, err)
	p, err := s.Create(ctx, newProfile("Nova", "NO-AAAA"))
	require.NoError(t, err)

	spun := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	p.XP = 320
	p.Level = 3
	p.CompletedLessons = []string{"python-0", "python-1"}
	p.Friends = []models.FriendRef{{Code: "ZX-0001", Name: "CodeNinja", Level: 2}}
	p.LastSpinDate = &spun
	require.NoError(t, s.Update(ctx, p))

	reopened, err := OpenLocal(path)
	require.NoError(t, err)
	got, err := reopened.FindByName(ctx, "Nova")
	require.NoError(t, err)

	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, 320, got.XP)
	assert.Equal(t, []string{"python-0", "python-1"}, got.CompletedLessons)
	assert.Equal(t, "CodeNinja", got.Friends[0].Name)
	assert.Equal(t, "hash-Nova", got.PINHash)
	require.NotNil(t, got.LastSpinDate)
	assert.True(t, spun.Equal(*got.LastSpinDate))

	next, err := reopened.Create(ctx, newProfile("Orion", "OR-AAAA"))
	require.NoError(t, err)
	assert.Greater(t, next.ID, p.ID)
}

func TestLocalStoreUpdateKeepsIdentity(t *testing.T) {
	ctx := context.Background()
	s, err := OpenLocal(filepath.Join(t.TempDir(), "profiles.json"))
	require.NoError(t, err)
	created, err := s.Create(ctx, newProfile("Nova", "NO-AAAA"))
	require.NoError(t, err)

	change := created
	change.Name = "nova"
	change.PINHash = ""
	change.Coins = 999
	require.NoError(t, s.Update(ctx, change))

	got, err := s.FindByName(ctx, "Nova")
	require.NoError(t, err)
	assert.Equal(t, "Nova", got.Name)
	assert.Equal(t, "hash-Nova", got.PINHash)
	assert.Equal(t, 999, got.Coins)

	assert.ErrorIs(t, s.Update(ctx, newProfile("Ghost", "GH-0000")), ErrNotFound)
}

func TestLocalStoreListOrdersByXP(t *testing.T) {
	ctx := context.Background()
	s, err := OpenLocal(filepath.Join(t.TempDir(), "profiles.json"))
	require.NoError(t, err)

	for i, name := range []string{"Low", "High", "Mid"} {
		p, err := s.Create(ctx, newProfile(name, name[:2]+"-000"+string(rune('0'+i))))
		require.NoError(t, err)
		p.XP = map[string]int{"Low": 10, "High": 900, "Mid": 300}[name]
		require.NoError(t, s.Update(ctx, p))
	}

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"High", "Mid", "Low"}, []string{list[0].Name, list[1].Name, list[2].Name})
}
