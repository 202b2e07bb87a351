package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nextgenacademy/internal/models"
	"nextgenacademy/internal/store"
)

func TestProfileCreateAndFind(t *testing.T) {
	repo := NewProfileRepository(openTestDB(t))
	ctx := context.Background()

	p := models.NewProfile("Nova", "NO-7QX2", "#ec4899")
	p.PINHash = "bcrypt-hash"
	created, err := repo.Create(ctx, p)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := repo.FindByName(ctx, "NOVA")
	require.NoError(t, err)

	if diff := cmp.Diff(created, got, cmpopts.IgnoreFields(models.Profile{}, "CreatedAt", "UpdatedAt")); diff != "" {
		t.Errorf("stored profile differs (-created +found):\n%s", diff)
	}
	assert.Equal(t, []string{}, got.CompletedLessons)
	assert.Equal(t, []models.FriendRef{}, got.Friends)
}

func TestProfileFindMissing(t *testing.T) {
	repo := NewProfileRepository(openTestDB(t))

	_, err := repo.FindByName(context.Background(), "Nobody")

	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestProfileCreateDuplicates(t *testing.T) {
	repo := NewProfileRepository(openTestDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, models.NewProfile("Nova", "NO-0001", "#6366f1"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, models.NewProfile("nova", "NO-0002", "#6366f1"))
	assert.ErrorIs(t, err, store.ErrNameTaken)

	_, err = repo.Create(ctx, models.NewProfile("Orion", "NO-0001", "#6366f1"))
	assert.ErrorIs(t, err, store.ErrFriendCodeTaken)
}

func TestUniqueConflictNamesColumn(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	insert := "INSERT INTO profiles (name, pin_hash, friend_code) VALUES (?, ?, ?)"

	_, err := db.ExecContext(ctx, insert, "Nova", "hash", "NO-0001")
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, insert, "Orion", "hash", "NO-0001")
	require.True(t, db.Dialect.IsUniqueViolation(err))
	assert.ErrorIs(t, uniqueConflict(err), store.ErrFriendCodeTaken)

	_, err = db.ExecContext(ctx, insert, "NOVA", "hash", "NO-0002")
	require.True(t, db.Dialect.IsUniqueViolation(err))
	assert.ErrorIs(t, uniqueConflict(err), store.ErrNameTaken)

	tests := []struct {
		msg  string
		want error
	}{
		{`pq: duplicate key value violates unique constraint "profiles_friend_code_key"`, store.ErrFriendCodeTaken},
		{`pq: duplicate key value violates unique constraint "idx_profiles_name"`, store.ErrNameTaken},
		{`Error 1062 (23000): Duplicate entry 'NO-0001' for key 'profiles.friend_code'`, store.ErrFriendCodeTaken},
		{`Error 1062 (23000): Duplicate entry 'Nova' for key 'profiles.name'`, store.ErrNameTaken},
	}
	for _, tt := range tests {
		assert.ErrorIs(t, uniqueConflict(errors.New(tt.msg)), tt.want, tt.msg)
	}
}

func TestProfileUpdateRoundTrip(t *testing.T) {
	repo := NewProfileRepository(openTestDB(t))
	ctx := context.Background()

	p, err := repo.Create(ctx, models.NewProfile("Nova", "NO-0001", "#6366f1"))
	require.NoError(t, err)

	spun := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	p.XP = 1350
	p.Level = 7
	p.Coins = 412
	p.CompletedLessons = []string{"python-0", "python-1"}
	p.Friends = []models.FriendRef{{Code: "ZX-9Q2W", Name: "PixelCoder", XP: 2100, Level: 5, ChampionshipWins: 3}}
	p.Avatar.Accessory = models.SecretAccessory
	p.UnlockedSecret = true
	p.IsMuted = true
	p.ThemePreference = models.ThemeLight
	p.ChampionshipWins = 2
	p.StoryProgress = 3
	p.LastSpinDate = &spun
	require.NoError(t, repo.Update(ctx, p))

	got, err := repo.FindByName(ctx, "Nova")
	require.NoError(t, err)

	require.NotNil(t, got.LastSpinDate)
	assert.True(t, spun.Equal(*got.LastSpinDate))
	if diff := cmp.Diff(p, got, cmpopts.IgnoreFields(models.Profile{}, "CreatedAt", "UpdatedAt", "LastSpinDate")); diff != "" {
		t.Errorf("updated profile differs (-want +got):\n%s", diff)
	}
}

func TestProfileUpdateMissing(t *testing.T) {
	repo := NewProfileRepository(openTestDB(t))

	err := repo.Update(context.Background(), models.NewProfile("Ghost", "GH-0000", "#6366f1"))

	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestProfileList(t *testing.T) {
	repo := NewProfileRepository(openTestDB(t))
	ctx := context.Background()

	for name, xp := range map[string]int{"Low": 10, "High": 5000, "Mid": 700} {
		p, err := repo.Create(ctx, models.NewProfile(name, strings.ToUpper(name)+"-0001", "#6366f1"))
		require.NoError(t, err)
		p.XP = xp
		require.NoError(t, repo.Update(ctx, p))
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)

	var names []string
	for _, p := range list {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"High", "Mid", "Low"}, names)
}

func TestProfileBlockedName(t *testing.T) {
	db := openTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	_, err := db.LoadBlockedWords(ctx, strings.NewReader("meanie\n"))
	require.NoError(t, err)

	blocked, err := repo.IsBlockedName(ctx, "Captain Meanie")
	require.NoError(t, err)
	assert.True(t, blocked)

	blocked, err = repo.IsBlockedName(ctx, "Captain Nova")
	require.NoError(t, err)
	assert.False(t, blocked)
}
