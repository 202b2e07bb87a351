package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nextgenacademy/internal/models"
	"nextgenacademy/internal/store"
	"nextgenacademy/internal/validation"
)

type blocklist map[string]bool

func (b blocklist) IsBlockedName(ctx context.Context, name string) (bool, error) {
	return b[name], nil
}

type brokenFilter struct{}

func (brokenFilter) IsBlockedName(ctx context.Context, name string) (bool, error) {
	return false, errors.New("database is gone")
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in, err := f.auth.Register(ctx, "  Star   Coder ", "4321")
	require.NoError(t, err)
	assert.Equal(t, "Star Coder", in.Profile.Name)
	assert.Regexp(t, `^ST-[0-9A-Z]{4}$`, in.Profile.FriendCode)
	assert.NotEmpty(t, in.Token)
	assert.Equal(t, 1, f.sessions.Len())

	stored, err := f.store.FindByName(ctx, "star coder")
	require.NoError(t, err)
	assert.NotEqual(t, "4321", stored.PINHash)

	again, err := f.auth.Login(ctx, "STAR CODER", "4321")
	require.NoError(t, err)
	assert.Equal(t, in.Profile.FriendCode, again.Profile.FriendCode)

	sess, err := f.auth.Authenticate(again.Token)
	require.NoError(t, err)
	assert.Equal(t, again.Session.ID, sess.ID)
}

func TestRegisterRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "Nova")

	_, err := f.auth.Register(ctx, "nova", "1111")
	assert.ErrorIs(t, err, store.ErrNameTaken)

	var verr validation.ValidationError
	_, err = f.auth.Register(ctx, "Robo!", "1111")
	assert.ErrorAs(t, err, &verr)

	_, err = f.auth.Register(ctx, "Robo", "12a4")
	assert.ErrorAs(t, err, &verr)
}

func TestLoginFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "Nova")

	_, err := f.auth.Login(ctx, "Nobody", "1234")
	assert.ErrorIs(t, err, ErrUnknownHero)

	_, err = f.auth.Login(ctx, "Nova", "9999")
	assert.ErrorIs(t, err, ErrWrongPIN)

	var verr validation.ValidationError
	_, err = f.auth.Login(ctx, "", "")
	assert.ErrorAs(t, err, &verr)
}

func TestNameFilter(t *testing.T) {
	f := newFixture(t)
	f.auth.filter = blocklist{"Meanie": true}

	_, err := f.auth.Register(context.Background(), "Meanie", "1234")
	assert.ErrorIs(t, err, ErrBlockedName)

	f.auth.filter = brokenFilter{}
	_, err = f.auth.Register(context.Background(), "Kindly", "1234")
	assert.NoError(t, err, "an unavailable filter must not block sign-up")
}

func TestGuestIsNeverStored(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in, err := f.auth.Guest(ctx)
	require.NoError(t, err)
	assert.True(t, in.Profile.IsGuest)
	assert.Equal(t, models.GuestName, in.Profile.Name)

	list, err := f.store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	in, err := f.auth.Register(context.Background(), "Nova", "1234")
	require.NoError(t, err)

	require.NoError(t, f.auth.Logout(in.Session.ID))
	assert.ErrorIs(t, f.auth.Logout(in.Session.ID), ErrSessionNotFound)

	_, err = f.auth.Authenticate(in.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionExpiry(t *testing.T) {
	m := NewSessionManager(time.Minute)
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	a := m.Open(models.NewProfile("Nova", "NO-AAAA", "#6366f1"))
	m.Open(models.NewGuestProfile())
	assert.Equal(t, 2, m.Len())

	now = now.Add(2 * time.Minute)
	_, err := m.Get(a.ID)
	assert.ErrorIs(t, err, ErrSessionExpired)

	assert.Equal(t, 1, m.CleanupExpired())
	assert.Zero(t, m.Len())
	assert.Empty(t, m.learners)
}

func TestSessionManagerRun(t *testing.T) {
	m := NewSessionManager(time.Millisecond)
	m.Open(models.NewProfile("Nova", "NO-AAAA", "#6366f1"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx, 5*time.Millisecond, zap.NewNop()) }()

	assert.Eventually(t, func() bool { return m.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	assert.NoError(t, <-done)
}

func TestRegisterRecordsStanding(t *testing.T) {
	f := newFixture(t)

	f.register(t, "Nova")

	assert.Equal(t, []string{"Nova"}, f.standings.recorded)
}

func TestRegisterSurvivesStandingFailure(t *testing.T) {
	f := newFixture(t)
	f.standings.err = errors.New("redis down")

	in, err := f.auth.Register(context.Background(), "Nova", "1234")

	require.NoError(t, err)
	assert.Equal(t, "Nova", in.Profile.Name)
}
