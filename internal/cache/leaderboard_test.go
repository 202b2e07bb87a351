package cache

import (
	"context"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nextgenacademy/internal/models"
)

// openTestLeaderboard uses the Redis named by ACADEMY_TEST_REDIS (database 15,
// flushed) and an in-process miniredis otherwise
func openTestLeaderboard(t *testing.T) *Leaderboard {
	t.Helper()
	addr, db := os.Getenv("ACADEMY_TEST_REDIS"), 15
	if addr == "" {
		addr, db = miniredis.RunT(t).Addr(), 0
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.FlushDB(context.Background()).Err())
	return New(client)
}

func profile(name string, xp, wins int) models.Profile {
	p := models.NewProfile(name, name[:2]+"-0000", "#6366f1")
	p.XP = xp
	p.Level = 1 + xp/500
	p.ChampionshipWins = wins
	return p
}

func TestRecordAndTop(t *testing.T) {
	lb := openTestLeaderboard(t)
	ctx := context.Background()

	require.NoError(t, lb.Record(ctx, profile("Nova", 900, 1)))
	require.NoError(t, lb.Record(ctx, profile("Orion", 2500, 0)))
	require.NoError(t, lb.Record(ctx, profile("Vega", 300, 6)))
	require.NoError(t, lb.Record(ctx, models.NewGuestProfile()))

	byXP, err := lb.TopByXP(ctx, 10)
	require.NoError(t, err)
	require.Len(t, byXP, 3, "guests are never ranked")
	assert.Equal(t, "Orion", byXP[0].Name)
	assert.Equal(t, 1, byXP[0].Rank)
	assert.Equal(t, "Vega", byXP[2].Name)

	byWins, err := lb.TopByWins(ctx, 1)
	require.NoError(t, err)
	require.Len(t, byWins, 1)
	assert.Equal(t, "Vega", byWins[0].Name)
	assert.Equal(t, 6, byWins[0].ChampionshipWins)
}

func TestRecordOverwrites(t *testing.T) {
	lb := openTestLeaderboard(t)
	ctx := context.Background()

	require.NoError(t, lb.Record(ctx, profile("Nova", 100, 0)))
	require.NoError(t, lb.Record(ctx, profile("Nova", 1200, 2)))

	top, err := lb.TopByXP(ctx, 5)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, 1200, top[0].XP)
	assert.Equal(t, 2, top[0].ChampionshipWins)
}

func TestRebuild(t *testing.T) {
	lb := openTestLeaderboard(t)
	ctx := context.Background()

	require.NoError(t, lb.Record(ctx, profile("Stale", 99999, 0)))
	require.NoError(t, lb.Rebuild(ctx, []models.Profile{profile("Nova", 10, 0), profile("Orion", 20, 0)}))

	top, err := lb.TopByXP(ctx, 5)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Orion", top[0].Name)
}

func TestTopWithNothingRequested(t *testing.T) {
	lb := New(nil)

	top, err := lb.TopByXP(context.Background(), 0)

	require.NoError(t, err)
	assert.Empty(t, top)
}
