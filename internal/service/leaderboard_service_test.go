package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nextgenacademy/internal/catalog"
	"nextgenacademy/internal/models"
)

type stubStandings struct {
	byXP   []models.LeaderboardEntry
	byWins []models.LeaderboardEntry
	err    error
}

func (s stubStandings) TopByXP(ctx context.Context, n int) ([]models.LeaderboardEntry, error) {
	return s.byXP, s.err
}

func (s stubStandings) TopByWins(ctx context.Context, n int) ([]models.LeaderboardEntry, error) {
	return s.byWins, s.err
}

func names(entries []models.LeaderboardEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func find(t *testing.T, entries []models.LeaderboardEntry, name string) models.LeaderboardEntry {
	t.Helper()
	for _, e := range entries {
		if e.Name == name {
			return e
		}
	}
	t.Fatalf("%s not on the board %v", name, names(entries))
	return models.LeaderboardEntry{}
}

func TestXPBoardFromStore(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	other := models.NewProfile("Orion", "OR-0001", "#3b82f6")
	other.XP = 10000
	_, err := st.Create(ctx, other)
	require.NoError(t, err)

	svc := NewLeaderboardService(catalog.MustDefault(), st, nil, zap.NewNop())
	me := models.NewProfile("Nova", "NO-0001", "#6366f1")
	me.XP = 120
	me.Friends = []models.FriendRef{
		{Code: "PX-0001", Name: "PixelWizard", XP: 1, ChampionshipWins: 99},
		{Code: "ZZ-0001", Name: "Zed", XP: 40},
	}

	board := svc.XPBoard(ctx, me)

	assert.Equal(t, "CodeNinja", board[0].Name)
	assert.Equal(t, 1, board[0].Rank)
	assert.Equal(t, 10000, find(t, board, "Orion").XP)

	mine := find(t, board, "Nova")
	assert.True(t, mine.IsCurrentUser)

	pixel := find(t, board, "PixelWizard")
	assert.True(t, pixel.IsFriend)
	assert.Equal(t, 11200, pixel.XP, "a friend matching a legend keeps the legend's xp")
	assert.Equal(t, 99, pixel.ChampionshipWins)

	zed := find(t, board, "Zed")
	assert.True(t, zed.IsFriend)
	assert.Equal(t, "Zed", board[len(board)-1].Name)

	for i := 1; i < len(board); i++ {
		assert.GreaterOrEqual(t, board[i-1].XP, board[i].XP)
		assert.Equal(t, i+1, board[i].Rank)
	}
}

func TestXPBoardPrefersStandings(t *testing.T) {
	st := openStore(t)
	standings := stubStandings{byXP: []models.LeaderboardEntry{{Rank: 1, Name: "Cached", XP: 20000}}}
	svc := NewLeaderboardService(catalog.MustDefault(), st, standings, zap.NewNop())

	board := svc.XPBoard(context.Background(), models.NewProfile("Nova", "NO-0001", "#6366f1"))

	assert.Equal(t, "Cached", board[0].Name)
}

func TestXPBoardFallsBackWhenStandingsFail(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	orion := models.NewProfile("Orion", "OR-0001", "#3b82f6")
	orion.XP = 30000
	_, err := st.Create(ctx, orion)
	require.NoError(t, err)

	svc := NewLeaderboardService(catalog.MustDefault(), st, stubStandings{err: errors.New("down")}, zap.NewNop())

	board := svc.XPBoard(ctx, models.NewProfile("Nova", "NO-0001", "#6366f1"))

	assert.Equal(t, "Orion", board[0].Name)
}

func TestChampions(t *testing.T) {
	svc := NewLeaderboardService(catalog.MustDefault(), openStore(t), nil, zap.NewNop())
	me := models.NewProfile("Nova", "NO-0001", "#6366f1")
	me.ChampionshipWins = 20

	board := svc.Champions(context.Background(), me)

	require.Len(t, board, championsSize)
	assert.Equal(t, []string{"GlitchMaster", "Nova", "LogicLord", "CodeNinja", "PixelWizard"}, names(board))
	assert.True(t, board[1].IsCurrentUser)
}
