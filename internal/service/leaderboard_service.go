package service

import (
	"context"
	"slices"
	"strings"

	"go.uber.org/zap"

	"nextgenacademy/internal/catalog"
	"nextgenacademy/internal/models"
	"nextgenacademy/internal/progression"
	"nextgenacademy/internal/store"
)

const (
	// boardSize bounds how many stored learners the xp board pulls in
	boardSize = 50
	// championsSize is how many rows the championship board shows
	championsSize = 5
)

// Standings is a ranked read model of stored learners, usually backed by redis
type Standings interface {
	TopByXP(ctx context.Context, n int) ([]models.LeaderboardEntry, error)
	TopByWins(ctx context.Context, n int) ([]models.LeaderboardEntry, error)
}

// LeaderboardService builds the xp and championship boards
type LeaderboardService struct {
	catalog   *catalog.Catalog
	store     store.Store
	standings Standings
	logger    *zap.Logger
}

// NewLeaderboardService creates a leaderboard service; standings may be nil
func NewLeaderboardService(c *catalog.Catalog, st store.Store, standings Standings, logger *zap.Logger) *LeaderboardService {
	return &LeaderboardService{catalog: c, store: st, standings: standings, logger: logger}
}

func legendEntry(l models.Legend) models.LeaderboardEntry {
	return models.LeaderboardEntry{
		Name:             l.Name,
		XP:               l.XP,
		Level:            progression.Level(l.XP),
		ChampionshipWins: l.ChampionshipWins,
		Avatar: models.AvatarConfig{
			Color:     l.Color,
			Eyes:      "Normal",
			Mouth:     "Smile",
			Accessory: l.Accessory,
		},
	}
}

func profileEntry(p models.Profile) models.LeaderboardEntry {
	return models.LeaderboardEntry{
		Name:             p.Name,
		XP:               p.XP,
		Level:            p.Level,
		ChampionshipWins: p.ChampionshipWins,
		Avatar:           p.Avatar,
	}
}

func friendEntry(f models.FriendRef) models.LeaderboardEntry {
	return models.LeaderboardEntry{
		Name:             f.Name,
		XP:               f.XP,
		Level:            f.Level,
		ChampionshipWins: f.ChampionshipWins,
		Avatar:           f.Avatar,
		IsFriend:         true,
	}
}

// board collects entries keyed by lowercase name; later puts replace earlier ones
type board struct {
	order   []string
	entries map[string]models.LeaderboardEntry
}

func newBoard() *board {
	return &board{entries: make(map[string]models.LeaderboardEntry)}
}

func (b *board) put(e models.LeaderboardEntry) {
	key := strings.ToLower(e.Name)
	if _, ok := b.entries[key]; !ok {
		b.order = append(b.order, key)
	}
	b.entries[key] = e
}

func (b *board) friend(f models.FriendRef) {
	key := strings.ToLower(f.Name)
	if e, ok := b.entries[key]; ok {
		e.IsFriend = true
		e.ChampionshipWins = f.ChampionshipWins
		b.entries[key] = e
		return
	}
	b.put(friendEntry(f))
}

func (b *board) ranked(less func(a, b models.LeaderboardEntry) int) []models.LeaderboardEntry {
	out := make([]models.LeaderboardEntry, 0, len(b.order))
	for _, key := range b.order {
		out = append(out, b.entries[key])
	}
	slices.SortStableFunc(out, less)
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

func byXP(a, b models.LeaderboardEntry) int { return b.XP - a.XP }

func byWins(a, b models.LeaderboardEntry) int {
	if a.ChampionshipWins != b.ChampionshipWins {
		return b.ChampionshipWins - a.ChampionshipWins
	}
	return b.XP - a.XP
}

// stored returns the top stored learners, from standings when available
func (s *LeaderboardService) stored(ctx context.Context, top func(context.Context, int) ([]models.LeaderboardEntry, error), n int, less func(a, b models.LeaderboardEntry) int) []models.LeaderboardEntry {
	if s.standings != nil {
		entries, err := top(ctx, n)
		if err == nil {
			return entries
		}
		s.logger.Warn("leaderboard cache unavailable, reading store", zap.Error(err))
	}

	profiles, err := s.store.List(ctx)
	if err != nil {
		s.logger.Warn("failed to list profiles for leaderboard", zap.Error(err))
		return nil
	}
	entries := make([]models.LeaderboardEntry, 0, len(profiles))
	for _, p := range profiles {
		entries = append(entries, profileEntry(p))
	}
	slices.SortStableFunc(entries, less)
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// XPBoard ranks legends, stored learners, the caller and the caller's friends by xp
func (s *LeaderboardService) XPBoard(ctx context.Context, me models.Profile) []models.LeaderboardEntry {
	b := newBoard()
	for _, l := range s.catalog.Legends() {
		b.put(legendEntry(l))
	}

	var top func(context.Context, int) ([]models.LeaderboardEntry, error)
	if s.standings != nil {
		top = s.standings.TopByXP
	}
	for _, e := range s.stored(ctx, top, boardSize, byXP) {
		e.Rank = 0
		b.put(e)
	}

	current := profileEntry(me)
	current.IsCurrentUser = true
	b.put(current)

	for _, f := range me.Friends {
		if strings.EqualFold(f.Name, me.Name) {
			continue
		}
		b.friend(f)
	}
	return b.ranked(byXP)
}

// Champions returns the top learners by championship wins
func (s *LeaderboardService) Champions(ctx context.Context, me models.Profile) []models.LeaderboardEntry {
	b := newBoard()
	for _, l := range s.catalog.Legends() {
		b.put(legendEntry(l))
	}

	var top func(context.Context, int) ([]models.LeaderboardEntry, error)
	if s.standings != nil {
		top = s.standings.TopByWins
	}
	for _, e := range s.stored(ctx, top, championsSize, byWins) {
		e.Rank = 0
		b.put(e)
	}

	current := profileEntry(me)
	current.IsCurrentUser = true
	b.put(current)

	ranked := b.ranked(byWins)
	if len(ranked) > championsSize {
		ranked = ranked[:championsSize]
	}
	return ranked
}
