// Package cache mirrors learner standings into Redis sorted sets so the
// leaderboards can be read without scanning every stored profile.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"nextgenacademy/internal/models"
)

// Key layout
const (
	keyXP   = "academy:leaderboard:xp"
	keyWins = "academy:leaderboard:wins"
	keyInfo = "academy:leaderboard:info"
)

// ErrUnavailable is returned when Redis cannot be reached
var ErrUnavailable = errors.New("leaderboard cache unavailable")

// Config holds Redis connection settings
type Config struct {
	Addr         string
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns timeouts suited to a request path
func DefaultConfig(addr string) Config {
	return Config{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// Leaderboard keeps xp and championship standings in sorted sets
type Leaderboard struct {
	client redis.Cmdable
	closer func() error
}

// Open connects to Redis and checks it answers
func Open(ctx context.Context, cfg Config) (*Leaderboard, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &Leaderboard{client: client, closer: client.Close}, nil
}

// New wraps an existing client
func New(client redis.Cmdable) *Leaderboard {
	return &Leaderboard{client: client, closer: func() error { return nil }}
}

// Close releases the connection pool
func (l *Leaderboard) Close() error {
	return l.closer()
}

// entry is what the info hash stores per learner
type entry struct {
	Name             string              `json:"name"`
	XP               int                 `json:"xp"`
	Level            int                 `json:"level"`
	ChampionshipWins int                 `json:"championshipWins"`
	Avatar           models.AvatarConfig `json:"avatar"`
}

func encodeEntry(p models.Profile) ([]byte, error) {
	data, err := json.Marshal(entry{
		Name:             p.Name,
		XP:               p.XP,
		Level:            p.Level,
		ChampionshipWins: p.ChampionshipWins,
		Avatar:           p.Avatar,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entry: %w", err)
	}
	return data, nil
}

// Record stores the learner's current standing
func (l *Leaderboard) Record(ctx context.Context, p models.Profile) error {
	if p.IsGuest || p.Name == "" {
		return nil
	}

	data, err := encodeEntry(p)
	if err != nil {
		return err
	}

	pipe := l.client.Pipeline()
	pipe.ZAdd(ctx, keyXP, redis.Z{Score: float64(p.XP), Member: p.Name})
	pipe.ZAdd(ctx, keyWins, redis.Z{Score: float64(p.ChampionshipWins), Member: p.Name})
	pipe.HSet(ctx, keyInfo, p.Name, data)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record standing for %s: %w", p.Name, err)
	}
	return nil
}

// Rebuild replaces every standing with the given profiles in one transaction
func (l *Leaderboard) Rebuild(ctx context.Context, profiles []models.Profile) error {
	pipe := l.client.TxPipeline()
	pipe.Del(ctx, keyXP, keyWins, keyInfo)

	xp := make([]redis.Z, 0, len(profiles))
	wins := make([]redis.Z, 0, len(profiles))
	info := make(map[string]any, len(profiles))
	for _, p := range profiles {
		if p.IsGuest {
			continue
		}
		data, err := encodeEntry(p)
		if err != nil {
			return err
		}
		xp = append(xp, redis.Z{Score: float64(p.XP), Member: p.Name})
		wins = append(wins, redis.Z{Score: float64(p.ChampionshipWins), Member: p.Name})
		info[p.Name] = data
	}

	if len(xp) > 0 {
		pipe.ZAdd(ctx, keyXP, xp...)
		pipe.ZAdd(ctx, keyWins, wins...)
		pipe.HSet(ctx, keyInfo, info)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to rebuild leaderboard: %w", err)
	}
	return nil
}

// TopByXP returns up to n learners, highest xp first
func (l *Leaderboard) TopByXP(ctx context.Context, n int) ([]models.LeaderboardEntry, error) {
	return l.top(ctx, keyXP, n)
}

// TopByWins returns up to n learners, most championship wins first
func (l *Leaderboard) TopByWins(ctx context.Context, n int) ([]models.LeaderboardEntry, error) {
	return l.top(ctx, keyWins, n)
}

func (l *Leaderboard) top(ctx context.Context, key string, n int) ([]models.LeaderboardEntry, error) {
	if n <= 0 {
		return []models.LeaderboardEntry{}, nil
	}

	names, err := l.client.ZRevRange(ctx, key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if len(names) == 0 {
		return []models.LeaderboardEntry{}, nil
	}

	data, err := l.client.HMGet(ctx, keyInfo, names...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard info: %w", err)
	}

	entries := make([]models.LeaderboardEntry, 0, len(names))
	for _, v := range data {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var e entry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			continue
		}
		entries = append(entries, models.LeaderboardEntry{
			Rank:             len(entries) + 1,
			Name:             e.Name,
			XP:               e.XP,
			Level:            e.Level,
			ChampionshipWins: e.ChampionshipWins,
			Avatar:           e.Avatar,
		})
	}
	return entries, nil
}
