package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"nextgenacademy/internal/models"
	"nextgenacademy/internal/store"
)

// StandingRecorder mirrors a learner's standing onto a leaderboard
type StandingRecorder interface {
	Record(ctx context.Context, p models.Profile) error
}

// Persister accepts profile snapshots for storage
type Persister interface {
	Enqueue(p models.Profile)
}

// Syncer writes profile snapshots in the background. Snapshots of the same
// learner queued before a write are coalesced into the newest one. A failed
// write is requeued unless a newer snapshot arrived meanwhile; the live
// profile stays authoritative.
type Syncer struct {
	store     store.Store
	standings StandingRecorder
	logger    *zap.Logger
	timeout   time.Duration
	retry     time.Duration

	mu      sync.Mutex
	pending map[string]models.Profile
	wake    chan struct{}
}

// NewSyncer creates a syncer writing to st; standings may be nil
func NewSyncer(st store.Store, standings StandingRecorder, logger *zap.Logger) *Syncer {
	return &Syncer{
		store:     st,
		standings: standings,
		logger:    logger,
		timeout:   10 * time.Second,
		retry:     30 * time.Second,
		pending:   make(map[string]models.Profile),
		wake:      make(chan struct{}, 1),
	}
}

// Enqueue schedules p for writing. Guest profiles are ignored.
func (s *Syncer) Enqueue(p models.Profile) {
	if p.IsGuest {
		return
	}

	s.mu.Lock()
	s.pending[strings.ToLower(p.Name)] = p.Clone()
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// requeue puts back a snapshot whose write failed, unless a newer one is queued
func (s *Syncer) requeue(p models.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(p.Name)
	if _, newer := s.pending[key]; !newer {
		s.pending[key] = p
	}
}

// Pending returns how many learners are waiting to be written
func (s *Syncer) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Run writes queued snapshots until ctx is done, then drains what is left.
// Failed writes are retried on the next wake-up or retry tick.
func (s *Syncer) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.retry)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			n := s.Flush(ctx)
			if n > 0 {
				s.logger.Info("flushed pending profiles on shutdown", zap.Int("profiles", n))
			}
			if left := s.Pending(); left > 0 {
				s.logger.Error("profiles not saved on shutdown", zap.Int("profiles", left))
			}
			return nil
		case <-s.wake:
			s.Flush(ctx)
		case <-ticker.C:
			if s.Pending() > 0 {
				s.Flush(ctx)
			}
		}
	}
}

// Flush writes every pending snapshot and returns how many were written.
// Writes are not cut short when ctx is cancelled; each one has its own timeout.
func (s *Syncer) Flush(ctx context.Context) int {
	s.mu.Lock()
	batch := s.pending
	s.pending = make(map[string]models.Profile)
	s.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	written := 0
	for _, p := range batch {
		err := s.write(ctx, p)
		if err == nil {
			written++
			continue
		}
		if errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("dropping snapshot of missing profile", zap.String("name", p.Name))
			continue
		}
		s.logger.Warn("failed to save profile, will retry",
			zap.String("name", p.Name),
			zap.Error(err),
		)
		s.requeue(p)
	}
	return written
}

func (s *Syncer) write(ctx context.Context, p models.Profile) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.store.Update(ctx, p); err != nil {
		return err
	}

	if s.standings != nil {
		if err := s.standings.Record(ctx, p); err != nil {
			s.logger.Debug("failed to mirror standing", zap.String("name", p.Name), zap.Error(err))
		}
	}
	return nil
}
