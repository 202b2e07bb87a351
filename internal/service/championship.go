package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"nextgenacademy/internal/mascot"
	"nextgenacademy/internal/models"
	"nextgenacademy/internal/progression"
)

var (
	ErrMatchNotFound = errors.New("championship match not found")
	ErrMatchOver     = errors.New("championship match is already over")
)

// MatchStatus is the state of a timed championship match
type MatchStatus string

const (
	MatchPlaying MatchStatus = "playing"
	MatchWon     MatchStatus = "won"
	MatchLost    MatchStatus = "lost"
)

// Match is one timed attempt at the championship challenge
type Match struct {
	ID        string           `json:"id"`
	Challenge models.Challenge `json:"challenge"`
	StartedAt time.Time        `json:"startedAt"`
	Deadline  time.Time        `json:"deadline"`
	Status    MatchStatus      `json:"status"`
}

// Remaining returns the time left at now, never negative
func (m Match) Remaining(now time.Time) time.Duration {
	if d := m.Deadline.Sub(now); d > 0 {
		return d
	}
	return 0
}

// MatchAttempt is a graded championship submission
type MatchAttempt struct {
	Attempt
	Match Match `json:"match"`
}

// StartMatch opens a new match for the caller. The deadline is fixed here and
// checked against the clock on every submission.
func (s *GameService) StartMatch(sess *Session) (Match, models.Reaction) {
	ch := s.catalog.Challenge()
	now := s.now()

	m := &Match{
		ID:        uuid.NewString(),
		Challenge: ch,
		StartedAt: now,
		Deadline:  now.Add(time.Duration(ch.TimeLimitSecs) * time.Second),
		Status:    MatchPlaying,
	}

	l := sess.learner
	l.mu.Lock()
	for id, old := range l.matches {
		if old.Status != MatchPlaying || now.After(old.Deadline) {
			delete(l.matches, id)
		}
	}
	l.matches[m.ID] = m
	l.mu.Unlock()

	return *m, mascot.MatchStarted
}

// Match returns the current state of one of the caller's matches
func (s *GameService) Match(sess *Session, id string) (Match, error) {
	l := sess.learner
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.matches[id]
	if !ok {
		return Match{}, ErrMatchNotFound
	}
	s.expireLocked(m)
	return *m, nil
}

func (s *GameService) expireLocked(m *Match) {
	if m.Status == MatchPlaying && s.now().After(m.Deadline) {
		m.Status = MatchLost
	}
}

// SubmitMatch grades a championship solution. Only a pass received before the
// deadline wins, and a match can be won once. A failed attempt leaves the match
// open until the deadline.
func (s *GameService) SubmitMatch(ctx context.Context, sess *Session, id, code string) (MatchAttempt, error) {
	m, err := s.Match(sess, id)
	if err != nil {
		return MatchAttempt{}, err
	}
	if m.Status == MatchLost {
		return MatchAttempt{Match: m, Attempt: Attempt{Result: Result{Profile: sess.Profile(), Reaction: mascot.MatchTimedOut}}}, ErrMatchOver
	}
	if m.Status != MatchPlaying {
		return MatchAttempt{Match: m, Attempt: Attempt{Result: Result{Profile: sess.Profile()}}}, ErrMatchOver
	}

	verdict := s.grader.Evaluate(ctx, code, m.Challenge.Track, m.Challenge.SuccessCriteria)
	attempt := MatchAttempt{Attempt: Attempt{Verdict: verdict}}

	var events []progression.Event
	p, err := sess.update(func(p models.Profile) (models.Profile, error) {
		live, ok := sess.learner.matches[id]
		if !ok {
			return p, ErrMatchNotFound
		}
		s.expireLocked(live)
		if live.Status != MatchPlaying {
			attempt.Match = *live
			return p, ErrMatchOver
		}
		if !verdict.Passed() {
			attempt.Match = *live
			return p, nil
		}

		live.Status = MatchWon
		attempt.Match = *live
		next, evs := s.engine.RecordChampionshipWin(p)
		events = evs
		s.persist.Enqueue(next.Clone())
		return next, nil
	})
	attempt.Profile = p
	if err != nil {
		if attempt.Match.Status == MatchLost {
			attempt.Reaction = mascot.MatchTimedOut
		}
		return attempt, err
	}

	if !verdict.Passed() {
		attempt.Reaction = mascot.MatchLost
		return attempt, nil
	}

	attempt.Events = events
	attempt.Reaction = mascot.MatchWon
	if reaction, ok := s.mascot.Events(events, p); ok && progression.Has(events, progression.LeveledUp) {
		attempt.Reaction = reaction
	}
	return attempt, nil
}
