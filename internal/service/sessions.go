package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"nextgenacademy/internal/models"
	"nextgenacademy/internal/security"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// learner owns one live profile. Every mutation of that profile goes through mu,
// so two requests for the same learner never interleave a read-modify-write.
type learner struct {
	mu      sync.Mutex
	profile models.Profile
	matches map[string]*Match

	sessions int // guarded by SessionManager.mu
}

// Session is one signed-in device. Sessions of the same learner share the profile.
type Session struct {
	models.Session
	learner *learner
}

// Profile returns a snapshot of the session's profile
func (s *Session) Profile() models.Profile {
	s.learner.mu.Lock()
	defer s.learner.mu.Unlock()
	return s.learner.profile.Clone()
}

// update replaces the profile with fn's result unless fn fails
func (s *Session) update(fn func(p models.Profile) (models.Profile, error)) (models.Profile, error) {
	s.learner.mu.Lock()
	defer s.learner.mu.Unlock()

	next, err := fn(s.learner.profile.Clone())
	if err != nil {
		return s.learner.profile.Clone(), err
	}
	s.learner.profile = next
	return next.Clone(), nil
}

// SessionManager keeps live sessions in memory
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	learners map[string]*learner
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionManager creates a session table whose sessions live for ttl
func NewSessionManager(ttl time.Duration) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		learners: make(map[string]*learner),
		ttl:      ttl,
		now:      time.Now,
	}
}

func learnerKey(name string) string {
	return strings.ToLower(name)
}

// Open starts a session for p. If the learner already has a live session the
// new one shares its profile, which is newer than any stored copy.
func (m *SessionManager) Open(p models.Profile) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	var l *learner
	if !p.IsGuest {
		l = m.learners[learnerKey(p.Name)]
	}
	if l == nil {
		l = &learner{profile: p.Clone(), matches: make(map[string]*Match)}
		if !p.IsGuest {
			m.learners[learnerKey(p.Name)] = l
		}
	}
	l.sessions++

	now := m.now()
	s := &Session{
		Session: models.Session{
			ID:        security.GenerateSessionID(),
			Name:      p.Name,
			IsGuest:   p.IsGuest,
			CreatedAt: now,
			ExpiresAt: now.Add(m.ttl),
		},
		learner: l,
	}
	m.sessions[s.ID] = s
	return s
}

// Get returns a live session
func (m *SessionManager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.IsExpiredAt(m.now()) {
		m.closeLocked(s)
		return nil, ErrSessionExpired
	}
	return s, nil
}

// Close ends a session; it reports whether the session existed
func (m *SessionManager) Close(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if ok {
		m.closeLocked(s)
	}
	return ok
}

func (m *SessionManager) closeLocked(s *Session) {
	delete(m.sessions, s.ID)
	s.learner.sessions--
	if s.learner.sessions <= 0 && !s.IsGuest {
		if m.learners[learnerKey(s.Name)] == s.learner {
			delete(m.learners, learnerKey(s.Name))
		}
	}
}

// CleanupExpired removes expired sessions and returns how many were dropped
func (m *SessionManager) CleanupExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for _, s := range m.sessions {
		if s.IsExpiredAt(now) {
			m.closeLocked(s)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions
func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Run sweeps expired sessions every interval until ctx is done
func (m *SessionManager) Run(ctx context.Context, interval time.Duration, logger *zap.Logger) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := m.CleanupExpired(); n > 0 {
				logger.Info("cleaned up expired sessions", zap.Int("removed", n))
			}
		}
	}
}
