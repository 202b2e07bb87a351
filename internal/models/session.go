package models

import "time"

// Session represents a signed-in learner or a guest
type Session struct {
	ID        string
	Name      string
	IsGuest   bool
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return s.IsExpiredAt(time.Now())
}

// IsExpiredAt checks the expiry against a given clock reading
func (s *Session) IsExpiredAt(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
