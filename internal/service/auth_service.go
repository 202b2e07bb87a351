package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"nextgenacademy/internal/credentials"
	"nextgenacademy/internal/models"
	"nextgenacademy/internal/progression"
	"nextgenacademy/internal/security"
	"nextgenacademy/internal/store"
	"nextgenacademy/internal/validation"
)

// friendCodeAttempts bounds retries when a generated friend code collides
const friendCodeAttempts = 5

var (
	ErrUnknownHero = errors.New("hero not found, check the spelling or sign up")
	ErrWrongPIN    = errors.New("wrong secret code")
	ErrBlockedName = errors.New("please pick a different hero name")
)

// NameFilter rejects hero names that are unsuitable for children
type NameFilter interface {
	IsBlockedName(ctx context.Context, name string) (bool, error)
}

// SignIn is the result of registering, logging in or entering as a guest
type SignIn struct {
	Session   *Session
	Token     string
	ExpiresAt time.Time
	Profile   models.Profile
}

// AuthService handles sign-in and sessions. The PIN is a parental gate that
// keeps siblings out of each other's profile on a shared device.
type AuthService struct {
	store     store.Store
	sessions  *SessionManager
	tokens    *security.TokenIssuer
	filter    NameFilter
	standings StandingRecorder
	logger    *zap.Logger
}

// NewAuthService creates a new auth service; filter and standings may be nil
func NewAuthService(st store.Store, sessions *SessionManager, tokens *security.TokenIssuer, filter NameFilter, standings StandingRecorder, logger *zap.Logger) *AuthService {
	return &AuthService{
		store:     st,
		sessions:  sessions,
		tokens:    tokens,
		filter:    filter,
		standings: standings,
		logger:    logger,
	}
}

// Register creates a new learner and signs them in
func (s *AuthService) Register(ctx context.Context, name, pin string) (*SignIn, error) {
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}
	if err := validation.ValidatePIN(pin); err != nil {
		return nil, err
	}
	name = validation.NormalizeName(name)

	if s.filter != nil {
		blocked, err := s.filter.IsBlockedName(ctx, name)
		if err != nil {
			s.logger.Warn("name filter unavailable", zap.Error(err))
		}
		if blocked {
			return nil, ErrBlockedName
		}
	}

	pinHash, err := security.HashPIN(pin)
	if err != nil {
		return nil, fmt.Errorf("failed to hash pin: %w", err)
	}
	color, err := credentials.RandomAvatarColor()
	if err != nil {
		return nil, fmt.Errorf("failed to pick avatar color: %w", err)
	}

	var created models.Profile
	for attempt := 0; ; attempt++ {
		code, err := credentials.GenerateFriendCode(name)
		if err != nil {
			return nil, fmt.Errorf("failed to generate friend code: %w", err)
		}

		p := models.NewProfile(name, code, color)
		p.PINHash = pinHash
		created, err = s.store.Create(ctx, p)
		if errors.Is(err, store.ErrFriendCodeTaken) && attempt+1 < friendCodeAttempts {
			continue
		}
		if err != nil {
			return nil, err
		}
		break
	}

	s.logger.Info("hero registered", zap.String("name", created.Name), zap.String("friend_code", created.FriendCode))
	if s.standings != nil {
		if err := s.standings.Record(ctx, created); err != nil {
			s.logger.Debug("failed to mirror standing", zap.String("name", created.Name), zap.Error(err))
		}
	}
	return s.open(created)
}

// Login signs in an existing learner
func (s *AuthService) Login(ctx context.Context, name, pin string) (*SignIn, error) {
	name = validation.NormalizeName(name)
	if name == "" || pin == "" {
		return nil, validation.ValidationError{Field: "name", Message: "enter a name and a 4-digit PIN"}
	}

	p, err := s.store.FindByName(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUnknownHero
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if !security.CheckPIN(p.PINHash, pin) {
		return nil, ErrWrongPIN
	}

	return s.open(progression.Normalize(p))
}

// Guest signs in a transient learner that is never stored
func (s *AuthService) Guest(ctx context.Context) (*SignIn, error) {
	return s.open(models.NewGuestProfile())
}

func (s *AuthService) open(p models.Profile) (*SignIn, error) {
	sess := s.sessions.Open(p)

	token, expires, err := s.tokens.Issue(sess.ID, sess.Name, sess.IsGuest, sess.CreatedAt)
	if err != nil {
		s.sessions.Close(sess.ID)
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	return &SignIn{
		Session:   sess,
		Token:     token,
		ExpiresAt: expires,
		Profile:   sess.Profile(),
	}, nil
}

// Authenticate resolves a session token to its live session
func (s *AuthService) Authenticate(token string) (*Session, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	return s.sessions.Get(claims.SessionID())
}

// Logout ends a session
func (s *AuthService) Logout(sessionID string) error {
	if !s.sessions.Close(sessionID) {
		return ErrSessionNotFound
	}
	return nil
}

// CleanupExpiredSessions removes expired sessions from memory
func (s *AuthService) CleanupExpiredSessions() int {
	return s.sessions.CleanupExpired()
}
