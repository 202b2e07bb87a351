package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "nextgen-academy"

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrExpiredToken = errors.New("session token expired")
)

// Claims identify the session a token was issued for
type Claims struct {
	Name  string `json:"name"`
	Guest bool   `json:"guest,omitempty"`
	jwt.RegisteredClaims
}

// SessionID returns the session the token belongs to
func (c *Claims) SessionID() string { return c.ID }

// TokenIssuer signs and verifies HS256 session tokens
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer requires a secret of at least 16 characters
func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	trimmed := strings.TrimSpace(secret)
	if len(trimmed) < 16 {
		return nil, errors.New("session secret must be at least 16 characters")
	}
	if ttl <= 0 {
		return nil, errors.New("session duration must be positive")
	}
	return &TokenIssuer{secret: []byte(trimmed), ttl: ttl}, nil
}

// TTL is how long issued tokens stay valid
func (t *TokenIssuer) TTL() time.Duration { return t.ttl }

// Issue signs a token for the session
func (t *TokenIssuer) Issue(sessionID, name string, guest bool, now time.Time) (string, time.Time, error) {
	if sessionID == "" || name == "" {
		return "", time.Time{}, errors.New("session id and name required")
	}

	expires := now.Add(t.ttl)
	claims := Claims{
		Name:  name,
		Guest: guest,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Issuer:    tokenIssuer,
			Subject:   name,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expires, nil
}

// Parse verifies the signature and expiry of a token
func (t *TokenIssuer) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, ErrExpiredToken
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
