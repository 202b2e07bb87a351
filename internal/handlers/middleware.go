package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"nextgenacademy/internal/security"
	"nextgenacademy/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const SessionContextKey ContextKey = "session"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	authService *service.AuthService
	limiter     *security.RateLimiter
	proxies     security.TrustedProxies
	logger      *zap.Logger
}

// NewMiddleware creates a new middleware instance; limiter may be nil and
// forwarding headers are ignored unless proxies is set
func NewMiddleware(authService *service.AuthService, limiter *security.RateLimiter, proxies security.TrustedProxies, logger *zap.Logger) *Middleware {
	return &Middleware{
		authService: authService,
		limiter:     limiter,
		proxies:     proxies,
		logger:      logger,
	}
}

// sessionToken reads the bearer token, falling back to the session cookie
func sessionToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := r.Cookie(security.SessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// RequireSession is middleware that requires a valid session token
func (m *Middleware) RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := sessionToken(r)
		if token == "" {
			respondJSON(w, http.StatusUnauthorized, errorBody{Error: ErrUnauthorized})
			return
		}

		sess, err := m.authService.Authenticate(token)
		if err != nil {
			http.SetCookie(w, security.CreateDeleteCookie(r))
			respondJSON(w, http.StatusUnauthorized, errorBody{Error: ErrUnauthorized})
			return
		}

		ctx := context.WithValue(r.Context(), SessionContextKey, sess)
		next(w, r.WithContext(ctx))
	}
}

// RateLimit rejects clients that exceed the limiter's budget
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.limiter == nil {
			next(w, r)
			return
		}
		if ip := m.proxies.ClientIP(r); !m.limiter.Allow(ip) {
			m.logger.Warn("rate limited", zap.String("ip", ip), zap.String("path", r.URL.Path))
			respondJSON(w, http.StatusTooManyRequests, errorBody{Error: ErrTooManyRequests})
			return
		}
		next(w, r)
	}
}

// statusRecorder remembers the status code a handler wrote
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Logging middleware logs HTTP requests
func Logging(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// GetSessionFromContext retrieves the session from the request context
func GetSessionFromContext(ctx context.Context) *service.Session {
	sess, ok := ctx.Value(SessionContextKey).(*service.Session)
	if !ok {
		return nil
	}
	return sess
}
