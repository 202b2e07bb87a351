package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"nextgenacademy/internal/mascot"
	"nextgenacademy/internal/models"
	"nextgenacademy/internal/security"
	"nextgenacademy/internal/service"
)

// AuthHandler handles sign-in related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
	presenter   *mascot.Presenter
	logger      *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, presenter *mascot.Presenter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		presenter:   presenter,
		logger:      logger,
	}
}

// Register creates a learner and signs them in
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	in, err := h.authService.Register(r.Context(), req.Name, req.PIN)
	if err != nil {
		respondWithDomainError(w, h.logger, err, models.Reaction{}, nil)
		return
	}
	h.signedIn(w, r, in, http.StatusCreated)
}

// Login signs in an existing learner
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	in, err := h.authService.Login(r.Context(), req.Name, req.PIN)
	if err != nil {
		respondWithDomainError(w, h.logger, err, models.Reaction{}, nil)
		return
	}
	h.signedIn(w, r, in, http.StatusOK)
}

// Guest signs in a transient learner
func (h *AuthHandler) Guest(w http.ResponseWriter, r *http.Request) {
	in, err := h.authService.Guest(r.Context())
	if err != nil {
		respondWithError(w, h.logger, http.StatusInternalServerError, ErrInternalServerError, "failed to open guest session", err)
		return
	}
	h.signedIn(w, r, in, http.StatusOK)
}

// Logout ends the caller's session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := GetSessionFromContext(r.Context())
	if sess != nil {
		_ = h.authService.Logout(sess.ID)
	}
	http.SetCookie(w, security.CreateDeleteCookie(r))
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) signedIn(w http.ResponseWriter, r *http.Request, in *service.SignIn, status int) {
	http.SetCookie(w, security.CreateSessionCookie(r, in.Token, in.ExpiresAt))

	reaction, _ := h.presenter.Page(mascot.PageDashboard)
	respondJSON(w, status, SignInView{
		Token:     in.Token,
		ExpiresAt: in.ExpiresAt,
		Profile:   in.Profile,
		Reaction:  reaction,
	})
}
