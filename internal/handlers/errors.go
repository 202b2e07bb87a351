package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"nextgenacademy/internal/catalog"
	"nextgenacademy/internal/models"
	"nextgenacademy/internal/progression"
	"nextgenacademy/internal/security"
	"nextgenacademy/internal/service"
	"nextgenacademy/internal/store"
	"nextgenacademy/internal/validation"
)

// errorBody is the JSON shape of every failed request
type errorBody struct {
	Error    string           `json:"error"`
	Reaction *models.Reaction `json:"reaction,omitempty"`
	Profile  *models.Profile  `json:"profile,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondWithError(w http.ResponseWriter, logger *zap.Logger, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		logger.Error(logMsg, zap.Error(err))
	}

	respondJSON(w, status, errorBody{Error: userMsg})
}

// statusFor maps domain errors onto HTTP status codes. Unknown errors are 500s.
func statusFor(err error) int {
	var verr validation.ValidationError
	switch {
	case errors.As(err, &verr),
		errors.Is(err, service.ErrBlockedName),
		errors.Is(err, progression.ErrSelfReference),
		errors.Is(err, progression.ErrInvalidCustomization):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrWrongPIN),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrSessionExpired),
		errors.Is(err, security.ErrInvalidToken),
		errors.Is(err, security.ErrExpiredToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrLocked),
		errors.Is(err, service.ErrChapterLocked),
		errors.Is(err, service.ErrGuestFriends),
		errors.Is(err, progression.ErrSecretLocked):
		return http.StatusForbidden
	case errors.Is(err, service.ErrUnknownHero),
		errors.Is(err, catalog.ErrLessonNotFound),
		errors.Is(err, catalog.ErrTrackNotFound),
		errors.Is(err, catalog.ErrChapterNotFound),
		errors.Is(err, service.ErrMatchNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrNameTaken),
		errors.Is(err, progression.ErrAlreadyFriend),
		errors.Is(err, service.ErrMatchOver),
		errors.Is(err, service.ErrSpinUsed):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondWithDomainError writes err with its mapped status. The mascot
// reaction and profile snapshot are included when the operation produced them.
func respondWithDomainError(w http.ResponseWriter, logger *zap.Logger, err error, reaction models.Reaction, profile *models.Profile) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		respondWithError(w, logger, status, ErrInternalServerError, "request failed", err)
		return
	}

	body := errorBody{Error: err.Error(), Profile: profile}
	if reaction.Message != "" {
		body.Reaction = &reaction
	}
	respondJSON(w, status, body)
}

// decodeJSON reads a bounded JSON body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: ErrInvalidJSON})
		return false
	}
	return true
}
