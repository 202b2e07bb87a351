package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"nextgenacademy/internal/catalog"
	"nextgenacademy/internal/models"
	"nextgenacademy/internal/progression"
	"nextgenacademy/internal/service"
	"nextgenacademy/internal/store"
	"nextgenacademy/internal/validation"
)

func TestRespondWithErrorWritesStatusAndBody(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondWithError(recorder, zap.NewNop(), 418, "Teapot", "", nil)

	if recorder.Code != 418 {
		t.Fatalf("expected status 418, got %d", recorder.Code)
	}

	var body errorBody
	if err := json.NewDecoder(recorder.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error != "Teapot" {
		t.Fatalf("expected error 'Teapot', got %q", body.Error)
	}
}

func TestRespondWithErrorLogsMessage(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	recorder := httptest.NewRecorder()

	respondWithError(recorder, zap.New(core), 500, ErrInternalServerError, "", errors.New("boom"))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(entries))
	}
	if entries[0].Message != ErrInternalServerError {
		t.Fatalf("expected log message %q, got %q", ErrInternalServerError, entries[0].Message)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{validation.ValidationError{Field: "pin", Message: "bad"}, http.StatusBadRequest},
		{progression.ErrSelfReference, http.StatusBadRequest},
		{service.ErrWrongPIN, http.StatusUnauthorized},
		{service.ErrSessionExpired, http.StatusUnauthorized},
		{service.ErrLocked, http.StatusForbidden},
		{service.ErrGuestFriends, http.StatusForbidden},
		{service.ErrUnknownHero, http.StatusNotFound},
		{fmt.Errorf("lookup: %w", catalog.ErrLessonNotFound), http.StatusNotFound},
		{store.ErrNameTaken, http.StatusConflict},
		{progression.ErrAlreadyFriend, http.StatusConflict},
		{service.ErrSpinUsed, http.StatusConflict},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestDomainErrorCarriesReaction(t *testing.T) {
	recorder := httptest.NewRecorder()
	reaction := models.Reaction{Emotion: models.EmotionConfused, Message: "Sign up to add friends!"}

	respondWithDomainError(recorder, zap.NewNop(), service.ErrGuestFriends, reaction, nil)

	if recorder.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", recorder.Code)
	}
	var body errorBody
	if err := json.NewDecoder(recorder.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Reaction == nil || *body.Reaction != reaction {
		t.Fatalf("expected reaction %+v, got %+v", reaction, body.Reaction)
	}
}
