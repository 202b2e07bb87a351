package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nextgenacademy/internal/catalog"
	"nextgenacademy/internal/grading"
	"nextgenacademy/internal/mascot"
	"nextgenacademy/internal/models"
	"nextgenacademy/internal/progression"
	"nextgenacademy/internal/security"
	"nextgenacademy/internal/store"
)

// stubGrader returns the queued verdicts in order, passing once the queue is empty
type stubGrader struct {
	mu       sync.Mutex
	verdicts []grading.Verdict
	output   string
}

func (g *stubGrader) Evaluate(ctx context.Context, code, track, criterion string) grading.Verdict {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.verdicts) == 0 {
		return pass()
	}
	v := g.verdicts[0]
	g.verdicts = g.verdicts[1:]
	return v
}

func (g *stubGrader) SimulateOutput(ctx context.Context, code, track string) string {
	return g.output
}

func pass() grading.Verdict {
	return grading.Verdict{Outcome: grading.Pass, Emotion: models.EmotionHappy, Feedback: "Great job!"}
}

func incomplete() grading.Verdict {
	return grading.Verdict{Outcome: grading.Incomplete, Emotion: models.EmotionThinking, Feedback: "Almost there."}
}

// recordingPersister keeps every snapshot it is handed
type recordingPersister struct {
	mu    sync.Mutex
	saved []models.Profile
}

func (r *recordingPersister) Enqueue(p models.Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, p)
}

func (r *recordingPersister) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saved)
}

type fixture struct {
	store     *store.LocalStore
	sessions  *SessionManager
	auth      *AuthService
	game      *GameService
	grader    *stubGrader
	persist   *recordingPersister
	standings *fakeStandings
	clock     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := store.OpenLocal(filepath.Join(t.TempDir(), "profiles.json"))
	require.NoError(t, err)

	tokens, err := security.NewTokenIssuer("test-secret-0123456789", time.Hour)
	require.NoError(t, err)

	c := catalog.MustDefault()
	f := &fixture{
		store:     st,
		sessions:  NewSessionManager(time.Hour),
		grader:    &stubGrader{output: "Hello"},
		persist:   &recordingPersister{},
		standings: &fakeStandings{},
		clock:     time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	}
	f.auth = NewAuthService(st, f.sessions, tokens, nil, f.standings, zap.NewNop())
	f.game = NewGameService(c, progression.NewEngine(c), f.grader, mascot.NewFixedPresenter(), f.persist, zap.NewNop())
	f.game.now = func() time.Time { return f.clock }
	return f
}

func (f *fixture) register(t *testing.T, name string) *Session {
	t.Helper()
	in, err := f.auth.Register(context.Background(), name, "1234")
	require.NoError(t, err)
	return in.Session
}
