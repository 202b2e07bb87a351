package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nextgenacademy/internal/catalog"
	"nextgenacademy/internal/grading"
	"nextgenacademy/internal/mascot"
	"nextgenacademy/internal/models"
	"nextgenacademy/internal/progression"
	"nextgenacademy/internal/security"
	"nextgenacademy/internal/service"
	"nextgenacademy/internal/store"
)

type passingGrader struct{}

func (passingGrader) Evaluate(ctx context.Context, code, track, criterion string) grading.Verdict {
	if code == "" {
		return grading.Verdict{Outcome: grading.Malformed, Emotion: models.EmotionConfused, Feedback: "Nothing to run!"}
	}
	return grading.Verdict{Outcome: grading.Pass, Emotion: models.EmotionHappy, Feedback: "Great job!"}
}

func (passingGrader) SimulateOutput(ctx context.Context, code, track string) string {
	return "Hello World"
}

type discard struct{}

func (discard) Enqueue(models.Profile) {}

func newTestServer(t *testing.T, limiter *security.RateLimiter) *httptest.Server {
	t.Helper()

	st, err := store.OpenLocal(filepath.Join(t.TempDir(), "profiles.json"))
	require.NoError(t, err)
	tokens, err := security.NewTokenIssuer("handler-test-secret-123", time.Hour)
	require.NoError(t, err)

	logger := zap.NewNop()
	c := catalog.MustDefault()
	presenter := mascot.NewFixedPresenter()

	auth := service.NewAuthService(st, service.NewSessionManager(time.Hour), tokens, nil, nil, logger)
	game := service.NewGameService(c, progression.NewEngine(c), passingGrader{}, presenter, discard{}, logger)
	boards := service.NewLeaderboardService(c, st, nil, logger)

	startup := NewStartupStatus("ready")
	startup.MarkReady()

	router := NewRouter(
		NewAuthHandler(auth, presenter, logger),
		NewGameHandler(game, boards, logger),
		NewMiddleware(auth, limiter, nil, logger),
		startup,
		logger,
	)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

type client struct {
	t     *testing.T
	base  string
	token string
}

func (c *client) do(method, path string, body any) (*http.Response, map[string]any) {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	require.NoError(c.t, err)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var out map[string]any
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func signUp(t *testing.T, srv *httptest.Server, name string) *client {
	t.Helper()
	c := &client{t: t, base: srv.URL}
	resp, body := c.do(http.MethodPost, "/api/register", map[string]string{"name": name, "pin": "1234"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	c.token = body["token"].(string)
	return c
}

func TestRegisterLoginFlow(t *testing.T) {
	srv := newTestServer(t, nil)
	c := signUp(t, srv, "Nova")

	resp, body := c.do(http.MethodGet, "/api/profile", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	profile := body["profile"].(map[string]any)
	assert.Equal(t, "Nova", profile["name"])
	assert.Equal(t, float64(100), body["nextLevelXp"])
	assert.NotContains(t, profile, "PINHash")

	anon := &client{t: t, base: srv.URL}
	resp, _ = anon.do(http.MethodPost, "/api/register", map[string]string{"name": "nova", "pin": "1111"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = anon.do(http.MethodPost, "/api/login", map[string]string{"name": "Nova", "pin": "9999"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = anon.do(http.MethodPost, "/api/login", map[string]string{"name": "Nobody", "pin": "1234"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = anon.do(http.MethodPost, "/api/login", map[string]string{"name": "NOVA", "pin": "1234"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["token"])

	resp, _ = c.do(http.MethodPost, "/api/logout", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = c.do(http.MethodGet, "/api/profile", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequiresSession(t *testing.T) {
	srv := newTestServer(t, nil)
	anon := &client{t: t, base: srv.URL}

	resp, body := anon.do(http.MethodGet, "/api/tracks", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, ErrUnauthorized, body["error"])

	anon.token = "not-a-token"
	resp, _ = anon.do(http.MethodGet, "/api/tracks", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLessonFlow(t *testing.T) {
	srv := newTestServer(t, nil)
	c := signUp(t, srv, "Nova")

	resp, body := c.do(http.MethodGet, "/api/lessons/python-0", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	lesson := body["lesson"].(map[string]any)
	assert.NotContains(t, lesson, "solutionCode")
	assert.Equal(t, true, lesson["unlocked"])

	resp, body = c.do(http.MethodGet, "/api/lessons/python-1", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.NotNil(t, body["reaction"])

	resp, body = c.do(http.MethodPost, "/api/lessons/python-0/run", map[string]string{"code": "print()"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Hello World", body["output"])

	resp, body = c.do(http.MethodPost, "/api/lessons/python-0/submit", map[string]string{"code": `print("Hello World")`})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pass", body["verdict"].(map[string]any)["outcome"])
	assert.Contains(t, body["profile"].(map[string]any)["completedLessons"], "python-0")

	resp, body = c.do(http.MethodGet, "/api/lessons/python-1/solution", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["code"])

	resp, _ = c.do(http.MethodPost, "/api/lessons/python-1/skip", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = c.do(http.MethodGet, "/api/tracks/python/lessons", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := body["items"].([]any)
	assert.Equal(t, true, items[2].(map[string]any)["unlocked"])

	resp, _ = c.do(http.MethodGet, "/api/lessons/python-99", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStoryAndChampionship(t *testing.T) {
	srv := newTestServer(t, nil)
	c := signUp(t, srv, "Nova")

	resp, _ := c.do(http.MethodGet, "/api/story/1", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = c.do(http.MethodGet, "/api/story/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := c.do(http.MethodPost, "/api/story/0/submit", map[string]string{"code": "solution"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["profile"].(map[string]any)["storyProgress"])

	resp, body = c.do(http.MethodPost, "/api/championship/start", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	matchID := body["match"].(map[string]any)["id"].(string)

	resp, body = c.do(http.MethodPost, "/api/championship/"+matchID+"/submit", map[string]string{"code": "fib"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["profile"].(map[string]any)["championshipWins"])

	resp, _ = c.do(http.MethodPost, "/api/championship/"+matchID+"/submit", map[string]string{"code": "fib"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = c.do(http.MethodGet, "/api/leaderboard/champions", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["items"], 5)
}

func TestFriendsSpinAndProfile(t *testing.T) {
	srv := newTestServer(t, nil)
	c := signUp(t, srv, "Nova")

	resp, _ := c.do(http.MethodPost, "/api/friends", map[string]string{"code": "ab-1234"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = c.do(http.MethodPost, "/api/friends", map[string]string{"code": "AB-1234"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body := c.do(http.MethodGet, "/api/leaderboard", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sawFriend, sawMe bool
	for _, item := range body["items"].([]any) {
		e := item.(map[string]any)
		sawFriend = sawFriend || e["isFriend"] == true
		sawMe = sawMe || e["isCurrentUser"] == true
	}
	assert.True(t, sawFriend)
	assert.True(t, sawMe)

	resp, _ = c.do(http.MethodPost, "/api/spin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, body = c.do(http.MethodPost, "/api/spin", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.NotNil(t, body["reaction"])

	resp, _ = c.do(http.MethodPatch, "/api/profile", map[string]string{"accessory": models.SecretAccessory})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = c.do(http.MethodPost, "/api/profile/secret", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, body = c.do(http.MethodPatch, "/api/profile", map[string]any{"accessory": models.SecretAccessory, "muted": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["profile"].(map[string]any)["isMuted"])

	resp, body = c.do(http.MethodGet, "/api/certificates", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["items"])
}

func TestGuestFlow(t *testing.T) {
	srv := newTestServer(t, nil)
	c := &client{t: t, base: srv.URL}

	resp, body := c.do(http.MethodPost, "/api/guest", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	c.token = body["token"].(string)
	assert.Equal(t, true, body["profile"].(map[string]any)["isGuest"])

	resp, body = c.do(http.MethodPost, "/api/friends", map[string]string{"code": "AB-1234"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Sign up to add friends!", body["reaction"].(map[string]any)["message"])
}

func TestLoginIsRateLimited(t *testing.T) {
	srv := newTestServer(t, security.NewRateLimiter(2, time.Minute))
	anon := &client{t: t, base: srv.URL}
	creds := map[string]string{"name": "Nobody", "pin": "1234"}

	for i := 0; i < 2; i++ {
		resp, _ := anon.do(http.MethodPost, "/api/login", creds)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	}
	resp, body := anon.do(http.MethodPost, "/api/login", creds)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, ErrTooManyRequests, body["error"])
}

func TestRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	limiter := security.NewRateLimiter(1, time.Minute)
	mw := NewMiddleware(nil, limiter, nil, zap.NewNop())
	handler := mw.RateLimit(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	codes := make([]int, 0, 3)
	for _, spoofed := range []string{"203.0.113.1", "203.0.113.2", "203.0.113.3"} {
		r := httptest.NewRequest(http.MethodPost, "/api/login", nil)
		r.RemoteAddr = "192.0.2.9:40000"
		r.Header.Set("X-Forwarded-For", spoofed)
		rec := httptest.NewRecorder()
		handler(rec, r)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusNoContent, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}

func TestHealth(t *testing.T) {
	startup := NewStartupStatus("database", "catalog")
	rec := httptest.NewRecorder()
	startup.Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	startup.CompleteStep("database")
	rec = httptest.NewRecorder()
	startup.Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	var view startupView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	assert.Equal(t, 50, view.Progress)

	startup.MarkReady()
	rec = httptest.NewRecorder()
	startup.Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, startup.IsReady())
}
