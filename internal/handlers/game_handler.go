package handlers

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"nextgenacademy/internal/mascot"
	"nextgenacademy/internal/models"
	"nextgenacademy/internal/progression"
	"nextgenacademy/internal/service"
)

// GameHandler serves the learner-facing gameplay endpoints
type GameHandler struct {
	game   *service.GameService
	boards *service.LeaderboardService
	logger *zap.Logger
	now    func() time.Time
}

// NewGameHandler creates a new game handler
func NewGameHandler(game *service.GameService, boards *service.LeaderboardService, logger *zap.Logger) *GameHandler {
	return &GameHandler{game: game, boards: boards, logger: logger, now: time.Now}
}

func (h *GameHandler) greeting(page mascot.Page) *models.Reaction {
	if r, ok := h.game.Greeting(page); ok {
		return &r
	}
	return nil
}

func (h *GameHandler) fail(w http.ResponseWriter, err error, reaction models.Reaction, profile *models.Profile) {
	respondWithDomainError(w, h.logger, err, reaction, profile)
}

// Profile returns the caller's profile
func (h *GameHandler) Profile(w http.ResponseWriter, r *http.Request) {
	sess := GetSessionFromContext(r.Context())
	p := sess.Profile()

	view := ProfileView{Profile: p, CanSpin: progression.CanSpin(p, h.now())}
	if next, ok := progression.NextThreshold(p.XP); ok {
		view.NextLevelXP = &next
	}
	view.Reaction, _ = h.game.Greeting(mascot.PageProfile)
	respondJSON(w, http.StatusOK, view)
}

// Customize applies avatar and preference changes
func (h *GameHandler) Customize(w http.ResponseWriter, r *http.Request) {
	var req progression.Customization
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.game.Customize(GetSessionFromContext(r.Context()), req)
	if err != nil {
		h.fail(w, err, res.Reaction, &res.Profile)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// UnlockSecret unlocks the secret gear
func (h *GameHandler) UnlockSecret(w http.ResponseWriter, r *http.Request) {
	res, err := h.game.UnlockSecret(GetSessionFromContext(r.Context()))
	if err != nil {
		h.fail(w, err, res.Reaction, &res.Profile)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// Tracks lists the tracks with progress
func (h *GameHandler) Tracks(w http.ResponseWriter, r *http.Request) {
	items := h.game.Tracks(GetSessionFromContext(r.Context()))
	respondJSON(w, http.StatusOK, ListView[service.TrackProgress]{Items: items, Reaction: h.greeting(mascot.PageDashboard)})
}

// TrackLessons lists one track's lessons with lock state
func (h *GameHandler) TrackLessons(w http.ResponseWriter, r *http.Request) {
	lessons, err := h.game.TrackLessons(GetSessionFromContext(r.Context()), r.PathValue("track"))
	if err != nil {
		h.fail(w, err, models.Reaction{}, nil)
		return
	}

	items := make([]LessonView, len(lessons))
	for i, l := range lessons {
		items[i] = newLessonView(l)
	}
	respondJSON(w, http.StatusOK, ListView[LessonView]{Items: items})
}

// Lesson opens one lesson
func (h *GameHandler) Lesson(w http.ResponseWriter, r *http.Request) {
	l, reaction, err := h.game.Lesson(GetSessionFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		h.fail(w, err, reaction, nil)
		return
	}
	respondJSON(w, http.StatusOK, LessonPageView{Lesson: newLessonView(l), Reaction: reaction})
}

// Solution reveals a lesson's reference solution
func (h *GameHandler) Solution(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	code, reaction, err := h.game.RevealSolution(GetSessionFromContext(r.Context()), id)
	if err != nil {
		h.fail(w, err, reaction, nil)
		return
	}
	respondJSON(w, http.StatusOK, SolutionView{LessonID: id, Code: code, Reaction: reaction})
}

// RunLesson simulates the output of submitted code
func (h *GameHandler) RunLesson(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	out, err := h.game.RunLesson(r.Context(), GetSessionFromContext(r.Context()), r.PathValue("id"), req.Code)
	if err != nil {
		h.fail(w, err, mascot.LessonLocked, nil)
		return
	}
	respondJSON(w, http.StatusOK, RunView{Output: out, Reaction: mascot.Analyzing})
}

// SubmitLesson grades submitted code
func (h *GameHandler) SubmitLesson(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	attempt, err := h.game.SubmitLesson(r.Context(), GetSessionFromContext(r.Context()), r.PathValue("id"), req.Code)
	if err != nil {
		h.fail(w, err, mascot.LessonLocked, nil)
		return
	}
	respondJSON(w, http.StatusOK, attempt)
}

// SkipLesson completes a lesson without reward
func (h *GameHandler) SkipLesson(w http.ResponseWriter, r *http.Request) {
	res, err := h.game.SkipLesson(GetSessionFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		h.fail(w, err, res.Reaction, &res.Profile)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// Story lists the story chapters
func (h *GameHandler) Story(w http.ResponseWriter, r *http.Request) {
	items := h.game.Story(GetSessionFromContext(r.Context()))
	respondJSON(w, http.StatusOK, ListView[service.ChapterStatus]{Items: items, Reaction: h.greeting(mascot.PageStory)})
}

func chapterIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(r.PathValue("chapter"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "chapter must be a number"})
		return 0, false
	}
	return index, true
}

// Chapter opens one story chapter
func (h *GameHandler) Chapter(w http.ResponseWriter, r *http.Request) {
	index, ok := chapterIndex(w, r)
	if !ok {
		return
	}

	ch, reaction, err := h.game.Chapter(GetSessionFromContext(r.Context()), index)
	if err != nil {
		h.fail(w, err, reaction, nil)
		return
	}
	respondJSON(w, http.StatusOK, ChapterView{ChapterStatus: ch, Reaction: reaction})
}

// SubmitChapter grades a story chapter
func (h *GameHandler) SubmitChapter(w http.ResponseWriter, r *http.Request) {
	index, ok := chapterIndex(w, r)
	if !ok {
		return
	}
	var req codeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	attempt, err := h.game.SubmitChapter(r.Context(), GetSessionFromContext(r.Context()), index, req.Code)
	if err != nil {
		h.fail(w, err, mascot.ChapterLocked, nil)
		return
	}
	respondJSON(w, http.StatusOK, attempt)
}

// StartMatch opens a timed championship match
func (h *GameHandler) StartMatch(w http.ResponseWriter, r *http.Request) {
	m, reaction := h.game.StartMatch(GetSessionFromContext(r.Context()))
	respondJSON(w, http.StatusCreated, MatchView{
		Match:            m,
		RemainingSeconds: int(m.Remaining(h.now()).Seconds()),
		Reaction:         reaction,
	})
}

// Match reports a match's status and remaining time
func (h *GameHandler) Match(w http.ResponseWriter, r *http.Request) {
	m, err := h.game.Match(GetSessionFromContext(r.Context()), r.PathValue("match"))
	if err != nil {
		h.fail(w, err, models.Reaction{}, nil)
		return
	}

	view := MatchView{Match: m, RemainingSeconds: int(m.Remaining(h.now()).Seconds())}
	switch m.Status {
	case service.MatchPlaying:
		view.Reaction = mascot.MatchStarted
	case service.MatchWon:
		view.Reaction = mascot.MatchWon
	case service.MatchLost:
		view.Reaction = mascot.MatchTimedOut
	}
	respondJSON(w, http.StatusOK, view)
}

// SubmitMatch grades a championship solution
func (h *GameHandler) SubmitMatch(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	attempt, err := h.game.SubmitMatch(r.Context(), GetSessionFromContext(r.Context()), r.PathValue("match"), req.Code)
	if err != nil {
		h.fail(w, err, attempt.Reaction, nil)
		return
	}
	respondJSON(w, http.StatusOK, attempt)
}

// Leaderboard ranks learners by xp
func (h *GameHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	sess := GetSessionFromContext(r.Context())
	items := h.boards.XPBoard(r.Context(), sess.Profile())
	respondJSON(w, http.StatusOK, ListView[models.LeaderboardEntry]{Items: items, Reaction: h.greeting(mascot.PageLeaderboard)})
}

// Champions ranks learners by championship wins
func (h *GameHandler) Champions(w http.ResponseWriter, r *http.Request) {
	sess := GetSessionFromContext(r.Context())
	items := h.boards.Champions(r.Context(), sess.Profile())
	respondJSON(w, http.StatusOK, ListView[models.LeaderboardEntry]{Items: items, Reaction: h.greeting(mascot.PageChampionship)})
}

// Friends lists the caller's friends
func (h *GameHandler) Friends(w http.ResponseWriter, r *http.Request) {
	items := h.game.Friends(GetSessionFromContext(r.Context()))
	respondJSON(w, http.StatusOK, ListView[models.FriendRef]{Items: items, Reaction: h.greeting(mascot.PageFriends)})
}

// AddFriend adds a friend by code
func (h *GameHandler) AddFriend(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.game.AddFriend(GetSessionFromContext(r.Context()), req.Code)
	if err != nil {
		h.fail(w, err, res.Reaction, &res.Profile)
		return
	}
	respondJSON(w, http.StatusCreated, res)
}

// Spin runs the daily reward wheel
func (h *GameHandler) Spin(w http.ResponseWriter, r *http.Request) {
	res, reward, err := h.game.Spin(GetSessionFromContext(r.Context()))
	if err != nil {
		h.fail(w, err, res.Reaction, &res.Profile)
		return
	}
	respondJSON(w, http.StatusOK, SpinView{Result: res, Reward: reward})
}

// Certificates reports per-track completion
func (h *GameHandler) Certificates(w http.ResponseWriter, r *http.Request) {
	items := h.game.Certificates(GetSessionFromContext(r.Context()))
	respondJSON(w, http.StatusOK, ListView[models.Certificate]{Items: items, Reaction: h.greeting(mascot.PageCertificates)})
}
