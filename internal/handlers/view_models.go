package handlers

import (
	"time"

	"nextgenacademy/internal/models"
	"nextgenacademy/internal/service"
)

type credentialsRequest struct {
	Name string `json:"name"`
	PIN  string `json:"pin"`
}

type codeRequest struct {
	Code string `json:"code"`
}

type SignInView struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Profile   models.Profile  `json:"profile"`
	Reaction  models.Reaction `json:"reaction"`
}

type ProfileView struct {
	Profile     models.Profile  `json:"profile"`
	NextLevelXP *int            `json:"nextLevelXp,omitempty"`
	CanSpin     bool            `json:"canSpin"`
	Reaction    models.Reaction `json:"reaction"`
}

// LessonView is a lesson as the learner sees it; the reference solution
// is only served by the reveal endpoint
type LessonView struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	Track           string            `json:"track"`
	Position        int               `json:"position"`
	Difficulty      models.Difficulty `json:"difficulty"`
	Description     string            `json:"description"`
	Concept         string            `json:"concept"`
	InitialCode     string            `json:"initialCode"`
	SuccessCriteria string            `json:"successCriteria"`
	XPReward        int               `json:"xpReward"`
	CoinReward      int               `json:"coinReward"`
	Unlocked        bool              `json:"unlocked"`
	Completed       bool              `json:"completed"`
}

func newLessonView(s service.LessonStatus) LessonView {
	l := s.Lesson
	return LessonView{
		ID:              l.ID,
		Title:           l.Title,
		Track:           l.Track,
		Position:        l.Position,
		Difficulty:      l.Difficulty,
		Description:     l.Description,
		Concept:         l.Concept,
		InitialCode:     l.InitialCode,
		SuccessCriteria: l.SuccessCriteria,
		XPReward:        l.XPReward,
		CoinReward:      l.CoinReward,
		Unlocked:        s.Unlocked,
		Completed:       s.Completed,
	}
}

type LessonPageView struct {
	Lesson   LessonView      `json:"lesson"`
	Reaction models.Reaction `json:"reaction"`
}

type SolutionView struct {
	LessonID string          `json:"lessonId"`
	Code     string          `json:"code"`
	Reaction models.Reaction `json:"reaction"`
}

type RunView struct {
	Output   string          `json:"output"`
	Reaction models.Reaction `json:"reaction"`
}

type ChapterView struct {
	service.ChapterStatus
	Reaction models.Reaction `json:"reaction"`
}

type ListView[T any] struct {
	Items    []T              `json:"items"`
	Reaction *models.Reaction `json:"reaction,omitempty"`
}

type SpinView struct {
	service.Result
	Reward int `json:"reward"`
}

type MatchView struct {
	Match            service.Match   `json:"match"`
	RemainingSeconds int             `json:"remainingSeconds"`
	Reaction         models.Reaction `json:"reaction"`
}
