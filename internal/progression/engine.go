// Package progression holds every gameplay state transition: experience and
// levels, lesson and chapter gating, rewards, the daily spin and friends.
//
// Operations take a profile by value and return the updated copy together
// with the events the transition produced. They never touch storage.
package progression

import (
	"errors"
	"math/rand/v2"
	"slices"
	"time"

	"nextgenacademy/internal/models"
)

// Fixed rewards
const (
	ChapterCoinBonus  = 50
	ChampionshipXP    = 500
	ChampionshipCoins = 200
	SpinMinCoins      = 10
	SpinMaxCoins      = 59
)

var (
	ErrSelfReference = errors.New("that's your own friend code")
	ErrAlreadyFriend = errors.New("already friends with this cadet")
)

// Lessons is the catalog view the engine needs
type Lessons interface {
	Lesson(id string) (models.Lesson, error)
	Previous(id string) (models.Lesson, bool, error)
	Tracks() []string
	Track(track string) ([]models.Lesson, error)
}

// Engine applies progression rules against a lesson catalog
type Engine struct {
	lessons Lessons
	intn    func(n int) int
}

// Option configures an Engine
type Option func(*Engine)

// WithRandom replaces the random source used by the daily spin
func WithRandom(intn func(n int) int) Option {
	return func(e *Engine) { e.intn = intn }
}

// NewEngine creates an engine over the given catalog
func NewEngine(lessons Lessons, opts ...Option) *Engine {
	e := &Engine{lessons: lessons, intn: rand.IntN}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Normalize re-derives the stored level from experience
func Normalize(p models.Profile) models.Profile {
	p = p.Clone()
	if p.XP < 0 {
		p.XP = 0
	}
	if p.Coins < 0 {
		p.Coins = 0
	}
	p.Level = Level(p.XP)
	return p
}

// AwardRewards credits experience and coins and recomputes the level.
// At most one LeveledUp event is emitted, carrying the final level.
func (e *Engine) AwardRewards(p models.Profile, xpDelta, coinDelta int) (models.Profile, []Event) {
	p = p.Clone()
	return award(p, xpDelta, coinDelta)
}

func award(p models.Profile, xpDelta, coinDelta int) (models.Profile, []Event) {
	before := Level(p.XP)
	if xpDelta > 0 {
		p.XP += xpDelta
	}
	p.Coins = max(p.Coins+coinDelta, 0)
	p.Level = Level(p.XP)

	if p.Level > before {
		return p, []Event{{Kind: LeveledUp, Level: p.Level}}
	}
	return p, nil
}

// CompleteLesson marks a lesson done and pays its reward once.
// Repeating a completed lesson leaves the profile unchanged.
func (e *Engine) CompleteLesson(p models.Profile, lessonID string) (models.Profile, []Event, error) {
	lesson, err := e.lessons.Lesson(lessonID)
	if err != nil {
		return p, nil, err
	}
	p = p.Clone()
	if p.HasCompleted(lessonID) {
		return p, nil, nil
	}

	p.CompletedLessons = append(p.CompletedLessons, lessonID)
	p.Streak++

	p, levelEvents := award(p, lesson.XPReward, lesson.CoinReward)
	events := []Event{{Kind: LessonCompleted, LessonID: lessonID, XP: lesson.XPReward, Coins: lesson.CoinReward}}
	return p, append(events, levelEvents...), nil
}

// SkipLesson marks a lesson done without paying its reward, opening the next one.
// Skipping a completed lesson leaves the profile unchanged.
func (e *Engine) SkipLesson(p models.Profile, lessonID string) (models.Profile, []Event, error) {
	if _, err := e.lessons.Lesson(lessonID); err != nil {
		return p, nil, err
	}
	p = p.Clone()
	if p.HasCompleted(lessonID) {
		return p, nil, nil
	}

	p.CompletedLessons = append(p.CompletedLessons, lessonID)
	p.Streak++
	return p, []Event{{Kind: LessonCompleted, LessonID: lessonID, Skipped: true}}, nil
}

// IsUnlocked reports whether lessonID may be attempted: it is the first lesson
// of its track, or the lesson before it in the same track is completed.
func (e *Engine) IsUnlocked(track, lessonID string, completed []string) bool {
	lesson, err := e.lessons.Lesson(lessonID)
	if err != nil || !sameTrack(lesson.Track, track) {
		return false
	}
	prev, ok, err := e.lessons.Previous(lessonID)
	if err != nil {
		return false
	}
	if !ok {
		return true
	}
	return slices.Contains(completed, prev.ID)
}

// ChapterUnlocked reports whether the story chapter at index is playable
func ChapterUnlocked(p models.Profile, index int) bool {
	return index >= 0 && index <= p.StoryProgress
}

// AdvanceStory pays out a story chapter and unlocks the next one.
// Replaying an earlier chapter neither rewards nor moves progress.
func (e *Engine) AdvanceStory(p models.Profile, chapterIndex, xp int) (models.Profile, []Event) {
	p = p.Clone()
	if chapterIndex < p.StoryProgress {
		return p, nil
	}

	p, levelEvents := award(p, xp, ChapterCoinBonus)
	p.StoryProgress = chapterIndex + 1

	events := []Event{{Kind: ChapterCompleted, Chapter: chapterIndex, XP: xp, Coins: ChapterCoinBonus}}
	return p, append(events, levelEvents...)
}

// RecordChampionshipWin counts a timed-match win and pays the fixed bonus
func (e *Engine) RecordChampionshipWin(p models.Profile) (models.Profile, []Event) {
	p = p.Clone()
	p.ChampionshipWins++

	p, levelEvents := award(p, ChampionshipXP, ChampionshipCoins)
	events := []Event{{Kind: ChampionshipWon, XP: ChampionshipXP, Coins: ChampionshipCoins}}
	return p, append(events, levelEvents...)
}

// CanSpin reports whether no spin was recorded on now's calendar date
func CanSpin(p models.Profile, now time.Time) bool {
	if p.LastSpinDate == nil {
		return true
	}
	return !sameDay(p.LastSpinDate.In(now.Location()), now)
}

// DailySpin draws a coin reward once per calendar day.
// reward is zero when the profile already spun today.
func (e *Engine) DailySpin(p models.Profile, now time.Time) (models.Profile, int, []Event) {
	p = p.Clone()
	if !CanSpin(p, now) {
		return p, 0, nil
	}

	reward := SpinMinCoins + e.intn(SpinMaxCoins-SpinMinCoins+1)
	p.Coins += reward
	spun := now
	p.LastSpinDate = &spun

	return p, reward, []Event{{Kind: SpinAwarded, Coins: reward}}
}

// UnlockSecret sets the secret flag; only the first call emits an event
func (e *Engine) UnlockSecret(p models.Profile) (models.Profile, []Event) {
	p = p.Clone()
	if p.UnlockedSecret {
		return p, nil
	}
	p.UnlockedSecret = true
	return p, []Event{{Kind: SecretUnlocked}}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func sameTrack(a, b string) bool {
	return normalizeTrack(a) == normalizeTrack(b)
}
