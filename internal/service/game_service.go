package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"nextgenacademy/internal/catalog"
	"nextgenacademy/internal/grading"
	"nextgenacademy/internal/mascot"
	"nextgenacademy/internal/models"
	"nextgenacademy/internal/progression"
	"nextgenacademy/internal/validation"
)

var (
	ErrLocked        = errors.New("that mission is still locked")
	ErrChapterLocked = errors.New("that story chapter is still locked")
	ErrGuestFriends  = errors.New("sign up to add friends")
	ErrSpinUsed      = errors.New("the wheel needs to recharge, come back tomorrow")
)

// Result is what every mutating operation returns to the view
type Result struct {
	Profile  models.Profile      `json:"profile"`
	Events   []progression.Event `json:"events,omitempty"`
	Reaction models.Reaction     `json:"reaction"`
}

// Attempt is a graded submission
type Attempt struct {
	Result
	Verdict grading.Verdict `json:"verdict"`
	Output  string          `json:"output"`
}

// LessonStatus is a lesson with the caller's progress on it
type LessonStatus struct {
	Lesson    models.Lesson `json:"lesson"`
	Unlocked  bool          `json:"unlocked"`
	Completed bool          `json:"completed"`
}

// ChapterStatus is a story chapter with the caller's progress on it
type ChapterStatus struct {
	Chapter   models.StoryChapter `json:"chapter"`
	Unlocked  bool                `json:"unlocked"`
	Completed bool                `json:"completed"`
}

// TrackProgress summarises one track on the dashboard
type TrackProgress struct {
	Track     string `json:"track"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
}

// GameService runs lessons, the story, the championship and the profile
// extras on top of the progression engine
type GameService struct {
	catalog *catalog.Catalog
	engine  *progression.Engine
	grader  grading.Grader
	mascot  *mascot.Presenter
	persist Persister
	logger  *zap.Logger
	now     func() time.Time
}

// NewGameService creates a new game service
func NewGameService(c *catalog.Catalog, engine *progression.Engine, grader grading.Grader, presenter *mascot.Presenter, persist Persister, logger *zap.Logger) *GameService {
	return &GameService{
		catalog: c,
		engine:  engine,
		grader:  grader,
		mascot:  presenter,
		persist: persist,
		logger:  logger,
		now:     time.Now,
	}
}

// Greeting returns the mascot line for entering a page
func (s *GameService) Greeting(page mascot.Page) (models.Reaction, bool) {
	return s.mascot.Page(page)
}

// mutate applies fn to the session's profile and queues the result for storage.
// The snapshot is queued under the learner lock so queue order matches commit order.
func (s *GameService) mutate(sess *Session, fn func(p models.Profile) (models.Profile, []progression.Event, error)) (Result, error) {
	var events []progression.Event
	p, err := sess.update(func(p models.Profile) (models.Profile, error) {
		next, evs, err := fn(p)
		if err != nil {
			return next, err
		}
		events = evs
		s.persist.Enqueue(next.Clone())
		return next, nil
	})
	if err != nil {
		return Result{Profile: p}, err
	}

	r := Result{Profile: p, Events: events}
	if reaction, ok := s.mascot.Events(events, p); ok {
		r.Reaction = reaction
	}
	return r, nil
}

// Tracks lists every track with the caller's completion count
func (s *GameService) Tracks(sess *Session) []TrackProgress {
	p := sess.Profile()
	var out []TrackProgress
	for _, name := range s.catalog.Tracks() {
		lessons, err := s.catalog.Track(name)
		if err != nil {
			continue
		}
		tp := TrackProgress{Track: name, Total: len(lessons)}
		for _, l := range lessons {
			if p.HasCompleted(l.ID) {
				tp.Completed++
			}
		}
		out = append(out, tp)
	}
	return out
}

// TrackLessons lists a track's lessons in order with lock state
func (s *GameService) TrackLessons(sess *Session, track string) ([]LessonStatus, error) {
	lessons, err := s.catalog.Track(track)
	if err != nil {
		return nil, err
	}

	p := sess.Profile()
	out := make([]LessonStatus, len(lessons))
	for i, l := range lessons {
		out[i] = LessonStatus{
			Lesson:    l,
			Unlocked:  s.engine.IsUnlocked(l.Track, l.ID, p.CompletedLessons),
			Completed: p.HasCompleted(l.ID),
		}
	}
	return out, nil
}

// Lesson opens an unlocked lesson
func (s *GameService) Lesson(sess *Session, id string) (LessonStatus, models.Reaction, error) {
	l, err := s.unlockedLesson(sess, id)
	if err != nil {
		return LessonStatus{}, mascot.LessonLocked, err
	}
	p := sess.Profile()
	return LessonStatus{Lesson: l, Unlocked: true, Completed: p.HasCompleted(id)}, mascot.LessonWelcome(l.Title), nil
}

func (s *GameService) unlockedLesson(sess *Session, id string) (models.Lesson, error) {
	l, err := s.catalog.Lesson(id)
	if err != nil {
		return models.Lesson{}, err
	}
	if !s.engine.IsUnlocked(l.Track, l.ID, sess.Profile().CompletedLessons) {
		return models.Lesson{}, ErrLocked
	}
	return l, nil
}

// RevealSolution returns the reference solution of an unlocked lesson
func (s *GameService) RevealSolution(sess *Session, id string) (string, models.Reaction, error) {
	l, err := s.unlockedLesson(sess, id)
	if err != nil {
		return "", mascot.LessonLocked, err
	}
	return l.SolutionCode, mascot.SolutionRevealed, nil
}

// RunLesson simulates the output of code in the lesson's language
func (s *GameService) RunLesson(ctx context.Context, sess *Session, id, code string) (string, error) {
	l, err := s.unlockedLesson(sess, id)
	if err != nil {
		return "", err
	}
	return s.grader.SimulateOutput(ctx, code, l.Track), nil
}

// SubmitLesson grades code and completes the lesson when it passes
func (s *GameService) SubmitLesson(ctx context.Context, sess *Session, id, code string) (Attempt, error) {
	l, err := s.unlockedLesson(sess, id)
	if err != nil {
		return Attempt{}, err
	}

	output := s.grader.SimulateOutput(ctx, code, l.Track)
	verdict := s.grader.Evaluate(ctx, code, l.Track, l.SuccessCriteria)
	attempt := Attempt{Verdict: verdict, Output: output}

	if !verdict.Passed() {
		attempt.Profile = sess.Profile()
		attempt.Reaction = verdict.Reaction()
		return attempt, nil
	}

	r, err := s.mutate(sess, func(p models.Profile) (models.Profile, []progression.Event, error) {
		return s.engine.CompleteLesson(p, id)
	})
	if err != nil {
		return Attempt{}, err
	}
	attempt.Result = r
	if !progression.Has(r.Events, progression.LeveledUp) {
		attempt.Reaction = verdict.Reaction()
	}
	return attempt, nil
}

// SkipLesson completes a lesson without reward
func (s *GameService) SkipLesson(sess *Session, id string) (Result, error) {
	if _, err := s.unlockedLesson(sess, id); err != nil {
		return Result{Profile: sess.Profile(), Reaction: mascot.LessonLocked}, err
	}
	return s.mutate(sess, func(p models.Profile) (models.Profile, []progression.Event, error) {
		return s.engine.SkipLesson(p, id)
	})
}

// Story lists the chapters with lock state
func (s *GameService) Story(sess *Session) []ChapterStatus {
	p := sess.Profile()
	chapters := s.catalog.Chapters()
	out := make([]ChapterStatus, len(chapters))
	for i, ch := range chapters {
		out[i] = ChapterStatus{
			Chapter:   ch,
			Unlocked:  progression.ChapterUnlocked(p, i),
			Completed: i < p.StoryProgress,
		}
	}
	return out
}

// Chapter opens an unlocked story chapter with its intro line
func (s *GameService) Chapter(sess *Session, index int) (ChapterStatus, models.Reaction, error) {
	ch, err := s.catalog.Chapter(index)
	if err != nil {
		return ChapterStatus{}, models.Reaction{}, err
	}
	p := sess.Profile()
	if !progression.ChapterUnlocked(p, index) {
		return ChapterStatus{}, mascot.ChapterLocked, ErrChapterLocked
	}
	return ChapterStatus{Chapter: ch, Unlocked: true, Completed: index < p.StoryProgress}, mascot.ChapterIntro(ch), nil
}

// SubmitChapter grades a story chapter and advances the story when it passes
func (s *GameService) SubmitChapter(ctx context.Context, sess *Session, index int, code string) (Attempt, error) {
	ch, err := s.catalog.Chapter(index)
	if err != nil {
		return Attempt{}, err
	}
	if !progression.ChapterUnlocked(sess.Profile(), index) {
		return Attempt{}, ErrChapterLocked
	}

	output := s.grader.SimulateOutput(ctx, code, ch.Track)
	verdict := s.grader.Evaluate(ctx, code, ch.Track, ch.SuccessCriteria)
	attempt := Attempt{Verdict: verdict, Output: output}

	if !verdict.Passed() {
		attempt.Profile = sess.Profile()
		attempt.Reaction = mascot.Hint(verdict.Feedback, models.EmotionConfused)
		return attempt, nil
	}

	r, err := s.mutate(sess, func(p models.Profile) (models.Profile, []progression.Event, error) {
		next, events := s.engine.AdvanceStory(p, index, ch.XPReward)
		return next, events, nil
	})
	if err != nil {
		return Attempt{}, err
	}
	attempt.Result = r
	if !progression.Has(r.Events, progression.LeveledUp) {
		attempt.Reaction = mascot.ChapterOutro(ch)
	}
	return attempt, nil
}

// Spin runs the daily reward wheel
func (s *GameService) Spin(sess *Session) (Result, int, error) {
	var reward int
	r, err := s.mutate(sess, func(p models.Profile) (models.Profile, []progression.Event, error) {
		next, won, events := s.engine.DailySpin(p, s.now())
		if won == 0 {
			return p, nil, ErrSpinUsed
		}
		reward = won
		return next, events, nil
	})
	if err != nil {
		r.Reaction = mascot.SpinUsed
		return r, 0, err
	}
	return r, reward, nil
}

// Friends returns the caller's friend snapshots
func (s *GameService) Friends(sess *Session) []models.FriendRef {
	return sess.Profile().Friends
}

// AddFriend adds the learner with the given friend code to the caller's squad
func (s *GameService) AddFriend(sess *Session, code string) (Result, error) {
	if sess.IsGuest {
		return Result{Profile: sess.Profile(), Reaction: mascot.GuestFriends}, ErrGuestFriends
	}
	if strings.TrimSpace(code) == "" {
		return Result{Profile: sess.Profile(), Reaction: mascot.InvalidSelection},
			validation.ValidationError{Field: "code", Message: "friend code is required"}
	}

	r, err := s.mutate(sess, func(p models.Profile) (models.Profile, []progression.Event, error) {
		return s.engine.AddFriend(p, code)
	})
	switch {
	case errors.Is(err, progression.ErrSelfReference):
		r.Reaction = mascot.OwnCode
	case errors.Is(err, progression.ErrAlreadyFriend):
		r.Reaction = mascot.AlreadyFriends
	}
	return r, err
}

// Customize changes avatar and preference settings
func (s *GameService) Customize(sess *Session, c progression.Customization) (Result, error) {
	r, err := s.mutate(sess, func(p models.Profile) (models.Profile, []progression.Event, error) {
		return s.engine.Customize(p, c)
	})
	switch {
	case errors.Is(err, progression.ErrSecretLocked):
		r.Reaction = mascot.SecretLocked
	case errors.Is(err, progression.ErrInvalidCustomization):
		r.Reaction = mascot.InvalidSelection
	}
	return r, err
}

// UnlockSecret unlocks the Omega Gear
func (s *GameService) UnlockSecret(sess *Session) (Result, error) {
	return s.mutate(sess, func(p models.Profile) (models.Profile, []progression.Event, error) {
		next, events := s.engine.UnlockSecret(p)
		return next, events, nil
	})
}

// Certificates reports per-track completion for the caller
func (s *GameService) Certificates(sess *Session) []models.Certificate {
	return s.engine.Certificates(sess.Profile())
}
