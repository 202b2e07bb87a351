// Package mascot turns gameplay events into what the robot companion says.
// It is the only place user-facing reaction text is chosen.
package mascot

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"nextgenacademy/internal/models"
	"nextgenacademy/internal/progression"
)

// Page identifies a screen that greets the learner on entry
type Page string

const (
	PageDashboard    Page = "dashboard"
	PageProfile      Page = "profile"
	PageLeaderboard  Page = "leaderboard"
	PageFriends      Page = "friends"
	PageChampionship Page = "championship"
	PageStory        Page = "story"
	PageCertificates Page = "certificates"
)

var pageGreetings = map[Page]models.Reaction{
	PageDashboard:    {Emotion: models.EmotionHappy, Message: "Base command active! What's our next move?"},
	PageProfile:      {Emotion: models.EmotionExcited, Message: "Upgrade station! Let's make you look awesome!"},
	PageLeaderboard:  {Emotion: models.EmotionHappy, Message: "Look at all these coding legends!"},
	PageFriends:      {Emotion: models.EmotionHappy, Message: "Friends make coding way more fun! Add them to your squad!"},
	PageChampionship: {Emotion: models.EmotionExcited, Message: "Welcome to the Arena! Prepare for glory!"},
	PageStory:        {Emotion: models.EmotionThinking, Message: "The universe is in danger! We need your help, Cadet!"},
	PageCertificates: {Emotion: models.EmotionHappy, Message: "Your Hall of Fame! Keep completing missions to earn these trophies!"},
}

// Fixed reactions that do not come from engine events
var (
	GuestFriends     = models.Reaction{Emotion: models.EmotionConfused, Message: "Sign up to add friends!"}
	OwnCode          = models.Reaction{Emotion: models.EmotionConfused, Message: "That's your own code silly!"}
	AlreadyFriends   = models.Reaction{Emotion: models.EmotionThinking, Message: "You are already friends with this cadet!"}
	SpinUsed         = models.Reaction{Emotion: models.EmotionThinking, Message: "The wheel needs to recharge. Come back tomorrow!"}
	Analyzing        = models.Reaction{Emotion: models.EmotionThinking, Message: "Analyzing your code matrix..."}
	StoryAnalyzing   = models.Reaction{Emotion: models.EmotionThinking, Message: "Analyzing tactical solution..."}
	MatchStarted     = models.Reaction{Emotion: models.EmotionExcited, Message: "The clock is ticking! Focus!"}
	MatchWon         = models.Reaction{Emotion: models.EmotionHappy, Message: "Unbelievable! You are a coding machine!"}
	MatchLost        = models.Reaction{Emotion: models.EmotionConfused, Message: "Mission Failed. Don't give up!"}
	MatchTimedOut    = models.Reaction{Emotion: models.EmotionConfused, Message: "Time's Up! The system locked down."}
	ChapterLocked    = models.Reaction{Emotion: models.EmotionConfused, Message: "That sector is still locked. Finish the earlier missions first!"}
	LessonLocked     = models.Reaction{Emotion: models.EmotionConfused, Message: "Complete the previous mission to unlock this one!"}
	SecretLocked     = models.Reaction{Emotion: models.EmotionThinking, Message: "That gear is still classified, Cadet!"}
	InvalidSelection = models.Reaction{Emotion: models.EmotionConfused, Message: "Hmm, my circuits don't recognize that option."}
	LessonSkipped    = models.Reaction{Emotion: models.EmotionConfused, Message: "Mission skipped! Moving to the next coordinate."}
	SolutionRevealed = models.Reaction{Emotion: models.EmotionHappy, Message: "I've pasted the solution! Study it to understand how it works, then try running it!"}
)

var customizeLines = map[string]struct {
	emotion models.Emotion
	lines   []string
}{
	"color":     {models.EmotionExcited, []string{"That color really pops!", "Shiny new paint job!", "My favorite hue!", "Looking sharp, cadet!"}},
	"eyes":      {models.EmotionHappy, []string{"I see you!", "Intense stare!", "Nice optics!", "Looking good!"}},
	"mouth":     {models.EmotionHappy, []string{"Say cheese!", "What a smile!", "Expressive!", "Beep boop!"}},
	"accessory": {models.EmotionExcited, []string{"So stylish!", "Very fashionable!", "That's cool gear!", "Upgrade complete!"}},
	"secret":    {models.EmotionExcited, []string{"OMEGA GEAR EQUIPPED! Infinite power!", "You found the secret!", "Legendary status confirmed!"}},
	"voice":     {models.EmotionHappy, []string{"Testing 1, 2, 3! How do I sound?", "Is this better?", "Voice module calibrated!"}},
}

// event priority when several happen at once; earlier wins
var priority = []progression.EventKind{
	progression.LeveledUp,
	progression.ChampionshipWon,
	progression.SecretUnlocked,
	progression.FriendAdded,
	progression.ChapterCompleted,
	progression.LessonCompleted,
	progression.SpinAwarded,
	progression.AvatarChanged,
}

// Presenter picks reactions
type Presenter struct {
	intn func(n int) int
}

// NewPresenter creates a presenter that varies cosmetic lines at random
func NewPresenter() *Presenter {
	return &Presenter{intn: rand.IntN}
}

// NewFixedPresenter always picks the first variant
func NewFixedPresenter() *Presenter {
	return &Presenter{intn: func(int) int { return 0 }}
}

// Page returns the greeting for a screen
func (p *Presenter) Page(page Page) (models.Reaction, bool) {
	r, ok := pageGreetings[page]
	return r, ok
}

// Events returns the reaction for the most important event, or false if none applies
func (p *Presenter) Events(events []progression.Event, profile models.Profile) (models.Reaction, bool) {
	for _, kind := range priority {
		for _, ev := range events {
			if ev.Kind == kind {
				return p.event(ev, profile), true
			}
		}
	}
	return models.Reaction{}, false
}

func (p *Presenter) event(ev progression.Event, profile models.Profile) models.Reaction {
	switch ev.Kind {
	case progression.LeveledUp:
		return models.Reaction{
			Emotion: models.EmotionExcited,
			Message: fmt.Sprintf("AMAZING! You reached Level %d! My sensors are overloading with joy!", ev.Level),
		}
	case progression.ChampionshipWon:
		return models.Reaction{Emotion: models.EmotionExcited, Message: fmt.Sprintf("A true champion! %d XP added!", ev.XP)}
	case progression.SecretUnlocked:
		return models.Reaction{
			Emotion: models.EmotionExcited,
			Message: "SECRET UNLOCKED! You found the Omega Gear! Check your profile to equip it!",
		}
	case progression.FriendAdded:
		name := "a new cadet"
		if ev.Friend != nil {
			name = ev.Friend.Name
		}
		return models.Reaction{Emotion: models.EmotionExcited, Message: fmt.Sprintf("Friend Found! Added %s to your squad!", name)}
	case progression.LessonCompleted:
		if ev.Skipped {
			return LessonSkipped
		}
		return models.Reaction{Emotion: models.EmotionExcited, Message: "Great job! You leveled up your brain!"}
	case progression.ChapterCompleted:
		return models.Reaction{Emotion: models.EmotionExcited, Message: "Great job! You leveled up your brain!"}
	case progression.SpinAwarded:
		return models.Reaction{Emotion: models.EmotionExcited, Message: fmt.Sprintf("Wow! You won %d coins!", ev.Coins)}
	case progression.AvatarChanged:
		field := ev.Field
		if field == "accessory" && profile.Avatar.Accessory == models.SecretAccessory {
			field = "secret"
		}
		return p.customize(field)
	}
	return models.Reaction{Emotion: models.EmotionHappy}
}

func (p *Presenter) customize(field string) models.Reaction {
	set, ok := customizeLines[field]
	if !ok {
		return models.Reaction{Emotion: models.EmotionHappy, Message: "Upgrade complete!"}
	}
	return models.Reaction{Emotion: set.emotion, Message: set.lines[p.intn(len(set.lines))]}
}

// LessonWelcome greets a learner opening a lesson
func LessonWelcome(title string) models.Reaction {
	return models.Reaction{Emotion: models.EmotionHappy, Message: fmt.Sprintf("Welcome to %s! Let's learn the concepts first.", title)}
}

// ChapterIntro narrates the start of a story chapter. Boss chapters look worried.
func ChapterIntro(ch models.StoryChapter) models.Reaction {
	emotion := models.EmotionExcited
	if strings.Contains(ch.Title, "BOSS") {
		emotion = models.EmotionConfused
	}
	return models.Reaction{Emotion: emotion, Message: ch.PlotIntro}
}

// ChapterOutro celebrates a solved chapter with its closing line
func ChapterOutro(ch models.StoryChapter) models.Reaction {
	return models.Reaction{Emotion: models.EmotionHappy, Message: ch.PlotOutro}
}

// Hint shows oracle feedback for a failed story or match attempt
func Hint(feedback string, emotion models.Emotion) models.Reaction {
	return models.Reaction{Emotion: emotion, Message: feedback}
}
