package progression

import "nextgenacademy/internal/models"

// EventKind names a gameplay transition
type EventKind string

const (
	LeveledUp        EventKind = "leveled_up"
	LessonCompleted  EventKind = "lesson_completed"
	SpinAwarded      EventKind = "spin_awarded"
	ChapterCompleted EventKind = "chapter_completed"
	ChampionshipWon  EventKind = "championship_won"
	FriendAdded      EventKind = "friend_added"
	SecretUnlocked   EventKind = "secret_unlocked"
	AvatarChanged    EventKind = "avatar_changed"
)

// Event is emitted by the engine for every state transition worth announcing
type Event struct {
	Kind     EventKind         `json:"kind"`
	Level    int               `json:"level,omitempty"`
	LessonID string            `json:"lessonId,omitempty"`
	Chapter  int               `json:"chapter"`
	XP       int               `json:"xp,omitempty"`
	Coins    int               `json:"coins,omitempty"`
	Friend   *models.FriendRef `json:"friend,omitempty"`
	Field    string            `json:"field,omitempty"`
	Skipped  bool              `json:"skipped,omitempty"`
}

// Has reports whether an event of kind is present
func Has(events []Event, kind EventKind) bool {
	for _, e := range events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}
