package models

import (
	"slices"
	"time"
)

// GuestName and GuestFriendCode identify the transient guest profile
const (
	GuestName       = "Guest Commander"
	GuestFriendCode = "GUEST-000"
)

// Theme preferences
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// AvatarConfig holds the cosmetic and voice settings of a profile
type AvatarConfig struct {
	Color      string  `json:"color"`
	Eyes       string  `json:"eyes"`
	Mouth      string  `json:"mouth"`
	Accessory  string  `json:"accessory"`
	VoicePitch float64 `json:"voicePitch"`
	VoiceRate  float64 `json:"voiceRate"`
}

// FriendRef is a snapshot of another learner taken when they were added.
// It is never refreshed from the friend's own profile.
type FriendRef struct {
	Code             string       `json:"code"`
	Name             string       `json:"name"`
	Avatar           AvatarConfig `json:"avatar"`
	XP               int          `json:"xp"`
	Level            int          `json:"level"`
	ChampionshipWins int          `json:"championshipWins"`
}

// Profile is a learner's progression state
type Profile struct {
	ID               int64        `json:"-"`
	Name             string       `json:"name"`
	PINHash          string       `json:"-"`
	FriendCode       string       `json:"friendCode"`
	XP               int          `json:"xp"`
	Level            int          `json:"level"`
	Coins            int          `json:"coins"`
	Streak           int          `json:"streak"`
	Avatar           AvatarConfig `json:"avatar"`
	CompletedLessons []string     `json:"completedLessons"`
	Friends          []FriendRef  `json:"friends"`
	ThemePreference  string       `json:"themePreference"`
	IsMuted          bool         `json:"isMuted"`
	ChampionshipWins int          `json:"championshipWins"`
	LastSpinDate     *time.Time   `json:"lastSpinDate,omitempty"`
	UnlockedSecret   bool         `json:"unlockedSecret"`
	StoryProgress    int          `json:"storyProgress"`
	IsGuest          bool         `json:"isGuest"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}

// NewProfile returns the starting state for a freshly registered learner
func NewProfile(name, friendCode, color string) Profile {
	return Profile{
		Name:       name,
		FriendCode: friendCode,
		Level:      1,
		Coins:      50,
		Streak:     1,
		Avatar: AvatarConfig{
			Color:      color,
			Eyes:       "Normal",
			Mouth:      "Smile",
			Accessory:  "None",
			VoicePitch: 1.2,
			VoiceRate:  1.0,
		},
		CompletedLessons: []string{},
		Friends:          []FriendRef{},
		ThemePreference:  ThemeDark,
	}
}

// NewGuestProfile returns the transient profile used by the guest path
func NewGuestProfile() Profile {
	p := NewProfile(GuestName, GuestFriendCode, "#10b981")
	p.Coins = 0
	p.Avatar.Accessory = "Cap"
	p.IsGuest = true
	return p
}

// HasCompleted reports whether the lesson is in the completed set
func (p Profile) HasCompleted(lessonID string) bool {
	return slices.Contains(p.CompletedLessons, lessonID)
}

// HasFriend reports whether a friend with the given code is on the roster
func (p Profile) HasFriend(code string) bool {
	return slices.ContainsFunc(p.Friends, func(f FriendRef) bool { return f.Code == code })
}

// Clone returns a deep copy so callers never share slices with the original
func (p Profile) Clone() Profile {
	p.CompletedLessons = slices.Clone(p.CompletedLessons)
	p.Friends = slices.Clone(p.Friends)
	if p.LastSpinDate != nil {
		t := *p.LastSpinDate
		p.LastSpinDate = &t
	}
	return p
}
