package progression

import (
	"strings"

	"nextgenacademy/internal/models"
)

var (
	friendNames    = []string{"Cyber", "Techno", "Pixel", "Bit", "Nano", "Mega", "Giga", "Terra"}
	friendSuffixes = []string{"Bot", "Coder", "Ninja", "Wizard", "Walker", "Surfer"}
)

// NormalizeFriendCode upper-cases and trims a typed friend code
func NormalizeFriendCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// SynthesizeFriend derives a friend snapshot from a code.
// The same code always yields the same friend.
func SynthesizeFriend(code string) models.FriendRef {
	seed := 0
	if len(code) > 0 {
		seed = int(code[0]) + int(code[len(code)-1])
	}
	xp := (seed * 123) % 10000

	return models.FriendRef{
		Code: code,
		Name: friendNames[seed%len(friendNames)] + friendSuffixes[seed%len(friendSuffixes)],
		Avatar: models.AvatarConfig{
			Color:      models.AvatarColors[seed%len(models.AvatarColors)],
			Accessory:  models.Accessories[seed%len(models.Accessories)],
			Eyes:       models.Eyes[seed%len(models.Eyes)],
			Mouth:      models.Mouths[seed%len(models.Mouths)],
			VoicePitch: 1.0,
			VoiceRate:  1.0,
		},
		XP:               xp,
		Level:            xp/500 + 1,
		ChampionshipWins: (seed * 7) % 20,
	}
}

// AddFriend appends a synthesized friend for code.
// The profile is returned unchanged alongside ErrSelfReference or ErrAlreadyFriend.
func (e *Engine) AddFriend(p models.Profile, code string) (models.Profile, []Event, error) {
	p = p.Clone()
	code = NormalizeFriendCode(code)

	if code == p.FriendCode {
		return p, nil, ErrSelfReference
	}
	if p.HasFriend(code) {
		return p, nil, ErrAlreadyFriend
	}

	friend := SynthesizeFriend(code)
	p.Friends = append(p.Friends, friend)
	return p, []Event{{Kind: FriendAdded, Friend: &friend}}, nil
}
