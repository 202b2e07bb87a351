package progression

import (
	"errors"
	"fmt"

	"nextgenacademy/internal/models"
)

// Voice setting bounds
const (
	MinVoice = 0.5
	MaxVoice = 2.0
)

var (
	ErrInvalidCustomization = errors.New("invalid customization")
	ErrSecretLocked         = errors.New("secret gear is still locked")
)

// Customization is a partial update of the cosmetic and preference fields.
// Nil fields are left untouched.
type Customization struct {
	Color      *string  `json:"color,omitempty"`
	Eyes       *string  `json:"eyes,omitempty"`
	Mouth      *string  `json:"mouth,omitempty"`
	Accessory  *string  `json:"accessory,omitempty"`
	VoicePitch *float64 `json:"voicePitch,omitempty"`
	VoiceRate  *float64 `json:"voiceRate,omitempty"`
	Theme      *string  `json:"theme,omitempty"`
	Muted      *bool    `json:"muted,omitempty"`
}

// Customize validates and applies a customization.
// Nothing is applied if any field is invalid.
func (e *Engine) Customize(p models.Profile, c Customization) (models.Profile, []Event, error) {
	p = p.Clone()
	if err := validateCustomization(p, c); err != nil {
		return p, nil, err
	}

	var events []Event
	changed := func(field string) { events = append(events, Event{Kind: AvatarChanged, Field: field}) }

	if c.Color != nil {
		p.Avatar.Color = *c.Color
		changed("color")
	}
	if c.Eyes != nil {
		p.Avatar.Eyes = *c.Eyes
		changed("eyes")
	}
	if c.Mouth != nil {
		p.Avatar.Mouth = *c.Mouth
		changed("mouth")
	}
	if c.Accessory != nil {
		p.Avatar.Accessory = *c.Accessory
		changed("accessory")
	}
	if c.VoicePitch != nil {
		p.Avatar.VoicePitch = *c.VoicePitch
		changed("voice")
	}
	if c.VoiceRate != nil {
		p.Avatar.VoiceRate = *c.VoiceRate
		if c.VoicePitch == nil {
			changed("voice")
		}
	}
	if c.Theme != nil {
		p.ThemePreference = *c.Theme
	}
	if c.Muted != nil {
		p.IsMuted = *c.Muted
	}
	return p, events, nil
}

func validateCustomization(p models.Profile, c Customization) error {
	if c.Color != nil && !models.IsAvatarColor(*c.Color) {
		return fmt.Errorf("%w: color %q", ErrInvalidCustomization, *c.Color)
	}
	if c.Eyes != nil && !models.IsEyes(*c.Eyes) {
		return fmt.Errorf("%w: eyes %q", ErrInvalidCustomization, *c.Eyes)
	}
	if c.Mouth != nil && !models.IsMouth(*c.Mouth) {
		return fmt.Errorf("%w: mouth %q", ErrInvalidCustomization, *c.Mouth)
	}
	if c.Accessory != nil {
		if !models.IsAccessory(*c.Accessory) {
			return fmt.Errorf("%w: accessory %q", ErrInvalidCustomization, *c.Accessory)
		}
		if *c.Accessory == models.SecretAccessory && !p.UnlockedSecret {
			return ErrSecretLocked
		}
	}
	if c.VoicePitch != nil && (*c.VoicePitch < MinVoice || *c.VoicePitch > MaxVoice) {
		return fmt.Errorf("%w: voice pitch %.2f", ErrInvalidCustomization, *c.VoicePitch)
	}
	if c.VoiceRate != nil && (*c.VoiceRate < MinVoice || *c.VoiceRate > MaxVoice) {
		return fmt.Errorf("%w: voice rate %.2f", ErrInvalidCustomization, *c.VoiceRate)
	}
	if c.Theme != nil && *c.Theme != models.ThemeDark && *c.Theme != models.ThemeLight {
		return fmt.Errorf("%w: theme %q", ErrInvalidCustomization, *c.Theme)
	}
	return nil
}
