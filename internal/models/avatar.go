package models

import "slices"

// SecretAccessory can only be equipped once the secret is unlocked
const SecretAccessory = "Omega Gear"

// Avatar palettes
var (
	AvatarColors = []string{"#6366f1", "#ec4899", "#10b981", "#f59e0b", "#3b82f6", "#ef4444", "#8b5cf6"}
	Accessories  = []string{"None", "Headphones", "Glasses", "Cap", "Antenna", "Crown", "Scarf"}
	Eyes         = []string{"Normal", "Happy", "Wink", "Cyclops", "Sunglasses", "Lashes", "Robo-Visor"}
	Mouths       = []string{"Smile", "Grin", "O-Face", "Tongue", "Neutral", "Teeth", "Moustache"}
)

// IsAvatarColor reports whether c is in the color palette
func IsAvatarColor(c string) bool { return slices.Contains(AvatarColors, c) }

// IsAccessory reports whether a is a regular or secret accessory
func IsAccessory(a string) bool {
	return a == SecretAccessory || slices.Contains(Accessories, a)
}

// IsEyes reports whether e is a known eye style
func IsEyes(e string) bool { return slices.Contains(Eyes, e) }

// IsMouth reports whether m is a known mouth style
func IsMouth(m string) bool { return slices.Contains(Mouths, m) }
