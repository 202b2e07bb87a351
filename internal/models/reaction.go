package models

// Emotion is the mascot's facial expression
type Emotion string

const (
	EmotionHappy    Emotion = "happy"
	EmotionThinking Emotion = "thinking"
	EmotionConfused Emotion = "confused"
	EmotionExcited  Emotion = "excited"
)

// Emotions lists every valid expression
var Emotions = []Emotion{EmotionHappy, EmotionThinking, EmotionConfused, EmotionExcited}

// Valid reports whether e is a known expression
func (e Emotion) Valid() bool {
	switch e {
	case EmotionHappy, EmotionThinking, EmotionConfused, EmotionExcited:
		return true
	}
	return false
}

// Reaction is what the mascot says and how it looks saying it
type Reaction struct {
	Emotion Emotion `json:"emotion"`
	Message string  `json:"message"`
}
