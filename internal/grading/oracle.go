// Package grading asks a language model whether a child's code meets a
// lesson goal. Every failure degrades to a non-passing verdict with a
// friendly message; nothing here returns an error to the caller.
package grading

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"nextgenacademy/internal/llm"
	"nextgenacademy/internal/models"
)

// Fallback texts
const (
	UnconfiguredFeedback = "I can't reach my brain servers right now! Check your API Key."
	GlitchFeedback       = "Beep boop! I had a glitch processing that. Try again?"
	ProcessingFeedback   = "I'm processing that logic!"

	UnconfiguredOutput = "Error: AI not initialized."
	GlitchOutput       = "Error interpreting code."
)

const (
	feedbackMaxTokens = 256
	outputMaxTokens   = 512
)

// Outcome classifies a verdict
type Outcome string

const (
	Pass       Outcome = "pass"
	Incomplete Outcome = "incomplete"
	Malformed  Outcome = "malformed"
)

// Verdict is the oracle's judgement on one submission
type Verdict struct {
	Outcome  Outcome        `json:"outcome"`
	Emotion  models.Emotion `json:"emotion"`
	Feedback string         `json:"feedback"`
}

// Passed reports whether the submission counts as solved
func (v Verdict) Passed() bool { return v.Outcome == Pass }

// Reaction returns the verdict as a mascot reaction
func (v Verdict) Reaction() models.Reaction {
	return models.Reaction{Emotion: v.Emotion, Message: v.Feedback}
}

// Grader is the contract the game service depends on
type Grader interface {
	Evaluate(ctx context.Context, code, track, criterion string) Verdict
	SimulateOutput(ctx context.Context, code, track string) string
}

// Oracle grades submissions with a language model
type Oracle struct {
	provider llm.Provider
	timeout  time.Duration
	logger   *zap.Logger
}

// NewOracle creates an oracle. A nil provider yields an unconfigured oracle
// that answers every call with the fallback texts.
func NewOracle(provider llm.Provider, timeout time.Duration, logger *zap.Logger) *Oracle {
	return &Oracle{provider: provider, timeout: timeout, logger: logger.Named("grading")}
}

// Configured reports whether a provider is available
func (o *Oracle) Configured() bool { return o.provider != nil }

// Evaluate grades code against criterion
func (o *Oracle) Evaluate(ctx context.Context, code, track, criterion string) Verdict {
	if o.provider == nil {
		return Verdict{Outcome: Malformed, Emotion: models.EmotionConfused, Feedback: UnconfiguredFeedback}
	}

	ctx, cancel := o.withTimeout(llm.WithPurpose(ctx, "evaluate"))
	defer cancel()

	req := llm.UserPrompt(tutorSystem, evaluatePrompt(code, track, criterion))
	req.Schema = feedbackSchema
	req.MaxTokens = feedbackMaxTokens

	resp, err := o.provider.Generate(ctx, req)
	if err != nil {
		o.logger.Warn("evaluation failed", zap.String("track", track), zap.Error(err))
		return glitch()
	}
	return parseFeedback(resp.Content)
}

// SimulateOutput asks the model what code would print
func (o *Oracle) SimulateOutput(ctx context.Context, code, track string) string {
	if o.provider == nil {
		return UnconfiguredOutput
	}

	ctx, cancel := o.withTimeout(llm.WithPurpose(ctx, "simulate"))
	defer cancel()

	req := llm.UserPrompt(interpreterSystem, simulatePrompt(code, track))
	req.MaxTokens = outputMaxTokens

	resp, err := o.provider.Generate(ctx, req)
	if err != nil {
		o.logger.Warn("simulation failed", zap.String("track", track), zap.Error(err))
		return GlitchOutput
	}
	return strings.TrimSpace(resp.Text())
}

func (o *Oracle) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.timeout)
}

type feedback struct {
	Text    string         `json:"text"`
	Emotion models.Emotion `json:"emotion"`
}

func parseFeedback(raw json.RawMessage) Verdict {
	var fb feedback
	if err := json.Unmarshal(raw, &fb); err != nil {
		return glitch()
	}
	if strings.TrimSpace(fb.Text) == "" {
		fb.Text = ProcessingFeedback
	}
	if !fb.Emotion.Valid() {
		fb.Emotion = models.EmotionThinking
	}
	return Verdict{Outcome: OutcomeFor(fb.Emotion), Emotion: fb.Emotion, Feedback: fb.Text}
}

// OutcomeFor maps an emotion tag onto a verdict outcome
func OutcomeFor(e models.Emotion) Outcome {
	switch e {
	case models.EmotionHappy, models.EmotionExcited:
		return Pass
	case models.EmotionConfused:
		return Malformed
	default:
		return Incomplete
	}
}

func glitch() Verdict {
	return Verdict{Outcome: Malformed, Emotion: models.EmotionConfused, Feedback: GlitchFeedback}
}
