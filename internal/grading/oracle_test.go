package grading

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nextgenacademy/internal/llm"
	"nextgenacademy/internal/models"
)

func newOracle(p llm.Provider) *Oracle {
	return NewOracle(p, time.Second, zap.NewNop())
}

func TestEvaluateMapsEmotionToOutcome(t *testing.T) {
	tests := []struct {
		emotion models.Emotion
		want    Outcome
	}{
		{models.EmotionHappy, Pass},
		{models.EmotionExcited, Pass},
		{models.EmotionThinking, Incomplete},
		{models.EmotionConfused, Malformed},
	}

	for _, tt := range tests {
		t.Run(string(tt.emotion), func(t *testing.T) {
			mock := llm.NewMockProvider().Reply(`{"text":"Nice loop!","emotion":"` + string(tt.emotion) + `"}`)

			v := newOracle(mock).Evaluate(context.Background(), "print('hi')", "Python", "Print hi")

			assert.Equal(t, tt.want, v.Outcome)
			assert.Equal(t, tt.emotion, v.Emotion)
			assert.Equal(t, "Nice loop!", v.Feedback)
			assert.Equal(t, tt.want == Pass, v.Passed())
		})
	}
}

func TestEvaluateBuildsPrompt(t *testing.T) {
	mock := llm.NewMockProvider().Reply(`{"text":"ok","emotion":"happy"}`)

	newOracle(mock).Evaluate(context.Background(), "console.log(1)", "JavaScript", "Log the number 1")

	calls := mock.Calls()
	require.Len(t, calls, 1)
	prompt := calls[0].Messages[0].Content
	assert.Contains(t, prompt, "console.log(1)")
	assert.Contains(t, prompt, "JavaScript")
	assert.Contains(t, prompt, "Log the number 1")
	require.NotNil(t, calls[0].Schema)
	assert.Equal(t, "nextbot-feedback", calls[0].Schema.Name)
}

func TestEvaluateDegradesOnFailure(t *testing.T) {
	mock := llm.NewMockProvider().Fail(&llm.ErrProviderUnavailable{Err: errors.New("timeout")})

	v := newOracle(mock).Evaluate(context.Background(), "x", "Python", "anything")

	assert.Equal(t, Malformed, v.Outcome)
	assert.Equal(t, models.EmotionConfused, v.Emotion)
	assert.Equal(t, GlitchFeedback, v.Feedback)
}

func TestEvaluateRejectsUnknownEmotion(t *testing.T) {
	mock := llm.NewMockProvider().Reply(`{"text":"hmm","emotion":"furious"}`)

	v := newOracle(mock).Evaluate(context.Background(), "x", "Python", "anything")

	assert.False(t, v.Passed())
	assert.Equal(t, GlitchFeedback, v.Feedback)
}

func TestEvaluateUnconfigured(t *testing.T) {
	o := newOracle(nil)

	v := o.Evaluate(context.Background(), "", "Python", "anything")

	assert.False(t, o.Configured())
	assert.Equal(t, Malformed, v.Outcome)
	assert.Equal(t, UnconfiguredFeedback, v.Feedback)
}

func TestParseFeedbackDefaults(t *testing.T) {
	v := parseFeedback([]byte(`{"text":"  ","emotion":""}`))

	assert.Equal(t, ProcessingFeedback, v.Feedback)
	assert.Equal(t, models.EmotionThinking, v.Emotion)
	assert.Equal(t, Incomplete, v.Outcome)
}

func TestSimulateOutput(t *testing.T) {
	mock := llm.NewMockProvider().Reply("Hello World\n")

	out := newOracle(mock).SimulateOutput(context.Background(), `print("Hello World")`, "Python")

	assert.Equal(t, "Hello World", out)
	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Nil(t, calls[0].Schema)
	assert.True(t, strings.HasPrefix(calls[0].Messages[0].Content, "Act as a compiler/interpreter for Python."))
}

func TestSimulateOutputFallbacks(t *testing.T) {
	assert.Equal(t, UnconfiguredOutput, newOracle(nil).SimulateOutput(context.Background(), "x", "C"))

	failing := llm.NewMockProvider().Fail(errors.New("boom"))
	assert.Equal(t, GlitchOutput, newOracle(failing).SimulateOutput(context.Background(), "x", "C"))
}

func TestEvaluateHonorsTimeout(t *testing.T) {
	o := NewOracle(slowProvider{}, 5*time.Millisecond, zap.NewNop())

	v := o.Evaluate(context.Background(), "x", "Python", "anything")

	assert.Equal(t, GlitchFeedback, v.Feedback)
}

type slowProvider struct{}

func (slowProvider) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (slowProvider) ModelID() string { return "slow" }
