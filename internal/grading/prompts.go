package grading

import (
	"fmt"

	"nextgenacademy/internal/llm"
	"nextgenacademy/internal/models"
)

const tutorSystem = `You are a friendly, energetic robot tutor named "NextBot" teaching a child aged 8 to 12.
Always answer in JSON with the fields "text" and "emotion".`

const interpreterSystem = `You are a compiler and interpreter. You never explain yourself.`

// feedbackSchema is the shape of a grading reply
var feedbackSchema = &llm.Schema{
	Name:        "nextbot-feedback",
	Description: "Tutor feedback on a child's code submission",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text": map[string]any{
				"type":        "string",
				"description": "Congratulation or hint for the child",
			},
			"emotion": map[string]any{
				"type": "string",
				"enum": []string{
					string(models.EmotionHappy),
					string(models.EmotionThinking),
					string(models.EmotionConfused),
					string(models.EmotionExcited),
				},
			},
		},
		"required":             []string{"text", "emotion"},
		"additionalProperties": false,
	},
}

func evaluatePrompt(code, track, criterion string) string {
	return fmt.Sprintf(`The child is learning %s.

Goal: %s
Child's code:
%s

Task:
1. Decide whether the code achieves the goal.
2. If it does, give a short, high-energy congratulation (under 20 words).
3. If it does not, give a kind, simple hint (under 30 words). Do not give the answer away.
4. Choose an emotion: "happy" (success), "thinking" (incomplete), "confused" (syntax error), "excited" (great job).`,
		track, criterion, code)
}

func simulatePrompt(code, track string) string {
	return fmt.Sprintf(`Act as a compiler/interpreter for %s.
Execute the following code and return *only* the output it would produce on the console.
If there is an error, return a simplified error message suitable for a child.

Code:
%s`, track, code)
}
