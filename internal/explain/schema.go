package explain

import "github.com/cuongduong73/ankiquiz/internal/llm"

// Schema defines the JSON schema for a missed-question explanation.
var Schema = &llm.Schema{
	Name:        "question-explanation",
	Description: "Why the correct answer to a flashcard quiz question is right and where the learner went wrong",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "One sentence stating the correct answer",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "Why the correct answer is right (2-4 sentences)",
			},
			"mistake": map[string]any{
				"type":        "string",
				"description": "What the learner's answer suggests they confused, or empty if unanswered",
			},
			"mnemonic": map[string]any{
				"type":        "string",
				"description": "A short memory aid, or empty if none fits",
			},
		},
		"required":             []any{"summary", "explanation", "mistake", "mnemonic"},
		"additionalProperties": false,
	},
}
