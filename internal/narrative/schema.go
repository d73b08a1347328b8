package narrative

import "github.com/abhisek/gradelens/internal/llm"

// Schema is the JSON schema for LLM-written report narratives.
var Schema = &llm.Schema{
	Name:        "report-narrative",
	Description: "A short assessment of how closely automated grades agree with TA grades",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"headline": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "One sentence verdict on LLM/TA agreement for this dataset",
			},
			"findings": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"maxItems":    6,
				"description": "Concrete observations, each citing the statistic it rests on",
			},
			"recommendations": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"maxItems":    5,
				"description": "Actionable next steps for the grading team",
			},
		},
		"required":             []any{"headline", "findings", "recommendations"},
		"additionalProperties": false,
	},
}
