package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func narrativeTestSchema() *Schema {
	return &Schema{
		Name:        "test-narrative",
		Description: "A short grading narrative",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"headline": map[string]any{"type": "string", "minLength": 1},
				"findings": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
				"recommendations": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
				"tone": map[string]any{"type": "string", "enum": []any{"positive", "neutral", "concerned"}},
			},
			"required": []any{"headline"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"full", `{"headline":"ok","findings":["a"],"recommendations":["b"],"tone":"neutral"}`, false},
		{"required only", `{"headline":"ok"}`, false},
		{"missing required", `{"findings":["a"]}`, true},
		{"empty headline", `{"headline":""}`, true},
		{"wrong item type", `{"headline":"ok","findings":[1,2]}`, true},
		{"invalid enum", `{"headline":"ok","tone":"angry"}`, true},
		{"malformed", `{not json}`, true},
		{"empty", ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(narrativeTestSchema(), json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var invErr *ErrInvalidResponse
				if !errors.As(err, &invErr) {
					t.Fatalf("expected ErrInvalidResponse, got: %T", err)
				}
				if string(invErr.Content) != tt.raw {
					t.Fatalf("expected offending content to be kept, got %q", invErr.Content)
				}
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`plain text`)); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestValidateResponse_NumericBounds(t *testing.T) {
	schema := &Schema{
		Name: "test-bounded",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"agreement": map[string]any{"type": "number", "minimum": 0, "maximum": 1},
			},
			"required": []any{"agreement"},
		},
	}

	if err := validateResponse(schema, json.RawMessage(`{"agreement":0.83}`)); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if err := validateResponse(schema, json.RawMessage(`{"agreement":1.5}`)); err == nil {
		t.Fatal("expected error for out-of-range number")
	}
}
