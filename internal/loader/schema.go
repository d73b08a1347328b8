package loader

import (
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/gradelens/internal/grading"
)

const rowsSchemaURL = "schema://grading-rows.json"

var (
	rowsSchemaOnce sync.Once
	rowsSchema     *jsonschema.Schema
	rowsSchemaErr  error
)

// rowsSchemaDefinition describes a JSON grading table: an array of row
// objects carrying every required field. Values may be strings so that
// lenient loads can coerce them.
func rowsSchemaDefinition() map[string]any {
	id := map[string]any{"type": []any{"string", "number"}}
	num := map[string]any{"type": []any{"number", "string", "null"}}

	required := make([]any, len(grading.RequiredFields))
	for i, f := range grading.RequiredFields {
		required[i] = f
	}

	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				grading.FieldStudentID:  id,
				grading.FieldQuestionID: id,
				grading.FieldTAScore:    num,
				grading.FieldLLMScore:   num,
				grading.FieldMaxPoints:  num,
				grading.FieldConfidence: num,
				grading.FieldFlags:      map[string]any{"type": []any{"boolean", "string", "number", "null"}},
			},
			"required": required,
		},
	}
}

func compiledRowsSchema() (*jsonschema.Schema, error) {
	rowsSchemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(rowsSchemaURL, rowsSchemaDefinition()); err != nil {
			rowsSchemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		rowsSchema, rowsSchemaErr = c.Compile(rowsSchemaURL)
	})
	return rowsSchema, rowsSchemaErr
}
