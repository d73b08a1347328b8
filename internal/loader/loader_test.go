package loader

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/gradelens/internal/grading"
)

func loadCSV(t *testing.T, input string, policy Policy) (*Dataset, error) {
	t.Helper()
	return Load(strings.NewReader(input), Options{Format: FormatCSV, Policy: policy})
}

func TestLoad_CSVWithAllColumns(t *testing.T) {
	input := `student_id,question_id,ta_score,llm_score,max_points,confidence,flags
S001,Q1,8,8,10,1.0,false
S002,Q1,8,5,10,0.5,True
`
	ds, err := loadCSV(t, input, PolicyLenient)
	require.NoError(t, err)

	want := []grading.GradingRecord{
		{StudentID: "S001", QuestionID: "Q1", TAScore: 8, LLMScore: 8, MaxPoints: 10, Confidence: 1.0, Flags: false},
		{StudentID: "S002", QuestionID: "Q1", TAScore: 8, LLMScore: 5, MaxPoints: 10, Confidence: 0.5, Flags: true},
	}
	if diff := cmp.Diff(want, ds.Records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, ds.HasColumn(grading.FieldConfidence))
	assert.Empty(t, ds.Warnings)
	assert.Equal(t, grading.Fingerprint(want), ds.Fingerprint)
}

func TestLoad_OptionalColumnsDefaulted(t *testing.T) {
	input := "question_id,student_id,max_points,ta_score,llm_score,notes\nQ1,S001,10,7,6,late\n"
	ds, err := loadCSV(t, input, PolicyStrict)
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)

	r := ds.Records[0]
	assert.Equal(t, 1.0, r.Confidence)
	assert.False(t, r.Flags)
	assert.False(t, ds.HasColumn(grading.FieldConfidence))
	assert.True(t, ds.HasColumn("notes"))
}

func TestLoad_MissingRequiredColumns(t *testing.T) {
	input := "student_id,question_id,llm_score\nS001,Q1,8\n"
	_, err := loadCSV(t, input, PolicyLenient)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr), "got %v", err)
	assert.Equal(t, []string{"ta_score", "max_points"}, schemaErr.Missing)
	assert.Contains(t, err.Error(), "ta_score, max_points")
}

func TestLoad_EmptyInputIsSchemaError(t *testing.T) {
	_, err := loadCSV(t, "", PolicyLenient)
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, grading.RequiredFields, schemaErr.Missing)
}

func TestLoad_HeaderOnly(t *testing.T) {
	ds, err := loadCSV(t, "student_id,question_id,ta_score,llm_score,max_points\n", PolicyStrict)
	require.NoError(t, err)
	assert.NotNil(t, ds.Records)
	assert.Empty(t, ds.Records)
}

func TestLoad_LenientCoercion(t *testing.T) {
	input := `student_id,question_id,ta_score,llm_score,max_points,confidence,flags
S001,Q1,eight,8,10,,maybe
S002,Q1,8,5,0,0.5,
S002,Q1,7,5,10,1.4,yes
`
	ds, err := loadCSV(t, input, PolicyLenient)
	require.NoError(t, err)
	require.Len(t, ds.Records, 3)

	assert.True(t, math.IsNaN(ds.Records[0].TAScore))
	assert.Equal(t, 1.0, ds.Records[0].Confidence)
	assert.False(t, ds.Records[0].Flags)
	assert.Equal(t, 0.0, ds.Records[1].MaxPoints)
	assert.Equal(t, 1.4, ds.Records[2].Confidence)
	assert.True(t, ds.Records[2].Flags)

	require.Len(t, ds.Warnings, 2)
	assert.Equal(t, grading.FieldTAScore, ds.Warnings[0].Field)
	assert.Equal(t, grading.FieldFlags, ds.Warnings[1].Field)

	require.Len(t, ds.Duplicates, 1)
	assert.Equal(t, Duplicate{StudentID: "S002", QuestionID: "Q1", Rows: []int{2, 3}}, ds.Duplicates[0])
}

func TestLoad_StrictRejects(t *testing.T) {
	input := `student_id,question_id,ta_score,llm_score,max_points,confidence
S001,Q1,eight,8,10,0.9
S002,Q1,8,5,0,0.5
S003,Q1,7,5,10,1.4
S003,Q1,7,5,10,0.4
`
	_, err := loadCSV(t, input, PolicyStrict)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "got %v", err)

	got := make([]string, len(verr.Issues))
	for i, issue := range verr.Issues {
		got[i] = issue.String()
	}
	want := []string{
		`row 1: ta_score "eight": not a number`,
		`row 2: max_points "0": must be a positive finite number`,
		`row 3: confidence "1.4": must be within [0, 1]`,
		`row 4: student_id/question_id "S003/Q1": duplicate of row 3`,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("issues mismatch (-want +got):\n%s", diff)
	}
	assert.Contains(t, err.Error(), "4 invalid value(s)")
}

func TestLoad_RaggedCSV(t *testing.T) {
	_, err := loadCSV(t, "student_id,question_id,ta_score,llm_score,max_points\nS001,Q1,8\n", PolicyLenient)
	require.Error(t, err)
	var schemaErr *SchemaError
	assert.False(t, errors.As(err, &schemaErr))
}

func TestLoad_JSON(t *testing.T) {
	input := `[
	  {"student_id": "S001", "question_id": "Q1", "ta_score": 8, "llm_score": 8, "max_points": 10},
	  {"student_id": 42, "question_id": "Q2", "ta_score": "7.5", "llm_score": 6, "max_points": 10, "confidence": 0.4, "flags": true}
	]`
	ds, err := Load(strings.NewReader(input), Options{Format: FormatJSON})
	require.NoError(t, err)
	require.Len(t, ds.Records, 2)

	assert.Equal(t, 1.0, ds.Records[0].Confidence, "confidence defaults per row")
	assert.Equal(t, "42", ds.Records[1].StudentID)
	assert.Equal(t, 7.5, ds.Records[1].TAScore)
	assert.Equal(t, 0.4, ds.Records[1].Confidence)
	assert.True(t, ds.Records[1].Flags)
	assert.True(t, ds.HasColumn(grading.FieldFlags))
}

func TestLoad_JSONMissingField(t *testing.T) {
	input := `[{"student_id": "S001", "question_id": "Q1", "ta_score": 8, "llm_score": 8}]`
	_, err := Load(strings.NewReader(input), Options{Format: FormatJSON})

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr), "got %v", err)
	assert.Equal(t, []string{"max_points"}, schemaErr.Missing)
}

func TestLoad_JSONNotAnArray(t *testing.T) {
	_, err := Load(strings.NewReader(`{"rows": []}`), Options{Format: FormatJSON})
	require.Error(t, err)

	_, err = Load(strings.NewReader(`[`), Options{Format: FormatJSON})
	require.Error(t, err)
}

func TestLoad_JSONEmptyArray(t *testing.T) {
	ds, err := Load(strings.NewReader(`[]`), Options{Format: FormatJSON})
	require.NoError(t, err)
	assert.Empty(t, ds.Records)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "grades.csv")
	require.NoError(t, os.WriteFile(path, []byte("\ufeffstudent_id,question_id,ta_score,llm_score,max_points\nS001,Q1,8,8,10\n"), 0o644))

	ds, err := LoadFile(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, path, ds.Source)
	assert.Len(t, ds.Records, 1)

	_, err = LoadFile(filepath.Join(dir, "missing.csv"), Options{})
	require.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFromPath("a/b/grades.JSON"))
	assert.Equal(t, FormatCSV, FormatFromPath("grades.csv"))
	assert.Equal(t, FormatCSV, FormatFromPath("grades"))
}
