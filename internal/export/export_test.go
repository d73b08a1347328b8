package export

import (
	"bytes"
	"encoding/csv"
	"math"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/gradelens/internal/grading"
	"github.com/abhisek/gradelens/internal/loader"
)

func records() []grading.DerivedRecord {
	return grading.Derive([]grading.GradingRecord{
		{StudentID: "S001", QuestionID: "Q1", TAScore: 8, LLMScore: 8, MaxPoints: 10, Confidence: 1},
		{StudentID: "S002", QuestionID: "Q1", TAScore: 8, LLMScore: 5, MaxPoints: 10, Confidence: 0.5, Flags: true},
		{StudentID: "S003", QuestionID: "Q2", TAScore: 1.0 / 3, LLMScore: 2, MaxPoints: 0, Confidence: 0.9},
	})
}

func readAll(t *testing.T, data []byte) [][]string {
	t.Helper()
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteCSV_Derived(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteCSV(&buf, records(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	rows := readAll(t, buf.Bytes())
	require.Len(t, rows, 4)
	want := []string{
		"student_id", "question_id", "ta_score", "llm_score", "max_points", "confidence", "flags",
		"error", "abs_error", "percent_error", "normalized_ta", "normalized_llm", "auto_flag",
	}
	if diff := cmp.Diff(want, rows[0]); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"S002", "Q1", "8", "5", "10", "0.5", "true", "-3", "3", "30", "0.8", "0.5", "true"}, rows[2])
}

func TestWriteCSV_LosslessFloats(t *testing.T) {
	var buf bytes.Buffer
	_, err := WriteCSV(&buf, records(), Options{})
	require.NoError(t, err)

	row := readAll(t, buf.Bytes())[3]
	ta, err := strconv.ParseFloat(row[2], 64)
	require.NoError(t, err)
	assert.Equal(t, 1.0/3, ta, "ta_score must round-trip exactly")

	// max_points 0 makes the normalized and percent fields non-finite.
	assert.Equal(t, "+Inf", row[9])
	assert.Equal(t, "+Inf", row[10])
	assert.Equal(t, "+Inf", row[11])
	pe, err := strconv.ParseFloat(row[9], 64)
	require.NoError(t, err)
	assert.True(t, math.IsInf(pe, 1))
}

func TestWriteCSV_FlaggedOnly(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteCSV(&buf, records(), Options{FlaggedOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rows := readAll(t, buf.Bytes())
	assert.Equal(t, "S002", rows[1][0])
	assert.Equal(t, "S003", rows[2][0])
}

func TestWriteCSV_RawKeepsInputColumns(t *testing.T) {
	ds, err := loader.Load(strings.NewReader("question_id,student_id,ta_score,llm_score,max_points\nQ1,S001,8,7,10\n"),
		loader.Options{Format: loader.FormatCSV})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = WriteCSV(&buf, grading.Derive(ds.Records), Options{Raw: true, InputColumns: ds.Columns})
	require.NoError(t, err)

	rows := readAll(t, buf.Bytes())
	assert.Equal(t, []string{"student_id", "question_id", "ta_score", "llm_score", "max_points"}, rows[0])
	assert.Equal(t, []string{"S001", "Q1", "8", "7", "10"}, rows[1])
}

func TestWriteCSV_EmptyWritesHeader(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteCSV(&buf, nil, Options{Raw: true})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, "student_id,question_id,ta_score,llm_score,max_points,confidence,flags\n", buf.String())
}

func TestFileName(t *testing.T) {
	ts := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	assert.Equal(t, "grading_analysis_20260304_050607.csv", FileName(ts))
}

func TestWriteReviewCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReviewCSV(&buf, grading.ReviewQueue(records())))

	rows := readAll(t, buf.Bytes())
	require.Len(t, rows, 3)
	assert.Equal(t, reviewColumns, rows[0])

	assert.Equal(t, []string{"S002", "Q1", "8", "5", "3", "30", "0.5", "medium", "low-confidence;percent-error"}, rows[1])
	assert.Equal(t, "S003", rows[2][0])
	assert.Equal(t, "", rows[2][7], "percent error above 100 has no priority")
	assert.Equal(t, "percent-error;abs-error", rows[2][8])
}

func TestWriteReviewCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReviewCSV(&buf, nil))
	assert.Equal(t, strings.Join(reviewColumns, ",")+"\n", buf.String())
}

func TestReviewFileName(t *testing.T) {
	ts := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	assert.Equal(t, "review_queue_20260304_050607.csv", ReviewFileName(ts))
}
