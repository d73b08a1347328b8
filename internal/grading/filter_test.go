package grading

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDataset() []DerivedRecord {
	return Derive([]GradingRecord{
		rec("S001", "Q1", 8, 8, 10, 1.0),
		rec("S002", "Q1", 8, 5, 10, 0.5),
		rec("S001", "Q2", 10, 12, 15, 0.8),
		rec("S002", "Q2", 3, 14, 15, 0.95),
		rec("S003", "Q1", 2, 10, 5, 0.7), // percent_error 160
	})
}

func TestFilter_DefaultStateDropsErrorsOverOneHundred(t *testing.T) {
	data := testDataset()
	got := Filter(data, DefaultFilterState())

	require.Len(t, got, 4)
	for _, r := range got {
		assert.LessOrEqual(t, r.PercentError, 100.0)
	}
	if diff := cmp.Diff(data[:4], got); diff != "" {
		t.Errorf("default filter changed records (-want +got):\n%s", diff)
	}
}

func TestFilter_DefaultStateKeepsEverythingWithinBounds(t *testing.T) {
	data := testDataset()[:4]
	got := Filter(data, DefaultFilterState())
	if diff := cmp.Diff(data, got); diff != "" {
		t.Errorf("default filter is not an identity for in-range data:\n%s", diff)
	}
}

func TestFilter_Predicates(t *testing.T) {
	data := testDataset()

	tests := []struct {
		name string
		fs   func(FilterState) FilterState
		want []string // student/question pairs
	}{
		{
			name: "questions",
			fs:   func(fs FilterState) FilterState { fs.Questions = []string{"Q2"}; return fs },
			want: []string{"S001/Q2", "S002/Q2"},
		},
		{
			name: "students",
			fs:   func(fs FilterState) FilterState { fs.Students = []string{"S002"}; return fs },
			want: []string{"S002/Q1", "S002/Q2"},
		},
		{
			name: "questions and students",
			fs: func(fs FilterState) FilterState {
				fs.Questions = []string{"Q1"}
				fs.Students = []string{"S001", "S003"}
				fs.ErrorThreshold = 200
				return fs
			},
			want: []string{"S001/Q1", "S003/Q1"},
		},
		{
			name: "confidence range inclusive",
			fs:   func(fs FilterState) FilterState { fs.ConfidenceRange = Range{Lo: 0.5, Hi: 0.8}; return fs },
			want: []string{"S002/Q1", "S001/Q2"},
		},
		{
			name: "error threshold inclusive",
			fs:   func(fs FilterState) FilterState { fs.ErrorThreshold = 30; return fs },
			want: []string{"S001/Q1", "S002/Q1", "S001/Q2"},
		},
		{
			name: "unknown question",
			fs:   func(fs FilterState) FilterState { fs.Questions = []string{"Q9"}; return fs },
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(data, tt.fs(DefaultFilterState()))
			keys := make([]string, 0, len(got))
			for _, r := range got {
				keys = append(keys, fmt.Sprintf("%s/%s", r.StudentID, r.QuestionID))
			}
			if diff := cmp.Diff(tt.want, keys); diff != "" {
				t.Errorf("Filter mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilter_EmptyResultIsNonNil(t *testing.T) {
	fs := DefaultFilterState()
	fs.Questions = []string{"missing"}

	got := Filter(testDataset(), fs)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.False(t, fs.IsDefault())

	assert.NotNil(t, Filter(nil, DefaultFilterState()))
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	data := testDataset()
	before := make([]DerivedRecord, len(data))
	copy(before, data)

	fs := DefaultFilterState()
	fs.Students = []string{"S001"}
	_ = Filter(data, fs)

	if diff := cmp.Diff(before, data); diff != "" {
		t.Errorf("input mutated:\n%s", diff)
	}
}

func TestFilter_OrderIndependentOfSetOrder(t *testing.T) {
	data := testDataset()
	a := DefaultFilterState()
	a.Questions = []string{"Q1", "Q2"}
	b := DefaultFilterState()
	b.Questions = []string{"Q2", "Q1", "Q2"}

	assert.Equal(t, Filter(data, a), Filter(data, b))
	assert.Equal(t, a.Key(), b.Key())
}

func TestFilterState_ResetAndDefault(t *testing.T) {
	fs := DefaultFilterState()
	assert.True(t, fs.IsDefault())

	fs.ErrorThreshold = 50
	fs.Students = []string{"S001"}
	assert.False(t, fs.IsDefault())

	fs = fs.Reset()
	assert.True(t, fs.IsDefault())
	assert.Equal(t, DefaultFilterState().Key(), fs.Key())
}

func TestFilterState_KeyDistinguishesBounds(t *testing.T) {
	a := DefaultFilterState()
	b := DefaultFilterState()
	b.ConfidenceRange.Lo = 0.25
	c := DefaultFilterState()
	c.ErrorThreshold = 99.5

	assert.NotEqual(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
	assert.NotEqual(t, b.Key(), c.Key())
}

func TestQuestionAndStudentIDs(t *testing.T) {
	data := testDataset()
	assert.Equal(t, []string{"Q1", "Q2"}, QuestionIDs(data))
	assert.Equal(t, []string{"S001", "S002", "S003"}, StudentIDs(data))
	assert.Empty(t, QuestionIDs(nil))
}

func TestFilterState_Describe(t *testing.T) {
	assert.Empty(t, DefaultFilterState().Describe())

	fs := DefaultFilterState()
	fs.Questions = []string{"Q2", "Q1"}
	fs.Students = []string{"S001"}
	fs.ConfidenceRange.Lo = 0.5
	fs.ErrorThreshold = 40
	assert.Equal(t, "questions Q1, Q2; students S001; confidence 0.50..1.00; percent error <= 40", fs.Describe())
}
