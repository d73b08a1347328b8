package grading

import (
	"slices"
	"strconv"
	"strings"
)

// Default filter bounds.
const (
	DefaultConfidenceLo   = 0.0
	DefaultConfidenceHi   = 1.0
	DefaultErrorThreshold = 100.0
)

// Range is an inclusive [Lo, Hi] interval.
type Range struct {
	Lo float64 `json:"lo" yaml:"lo"`
	Hi float64 `json:"hi" yaml:"hi"`
}

// Contains reports whether lo <= v <= hi. NaN is never contained.
func (r Range) Contains(v float64) bool {
	return r.Lo <= v && v <= r.Hi
}

// FilterState is the set of user-selected restrictions applied to a derived
// dataset. The zero value is not the default state; use DefaultFilterState.
type FilterState struct {
	// Questions restricts to these question IDs. Empty means no restriction.
	Questions []string `json:"questions" yaml:"questions"`
	// Students restricts to these student IDs. Empty means no restriction.
	Students []string `json:"students" yaml:"students"`
	// ConfidenceRange is an inclusive bound on confidence.
	ConfidenceRange Range `json:"confidence_range" yaml:"confidence_range"`
	// ErrorThreshold is an inclusive upper bound on percent_error.
	ErrorThreshold float64 `json:"error_threshold" yaml:"error_threshold"`
}

// DefaultFilterState returns the unrestricted filter state.
func DefaultFilterState() FilterState {
	return FilterState{
		Questions:       []string{},
		Students:        []string{},
		ConfidenceRange: Range{Lo: DefaultConfidenceLo, Hi: DefaultConfidenceHi},
		ErrorThreshold:  DefaultErrorThreshold,
	}
}

// Reset returns the default filter state.
func (fs FilterState) Reset() FilterState {
	return DefaultFilterState()
}

// IsDefault reports whether fs places no restriction beyond the defaults.
func (fs FilterState) IsDefault() bool {
	return len(fs.Questions) == 0 &&
		len(fs.Students) == 0 &&
		fs.ConfidenceRange == Range{Lo: DefaultConfidenceLo, Hi: DefaultConfidenceHi} &&
		fs.ErrorThreshold == DefaultErrorThreshold
}

// Key returns a canonical string for fs. Filter states that select the same
// records produce the same key regardless of set ordering or duplicates.
func (fs FilterState) Key() string {
	var b strings.Builder
	b.WriteString("q=")
	b.WriteString(strings.Join(canonicalSet(fs.Questions), ","))
	b.WriteString(";s=")
	b.WriteString(strings.Join(canonicalSet(fs.Students), ","))
	b.WriteString(";c=")
	b.WriteString(strconv.FormatFloat(fs.ConfidenceRange.Lo, 'g', -1, 64))
	b.WriteString(":")
	b.WriteString(strconv.FormatFloat(fs.ConfidenceRange.Hi, 'g', -1, 64))
	b.WriteString(";e=")
	b.WriteString(strconv.FormatFloat(fs.ErrorThreshold, 'g', -1, 64))
	return b.String()
}

// Describe renders fs for humans, naming only the restrictions that
// differ from the defaults. The default state is described as empty.
func (fs FilterState) Describe() string {
	var parts []string
	if len(fs.Questions) > 0 {
		parts = append(parts, "questions "+strings.Join(canonicalSet(fs.Questions), ", "))
	}
	if len(fs.Students) > 0 {
		parts = append(parts, "students "+strings.Join(canonicalSet(fs.Students), ", "))
	}
	if fs.ConfidenceRange != (Range{Lo: DefaultConfidenceLo, Hi: DefaultConfidenceHi}) {
		parts = append(parts, "confidence "+
			strconv.FormatFloat(fs.ConfidenceRange.Lo, 'f', 2, 64)+".."+
			strconv.FormatFloat(fs.ConfidenceRange.Hi, 'f', 2, 64))
	}
	if fs.ErrorThreshold != DefaultErrorThreshold {
		parts = append(parts, "percent error <= "+strconv.FormatFloat(fs.ErrorThreshold, 'g', -1, 64))
	}
	return strings.Join(parts, "; ")
}

func canonicalSet(values []string) []string {
	out := slices.Clone(values)
	slices.Sort(out)
	return slices.Compact(out)
}

// Filter returns the records that satisfy every active predicate of fs:
// question membership, student membership, confidence range and the
// percent-error threshold. The input is never modified.
//
// The result is always non-nil, so an empty selection is distinguishable
// from a nil "nothing loaded" slice. Records with NaN confidence or
// percent_error fail the range comparisons and are excluded.
func Filter(records []DerivedRecord, fs FilterState) []DerivedRecord {
	questions := toSet(fs.Questions)
	students := toSet(fs.Students)

	out := make([]DerivedRecord, 0, len(records))
	for _, r := range records {
		if questions != nil && !questions[r.QuestionID] {
			continue
		}
		if students != nil && !students[r.StudentID] {
			continue
		}
		if !fs.ConfidenceRange.Contains(r.Confidence) {
			continue
		}
		if !(r.PercentError <= fs.ErrorThreshold) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// Flagged returns only the auto-flagged records, preserving order.
func Flagged(records []DerivedRecord) []DerivedRecord {
	out := make([]DerivedRecord, 0)
	for _, r := range records {
		if r.AutoFlag {
			out = append(out, r)
		}
	}
	return out
}

// QuestionIDs returns the distinct question IDs in sorted order.
func QuestionIDs(records []DerivedRecord) []string {
	ids := make([]string, 0)
	seen := make(map[string]bool)
	for _, r := range records {
		if !seen[r.QuestionID] {
			seen[r.QuestionID] = true
			ids = append(ids, r.QuestionID)
		}
	}
	slices.Sort(ids)
	return ids
}

// StudentIDs returns the distinct student IDs in sorted order.
func StudentIDs(records []DerivedRecord) []string {
	ids := make([]string, 0)
	seen := make(map[string]bool)
	for _, r := range records {
		if !seen[r.StudentID] {
			seen[r.StudentID] = true
			ids = append(ids, r.StudentID)
		}
	}
	slices.Sort(ids)
	return ids
}
