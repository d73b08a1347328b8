package dashboard

import (
	"math"

	"github.com/abhisek/gradelens/internal/analytics"
	"github.com/abhisek/gradelens/internal/grading"
)

// Filter control steps.
const (
	errorThresholdStep = 5.0
	maxErrorThreshold  = 100.0
	confidenceStep     = 0.05
)

// State is the dataset under inspection and the filter the user has built
// over it. Screens share one State.
type State struct {
	Source      string
	Records     []grading.DerivedRecord
	Fingerprint string
	Filter      grading.FilterState

	questions []string
	cache     *analytics.Cache
}

// NewState prepares records for the dashboard. A nil cache gets a private
// one.
func NewState(source string, records []grading.DerivedRecord, fingerprint string, cache *analytics.Cache) *State {
	if cache == nil {
		cache = analytics.NewCache()
	}
	return &State{
		Source:      source,
		Records:     records,
		Fingerprint: fingerprint,
		Filter:      grading.DefaultFilterState(),
		questions:   grading.QuestionIDs(records),
		cache:       cache,
	}
}

// Current returns the filtered records and their summary.
func (s *State) Current() analytics.View {
	return s.cache.View(s.Fingerprint, s.Records, s.Filter)
}

// CycleQuestion steps the question filter through all, Q1, Q2, ... and
// back to all.
func (s *State) CycleQuestion() {
	if len(s.questions) == 0 {
		return
	}
	next := 0
	if len(s.Filter.Questions) == 1 {
		for i, q := range s.questions {
			if q == s.Filter.Questions[0] {
				next = i + 1
				break
			}
		}
	} else if len(s.Filter.Questions) > 1 {
		next = len(s.questions)
	}
	if next >= len(s.questions) {
		s.Filter.Questions = []string{}
		return
	}
	s.Filter.Questions = []string{s.questions[next]}
}

// SetStudents restricts to ids; empty clears the restriction.
func (s *State) SetStudents(ids []string) {
	if ids == nil {
		ids = []string{}
	}
	s.Filter.Students = ids
}

// AdjustErrorThreshold moves the percent-error bound by steps, within
// [0, 100].
func (s *State) AdjustErrorThreshold(steps int) {
	t := s.Filter.ErrorThreshold + float64(steps)*errorThresholdStep
	s.Filter.ErrorThreshold = min(max(t, 0), maxErrorThreshold)
}

// AdjustMinConfidence moves the lower confidence bound by steps, never
// past the upper bound.
func (s *State) AdjustMinConfidence(steps int) {
	r := &s.Filter.ConfidenceRange
	lo := r.Lo + float64(steps)*confidenceStep
	lo = math.Round(lo*100) / 100
	r.Lo = min(max(lo, 0), r.Hi)
}

// Reset restores the default filter.
func (s *State) Reset() {
	s.Filter = s.Filter.Reset()
}
