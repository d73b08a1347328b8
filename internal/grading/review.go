package grading

import (
	"cmp"
	"math"
	"slices"
)

// Priority ranks a flagged record by its percent error.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"

	// PriorityNone marks records whose percent error falls outside every
	// bin: exactly zero, above 100, or NaN.
	PriorityNone Priority = ""
)

// PriorityFor bins a percent error into (0,15] low, (15,30] medium and
// (30,100] high.
func PriorityFor(percentError float64) Priority {
	switch {
	case math.IsNaN(percentError):
		return PriorityNone
	case percentError > 0 && percentError <= 15:
		return PriorityLow
	case percentError > 15 && percentError <= 30:
		return PriorityMedium
	case percentError > 30 && percentError <= 100:
		return PriorityHigh
	default:
		return PriorityNone
	}
}

// ReviewItem is a flagged record queued for manual review.
type ReviewItem struct {
	DerivedRecord
	Priority Priority     `json:"priority"`
	Reasons  []FlagReason `json:"reasons"`
}

// ReviewQueue returns the auto-flagged records ordered by absolute error,
// largest first. Ties keep their input order.
func ReviewQueue(records []DerivedRecord) []ReviewItem {
	flagged := Flagged(records)
	slices.SortStableFunc(flagged, func(a, b DerivedRecord) int {
		return cmp.Compare(b.AbsError, a.AbsError)
	})

	items := make([]ReviewItem, len(flagged))
	for i, r := range flagged {
		items[i] = ReviewItem{
			DerivedRecord: r,
			Priority:      PriorityFor(r.PercentError),
			Reasons:       FlagReasons(r),
		}
	}
	return items
}
