package analytics

import (
	"math"

	"github.com/abhisek/gradelens/internal/grading"
)

// agreementZ is the normal quantile for 95% limits of agreement.
const agreementZ = 1.96

// BlandAltmanResult holds the limits of agreement between LLM and TA scores.
// Differences are llm_score - ta_score.
type BlandAltmanResult struct {
	N            int  `json:"n"`
	MeanDiff     Stat `json:"mean_diff"`
	StdDiff      Stat `json:"std_diff"`
	UpperLimit   Stat `json:"upper_limit"`
	LowerLimit   Stat `json:"lower_limit"`
	WithinLimits int  `json:"within_limits"`
}

// BlandAltman computes the mean difference and the limits of agreement
// (mean +- 1.96 sample standard deviations).
func BlandAltman(records []grading.DerivedRecord) BlandAltmanResult {
	diffs := make([]float64, len(records))
	for i, r := range records {
		diffs[i] = r.Error
	}

	res := BlandAltmanResult{
		N:        len(diffs),
		MeanDiff: mean(diffs),
		StdDiff:  sampleStdDev(diffs),
	}
	res.UpperLimit = res.MeanDiff + agreementZ*res.StdDiff
	res.LowerLimit = res.MeanDiff - agreementZ*res.StdDiff

	if !res.UpperLimit.IsDefined() || !res.LowerLimit.IsDefined() {
		return res
	}
	lo, hi := float64(res.LowerLimit), float64(res.UpperLimit)
	for _, d := range diffs {
		if !math.IsNaN(d) && d >= lo && d <= hi {
			res.WithinLimits++
		}
	}
	return res
}
