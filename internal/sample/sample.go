// Package sample generates a synthetic grading dataset for trying the
// tool without real data.
package sample

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/abhisek/gradelens/internal/grading"
)

// Options sizes the generated dataset.
type Options struct {
	Students  int
	Questions int
	Seed      uint64
}

// DefaultOptions returns 30 students by 6 questions with seed 42.
func DefaultOptions() Options {
	return Options{Students: 30, Questions: 6, Seed: 42}
}

// Generate returns Students x Questions records, deterministic for a seed.
// Questions 1-3 are worth 10 points, the rest 15. TA scores are uniform in
// [40%, 95%] of max points; the LLM score adds normal noise with a standard
// deviation of 10% of max points, clipped to [0, max]. Confidence falls
// with the disagreement and is clipped to [0.3, 1]; flags mark confidence
// below 0.5.
func Generate(opts Options) []grading.GradingRecord {
	src := rand.NewPCG(opts.Seed, opts.Seed)
	records := make([]grading.GradingRecord, 0, max(opts.Students*opts.Questions, 0))

	for s := 1; s <= opts.Students; s++ {
		for q := 1; q <= opts.Questions; q++ {
			maxPts := 15.0
			if q <= 3 {
				maxPts = 10
			}
			ta := distuv.Uniform{Min: maxPts * 0.4, Max: maxPts * 0.95, Src: src}.Rand()
			llm := ta + distuv.Normal{Mu: 0, Sigma: maxPts * 0.1, Src: src}.Rand()
			llm = clip(llm, 0, maxPts)
			confidence := clip(1-math.Abs(llm-ta)/maxPts, 0.3, 1)

			records = append(records, grading.GradingRecord{
				StudentID:  fmt.Sprintf("S%03d", s),
				QuestionID: fmt.Sprintf("Q%d", q),
				TAScore:    round(ta, 2),
				LLMScore:   round(llm, 2),
				MaxPoints:  maxPts,
				Confidence: round(confidence, 3),
				Flags:      confidence < 0.5,
			})
		}
	}
	return records
}

func clip(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.RoundToEven(v*p) / p
}
