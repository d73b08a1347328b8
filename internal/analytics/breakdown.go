package analytics

import (
	"cmp"
	"slices"

	"github.com/abhisek/gradelens/internal/grading"
)

// QuestionStats aggregates the records of one question.
type QuestionStats struct {
	QuestionID     string `json:"question_id"`
	Count          int    `json:"count"`
	MAE            Stat   `json:"mae"`
	StdDev         Stat   `json:"std_dev"`
	MaxError       Stat   `json:"max_error"`
	MeanConfidence Stat   `json:"mean_confidence"`
	Flagged        int    `json:"flagged"`
}

// StudentStats aggregates the records of one student.
type StudentStats struct {
	StudentID        string `json:"student_id"`
	Count            int    `json:"count"`
	MAE              Stat   `json:"mae"`
	MeanPercentError Stat   `json:"mean_percent_error"`
	Flagged          int    `json:"flagged"`
}

type group struct {
	absErrs    []float64
	pctErrs    []float64
	confidence []float64
	flagged    int
}

func (g *group) add(r grading.DerivedRecord) {
	g.absErrs = append(g.absErrs, r.AbsError)
	g.pctErrs = append(g.pctErrs, r.PercentError)
	g.confidence = append(g.confidence, r.Confidence)
	if r.AutoFlag {
		g.flagged++
	}
}

func groupBy(records []grading.DerivedRecord, key func(grading.DerivedRecord) string) map[string]*group {
	groups := make(map[string]*group)
	for _, r := range records {
		k := key(r)
		g, ok := groups[k]
		if !ok {
			g = &group{}
			groups[k] = g
		}
		g.add(r)
	}
	return groups
}

// ByQuestion returns per-question statistics ordered by question ID.
func ByQuestion(records []grading.DerivedRecord) []QuestionStats {
	groups := groupBy(records, func(r grading.DerivedRecord) string { return r.QuestionID })

	out := make([]QuestionStats, 0, len(groups))
	for id, g := range groups {
		out = append(out, QuestionStats{
			QuestionID:     id,
			Count:          len(g.absErrs),
			MAE:            mean(g.absErrs),
			StdDev:         sampleStdDev(g.absErrs),
			MaxError:       maximum(g.absErrs),
			MeanConfidence: mean(g.confidence),
			Flagged:        g.flagged,
		})
	}
	slices.SortFunc(out, func(a, b QuestionStats) int {
		return cmp.Compare(a.QuestionID, b.QuestionID)
	})
	return out
}

// ByStudent returns per-student statistics ordered by mean absolute error,
// highest first. Students with equal error are ordered by ID.
func ByStudent(records []grading.DerivedRecord) []StudentStats {
	groups := groupBy(records, func(r grading.DerivedRecord) string { return r.StudentID })

	out := make([]StudentStats, 0, len(groups))
	for id, g := range groups {
		out = append(out, StudentStats{
			StudentID:        id,
			Count:            len(g.absErrs),
			MAE:              mean(g.absErrs),
			MeanPercentError: mean(g.pctErrs),
			Flagged:          g.flagged,
		})
	}
	slices.SortFunc(out, func(a, b StudentStats) int {
		if c := cmp.Compare(b.MAE, a.MAE); c != 0 {
			return c
		}
		return cmp.Compare(a.StudentID, b.StudentID)
	})
	return out
}
