package analytics

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/abhisek/gradelens/internal/grading"
)

// mapeEpsilon keeps the MAPE denominator away from exact zero.
const mapeEpsilon = 1e-10

// Summary is an immutable snapshot of the agreement statistics of one
// derived dataset. Undefined statistics are NaN.
type Summary struct {
	TotalItems     int `json:"total_items"`
	TotalStudents  int `json:"total_students"`
	TotalQuestions int `json:"total_questions"`

	MAE      Stat `json:"mae"`
	RMSE     Stat `json:"rmse"`
	MAPE     Stat `json:"mape"`
	MaxError Stat `json:"max_error"`

	PearsonR  Stat `json:"pearson_r"`
	PearsonP  Stat `json:"pearson_p"`
	SpearmanR Stat `json:"spearman_r"`
	SpearmanP Stat `json:"spearman_p"`

	MeanBias Stat `json:"mean_bias"`
	StdError Stat `json:"std_error"`

	FlaggedCount       int  `json:"flagged_count"`
	FlaggedPercent     Stat `json:"flagged_percent"`
	LowConfidenceCount int  `json:"low_confidence_count"`
	HighErrorCount     int  `json:"high_error_count"`
	MeanConfidence     Stat `json:"mean_confidence"`

	Questions []QuestionStats `json:"questions"`
}

// Summarize computes the summary statistics of records. It never fails: an
// empty collection yields NaN for every mean-based statistic and a
// flagged_percent of 0.
func Summarize(records []grading.DerivedRecord) Summary {
	n := len(records)
	s := Summary{
		TotalItems:     n,
		TotalStudents:  len(grading.StudentIDs(records)),
		TotalQuestions: len(grading.QuestionIDs(records)),
		Questions:      ByQuestion(records),
	}

	var (
		ta         = make([]float64, n)
		llm        = make([]float64, n)
		errs       = make([]float64, n)
		absErrs    = make([]float64, n)
		sqErrs     = make([]float64, n)
		relErrs    = make([]float64, n)
		confidence = make([]float64, n)
	)
	for i, r := range records {
		ta[i] = r.TAScore
		llm[i] = r.LLMScore
		errs[i] = r.Error
		absErrs[i] = r.AbsError
		sqErrs[i] = r.Error * r.Error
		relErrs[i] = math.Abs(r.Error / (r.TAScore + mapeEpsilon))
		confidence[i] = r.Confidence

		if r.AutoFlag {
			s.FlaggedCount++
		}
		if r.Confidence < grading.ConfidenceThreshold {
			s.LowConfidenceCount++
		}
		if r.PercentError > grading.PercentErrorThreshold {
			s.HighErrorCount++
		}
	}

	s.FlaggedPercent = Stat(float64(s.FlaggedCount) / float64(max(n, 1)) * 100)

	s.MAE = mean(absErrs)
	s.RMSE = Stat(math.Sqrt(float64(mean(sqErrs))))
	s.MAPE = mean(relErrs) * 100
	s.MaxError = maximum(absErrs)
	s.MeanBias = mean(errs)
	s.StdError = popStdDev(errs)
	s.MeanConfidence = mean(confidence)

	pearson := Pearson(ta, llm)
	spearman := Spearman(ta, llm)
	s.PearsonR, s.PearsonP = pearson.R, pearson.P
	s.SpearmanR, s.SpearmanP = spearman.R, spearman.P

	return s
}

func mean(values []float64) Stat {
	if len(values) == 0 {
		return NaN()
	}
	return Stat(stat.Mean(values, nil))
}

func maximum(values []float64) Stat {
	if len(values) == 0 {
		return NaN()
	}
	return Stat(slices.Max(values))
}

func popStdDev(values []float64) Stat {
	if len(values) == 0 {
		return NaN()
	}
	return Stat(stat.PopStdDev(values, nil))
}

// sampleStdDev matches the n-1 estimator; fewer than two values are NaN.
func sampleStdDev(values []float64) Stat {
	if len(values) < 2 {
		return NaN()
	}
	return Stat(stat.StdDev(values, nil))
}
