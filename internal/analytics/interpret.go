package analytics

import "math"

// Level is the traffic-light grade of an interpreted statistic.
type Level string

const (
	LevelGood      Level = "good"
	LevelFair      Level = "fair"
	LevelPoor      Level = "poor"
	LevelUndefined Level = "undefined"
)

// Symbol returns a compact marker for the level.
func (l Level) Symbol() string {
	switch l {
	case LevelGood:
		return "●"
	case LevelFair:
		return "◐"
	case LevelPoor:
		return "○"
	default:
		return "-"
	}
}

// Rating is a labelled interpretation of a statistic.
type Rating struct {
	Label string `json:"label"`
	Level Level  `json:"level"`
}

var undefinedRating = Rating{Label: "N/A", Level: LevelUndefined}

func rate(v Stat, good, fair float64, labels [3]string) Rating {
	if !v.IsDefined() {
		return undefinedRating
	}
	switch f := float64(v); {
	case f < good:
		return Rating{Label: labels[0], Level: LevelGood}
	case f < fair:
		return Rating{Label: labels[1], Level: LevelFair}
	default:
		return Rating{Label: labels[2], Level: LevelPoor}
	}
}

// CorrelationStrength rates a correlation coefficient: above 0.7 is strong,
// above 0.4 moderate.
func CorrelationStrength(r Stat) Rating {
	if !r.IsDefined() {
		return undefinedRating
	}
	switch {
	case r > 0.7:
		return Rating{Label: "Strong", Level: LevelGood}
	case r > 0.4:
		return Rating{Label: "Moderate", Level: LevelFair}
	default:
		return Rating{Label: "Weak", Level: LevelPoor}
	}
}

// BiasRating rates the magnitude of the mean bias in points.
func BiasRating(bias Stat) Rating {
	return rate(Stat(math.Abs(float64(bias))), 1, 2, [3]string{"Low", "Moderate", "High"})
}

// SpreadRating rates the standard deviation of the error in points.
func SpreadRating(std Stat) Rating {
	return rate(std, 1.5, 3, [3]string{"Low", "Moderate", "High"})
}

// RMSERating rates the root mean squared error in points.
func RMSERating(rmse Stat) Rating {
	return rate(rmse, 2, 4, [3]string{"Good", "Fair", "Poor"})
}

// MAPERating rates the mean absolute percentage error.
func MAPERating(mape Stat) Rating {
	return rate(mape, 15, 30, [3]string{"Good", "Fair", "Poor"})
}

// AgreementLevel grades the overall agreement from the Pearson coefficient.
func AgreementLevel(r Stat) string {
	if !r.IsDefined() {
		return "Undetermined"
	}
	switch {
	case r > 0.8:
		return "Excellent"
	case r > 0.6:
		return "Good"
	case r > 0.4:
		return "Moderate"
	default:
		return "Poor"
	}
}

// Interpretation is one row of the statistical test table.
type Interpretation struct {
	Metric string `json:"metric"`
	Value  string `json:"value"`
	Rating Rating `json:"rating"`
}

// Interpret builds the statistical test table for s.
func Interpret(s Summary) []Interpretation {
	return []Interpretation{
		{Metric: "Pearson Correlation", Value: s.PearsonR.Fmt(3), Rating: CorrelationStrength(s.PearsonR)},
		{Metric: "Spearman Correlation", Value: s.SpearmanR.Fmt(3), Rating: CorrelationStrength(s.SpearmanR)},
		{Metric: "Mean Bias", Value: s.MeanBias.Fmt(2), Rating: BiasRating(s.MeanBias)},
		{Metric: "Std Deviation", Value: s.StdError.Fmt(2), Rating: SpreadRating(s.StdError)},
		{Metric: "RMSE", Value: s.RMSE.Fmt(2), Rating: RMSERating(s.RMSE)},
		{Metric: "MAPE", Value: s.MAPE.Percent(1), Rating: MAPERating(s.MAPE)},
	}
}
