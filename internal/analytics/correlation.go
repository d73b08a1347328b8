package analytics

import (
	"cmp"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Correlation is a correlation coefficient with its two-sided p-value.
type Correlation struct {
	R Stat `json:"r"`
	P Stat `json:"p"`
}

func undefinedCorrelation() Correlation {
	return Correlation{R: NaN(), P: NaN()}
}

// correlatable reports whether a correlation between x and y is defined:
// at least two pairs, and more than one distinct value in each column.
func correlatable(x, y []float64) bool {
	if len(x) < 2 || len(x) != len(y) {
		return false
	}
	return distinct(x) > 1 && distinct(y) > 1
}

func distinct(values []float64) int {
	seen := make(map[float64]struct{}, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}

func hasNaN(values []float64) bool {
	return slices.ContainsFunc(values, math.IsNaN)
}

// Pearson returns the Pearson product-moment correlation of x and y.
func Pearson(x, y []float64) Correlation {
	if !correlatable(x, y) || hasNaN(x) || hasNaN(y) {
		return undefinedCorrelation()
	}
	r := stat.Correlation(x, y, nil)
	return Correlation{R: Stat(r), P: Stat(pValue(r, len(x)))}
}

// Spearman returns the Spearman rank correlation of x and y. Tied values
// share the average of their ranks.
func Spearman(x, y []float64) Correlation {
	if !correlatable(x, y) || hasNaN(x) || hasNaN(y) {
		return undefinedCorrelation()
	}
	r := stat.Correlation(ranks(x), ranks(y), nil)
	return Correlation{R: Stat(r), P: Stat(pValue(r, len(x)))}
}

// pValue is the two-sided p-value of r under the null hypothesis of no
// correlation, using a t distribution with n-2 degrees of freedom.
func pValue(r float64, n int) float64 {
	if math.IsNaN(r) {
		return math.NaN()
	}
	if n == 2 {
		return 1
	}
	r = max(-1, min(1, r))
	if math.Abs(r) == 1 {
		return 0
	}
	df := float64(n - 2)
	t := r * math.Sqrt(df/(1-r*r))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return 2 * dist.CDF(-math.Abs(t))
}

// ranks returns 1-based ranks of values with ties averaged.
func ranks(values []float64) []float64 {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return cmp.Compare(values[a], values[b])
	})

	out := make([]float64, len(values))
	for i := 0; i < len(idx); {
		j := i
		for j+1 < len(idx) && values[idx[j+1]] == values[idx[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			out[idx[k]] = avg
		}
		i = j + 1
	}
	return out
}
