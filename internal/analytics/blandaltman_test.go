package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/gradelens/internal/grading"
)

func TestBlandAltman(t *testing.T) {
	res := BlandAltman(fixture())

	sd := math.Sqrt(109.0 / 3)
	assert.Equal(t, 4, res.N)
	assert.InDelta(t, 2.5, res.MeanDiff.Float(), 1e-12)
	assert.InDelta(t, sd, res.StdDiff.Float(), 1e-12)
	assert.InDelta(t, 2.5+1.96*sd, res.UpperLimit.Float(), 1e-12)
	assert.InDelta(t, 2.5-1.96*sd, res.LowerLimit.Float(), 1e-12)
	assert.Equal(t, 4, res.WithinLimits)
}

func TestBlandAltman_TooFewRecords(t *testing.T) {
	res := BlandAltman(grading.Derive([]grading.GradingRecord{rec("S", "Q", 1, 2, 10, 1)}))
	assert.Equal(t, 1, res.N)
	assert.Equal(t, Stat(1), res.MeanDiff)
	assert.False(t, res.UpperLimit.IsDefined())
	assert.Equal(t, 0, res.WithinLimits)

	empty := BlandAltman(nil)
	assert.False(t, empty.MeanDiff.IsDefined())
}
