package analytics

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
)

// Stat is a summary statistic. NaN means the statistic is undefined for the
// collection it was computed from; infinities come from zero max_points.
type Stat float64

// NaN returns an undefined statistic.
func NaN() Stat { return Stat(math.NaN()) }

// Float returns s as a float64.
func (s Stat) Float() float64 { return float64(s) }

// IsDefined reports whether s is finite.
func (s Stat) IsDefined() bool {
	f := float64(s)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Fmt renders s with prec decimals, or "N/A" when s is not finite.
func (s Stat) Fmt(prec int) string {
	if !s.IsDefined() {
		return "N/A"
	}
	return strconv.FormatFloat(float64(s), 'f', prec, 64)
}

// Percent renders s as a percentage with prec decimals.
func (s Stat) Percent(prec int) string {
	if !s.IsDefined() {
		return "N/A"
	}
	return s.Fmt(prec) + "%"
}

func (s Stat) String() string {
	return strconv.FormatFloat(float64(s), 'g', -1, 64)
}

// MarshalJSON encodes finite values as numbers and non-finite values as the
// strings "NaN", "+Inf" and "-Inf".
func (s Stat) MarshalJSON() ([]byte, error) {
	f := float64(s)
	switch {
	case math.IsNaN(f):
		return []byte(`"NaN"`), nil
	case math.IsInf(f, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(f, -1):
		return []byte(`"-Inf"`), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

// UnmarshalJSON accepts a number or one of the non-finite strings written by
// MarshalJSON.
func (s *Stat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		switch string(data) {
		case `"NaN"`:
			*s = Stat(math.NaN())
		case `"+Inf"`, `"Inf"`:
			*s = Stat(math.Inf(1))
		case `"-Inf"`:
			*s = Stat(math.Inf(-1))
		default:
			return fmt.Errorf("invalid statistic %s", data)
		}
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid statistic %s: %w", data, err)
	}
	*s = Stat(f)
	return nil
}
