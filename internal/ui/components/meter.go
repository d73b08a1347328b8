package components

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/gradelens/internal/ui/theme"
)

// Meter is a horizontal bar for a fraction in [0, 1], such as the share of
// flagged items.
type Meter struct {
	Label    string
	Fraction float64
	Width    int
	Fill     color.Color
}

// NewMeter creates a meter filled with the primary color.
func NewMeter(label string, fraction float64, width int) Meter {
	return Meter{Label: label, Fraction: fraction, Width: width, Fill: theme.Primary}
}

// View renders the meter. A non-finite fraction renders an empty bar
// labelled N/A.
func (m Meter) View() string {
	var result string
	if m.Label != "" {
		result = theme.Label.Render(m.Label) + "  "
	}

	pct := "  N/A"
	frac := m.Fraction
	if math.IsNaN(frac) || math.IsInf(frac, 0) {
		frac = 0
	} else {
		frac = min(max(frac, 0), 1)
		pct = fmt.Sprintf(" %3.0f%%", frac*100)
	}

	barWidth := max(m.Width-lipgloss.Width(result)-len(pct), 4)
	filled := int(float64(barWidth) * frac)

	result += lipgloss.NewStyle().Background(m.Fill).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", barWidth-filled)) +
		theme.Label.Render(pct)
	return result
}
