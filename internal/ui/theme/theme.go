package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/gradelens/internal/analytics"
)

// Palette. Good/Fair/Poor follow the interpretation levels.
var (
	Primary = lipgloss.Color("#6366F1") // Indigo
	Accent  = lipgloss.Color("#F59E0B") // Amber
	Good    = lipgloss.Color("#22C55E") // Green
	Fair    = lipgloss.Color("#EAB308") // Yellow
	Poor    = lipgloss.Color("#EF4444") // Red
	Text    = lipgloss.Color("#F8FAFC")
	TextDim = lipgloss.Color("#94A3B8")
	Border  = lipgloss.Color("#334155")
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Label = lipgloss.NewStyle().
		Foreground(TextDim)

	Value = lipgloss.NewStyle().
		Foreground(Text).
		Bold(true)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)

	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Flagged = lipgloss.NewStyle().
		Foreground(Poor).
		Bold(true)
)

// LevelColor maps an interpretation level to its color.
func LevelColor(l analytics.Level) color.Color {
	switch l {
	case analytics.LevelGood:
		return Good
	case analytics.LevelFair:
		return Fair
	case analytics.LevelPoor:
		return Poor
	default:
		return TextDim
	}
}

// RenderRating renders a rating with its level symbol and color.
func RenderRating(r analytics.Rating) string {
	return lipgloss.NewStyle().
		Foreground(LevelColor(r.Level)).
		Render(r.Level.Symbol() + " " + r.Label)
}
