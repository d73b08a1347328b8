package dashboard

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gradelens/internal/analytics"
	"github.com/abhisek/gradelens/internal/ui/components"
	"github.com/abhisek/gradelens/internal/ui/layout"
	"github.com/abhisek/gradelens/internal/ui/theme"
)

// overview shows the summary of the filtered dataset and owns the filter
// controls.
type overview struct {
	state *State
	input *components.ListInput
}

var (
	_ Screen   = (*overview)(nil)
	_ Capturer = (*overview)(nil)
)

func newOverview(state *State) *overview {
	return &overview{state: state}
}

func (o *overview) Init() tea.Cmd { return nil }

func (o *overview) Title() string { return "Overview" }

func (o *overview) Capturing() bool { return o.input != nil }

func (o *overview) KeyHints() []layout.KeyHint {
	if o.input != nil {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Apply"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "q", Description: "Question"},
		{Key: "/", Description: "Students"},
		{Key: "[ ]", Description: "Max error"},
		{Key: "- +", Description: "Min conf"},
		{Key: "r", Description: "Reset"},
		{Key: "v", Description: "Review"},
		{Key: "s", Description: "By student"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (o *overview) Update(msg tea.Msg) (Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if o.input != nil {
		if ok {
			switch kmsg.String() {
			case "enter":
				o.state.SetStudents(o.input.Values())
				o.input = nil
				return o, nil
			case "esc":
				o.input = nil
				return o, nil
			}
		}
		var cmd tea.Cmd
		*o.input, cmd = o.input.Update(msg)
		return o, cmd
	}
	if !ok {
		return o, nil
	}

	switch kmsg.String() {
	case "q":
		o.state.CycleQuestion()
	case "/":
		in := components.NewListInput("Students: ", "S001, S002", o.state.Filter.Students)
		o.input = &in
		return o, o.input.Init()
	case "[":
		o.state.AdjustErrorThreshold(-1)
	case "]":
		o.state.AdjustErrorThreshold(1)
	case "-":
		o.state.AdjustMinConfidence(-1)
	case "+", "=":
		o.state.AdjustMinConfidence(1)
	case "r":
		o.state.Reset()
	case "v":
		return o, push(newReviewScreen(o.state))
	case "s":
		return o, push(newStudentsScreen(o.state))
	}
	return o, nil
}

func (o *overview) View(width, height int) string {
	st := o.state
	view := st.Current()
	s := view.Summary

	var b strings.Builder
	b.WriteString(o.filterLine())
	b.WriteString("\n")
	if o.input != nil {
		b.WriteString(o.input.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if s.TotalItems == 0 {
		b.WriteString(theme.Hint.Render("No items match the current filters. Press r to reset."))
		return b.String()
	}

	fmt.Fprintf(&b, "%s %s   %s %s   %s %s\n",
		theme.Label.Render("Items"), theme.Value.Render(fmt.Sprint(s.TotalItems)),
		theme.Label.Render("Students"), theme.Value.Render(fmt.Sprint(s.TotalStudents)),
		theme.Label.Render("Questions"), theme.Value.Render(fmt.Sprint(s.TotalQuestions)))

	meter := components.NewMeter(fmt.Sprintf("Flagged %d", s.FlaggedCount), s.FlaggedPercent.Float()/100, min(width, 60))
	meter.Fill = theme.Poor
	b.WriteString(meter.View())
	b.WriteString("\n\n")

	left := metricsBlock(s)
	right := interpretationBlock(s)
	if layout.IsCompactWidth(width) {
		b.WriteString(left + "\n\n" + right)
	} else {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right))
	}
	b.WriteString("\n\n")
	b.WriteString(questionBlock(s.Questions))
	return b.String()
}

func (o *overview) filterLine() string {
	fs := o.state.Filter
	questions := "all"
	if len(fs.Questions) > 0 {
		questions = strings.Join(fs.Questions, ",")
	}
	students := "all"
	if len(fs.Students) > 0 {
		students = strings.Join(fs.Students, ",")
	}
	return fmt.Sprintf("%s %s  %s %s  %s %.2f..%.2f  %s %g%%",
		theme.Label.Render("Question"), theme.Selected.Render(questions),
		theme.Label.Render("Students"), theme.Selected.Render(students),
		theme.Label.Render("Confidence"), fs.ConfidenceRange.Lo, fs.ConfidenceRange.Hi,
		theme.Label.Render("Max error"), fs.ErrorThreshold)
}

func metricsBlock(s analytics.Summary) string {
	rows := [][2]string{
		{"MAE", s.MAE.Fmt(2)},
		{"RMSE", s.RMSE.Fmt(2)},
		{"MAPE", s.MAPE.Percent(1)},
		{"Max error", s.MaxError.Fmt(2)},
		{"Mean bias", s.MeanBias.Fmt(2)},
		{"Pearson r", s.PearsonR.Fmt(3) + " (p " + s.PearsonP.Fmt(4) + ")"},
		{"Spearman r", s.SpearmanR.Fmt(3) + " (p " + s.SpearmanP.Fmt(4) + ")"},
		{"Mean confidence", s.MeanConfidence.Fmt(2)},
		{"Low confidence", fmt.Sprint(s.LowConfidenceCount)},
		{"High error", fmt.Sprint(s.HighErrorCount)},
	}
	var b strings.Builder
	for i, r := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(theme.Label.Render(fmt.Sprintf("%-16s", r[0])) + theme.Value.Render(r[1]))
	}
	return theme.Card.Render(b.String())
}

func interpretationBlock(s analytics.Summary) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Agreement: " + analytics.AgreementLevel(s.PearsonR)))
	for _, row := range analytics.Interpret(s) {
		b.WriteString("\n")
		b.WriteString(theme.Label.Render(fmt.Sprintf("%-22s%-9s", row.Metric, row.Value)))
		b.WriteString(theme.RenderRating(row.Rating))
	}
	return theme.Card.Render(b.String())
}

func questionBlock(questions []analytics.QuestionStats) string {
	var b strings.Builder
	b.WriteString(theme.Label.Render(fmt.Sprintf("%-12s %6s %8s %8s %10s %8s", "Question", "Items", "MAE", "Std", "Mean conf", "Flagged")))
	for _, q := range questions {
		line := fmt.Sprintf("%-12s %6d %8s %8s %10s %8d",
			q.QuestionID, q.Count, q.MAE.Fmt(2), q.StdDev.Fmt(2), q.MeanConfidence.Fmt(2), q.Flagged)
		b.WriteString("\n")
		if q.Flagged > 0 {
			b.WriteString(theme.Flagged.Render(line))
		} else {
			b.WriteString(line)
		}
	}
	return b.String()
}
