package dashboard

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/gradelens/internal/analytics"
	"github.com/abhisek/gradelens/internal/ui/layout"
	"github.com/abhisek/gradelens/internal/ui/theme"
)

// studentsScreen ranks students of the current view by mean absolute error.
type studentsScreen struct {
	state  *State
	scroll scroller
}

func newStudentsScreen(state *State) *studentsScreen {
	return &studentsScreen{state: state}
}

func (s *studentsScreen) Init() tea.Cmd { return nil }

func (s *studentsScreen) Title() string { return "By Student" }

func (s *studentsScreen) KeyHints() []layout.KeyHint { return scrollHints }

func (s *studentsScreen) rows() []analytics.StudentStats {
	return analytics.ByStudent(s.state.Current().Records)
}

func (s *studentsScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		s.scroll.handle(kmsg.String(), len(s.rows()))
	}
	return s, nil
}

func (s *studentsScreen) View(width, height int) string {
	rows := s.rows()
	if len(rows) == 0 {
		return theme.Hint.Render("No students under the current filters.")
	}

	var b strings.Builder
	b.WriteString(theme.Label.Render(fmt.Sprintf("%-12s %6s %8s %12s %8s", "Student", "Items", "MAE", "Mean err %", "Flagged")))
	start, end := s.scroll.window(len(rows), height-1)
	for _, r := range rows[start:end] {
		line := fmt.Sprintf("%-12s %6d %8s %12s %8d",
			r.StudentID, r.Count, r.MAE.Fmt(2), r.MeanPercentError.Fmt(1), r.Flagged)
		b.WriteString("\n")
		if r.Flagged > 0 {
			b.WriteString(theme.Flagged.Render(line))
		} else {
			b.WriteString(line)
		}
	}
	return b.String()
}
