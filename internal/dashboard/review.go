package dashboard

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/gradelens/internal/grading"
	"github.com/abhisek/gradelens/internal/ui/layout"
	"github.com/abhisek/gradelens/internal/ui/theme"
)

// scroller tracks the first visible row of a list.
type scroller struct {
	offset int
}

func (s *scroller) handle(key string, total int) {
	switch key {
	case "up", "k":
		s.offset--
	case "down", "j":
		s.offset++
	case "pgup":
		s.offset -= 10
	case "pgdown":
		s.offset += 10
	case "home", "g":
		s.offset = 0
	case "end", "G":
		s.offset = total
	}
	s.offset = min(max(s.offset, 0), max(total-1, 0))
}

// window returns the rows [start, end) that fit in height lines.
func (s *scroller) window(total, height int) (int, int) {
	height = max(height, 1)
	start := min(s.offset, max(total-height, 0))
	return start, min(start+height, total)
}

var scrollHints = []layout.KeyHint{
	{Key: "↑↓", Description: "Scroll"},
	{Key: "Esc", Description: "Back"},
}

// reviewScreen lists the flagged items of the current view, largest
// absolute error first.
type reviewScreen struct {
	state  *State
	scroll scroller
}

func newReviewScreen(state *State) *reviewScreen {
	return &reviewScreen{state: state}
}

func (r *reviewScreen) Init() tea.Cmd { return nil }

func (r *reviewScreen) Title() string { return "Review Queue" }

func (r *reviewScreen) KeyHints() []layout.KeyHint { return scrollHints }

func (r *reviewScreen) items() []grading.ReviewItem {
	return grading.ReviewQueue(r.state.Current().Records)
}

func (r *reviewScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		r.scroll.handle(kmsg.String(), len(r.items()))
	}
	return r, nil
}

func (r *reviewScreen) View(width, height int) string {
	items := r.items()
	if len(items) == 0 {
		return theme.Hint.Render("Nothing to review under the current filters.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", theme.Label.Render(fmt.Sprintf("%d flagged items", len(items))))
	b.WriteString(theme.Label.Render(fmt.Sprintf("%-10s %-8s %7s %7s %7s %8s  %-7s %s",
		"Student", "Question", "TA", "LLM", "|Err|", "Err %", "Pri", "Reasons")))

	start, end := r.scroll.window(len(items), height-3)
	for _, it := range items[start:end] {
		pri := string(it.Priority)
		if pri == "" {
			pri = "-"
		}
		reasons := make([]string, len(it.Reasons))
		for i, reason := range it.Reasons {
			reasons[i] = string(reason)
		}
		line := fmt.Sprintf("%-10s %-8s %7.2f %7.2f %7.2f %7.1f%%  %-7s %s",
			it.StudentID, it.QuestionID, it.TAScore, it.LLMScore, it.AbsError, it.PercentError,
			pri, strings.Join(reasons, ","))
		b.WriteString("\n")
		if it.Priority == grading.PriorityHigh {
			b.WriteString(theme.Flagged.Render(line))
		} else {
			b.WriteString(line)
		}
	}
	return b.String()
}
