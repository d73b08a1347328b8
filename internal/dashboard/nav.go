package dashboard

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/gradelens/internal/ui/layout"
)

// Screen is one page of the dashboard.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	// View renders the content area, excluding header and footer.
	View(width, height int) string
	Title() string
	KeyHints() []layout.KeyHint
}

// Capturer is implemented by screens that are currently reading text, so
// global keys must pass through to them.
type Capturer interface {
	Capturing() bool
}

// pushMsg opens a screen on top of the current one.
type pushMsg struct{ screen Screen }

// popMsg returns to the previous screen.
type popMsg struct{}

func push(s Screen) tea.Cmd {
	return func() tea.Msg { return pushMsg{screen: s} }
}

func pop() tea.Msg { return popMsg{} }

// navigator is a stack of screens. The root is never popped.
type navigator struct {
	stack []Screen
}

func newNavigator(root Screen) *navigator {
	return &navigator{stack: []Screen{root}}
}

func (n *navigator) active() Screen {
	return n.stack[len(n.stack)-1]
}

func (n *navigator) depth() int {
	return len(n.stack)
}

func (n *navigator) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case pushMsg:
		n.stack = append(n.stack, msg.screen)
		return msg.screen.Init()
	case popMsg:
		if len(n.stack) > 1 {
			n.stack = n.stack[:len(n.stack)-1]
		}
		return nil
	}

	updated, cmd := n.active().Update(msg)
	n.stack[len(n.stack)-1] = updated
	return cmd
}

func capturing(s Screen) bool {
	c, ok := s.(Capturer)
	return ok && c.Capturing()
}
