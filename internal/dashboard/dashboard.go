// Package dashboard is the interactive terminal view over a grading
// dataset.
package dashboard

import (
	"context"
	"fmt"
	"path/filepath"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gradelens/internal/ui/layout"
)

// Model is the root Bubble Tea model.
type Model struct {
	nav    *navigator
	state  *State
	width  int
	height int
}

// New creates a dashboard rooted at the overview screen.
func New(state *State) Model {
	return Model{
		nav:   newNavigator(newOverview(state)),
		state: state,
	}
}

func (m Model) Init() tea.Cmd {
	return m.nav.active().Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if capturing(m.nav.active()) {
				break
			}
			if m.nav.depth() > 1 {
				return m, pop
			}
			return m, tea.Quit
		}
	}

	cmd := m.nav.update(msg)
	return m, cmd
}

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.nav.active()
	status := fmt.Sprintf("%s · %d items", filepath.Base(m.state.Source), len(m.state.Current().Records))
	header := layout.RenderHeader(active.Title(), status, m.width)
	footer := layout.RenderFooter(active.KeyHints(), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := active.View(m.width, contentHeight)

	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the dashboard and blocks until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, state *State) error {
	p := tea.NewProgram(New(state), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running dashboard: %w", err)
	}
	return nil
}
