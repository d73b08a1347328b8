package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// ListInput is a focused text input for a comma-separated list of IDs.
type ListInput struct {
	Model textinput.Model
}

// NewListInput creates a list input prefilled with values.
func NewListInput(prompt, placeholder string, values []string) ListInput {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.SetValue(strings.Join(values, ", "))
	ti.CursorEnd()
	return ListInput{Model: ti}
}

// Init focuses the input.
func (l *ListInput) Init() tea.Cmd {
	return l.Model.Focus()
}

// Update forwards msg to the underlying input.
func (l ListInput) Update(msg tea.Msg) (ListInput, tea.Cmd) {
	var cmd tea.Cmd
	l.Model, cmd = l.Model.Update(msg)
	return l, cmd
}

// View renders the input.
func (l ListInput) View() string {
	return l.Model.View()
}

// Values splits the input on commas and whitespace, dropping empties.
func (l ListInput) Values() []string {
	return strings.FieldsFunc(l.Model.Value(), func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}
