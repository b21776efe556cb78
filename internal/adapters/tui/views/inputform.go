package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"lightdeck/internal/adapters/tui/styles"
)

// InputKeyMap defines key bindings for value entry
type InputKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
}

// DefaultInputKeys returns the default value entry key bindings
var DefaultInputKeys = InputKeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "apply"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// ValueInput edits one value in place, e.g. a light intensity or the
// sun latitude. It is inactive until Start is called.
type ValueInput struct {
	Keys   InputKeyMap
	label  string
	input  textinput.Model
	active bool
	submit func(string) tea.Cmd
}

// NewValueInput creates an inactive value input
func NewValueInput() ValueInput {
	input := textinput.New()
	input.CharLimit = 64
	return ValueInput{
		Keys:  DefaultInputKeys,
		input: input,
	}
}

// Start focuses the input with an initial value; submit runs on enter
func (v *ValueInput) Start(label, initial string, submit func(string) tea.Cmd) tea.Cmd {
	v.label = label
	v.submit = submit
	v.active = true
	v.input.SetValue(initial)
	v.input.CursorEnd()
	v.input.Focus()
	return textinput.Blink
}

// Active reports whether the input is taking keys
func (v *ValueInput) Active() bool {
	return v.active
}

// Value returns the trimmed text
func (v *ValueInput) Value() string {
	return strings.TrimSpace(v.input.Value())
}

// Update handles a message while the input is active
func (v *ValueInput) Update(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, v.Keys.Cancel):
			v.stop()
			return nil
		case key.Matches(keyMsg, v.Keys.Submit):
			value, submit := v.Value(), v.submit
			v.stop()
			if submit == nil {
				return nil
			}
			return submit(value)
		}
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return cmd
}

func (v *ValueInput) stop() {
	v.active = false
	v.submit = nil
	v.input.Blur()
}

// View renders the label and the field
func (v *ValueInput) View(t *styles.Theme) string {
	if !v.active {
		return ""
	}
	var b strings.Builder
	b.WriteString(t.InputLabel.Render(v.label))
	b.WriteString("\n")
	b.WriteString(t.InputFocused.Render(v.input.View()))
	b.WriteString("\n")
	b.WriteString(t.HelpKey.Render("enter") + " " + t.HelpDesc.Render("apply") + "  ")
	b.WriteString(t.HelpKey.Render("esc") + " " + t.HelpDesc.Render("cancel"))
	return b.String()
}
