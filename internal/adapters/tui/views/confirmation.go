package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"lightdeck/internal/adapters/tui/styles"
)

// ConfirmKeyMap defines key bindings for confirmation prompts
type ConfirmKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultConfirmKeys returns the default confirmation key bindings
var DefaultConfirmKeys = ConfirmKeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n/esc", "cancel"),
	),
}

// Confirmation is an inline yes/no prompt. While it is active the owning
// view routes every key to it.
type Confirmation struct {
	Keys     ConfirmKeyMap
	question string
	action   func() tea.Cmd
}

// NewConfirmation creates an inactive confirmation prompt
func NewConfirmation() Confirmation {
	return Confirmation{Keys: DefaultConfirmKeys}
}

// Ask activates the prompt; action runs when the user confirms
func (c *Confirmation) Ask(question string, action func() tea.Cmd) {
	c.question = question
	c.action = action
}

// Active reports whether the prompt waits for an answer
func (c *Confirmation) Active() bool {
	return c.action != nil
}

// HandleKeyMsg answers the prompt. It returns handled=false for keys that
// are neither confirm nor cancel; those are swallowed by the caller.
func (c *Confirmation) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, c.Keys.Cancel):
		c.action = nil
		return true, nil
	case key.Matches(msg, c.Keys.Confirm):
		action := c.action
		c.action = nil
		return true, action()
	}
	return false, nil
}

// View renders the prompt
func (c *Confirmation) View(t *styles.Theme) string {
	if !c.Active() {
		return ""
	}
	var b strings.Builder
	b.WriteString(t.WarnMsg.Render(c.question))
	b.WriteString(" ")
	b.WriteString(t.HelpKey.Render("y"))
	b.WriteString(t.HelpDesc.Render(" to confirm, "))
	b.WriteString(t.HelpKey.Render("n"))
	b.WriteString(t.HelpDesc.Render(" to cancel"))
	return b.String()
}
