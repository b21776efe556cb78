package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"lightdeck/internal/adapters/tui/styles"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// CloseHelpMsg returns to the previous tab
type CloseHelpMsg struct{}

// HelpModel is the model for the help view
type HelpModel struct {
	ViewState
	theme *styles.Theme
}

// NewHelpModel creates a new help view model
func NewHelpModel(theme *styles.Theme) *HelpModel {
	return &HelpModel{theme: theme}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, HelpKeys.Close) {
		return m, func() tea.Msg { return CloseHelpMsg{} }
	}
	return m, nil
}

type helpSection struct {
	title string
	lines [][2]string
}

var helpSections = []helpSection{
	{"Tabs", [][2]string{
		{"1 / 2 / 3 / 4", "Hierarchy, Lights, Sun, Materials"},
		{"tab / shift+tab", "Next / previous tab"},
		{"ctrl+s", "Save the stage"},
		{"ctrl+r", "Reload the stage from disk"},
		{"ctrl+e", "Edit the stage file in $EDITOR"},
	}},
	{"Hierarchy", [][2]string{
		{"j / k", "Move up/down"},
		{"h / l / enter", "Collapse / expand"},
		{"c", "Copy prim path"},
		{"r", "Rebuild tree"},
	}},
	{"Lights", [][2]string{
		{"enter / esc", "Open group / back to groups"},
		{"h / l", "Step the selected property"},
		{"e", "Type a value"},
		{"o", "Turn the group on or off"},
		{"p / r", "Record defaults / reset to them"},
		{"R", "Reset to factory values"},
	}},
	{"Sun", [][2]string{
		{"h / l", "Step date, time, location or a sun property"},
		{"r / t / n", "Sunrise / sunset / now"},
		{"v", "Show or hide the sun"},
		{"f", "Refresh the distant light list"},
	}},
	{"Materials", [][2]string{
		{"s", "Scan for unused materials"},
		{"space / a / x", "Toggle / select all / clear"},
		{"d / D", "Delete selected / delete all unused"},
		{"u", "Undo the last deletion"},
	}},
	{"General", [][2]string{
		{"?", "Toggle help"},
		{"q / ctrl+c", "Quit"},
	}},
}

// View renders the help view
func (m *HelpModel) View() string {
	t := m.theme
	var b strings.Builder

	b.WriteString(t.Title.Render("Lightdeck Help"))
	b.WriteString("\n\n")

	for _, section := range helpSections {
		b.WriteString(t.InputLabel.Render(section.title))
		b.WriteString("\n")
		for _, line := range section.lines {
			b.WriteString(m.helpLine(line[0], line[1]))
		}
		b.WriteString("\n")
	}

	b.WriteString(t.HelpDesc.Render("Press "))
	b.WriteString(t.HelpKey.Render("esc"))
	b.WriteString(t.HelpDesc.Render(" or "))
	b.WriteString(t.HelpKey.Render("?"))
	b.WriteString(t.HelpDesc.Render(" to close"))

	return t.App.Render(b.String())
}

func (m *HelpModel) helpLine(key, desc string) string {
	return "  " + m.theme.HelpKey.Render(padRight(key, 20)) + m.theme.HelpDesc.Render(desc) + "\n"
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
