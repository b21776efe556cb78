package styles

import (
	"github.com/charmbracelet/lipgloss"

	"lightdeck/internal/domain"
)

var (
	// Colors
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Muted     = lipgloss.Color("#6B7280") // Gray
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Error     = lipgloss.Color("#EF4444") // Red
	White     = lipgloss.Color("#FFFFFF")
	Black     = lipgloss.Color("#000000")
	Blue      = lipgloss.Color("#60A5FA")
	Sun       = lipgloss.Color("#FBBF24")
)

// Theme holds every style the panel renders with. Build it once with
// Default and pass it to the views.
type Theme struct {
	App      lipgloss.Style
	Title    lipgloss.Style
	Subtitle lipgloss.Style

	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	TabGap      lipgloss.Style

	// Tree node styles
	NodeDefault  lipgloss.Style
	NodeXform    lipgloss.Style
	NodeLight    lipgloss.Style
	NodeMaterial lipgloss.Style
	NodeGeometry lipgloss.Style
	NodeSelected lipgloss.Style

	TreeBranch    lipgloss.Style
	TreeExpanded  string
	TreeCollapsed string
	TreeLeaf      string

	// Lists
	Checked   string
	Unchecked string
	Ancestral lipgloss.Style

	// Sliders
	SliderFill  lipgloss.Style
	SliderEmpty lipgloss.Style
	SliderWidth int

	StatusBar lipgloss.Style

	InputLabel   lipgloss.Style
	InputField   lipgloss.Style
	InputFocused lipgloss.Style

	HelpKey       lipgloss.Style
	HelpDesc      lipgloss.Style
	HelpSeparator lipgloss.Style

	Success   lipgloss.Style
	ErrorMsg  lipgloss.Style
	WarnMsg   lipgloss.Style
	MutedText lipgloss.Style
}

// Default returns the panel theme
func Default() *Theme {
	return &Theme{
		App: lipgloss.NewStyle().
			Padding(1, 2),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true),

		TabActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(White).
			Background(Primary).
			Padding(0, 2),

		TabInactive: lipgloss.NewStyle().
			Foreground(Muted).
			Padding(0, 2),

		TabGap: lipgloss.NewStyle().
			SetString(" "),

		NodeDefault: lipgloss.NewStyle(),

		NodeXform: lipgloss.NewStyle().
			Bold(true),

		NodeLight: lipgloss.NewStyle().
			Foreground(Sun),

		NodeMaterial: lipgloss.NewStyle().
			Foreground(Secondary),

		NodeGeometry: lipgloss.NewStyle().
			Foreground(Blue),

		NodeSelected: lipgloss.NewStyle().
			Background(Primary).
			Foreground(White).
			Bold(true),

		TreeBranch:    lipgloss.NewStyle().Foreground(Muted),
		TreeExpanded:  "▼ ",
		TreeCollapsed: "▶ ",
		TreeLeaf:      "  ",

		Checked:   "[x] ",
		Unchecked: "[ ] ",
		Ancestral: lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true),

		SliderFill:  lipgloss.NewStyle().Foreground(Primary),
		SliderEmpty: lipgloss.NewStyle().Foreground(Muted),
		SliderWidth: 24,

		StatusBar: lipgloss.NewStyle().
			Background(lipgloss.Color("#1F2937")).
			Foreground(White).
			Padding(0, 1),

		InputLabel: lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true),

		InputField: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Secondary).
			Padding(0, 1),

		HelpKey: lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true),

		HelpDesc: lipgloss.NewStyle().
			Foreground(Muted),

		HelpSeparator: lipgloss.NewStyle().
			Foreground(Muted).
			SetString(" • "),

		Success: lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true),

		ErrorMsg: lipgloss.NewStyle().
			Foreground(Error).
			Bold(true),

		WarnMsg: lipgloss.NewStyle().
			Foreground(Warning),

		MutedText: lipgloss.NewStyle().
			Foreground(Muted),
	}
}

// NodeStyle returns the tree style for a prim type
func (t *Theme) NodeStyle(tag domain.TypeTag) lipgloss.Style {
	switch {
	case domain.IsLight(tag):
		return t.NodeLight
	case domain.IsMaterial(tag):
		return t.NodeMaterial
	case domain.IsXform(tag):
		return t.NodeXform
	case domain.IsImageable(tag):
		return t.NodeGeometry
	default:
		return t.NodeDefault
	}
}
