package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"lightdeck/internal/adapters/tui/styles"
)

// RenderKeyHelp formats a key binding as help text (key + description)
func RenderKeyHelp(t *styles.Theme, b key.Binding) string {
	help := b.Help()
	return fmt.Sprintf("%s %s",
		t.HelpKey.Render(help.Key),
		t.HelpDesc.Render(help.Desc),
	)
}

// RenderHelpLine renders multiple key bindings as a help line separated by bullets
func RenderHelpLine(t *styles.Theme, bindings ...key.Binding) string {
	var parts []string
	for _, b := range bindings {
		parts = append(parts, RenderKeyHelp(t, b))
	}
	return strings.Join(parts, t.HelpSeparator.String())
}

// RenderMessage renders a message with appropriate styling based on isError
func RenderMessage(t *styles.Theme, message string, isError bool) string {
	if message == "" {
		return ""
	}
	if isError {
		return t.ErrorMsg.Render(message)
	}
	return t.Success.Render(message)
}

// RenderLabelValue renders a label: value pair
func RenderLabelValue(t *styles.Theme, label, value string) string {
	return fmt.Sprintf("%s %s",
		t.InputLabel.Render(label+":"),
		value,
	)
}

// RenderSlider draws value within [lo, hi] as a bar
func RenderSlider(t *styles.Theme, value, lo, hi float64) string {
	width := t.SliderWidth
	if width <= 0 || hi <= lo {
		return ""
	}
	frac := (value - lo) / (hi - lo)
	frac = max(0, min(1, frac))
	filled := int(frac*float64(width) + 0.5)
	return t.SliderFill.Render(strings.Repeat("━", filled)) +
		t.SliderEmpty.Render(strings.Repeat("─", width-filled))
}

// RenderTabs renders the tab bar with the active tab highlighted
func RenderTabs(t *styles.Theme, names []string, active int) string {
	parts := make([]string, len(names))
	for i, name := range names {
		label := fmt.Sprintf("%d %s", i+1, name)
		if i == active {
			parts[i] = t.TabActive.Render(label)
		} else {
			parts[i] = t.TabInactive.Render(label)
		}
	}
	return strings.Join(parts, t.TabGap.String())
}

// ViewBuilder helps construct view output with consistent formatting
type ViewBuilder struct {
	t *styles.Theme
	b strings.Builder
}

// NewViewBuilder creates a new view builder
func NewViewBuilder(t *styles.Theme) *ViewBuilder {
	return &ViewBuilder{t: t}
}

// Title adds a title section
func (v *ViewBuilder) Title(title string) *ViewBuilder {
	v.b.WriteString(v.t.Title.Render(title))
	v.b.WriteString("\n")
	return v
}

// Subtitle adds a subtitle section
func (v *ViewBuilder) Subtitle(subtitle string) *ViewBuilder {
	v.b.WriteString(v.t.Subtitle.Render(subtitle))
	v.b.WriteString("\n\n")
	return v
}

// Line adds a line of text
func (v *ViewBuilder) Line(text string) *ViewBuilder {
	v.b.WriteString(text)
	v.b.WriteString("\n")
	return v
}

// BlankLine adds a blank line
func (v *ViewBuilder) BlankLine() *ViewBuilder {
	v.b.WriteString("\n")
	return v
}

// Muted adds muted text followed by a newline
func (v *ViewBuilder) Muted(text string) *ViewBuilder {
	v.b.WriteString(v.t.MutedText.Render(text))
	v.b.WriteString("\n")
	return v
}

// Message adds a message if non-empty, with appropriate error/success styling
func (v *ViewBuilder) Message(message string, isError bool) *ViewBuilder {
	if message == "" {
		return v
	}
	v.b.WriteString("\n")
	v.b.WriteString(RenderMessage(v.t, message, isError))
	v.b.WriteString("\n")
	return v
}

// Help adds a help line with key bindings
func (v *ViewBuilder) Help(bindings ...key.Binding) *ViewBuilder {
	v.b.WriteString("\n")
	v.b.WriteString(RenderHelpLine(v.t, bindings...))
	return v
}

// Raw adds raw text without any formatting
func (v *ViewBuilder) Raw(text string) *ViewBuilder {
	v.b.WriteString(text)
	return v
}

// String returns the built view
func (v *ViewBuilder) String() string {
	return v.b.String()
}
