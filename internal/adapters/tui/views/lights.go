package views

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"lightdeck/internal/application"
	"lightdeck/internal/application/commands"
	"lightdeck/internal/domain"
)

// LightsKeyMap defines key bindings for the lights view
type LightsKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Pane     key.Binding
	Select   key.Binding
	Decrease key.Binding
	Increase key.Binding
	Edit     key.Binding
	OnOff    key.Binding
	Record   key.Binding
	Reset    key.Binding
	Factory  key.Binding
	Refresh  key.Binding
}

var LightsKeys = LightsKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Pane: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select group"),
	),
	Select: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back to groups"),
	),
	Decrease: key.NewBinding(
		key.WithKeys("h", "left", "-"),
		key.WithHelp("h/←", "decrease"),
	),
	Increase: key.NewBinding(
		key.WithKeys("l", "right", "+"),
		key.WithHelp("l/→", "increase"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit value"),
	),
	OnOff: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "on/off"),
	),
	Record: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "record defaults"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset to recorded"),
	),
	Factory: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "factory reset"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "refresh groups"),
	),
}

// lightGroup is one entry of the group picker
type lightGroup struct {
	Room string
	Name string
	Path string
}

// lightRow is one editable property with its slider range
type lightRow struct {
	label string
	prop  domain.LightProperty
	// power rows toggle visibility instead of writing prop
	power        bool
	lo, hi, step float64
	format       string
}

var lightRows = []lightRow{
	{label: "Enabled", power: true},
	{label: "Color", prop: domain.PropColor},
	{label: "Intensity", prop: domain.PropIntensity, lo: 0, hi: 100000, step: 500, format: "%.0f"},
	{label: "Exposure", prop: domain.PropExposure, lo: -5, hi: 5, step: 0.1, format: "%.2f"},
	{label: "Specular", prop: domain.PropSpecular, lo: 0, hi: 2, step: 0.05, format: "%.2f"},
	{label: "Use temperature", prop: domain.PropEnableColorTemperature},
	{label: "Temperature", prop: domain.PropColorTemperature, lo: 1000, hi: 15000, step: 100, format: "%.0f K"},
}

// LightsModel picks a lighting group and edits its lights together
type LightsModel struct {
	ViewState
	panel  *Panel
	input  ValueInput
	root   string
	groups []lightGroup
	group  int
	row    int
	// editing is true while the property pane has focus
	editing bool
}

// NewLightsModel creates a new lights model
func NewLightsModel(panel *Panel) *LightsModel {
	return &LightsModel{
		panel: panel,
		input: NewValueInput(),
	}
}

// Init lists the lighting groups
func (m *LightsModel) Init() tea.Cmd {
	m.loadGroups()
	return nil
}

// Capturing reports whether the value input owns the keyboard
func (m *LightsModel) Capturing() bool {
	return m.input.Active()
}

func (m *LightsModel) loadGroups() {
	lm := m.panel.Lights
	m.root = lm.FindLightsPath()
	m.groups = nil

	rooms, err := lm.RoomNames(m.root)
	if err != nil {
		m.SetResult("", fmt.Errorf("no lights root at %s: %w", m.root, err))
		return
	}
	for _, room := range rooms {
		roomPath := domain.JoinPath(m.root, room)
		names, err := lm.GroupNames(roomPath)
		if err != nil {
			m.panel.Logger.Warn("failed to list groups", "room", roomPath, "error", err)
			continue
		}
		for _, name := range names {
			m.groups = append(m.groups, lightGroup{Room: room, Name: name, Path: domain.JoinPath(roomPath, name)})
		}
	}
	if m.group >= len(m.groups) {
		m.group = max(0, len(m.groups)-1)
	}
}

func (m *LightsModel) selectedGroup() (lightGroup, bool) {
	if m.group < 0 || m.group >= len(m.groups) {
		return lightGroup{}, false
	}
	return m.groups[m.group], true
}

// leadState reads the first selected light; the pane shows its values
func (m *LightsModel) leadState() *application.LightState {
	selected := m.panel.Lights.Selected()
	if len(selected) == 0 {
		return nil
	}
	state, err := m.panel.Lights.State(selected[0])
	if err != nil {
		m.panel.Logger.Warn("failed to read light", "path", selected[0], "error", err)
		return nil
	}
	return state
}

// Update handles messages for the lights view
func (m *LightsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.input.Active() {
		return m, m.input.Update(msg)
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if !m.editing {
		return m, m.updateGroups(keyMsg)
	}
	return m, m.updateProperties(keyMsg)
}

func (m *LightsModel) updateGroups(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, LightsKeys.Up):
		if m.group > 0 {
			m.group--
		}

	case key.Matches(msg, LightsKeys.Down):
		if m.group < len(m.groups)-1 {
			m.group++
		}

	case key.Matches(msg, LightsKeys.Pane):
		g, ok := m.selectedGroup()
		if !ok {
			break
		}
		n, err := m.panel.Lights.SelectGroup(g.Path)
		if err != nil {
			m.SetResult("", err)
			break
		}
		m.editing = true
		m.row = 0
		m.SetMessage(fmt.Sprintf("Selected %d light(s) in %s/%s", n, g.Room, g.Name), false)

	case key.Matches(msg, LightsKeys.Refresh):
		m.loadGroups()
		m.SetMessage(fmt.Sprintf("Found %d group(s) under %s", len(m.groups), m.root), false)
	}
	return nil
}

func (m *LightsModel) updateProperties(msg tea.KeyMsg) tea.Cmd {
	lm := m.panel.Lights
	row := lightRows[m.row]

	switch {
	case key.Matches(msg, LightsKeys.Select):
		m.editing = false
		m.ClearMessage()

	case key.Matches(msg, LightsKeys.Up):
		if m.row > 0 {
			m.row--
		}

	case key.Matches(msg, LightsKeys.Down):
		if m.row < len(lightRows)-1 {
			m.row++
		}

	case key.Matches(msg, LightsKeys.Decrease), key.Matches(msg, LightsKeys.Increase):
		dir := 1.0
		if key.Matches(msg, LightsKeys.Decrease) {
			dir = -1
		}
		return m.step(row, dir)

	case key.Matches(msg, LightsKeys.OnOff):
		return m.togglePower()

	case key.Matches(msg, LightsKeys.Edit), key.Matches(msg, LightsKeys.Pane):
		if row.power {
			return m.togglePower()
		}
		initial := ""
		if state := m.leadState(); state != nil {
			initial = formatValue(rowValue(state, row))
		}
		return m.input.Start(row.label, initial, func(raw string) tea.Cmd {
			value, err := commands.ParsePropertyValue(row.prop, raw)
			if err != nil {
				m.SetMessage(err.Error(), true)
				return nil
			}
			return m.apply(row, value)
		})

	case key.Matches(msg, LightsKeys.Record):
		n, err := lm.RecordDefaults()
		if err != nil {
			m.SetResult("", err)
			break
		}
		if m.panel.Defaults != nil {
			if err := m.panel.Defaults.SaveDefaults(context.Background(), lm.ExportDefaults()); err != nil {
				m.panel.Logger.Error("failed to save recorded defaults", "error", err)
				m.SetMessage(fmt.Sprintf("Recorded %d light(s) but saving failed: %v", n, err), true)
				break
			}
		}
		m.SetMessage(fmt.Sprintf("Recorded defaults for %d light(s)", n), false)

	case key.Matches(msg, LightsKeys.Reset):
		n, err := lm.ResetToRecorded()
		m.SetResult(fmt.Sprintf("Reset %d light(s) to recorded values", n), err)
		if err == nil {
			return edited
		}

	case key.Matches(msg, LightsKeys.Factory):
		n, err := lm.ResetAll()
		m.SetResult(fmt.Sprintf("Reset %d light(s) to factory values", n), err)
		if err == nil {
			return edited
		}
	}
	return nil
}

func (m *LightsModel) togglePower() tea.Cmd {
	state := m.leadState()
	if state == nil {
		m.SetMessage("No lights selected", false)
		return nil
	}
	n, err := m.panel.Lights.SetSelectedEnabled(!state.Enabled)
	word := "on"
	if state.Enabled {
		word = "off"
	}
	m.SetResult(fmt.Sprintf("Turned %s %d light(s)", word, n), err)
	if err != nil {
		return nil
	}
	return edited
}

// step nudges a numeric row by its step, or flips a boolean row
func (m *LightsModel) step(row lightRow, dir float64) tea.Cmd {
	if row.power {
		return m.togglePower()
	}
	state := m.leadState()
	if state == nil {
		m.SetMessage("No lights selected", false)
		return nil
	}

	switch current := rowValue(state, row).(type) {
	case bool:
		return m.apply(row, !current)
	case float64:
		next := max(row.lo, min(row.hi, current+dir*row.step))
		return m.apply(row, next)
	default:
		m.SetMessage("Press e to edit "+row.label, false)
		return nil
	}
}

func (m *LightsModel) apply(row lightRow, value any) tea.Cmd {
	n, err := m.panel.Lights.SetSelected(row.prop, value)
	if err != nil {
		m.panel.Logger.Error("failed to set light property", "property", row.prop, "error", err)
		m.SetResult("", err)
		return nil
	}
	m.SetMessage(fmt.Sprintf("%s set on %d light(s)", row.label, n), false)
	return edited
}

func rowValue(state *application.LightState, row lightRow) any {
	if row.power {
		return state.Enabled
	}
	switch row.prop {
	case domain.PropColor:
		return state.Color
	case domain.PropIntensity:
		return state.Intensity
	case domain.PropExposure:
		return state.Exposure
	case domain.PropSpecular:
		return state.Specular
	case domain.PropEnableColorTemperature:
		return state.EnableColorTemperature
	case domain.PropColorTemperature:
		return state.ColorTemperature
	}
	return nil
}

func formatValue(v any) string {
	switch v := v.(type) {
	case domain.Vec3:
		return fmt.Sprintf("%g,%g,%g", v[0], v[1], v[2])
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

// View renders the lights view
func (m *LightsModel) View() string {
	t := m.panel.Theme
	v := NewViewBuilder(t)
	v.Muted("Lights root: " + m.root)

	if len(m.groups) == 0 {
		v.Muted("No lighting groups found.")
	}
	for i, g := range m.groups {
		text := fmt.Sprintf("%s / %s", g.Room, g.Name)
		style := t.NodeXform
		if i == m.group {
			if m.editing {
				style = t.Success
			} else {
				style = t.NodeSelected
			}
		}
		v.Line("  " + style.Render(text))
	}

	if m.editing {
		v.BlankLine()
		m.renderProperties(v)
	}

	if m.input.Active() {
		v.BlankLine().Line(m.input.View(t))
		return v.String()
	}

	v.Message(m.Message, m.MessageErr)
	if m.editing {
		v.Help(LightsKeys.Decrease, LightsKeys.Increase, LightsKeys.Edit, LightsKeys.OnOff, LightsKeys.Record, LightsKeys.Reset, LightsKeys.Factory, LightsKeys.Select)
	} else {
		v.Help(LightsKeys.Up, LightsKeys.Down, LightsKeys.Pane, LightsKeys.Refresh)
	}
	return v.String()
}

func (m *LightsModel) renderProperties(v *ViewBuilder) {
	t := m.panel.Theme
	state := m.leadState()
	if state == nil {
		v.Muted("No lights selected.")
		return
	}
	v.Line(RenderLabelValue(t, "Editing", fmt.Sprintf("%d light(s), showing %s", len(m.panel.Lights.Selected()), state.Name)))

	for i, row := range lightRows {
		label := fmt.Sprintf("%-16s", row.label)
		if i == m.row {
			label = t.NodeSelected.Render(label)
		} else {
			label = t.InputLabel.Render(label)
		}

		var value string
		switch val := rowValue(state, row).(type) {
		case bool:
			if row.power {
				value = map[bool]string{true: "on", false: "off"}[val]
			} else {
				value = strconv.FormatBool(val)
			}
		case domain.Vec3:
			value = fmt.Sprintf("%.2f, %.2f, %.2f", val[0], val[1], val[2])
		case float64:
			value = RenderSlider(t, val, row.lo, row.hi) + " " + fmt.Sprintf(row.format, val)
		}
		v.Line("  " + label + " " + value)
	}
}
