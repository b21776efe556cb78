package views

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"lightdeck/internal/application"
)

// SunKeyMap defines key bindings for the sun view
type SunKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Decrease key.Binding
	Increase key.Binding
	Edit     key.Binding
	Sunrise  key.Binding
	Sunset   key.Binding
	Now      key.Binding
	Visible  key.Binding
	Refresh  key.Binding
}

var SunKeys = SunKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
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
		key.WithKeys("e", "enter"),
		key.WithHelp("e", "edit value"),
	),
	Sunrise: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "sunrise"),
	),
	Sunset: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "sunset"),
	),
	Now: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "now"),
	),
	Visible: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "show/hide"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "refresh lights"),
	),
}

type sunField int

const (
	fieldLight sunField = iota
	fieldDay
	fieldHour
	fieldMinute
	fieldLatitude
	fieldLongitude
	fieldIntensity
	fieldTemperature
	fieldExposure
	fieldAngle
)

type sunRow struct {
	field        sunField
	label        string
	lo, hi, step float64
	format       string
}

var sunRows = []sunRow{
	{fieldLight, "Sun light", 0, 0, 0, ""},
	{fieldDay, "Day of year", 1, 365, 1, "%.0f"},
	{fieldHour, "Hour", 0, 23, 1, "%02.0f"},
	{fieldMinute, "Minute", 0, 59, 1, "%02.0f"},
	{fieldLatitude, "Latitude", -90, 90, 0.5, "%.4f"},
	{fieldLongitude, "Longitude", -180, 180, 0.5, "%.4f"},
	{fieldIntensity, "Intensity", 0, 100000, 500, "%.0f"},
	{fieldTemperature, "Temperature", 100, 15000, 100, "%.0f K"},
	{fieldExposure, "Exposure", -10, 50, 0.5, "%.1f"},
	{fieldAngle, "Angle", 0, 50, 0.1, "%.2f"},
}

// lightsListedMsg carries the result of a background light listing
type lightsListedMsg struct {
	lights []string
	err    error
}

// SunModel drives a distant light from date, time and location
type SunModel struct {
	ViewState
	panel   *Panel
	input   ValueInput
	options []string
	row     int
	hidden  bool
}

// NewSunModel creates a new sun model
func NewSunModel(panel *Panel) *SunModel {
	return &SunModel{
		panel:   panel,
		input:   NewValueInput(),
		options: application.PickerOptions(nil),
	}
}

// Init starts the first light listing
func (m *SunModel) Init() tea.Cmd {
	return m.listLights(m.panel.Refresher.Refresh())
}

// Capturing reports whether the value input owns the keyboard
func (m *SunModel) Capturing() bool {
	return m.input.Active()
}

// listLights runs a refresher job off the update loop
func (m *SunModel) listLights(job func() ([]string, error)) tea.Cmd {
	if job == nil {
		return nil
	}
	return func() tea.Msg {
		lights, err := job()
		return lightsListedMsg{lights: lights, err: err}
	}
}

// Update handles messages for the sun view
func (m *SunModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if listed, ok := msg.(lightsListedMsg); ok {
		m.onLightsListed(listed)
		return m, nil
	}
	if m.input.Active() {
		return m, m.input.Update(msg)
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	sc := m.panel.Sun
	row := sunRows[m.row]

	switch {
	case key.Matches(keyMsg, SunKeys.Up):
		if m.row > 0 {
			m.row--
		}

	case key.Matches(keyMsg, SunKeys.Down):
		if m.row < len(sunRows)-1 {
			m.row++
		}

	case key.Matches(keyMsg, SunKeys.Decrease), key.Matches(keyMsg, SunKeys.Increase):
		dir := 1
		if key.Matches(keyMsg, SunKeys.Decrease) {
			dir = -1
		}
		if row.field == fieldLight {
			return m, m.cycleLight(dir)
		}
		current, ok := m.fieldValue(row.field)
		if !ok {
			break
		}
		next := max(row.lo, min(row.hi, current+float64(dir)*row.step))
		return m, m.setField(row.field, next)

	case key.Matches(keyMsg, SunKeys.Edit):
		if row.field == fieldLight {
			return m, m.cycleLight(1)
		}
		current, ok := m.fieldValue(row.field)
		if !ok {
			m.SetMessage("Select a sun light first", false)
			break
		}
		return m, m.input.Start(row.label, strconv.FormatFloat(current, 'f', -1, 64), func(raw string) tea.Cmd {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				m.SetMessage(fmt.Sprintf("%s: expected a number, got %q", row.label, raw), true)
				return nil
			}
			if v < row.lo || v > row.hi {
				m.SetMessage(fmt.Sprintf("%s must be between %g and %g", row.label, row.lo, row.hi), true)
				return nil
			}
			return m.setField(row.field, v)
		})

	case key.Matches(keyMsg, SunKeys.Sunrise):
		return m, m.shortcut("sunrise", sc.SetToSunrise)

	case key.Matches(keyMsg, SunKeys.Sunset):
		return m, m.shortcut("sunset", sc.SetToSunset)

	case key.Matches(keyMsg, SunKeys.Now):
		return m, m.shortcut("now", sc.SetToNow)

	case key.Matches(keyMsg, SunKeys.Visible):
		return m, m.toggleVisible()

	case key.Matches(keyMsg, SunKeys.Refresh):
		job := m.panel.Refresher.Request()
		if job == nil {
			if m.panel.Refresher.InFlight() {
				m.SetMessage("A light refresh is already running", false)
			} else {
				m.SetMessage("Refreshed less than a second ago", false)
			}
			return m, nil
		}
		m.SetMessage("Refreshing distant lights...", false)
		return m, m.listLights(job)
	}

	return m, nil
}

func (m *SunModel) onLightsListed(msg lightsListedMsg) {
	if msg.err != nil {
		m.panel.Logger.Error("failed to list distant lights", "error", msg.err)
		m.SetMessage(msg.err.Error(), true)
		return
	}
	m.options = application.PickerOptions(msg.lights)

	// the chosen light vanished from the stage
	if sel := m.panel.Sun.SelectedLight(); sel != "" && !slices.Contains(msg.lights, sel) {
		_ = m.panel.Sun.SelectLight(application.NoSunLight)
		m.SetMessage(sel+" is gone, pick another light", false)
		return
	}
	m.SetMessage(fmt.Sprintf("Found %d distant light(s)", len(msg.lights)), false)
}

func (m *SunModel) cycleLight(dir int) tea.Cmd {
	current := slices.Index(m.options, m.panel.Sun.SelectedLight())
	if current < 0 {
		current = 0
	}
	next := (current + dir + len(m.options)) % len(m.options)
	if err := m.panel.Sun.SelectLight(m.options[next]); err != nil {
		m.SetResult("", err)
		return nil
	}
	m.hidden = false
	if next == 0 {
		m.SetMessage("No sun light selected", false)
		return nil
	}
	return m.recompute("Sun light set to " + m.options[next])
}

// fieldValue reads a row's current value; sun properties need a light
func (m *SunModel) fieldValue(f sunField) (float64, bool) {
	cfg := m.panel.Sun.Config()
	switch f {
	case fieldDay:
		return float64(cfg.DayOfYear), true
	case fieldHour:
		return float64(cfg.Hour), true
	case fieldMinute:
		return float64(cfg.Minute), true
	case fieldLatitude:
		return cfg.Latitude, true
	case fieldLongitude:
		return cfg.Longitude, true
	}

	props, err := m.panel.Sun.Properties()
	if err != nil {
		return 0, false
	}
	switch f {
	case fieldIntensity:
		return props.Intensity, true
	case fieldTemperature:
		return props.ColorTemperature, true
	case fieldExposure:
		return props.Exposure, true
	case fieldAngle:
		return props.Angle, true
	}
	return 0, false
}

func (m *SunModel) setField(f sunField, v float64) tea.Cmd {
	sc := m.panel.Sun
	cfg := sc.Config()

	var err error
	switch f {
	case fieldDay:
		cfg.SetDate(int(v))
	case fieldHour:
		cfg.SetHour(int(v))
	case fieldMinute:
		cfg.SetMinute(int(v))
	case fieldLatitude:
		cfg.SetLatitude(v)
	case fieldLongitude:
		cfg.SetLongitude(v)
	case fieldIntensity:
		err = sc.SetIntensity(v)
	case fieldTemperature:
		err = sc.SetColorTemperature(v)
	case fieldExposure:
		err = sc.SetExposure(v)
	case fieldAngle:
		err = sc.SetAngle(v)
	}
	if err != nil {
		m.SetResult("", err)
		return nil
	}
	if f >= fieldIntensity {
		m.ClearMessage()
		return edited
	}
	return m.recompute("")
}

func (m *SunModel) shortcut(name string, set func() error) tea.Cmd {
	if err := set(); err != nil {
		m.panel.Logger.Warn("sun shortcut failed", "shortcut", name, "error", err)
		m.SetResult("", err)
		return nil
	}
	cfg := m.panel.Sun.Config()
	return m.recompute(fmt.Sprintf("Time set to %s, %02d:%02d", name, cfg.Hour, cfg.Minute))
}

// recompute moves the sun light when one is selected
func (m *SunModel) recompute(message string) tea.Cmd {
	if m.panel.Sun.SelectedLight() == "" || m.hidden {
		m.SetMessage(message, false)
		return nil
	}
	update, err := m.panel.Sun.Recompute()
	if err != nil {
		m.panel.Logger.Error("sun update failed", "error", err)
		m.SetResult("", err)
		return nil
	}
	if message == "" && !update.TimeOfDay.Visible {
		message = "Sun is below the horizon"
	}
	m.SetMessage(message, false)
	return edited
}

func (m *SunModel) toggleVisible() tea.Cmd {
	sc := m.panel.Sun
	if sc.SelectedLight() == "" {
		m.SetMessage("Select a sun light first", false)
		return nil
	}
	if !m.hidden {
		if err := sc.Hide(); err != nil {
			m.SetResult("", err)
			return nil
		}
		m.hidden = true
		m.SetMessage("Sun hidden", false)
		return edited
	}
	m.hidden = false
	return m.recompute("Sun shown")
}

// View renders the sun view
func (m *SunModel) View() string {
	t := m.panel.Theme
	sc := m.panel.Sun
	v := NewViewBuilder(t)

	for i, row := range sunRows {
		label := fmt.Sprintf("%-14s", row.label)
		if i == m.row {
			label = t.NodeSelected.Render(label)
		} else {
			label = t.InputLabel.Render(label)
		}

		var value string
		if row.field == fieldLight {
			value = sc.SelectedLight()
			if value == "" {
				value = t.MutedText.Render(application.NoSunLight)
			}
			value = fmt.Sprintf("◀ %s ▶  %s", value, t.MutedText.Render(fmt.Sprintf("(%d found)", len(m.options)-1)))
		} else if current, ok := m.fieldValue(row.field); ok {
			value = RenderSlider(t, current, row.lo, row.hi) + " " + fmt.Sprintf(row.format, current)
		} else {
			value = t.MutedText.Render("-")
		}
		v.Line("  " + label + " " + value)
	}

	v.BlankLine()
	m.renderPosition(v)

	if m.input.Active() {
		v.BlankLine().Line(m.input.View(t))
		return v.String()
	}
	v.Message(m.Message, m.MessageErr)
	v.Help(SunKeys.Decrease, SunKeys.Increase, SunKeys.Edit, SunKeys.Sunrise, SunKeys.Sunset, SunKeys.Now, SunKeys.Visible, SunKeys.Refresh)
	return v.String()
}

func (m *SunModel) renderPosition(v *ViewBuilder) {
	t := m.panel.Theme
	sc := m.panel.Sun

	when, err := sc.Time()
	if err != nil {
		v.Line(t.ErrorMsg.Render(err.Error()))
		return
	}
	v.Line(RenderLabelValue(t, "Local time", when.Format("Mon 2 Jan 15:04 MST")))

	pos, err := sc.Position()
	if err != nil {
		v.Line(t.ErrorMsg.Render(err.Error()))
		return
	}
	v.Line(RenderLabelValue(t, "Sun", fmt.Sprintf("altitude %.2f°, azimuth %.2f°", pos.Altitude, pos.Azimuth)))

	rise, riseErr := sc.Sunrise()
	set, setErr := sc.Sunset()
	switch {
	case riseErr != nil:
		v.Line(RenderLabelValue(t, "Daylight", riseErr.Error()))
	case setErr != nil:
		v.Line(RenderLabelValue(t, "Daylight", setErr.Error()))
	default:
		v.Line(RenderLabelValue(t, "Daylight", fmt.Sprintf("sunrise %s, sunset %s", rise.Format("15:04"), set.Format("15:04"))))
	}
}
