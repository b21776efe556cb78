package tui

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"lightdeck/internal/adapters/scenegraph"
	"lightdeck/internal/adapters/tui/styles"
	"lightdeck/internal/adapters/tui/views"
	"lightdeck/internal/application"
	"lightdeck/internal/domain"
	"lightdeck/internal/ports"
)

// StageStore loads and saves the edited stage
type StageStore interface {
	Load() (*scenegraph.Stage, error)
	Save(stage *scenegraph.Stage) error
	Path() string
}

// Options wires the panel to its adapters
type Options struct {
	Store     StageStore
	History   ports.HistoryStore
	Defaults  ports.DefaultsStore
	Ephemeris ports.Ephemeris
	// Sun seeds the sun tab; nil means the built-in defaults
	Sun        *domain.SunpathConfig
	SunLight   string
	LightsRoot string
	// Changes signals that the stage file changed on disk
	Changes <-chan struct{}
	Copy    func(string) error
	// EditCommand opens the stage file in an external editor
	EditCommand func(path string) (*exec.Cmd, error)
	Logger      *slog.Logger
}

// Tab identifies a panel tab
type Tab int

const (
	TabHierarchy Tab = iota
	TabLights
	TabSun
	TabMaterials
)

var tabNames = []string{"Hierarchy", "Lights", "Sun", "Materials"}

// AppKeyMap defines the global key bindings
type AppKeyMap struct {
	Tab1      key.Binding
	Tab2      key.Binding
	Tab3      key.Binding
	Tab4      key.Binding
	Next      key.Binding
	Prev      key.Binding
	Save      key.Binding
	Reload    key.Binding
	Edit      key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

var AppKeys = AppKeyMap{
	Tab1:      key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "hierarchy")),
	Tab2:      key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "lights")),
	Tab3:      key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "sun")),
	Tab4:      key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "materials")),
	Next:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
	Prev:      key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous tab")),
	Save:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	Reload:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
	Edit:      key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "edit stage file")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
}

type tabView interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (tea.Model, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// stageChangedMsg reports a settled write to the stage file
type stageChangedMsg struct{}

type editorFinishedMsg struct{ err error }

// App is the main TUI application model
type App struct {
	opts  Options
	theme *styles.Theme

	stage     *scenegraph.Stage
	panel     *views.Panel
	hierarchy *views.HierarchyModel
	lights    *views.LightsModel
	sun       *views.SunModel
	materials *views.MaterialsModel
	help      *views.HelpModel

	active   Tab
	showHelp bool

	dirty bool
	// pendingSaves counts our own writes the watcher will report back
	pendingSaves  int
	pendingReload bool
	quitArmed     bool

	status    string
	statusErr bool

	width  int
	height int
}

// NewApp loads the stage and builds the panel
func NewApp(opts Options) (*App, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	stage, err := opts.Store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load stage: %w", err)
	}

	theme := styles.Default()
	a := &App{
		opts:  opts,
		theme: theme,
		help:  views.NewHelpModel(theme),
	}
	a.attach(stage, opts.Sun, opts.SunLight)
	return a, nil
}

// attach builds a fresh panel over stage, keeping the sun settings
func (a *App) attach(stage *scenegraph.Stage, sun *domain.SunpathConfig, sunLight string) {
	logger := a.opts.Logger
	cmds := scenegraph.NewCommands(stage)

	lights := application.NewLightManager(stage, cmds, logger)
	lights.SetLightsPath(a.opts.LightsRoot)
	if a.opts.Defaults != nil {
		recorded, err := a.opts.Defaults.LoadDefaults(context.Background())
		if err != nil {
			logger.Warn("failed to load recorded defaults", "error", err)
		}
		lights.ImportDefaults(recorded)
	}

	sc := application.NewSunController(stage, cmds, a.opts.Ephemeris, logger)
	if sun != nil {
		if err := sc.SetConfig(*sun); err != nil {
			logger.Warn("ignoring invalid sun settings", "error", err)
		}
	}
	if sunLight != "" {
		if err := sc.SelectLight(sunLight); err != nil {
			logger.Warn("sun light not available", "path", sunLight, "error", err)
		}
	}

	a.stage = stage
	a.panel = &views.Panel{
		Stage:     stage,
		Materials: application.NewMaterialManager(stage, cmds, a.opts.History, logger),
		Lights:    lights,
		Sun:       sc,
		Refresher: application.NewLightRefresher(sc.DistantLights),
		Defaults:  a.opts.Defaults,
		Theme:     a.theme,
		Copy:      a.opts.Copy,
		Logger:    logger,
	}
	a.hierarchy = views.NewHierarchyModel(a.panel)
	a.lights = views.NewLightsModel(a.panel)
	a.sun = views.NewSunModel(a.panel)
	a.materials = views.NewMaterialsModel(a.panel)
}

func (a *App) views() []tabView {
	return []tabView{a.hierarchy, a.lights, a.sun, a.materials}
}

func (a *App) current() tabView {
	return a.views()[a.active]
}

// Init initializes every tab and starts listening for file changes
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.initViews(), a.waitForChange())
}

func (a *App) initViews() tea.Cmd {
	var cmds []tea.Cmd
	for _, v := range a.views() {
		v.SetSize(a.width, a.contentHeight())
		cmds = append(cmds, v.Init())
	}
	return tea.Batch(cmds...)
}

func (a *App) waitForChange() tea.Cmd {
	if a.opts.Changes == nil {
		return nil
	}
	changes := a.opts.Changes
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return stageChangedMsg{}
	}
}

func (a *App) contentHeight() int {
	return max(0, a.height-4)
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		for _, v := range a.views() {
			v.SetSize(msg.Width, a.contentHeight())
		}
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	case stageChangedMsg:
		return a, tea.Batch(a.onStageChanged(), a.waitForChange())

	case views.StageEditedMsg:
		a.dirty = true
		a.quitArmed = false
		a.hierarchy.Rebuild(a.hierarchy.ExpandedPaths())
		return a, nil

	case editorFinishedMsg:
		if msg.err != nil {
			a.opts.Logger.Error("editor failed", "error", msg.err)
			a.setStatus(fmt.Sprintf("Editor failed: %v", msg.err), true)
			return a, nil
		}
		if !a.reload() {
			return a, nil
		}
		return a, a.initViews()

	case views.CloseHelpMsg:
		a.showHelp = false
		return a, nil

	case tea.KeyMsg:
		return a, a.handleKey(msg)
	}

	// background results go to every tab; each ignores what is not its own
	var cmds []tea.Cmd
	for _, v := range a.views() {
		_, cmd := v.Update(msg)
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, AppKeys.ForceQuit) {
		return tea.Quit
	}
	if a.showHelp {
		_, cmd := a.help.Update(msg)
		return cmd
	}
	if c, ok := a.current().(views.Capturer); ok && c.Capturing() {
		_, cmd := a.current().Update(msg)
		return cmd
	}

	if !key.Matches(msg, AppKeys.Quit) {
		a.quitArmed = false
	}

	switch {
	case key.Matches(msg, AppKeys.Quit):
		if a.dirty && !a.quitArmed {
			a.quitArmed = true
			a.setStatus("Unsaved changes, press q again to quit or ctrl+s to save", true)
			return nil
		}
		return tea.Quit

	case key.Matches(msg, AppKeys.Help):
		a.showHelp = true
		return nil

	case key.Matches(msg, AppKeys.Save):
		a.save()
		return nil

	case key.Matches(msg, AppKeys.Reload):
		if !a.reload() {
			return nil
		}
		return a.initViews()

	case key.Matches(msg, AppKeys.Edit):
		return a.openEditor()

	case key.Matches(msg, AppKeys.Tab1):
		a.active = TabHierarchy
		return nil
	case key.Matches(msg, AppKeys.Tab2):
		a.active = TabLights
		return nil
	case key.Matches(msg, AppKeys.Tab3):
		a.active = TabSun
		return nil
	case key.Matches(msg, AppKeys.Tab4):
		a.active = TabMaterials
		return nil
	case key.Matches(msg, AppKeys.Next):
		a.active = (a.active + 1) % Tab(len(tabNames))
		return nil
	case key.Matches(msg, AppKeys.Prev):
		a.active = (a.active + Tab(len(tabNames)) - 1) % Tab(len(tabNames))
		return nil
	}

	_, cmd := a.current().Update(msg)
	return cmd
}

func (a *App) openEditor() tea.Cmd {
	if a.opts.EditCommand == nil {
		return nil
	}
	if a.dirty {
		a.setStatus("Save or reload before editing the stage file", true)
		return nil
	}
	cmd, err := a.opts.EditCommand(a.opts.Store.Path())
	if err != nil {
		a.setStatus(err.Error(), true)
		return nil
	}
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{err: err}
	})
}

func (a *App) save() {
	if err := a.opts.Store.Save(a.stage); err != nil {
		a.opts.Logger.Error("failed to save stage", "path", a.opts.Store.Path(), "error", err)
		a.setStatus(fmt.Sprintf("Save failed: %v", err), true)
		return
	}
	if a.opts.Changes != nil {
		a.pendingSaves++
	}
	a.dirty = false
	a.pendingReload = false
	a.setStatus("Saved "+a.opts.Store.Path(), false)
}

func (a *App) onStageChanged() tea.Cmd {
	if a.pendingSaves > 0 {
		a.pendingSaves--
		return nil
	}
	if a.dirty {
		a.pendingReload = true
		a.setStatus("Stage changed on disk, ctrl+r reloads and drops unsaved edits", true)
		return nil
	}
	if !a.reload() {
		return nil
	}
	return a.initViews()
}

// reload re-reads the stage, keeping tree expansion and sun settings
func (a *App) reload() bool {
	stage, err := a.opts.Store.Load()
	if err != nil {
		a.opts.Logger.Error("failed to reload stage", "path", a.opts.Store.Path(), "error", err)
		a.setStatus(fmt.Sprintf("Reload failed: %v", err), true)
		return false
	}

	expanded := a.hierarchy.ExpandedPaths()
	sun := *a.panel.Sun.Config()
	sunLight := a.panel.Sun.SelectedLight()

	a.attach(stage, &sun, sunLight)
	a.hierarchy.Rebuild(expanded)

	a.dirty = false
	a.pendingReload = false
	a.opts.Logger.Info("stage reloaded", "path", a.opts.Store.Path())
	a.setStatus("Reloaded "+a.opts.Store.Path(), false)
	return true
}

func (a *App) setStatus(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
}

// View renders the current view
func (a *App) View() string {
	if a.showHelp {
		return a.help.View()
	}

	t := a.theme
	v := views.NewViewBuilder(t)
	v.Raw(views.RenderTabs(t, tabNames, int(a.active)))
	v.BlankLine()
	v.Raw(a.current().View())
	v.BlankLine()
	v.Line(a.statusLine())
	return t.App.Render(v.String())
}

func (a *App) statusLine() string {
	t := a.theme
	state := "saved"
	if a.dirty {
		state = "modified"
	}
	line := fmt.Sprintf("%s [%s]", a.opts.Store.Path(), state)
	if a.status != "" {
		style := t.MutedText
		if a.statusErr {
			style = t.ErrorMsg
		}
		line += "  " + style.Render(a.status)
	}
	return t.StatusBar.Render(line)
}
