package views

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"lightdeck/internal/application"
	"lightdeck/internal/domain"
)

// MaterialsKeyMap defines key bindings for the materials view
type MaterialsKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	PrevPage  key.Binding
	NextPage  key.Binding
	Scan      key.Binding
	Toggle    key.Binding
	SelectAll key.Binding
	Clear     key.Binding
	Delete    key.Binding
	DeleteAll key.Binding
	Undo      key.Binding
	Copy      key.Binding
}

var MaterialsKeys = MaterialsKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "previous page"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("pgdown", "next page"),
	),
	Scan: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "scan"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "select"),
	),
	SelectAll: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "select all"),
	),
	Clear: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "clear"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete selected"),
	),
	DeleteAll: key.NewBinding(
		key.WithKeys("D"),
		key.WithHelp("D", "delete all"),
	),
	Undo: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "undo"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy path"),
	),
}

// MaterialsModel lists unused materials and deletes them
type MaterialsModel struct {
	ViewState
	panel   *Panel
	window  scanWindow
	confirm Confirmation
	scanned bool
	depth   int
}

// NewMaterialsModel creates a new materials model
func NewMaterialsModel(panel *Panel) *MaterialsModel {
	return &MaterialsModel{
		panel:   panel,
		window:  scanWindow{size: 15},
		confirm: NewConfirmation(),
	}
}

// Init runs the first scan
func (m *MaterialsModel) Init() tea.Cmd {
	m.scan()
	return nil
}

// SetSize updates the dimensions and the page size
func (m *MaterialsModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.window.resize(height - 14)
}

// Capturing reports whether the confirmation prompt owns the keyboard
func (m *MaterialsModel) Capturing() bool {
	return m.confirm.Active()
}

func (m *MaterialsModel) scan() {
	ctx := context.Background()
	unused, err := m.panel.Materials.Scan(ctx)
	if err != nil {
		m.panel.Logger.Error("material scan failed", "error", err)
		m.SetMessage(err.Error(), true)
		return
	}
	m.scanned = true
	m.window.fit(len(unused))
	m.refreshDepth()

	stats := m.panel.Materials.Stats()
	m.SetMessage(fmt.Sprintf("Found %d unused material(s) out of %d, %d ancestral",
		len(unused), stats.Materials, stats.Ancestral), false)
}

func (m *MaterialsModel) refreshDepth() {
	depth, err := m.panel.Materials.HistoryDepth(context.Background())
	if err != nil {
		m.panel.Logger.Warn("failed to read deletion history", "error", err)
		return
	}
	m.depth = depth
}

func (m *MaterialsModel) current() (domain.MaterialInfo, bool) {
	unused := m.panel.Materials.Unused()
	i := m.window.cursor
	if i < 0 || i >= len(unused) {
		return domain.MaterialInfo{}, false
	}
	return unused[i], true
}

// Update handles messages for the materials view
func (m *MaterialsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.confirm.Active() {
		if key.Matches(keyMsg, m.confirm.Keys.Cancel) {
			m.SetMessage("Cancelled", false)
		}
		_, cmd := m.confirm.HandleKeyMsg(keyMsg)
		return m, cmd
	}

	mm := m.panel.Materials
	switch {
	case key.Matches(keyMsg, MaterialsKeys.Up):
		m.window.move(-1)

	case key.Matches(keyMsg, MaterialsKeys.Down):
		m.window.move(1)

	case key.Matches(keyMsg, MaterialsKeys.PrevPage):
		m.window.page(-1)

	case key.Matches(keyMsg, MaterialsKeys.NextPage):
		m.window.page(1)

	case key.Matches(keyMsg, MaterialsKeys.Scan):
		m.scan()

	case key.Matches(keyMsg, MaterialsKeys.Toggle):
		mat, ok := m.current()
		if !ok {
			break
		}
		if mat.IsAncestral {
			m.SetMessage("Ancestral materials cannot be deleted", false)
			break
		}
		mm.ToggleSelection(mat.Path, !mm.IsSelected(mat.Path))
		m.window.move(1)

	case key.Matches(keyMsg, MaterialsKeys.SelectAll):
		mm.SelectAll()
		m.SetMessage(fmt.Sprintf("Selected %d material(s)", mm.SelectionCount()), false)

	case key.Matches(keyMsg, MaterialsKeys.Clear):
		mm.ClearSelection()
		m.ClearMessage()

	case key.Matches(keyMsg, MaterialsKeys.Delete):
		if mm.SelectionCount() == 0 {
			m.SetMessage("No materials selected", false)
			break
		}
		m.confirm.Ask(fmt.Sprintf("Delete %d selected material(s)?", mm.SelectionCount()), func() tea.Cmd {
			out, err := mm.DeleteSelected(context.Background())
			return m.afterDelete(out, err)
		})

	case key.Matches(keyMsg, MaterialsKeys.DeleteAll):
		if mm.DeletableCount() == 0 {
			m.SetMessage("No deletable materials", false)
			break
		}
		m.confirm.Ask(fmt.Sprintf("Delete all %d deletable material(s)?", mm.DeletableCount()), func() tea.Cmd {
			out, err := mm.DeleteAll(context.Background())
			return m.afterDelete(out, err)
		})

	case key.Matches(keyMsg, MaterialsKeys.Undo):
		out, err := mm.UndoLast(context.Background())
		if err != nil {
			m.SetResult("", err)
			break
		}
		m.window.fit(mm.UnusedCount())
		m.refreshDepth()
		m.SetMessage(out.Message, len(out.Failed) > 0)
		return m, edited

	case key.Matches(keyMsg, MaterialsKeys.Copy):
		if mat, ok := m.current(); ok {
			if err := m.panel.copyText(mat.Path); err != nil {
				m.SetMessage(fmt.Sprintf("Copy failed: %v", err), true)
			} else {
				m.SetMessage("Copied "+mat.Path, false)
			}
		}
	}

	return m, nil
}

func (m *MaterialsModel) afterDelete(out *application.DeletionOutcome, err error) tea.Cmd {
	if err != nil {
		if !application.IsEmptyState(err) {
			m.panel.Logger.Error("material delete failed", "error", err)
		}
		m.SetResult("", err)
		return nil
	}
	m.window.fit(m.panel.Materials.UnusedCount())
	m.refreshDepth()
	m.SetMessage(out.Message, len(out.Failed) > 0)
	return edited
}

// View renders the materials view
func (m *MaterialsModel) View() string {
	t := m.panel.Theme
	mm := m.panel.Materials
	v := NewViewBuilder(t)

	if !m.scanned {
		v.Muted("Press s to scan for unused materials.")
	} else if mm.UnusedCount() == 0 {
		v.Muted("No unused materials.")
	}

	unused := mm.Unused()
	start, end := m.window.visible()
	for i := start; i < end && i < len(unused); i++ {
		v.Line(m.renderMaterial(unused[i], i == m.window.cursor))
	}
	if page, pages := m.window.pages(); pages > 1 {
		v.Muted(fmt.Sprintf("page %d/%d", page, pages))
	}

	v.BlankLine()
	v.Line(RenderLabelValue(t, "Selected", fmt.Sprintf("%d of %d deletable", mm.SelectionCount(), mm.DeletableCount())))
	v.Line(RenderLabelValue(t, "Undo", fmt.Sprintf("%d batch(es)", m.depth)))

	if m.confirm.Active() {
		v.BlankLine().Line(m.confirm.View(t))
	} else {
		v.Message(m.Message, m.MessageErr)
	}
	v.Help(MaterialsKeys.Scan, MaterialsKeys.Toggle, MaterialsKeys.SelectAll, MaterialsKeys.Delete, MaterialsKeys.DeleteAll, MaterialsKeys.Undo, MaterialsKeys.Copy)
	return v.String()
}

func (m *MaterialsModel) renderMaterial(mat domain.MaterialInfo, cursor bool) string {
	t := m.panel.Theme
	box := t.Unchecked
	if m.panel.Materials.IsSelected(mat.Path) {
		box = t.Checked
	}

	text := mat.Path
	style := t.NodeMaterial
	if mat.IsAncestral {
		text += "  (ancestral)"
		style = t.Ancestral
	}
	if cursor {
		style = t.NodeSelected
	}
	return t.TreeBranch.Render(box) + style.Render(text)
}

// scanWindow tracks the cursor and the visible slice of the last scan's
// results. The result count changes after every scan, delete and undo.
type scanWindow struct {
	rows   int
	top    int
	cursor int
	size   int
}

func (w *scanWindow) resize(size int) {
	if size > 0 {
		w.size = size
		w.follow()
	}
}

// fit clamps the cursor to a new result count
func (w *scanWindow) fit(rows int) {
	w.rows = rows
	w.cursor = max(0, min(w.cursor, rows-1))
	w.follow()
}

func (w *scanWindow) move(delta int) {
	w.cursor = max(0, min(w.cursor+delta, w.rows-1))
	w.follow()
}

// page jumps a whole window and puts the cursor on its first row
func (w *scanWindow) page(delta int) {
	top := w.top + delta*w.size
	if top < 0 || top >= w.rows {
		return
	}
	w.top, w.cursor = top, top
}

func (w *scanWindow) visible() (start, end int) {
	return w.top, min(w.top+w.size, w.rows)
}

// pages returns the 1-based current page and the page count
func (w *scanWindow) pages() (page, pages int) {
	return w.top/w.size + 1, max(1, (w.rows+w.size-1)/w.size)
}

func (w *scanWindow) follow() {
	if w.cursor < w.top || w.cursor >= w.top+w.size {
		w.top = w.cursor / w.size * w.size
	}
}
