package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"lightdeck/internal/application"
	"lightdeck/internal/domain"
)

// HierarchyKeyMap defines key bindings for the hierarchy view
type HierarchyKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Enter   key.Binding
	Copy    key.Binding
	Refresh key.Binding
}

var HierarchyKeys = HierarchyKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "collapse"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "expand"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "toggle"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy path"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
}

// HierarchyModel browses the stage as an expandable tree
type HierarchyModel struct {
	ViewState
	panel     *Panel
	root      *domain.TreeNode
	flatNodes []*domain.TreeNode
	cursor    int
}

// NewHierarchyModel creates a new hierarchy model
func NewHierarchyModel(panel *Panel) *HierarchyModel {
	return &HierarchyModel{panel: panel}
}

// Init builds the tree
func (m *HierarchyModel) Init() tea.Cmd {
	m.Rebuild(nil)
	return nil
}

// Rebuild reloads the tree from the stage, re-expanding the given paths
func (m *HierarchyModel) Rebuild(expanded []string) {
	root, err := application.BuildTree(m.panel.Stage)
	if err != nil {
		m.panel.Logger.Error("failed to build tree", "error", err)
		m.SetMessage(err.Error(), true)
		return
	}
	application.RestoreExpanded(root, expanded)

	var keep string
	if node := m.SelectedNode(); node != nil {
		keep = node.Path
	}
	m.root = root
	m.refreshFlatNodes()
	if keep != "" {
		m.selectPath(keep)
	}
}

// ExpandedPaths returns the expanded nodes so a reload can restore them
func (m *HierarchyModel) ExpandedPaths() []string {
	if m.root == nil {
		return nil
	}
	return m.root.ExpandedPaths()
}

// Update handles messages for the hierarchy
func (m *HierarchyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.ClearMessage()

	switch {
	case key.Matches(keyMsg, HierarchyKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(keyMsg, HierarchyKeys.Down):
		if m.cursor < len(m.flatNodes)-1 {
			m.cursor++
		}

	case key.Matches(keyMsg, HierarchyKeys.Left):
		node := m.SelectedNode()
		if node == nil {
			break
		}
		if node.IsExpanded && !node.IsLeaf() {
			node.Collapse()
			m.refreshFlatNodes()
		} else if node.Parent != nil && node.Parent != m.root {
			m.selectPath(node.Parent.Path)
		}

	case key.Matches(keyMsg, HierarchyKeys.Right):
		if node := m.SelectedNode(); node != nil && !node.IsLeaf() {
			node.Expand()
			m.refreshFlatNodes()
		}

	case key.Matches(keyMsg, HierarchyKeys.Enter):
		if node := m.SelectedNode(); node != nil && !node.IsLeaf() {
			node.Toggle()
			m.refreshFlatNodes()
		}

	case key.Matches(keyMsg, HierarchyKeys.Copy):
		if node := m.SelectedNode(); node != nil {
			if err := m.panel.copyText(node.Path); err != nil {
				m.SetMessage(fmt.Sprintf("Copy failed: %v", err), true)
			} else {
				m.SetMessage("Copied "+node.Path, false)
			}
		}

	case key.Matches(keyMsg, HierarchyKeys.Refresh):
		m.Rebuild(m.ExpandedPaths())
		m.SetMessage("Refreshed", false)
	}

	return m, nil
}

// SelectedNode returns the node under the cursor
func (m *HierarchyModel) SelectedNode() *domain.TreeNode {
	if m.cursor >= 0 && m.cursor < len(m.flatNodes) {
		return m.flatNodes[m.cursor]
	}
	return nil
}

func (m *HierarchyModel) selectPath(path string) {
	for i, n := range m.flatNodes {
		if n.Path == path {
			m.cursor = i
			return
		}
	}
}

func (m *HierarchyModel) refreshFlatNodes() {
	if m.root == nil {
		return
	}
	m.flatNodes = m.root.Flatten()
	// Skip the pseudo-root
	if len(m.flatNodes) > 0 {
		m.flatNodes = m.flatNodes[1:]
	}
	if m.cursor >= len(m.flatNodes) {
		m.cursor = len(m.flatNodes) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// visibleWindow returns the slice of flat nodes that fits the height
func (m *HierarchyModel) visibleWindow() (start, end int) {
	rows := m.Height - 10
	if rows <= 0 || rows >= len(m.flatNodes) {
		return 0, len(m.flatNodes)
	}
	start = max(0, m.cursor-rows/2)
	end = min(len(m.flatNodes), start+rows)
	start = max(0, end-rows)
	return start, end
}

// View renders the hierarchy
func (m *HierarchyModel) View() string {
	t := m.panel.Theme
	v := NewViewBuilder(t)

	if len(m.flatNodes) == 0 {
		v.Muted("The stage is empty.")
	}
	start, end := m.visibleWindow()
	for i := start; i < end; i++ {
		v.Line(m.renderNode(m.flatNodes[i], i == m.cursor))
	}

	v.Message(m.Message, m.MessageErr)
	v.Help(HierarchyKeys.Up, HierarchyKeys.Down, HierarchyKeys.Left, HierarchyKeys.Right, HierarchyKeys.Copy, HierarchyKeys.Refresh)
	return v.String()
}

func (m *HierarchyModel) renderNode(node *domain.TreeNode, selected bool) string {
	t := m.panel.Theme
	indent := strings.Repeat("  ", node.Depth()-1)

	var prefix string
	switch {
	case node.IsLeaf():
		prefix = t.TreeLeaf
	case node.IsExpanded:
		prefix = t.TreeExpanded
	default:
		prefix = t.TreeCollapsed
	}

	text := node.Name
	if node.Type != domain.TypeNone {
		text = fmt.Sprintf("%s  %s", node.Name, node.Type)
	}

	styled := t.NodeStyle(node.Type).Render(text)
	if selected {
		styled = t.NodeSelected.Render(text)
	}
	return indent + t.TreeBranch.Render(prefix) + styled
}
