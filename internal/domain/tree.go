package domain

import (
	"slices"
	"strings"
)

// TreeNode is a prim in the hierarchy browser
type TreeNode struct {
	Path       string
	Name       string
	Type       TypeTag
	Children   []*TreeNode
	IsExpanded bool
	Parent     *TreeNode
}

// Flatten returns all visible nodes in the tree (for list rendering)
func (n *TreeNode) Flatten() []*TreeNode {
	var result []*TreeNode
	n.flattenRecursive(&result)
	return result
}

func (n *TreeNode) flattenRecursive(result *[]*TreeNode) {
	*result = append(*result, n)
	if n.IsExpanded {
		for _, child := range n.Children {
			child.flattenRecursive(result)
		}
	}
}

// Depth returns the depth of this node in the tree
func (n *TreeNode) Depth() int {
	depth := 0
	current := n.Parent
	for current != nil {
		depth++
		current = current.Parent
	}
	return depth
}

// IsLeaf reports whether the node has no children to expand
func (n *TreeNode) IsLeaf() bool {
	return len(n.Children) == 0
}

// Toggle expands or collapses the node
func (n *TreeNode) Toggle() {
	n.IsExpanded = !n.IsExpanded
}

// Expand sets the node as expanded
func (n *TreeNode) Expand() {
	n.IsExpanded = true
}

// Collapse sets the node as collapsed
func (n *TreeNode) Collapse() {
	n.IsExpanded = false
}

// Find returns the node with the given path in this subtree, or nil.
func (n *TreeNode) Find(path string) *TreeNode {
	if n.Path == path {
		return n
	}
	for _, child := range n.Children {
		if !strings.HasPrefix(path, strings.TrimRight(child.Path, "/")) {
			continue
		}
		if found := child.Find(path); found != nil {
			return found
		}
	}
	return nil
}

// ExpandedPaths returns the paths of every expanded node, so a reload can
// restore the browser state.
func (n *TreeNode) ExpandedPaths() []string {
	var paths []string
	var walk func(*TreeNode)
	walk = func(node *TreeNode) {
		if node.IsExpanded {
			paths = append(paths, node.Path)
		}
		for _, child := range node.Children {
			walk(child)
		}
	}
	walk(n)
	return paths
}

// SortPaths sorts prim paths in ascending order
func SortPaths(paths []string) {
	slices.SortFunc(paths, strings.Compare)
}
