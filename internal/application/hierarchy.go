package application

import (
	"fmt"

	"lightdeck/internal/domain"
	"lightdeck/internal/ports"
)

// BuildTree builds the browser tree of a stage under a pseudo-root "/".
// Only the root starts expanded.
func BuildTree(stage ports.Stage) (*domain.TreeNode, error) {
	prims, err := stage.Traverse()
	if err != nil {
		return nil, fmt.Errorf("failed to traverse stage: %w", err)
	}

	root := &domain.TreeNode{Path: "/", Name: "/", IsExpanded: true}
	nodes := map[string]*domain.TreeNode{"/": root}

	for _, prim := range prims {
		if !prim.IsValid() {
			continue
		}
		parent, ok := nodes[domain.PathParent(prim.Path())]
		if !ok {
			// Traverse is depth-first, so a missing parent was invalid
			continue
		}
		node := &domain.TreeNode{
			Path:   prim.Path(),
			Name:   prim.Name(),
			Type:   prim.TypeTag(),
			Parent: parent,
		}
		parent.Children = append(parent.Children, node)
		nodes[node.Path] = node
	}

	return root, nil
}

// RestoreExpanded re-expands the given paths after a rebuild
func RestoreExpanded(root *domain.TreeNode, paths []string) {
	for _, path := range paths {
		if node := root.Find(path); node != nil {
			node.Expand()
		}
	}
}
