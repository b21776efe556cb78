package commands

import (
	"context"
	"fmt"

	"lightdeck/internal/application"
	"lightdeck/internal/domain"
	"lightdeck/internal/ports"
)

// TreeCommand builds the stage hierarchy
type TreeCommand struct {
	stage ports.Stage
	// Root limits the tree to one subtree; empty means the whole stage
	Root string
}

// NewTreeCommand creates a new TreeCommand
func NewTreeCommand(stage ports.Stage, root string) *TreeCommand {
	return &TreeCommand{stage: stage, Root: root}
}

// Execute runs the tree command
func (c *TreeCommand) Execute(ctx context.Context) (*domain.TreeNode, error) {
	tree, err := application.BuildTree(c.stage)
	if err != nil {
		return nil, err
	}
	if c.Root == "" || c.Root == "/" {
		return tree, nil
	}
	if err := application.ValidatePrimPath("primPath", c.Root); err != nil {
		return nil, err
	}
	node := tree.Find(domain.CleanPath(c.Root))
	if node == nil {
		return nil, fmt.Errorf("prim %s: %w", c.Root, application.ErrNotFound)
	}
	return node, nil
}
