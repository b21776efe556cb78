package scenegraph

import (
	"fmt"

	"lightdeck/internal/domain"
	"lightdeck/internal/ports"
)

// RotateAttr holds the euler rotation written by TransformPrimSRT
const RotateAttr = "xformOp:rotateXYZ"

// Commands executes host commands against a Stage
type Commands struct {
	stage *Stage
}

// NewCommands creates a command executor for stage
func NewCommands(stage *Stage) *Commands {
	return &Commands{stage: stage}
}

var _ ports.CommandExecutor = (*Commands)(nil)

// DeletePrims removes every path or none: a missing path fails the whole batch
func (c *Commands) DeletePrims(paths []string) error {
	c.stage.mu.Lock()
	defer c.stage.mu.Unlock()

	for _, path := range paths {
		if n := c.stage.lookup(path); n == nil || n == c.stage.root {
			return fmt.Errorf("delete %s: %w", path, ErrNoPrim)
		}
	}
	for _, path := range paths {
		// an earlier path may have removed an ancestor
		if c.stage.lookup(path) == nil {
			continue
		}
		if err := c.stage.removeLocked(path); err != nil {
			return err
		}
	}
	return nil
}

// TransformPrimSRT writes the rotation to xformOp:rotateXYZ
func (c *Commands) TransformPrimSRT(path string, rotateXYZ domain.Vec3) error {
	prim, ok := c.stage.Prim(path)
	if !ok {
		return fmt.Errorf("transform %s: %w", path, ErrNoPrim)
	}
	return prim.SetAttribute(RotateAttr, domain.ValueDouble3, rotateXYZ)
}

// ChangeProperty sets a property, creating it with an inferred type when the
// prim does not author it yet
func (c *Commands) ChangeProperty(path, property string, value any) error {
	prim, ok := c.stage.Prim(path)
	if !ok {
		return fmt.Errorf("change %s.%s: %w", path, property, ErrNoPrim)
	}
	if attr, ok := prim.Attribute(property); ok {
		return attr.Set(value)
	}
	vt, err := domain.InferValueType(value)
	if err != nil {
		return fmt.Errorf("change %s.%s: %w", path, property, err)
	}
	return prim.SetAttribute(property, vt, value)
}
