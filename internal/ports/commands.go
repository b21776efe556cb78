package ports

import "lightdeck/internal/domain"

// CommandExecutor is the host's command surface. Commands go through the
// host's own undo stack, separate from the material deletion ledger.
type CommandExecutor interface {
	// DeletePrims removes all paths as a single batch
	DeletePrims(paths []string) error

	// TransformPrimSRT sets the rotation (euler XYZ, degrees) of a prim
	TransformPrimSRT(path string, rotateXYZ domain.Vec3) error

	// ChangeProperty sets an existing property, e.g. "visibility"
	ChangeProperty(path, property string, value any) error
}
