package commands

import (
	"context"
	"fmt"

	"lightdeck/internal/application"
	"lightdeck/internal/domain"
)

// ScanResult contains the result of a material scan
type ScanResult struct {
	Unused  []domain.MaterialInfo
	Stats   domain.ScanStats
	Message string
}

// ScanMaterialsCommand finds materials no prim binds
type ScanMaterialsCommand struct {
	manager *application.MaterialManager
}

// NewScanMaterialsCommand creates a new ScanMaterialsCommand
func NewScanMaterialsCommand(manager *application.MaterialManager) *ScanMaterialsCommand {
	return &ScanMaterialsCommand{manager: manager}
}

// Execute runs the scan
func (c *ScanMaterialsCommand) Execute(ctx context.Context) (*ScanResult, error) {
	unused, err := c.manager.Scan(ctx)
	if err != nil {
		return nil, err
	}
	stats := c.manager.Stats()
	return &ScanResult{
		Unused:  unused,
		Stats:   stats,
		Message: fmt.Sprintf("Found %d unused material(s) out of %d", len(unused), stats.Materials),
	}, nil
}

// DeleteMaterialsCommand deletes unused materials, either the given paths or
// every deletable one
type DeleteMaterialsCommand struct {
	manager *application.MaterialManager
	Paths   []string
	All     bool
}

// NewDeleteMaterialsCommand creates a new DeleteMaterialsCommand
func NewDeleteMaterialsCommand(manager *application.MaterialManager, paths []string, all bool) *DeleteMaterialsCommand {
	return &DeleteMaterialsCommand{
		manager: manager,
		Paths:   paths,
		All:     all,
	}
}

// Validate checks if the delete operation is valid
func (c *DeleteMaterialsCommand) Validate() error {
	if c.All && len(c.Paths) > 0 {
		return &application.ValidationError{
			Field:   "primPath",
			Message: "give either material paths or --all, not both",
		}
	}
	if !c.All && len(c.Paths) == 0 {
		return &application.ValidationError{
			Field:   "primPath",
			Message: "at least one material path is required",
		}
	}
	for _, p := range c.Paths {
		if err := application.ValidatePrimPath("primPath", p); err != nil {
			return err
		}
	}
	return nil
}

// Execute rescans the stage and deletes the requested materials
func (c *DeleteMaterialsCommand) Execute(ctx context.Context) (*application.DeletionOutcome, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if _, err := c.manager.Scan(ctx); err != nil {
		return nil, err
	}

	if c.All {
		return c.manager.DeleteAll(ctx)
	}

	for _, p := range c.Paths {
		p = domain.CleanPath(p)
		c.manager.ToggleSelection(p, true)
		if !c.manager.IsSelected(p) {
			c.manager.ClearSelection()
			return nil, fmt.Errorf("%s is not an unused material: %w", p, application.ErrNotFound)
		}
	}
	return c.manager.DeleteSelected(ctx)
}

// UndoDeleteCommand restores the most recent deletion batch
type UndoDeleteCommand struct {
	manager *application.MaterialManager
}

// NewUndoDeleteCommand creates a new UndoDeleteCommand
func NewUndoDeleteCommand(manager *application.MaterialManager) *UndoDeleteCommand {
	return &UndoDeleteCommand{manager: manager}
}

// Execute runs the undo
func (c *UndoDeleteCommand) Execute(ctx context.Context) (*application.UndoOutcome, error) {
	return c.manager.UndoLast(ctx)
}

// HistoryResult lists the deletion ledger
type HistoryResult struct {
	Records []domain.DeletionRecord
	Message string
}

// HistoryCommand lists, or clears, the deletion ledger
type HistoryCommand struct {
	manager *application.MaterialManager
	Clear   bool
}

// NewHistoryCommand creates a new HistoryCommand
func NewHistoryCommand(manager *application.MaterialManager, clear bool) *HistoryCommand {
	return &HistoryCommand{manager: manager, Clear: clear}
}

// Execute runs the history command
func (c *HistoryCommand) Execute(ctx context.Context) (*HistoryResult, error) {
	if c.Clear {
		if err := c.manager.ClearHistory(ctx); err != nil {
			return nil, fmt.Errorf("failed to clear history: %w", err)
		}
		return &HistoryResult{Message: "Cleared deletion history"}, nil
	}

	records, err := c.manager.History(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return &HistoryResult{
		Records: records,
		Message: fmt.Sprintf("%d deletion batch(es) can be undone", len(records)),
	}, nil
}
