package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"lightdeck/internal/domain"
	"lightdeck/internal/ports"
)

// EmptyStateError reports an action that had nothing to act on.
// It is informational: callers show the reason as a status message.
type EmptyStateError struct {
	Reason string
}

func (e *EmptyStateError) Error() string {
	return e.Reason
}

func (e *EmptyStateError) Is(target error) bool {
	return target == ErrEmptyState
}

func emptyState(format string, args ...any) error {
	return &EmptyStateError{Reason: fmt.Sprintf(format, args...)}
}

// DeletionOutcome describes one delete call
type DeletionOutcome struct {
	Deleted          int
	Names            []string
	Failed           []string
	SkippedAncestral int
	Record           domain.DeletionRecord
	Message          string
}

// UndoOutcome describes one undo call
type UndoOutcome struct {
	Restored int
	Failed   []string
	Record   domain.DeletionRecord
	Message  string
}

// MaterialManager finds material prims nothing refers to and deletes them
// through the host, keeping an undo ledger of every batch.
type MaterialManager struct {
	stage    ports.Stage
	commands ports.CommandExecutor
	history  ports.HistoryStore
	logger   *slog.Logger
	now      func() time.Time

	unused   []domain.MaterialInfo
	selected map[string]struct{}
	stats    domain.ScanStats
}

// NewMaterialManager creates a manager over a stage and its command surface
func NewMaterialManager(stage ports.Stage, commands ports.CommandExecutor, history ports.HistoryStore, logger *slog.Logger) *MaterialManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &MaterialManager{
		stage:    stage,
		commands: commands,
		history:  history,
		logger:   logger,
		now:      time.Now,
		selected: make(map[string]struct{}),
	}
}

// SetClock replaces the clock used to timestamp deletion records
func (m *MaterialManager) SetClock(now func() time.Time) {
	m.now = now
}

// Scan recomputes the unused material set and clears the selection.
func (m *MaterialManager) Scan(ctx context.Context) ([]domain.MaterialInfo, error) {
	start := time.Now()

	prims, err := m.stage.Traverse()
	if err != nil {
		return nil, fmt.Errorf("failed to traverse stage: %w", err)
	}

	stats := domain.ScanStats{}

	// Pass 1: every material, in traversal order
	var all []domain.MaterialInfo
	for _, prim := range prims {
		if !prim.IsValid() || !domain.IsMaterial(prim.TypeTag()) {
			continue
		}
		all = append(all, domain.NewMaterialInfo(prim.Path(), prim.TypeTag(), m.isAncestral(prim)))
	}
	stats.Materials = len(all)

	// Pass 2: usage edges from every non-material prim
	used := make(map[string]struct{})
	for _, prim := range prims {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !prim.IsValid() || domain.IsMaterial(prim.TypeTag()) {
			continue
		}
		targets, err := m.usageTargets(prim)
		if err != nil {
			stats.SkippedPrims++
			m.logger.Warn("skipping prim during material scan", "path", prim.Path(), "error", err)
			continue
		}
		for _, target := range targets {
			used[target] = struct{}{}
		}
	}
	stats.UsedPaths = len(used)

	unused := make([]domain.MaterialInfo, 0, len(all))
	for _, mat := range all {
		if _, ok := used[mat.Path]; !ok {
			unused = append(unused, mat)
		}
	}

	m.unused = unused
	clear(m.selected)

	stats.Unused = len(unused)
	stats.Deletable, stats.Ancestral = domain.CountDeletable(unused)
	stats.Duration = time.Since(start)
	m.stats = stats

	m.logger.Info("material scan complete",
		"materials", stats.Materials,
		"used", stats.UsedPaths,
		"unused", stats.Unused,
		"deletable", stats.Deletable,
		"ancestral", stats.Ancestral,
		"skipped", stats.SkippedPrims,
		"duration", stats.Duration)

	return m.Unused(), nil
}

func (m *MaterialManager) isAncestral(prim ports.Prim) bool {
	if prim.IsInPrototype() || prim.IsInstance() {
		return true
	}
	if prim.HasAuthoredReferences() && !m.stage.RootLayerWritable() {
		return true
	}
	return domain.HasReservedPrefix(prim.Path())
}

// usageTargets collects the material paths a prim depends on. On error the
// prim contributes nothing.
func (m *MaterialManager) usageTargets(prim ports.Prim) ([]string, error) {
	var targets []string

	// Direct and collection bindings
	if domain.IsImageable(prim.TypeTag()) {
		for _, rel := range prim.Relationships() {
			name := rel.Name()
			if name != domain.DirectBindingRel && !domain.IsCollectionBinding(name) {
				continue
			}
			paths, err := rel.Targets()
			if err != nil {
				return nil, fmt.Errorf("relationship %s: %w", name, err)
			}
			for _, p := range paths {
				if domain.IsCollectionPath(p) {
					continue
				}
				targets = append(targets, p)
			}
		}
	}

	// Well-known binding attributes
	for _, name := range domain.BindingAttributeNames {
		attr, ok := prim.Attribute(name)
		if !ok {
			continue
		}
		conns, err := attr.Connections()
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", name, err)
		}
		if len(conns) > 0 {
			for _, c := range conns {
				targets = append(targets, domain.PrimPathOf(c))
			}
			continue
		}
		value, authored, err := attr.Get()
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", name, err)
		}
		if s, ok := value.(string); authored && ok && s != "" {
			targets = append(targets, s)
		}
	}

	// Any relationship that lands on a material
	for _, rel := range prim.Relationships() {
		paths, err := rel.Targets()
		if err != nil {
			return nil, fmt.Errorf("relationship %s: %w", rel.Name(), err)
		}
		for _, p := range paths {
			target, ok := m.stage.PrimAtPath(p)
			if ok && target.IsValid() && domain.IsMaterial(target.TypeTag()) {
				targets = append(targets, p)
			}
		}
	}

	return targets, nil
}

// Unused returns a copy of the unused set from the last scan
func (m *MaterialManager) Unused() []domain.MaterialInfo {
	out := make([]domain.MaterialInfo, len(m.unused))
	copy(out, m.unused)
	return out
}

// Stats returns the statistics of the last scan
func (m *MaterialManager) Stats() domain.ScanStats {
	return m.stats
}

// ToggleSelection marks or unmarks an unused material for deletion.
// Paths outside the unused set are ignored.
func (m *MaterialManager) ToggleSelection(path string, selected bool) {
	if !selected {
		delete(m.selected, path)
		return
	}
	for _, mat := range m.unused {
		if mat.Path == path {
			m.selected[path] = struct{}{}
			return
		}
	}
}

// IsSelected reports whether path is selected
func (m *MaterialManager) IsSelected(path string) bool {
	_, ok := m.selected[path]
	return ok
}

// SelectAll selects every deletable material
func (m *MaterialManager) SelectAll() {
	clear(m.selected)
	for _, mat := range m.unused {
		if !mat.IsAncestral {
			m.selected[mat.Path] = struct{}{}
		}
	}
}

// ClearSelection empties the selection
func (m *MaterialManager) ClearSelection() {
	clear(m.selected)
}

func (m *MaterialManager) SelectionCount() int { return len(m.selected) }
func (m *MaterialManager) UnusedCount() int    { return len(m.unused) }

func (m *MaterialManager) DeletableCount() int {
	deletable, _ := domain.CountDeletable(m.unused)
	return deletable
}

// DeleteSelected deletes the selected, non-ancestral materials.
func (m *MaterialManager) DeleteSelected(ctx context.Context) (*DeletionOutcome, error) {
	if len(m.selected) == 0 {
		return nil, emptyState("no materials selected")
	}

	var toDelete []domain.MaterialInfo
	ancestral := 0
	for _, mat := range m.unused {
		if _, ok := m.selected[mat.Path]; !ok {
			continue
		}
		if mat.IsAncestral {
			ancestral++
			continue
		}
		toDelete = append(toDelete, mat)
	}

	if len(toDelete) == 0 {
		if ancestral > 0 {
			return nil, emptyState("cannot delete ancestral materials, select deletable ones")
		}
		return nil, emptyState("no deletable materials selected")
	}

	return m.deleteBatch(ctx, toDelete, ancestral)
}

// DeleteAll deletes every non-ancestral material of the unused set.
func (m *MaterialManager) DeleteAll(ctx context.Context) (*DeletionOutcome, error) {
	if len(m.unused) == 0 {
		return nil, emptyState("no unused materials")
	}

	var toDelete []domain.MaterialInfo
	ancestral := 0
	for _, mat := range m.unused {
		if mat.IsAncestral {
			ancestral++
			continue
		}
		toDelete = append(toDelete, mat)
	}

	if len(toDelete) == 0 {
		return nil, emptyState("no deletable materials, %d ancestral materials cannot be deleted", ancestral)
	}

	return m.deleteBatch(ctx, toDelete, ancestral)
}

// deleteBatch records the batch on the ledger, then deletes it through the
// host. A failed batch is retried path by path; paths that still fail stay
// in the unused set.
func (m *MaterialManager) deleteBatch(ctx context.Context, materials []domain.MaterialInfo, ancestral int) (*DeletionOutcome, error) {
	rec, err := m.history.Push(ctx, domain.NewDeletionRecord(materials, m.now()))
	if err != nil {
		return nil, fmt.Errorf("failed to record deletion: %w", err)
	}

	var failed []string
	if err := m.commands.DeletePrims(rec.Paths); err != nil {
		m.logger.Warn("batch delete failed, retrying per path", "count", len(rec.Paths), "error", err)
		for _, path := range rec.Paths {
			if err := m.commands.DeletePrims([]string{path}); err != nil {
				hostErr := &HostError{Op: "delete", Path: path, Err: err}
				m.logger.Error("material delete failed", "path", path, "error", hostErr)
				failed = append(failed, path)
			}
		}
	}

	failedSet := make(map[string]struct{}, len(failed))
	for _, p := range failed {
		failedSet[p] = struct{}{}
	}
	deleted := make(map[string]struct{}, len(rec.Paths))
	for _, p := range rec.Paths {
		if _, ok := failedSet[p]; !ok {
			deleted[p] = struct{}{}
		}
	}

	remaining := make([]domain.MaterialInfo, 0, len(m.unused))
	for _, mat := range m.unused {
		if _, ok := deleted[mat.Path]; !ok {
			remaining = append(remaining, mat)
		}
	}
	m.unused = remaining
	clear(m.selected)

	out := &DeletionOutcome{
		Deleted:          len(rec.Paths) - len(failed),
		Names:            rec.Names,
		Failed:           failed,
		SkippedAncestral: ancestral,
		Record:           rec,
	}
	out.Message = deletionMessage(out)

	m.logger.Info("materials deleted",
		"deleted", out.Deleted,
		"failed", len(failed),
		"ancestral_skipped", ancestral,
		"record", rec.ID)

	return out, nil
}

func deletionMessage(out *DeletionOutcome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Deleted %d material(s)", out.Deleted)
	if len(out.Failed) > 0 {
		fmt.Fprintf(&b, ", %d failed", len(out.Failed))
	}
	if out.SkippedAncestral > 0 {
		fmt.Fprintf(&b, ", skipped %d ancestral", out.SkippedAncestral)
	}
	return b.String()
}

// UndoLast pops the newest deletion record, defines a placeholder prim at
// each recorded path and rescans. Attribute values are not restored.
func (m *MaterialManager) UndoLast(ctx context.Context) (*UndoOutcome, error) {
	rec, err := m.history.Pop(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read deletion history: %w", err)
	}
	if rec == nil {
		return nil, ErrEmptyHistory
	}

	out := &UndoOutcome{Record: *rec}
	for _, mat := range rec.Snapshots {
		prim, err := m.stage.DefinePrim(mat.Path, mat.Type)
		if err != nil || !prim.IsValid() {
			m.logger.Error("failed to restore material", "path", mat.Path, "error", err)
			out.Failed = append(out.Failed, mat.Path)
			continue
		}
		out.Restored++
	}

	if _, err := m.Scan(ctx); err != nil {
		return nil, fmt.Errorf("undo restored %d material(s) but rescan failed: %w", out.Restored, err)
	}

	out.Message = fmt.Sprintf("Undid last delete, restored %d material(s)", out.Restored)
	m.logger.Info("material deletion undone", "restored", out.Restored, "failed", len(out.Failed))
	return out, nil
}

// HistoryDepth returns the number of undoable deletion batches
func (m *MaterialManager) HistoryDepth(ctx context.Context) (int, error) {
	return m.history.Len(ctx)
}

// History returns the ledger, newest first
func (m *MaterialManager) History(ctx context.Context) ([]domain.DeletionRecord, error) {
	return m.history.List(ctx)
}

// ClearHistory drops every deletion record
func (m *MaterialManager) ClearHistory(ctx context.Context) error {
	return m.history.Clear(ctx)
}

// IsEmptyState reports whether err only means there was nothing to do
func IsEmptyState(err error) bool {
	return errors.Is(err, ErrEmptyState) || errors.Is(err, ErrEmptyHistory)
}
