package application

import (
	"fmt"
	"log/slog"
	"maps"
	"strings"

	"lightdeck/internal/domain"
	"lightdeck/internal/ports"
)

// DefaultLightsPath is used when the stage has no recognisable lights root
const DefaultLightsPath = "/World/lights"

// LightState is every editable property of one light
type LightState struct {
	Path                   string
	Name                   string
	Type                   domain.TypeTag
	Enabled                bool
	Color                  domain.Vec3
	Intensity              float64
	Exposure               float64
	Specular               float64
	EnableColorTemperature bool
	ColorTemperature       float64
}

// LightManager edits light prims organised as
// lights root -> rooms -> lighting groups -> lights.
type LightManager struct {
	stage    ports.Stage
	commands ports.CommandExecutor
	logger   *slog.Logger

	root     string
	selected []string
	defaults map[string]domain.LightDefaults
}

// NewLightManager creates a light manager over a stage
func NewLightManager(stage ports.Stage, commands ports.CommandExecutor, logger *slog.Logger) *LightManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &LightManager{
		stage:    stage,
		commands: commands,
		logger:   logger,
		defaults: make(map[string]domain.LightDefaults),
	}
}

// SetLightsPath pins the lights root; an empty path restores detection
func (lm *LightManager) SetLightsPath(path string) {
	lm.root = path
}

// FindLightsPath returns the pinned root, or guesses one: the first Xform whose
// name mentions "light", else the first Xform with a direct light child, else
// /World/lights.
func (lm *LightManager) FindLightsPath() string {
	if lm.root != "" {
		return lm.root
	}
	prims, err := lm.stage.Traverse()
	if err != nil {
		lm.logger.Warn("failed to traverse stage", "error", err)
		return DefaultLightsPath
	}

	for _, prim := range prims {
		if domain.IsXform(prim.TypeTag()) && strings.Contains(strings.ToLower(prim.Name()), "light") {
			return prim.Path()
		}
	}

	for _, prim := range prims {
		if !domain.IsXform(prim.TypeTag()) {
			continue
		}
		for _, child := range prim.Children() {
			if domain.IsLight(child.TypeTag()) {
				return prim.Path()
			}
		}
	}

	return DefaultLightsPath
}

// PathExists reports whether a valid prim is defined at path
func (lm *LightManager) PathExists(path string) bool {
	prim, ok := lm.stage.PrimAtPath(domain.CleanPath(path))
	return ok && prim.IsValid()
}

// XformChildNames returns the names of the direct Xform children of path
func (lm *LightManager) XformChildNames(path string) ([]string, error) {
	parent, err := lm.prim(path)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, child := range parent.Children() {
		if domain.IsXform(child.TypeTag()) {
			names = append(names, child.Name())
		}
	}
	return names, nil
}

// RoomNames lists the rooms under the lights root
func (lm *LightManager) RoomNames(lightsPath string) ([]string, error) {
	return lm.XformChildNames(lightsPath)
}

// GroupNames lists the lighting groups of a room
func (lm *LightManager) GroupNames(roomPath string) ([]string, error) {
	return lm.XformChildNames(roomPath)
}

// LightsIn returns the paths of every light at or below path
func (lm *LightManager) LightsIn(path string) ([]string, error) {
	root, err := lm.prim(path)
	if err != nil {
		return nil, err
	}

	var lights []string
	var walk func(ports.Prim)
	walk = func(p ports.Prim) {
		if domain.IsLight(p.TypeTag()) {
			lights = append(lights, p.Path())
		}
		for _, child := range p.Children() {
			walk(child)
		}
	}
	walk(root)
	return lights, nil
}

// AllLights lists every light of the stage, optionally restricted to one type
func (lm *LightManager) AllLights(only domain.TypeTag) ([]string, error) {
	prims, err := lm.stage.Traverse()
	if err != nil {
		return nil, fmt.Errorf("failed to traverse stage: %w", err)
	}
	var paths []string
	for _, prim := range prims {
		t := prim.TypeTag()
		if !prim.IsValid() || !domain.IsLight(t) {
			continue
		}
		if only != domain.TypeNone && t != only {
			continue
		}
		paths = append(paths, prim.Path())
	}
	return paths, nil
}

// SelectGroup selects every light of a lighting group and records their
// current values as defaults. A group without lights empties the selection.
func (lm *LightManager) SelectGroup(groupPath string) (int, error) {
	lights, err := lm.LightsIn(groupPath)
	if err != nil {
		lm.selected = nil
		return 0, err
	}
	if len(lights) == 0 {
		lm.selected = nil
		lm.ClearRecordedDefaults()
		return 0, emptyState("no lights found in %s", groupPath)
	}

	lm.selected = lights
	if _, err := lm.RecordDefaults(); err != nil {
		return len(lights), err
	}
	return len(lights), nil
}

// SelectLights replaces the selection with explicit light paths
func (lm *LightManager) SelectLights(paths []string) error {
	selected := make([]string, 0, len(paths))
	for _, path := range paths {
		if _, err := lm.light(path); err != nil {
			return err
		}
		selected = append(selected, domain.CleanPath(path))
	}
	lm.selected = selected
	return nil
}

// Selected returns the selected light paths
func (lm *LightManager) Selected() []string {
	out := make([]string, len(lm.selected))
	copy(out, lm.selected)
	return out
}

// ResetSelection forgets the selection and every recorded default
func (lm *LightManager) ResetSelection() {
	lm.selected = nil
	lm.ClearRecordedDefaults()
}

func (lm *LightManager) prim(path string) (ports.Prim, error) {
	path = domain.CleanPath(path)
	prim, ok := lm.stage.PrimAtPath(path)
	if !ok || !prim.IsValid() {
		return nil, notFound(path)
	}
	return prim, nil
}

func (lm *LightManager) light(path string) (ports.Prim, error) {
	prim, err := lm.prim(path)
	if err != nil {
		return nil, err
	}
	if !domain.IsLight(prim.TypeTag()) {
		return nil, &WrongTypeError{Path: prim.Path(), Got: prim.TypeTag().String(), Expected: "light"}
	}
	return prim, nil
}

// Get reads a light property. An unauthored property reports its default.
func (lm *LightManager) Get(path string, prop domain.LightProperty) (any, error) {
	prim, err := lm.light(path)
	if err != nil {
		return nil, err
	}
	return readProperty(prim, prop), nil
}

func readProperty(prim ports.Prim, prop domain.LightProperty) any {
	for _, name := range prop.AttributeNames() {
		attr, ok := prim.Attribute(name)
		if !ok {
			continue
		}
		value, authored, err := attr.Get()
		if err != nil || !authored {
			continue
		}
		if coerced, err := domain.CoerceValue(prop.ValueType(), value); err == nil {
			return coerced
		}
	}
	return prop.Default()
}

// GetFloat reads a numeric property
func (lm *LightManager) GetFloat(path string, prop domain.LightProperty) (float64, error) {
	v, err := lm.Get(path, prop)
	if err != nil {
		return 0, err
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("%s is not numeric", prop)
	}
	return f, nil
}

// GetColor reads the light color
func (lm *LightManager) GetColor(path string) (domain.Vec3, error) {
	v, err := lm.Get(path, domain.PropColor)
	if err != nil {
		return domain.Vec3{}, err
	}
	return v.(domain.Vec3), nil
}

// Set writes a light property, creating the namespaced attribute if no
// candidate exists.
func (lm *LightManager) Set(path string, prop domain.LightProperty, value any) error {
	prim, err := lm.light(path)
	if err != nil {
		return err
	}
	coerced, err := domain.CoerceValue(prop.ValueType(), value)
	if err != nil {
		return &ValidationError{Field: prop.String(), Message: err.Error()}
	}
	return writeProperty(prim, prop.AttributeNames(), prop.ValueType(), coerced)
}

// writeProperty sets the first existing candidate attribute, falling back to
// creating the first candidate name.
func writeProperty(prim ports.Prim, names []string, vt domain.ValueType, value any) error {
	for _, name := range names {
		attr, ok := prim.Attribute(name)
		if !ok {
			continue
		}
		if err := attr.Set(value); err == nil {
			return nil
		}
	}

	attr, err := prim.CreateAttribute(names[0], vt)
	if err != nil {
		return fmt.Errorf("failed to create %s on %s: %w", names[0], prim.Path(), err)
	}
	if err := attr.Set(value); err != nil {
		return fmt.Errorf("failed to set %s on %s: %w", names[0], prim.Path(), err)
	}
	return nil
}

// SetSelected writes a property on every selected light and returns how
// many were updated.
func (lm *LightManager) SetSelected(prop domain.LightProperty, value any) (int, error) {
	if len(lm.selected) == 0 {
		return 0, emptyState("no lights selected")
	}
	count := 0
	var firstErr error
	for _, path := range lm.selected {
		if err := lm.Set(path, prop, value); err != nil {
			lm.logger.Error("failed to set light property", "path", path, "property", prop, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		count++
	}
	return count, firstErr
}

// IsEnabled reports whether the light and all its ancestors are visible
func (lm *LightManager) IsEnabled(path string) (bool, error) {
	prim, err := lm.light(path)
	if err != nil {
		return false, err
	}
	for p := prim.Path(); p != "/"; p = domain.PathParent(p) {
		ancestor, ok := lm.stage.PrimAtPath(p)
		if !ok {
			break
		}
		if visibilityOf(ancestor) == domain.VisibilityInvisible {
			return false, nil
		}
	}
	return true, nil
}

func visibilityOf(prim ports.Prim) string {
	attr, ok := prim.Attribute(domain.VisibilityAttr)
	if !ok {
		return domain.VisibilityInherited
	}
	value, authored, err := attr.Get()
	if err != nil || !authored {
		return domain.VisibilityInherited
	}
	if s, ok := value.(string); ok {
		return s
	}
	return domain.VisibilityInherited
}

// SetEnabled shows or hides a light through the host. Intensity is left alone.
// Showing a light also clears "invisible" on every hidden ancestor.
func (lm *LightManager) SetEnabled(path string, enabled bool) error {
	prim, err := lm.light(path)
	if err != nil {
		return err
	}
	if !enabled {
		return lm.changeVisibility(prim.Path(), domain.VisibilityInvisible)
	}
	if err := lm.changeVisibility(prim.Path(), domain.VisibilityInherited); err != nil {
		return err
	}
	for p := domain.PathParent(prim.Path()); p != "/" && p != ""; p = domain.PathParent(p) {
		ancestor, ok := lm.stage.PrimAtPath(p)
		if !ok {
			break
		}
		if visibilityOf(ancestor) != domain.VisibilityInvisible {
			continue
		}
		if err := lm.changeVisibility(p, domain.VisibilityInherited); err != nil {
			return err
		}
	}
	return nil
}

func (lm *LightManager) changeVisibility(path, token string) error {
	if err := lm.commands.ChangeProperty(path, domain.VisibilityAttr, token); err != nil {
		return &HostError{Op: "change visibility", Path: path, Err: err}
	}
	return nil
}

// SetSelectedEnabled shows or hides every selected light
func (lm *LightManager) SetSelectedEnabled(enabled bool) (int, error) {
	if len(lm.selected) == 0 {
		return 0, emptyState("no lights selected")
	}
	count := 0
	var firstErr error
	for _, path := range lm.selected {
		if err := lm.SetEnabled(path, enabled); err != nil {
			lm.logger.Error("failed to toggle light", "path", path, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		count++
	}
	return count, firstErr
}

// State reads every property of a light
func (lm *LightManager) State(path string) (*LightState, error) {
	prim, err := lm.light(path)
	if err != nil {
		return nil, err
	}
	enabled, err := lm.IsEnabled(path)
	if err != nil {
		return nil, err
	}
	return &LightState{
		Path:                   prim.Path(),
		Name:                   prim.Name(),
		Type:                   prim.TypeTag(),
		Enabled:                enabled,
		Color:                  readProperty(prim, domain.PropColor).(domain.Vec3),
		Intensity:              readProperty(prim, domain.PropIntensity).(float64),
		Exposure:               readProperty(prim, domain.PropExposure).(float64),
		Specular:               readProperty(prim, domain.PropSpecular).(float64),
		EnableColorTemperature: readProperty(prim, domain.PropEnableColorTemperature).(bool),
		ColorTemperature:       readProperty(prim, domain.PropColorTemperature).(float64),
	}, nil
}

// ResetLight restores factory values on one light and enables it
func (lm *LightManager) ResetLight(path string) error {
	for _, prop := range domain.LightProperties {
		if err := lm.Set(path, prop, prop.Default()); err != nil {
			return err
		}
	}
	return lm.SetEnabled(path, true)
}

// ResetAll restores factory values on every selected light
func (lm *LightManager) ResetAll() (int, error) {
	if len(lm.selected) == 0 {
		return 0, emptyState("no lights selected")
	}
	count := 0
	for _, path := range lm.selected {
		if err := lm.ResetLight(path); err != nil {
			lm.logger.Error("failed to reset light", "path", path, "error", err)
			continue
		}
		count++
	}
	return count, nil
}

// RecordDefaults snapshots the selected lights so ResetToRecorded can
// restore them.
func (lm *LightManager) RecordDefaults() (int, error) {
	if len(lm.selected) == 0 {
		return 0, emptyState("no lights selected, nothing to record")
	}
	for _, path := range lm.selected {
		state, err := lm.State(path)
		if err != nil {
			return 0, err
		}
		lm.defaults[path] = domain.LightDefaults{
			Intensity:        state.Intensity,
			ColorTemperature: state.ColorTemperature,
			Color:            state.Color,
			Exposure:         state.Exposure,
			Specular:         state.Specular,
		}
	}
	lm.logger.Debug("recorded light defaults", "count", len(lm.selected))
	return len(lm.selected), nil
}

// ResetToRecorded re-applies the recorded values to the selected lights
func (lm *LightManager) ResetToRecorded() (int, error) {
	if len(lm.selected) == 0 {
		return 0, emptyState("no lights selected")
	}
	if !lm.HasRecordedDefaults() {
		return 0, emptyState("no recorded defaults, record them first")
	}

	count := 0
	for _, path := range lm.selected {
		d, ok := lm.defaults[path]
		if !ok {
			continue
		}
		values := []struct {
			prop  domain.LightProperty
			value any
		}{
			{domain.PropColor, d.Color},
			{domain.PropIntensity, d.Intensity},
			{domain.PropColorTemperature, d.ColorTemperature},
			{domain.PropExposure, d.Exposure},
			{domain.PropSpecular, d.Specular},
		}
		for _, v := range values {
			if err := lm.Set(path, v.prop, v.value); err != nil {
				return count, err
			}
		}
		count++
	}
	return count, nil
}

// HasRecordedDefaults reports whether any selected light has recorded values
func (lm *LightManager) HasRecordedDefaults() bool {
	for _, path := range lm.selected {
		if _, ok := lm.defaults[path]; ok {
			return true
		}
	}
	return false
}

// RecordedDefaults returns the recorded values of one light
func (lm *LightManager) RecordedDefaults(path string) (domain.LightDefaults, bool) {
	d, ok := lm.defaults[domain.CleanPath(path)]
	return d, ok
}

// ClearRecordedDefaults forgets every recorded value
func (lm *LightManager) ClearRecordedDefaults() {
	clear(lm.defaults)
}

// ExportDefaults returns a copy of every recorded value
func (lm *LightManager) ExportDefaults() map[string]domain.LightDefaults {
	return maps.Clone(lm.defaults)
}

// ImportDefaults merges previously recorded values, e.g. from a DefaultsStore
func (lm *LightManager) ImportDefaults(defaults map[string]domain.LightDefaults) {
	for path, d := range defaults {
		lm.defaults[domain.CleanPath(path)] = d
	}
}
