package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"lightdeck/internal/application"
	"lightdeck/internal/domain"
	"lightdeck/internal/ports"
)

// LightTarget names the lights a command acts on: every light under Group,
// or the explicit Paths
type LightTarget struct {
	Group string
	Paths []string
}

// Validate checks that exactly one of Group and Paths is given
func (t LightTarget) Validate() error {
	if t.Group != "" && len(t.Paths) > 0 {
		return &application.ValidationError{
			Field:   "groupPath",
			Message: "give either a group or light paths, not both",
		}
	}
	if t.Group != "" {
		return application.ValidatePrimPath("groupPath", t.Group)
	}
	if len(t.Paths) == 0 {
		return &application.ValidationError{
			Field:   "lightPath",
			Message: "a group or at least one light path is required",
		}
	}
	for _, p := range t.Paths {
		if err := application.ValidatePrimPath("lightPath", p); err != nil {
			return err
		}
	}
	return nil
}

// selectTarget selects the target lights without recording defaults
func selectTarget(lm *application.LightManager, t LightTarget) error {
	paths := t.Paths
	if t.Group != "" {
		var err error
		paths, err = lm.LightsIn(t.Group)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return fmt.Errorf("no lights found in %s: %w", t.Group, application.ErrEmptyState)
		}
	}
	return lm.SelectLights(paths)
}

// LightsResult reports how many lights a command changed
type LightsResult struct {
	Count   int
	Paths   []string
	Message string
}

// ListRoomsCommand lists the rooms under the lights root
type ListRoomsCommand struct {
	manager *application.LightManager
	Root    string
}

// NewListRoomsCommand creates a new ListRoomsCommand. An empty root is detected.
func NewListRoomsCommand(manager *application.LightManager, root string) *ListRoomsCommand {
	return &ListRoomsCommand{manager: manager, Root: root}
}

// Execute runs the list rooms command
func (c *ListRoomsCommand) Execute(ctx context.Context) ([]string, error) {
	root := c.Root
	if root == "" {
		root = c.manager.FindLightsPath()
	}
	return c.manager.RoomNames(root)
}

// ListGroupsCommand lists the lighting groups of a room
type ListGroupsCommand struct {
	manager  *application.LightManager
	RoomPath string
}

// NewListGroupsCommand creates a new ListGroupsCommand
func NewListGroupsCommand(manager *application.LightManager, roomPath string) *ListGroupsCommand {
	return &ListGroupsCommand{manager: manager, RoomPath: roomPath}
}

// Validate checks the room path
func (c *ListGroupsCommand) Validate() error {
	return application.ValidatePrimPath("primPath", c.RoomPath)
}

// Execute runs the list groups command
func (c *ListGroupsCommand) Execute(ctx context.Context) ([]string, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c.manager.GroupNames(c.RoomPath)
}

// ListLightsCommand reads the state of every light under Path, or of the
// whole stage when Path is empty
type ListLightsCommand struct {
	manager *application.LightManager
	Path    string
}

// NewListLightsCommand creates a new ListLightsCommand
func NewListLightsCommand(manager *application.LightManager, path string) *ListLightsCommand {
	return &ListLightsCommand{manager: manager, Path: path}
}

// Execute runs the list lights command
func (c *ListLightsCommand) Execute(ctx context.Context) ([]*application.LightState, error) {
	var paths []string
	var err error
	if c.Path == "" {
		paths, err = c.manager.AllLights(domain.TypeNone)
	} else {
		if err := application.ValidatePrimPath("primPath", c.Path); err != nil {
			return nil, err
		}
		paths, err = c.manager.LightsIn(c.Path)
	}
	if err != nil {
		return nil, err
	}

	states := make([]*application.LightState, 0, len(paths))
	for _, p := range paths {
		state, err := c.manager.State(p)
		if err != nil {
			return nil, err
		}
		states = append(states, state)
	}
	return states, nil
}

// GetLightCommand reads one light
type GetLightCommand struct {
	manager *application.LightManager
	Path    string
}

// NewGetLightCommand creates a new GetLightCommand
func NewGetLightCommand(manager *application.LightManager, path string) *GetLightCommand {
	return &GetLightCommand{manager: manager, Path: path}
}

// Execute runs the get command
func (c *GetLightCommand) Execute(ctx context.Context) (*application.LightState, error) {
	if err := application.ValidatePrimPath("lightPath", c.Path); err != nil {
		return nil, err
	}
	return c.manager.State(c.Path)
}

// SetLightCommand writes one property on the target lights
type SetLightCommand struct {
	manager  *application.LightManager
	Target   LightTarget
	Property string
	Value    string
}

// NewSetLightCommand creates a new SetLightCommand
func NewSetLightCommand(manager *application.LightManager, target LightTarget, property, value string) *SetLightCommand {
	return &SetLightCommand{
		manager:  manager,
		Target:   target,
		Property: property,
		Value:    value,
	}
}

// Validate checks the target, the property name and its value
func (c *SetLightCommand) Validate() error {
	if err := c.Target.Validate(); err != nil {
		return err
	}
	if err := application.ValidateRequired("property", c.Property); err != nil {
		return err
	}
	prop, err := application.ParseLightProperty(c.Property)
	if err != nil {
		return err
	}
	_, err = ParsePropertyValue(prop, c.Value)
	return err
}

// Execute runs the set command
func (c *SetLightCommand) Execute(ctx context.Context) (*LightsResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	prop, _ := application.ParseLightProperty(c.Property)
	value, _ := ParsePropertyValue(prop, c.Value)

	if err := selectTarget(c.manager, c.Target); err != nil {
		return nil, err
	}
	n, err := c.manager.SetSelected(prop, value)
	if err != nil {
		return nil, err
	}
	return &LightsResult{
		Count:   n,
		Paths:   c.manager.Selected(),
		Message: fmt.Sprintf("Set %s on %d light(s)", prop, n),
	}, nil
}

// ParsePropertyValue parses a command-line value for prop: a number, a
// bool, or a color as "r,g,b"
func ParsePropertyValue(prop domain.LightProperty, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	invalid := func(msg string) error {
		return &application.ValidationError{Field: prop.String(), Message: msg}
	}

	switch prop.ValueType() {
	case domain.ValueBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, invalid(fmt.Sprintf("expected true or false, got %q", raw))
		}
		return b, nil

	case domain.ValueColor3f:
		parts := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ' ' })
		if len(parts) != 3 {
			return nil, invalid(fmt.Sprintf("expected r,g,b, got %q", raw))
		}
		var color domain.Vec3
		for i, p := range parts {
			f, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return nil, invalid(fmt.Sprintf("bad color component %q", p))
			}
			color[i] = f
		}
		return color, nil

	default:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, invalid(fmt.Sprintf("expected a number, got %q", raw))
		}
		return f, nil
	}
}

// SetLightsEnabledCommand turns the target lights on or off
type SetLightsEnabledCommand struct {
	manager *application.LightManager
	Target  LightTarget
	Enabled bool
}

// NewSetLightsEnabledCommand creates a new SetLightsEnabledCommand
func NewSetLightsEnabledCommand(manager *application.LightManager, target LightTarget, enabled bool) *SetLightsEnabledCommand {
	return &SetLightsEnabledCommand{manager: manager, Target: target, Enabled: enabled}
}

// Execute runs the on/off command
func (c *SetLightsEnabledCommand) Execute(ctx context.Context) (*LightsResult, error) {
	if err := c.Target.Validate(); err != nil {
		return nil, err
	}
	if err := selectTarget(c.manager, c.Target); err != nil {
		return nil, err
	}
	n, err := c.manager.SetSelectedEnabled(c.Enabled)
	if err != nil {
		return nil, err
	}
	state := "off"
	if c.Enabled {
		state = "on"
	}
	return &LightsResult{
		Count:   n,
		Paths:   c.manager.Selected(),
		Message: fmt.Sprintf("Turned %s %d light(s)", state, n),
	}, nil
}

// ResetLightsCommand restores factory values on the target lights
type ResetLightsCommand struct {
	manager *application.LightManager
	Target  LightTarget
}

// NewResetLightsCommand creates a new ResetLightsCommand
func NewResetLightsCommand(manager *application.LightManager, target LightTarget) *ResetLightsCommand {
	return &ResetLightsCommand{manager: manager, Target: target}
}

// Execute runs the reset command
func (c *ResetLightsCommand) Execute(ctx context.Context) (*LightsResult, error) {
	if err := c.Target.Validate(); err != nil {
		return nil, err
	}
	if err := selectTarget(c.manager, c.Target); err != nil {
		return nil, err
	}
	n, err := c.manager.ResetAll()
	if err != nil {
		return nil, err
	}
	return &LightsResult{
		Count:   n,
		Paths:   c.manager.Selected(),
		Message: fmt.Sprintf("Reset %d light(s) to factory values", n),
	}, nil
}

// RecordDefaultsCommand records the current values of the target lights and
// persists them
type RecordDefaultsCommand struct {
	manager *application.LightManager
	store   ports.DefaultsStore
	Target  LightTarget
}

// NewRecordDefaultsCommand creates a new RecordDefaultsCommand
func NewRecordDefaultsCommand(manager *application.LightManager, store ports.DefaultsStore, target LightTarget) *RecordDefaultsCommand {
	return &RecordDefaultsCommand{manager: manager, store: store, Target: target}
}

// Execute runs the record command
func (c *RecordDefaultsCommand) Execute(ctx context.Context) (*LightsResult, error) {
	if err := c.Target.Validate(); err != nil {
		return nil, err
	}
	saved, err := c.store.LoadDefaults(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load recorded defaults: %w", err)
	}
	c.manager.ImportDefaults(saved)

	if err := selectTarget(c.manager, c.Target); err != nil {
		return nil, err
	}
	n, err := c.manager.RecordDefaults()
	if err != nil {
		return nil, err
	}
	if err := c.store.SaveDefaults(ctx, c.manager.ExportDefaults()); err != nil {
		return nil, fmt.Errorf("failed to save recorded defaults: %w", err)
	}
	return &LightsResult{
		Count:   n,
		Paths:   c.manager.Selected(),
		Message: fmt.Sprintf("Recorded defaults for %d light(s)", n),
	}, nil
}

// RestoreDefaultsCommand re-applies persisted defaults to the target lights
type RestoreDefaultsCommand struct {
	manager *application.LightManager
	store   ports.DefaultsStore
	Target  LightTarget
}

// NewRestoreDefaultsCommand creates a new RestoreDefaultsCommand
func NewRestoreDefaultsCommand(manager *application.LightManager, store ports.DefaultsStore, target LightTarget) *RestoreDefaultsCommand {
	return &RestoreDefaultsCommand{manager: manager, store: store, Target: target}
}

// Execute runs the restore command
func (c *RestoreDefaultsCommand) Execute(ctx context.Context) (*LightsResult, error) {
	if err := c.Target.Validate(); err != nil {
		return nil, err
	}
	saved, err := c.store.LoadDefaults(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load recorded defaults: %w", err)
	}
	c.manager.ImportDefaults(saved)

	if err := selectTarget(c.manager, c.Target); err != nil {
		return nil, err
	}
	n, err := c.manager.ResetToRecorded()
	if err != nil {
		return nil, err
	}
	return &LightsResult{
		Count:   n,
		Paths:   c.manager.Selected(),
		Message: fmt.Sprintf("Restored recorded defaults on %d light(s)", n),
	}, nil
}
