package commands

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lightdeck/internal/adapters/memory"
	"lightdeck/internal/adapters/scenegraph"
	"lightdeck/internal/application"
	"lightdeck/internal/domain"
)

// officeStage builds /World/lights/Office/Desk/{Lamp,Strip}
func officeStage(t *testing.T) *scenegraph.Stage {
	t.Helper()
	s := scenegraph.New()
	for path, tt := range map[string]domain.TypeTag{
		"/World/lights":                   domain.TypeXform,
		"/World/lights/Office":            domain.TypeXform,
		"/World/lights/Office/Desk":       domain.TypeXform,
		"/World/lights/Office/Desk/Lamp":  domain.TypeSphereLight,
		"/World/lights/Office/Desk/Strip": domain.TypeRectLight,
		"/World/lights/Office/Empty":      domain.TypeXform,
	} {
		_, err := s.Define(path, tt)
		require.NoError(t, err)
	}
	return s
}

func newLightManager(s *scenegraph.Stage) *application.LightManager {
	return application.NewLightManager(s, scenegraph.NewCommands(s), discardLogger())
}

func TestLightTarget_Validate(t *testing.T) {
	tests := []struct {
		name    string
		target  LightTarget
		wantErr bool
		errMsg  string
	}{
		{name: "group", target: LightTarget{Group: "/World/lights/Office/Desk"}},
		{name: "paths", target: LightTarget{Paths: []string{"/World/lights/Office/Desk/Lamp"}}},
		{name: "empty", wantErr: true, errMsg: "a group or at least one light path is required"},
		{
			name:    "both",
			target:  LightTarget{Group: "/World/lights/Office/Desk", Paths: []string{"/World/lights/Office/Desk/Lamp"}},
			wantErr: true,
			errMsg:  "not both",
		},
		{name: "bad group", target: LightTarget{Group: "Desk"}, wantErr: true, errMsg: "must be absolute"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.target.Validate()
			if tt.wantErr {
				if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("expected error containing %q, got %v", tt.errMsg, err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestParsePropertyValue(t *testing.T) {
	tests := []struct {
		prop    domain.LightProperty
		raw     string
		want    any
		wantErr bool
	}{
		{domain.PropIntensity, "1200", 1200.0, false},
		{domain.PropExposure, " -1.5 ", -1.5, false},
		{domain.PropEnableColorTemperature, "false", false, false},
		{domain.PropColor, "1,0.5,0.25", domain.Vec3{1, 0.5, 0.25}, false},
		{domain.PropColor, "1 0.5 0.25", domain.Vec3{1, 0.5, 0.25}, false},
		{domain.PropColor, "red", nil, true},
		{domain.PropColor, "1,2", nil, true},
		{domain.PropIntensity, "bright", nil, true},
		{domain.PropEnableColorTemperature, "maybe", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.prop.String()+"/"+tt.raw, func(t *testing.T) {
			got, err := ParsePropertyValue(tt.prop, tt.raw)
			if tt.wantErr {
				var valErr *application.ValidationError
				assert.ErrorAs(t, err, &valErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLightCommands_SetAndList(t *testing.T) {
	ctx := context.Background()
	s := officeStage(t)
	lm := newLightManager(s)
	desk := LightTarget{Group: "/World/lights/Office/Desk"}

	rooms, err := NewListRoomsCommand(lm, "").Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Office"}, rooms)

	groups, err := NewListGroupsCommand(lm, "/World/lights/Office").Execute(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Desk", "Empty"}, groups)

	res, err := NewSetLightCommand(lm, desk, "intensity", "500").Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, "Set intensity on 2 light(s)", res.Message)

	states, err := NewListLightsCommand(lm, "").Execute(ctx)
	require.NoError(t, err)
	require.Len(t, states, 2)
	for _, st := range states {
		assert.Equal(t, 500.0, st.Intensity)
	}

	_, err = NewSetLightCommand(lm, desk, "glow", "1").Execute(ctx)
	var valErr *application.ValidationError
	assert.ErrorAs(t, err, &valErr)

	_, err = NewSetLightCommand(lm, LightTarget{Group: "/World/lights/Office/Empty"}, "intensity", "1").Execute(ctx)
	assert.ErrorIs(t, err, application.ErrEmptyState)
}

func TestLightCommands_OnOffAndReset(t *testing.T) {
	ctx := context.Background()
	s := officeStage(t)
	lm := newLightManager(s)
	lamp := LightTarget{Paths: []string{"/World/lights/Office/Desk/Lamp"}}

	res, err := NewSetLightsEnabledCommand(lm, lamp, false).Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Turned off 1 light(s)", res.Message)

	state, err := NewGetLightCommand(lm, "/World/lights/Office/Desk/Lamp").Execute(ctx)
	require.NoError(t, err)
	assert.False(t, state.Enabled)

	_, err = NewSetLightCommand(lm, lamp, "color", "0,0,1").Execute(ctx)
	require.NoError(t, err)

	_, err = NewResetLightsCommand(lm, lamp).Execute(ctx)
	require.NoError(t, err)
	state, err = NewGetLightCommand(lm, "/World/lights/Office/Desk/Lamp").Execute(ctx)
	require.NoError(t, err)
	assert.True(t, state.Enabled)
	assert.Equal(t, domain.White, state.Color)
}

func TestLightCommands_RecordRestoreAcrossManagers(t *testing.T) {
	ctx := context.Background()
	s := officeStage(t)
	store := memory.NewDefaultsStore()
	desk := LightTarget{Group: "/World/lights/Office/Desk"}

	first := newLightManager(s)
	_, err := NewSetLightCommand(first, desk, "intensity", "800").Execute(ctx)
	require.NoError(t, err)
	res, err := NewRecordDefaultsCommand(first, store, desk).Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count)

	_, err = NewSetLightCommand(first, desk, "intensity", "5").Execute(ctx)
	require.NoError(t, err)

	// a later invocation starts with a fresh manager
	second := newLightManager(s)
	res, err = NewRestoreDefaultsCommand(second, store, desk).Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count)

	state, err := second.State("/World/lights/Office/Desk/Strip")
	require.NoError(t, err)
	assert.Equal(t, 800.0, state.Intensity)

	_, err = NewRestoreDefaultsCommand(newLightManager(s), memory.NewDefaultsStore(), desk).Execute(ctx)
	assert.ErrorIs(t, err, application.ErrEmptyState)
}
