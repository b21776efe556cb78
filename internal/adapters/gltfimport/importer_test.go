package gltfimport

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lightdeck/internal/adapters/memory"
	"lightdeck/internal/adapters/scenegraph"
	"lightdeck/internal/application"
	"lightdeck/internal/domain"
)

const lobbyGLTF = `{
  "asset": {"version": "2.0"},
  "extensionsUsed": ["KHR_lights_punctual"],
  "extensions": {
    "KHR_lights_punctual": {
      "lights": [
        {"type": "directional", "color": [1, 0.5, 0.25], "intensity": 3},
        {"type": "spot", "intensity": 10, "spot": {"outerConeAngle": 0.7}},
        {"type": "point", "intensity": 40}
      ]
    }
  },
  "scene": 0,
  "scenes": [{"name": "Lobby", "nodes": [0, 3]}],
  "nodes": [
    {"name": "Desk", "mesh": 0, "children": [1, 2, 4]},
    {"name": "Sun", "extensions": {"KHR_lights_punctual": {"light": 0}}},
    {"name": "Spot", "extensions": {"KHR_lights_punctual": {"light": 1}}},
    {"name": "Desk"},
    {"name": "Bulb", "extensions": {"KHR_lights_punctual": {"light": 2}}}
  ],
  "meshes": [
    {"name": "DeskMesh", "primitives": [
      {"attributes": {"POSITION": 0}, "material": 0},
      {"attributes": {"POSITION": 0}, "material": 1}
    ]}
  ],
  "materials": [{"name": "Wood"}, {"name": "Metal"}, {"name": "Unused Paint"}],
  "accessors": [{"componentType": 5126, "count": 3, "type": "VEC3"}]
}`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func importLobby(t *testing.T) (*scenegraph.Stage, Result) {
	t.Helper()
	stage := scenegraph.New()
	result, err := NewImporter(stage, discardLogger()).Import([]byte(lobbyGLTF))
	require.NoError(t, err)
	return stage, result
}

func TestImporter_Hierarchy(t *testing.T) {
	stage, result := importLobby(t)

	assert.Equal(t, Result{Prims: 11, Meshes: 1, Materials: 3, Lights: 3}, result)

	for path, want := range map[string]domain.TypeTag{
		"/World":                    domain.TypeXform,
		"/World/Looks":              domain.TypeScope,
		"/World/Looks/Wood":         domain.TypeMaterial,
		"/World/Looks/Unused_Paint": domain.TypeMaterial,
		"/World/Desk":               domain.TypeMesh,
		"/World/Desk/primitive_1":   domain.TypeMesh,
		"/World/Desk/Sun":           domain.TypeDistantLight,
		"/World/Desk/Spot":          domain.TypeDiskLight,
		"/World/Desk/Bulb":          domain.TypeSphereLight,
		"/World/Desk_1":             domain.TypeXform,
	} {
		prim, ok := stage.Prim(path)
		if assert.True(t, ok, path) {
			assert.Equal(t, want, prim.TypeTag(), path)
		}
	}
}

func TestImporter_BindingsAndLights(t *testing.T) {
	stage, _ := importLobby(t)

	desk, _ := stage.Prim("/World/Desk")
	rel, ok := desk.Relationship(domain.DirectBindingRel)
	require.True(t, ok)
	targets, _ := rel.Targets()
	assert.Equal(t, []string{"/World/Looks/Wood"}, targets)

	part, _ := stage.Prim("/World/Desk/primitive_1")
	rel, ok = part.Relationship(domain.DirectBindingRel)
	require.True(t, ok)
	targets, _ = rel.Targets()
	assert.Equal(t, []string{"/World/Looks/Metal"}, targets)

	sun, _ := stage.Prim("/World/Desk/Sun")
	attr, ok := sun.Attribute("inputs:color")
	require.True(t, ok)
	value, _, _ := attr.Get()
	assert.Equal(t, domain.Vec3{1, 0.5, 0.25}, value)

	attr, ok = sun.Attribute("inputs:intensity")
	require.True(t, ok)
	value, _, _ = attr.Get()
	assert.Equal(t, 3.0, value)
}

func TestImporter_ScanFindsUnboundMaterials(t *testing.T) {
	stage, _ := importLobby(t)

	mm := application.NewMaterialManager(stage, scenegraph.NewCommands(stage), memory.NewHistoryStore(), discardLogger())
	unused, err := mm.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, unused, 1)
	assert.Equal(t, "/World/Looks/Unused_Paint", unused[0].Path)
}

func TestImporter_ImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lobby.gltf")
	require.NoError(t, os.WriteFile(path, []byte(lobbyGLTF), 0644))

	stage := scenegraph.New()
	result, err := NewImporter(stage, discardLogger()).ImportFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Lights)

	_, err = NewImporter(stage, discardLogger()).ImportFile(filepath.Join(t.TempDir(), "missing.gltf"))
	assert.Error(t, err)
}

func TestImporter_Errors(t *testing.T) {
	_, err := NewImporter(scenegraph.New(), discardLogger()).Import([]byte("not gltf"))
	assert.Error(t, err)

	readOnly := scenegraph.New()
	readOnly.SetRootLayerWritable(false)
	_, err = NewImporter(readOnly, discardLogger()).Import([]byte(lobbyGLTF))
	assert.Error(t, err)
}

func TestUniqueName(t *testing.T) {
	taken := map[string]int{}
	assert.Equal(t, "Lamp", uniqueName(taken, "Lamp", "Node0"))
	assert.Equal(t, "Lamp_1", uniqueName(taken, "Lamp", "Node1"))
	assert.Equal(t, "Lamp_2", uniqueName(taken, "Lamp", "Node2"))
	assert.Equal(t, "Node3", uniqueName(taken, "", "Node3"))
	assert.Equal(t, "_2nd_floor", uniqueName(taken, "2nd floor", "Node4"))
}
