package scenegraph

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lightdeck/internal/domain"
)

func TestStage_DefineCreatesAncestors(t *testing.T) {
	s := New()

	p, err := s.Define("/World/Looks/Red", domain.TypeMaterial)
	require.NoError(t, err)
	assert.Equal(t, "/World/Looks/Red", p.Path())
	assert.Equal(t, domain.TypeMaterial, p.TypeTag())

	looks, ok := s.PrimAtPath("/World/Looks")
	require.True(t, ok)
	assert.Equal(t, domain.TypeNone, looks.TypeTag())

	prims, err := s.Traverse()
	require.NoError(t, err)
	paths := make([]string, 0, len(prims))
	for _, prim := range prims {
		paths = append(paths, prim.Path())
	}
	assert.Equal(t, []string{"/World", "/World/Looks", "/World/Looks/Red"}, paths)
}

func TestStage_DefineRetypesExisting(t *testing.T) {
	s := New()
	_, err := s.Define("/World", domain.TypeNone)
	require.NoError(t, err)

	p, err := s.Define("/World", domain.TypeXform)
	require.NoError(t, err)
	assert.Equal(t, domain.TypeXform, p.TypeTag())

	// a typeless define leaves the type alone
	p, err = s.Define("/World", domain.TypeNone)
	require.NoError(t, err)
	assert.Equal(t, domain.TypeXform, p.TypeTag())
}

func TestStage_DefineRejectsBadPaths(t *testing.T) {
	s := New()
	for _, path := range []string{"", "World", "/", "/World/bad name"} {
		_, err := s.Define(path, domain.TypeXform)
		assert.Error(t, err, path)
	}
}

func TestStage_RemoveInvalidatesHandles(t *testing.T) {
	s := New()
	world, err := s.Define("/World", domain.TypeXform)
	require.NoError(t, err)
	mat, err := s.Define("/World/Looks/Red", domain.TypeMaterial)
	require.NoError(t, err)

	require.NoError(t, s.Remove("/World/Looks"))

	assert.True(t, world.IsValid())
	assert.False(t, mat.IsValid())
	_, ok := s.PrimAtPath("/World/Looks/Red")
	assert.False(t, ok)

	err = s.Remove("/World/Looks")
	assert.True(t, errors.Is(err, ErrNoPrim))
}

func TestPrim_Attributes(t *testing.T) {
	s := New()
	light, err := s.Define("/World/Sun", domain.TypeDistantLight)
	require.NoError(t, err)

	_, ok := light.Attribute("inputs:intensity")
	assert.False(t, ok)

	attr, err := light.CreateAttribute("inputs:intensity", domain.ValueFloat)
	require.NoError(t, err)

	_, authored, err := attr.Get()
	require.NoError(t, err)
	assert.False(t, authored)

	require.NoError(t, attr.Set(12345))
	value, authored, err := attr.Get()
	require.NoError(t, err)
	assert.True(t, authored)
	assert.Equal(t, 12345.0, value)

	assert.Error(t, attr.Set("bright"))

	_, err = light.CreateAttribute("inputs:intensity", domain.ValueBool)
	assert.Error(t, err, "type mismatch on an existing attribute")

	assert.Equal(t, []string{"inputs:intensity"}, light.AttributeNames())
}

func TestPrim_ConnectionsAndRelationships(t *testing.T) {
	s := New()
	cube, err := s.Define("/World/Cube", domain.TypeMesh)
	require.NoError(t, err)

	require.NoError(t, cube.ConnectAttribute("inputs:material:binding", domain.ValuePath, "/World/Looks/Red.outputs:surface"))
	require.NoError(t, cube.SetRelationship(domain.DirectBindingRel, "/World/Looks/Blue"))

	attr, ok := cube.Attribute("inputs:material:binding")
	require.True(t, ok)
	conns, err := attr.Connections()
	require.NoError(t, err)
	assert.Equal(t, []string{"/World/Looks/Red.outputs:surface"}, conns)

	rels := cube.Relationships()
	require.Len(t, rels, 1)
	targets, err := rels[0].Targets()
	require.NoError(t, err)
	assert.Equal(t, []string{"/World/Looks/Blue"}, targets)
}

func TestPrim_CompositionFlags(t *testing.T) {
	s := New()
	proto, err := s.Define("/Prototypes/Chair", domain.TypeXform)
	require.NoError(t, err)
	proto.SetPrototype(true)
	mat, err := s.Define("/Prototypes/Chair/Looks/Wood", domain.TypeMaterial)
	require.NoError(t, err)

	assert.True(t, mat.IsInPrototype())
	assert.False(t, mat.IsInstance())

	mat.AddReference("library.usd")
	assert.True(t, mat.HasAuthoredReferences())
}

func TestCommands_DeletePrimsIsAtomic(t *testing.T) {
	s := New()
	_, err := s.Define("/World/Looks/A", domain.TypeMaterial)
	require.NoError(t, err)
	_, err = s.Define("/World/Looks/B", domain.TypeMaterial)
	require.NoError(t, err)

	cmds := NewCommands(s)

	err = cmds.DeletePrims([]string{"/World/Looks/A", "/World/Looks/Missing"})
	require.Error(t, err)
	_, ok := s.PrimAtPath("/World/Looks/A")
	assert.True(t, ok, "a failed batch must not delete anything")

	require.NoError(t, cmds.DeletePrims([]string{"/World/Looks", "/World/Looks/A"}))
	_, ok = s.PrimAtPath("/World/Looks/B")
	assert.False(t, ok)
}

func TestCommands_TransformAndChangeProperty(t *testing.T) {
	s := New()
	sun, err := s.Define("/World/Sun", domain.TypeDistantLight)
	require.NoError(t, err)
	cmds := NewCommands(s)

	require.NoError(t, cmds.TransformPrimSRT("/World/Sun", domain.Vec3{-30, 45, 0}))
	attr, ok := sun.Attribute(RotateAttr)
	require.True(t, ok)
	value, _, _ := attr.Get()
	assert.Equal(t, domain.Vec3{-30, 45, 0}, value)

	require.NoError(t, cmds.ChangeProperty("/World/Sun", domain.VisibilityAttr, domain.VisibilityInvisible))
	attr, ok = sun.Attribute(domain.VisibilityAttr)
	require.True(t, ok)
	assert.Equal(t, domain.ValueToken, attr.ValueType())
	value, _, _ = attr.Get()
	assert.Equal(t, domain.VisibilityInvisible, value)

	assert.Error(t, cmds.ChangeProperty("/World/Moon", domain.VisibilityAttr, domain.VisibilityInherited))
	assert.Error(t, cmds.TransformPrimSRT("/World/Moon", domain.Vec3{}))
}

func TestStage_ConcurrentTraverse(t *testing.T) {
	s := New()
	cmds := NewCommands(s)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			_, _ = s.Define("/World/lights/Sun", domain.TypeDistantLight)
			_ = cmds.DeletePrims([]string{"/World/lights/Sun"})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			prims, err := s.Traverse()
			assert.NoError(t, err)
			for _, p := range prims {
				_ = p.Path()
				_ = p.TypeTag()
			}
		}
	}()
	wg.Wait()
}
