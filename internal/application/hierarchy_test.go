package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lightdeck/internal/domain"
)

func TestBuildTree(t *testing.T) {
	s := scenarioStage(t)

	root, err := BuildTree(s)
	require.NoError(t, err)
	require.Len(t, root.Children, 2)
	assert.Equal(t, "World", root.Children[0].Name)
	assert.Equal(t, "Looks", root.Children[1].Name)

	cube := root.Find("/World/Cube")
	require.NotNil(t, cube)
	assert.Equal(t, domain.TypeMesh, cube.Type)
	assert.Equal(t, 2, cube.Depth())

	// only the root is expanded
	assert.Len(t, root.Flatten(), 3)
}

func TestRestoreExpanded(t *testing.T) {
	s := scenarioStage(t)
	root, err := BuildTree(s)
	require.NoError(t, err)
	root.Find("/World").Expand()
	root.Find("/World/Looks").Expand()
	expanded := root.ExpandedPaths()

	rebuilt, err := BuildTree(s)
	require.NoError(t, err)
	RestoreExpanded(rebuilt, append(expanded, "/Gone"))

	assert.Equal(t, expanded, rebuilt.ExpandedPaths())
}
