package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lightdeck/internal/domain"
)

func openStore(t *testing.T, dbPath, stagePath string) *Store {
	t.Helper()
	s := NewStore()
	require.NoError(t, s.OpenAt(dbPath, stagePath))
	t.Cleanup(func() { s.Close() })
	return s
}

func record(at time.Time, paths ...string) domain.DeletionRecord {
	materials := make([]domain.MaterialInfo, 0, len(paths))
	for _, p := range paths {
		materials = append(materials, domain.NewMaterialInfo(p, domain.TypeMaterial, false))
	}
	return domain.NewDeletionRecord(materials, at)
}

func TestStore_LedgerIsLIFO(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, filepath.Join(t.TempDir(), "history.db"), "/stages/lobby.yaml")
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	first, err := s.Push(ctx, record(at, "/World/Looks/A"))
	require.NoError(t, err)
	second, err := s.Push(ctx, record(at.Add(time.Minute), "/World/Looks/B", "/World/Looks/C"))
	require.NoError(t, err)
	assert.Less(t, first.ID, second.ID)

	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")

	got, err := s.Pop(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"/World/Looks/B", "/World/Looks/C"}, got.Paths)
	assert.Equal(t, []string{"B", "C"}, got.Names)
	assert.True(t, got.Timestamp.Equal(at.Add(time.Minute)))
	assert.Equal(t, domain.TypeMaterial, got.Snapshots[0].Type)
	assert.True(t, got.Snapshots[0].CanDelete)

	got, err = s.Pop(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, first.ID, got.ID)

	got, err = s.Pop(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "history.db")

	s := NewStore()
	require.NoError(t, s.OpenAt(dbPath, "/stages/lobby.yaml"))
	_, err := s.Push(ctx, record(time.Now(), "/World/Looks/A"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened := openStore(t, dbPath, "/stages/lobby.yaml")
	n, err := reopened.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStore_ScopedPerStage(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "history.db")
	lobby := openStore(t, dbPath, "/stages/lobby.yaml")
	office := openStore(t, dbPath, "/stages/office.yaml")

	_, err := lobby.Push(ctx, record(time.Now(), "/World/Looks/A"))
	require.NoError(t, err)

	n, err := office.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, office.Clear(ctx))
	n, err = lobby.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "clearing one stage leaves the other alone")

	require.NoError(t, lobby.Clear(ctx))
	n, err = lobby.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_Defaults(t *testing.T) {
	ctx := context.Background()
	s := openStore(t, filepath.Join(t.TempDir(), "history.db"), "/stages/lobby.yaml")

	empty, err := s.LoadDefaults(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	want := map[string]domain.LightDefaults{
		"/World/lights/Lobby/Spot": {
			Intensity:        800,
			ColorTemperature: 2700,
			Color:            domain.Vec3{1, 0.5, 0.25},
			Exposure:         -1,
			Specular:         0.5,
		},
	}
	require.NoError(t, s.SaveDefaults(ctx, want))
	got, err := s.LoadDefaults(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, s.SaveDefaults(ctx, map[string]domain.LightDefaults{}))
	got, err = s.LoadDefaults(ctx)
	require.NoError(t, err)
	assert.Empty(t, got, "saving replaces the previous set")
}

func TestStore_ClosedStoreErrors(t *testing.T) {
	s := NewStore()
	_, err := s.Len(context.Background())
	assert.Error(t, err)
	_, err = s.Push(context.Background(), record(time.Now(), "/World/Looks/A"))
	assert.Error(t, err)
}

func TestDatabasePath_UsesXDGDataHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	path := databasePath("/stages/lobby.yaml")
	assert.Equal(t, filepath.Join(dir, "lightdeck", hashStagePath("/stages/lobby.yaml")+".db"), path)
	assert.Len(t, hashStagePath("/stages/lobby.yaml"), 16)
	assert.NotEqual(t, hashStagePath("/stages/lobby.yaml"), hashStagePath("/stages/office.yaml"))
}
