package ledger

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lightdeck/internal/config"
	"lightdeck/internal/domain"
)

func TestOpen_Memory(t *testing.T) {
	l, err := Open(config.MemoryHistory, "stage.yaml")
	require.NoError(t, err)
	defer l.Close()

	assert.Equal(t, config.MemoryHistory, l.Location())

	_, err = l.Push(t.Context(), domain.DeletionRecord{Paths: []string{"/World/Looks/Red"}, Timestamp: time.Now()})
	require.NoError(t, err)
	n, err := l.Len(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestOpen_DatabaseFile(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "history.db")

	l, err := Open(dbPath, filepath.Join(dir, "stage.yaml"))
	require.NoError(t, err)

	assert.Equal(t, dbPath, l.Location())
	require.NoError(t, l.SaveDefaults(t.Context(), map[string]domain.LightDefaults{
		"/World/lights/Office/Desk/Lamp": {Intensity: 800, ColorTemperature: 3000, Color: domain.White, Exposure: 1, Specular: 1},
	}))
	require.NoError(t, l.Close())

	// a second session over the same file sees the defaults
	l, err = Open(dbPath, filepath.Join(dir, "stage.yaml"))
	require.NoError(t, err)
	defer l.Close()
	got, err := l.LoadDefaults(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 800.0, got["/World/lights/Office/Desk/Lamp"].Intensity)
}
