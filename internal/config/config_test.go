package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lightdeck/internal/domain"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LIGHTDECK_STAGE", "")
	t.Setenv("LIGHTDECK_HISTORY", "")
	t.Setenv("LIGHTDECK_CONFIG", "")
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, domain.DefaultSunpathConfig(), cfg.Sun.Sunpath())
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
stage = "~/stages/lobby.yaml"

[log]
level = "debug"

[sun]
latitude = 51.5
longitude = -0.12
light = "/World/Sun"
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "~/stages/lobby.yaml", cfg.Stage)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 51.5, cfg.Sun.Latitude)
	assert.Equal(t, domain.DefaultSunDay, cfg.Sun.Day, "unset keys keep their defaults")
	assert.Equal(t, "/World/Sun", cfg.Sun.Light)
	assert.Equal(t, 0, cfg.Sun.Sunpath().Timezone)

	t.Setenv("LIGHTDECK_STAGE", "/tmp/office.yaml")
	t.Setenv("LIGHTDECK_HISTORY", MemoryHistory)
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/office.yaml", cfg.Stage)
	assert.Equal(t, MemoryHistory, cfg.History)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name    string
		content string
	}{
		{"bad toml", "stage = "},
		{"day out of range", "[sun]\nday = 366\n"},
		{"latitude out of range", "[sun]\nlatitude = 95.0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestPath(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	assert.Equal(t, filepath.Join(dir, "lightdeck", "config.toml"), Path())

	t.Setenv("LIGHTDECK_CONFIG", "/etc/lightdeck.toml")
	assert.Equal(t, "/etc/lightdeck.toml", Path())
}

func TestSave_RoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.History = "/tmp/history.db"
	cfg.Lights.Root = "/World/lights"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
