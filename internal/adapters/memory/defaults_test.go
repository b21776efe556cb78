package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lightdeck/internal/domain"
)

func TestDefaultsStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	d := NewDefaultsStore()

	got, err := d.LoadDefaults(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	saved := map[string]domain.LightDefaults{"/World/lights/Lamp": {Intensity: 10, Color: domain.White}}
	require.NoError(t, d.SaveDefaults(ctx, saved))

	saved["/World/lights/Other"] = domain.LightDefaults{}
	got, err = d.LoadDefaults(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1, "the store keeps its own copy")

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.Error(t, d.SaveDefaults(cancelled, saved))
}
