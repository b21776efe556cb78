package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lightdeck/internal/domain"
)

func record(paths ...string) domain.DeletionRecord {
	materials := make([]domain.MaterialInfo, 0, len(paths))
	for _, p := range paths {
		materials = append(materials, domain.NewMaterialInfo(p, domain.TypeMaterial, false))
	}
	return domain.NewDeletionRecord(materials, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
}

func TestHistoryStore_LIFO(t *testing.T) {
	ctx := context.Background()
	h := NewHistoryStore()

	first, err := h.Push(ctx, record("/World/Looks/A"))
	require.NoError(t, err)
	second, err := h.Push(ctx, record("/World/Looks/B", "/World/Looks/C"))
	require.NoError(t, err)
	assert.Less(t, first.ID, second.ID)

	n, err := h.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	list, err := h.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")

	rec, err := h.Pop(ctx)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, []string{"/World/Looks/B", "/World/Looks/C"}, rec.Paths)

	rec, err = h.Pop(ctx)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, first.ID, rec.ID)

	rec, err = h.Pop(ctx)
	require.NoError(t, err)
	assert.Nil(t, rec, "empty ledger pops nil")
}

func TestHistoryStore_Clear(t *testing.T) {
	ctx := context.Background()
	h := NewHistoryStore()
	_, err := h.Push(ctx, record("/World/Looks/A"))
	require.NoError(t, err)

	require.NoError(t, h.Clear(ctx))
	n, err := h.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestHistoryStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHistoryStore().Push(ctx, record("/World/Looks/A"))
	assert.ErrorIs(t, err, context.Canceled)
}
