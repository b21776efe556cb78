package memory

import (
	"context"
	"maps"
	"sync"

	"lightdeck/internal/domain"
	"lightdeck/internal/ports"
)

// DefaultsStore keeps recorded light defaults in memory
type DefaultsStore struct {
	mu       sync.Mutex
	defaults map[string]domain.LightDefaults
}

func NewDefaultsStore() *DefaultsStore {
	return &DefaultsStore{defaults: make(map[string]domain.LightDefaults)}
}

var _ ports.DefaultsStore = (*DefaultsStore)(nil)

func (d *DefaultsStore) SaveDefaults(ctx context.Context, defaults map[string]domain.LightDefaults) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.defaults = maps.Clone(defaults)
	return nil
}

func (d *DefaultsStore) LoadDefaults(ctx context.Context) (map[string]domain.LightDefaults, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	out := maps.Clone(d.defaults)
	if out == nil {
		out = make(map[string]domain.LightDefaults)
	}
	return out, nil
}
