package ports

import (
	"context"

	"lightdeck/internal/domain"
)

// DefaultsStore keeps recorded light defaults between sessions.
type DefaultsStore interface {
	SaveDefaults(ctx context.Context, defaults map[string]domain.LightDefaults) error
	LoadDefaults(ctx context.Context) (map[string]domain.LightDefaults, error)
}
