package ports

import (
	"time"

	"lightdeck/internal/domain"
)

// Ephemeris computes solar positions. The timezone is carried by t.
type Ephemeris interface {
	SunPosition(t time.Time, latitude, longitude float64) (domain.SunPosition, error)
	Sunrise(t time.Time, latitude, longitude float64) (time.Time, error)
	Sunset(t time.Time, latitude, longitude float64) (time.Time, error)
}
