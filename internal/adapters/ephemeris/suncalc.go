// Package ephemeris adapts third-party solar calculators to ports.Ephemeris.
package ephemeris

import (
	"errors"
	"fmt"
	"math"
	"time"

	sunrise "github.com/nathan-osman/go-sunrise"
	"github.com/sixdouglas/suncalc"

	"lightdeck/internal/domain"
	"lightdeck/internal/ports"
)

var (
	// ErrPolarDay is returned for sunrise/sunset when the sun never sets
	ErrPolarDay = errors.New("sun stays above the horizon all day")
	// ErrPolarNight is returned for sunrise/sunset when the sun never rises
	ErrPolarNight = errors.New("sun stays below the horizon all day")
)

// horizon is the altitude of the sun's centre at sunrise and sunset
const horizon = -0.833

// Calculator implements ports.Ephemeris. Positions come from suncalc,
// sunrise and sunset from go-sunrise.
type Calculator struct{}

func New() *Calculator {
	return &Calculator{}
}

var _ ports.Ephemeris = (*Calculator)(nil)

// SunPosition returns altitude above the horizon and azimuth clockwise from
// north, in degrees.
func (c *Calculator) SunPosition(t time.Time, latitude, longitude float64) (domain.SunPosition, error) {
	if err := checkCoordinates(latitude, longitude); err != nil {
		return domain.SunPosition{}, err
	}
	return position(t, latitude, longitude), nil
}

// suncalc measures azimuth from south, positive towards west
func position(t time.Time, latitude, longitude float64) domain.SunPosition {
	pos := suncalc.GetPosition(t.UTC(), latitude, longitude)
	azimuth := math.Mod(deg(pos.Azimuth)+180, 360)
	if azimuth < 0 {
		azimuth += 360
	}
	return domain.SunPosition{
		Altitude: deg(pos.Altitude),
		Azimuth:  azimuth,
	}
}

// Sunrise returns sunrise of t's calendar day, in t's location
func (c *Calculator) Sunrise(t time.Time, latitude, longitude float64) (time.Time, error) {
	rise, _, err := riseSet(t, latitude, longitude)
	return rise, err
}

// Sunset returns sunset of t's calendar day, in t's location
func (c *Calculator) Sunset(t time.Time, latitude, longitude float64) (time.Time, error) {
	_, set, err := riseSet(t, latitude, longitude)
	return set, err
}

func riseSet(t time.Time, latitude, longitude float64) (time.Time, time.Time, error) {
	if err := checkCoordinates(latitude, longitude); err != nil {
		return time.Time{}, time.Time{}, err
	}
	y, m, d := t.Date()
	rise, set := sunrise.SunriseSunset(latitude, longitude, y, m, d)
	if rise.IsZero() || set.IsZero() {
		return time.Time{}, time.Time{}, polarError(t, latitude, longitude)
	}
	return rise.Round(time.Second).In(t.Location()), set.Round(time.Second).In(t.Location()), nil
}

// polarError tells polar day from polar night by the altitude at local
// solar noon.
func polarError(t time.Time, latitude, longitude float64) error {
	y, m, d := t.Date()
	noon := time.Date(y, m, d, 12, 0, 0, 0, time.UTC).
		Add(-time.Duration(longitude / 15 * float64(time.Hour)))
	cause := ErrPolarNight
	if position(noon, latitude, longitude).Altitude > horizon {
		cause = ErrPolarDay
	}
	return fmt.Errorf("%s at %.2f,%.2f: %w", t.Format("2006-01-02"), latitude, longitude, cause)
}

func checkCoordinates(latitude, longitude float64) error {
	if latitude < -90 || latitude > 90 {
		return fmt.Errorf("latitude %.2f out of range -90..90", latitude)
	}
	if longitude < -180 || longitude > 180 {
		return fmt.Errorf("longitude %.2f out of range -180..180", longitude)
	}
	return nil
}

func deg(r float64) float64 { return r * 180 / math.Pi }
