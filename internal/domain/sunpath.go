package domain

import (
	"fmt"
	"math"
	"time"
)

// Sunpath defaults: midsummer noon in Changsha.
const (
	DefaultSunDay       = 172
	DefaultSunHour      = 12
	DefaultSunMinute    = 0
	DefaultSunLongitude = 112.94
	DefaultSunLatitude  = 28.12
)

// SunPosition is the sun's apparent position in degrees. Azimuth is measured
// clockwise from north.
type SunPosition struct {
	Altitude float64
	Azimuth  float64
}

// SunpathConfig holds the inputs of the sun simulation.
// Timezone is derived from Longitude and only refreshed by SetLongitude.
type SunpathConfig struct {
	DayOfYear int
	Hour      int
	Minute    int
	Latitude  float64
	Longitude float64
	Timezone  int
}

// NewSunpathConfig builds a config and derives its timezone
func NewSunpathConfig(day, hour, minute int, longitude, latitude float64) *SunpathConfig {
	return &SunpathConfig{
		DayOfYear: day,
		Hour:      hour,
		Minute:    minute,
		Latitude:  latitude,
		Longitude: longitude,
		Timezone:  TimezoneFor(longitude),
	}
}

// DefaultSunpathConfig returns the panel's initial sun settings
func DefaultSunpathConfig() *SunpathConfig {
	return NewSunpathConfig(DefaultSunDay, DefaultSunHour, DefaultSunMinute, DefaultSunLongitude, DefaultSunLatitude)
}

// TimezoneFor returns the nominal UTC offset in hours for a longitude.
// Halves round to even.
func TimezoneFor(longitude float64) int {
	return int(math.RoundToEven(longitude / 15))
}

func (c *SunpathConfig) SetDate(day int)         { c.DayOfYear = day }
func (c *SunpathConfig) SetHour(hour int)        { c.Hour = hour }
func (c *SunpathConfig) SetMinute(minute int)    { c.Minute = minute }
func (c *SunpathConfig) SetLatitude(lat float64) { c.Latitude = lat }
func (c *SunpathConfig) SetLongitude(lon float64) {
	c.Longitude = lon
	c.Timezone = TimezoneFor(lon)
}

// Validate checks the ranges the simulation accepts.
func (c *SunpathConfig) Validate() error {
	if c.DayOfYear < 1 || c.DayOfYear > 365 {
		return fmt.Errorf("day of year %d out of range 1..365", c.DayOfYear)
	}
	if c.Hour < 0 || c.Hour > 23 {
		return fmt.Errorf("hour %d out of range 0..23", c.Hour)
	}
	if c.Minute < 0 || c.Minute > 59 {
		return fmt.Errorf("minute %d out of range 0..59", c.Minute)
	}
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude %g out of range -90..90", c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude %g out of range -180..180", c.Longitude)
	}
	return nil
}

// Time returns the configured local time in the given year.
func (c *SunpathConfig) Time(year int) (time.Time, error) {
	month, day, err := SliderToDate(c.DayOfYear)
	if err != nil {
		return time.Time{}, err
	}
	zone := time.FixedZone(fmt.Sprintf("UTC%+d", c.Timezone), c.Timezone*3600)
	return time.Date(year, month, day, c.Hour, c.Minute, 0, 0, zone), nil
}

// cumulative day counts at the end of each month. February always has 28 days.
var monthEnds = [12]int{31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334, 365}

// SliderToDate maps a day-of-year slider value (1..365) to a month and day
// using a fixed non-leap calendar.
func SliderToDate(day int) (time.Month, int, error) {
	if day < 1 || day > 365 {
		return 0, 0, fmt.Errorf("day of year %d out of range 1..365", day)
	}
	start := 0
	for i, end := range monthEnds {
		if day <= end {
			return time.Month(i + 1), day - start, nil
		}
		start = end
	}
	return 0, 0, fmt.Errorf("day of year %d out of range 1..365", day)
}

// SunEuler is the rotation applied to the sun light: (-altitude, 180-azimuth, 0).
func SunEuler(pos SunPosition) Vec3 {
	return Vec3{-pos.Altitude, 180 - pos.Azimuth, 0}
}

// CalcXYZ converts altitude/azimuth in degrees to a unit direction (x, y up, z).
func CalcXYZ(altitude, azimuth float64) Vec3 {
	x := math.Sin((azimuth - 180) * math.Pi / 180)
	y := math.Cos((azimuth - 180) * math.Pi / 180)
	z := math.Tan(altitude * math.Pi / 180)
	length := math.Sqrt(x*x + y*y + z*z)
	return Vec3{-x / length, z / length, y / length}
}

// Altitude thresholds of the time-of-day ramp.
const (
	SunHiddenBelow  = -5.0
	SunDaylightFrom = 10.0
)

// TimeOfDay is the light setup derived from sun altitude
type TimeOfDay struct {
	Visible   bool
	Intensity float64
	Color     Vec3
	Exposure  float64
}

// TimeOfDayFor maps an altitude to visibility, intensity, color and exposure.
// The values are artistic defaults, not a sky model.
func TimeOfDayFor(altitude float64) TimeOfDay {
	switch {
	case altitude < SunHiddenBelow:
		return TimeOfDay{Visible: false}
	case altitude <= 0:
		// sunrise/sunset: ramps linearly over -5..0
		return TimeOfDay{
			Visible:   true,
			Intensity: math.Max(100, 1000*(altitude+5)/5),
			Color:     Vec3{1.0, 0.6, 0.4},
			Exposure:  -2.0,
		}
	case altitude < SunDaylightFrom:
		return TimeOfDay{
			Visible:   true,
			Intensity: 5000 + 1000*altitude,
			Color:     Vec3{1.0, 0.8, 0.6},
			Exposure:  -1.0,
		}
	default:
		return TimeOfDay{
			Visible:   true,
			Intensity: 30000,
			Color:     White,
			Exposure:  0.0,
		}
	}
}
