package application

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"lightdeck/internal/domain"
	"lightdeck/internal/ports"
)

// NoSunLight is the picker entry that means "no light chosen"
const NoSunLight = "Select DistantLight"

// Sun property read-back defaults
const (
	DefaultSunIntensity        = 3000.0
	DefaultSunColorTemperature = 6500.0
	DefaultSunExposure         = 0.0
	DefaultSunAngle            = 1.0
)

// SunProperties is the direct-edit state of the sun light
type SunProperties struct {
	Intensity        float64
	ColorTemperature float64
	Exposure         float64
	Angle            float64
	Color            domain.Vec3
}

// SunUpdate is what one recompute applied to the sun light
type SunUpdate struct {
	Path      string
	Time      time.Time
	Position  domain.SunPosition
	Rotation  domain.Vec3
	Direction domain.Vec3
	TimeOfDay domain.TimeOfDay
}

// SunController drives a distant light from a date, time and location.
type SunController struct {
	stage     ports.Stage
	commands  ports.CommandExecutor
	ephemeris ports.Ephemeris
	logger    *slog.Logger
	now       func() time.Time

	config *domain.SunpathConfig
	year   int
	path   string
}

// NewSunController creates a controller with the default sunpath settings
func NewSunController(stage ports.Stage, commands ports.CommandExecutor, ephemeris ports.Ephemeris, logger *slog.Logger) *SunController {
	if logger == nil {
		logger = slog.Default()
	}
	return &SunController{
		stage:     stage,
		commands:  commands,
		ephemeris: ephemeris,
		logger:    logger,
		now:       time.Now,
		config:    domain.DefaultSunpathConfig(),
		year:      time.Now().Year(),
	}
}

// SetClock replaces the clock used by SetToNow
func (s *SunController) SetClock(now func() time.Time) {
	s.now = now
	s.year = now().Year()
}

// Config returns the live sunpath settings. Use the config setters so the
// timezone follows the longitude.
func (s *SunController) Config() *domain.SunpathConfig {
	return s.config
}

// SetConfig replaces the sunpath settings
func (s *SunController) SetConfig(cfg domain.SunpathConfig) error {
	if err := cfg.Validate(); err != nil {
		return &ValidationError{Field: "sunpath", Message: err.Error()}
	}
	s.config = &cfg
	return nil
}

func (s *SunController) Year() int             { return s.year }
func (s *SunController) SetYear(year int)      { s.year = year }
func (s *SunController) SelectedLight() string { return s.path }

// DistantLights lists every DistantLight of the stage, sorted by path
func (s *SunController) DistantLights() ([]string, error) {
	prims, err := s.stage.Traverse()
	if err != nil {
		return nil, fmt.Errorf("failed to traverse stage: %w", err)
	}
	var paths []string
	for _, prim := range prims {
		if prim.IsValid() && prim.TypeTag() == domain.TypeDistantLight {
			paths = append(paths, prim.Path())
		}
	}
	slices.Sort(paths)
	return paths, nil
}

// SelectLight chooses the sun light. An empty path or NoSunLight clears it.
func (s *SunController) SelectLight(path string) error {
	if path == "" || path == NoSunLight {
		s.path = ""
		return nil
	}
	path = domain.CleanPath(path)
	prim, ok := s.stage.PrimAtPath(path)
	if !ok || !prim.IsValid() {
		return notFound(path)
	}
	if prim.TypeTag() != domain.TypeDistantLight {
		return &WrongTypeError{Path: path, Got: prim.TypeTag().String(), Expected: string(domain.TypeDistantLight)}
	}
	s.path = path
	return nil
}

// Time returns the configured local date and time
func (s *SunController) Time() (time.Time, error) {
	t, err := s.config.Time(s.year)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "dayOfYear", Message: err.Error()}
	}
	return t, nil
}

// Position asks the ephemeris for the sun position at the configured time
func (s *SunController) Position() (domain.SunPosition, error) {
	t, err := s.Time()
	if err != nil {
		return domain.SunPosition{}, err
	}
	pos, err := s.ephemeris.SunPosition(t, s.config.Latitude, s.config.Longitude)
	if err != nil {
		return domain.SunPosition{}, fmt.Errorf("failed to compute sun position: %w", err)
	}
	return pos, nil
}

// Recompute rotates the selected light to the current sun position and
// applies the time-of-day visibility, intensity, color and exposure.
func (s *SunController) Recompute() (*SunUpdate, error) {
	if s.path == "" {
		return nil, emptyState("no sun light selected")
	}
	prim, ok := s.stage.PrimAtPath(s.path)
	if !ok || !prim.IsValid() {
		return nil, notFound(s.path)
	}

	t, err := s.Time()
	if err != nil {
		return nil, err
	}
	pos, err := s.Position()
	if err != nil {
		return nil, err
	}

	update := &SunUpdate{
		Path:      s.path,
		Time:      t,
		Position:  pos,
		Rotation:  domain.SunEuler(pos),
		Direction: domain.CalcXYZ(pos.Altitude, pos.Azimuth),
		TimeOfDay: domain.TimeOfDayFor(pos.Altitude),
	}

	if err := s.commands.TransformPrimSRT(s.path, update.Rotation); err != nil {
		return nil, &HostError{Op: "rotate", Path: s.path, Err: err}
	}

	if !update.TimeOfDay.Visible {
		if err := s.setVisibility(domain.VisibilityInvisible); err != nil {
			return nil, err
		}
		s.logger.Debug("sun below horizon", "path", s.path, "altitude", pos.Altitude)
		return update, nil
	}

	if err := s.setVisibility(domain.VisibilityInherited); err != nil {
		return nil, err
	}
	if err := s.applyTimeOfDay(prim, update.TimeOfDay); err != nil {
		return nil, err
	}

	s.logger.Debug("sun updated",
		"path", s.path,
		"altitude", pos.Altitude,
		"azimuth", pos.Azimuth,
		"intensity", update.TimeOfDay.Intensity)
	return update, nil
}

func (s *SunController) setVisibility(token string) error {
	if err := s.commands.ChangeProperty(s.path, domain.VisibilityAttr, token); err != nil {
		return &HostError{Op: "change visibility", Path: s.path, Err: err}
	}
	return nil
}

// applyTimeOfDay writes bare intensity and exposure (creating them) and the
// first existing color attribute. Color is never created here.
func (s *SunController) applyTimeOfDay(prim ports.Prim, tod domain.TimeOfDay) error {
	if err := setOrCreate(prim, "intensity", domain.ValueFloat, tod.Intensity); err != nil {
		return err
	}
	for _, name := range []string{"color", "inputs:color"} {
		attr, ok := prim.Attribute(name)
		if !ok {
			continue
		}
		if err := attr.Set(tod.Color); err == nil {
			break
		}
	}
	return setOrCreate(prim, "exposure", domain.ValueFloat, tod.Exposure)
}

func setOrCreate(prim ports.Prim, name string, vt domain.ValueType, value any) error {
	attr, ok := prim.Attribute(name)
	if !ok {
		var err error
		attr, err = prim.CreateAttribute(name, vt)
		if err != nil {
			return fmt.Errorf("failed to create %s on %s: %w", name, prim.Path(), err)
		}
	}
	if err := attr.Set(value); err != nil {
		return fmt.Errorf("failed to set %s on %s: %w", name, prim.Path(), err)
	}
	return nil
}

// Hide makes the sun light invisible
func (s *SunController) Hide() error {
	if s.path == "" {
		return emptyState("no sun light selected")
	}
	return s.setVisibility(domain.VisibilityInvisible)
}

// Show recomputes the sun, which restores visibility when it is above the horizon
func (s *SunController) Show() (*SunUpdate, error) {
	return s.Recompute()
}

// Sunrise returns the sunrise time of the configured day
func (s *SunController) Sunrise() (time.Time, error) {
	t, err := s.Time()
	if err != nil {
		return time.Time{}, err
	}
	rise, err := s.ephemeris.Sunrise(t, s.config.Latitude, s.config.Longitude)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to compute sunrise: %w", err)
	}
	return rise.In(t.Location()), nil
}

// Sunset returns the sunset time of the configured day
func (s *SunController) Sunset() (time.Time, error) {
	t, err := s.Time()
	if err != nil {
		return time.Time{}, err
	}
	set, err := s.ephemeris.Sunset(t, s.config.Latitude, s.config.Longitude)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to compute sunset: %w", err)
	}
	return set.In(t.Location()), nil
}

// SetToSunrise moves the clock to sunrise of the configured day
func (s *SunController) SetToSunrise() error {
	rise, err := s.Sunrise()
	if err != nil {
		return err
	}
	s.config.SetHour(rise.Hour())
	s.config.SetMinute(rise.Minute())
	return nil
}

// SetToSunset moves the clock to sunset of the configured day
func (s *SunController) SetToSunset() error {
	set, err := s.Sunset()
	if err != nil {
		return err
	}
	s.config.SetHour(set.Hour())
	s.config.SetMinute(set.Minute())
	return nil
}

// SetToNow sets the date and time to the current moment in the configured
// timezone. December 31st of a leap year is out of the slider range.
func (s *SunController) SetToNow() error {
	zone := time.FixedZone("", s.config.Timezone*3600)
	now := s.now().In(zone)
	if now.YearDay() > 365 {
		return &ValidationError{Field: "dayOfYear", Message: fmt.Sprintf("day %d is outside the 365-day calendar", now.YearDay())}
	}
	s.year = now.Year()
	s.config.SetDate(now.YearDay())
	s.config.SetHour(now.Hour())
	s.config.SetMinute(now.Minute())
	return nil
}

func (s *SunController) sunPrim() (ports.Prim, error) {
	if s.path == "" {
		return nil, emptyState("no sun light selected")
	}
	prim, ok := s.stage.PrimAtPath(s.path)
	if !ok || !prim.IsValid() {
		return nil, notFound(s.path)
	}
	return prim, nil
}

// SetIntensity writes the bare intensity attribute
func (s *SunController) SetIntensity(intensity float64) error {
	prim, err := s.sunPrim()
	if err != nil {
		return err
	}
	return setOrCreate(prim, "intensity", domain.ValueFloat, intensity)
}

// SetColorTemperature enables color temperature and sets it
func (s *SunController) SetColorTemperature(kelvin float64) error {
	prim, err := s.sunPrim()
	if err != nil {
		return err
	}
	if err := setOrCreate(prim, "enableColorTemperature", domain.ValueBool, true); err != nil {
		return err
	}
	return setOrCreate(prim, "colorTemperature", domain.ValueFloat, kelvin)
}

// SetExposure writes the bare exposure attribute
func (s *SunController) SetExposure(exposure float64) error {
	prim, err := s.sunPrim()
	if err != nil {
		return err
	}
	return setOrCreate(prim, "exposure", domain.ValueFloat, exposure)
}

// SetAngle writes the angular diameter of the sun disc
func (s *SunController) SetAngle(angle float64) error {
	prim, err := s.sunPrim()
	if err != nil {
		return err
	}
	return setOrCreate(prim, "angle", domain.ValueFloat, angle)
}

// SetColor writes "color" or "inputs:color", creating the latter if neither exists
func (s *SunController) SetColor(color domain.Vec3) error {
	prim, err := s.sunPrim()
	if err != nil {
		return err
	}
	for _, name := range []string{"color", "inputs:color"} {
		if attr, ok := prim.Attribute(name); ok {
			if err := attr.Set(color); err == nil {
				return nil
			}
		}
	}
	return setOrCreate(prim, "inputs:color", domain.ValueColor3f, color)
}

// Properties reads the bare sun attributes with their defaults
func (s *SunController) Properties() (*SunProperties, error) {
	prim, err := s.sunPrim()
	if err != nil {
		return nil, err
	}
	return &SunProperties{
		Intensity:        readFloat(prim, "intensity", DefaultSunIntensity),
		ColorTemperature: readFloat(prim, "colorTemperature", DefaultSunColorTemperature),
		Exposure:         readFloat(prim, "exposure", DefaultSunExposure),
		Angle:            readFloat(prim, "angle", DefaultSunAngle),
		Color:            readColor(prim, "color", domain.White),
	}, nil
}

func readFloat(prim ports.Prim, name string, fallback float64) float64 {
	v, ok := readAuthored(prim, name, domain.ValueFloat)
	if !ok {
		return fallback
	}
	return v.(float64)
}

func readColor(prim ports.Prim, name string, fallback domain.Vec3) domain.Vec3 {
	v, ok := readAuthored(prim, name, domain.ValueColor3f)
	if !ok {
		return fallback
	}
	return v.(domain.Vec3)
}

func readAuthored(prim ports.Prim, name string, vt domain.ValueType) (any, bool) {
	attr, ok := prim.Attribute(name)
	if !ok {
		return nil, false
	}
	value, authored, err := attr.Get()
	if err != nil || !authored {
		return nil, false
	}
	coerced, err := domain.CoerceValue(vt, value)
	if err != nil {
		return nil, false
	}
	return coerced, true
}
