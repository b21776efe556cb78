package commands

import (
	"context"
	"fmt"
	"time"

	"lightdeck/internal/application"
	"lightdeck/internal/domain"
)

// Moments accepted by SunOptions.At
const (
	AtSunrise = "sunrise"
	AtSunset  = "sunset"
	AtNow     = "now"
)

// SunOptions overrides parts of the sun controller's settings. Nil fields
// keep the current value.
type SunOptions struct {
	Day       *int
	Hour      *int
	Minute    *int
	Latitude  *float64
	Longitude *float64
	Year      int
	At        string
}

// Validate checks the overrides
func (o SunOptions) Validate() error {
	if o.Day != nil {
		if err := application.ValidateRange("dayOfYear", float64(*o.Day), 1, 365); err != nil {
			return err
		}
	}
	if o.Hour != nil {
		if err := application.ValidateRange("hour", float64(*o.Hour), 0, 23); err != nil {
			return err
		}
	}
	if o.Minute != nil {
		if err := application.ValidateRange("minute", float64(*o.Minute), 0, 59); err != nil {
			return err
		}
	}
	if o.Latitude != nil {
		if err := application.ValidateRange("latitude", *o.Latitude, -90, 90); err != nil {
			return err
		}
	}
	if o.Longitude != nil {
		if err := application.ValidateRange("longitude", *o.Longitude, -180, 180); err != nil {
			return err
		}
	}
	switch o.At {
	case "", AtSunrise, AtSunset, AtNow:
	default:
		return &application.ValidationError{
			Field:   "at",
			Message: fmt.Sprintf("expected sunrise, sunset or now, got %q", o.At),
		}
	}
	return nil
}

// apply writes the overrides into the controller. Location is applied before
// the sunrise/sunset/now shortcuts so they use the new place.
func (o SunOptions) apply(sc *application.SunController) error {
	cfg := sc.Config()
	if o.Year != 0 {
		sc.SetYear(o.Year)
	}
	if o.Latitude != nil {
		cfg.SetLatitude(*o.Latitude)
	}
	if o.Longitude != nil {
		cfg.SetLongitude(*o.Longitude)
	}
	if o.Day != nil {
		cfg.SetDate(*o.Day)
	}
	if o.Hour != nil {
		cfg.SetHour(*o.Hour)
	}
	if o.Minute != nil {
		cfg.SetMinute(*o.Minute)
	}

	switch o.At {
	case AtSunrise:
		return sc.SetToSunrise()
	case AtSunset:
		return sc.SetToSunset()
	case AtNow:
		return sc.SetToNow()
	}
	return nil
}

// SunReport describes the sun for the configured moment
type SunReport struct {
	Time      time.Time
	Position  domain.SunPosition
	Rotation  domain.Vec3
	Direction domain.Vec3
	TimeOfDay domain.TimeOfDay
	Sunrise   time.Time
	Sunset    time.Time
	// DaylightNote is set instead of Sunrise/Sunset during polar day or night
	DaylightNote string
	Message      string
}

// SunReportCommand computes the sun position without touching the stage
type SunReportCommand struct {
	controller *application.SunController
	Options    SunOptions
}

// NewSunReportCommand creates a new SunReportCommand
func NewSunReportCommand(controller *application.SunController, opts SunOptions) *SunReportCommand {
	return &SunReportCommand{controller: controller, Options: opts}
}

// Execute runs the report
func (c *SunReportCommand) Execute(ctx context.Context) (*SunReport, error) {
	if err := c.Options.Validate(); err != nil {
		return nil, err
	}
	if err := c.Options.apply(c.controller); err != nil {
		return nil, err
	}

	t, err := c.controller.Time()
	if err != nil {
		return nil, err
	}
	pos, err := c.controller.Position()
	if err != nil {
		return nil, err
	}

	report := &SunReport{
		Time:      t,
		Position:  pos,
		Rotation:  domain.SunEuler(pos),
		Direction: domain.CalcXYZ(pos.Altitude, pos.Azimuth),
		TimeOfDay: domain.TimeOfDayFor(pos.Altitude),
		Message: fmt.Sprintf("Sun at %s: altitude %.2f°, azimuth %.2f°",
			t.Format("2006-01-02 15:04 MST"), pos.Altitude, pos.Azimuth),
	}

	rise, riseErr := c.controller.Sunrise()
	set, setErr := c.controller.Sunset()
	if riseErr != nil || setErr != nil {
		err := riseErr
		if err == nil {
			err = setErr
		}
		report.DaylightNote = err.Error()
	} else {
		report.Sunrise, report.Sunset = rise, set
	}
	return report, nil
}

// ApplySunCommand positions a distant light as the sun
type ApplySunCommand struct {
	controller *application.SunController
	Light      string
	Options    SunOptions
}

// NewApplySunCommand creates a new ApplySunCommand
func NewApplySunCommand(controller *application.SunController, light string, opts SunOptions) *ApplySunCommand {
	return &ApplySunCommand{controller: controller, Light: light, Options: opts}
}

// Validate checks the light path and the overrides
func (c *ApplySunCommand) Validate() error {
	if c.Light != "" {
		if err := application.ValidatePrimPath("lightPath", c.Light); err != nil {
			return err
		}
	}
	return c.Options.Validate()
}

// Execute selects the light, applies the overrides and recomputes the sun.
// Without an explicit light the stage's only DistantLight is used.
func (c *ApplySunCommand) Execute(ctx context.Context) (*application.SunUpdate, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	light := c.Light
	if light == "" && c.controller.SelectedLight() == "" {
		lights, err := c.controller.DistantLights()
		if err != nil {
			return nil, err
		}
		if len(lights) != 1 {
			return nil, &application.ValidationError{
				Field:   "lightPath",
				Message: fmt.Sprintf("stage has %d distant lights, choose one", len(lights)),
			}
		}
		light = lights[0]
	}
	if light != "" {
		if err := c.controller.SelectLight(light); err != nil {
			return nil, err
		}
	}

	if err := c.Options.apply(c.controller); err != nil {
		return nil, err
	}
	return c.controller.Recompute()
}

// SunPropertiesUpdate holds direct edits of the sun light. Nil fields are left alone.
type SunPropertiesUpdate struct {
	Intensity        *float64
	ColorTemperature *float64
	Exposure         *float64
	Angle            *float64
	Color            *domain.Vec3
}

// SetSunPropertiesCommand edits the sun light directly
type SetSunPropertiesCommand struct {
	controller *application.SunController
	Light      string
	Update     SunPropertiesUpdate
}

// NewSetSunPropertiesCommand creates a new SetSunPropertiesCommand
func NewSetSunPropertiesCommand(controller *application.SunController, light string, update SunPropertiesUpdate) *SetSunPropertiesCommand {
	return &SetSunPropertiesCommand{controller: controller, Light: light, Update: update}
}

// Execute applies the edits and returns the resulting properties
func (c *SetSunPropertiesCommand) Execute(ctx context.Context) (*application.SunProperties, error) {
	if err := application.ValidatePrimPath("lightPath", c.Light); err != nil {
		return nil, err
	}
	if err := c.controller.SelectLight(c.Light); err != nil {
		return nil, err
	}

	u := c.Update
	steps := []struct {
		set   bool
		apply func() error
	}{
		{u.Intensity != nil, func() error { return c.controller.SetIntensity(*u.Intensity) }},
		{u.ColorTemperature != nil, func() error { return c.controller.SetColorTemperature(*u.ColorTemperature) }},
		{u.Exposure != nil, func() error { return c.controller.SetExposure(*u.Exposure) }},
		{u.Angle != nil, func() error { return c.controller.SetAngle(*u.Angle) }},
		{u.Color != nil, func() error { return c.controller.SetColor(*u.Color) }},
	}
	for _, s := range steps {
		if !s.set {
			continue
		}
		if err := s.apply(); err != nil {
			return nil, err
		}
	}
	return c.controller.Properties()
}
