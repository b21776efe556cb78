package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"lightdeck/internal/application/commands"
	"lightdeck/internal/domain"
)

var (
	sunDay       int
	sunHour      int
	sunMinute    int
	sunLatitude  float64
	sunLongitude float64
	sunYear      int
	sunAt        string
	sunLight     string

	sunIntensity   float64
	sunTemperature float64
	sunExposure    float64
	sunAngle       float64
	sunColor       string
)

var sunCmd = &cobra.Command{
	Use:   "sun",
	Short: "Compute the sun position and drive a distant light with it",
	Long: `Date, time and location default to the [sun] section of the config.
Flags override them for one invocation.`,
}

var sunShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the sun position without changing the stage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return showSun(cmd, sunOptions(cmd.Flags()))
	},
}

func daylightCmd(at string) *cobra.Command {
	return &cobra.Command{
		Use:   at,
		Short: fmt.Sprintf("Show the sun at %s", at),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := sunOptions(cmd.Flags())
			opts.At = at
			return showSun(cmd, opts)
		},
	}
}

var sunApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Rotate a distant light to the sun position and light it for the time of day",
	Long: `Rotate a distant light to the sun position and set its visibility,
intensity, exposure and color for the time of day. Without --light the
configured sun light, or the stage's only DistantLight, is used.

Examples:
  lightdeck-cli sun apply --day 172 --hour 18
  lightdeck-cli sun apply --light /World/Sun --at sunset`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		light := sunLight
		if light == "" {
			light = current.cfg.Sun.Light
		}
		update, err := commands.NewApplySunCommand(current.sun, light, sunOptions(cmd.Flags())).Execute(context.Background())
		if err != nil {
			return err
		}
		msg := fmt.Sprintf("Sun %s at %s: altitude %.2f°, azimuth %.2f°",
			update.Path, update.Time.Format("2006-01-02 15:04 MST"), update.Position.Altitude, update.Position.Azimuth)
		if !update.TimeOfDay.Visible {
			msg += ", below the horizon"
		}
		if err := current.save(); err != nil {
			return fmt.Errorf("%s but saving the stage failed: %w", msg, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	},
}

var sunSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Edit the sun light's intensity, temperature, exposure, angle or color",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		var update commands.SunPropertiesUpdate
		if flags.Changed("intensity") {
			update.Intensity = &sunIntensity
		}
		if flags.Changed("temperature") {
			update.ColorTemperature = &sunTemperature
		}
		if flags.Changed("exposure") {
			update.Exposure = &sunExposure
		}
		if flags.Changed("angle") {
			update.Angle = &sunAngle
		}
		if flags.Changed("color") {
			v, err := commands.ParsePropertyValue(domain.PropColor, sunColor)
			if err != nil {
				return err
			}
			color := v.(domain.Vec3)
			update.Color = &color
		}

		light := sunLight
		if light == "" {
			light = current.cfg.Sun.Light
		}
		props, err := commands.NewSetSunPropertiesCommand(current.sun, light, update).Execute(context.Background())
		if err != nil {
			return err
		}
		if err := current.save(); err != nil {
			return fmt.Errorf("sun light updated but saving the stage failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: intensity=%g temperature=%gK exposure=%g angle=%g\n",
			light, props.Intensity, props.ColorTemperature, props.Exposure, props.Angle)
		return nil
	},
}

func showSun(cmd *cobra.Command, opts commands.SunOptions) error {
	report, err := commands.NewSunReportCommand(current.sun, opts).Execute(context.Background())
	if err != nil {
		return err
	}
	printReport(cmd.OutOrStdout(), report)
	return nil
}

func printReport(w io.Writer, r *commands.SunReport) {
	fmt.Fprintln(w, r.Message)
	if r.DaylightNote != "" {
		fmt.Fprintln(w, r.DaylightNote)
	} else {
		fmt.Fprintf(w, "Sunrise %s, sunset %s\n", r.Sunrise.Format("15:04"), r.Sunset.Format("15:04"))
	}
	fmt.Fprintf(w, "Rotation %.2f,%.2f,%.2f  direction %.3f,%.3f,%.3f\n",
		r.Rotation[0], r.Rotation[1], r.Rotation[2],
		r.Direction[0], r.Direction[1], r.Direction[2])
	if r.TimeOfDay.Visible {
		fmt.Fprintf(w, "Light intensity %g, exposure %g\n", r.TimeOfDay.Intensity, r.TimeOfDay.Exposure)
	} else {
		fmt.Fprintln(w, "Below the horizon, the sun light is hidden")
	}
}

// sunOptions turns the flags that were set into overrides
func sunOptions(flags *pflag.FlagSet) commands.SunOptions {
	opts := commands.SunOptions{Year: sunYear, At: sunAt}
	if flags.Changed("day") {
		opts.Day = &sunDay
	}
	if flags.Changed("hour") {
		opts.Hour = &sunHour
	}
	if flags.Changed("minute") {
		opts.Minute = &sunMinute
	}
	if flags.Changed("lat") {
		opts.Latitude = &sunLatitude
	}
	if flags.Changed("lon") {
		opts.Longitude = &sunLongitude
	}
	return opts
}

func addSunFlags(c *cobra.Command, withAt bool) {
	f := c.Flags()
	f.IntVar(&sunDay, "day", 0, "day of year, 1-365")
	f.IntVar(&sunHour, "hour", 0, "local hour, 0-23")
	f.IntVar(&sunMinute, "minute", 0, "minute, 0-59")
	f.Float64Var(&sunLatitude, "lat", 0, "latitude in degrees")
	f.Float64Var(&sunLongitude, "lon", 0, "longitude in degrees, also picks the timezone")
	f.IntVar(&sunYear, "year", 0, "year (default the current year)")
	if withAt {
		f.StringVar(&sunAt, "at", "", "jump to sunrise, sunset or now")
	}
}

func init() {
	addSunFlags(sunShowCmd, true)
	addSunFlags(sunApplyCmd, true)
	sunrise, sunset := daylightCmd(commands.AtSunrise), daylightCmd(commands.AtSunset)
	addSunFlags(sunrise, false)
	addSunFlags(sunset, false)

	sunApplyCmd.Flags().StringVarP(&sunLight, "light", "l", "", "distant light to drive")
	sunSetCmd.Flags().StringVarP(&sunLight, "light", "l", "", "distant light to edit")
	sunSetCmd.Flags().Float64Var(&sunIntensity, "intensity", 0, "intensity")
	sunSetCmd.Flags().Float64Var(&sunTemperature, "temperature", 0, "color temperature in kelvin")
	sunSetCmd.Flags().Float64Var(&sunExposure, "exposure", 0, "exposure")
	sunSetCmd.Flags().Float64Var(&sunAngle, "angle", 0, "angular size in degrees")
	sunSetCmd.Flags().StringVar(&sunColor, "color", "", "color as r,g,b")

	sunCmd.AddCommand(sunShowCmd, sunrise, sunset, sunApplyCmd, sunSetCmd)
	rootCmd.AddCommand(sunCmd)
}
