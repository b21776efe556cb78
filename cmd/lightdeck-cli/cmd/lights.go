package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"lightdeck/internal/application"
	"lightdeck/internal/application/commands"
)

var (
	lightsRoot  string
	lightsGroup string
)

var lightsCmd = &cobra.Command{
	Use:   "lights",
	Short: "Browse and edit lights by room and lighting group",
	Long: `Lights are organised as lights root, rooms, lighting groups and lights.
Commands that change lights act on every light of --group, or on the
light paths given as arguments.`,
}

var lightsRoomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "List the rooms under the lights root",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rooms, err := commands.NewListRoomsCommand(current.lights, lightsRoot).Execute(context.Background())
		if err != nil {
			return err
		}
		printNames(cmd.OutOrStdout(), rooms)
		return nil
	},
}

var lightsGroupsCmd = &cobra.Command{
	Use:   "groups <room>",
	Short: "List the lighting groups of a room",
	Long: `List the lighting groups of a room. The room is a prim path, or a
name under the lights root.

Examples:
  lightdeck-cli lights groups Office
  lightdeck-cli lights groups /World/lights/Office`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		groups, err := commands.NewListGroupsCommand(current.lights, underRoot(args[0])).Execute(context.Background())
		if err != nil {
			return err
		}
		printNames(cmd.OutOrStdout(), groups)
		return nil
	},
}

var lightsListCmd = &cobra.Command{
	Use:   "list [path]",
	Short: "Show every light under path, or on the whole stage",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		states, err := commands.NewListLightsCommand(current.lights, path).Execute(context.Background())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, st := range states {
			printLight(out, st)
		}
		fmt.Fprintf(out, "%d light(s)\n", len(states))
		return nil
	},
}

var lightsGetCmd = &cobra.Command{
	Use:   "get <light>",
	Short: "Show one light",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := commands.NewGetLightCommand(current.lights, args[0]).Execute(context.Background())
		if err != nil {
			return err
		}
		printLight(cmd.OutOrStdout(), st)
		return nil
	},
}

var lightsSetCmd = &cobra.Command{
	Use:   "set <property> <value> [light...]",
	Short: "Set a property on a group or on lights",
	Long: `Set one property on every light of --group, or on the given lights.

Properties: intensity, exposure, specular, color, colorTemperature,
enableColorTemperature. Colors are written as r,g,b.

Examples:
  lightdeck-cli lights set intensity 20000 --group /World/lights/Office/Desk
  lightdeck-cli lights set color 1,0.9,0.8 /World/lights/Office/Desk/Lamp`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := lightTarget(args[2:])
		result, err := commands.NewSetLightCommand(current.lights, target, args[0], args[1]).Execute(context.Background())
		return finishLights(cmd, result, err)
	},
}

func switchCmd(on bool) *cobra.Command {
	use, short := "off [light...]", "Turn lights off"
	if on {
		use, short = "on [light...]", "Turn lights on"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := commands.NewSetLightsEnabledCommand(current.lights, lightTarget(args), on).Execute(context.Background())
			return finishLights(cmd, result, err)
		},
	}
}

var lightsResetCmd = &cobra.Command{
	Use:   "reset [light...]",
	Short: "Reset lights to factory values",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewResetLightsCommand(current.lights, lightTarget(args)).Execute(context.Background())
		return finishLights(cmd, result, err)
	},
}

var lightsRecordCmd = &cobra.Command{
	Use:   "record [light...]",
	Short: "Record the current values as the lights' defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewRecordDefaultsCommand(current.lights, current.store, lightTarget(args)).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), result.Message)
		return nil
	},
}

var lightsRestoreCmd = &cobra.Command{
	Use:   "restore [light...]",
	Short: "Restore recorded defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewRestoreDefaultsCommand(current.lights, current.store, lightTarget(args)).Execute(context.Background())
		return finishLights(cmd, result, err)
	},
}

func lightTarget(paths []string) commands.LightTarget {
	if lightsGroup != "" {
		return commands.LightTarget{Group: underRoot(lightsGroup), Paths: paths}
	}
	return commands.LightTarget{Paths: paths}
}

// underRoot resolves a bare room or "room/group" name against the lights root
func underRoot(path string) string {
	if strings.HasPrefix(path, "/") {
		return path
	}
	root := lightsRoot
	if root == "" {
		root = current.lights.FindLightsPath()
	}
	return strings.TrimSuffix(root, "/") + "/" + path
}

// finishLights saves the stage after a light edit and reports it
func finishLights(cmd *cobra.Command, result *commands.LightsResult, err error) error {
	if err != nil {
		return err
	}
	if err := current.save(); err != nil {
		return fmt.Errorf("%s but saving the stage failed: %w", result.Message, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), result.Message)
	return nil
}

func printNames(w io.Writer, names []string) {
	if len(names) == 0 {
		fmt.Fprintln(w, "No results.")
		return
	}
	for _, n := range names {
		fmt.Fprintln(w, n)
	}
}

func printLight(w io.Writer, st *application.LightState) {
	state := "on"
	if !st.Enabled {
		state = "off"
	}
	temperature := "-"
	if st.EnableColorTemperature {
		temperature = fmt.Sprintf("%gK", st.ColorTemperature)
	}
	fmt.Fprintf(w, "%-48s %-14s %-3s intensity=%g exposure=%g specular=%g color=%g,%g,%g temperature=%s\n",
		st.Path, st.Type, state,
		st.Intensity, st.Exposure, st.Specular,
		st.Color[0], st.Color[1], st.Color[2], temperature)
}

func init() {
	lightsCmd.PersistentFlags().StringVar(&lightsRoot, "root", "", "lights root (detected when empty)")
	for _, c := range []*cobra.Command{lightsSetCmd, lightsResetCmd, lightsRecordCmd, lightsRestoreCmd} {
		c.Flags().StringVarP(&lightsGroup, "group", "g", "", "lighting group path, or room/group under the lights root")
	}
	on, off := switchCmd(true), switchCmd(false)
	on.Flags().StringVarP(&lightsGroup, "group", "g", "", "lighting group path, or room/group under the lights root")
	off.Flags().StringVarP(&lightsGroup, "group", "g", "", "lighting group path, or room/group under the lights root")

	lightsCmd.AddCommand(lightsRoomsCmd, lightsGroupsCmd, lightsListCmd, lightsGetCmd,
		lightsSetCmd, on, off, lightsResetCmd, lightsRecordCmd, lightsRestoreCmd)
	rootCmd.AddCommand(lightsCmd)
}
