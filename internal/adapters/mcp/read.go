package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"lightdeck/internal/application"
	"lightdeck/internal/application/commands"
	"lightdeck/internal/domain"
)

// RegisterReadTools adds the tools that never modify the stage.
func RegisterReadTools(s *server.MCPServer, sess *Session) {
	s.AddTool(treeTool(), treeHandler(sess))
	s.AddTool(scanMaterialsTool(), scanMaterialsHandler(sess))
	s.AddTool(historyTool(), historyHandler(sess))
	s.AddTool(listRoomsTool(), listRoomsHandler(sess))
	s.AddTool(listLightsTool(), listLightsHandler(sess))
	s.AddTool(sunPositionTool(), sunPositionHandler(sess))
}

// --- tree ---

func treeTool() mcp.Tool {
	return mcp.NewTool("tree",
		mcp.WithDescription("Display the stage hierarchy as a tree of prim names and types."),
		mcp.WithString("root",
			mcp.Description("Prim path to start from (e.g. /World/Looks). Omit for the whole stage."),
		),
	)
}

func treeHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return sess.read(func() (string, error) {
			root, err := commands.NewTreeCommand(sess.stage, req.GetString("root", "")).Execute(ctx)
			if err != nil {
				return "", err
			}
			var sb strings.Builder
			renderTree(&sb, root, "")
			return sb.String(), nil
		})
	}
}

func renderTree(sb *strings.Builder, node *domain.TreeNode, prefix string) {
	if node.Path != "/" {
		fmt.Fprintf(sb, "%s%s", prefix, node.Name)
		if node.Type != domain.TypeNone {
			fmt.Fprintf(sb, " (%s)", node.Type)
		}
		sb.WriteByte('\n')
		prefix += "  "
	}
	for _, child := range node.Children {
		renderTree(sb, child, prefix)
	}
}

// --- scan_materials ---

func scanMaterialsTool() mcp.Tool {
	return mcp.NewTool("scan_materials",
		mcp.WithDescription("Find material prims that no prim binds. Ancestral materials (from references or instances) are listed but cannot be deleted."),
	)
}

func scanMaterialsHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return sess.read(func() (string, error) {
			result, err := commands.NewScanMaterialsCommand(sess.materials).Execute(ctx)
			if err != nil {
				return "", err
			}
			var sb strings.Builder
			sb.WriteString(result.Message)
			sb.WriteByte('\n')
			for _, m := range result.Unused {
				fmt.Fprintf(&sb, "%s  %s", m.Path, m.Type)
				if m.IsAncestral {
					sb.WriteString("  [ancestral]")
				}
				sb.WriteByte('\n')
			}
			return sb.String(), nil
		})
	}
}

// --- deletion_history ---

func historyTool() mcp.Tool {
	return mcp.NewTool("deletion_history",
		mcp.WithDescription("List the material deletion batches that undo_delete can restore, newest first."),
	)
}

func historyHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return sess.read(func() (string, error) {
			result, err := commands.NewHistoryCommand(sess.materials, false).Execute(ctx)
			if err != nil {
				return "", err
			}
			var sb strings.Builder
			sb.WriteString(result.Message)
			sb.WriteByte('\n')
			for _, rec := range result.Records {
				fmt.Fprintf(&sb, "#%d  %s  %s\n", rec.ID, rec.Timestamp.Format("2006-01-02 15:04:05"), strings.Join(rec.Paths, ", "))
			}
			return sb.String(), nil
		})
	}
}

// --- list_rooms ---

func listRoomsTool() mcp.Tool {
	return mcp.NewTool("list_rooms",
		mcp.WithDescription("List rooms under the lights root, or the lighting groups of a room."),
		mcp.WithString("room",
			mcp.Description("Room prim path (e.g. /World/lights/Office). Omit to list rooms."),
		),
	)
}

func listRoomsHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return sess.read(func() (string, error) {
			var names []string
			var err error
			if room := req.GetString("room", ""); room != "" {
				names, err = commands.NewListGroupsCommand(sess.lights, room).Execute(ctx)
			} else {
				names, err = commands.NewListRoomsCommand(sess.lights, "").Execute(ctx)
			}
			if err != nil {
				return "", err
			}
			if len(names) == 0 {
				return "No results.", nil
			}
			return strings.Join(names, "\n"), nil
		})
	}
}

// --- list_lights ---

func listLightsTool() mcp.Tool {
	return mcp.NewTool("list_lights",
		mcp.WithDescription("Show every light below a prim with its enabled state, color, intensity, exposure and color temperature."),
		mcp.WithString("path",
			mcp.Description("Room or group prim path. Omit for every light of the stage."),
		),
	)
}

func listLightsHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return sess.read(func() (string, error) {
			states, err := commands.NewListLightsCommand(sess.lights, req.GetString("path", "")).Execute(ctx)
			if err != nil {
				return "", err
			}
			if len(states) == 0 {
				return "No lights found.", nil
			}
			var sb strings.Builder
			for _, st := range states {
				sb.WriteString(formatLight(st))
				sb.WriteByte('\n')
			}
			return sb.String(), nil
		})
	}
}

func formatLight(st *application.LightState) string {
	state := "on"
	if !st.Enabled {
		state = "off"
	}
	return fmt.Sprintf("%s  %s  %s  color=%.3g,%.3g,%.3g intensity=%g exposure=%g specular=%g temperature=%gK(%t)",
		st.Path, st.Type, state,
		st.Color[0], st.Color[1], st.Color[2],
		st.Intensity, st.Exposure, st.Specular,
		st.ColorTemperature, st.EnableColorTemperature)
}

// --- sun_position ---

func sunPositionTool() mcp.Tool {
	return mcp.NewTool("sun_position",
		append([]mcp.ToolOption{
			mcp.WithDescription("Compute the sun altitude and azimuth, sunrise and sunset for a day, time and location without changing the stage."),
		}, withSunOptions()...)...,
	)
}

func sunPositionHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return sess.read(func() (string, error) {
			report, err := commands.NewSunReportCommand(sess.sun, sunOptions(req)).Execute(ctx)
			if err != nil {
				return "", err
			}
			var sb strings.Builder
			sb.WriteString(report.Message)
			sb.WriteByte('\n')
			if report.DaylightNote != "" {
				fmt.Fprintf(&sb, "%s\n", report.DaylightNote)
			} else {
				fmt.Fprintf(&sb, "Sunrise %s, sunset %s\n", report.Sunrise.Format("15:04"), report.Sunset.Format("15:04"))
			}
			fmt.Fprintf(&sb, "Rotation %.2f, %.2f, %.2f\n", report.Rotation[0], report.Rotation[1], report.Rotation[2])
			return sb.String(), nil
		})
	}
}

// withSunOptions are the arguments shared by sun_position and apply_sun
func withSunOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithNumber("day", mcp.Description("Day of year, 1-365")),
		mcp.WithNumber("hour", mcp.Description("Hour, 0-23, local to the longitude's timezone")),
		mcp.WithNumber("minute", mcp.Description("Minute, 0-59")),
		mcp.WithNumber("latitude", mcp.Description("Latitude in degrees, -90 to 90")),
		mcp.WithNumber("longitude", mcp.Description("Longitude in degrees, -180 to 180")),
		mcp.WithString("at", mcp.Description("Shortcut: sunrise, sunset or now")),
	}
}

func sunOptions(req mcp.CallToolRequest) commands.SunOptions {
	args := req.GetArguments()
	opts := commands.SunOptions{At: req.GetString("at", "")}
	intArg := func(name string) *int {
		if _, ok := args[name]; !ok {
			return nil
		}
		v := int(req.GetFloat(name, 0))
		return &v
	}
	floatArg := func(name string) *float64 {
		if _, ok := args[name]; !ok {
			return nil
		}
		v := req.GetFloat(name, 0)
		return &v
	}
	opts.Day = intArg("day")
	opts.Hour = intArg("hour")
	opts.Minute = intArg("minute")
	opts.Latitude = floatArg("latitude")
	opts.Longitude = floatArg("longitude")
	return opts
}
