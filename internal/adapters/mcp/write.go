package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"lightdeck/internal/application/commands"
)

// RegisterWriteTools adds the tools that modify the stage. Each successful
// call saves the stage.
func RegisterWriteTools(s *server.MCPServer, sess *Session) {
	s.AddTool(deleteMaterialsTool(), deleteMaterialsHandler(sess))
	s.AddTool(undoDeleteTool(), undoDeleteHandler(sess))
	s.AddTool(setLightTool(), setLightHandler(sess))
	s.AddTool(switchLightsTool(), switchLightsHandler(sess))
	s.AddTool(resetLightsTool(), resetLightsHandler(sess))
	s.AddTool(recordDefaultsTool(), recordDefaultsHandler(sess))
	s.AddTool(restoreDefaultsTool(), restoreDefaultsHandler(sess))
	s.AddTool(applySunTool(), applySunHandler(sess))
}

// --- delete_materials ---

func deleteMaterialsTool() mcp.Tool {
	return mcp.NewTool("delete_materials",
		mcp.WithDescription("Delete unused materials. Give material paths, or all=true to delete every deletable unused material. The batch is recorded and can be undone."),
		mcp.WithString("paths",
			mcp.Description("Comma separated material prim paths (e.g. /World/Looks/Red,/World/Looks/Blue)"),
		),
		mcp.WithBoolean("all",
			mcp.Description("Delete every deletable unused material"),
		),
	)
}

func deleteMaterialsHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		paths := splitPaths(req.GetString("paths", ""))
		all := req.GetBool("all", false)

		return sess.write("delete_materials", func() (string, error) {
			out, err := commands.NewDeleteMaterialsCommand(sess.materials, paths, all).Execute(ctx)
			if err != nil {
				return "", err
			}
			return out.Message, nil
		})
	}
}

// --- undo_delete ---

func undoDeleteTool() mcp.Tool {
	return mcp.NewTool("undo_delete",
		mcp.WithDescription("Restore the most recently deleted batch of materials as empty Material prims."),
	)
}

func undoDeleteHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return sess.write("undo_delete", func() (string, error) {
			out, err := commands.NewUndoDeleteCommand(sess.materials).Execute(ctx)
			if err != nil {
				return "", err
			}
			return out.Message, nil
		})
	}
}

// targetArgs are the arguments every light-editing tool takes
func targetArgs() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("group",
			mcp.Description("Lighting group prim path; every light below it is edited"),
		),
		mcp.WithString("paths",
			mcp.Description("Comma separated light prim paths, instead of a group"),
		),
	}
}

func lightTarget(req mcp.CallToolRequest) commands.LightTarget {
	return commands.LightTarget{
		Group: req.GetString("group", ""),
		Paths: splitPaths(req.GetString("paths", "")),
	}
}

func withTarget(opts ...mcp.ToolOption) []mcp.ToolOption {
	return append(targetArgs(), opts...)
}

// --- set_light ---

func setLightTool() mcp.Tool {
	return mcp.NewTool("set_light",
		append([]mcp.ToolOption{
			mcp.WithDescription("Set one property on a group of lights or on explicit lights."),
			mcp.WithString("property",
				mcp.Description("intensity, exposure, specular, color, colorTemperature or enableColorTemperature"),
				mcp.Required(),
			),
			mcp.WithString("value",
				mcp.Description("A number, true/false, or r,g,b for color"),
				mcp.Required(),
			),
		}, targetArgs()...)...,
	)
}

func setLightHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		target := lightTarget(req)
		prop := req.GetString("property", "")
		value := req.GetString("value", "")

		return sess.write("set_light", func() (string, error) {
			res, err := commands.NewSetLightCommand(sess.lights, target, prop, value).Execute(ctx)
			if err != nil {
				return "", err
			}
			return res.Message, nil
		})
	}
}

// --- switch_lights ---

func switchLightsTool() mcp.Tool {
	return mcp.NewTool("switch_lights",
		withTarget(
			mcp.WithDescription("Turn lights on or off through their visibility. Intensity is left alone."),
			mcp.WithBoolean("on",
				mcp.Description("true to turn on, false to turn off"),
				mcp.Required(),
			),
		)...,
	)
}

func switchLightsHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		target := lightTarget(req)
		on := req.GetBool("on", true)

		return sess.write("switch_lights", func() (string, error) {
			res, err := commands.NewSetLightsEnabledCommand(sess.lights, target, on).Execute(ctx)
			if err != nil {
				return "", err
			}
			return res.Message, nil
		})
	}
}

// --- reset_lights ---

func resetLightsTool() mcp.Tool {
	return mcp.NewTool("reset_lights",
		withTarget(
			mcp.WithDescription("Reset lights to factory values and turn them on."),
		)...,
	)
}

func resetLightsHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		target := lightTarget(req)
		return sess.write("reset_lights", func() (string, error) {
			res, err := commands.NewResetLightsCommand(sess.lights, target).Execute(ctx)
			if err != nil {
				return "", err
			}
			return res.Message, nil
		})
	}
}

// --- record_defaults / restore_defaults ---

func recordDefaultsTool() mcp.Tool {
	return mcp.NewTool("record_defaults",
		withTarget(
			mcp.WithDescription("Remember the current values of lights so restore_defaults can bring them back."),
		)...,
	)
}

func recordDefaultsHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		target := lightTarget(req)
		return sess.read(func() (string, error) {
			if sess.defaults == nil {
				return "", fmt.Errorf("no defaults store configured")
			}
			res, err := commands.NewRecordDefaultsCommand(sess.lights, sess.defaults, target).Execute(ctx)
			if err != nil {
				return "", err
			}
			return res.Message, nil
		})
	}
}

func restoreDefaultsTool() mcp.Tool {
	return mcp.NewTool("restore_defaults",
		withTarget(
			mcp.WithDescription("Re-apply the values saved by record_defaults."),
		)...,
	)
}

func restoreDefaultsHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		target := lightTarget(req)
		return sess.write("restore_defaults", func() (string, error) {
			if sess.defaults == nil {
				return "", fmt.Errorf("no defaults store configured")
			}
			res, err := commands.NewRestoreDefaultsCommand(sess.lights, sess.defaults, target).Execute(ctx)
			if err != nil {
				return "", err
			}
			return res.Message, nil
		})
	}
}

// --- apply_sun ---

func applySunTool() mcp.Tool {
	return mcp.NewTool("apply_sun",
		append([]mcp.ToolOption{
			mcp.WithDescription("Rotate a DistantLight to the sun position for a day, time and location, and adjust its intensity and color for the time of day."),
			mcp.WithString("light",
				mcp.Description("DistantLight prim path. Omit when the stage has exactly one."),
			),
		}, withSunOptions()...)...,
	)
}

func applySunHandler(sess *Session) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		light := req.GetString("light", "")
		opts := sunOptions(req)

		return sess.write("apply_sun", func() (string, error) {
			update, err := commands.NewApplySunCommand(sess.sun, light, opts).Execute(ctx)
			if err != nil {
				return "", err
			}
			state := "visible"
			if !update.TimeOfDay.Visible {
				state = "hidden, below the horizon"
			}
			return fmt.Sprintf("Sun %s at %s: altitude %.2f°, azimuth %.2f°, %s",
				update.Path, update.Time.Format("2006-01-02 15:04"),
				update.Position.Altitude, update.Position.Azimuth, state), nil
		})
	}
}
