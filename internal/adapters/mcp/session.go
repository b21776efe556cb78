package mcp

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"

	"lightdeck/internal/application"
	"lightdeck/internal/ports"
)

// Session is the loaded stage shared by every tool. Tool calls are
// serialised: the managers keep selection state between calls.
type Session struct {
	mu sync.Mutex

	stage     ports.Stage
	materials *application.MaterialManager
	lights    *application.LightManager
	sun       *application.SunController
	defaults  ports.DefaultsStore
	save      func() error
	logger    *slog.Logger
}

// SessionDeps are the ports a Session is built from
type SessionDeps struct {
	Stage     ports.Stage
	Commands  ports.CommandExecutor
	History   ports.HistoryStore
	Defaults  ports.DefaultsStore
	Ephemeris ports.Ephemeris
	// LightsRoot pins the lights root instead of detecting it
	LightsRoot string
	// Save persists the stage after a mutating tool; nil keeps edits in memory
	Save   func() error
	Logger *slog.Logger
}

// NewSession creates a session over a loaded stage
func NewSession(deps SessionDeps) *Session {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	lights := application.NewLightManager(deps.Stage, deps.Commands, logger)
	lights.SetLightsPath(deps.LightsRoot)
	return &Session{
		stage:     deps.Stage,
		materials: application.NewMaterialManager(deps.Stage, deps.Commands, deps.History, logger),
		lights:    lights,
		sun:       application.NewSunController(deps.Stage, deps.Commands, deps.Ephemeris, logger),
		defaults:  deps.Defaults,
		save:      deps.Save,
		logger:    logger,
	}
}

// SunController exposes the sun controller so callers can seed its settings
func (s *Session) SunController() *application.SunController {
	return s.sun
}

// read runs fn under the session lock
func (s *Session) read(fn func() (string, error)) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	text, err := fn()
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(text), nil
}

// write runs fn under the session lock and saves the stage when it succeeds
func (s *Session) write(tool string, fn func() (string, error)) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	text, err := fn()
	if err != nil {
		return toolError(err)
	}
	if s.save != nil {
		if err := s.save(); err != nil {
			s.logger.Error("failed to save stage", "tool", tool, "error", err)
			return toolError(fmt.Errorf("%s applied but saving the stage failed: %w", tool, err))
		}
	}
	s.logger.Info("tool applied", "tool", tool)
	return mcp.NewToolResultText(text), nil
}

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

// splitPaths parses a comma or whitespace separated list of prim paths
func splitPaths(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t'
	})
}
