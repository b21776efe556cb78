package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"lightdeck/internal/adapters/ephemeris"
	"lightdeck/internal/adapters/filesystem"
	"lightdeck/internal/adapters/ledger"
	mcpadapter "lightdeck/internal/adapters/mcp"
	"lightdeck/internal/adapters/scenegraph"
	"lightdeck/internal/config"
	"lightdeck/internal/logging"
)

func main() {
	configFlag := flag.String("config", "", "path to the config file")
	stageFlag := flag.String("stage", "", "stage file to serve")
	historyFlag := flag.String("history", "", `deletion history: "memory" or a database path`)
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("lightdeck-mcp: %v", err)
	}
	if *stageFlag != "" {
		cfg.Stage = *stageFlag
	}
	if *historyFlag != "" {
		cfg.History = *historyFlag
	}

	// stdout carries the protocol
	logger, logCloser, err := logging.Open(cfg.Log.File, cfg.Log.Level, os.Stderr)
	if err != nil {
		log.Fatalf("lightdeck-mcp: %v", err)
	}
	defer logCloser.Close()

	repo := filesystem.NewRepository(cfg.Stage)
	stage, err := repo.Load()
	if err != nil {
		log.Fatalf("lightdeck-mcp: %v", err)
	}
	store, err := ledger.Open(cfg.History, repo.Path())
	if err != nil {
		log.Fatalf("lightdeck-mcp: failed to open history: %v", err)
	}
	defer store.Close()

	sess := mcpadapter.NewSession(mcpadapter.SessionDeps{
		Stage:      stage,
		Commands:   scenegraph.NewCommands(stage),
		History:    store,
		Defaults:   store,
		Ephemeris:  ephemeris.New(),
		LightsRoot: cfg.Lights.Root,
		Save:       func() error { return repo.Save(stage) },
		Logger:     logger,
	})
	if err := sess.SunController().SetConfig(*cfg.Sun.Sunpath()); err != nil {
		logger.Warn("ignoring invalid sun settings", "error", err)
	}
	if cfg.Sun.Light != "" {
		if err := sess.SunController().SelectLight(cfg.Sun.Light); err != nil {
			logger.Warn("sun light not available", "path", cfg.Sun.Light, "error", err)
		}
	}

	mcpServer := server.NewMCPServer(
		"lightdeck-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, sess)
	mcpadapter.RegisterWriteTools(mcpServer, sess)

	logger.Info("serving stage over stdio", "stage", repo.Path(), "history", store.Location())
	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("lightdeck-mcp: %v", err)
	}
}
