package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"lightdeck/internal/adapters/editor"
	"lightdeck/internal/adapters/ephemeris"
	"lightdeck/internal/adapters/filesystem"
	"lightdeck/internal/adapters/ledger"
	"lightdeck/internal/adapters/tui"
	"lightdeck/internal/adapters/watcher"
	"lightdeck/internal/config"
	"lightdeck/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configFlag := flag.String("config", "", "path to the config file")
	stageFlag := flag.String("stage", "", "stage file to edit")
	historyFlag := flag.String("history", "", `deletion history: "memory" or a database path`)
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		return err
	}
	if *stageFlag != "" {
		cfg.Stage = *stageFlag
	}
	if *historyFlag != "" {
		cfg.History = *historyFlag
	}

	// the terminal belongs to the panel, so logs only go to a file
	logger, logCloser, err := logging.Open(cfg.Log.File, cfg.Log.Level, io.Discard)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	repo := filesystem.NewRepository(cfg.Stage)
	store, err := ledger.Open(cfg.History, repo.Path())
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var changes <-chan struct{}
	w, err := watcher.New(repo.Path(), logger)
	if err != nil {
		logger.Warn("stage changes on disk will not be picked up", "error", err)
	} else {
		defer w.Close()
		go w.Run(ctx)
		changes = w.Changes()
	}

	var copyText func(string) error
	if !clipboard.Unsupported {
		copyText = clipboard.WriteAll
	}

	app, err := tui.NewApp(tui.Options{
		Store:       repo,
		History:     store,
		Defaults:    store,
		Ephemeris:   ephemeris.New(),
		Sun:         cfg.Sun.Sunpath(),
		SunLight:    cfg.Sun.Light,
		LightsRoot:  cfg.Lights.Root,
		Changes:     changes,
		Copy:        copyText,
		EditCommand: editor.NewOpener(cfg.Editor).Command,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	logger.Info("starting panel", "stage", repo.Path(), "history", store.Location())
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
