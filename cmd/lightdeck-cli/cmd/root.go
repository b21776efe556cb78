package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"lightdeck/internal/adapters/ephemeris"
	"lightdeck/internal/adapters/filesystem"
	"lightdeck/internal/adapters/ledger"
	"lightdeck/internal/adapters/scenegraph"
	"lightdeck/internal/application"
	"lightdeck/internal/config"
	"lightdeck/internal/logging"
)

var (
	configPath  string
	stagePath   string
	historySpec string
	logLevel    string
)

// session holds what one command invocation works on
type session struct {
	cfg    *config.Config
	logger *slog.Logger
	repo   *filesystem.Repository
	stage  *scenegraph.Stage
	store  ledger.Ledger

	materials *application.MaterialManager
	lights    *application.LightManager
	sun       *application.SunController
}

var current *session

var rootCmd = &cobra.Command{
	Use:   "lightdeck-cli",
	Short: "CLI for cleaning and lighting scene stages",
	Long: `lightdeck-cli works on a YAML scene stage from the command line.

It scans for and deletes unused materials with undo, edits lights by
room and lighting group, and positions a distant light as the sun for
a date, time and location.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		closeSession()
		s, err := openSession()
		if err != nil {
			return err
		}
		current = s
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeSession()
	},
}

// Execute runs the root command
func Execute() {
	err := rootCmd.Execute()
	closeSession()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default $XDG_CONFIG_HOME/lightdeck/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&stagePath, "stage", "s", "", "stage file (overrides the config)")
	rootCmd.PersistentFlags().StringVar(&historySpec, "history", "", `deletion history: "memory" or a database path`)
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
}

func openSession() (*session, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if stagePath != "" {
		cfg.Stage = stagePath
	}
	if historySpec != "" {
		cfg.History = historySpec
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	logger, _, err := logging.Open("", cfg.Log.Level, os.Stderr)
	if err != nil {
		return nil, err
	}

	repo := filesystem.NewRepository(cfg.Stage)
	stage, err := repo.Load()
	if err != nil {
		return nil, err
	}
	store, err := ledger.Open(cfg.History, repo.Path())
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}

	cmds := scenegraph.NewCommands(stage)
	lights := application.NewLightManager(stage, cmds, logger)
	lights.SetLightsPath(cfg.Lights.Root)
	sun := application.NewSunController(stage, cmds, ephemeris.New(), logger)
	if err := sun.SetConfig(*cfg.Sun.Sunpath()); err != nil {
		store.Close()
		return nil, err
	}

	return &session{
		cfg:       cfg,
		logger:    logger,
		repo:      repo,
		stage:     stage,
		store:     store,
		materials: application.NewMaterialManager(stage, cmds, store, logger),
		lights:    lights,
		sun:       sun,
	}, nil
}

// closeSession releases the history store; a failed command skips the
// post-run hook, so this runs from several places
func closeSession() error {
	if current == nil {
		return nil
	}
	err := current.store.Close()
	current = nil
	return err
}

// save writes the stage back after a mutating command
func (s *session) save() error {
	if err := s.repo.Save(s.stage); err != nil {
		return err
	}
	s.logger.Debug("stage saved", "path", s.repo.Path())
	return nil
}
