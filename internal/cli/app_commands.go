package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bearminder/bearminder-tray/internal/config"
	"github.com/bearminder/bearminder-tray/internal/constants"
	"github.com/bearminder/bearminder-tray/internal/events"
	"github.com/bearminder/bearminder-tray/internal/gui"
	"github.com/bearminder/bearminder-tray/internal/logging"
	"github.com/bearminder/bearminder-tray/internal/notify"
	"github.com/bearminder/bearminder-tray/internal/opener"
	"github.com/bearminder/bearminder-tray/internal/runner"
	"github.com/bearminder/bearminder-tray/internal/syncer"
	"github.com/bearminder/bearminder-tray/internal/tray"
	"github.com/bearminder/bearminder-tray/internal/version"
)

// appSetup is what the tray and the settings window share.
type appSetup struct {
	cfg    *config.TrayConfig
	paths  *config.Paths
	logger *logging.Logger
	bus    *events.EventBus
	syncer *syncer.Manager
}

// newAppSetup loads the configuration and builds the long-running services.
// The logger also writes to the rotating log file.
func newAppSetup(mode logging.Mode) (*appSetup, error) {
	cfg, paths, err := loadPaths()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logging.NewFileLogger(mode, filepath.Join(config.LogDirectory(), constants.LogFileName))
	if err != nil {
		GetLogger().Warn().Err(err).Msg("File logging disabled")
		log = logging.NewLogger(mode)
	}

	bus := events.NewEventBus(constants.EventBusDefaultBuffer)
	return &appSetup{
		cfg:    cfg,
		paths:  paths,
		logger: log,
		bus:    bus,
		syncer: syncer.NewManager(cfg, paths, runner.New(), bus, log),
	}, nil
}

func (s *appSetup) close() {
	if dropped := s.bus.GetDroppedEventCount(); dropped > 0 {
		s.logger.Warn().Int64("dropped", dropped).Msg("Events dropped by slow subscribers")
	}
	s.bus.Close()
	s.logger.Close()
}

// newTrayCmd creates the 'tray' command.
func newTrayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tray",
		Short: "Show the tray icon (default when started without arguments)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !gui.HasDisplay() {
				return gui.ErrNoDisplay
			}

			s, err := newAppSetup(logging.ModeTray)
			if err != nil {
				return fmt.Errorf("failed to start tray: %w", err)
			}
			defer s.close()

			s.logger.Info().Str("version", version.Version).Str("root", s.paths.RepoRoot).Msg("Starting tray")

			app := tray.New(tray.Options{
				Config:       s.cfg,
				Paths:        s.paths,
				Logger:       s.logger,
				Bus:          s.bus,
				Syncer:       s.syncer,
				Opener:       opener.New(),
				Notifier:     notify.NewNotifier(s.cfg.Tray.Notifications, s.logger),
				LaunchWindow: tray.WindowLauncher(passthroughFlags()...),
			})
			app.Run(cmd.Context())
			return nil
		},
	}
}

// newGUICmd creates the 'gui' command.
func newGUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Open the settings window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newAppSetup(logging.ModeGUI)
			if err != nil {
				return fmt.Errorf("failed to open settings window: %w", err)
			}
			defer s.close()

			err = gui.Launch(gui.Options{
				Config: s.cfg,
				Paths:  s.paths,
				Logger: s.logger,
				Bus:    s.bus,
				Syncer: s.syncer,
				Opener: opener.New(),
			})
			s.syncer.Wait()
			return err
		},
	}
}
