package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bearminder/bearminder-tray/internal/config"
	"github.com/bearminder/bearminder-tray/internal/opener"
)

// newOpener is replaced in tests.
var newOpener = func() interface{ Open(string) error } {
	return opener.New()
}

// openTarget maps an 'open' argument to a path.
func openTarget(name string, paths *config.Paths) (string, error) {
	switch name {
	case "config":
		return paths.ConfigPath, nil
	case "data":
		if err := os.MkdirAll(paths.DataDir, 0755); err != nil {
			return "", fmt.Errorf("failed to create data directory: %w", err)
		}
		return paths.DataDir, nil
	case "env":
		return paths.EnvPath, nil
	case "logs":
		if err := config.EnsureLogDirectory(); err != nil {
			return "", fmt.Errorf("failed to create log directory: %w", err)
		}
		return config.LogDirectory(), nil
	}
	return "", fmt.Errorf("unknown target %q (use config, data, env or logs)", name)
}

// newOpenCmd creates the 'open' command.
func newOpenCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "open [config|data|env|logs]",
		Short:     "Open config.yaml, the data folder, .env or the logs",
		ValidArgs: []string{"config", "data", "env", "logs"},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			var paths *config.Paths
			if args[0] != "logs" {
				var err error
				if _, paths, err = loadPaths(); err != nil {
					return err
				}
			}

			target, err := openTarget(args[0], paths)
			if err != nil {
				return err
			}
			GetLogger().Debug().Str("target", target).Msg("Opening")
			return newOpener().Open(target)
		},
	}
}
