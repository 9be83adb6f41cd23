package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bearminder/bearminder-tray/internal/config"
)

// newConfigCmd creates the 'config' command group.
func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the tray configuration",
		Long: `Manage the tray configuration (trayconfig).

Commands:
  init  - Interactive configuration setup
  show  - Display current configuration
  path  - Show configuration file path`,
	}

	configCmd.AddCommand(newConfigInitCmd())
	configCmd.AddCommand(newConfigShowCmd())
	configCmd.AddCommand(newConfigPathCmd())

	return configCmd
}

// newConfigInitCmd creates the 'config init' command.
func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration interactively",
		Long: `Interactive configuration setup. Asks for the sync tool checkout, the
Python interpreter and the tray "Sync now" lookback.

Use --force to overwrite an existing configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !force {
				if _, err := os.Stat(path); err == nil {
					fmt.Fprintf(out, "Configuration already exists at: %s\n", path)
					fmt.Fprintln(out, "Use --force to overwrite or run 'config show' to view current config.")
					return nil
				}
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			fmt.Fprintln(out, "BearMinder Tray Setup")
			fmt.Fprintln(out, "=====================")
			fmt.Fprintln(out)

			if err := promptConfig(cmd.InOrStdin(), out, cfg); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if err := config.SaveTrayConfig(cfg, path); err != nil {
				return err
			}
			GetLogger().Debug().Str("path", path).Msg("Configuration saved")
			fmt.Fprintf(out, "\nConfiguration saved to: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing configuration")
	return cmd
}

// promptConfig asks for each value, keeping the current one on empty input.
func promptConfig(in io.Reader, out io.Writer, cfg *config.TrayConfig) error {
	reader := bufio.NewReader(in)
	ask := func(label, current string) (string, error) {
		if current != "" {
			fmt.Fprintf(out, "%s [%s]: ", label, current)
		} else {
			fmt.Fprintf(out, "%s: ", label)
		}
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return "", err
		}
		if v := strings.TrimSpace(line); v != "" {
			return v, nil
		}
		return current, nil
	}

	root, err := ask("Sync tool checkout (bearminder repo)", cfg.Tool.Root)
	if err != nil {
		return err
	}
	if root != "" {
		if abs, err := filepath.Abs(config.ExpandHome(root)); err == nil {
			root = abs
		}
	}
	cfg.Tool.Root = root

	python, err := ask("Python interpreter (empty = auto)", cfg.Tool.Python)
	if err != nil {
		return err
	}
	cfg.Tool.Python = python

	hours, err := ask("Tray 'Sync now' lookback in hours", strconv.Itoa(cfg.Sync.SinceHours))
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(hours)
	if err != nil {
		return fmt.Errorf("invalid number of hours %q", hours)
	}
	cfg.Sync.SinceHours = n

	return nil
}

// newConfigShowCmd creates the 'config show' command.
func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			path, _ := configPath()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Configuration file: %s\n\n", path)
			fmt.Fprintln(out, "[bearminder]")
			fmt.Fprintf(out, "  root             = %s\n", orNone(cfg.Tool.Root))
			fmt.Fprintf(out, "  env_file         = %s\n", orNone(cfg.Tool.EnvFile))
			fmt.Fprintf(out, "  python           = %s\n", orNone(cfg.Tool.Python))
			fmt.Fprintf(out, "  module           = %s\n", cfg.Tool.Module)
			fmt.Fprintln(out, "[sync]")
			fmt.Fprintf(out, "  since_hours      = %d\n", cfg.Sync.SinceHours)
			fmt.Fprintf(out, "  ignore_last_sync = %t\n", cfg.Sync.IgnoreLastSync)
			fmt.Fprintf(out, "  dry_run          = %t\n", cfg.Sync.DryRun)
			fmt.Fprintln(out, "[tray]")
			fmt.Fprintf(out, "  status_refresh_seconds = %d\n", cfg.Tray.StatusRefreshSeconds)
			fmt.Fprintf(out, "  notifications          = %t\n", cfg.Tray.Notifications)

			if err := cfg.Validate(); err != nil {
				fmt.Fprintf(out, "\nWarning: %v\n", err)
			}
			return nil
		},
	}
}

// newConfigPathCmd creates the 'config path' command.
func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func orNone(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
