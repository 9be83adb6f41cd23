package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bearminder/bearminder-tray/internal/progress"
	"github.com/bearminder/bearminder-tray/internal/runner"
	"github.com/bearminder/bearminder-tray/internal/syncer"
)

// newSyncCmd creates the 'sync' command.
func newSyncCmd() *cobra.Command {
	var sinceHours int
	var ignoreLastSync, dryRun bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run the sync tool once and print its output",
		Long: `Run "python -m bearminder.main sync-once" in the sync tool checkout and
print what it reports. Flags default to the [sync] section of the trayconfig.

Examples:
  bearminder-tray sync
  bearminder-tray sync --since-hours 24 --dry-run
  bearminder-tray sync --since-hours 1 --ignore-last-sync`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, paths, err := loadPaths()
			if err != nil {
				return err
			}

			syncArgs := syncer.TrayPreset(cfg)
			if cmd.Flags().Changed("since-hours") {
				syncArgs.SinceHours = sinceHours
			}
			if cmd.Flags().Changed("ignore-last-sync") {
				syncArgs.IgnoreLastSync = ignoreLastSync
			}
			if cmd.Flags().Changed("dry-run") {
				syncArgs.DryRun = dryRun
			}
			if err := syncArgs.Validate(); err != nil {
				return err
			}

			mgr := syncer.NewManager(cfg, paths, runner.New(), nil, GetLogger())

			spinner := progress.NewSpinner()
			spinner.Start(fmt.Sprintf("Syncing the last %dh...", syncArgs.SinceHours))
			out, err := mgr.RunOnce(cmd.Context(), syncArgs)
			spinner.Stop()

			if err != nil {
				var exitErr *runner.ExitError
				if errors.As(err, &exitErr) {
					fmt.Fprint(cmd.ErrOrStderr(), exitErr.Output)
					return fmt.Errorf("sync failed: %w", exitErr.Err)
				}
				return fmt.Errorf("sync failed: %w", err)
			}

			if out = strings.TrimSpace(out); out != "" {
				fmt.Fprintln(cmd.OutOrStdout(), out)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&sinceHours, "since-hours", 0, "Lookback window in hours (default from trayconfig)")
	cmd.Flags().BoolVar(&ignoreLastSync, "ignore-last-sync", false, "Count notes even if already synced")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview only; do not post to Beeminder")

	return cmd
}
