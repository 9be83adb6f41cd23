// Package syncer builds sync tool invocations and runs them one at a time.
package syncer

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/bearminder/bearminder-tray/internal/config"
	"github.com/bearminder/bearminder-tray/internal/constants"
	"github.com/bearminder/bearminder-tray/internal/runner"
)

// SyncArgs are the knobs of a single sync-once run.
type SyncArgs struct {
	SinceHours     int  `json:"since_hours"`
	IgnoreLastSync bool `json:"ignore_last_sync"`
	DryRun         bool `json:"dry_run"`
}

// Validate checks the lookback window.
func (a SyncArgs) Validate() error {
	if a.SinceHours < 1 || a.SinceHours > config.MaxSinceHours {
		return fmt.Errorf("%w (got %d)", config.ErrInvalidSinceHours, a.SinceHours)
	}
	return nil
}

// TrayPreset is what the tray "Sync now" item runs.
func TrayPreset(cfg *config.TrayConfig) SyncArgs {
	return SyncArgs{
		SinceHours:     cfg.Sync.SinceHours,
		IgnoreLastSync: cfg.Sync.IgnoreLastSync,
		DryRun:         cfg.Sync.DryRun,
	}
}

// WindowPreset is the settings window "Sync now" button.
func WindowPreset(dryRun bool) SyncArgs {
	return SyncArgs{SinceHours: constants.WindowSyncSinceHours, DryRun: dryRun}
}

// RecountPreset re-counts the last hour regardless of the last sync marker.
func RecountPreset(dryRun bool) SyncArgs {
	return SyncArgs{SinceHours: constants.RecountSinceHours, IgnoreLastSync: true, DryRun: dryRun}
}

// lookPath is replaced in tests.
var lookPath = exec.LookPath

// ResolvePython picks the interpreter: the configured one, then the
// checkout's virtualenv, then python3 on PATH, then plain python.
func ResolvePython(cfg *config.TrayConfig, paths *config.Paths) string {
	if cfg.Tool.Python != "" {
		return config.ExpandHome(cfg.Tool.Python)
	}

	venv := filepath.Join(paths.RepoRoot, ".venv", "bin", "python")
	if runtime.GOOS == "windows" {
		venv = filepath.Join(paths.RepoRoot, ".venv", "Scripts", "python.exe")
	}
	if _, err := os.Stat(venv); err == nil {
		return venv
	}

	if p, err := lookPath("python3"); err == nil {
		return p
	}
	return "python"
}

// BuildCommand returns the process invocation for args.
func BuildCommand(cfg *config.TrayConfig, paths *config.Paths, args SyncArgs) runner.Command {
	module := cfg.Tool.Module
	if module == "" {
		module = config.DefaultModule
	}

	argv := []string{"-m", module, "sync-once", "--since-hours", strconv.Itoa(args.SinceHours)}
	if args.IgnoreLastSync {
		argv = append(argv, "--ignore-last-sync")
	}

	return runner.Command{
		Path: ResolvePython(cfg, paths),
		Dir:  paths.RepoRoot,
		Args: argv,
		Env: map[string]string{
			config.EnvDryRun: strconv.FormatBool(args.DryRun),
		},
	}
}
