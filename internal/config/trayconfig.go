// Package config provides configuration management for BearMinder tray.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/ini.v1"
)

// TrayConfig is the tray application's own configuration. It tells the shell
// where the sync tool lives and how "Sync now" invokes it.
//
// Config file location:
//   - Windows: %APPDATA%\bearminder\trayconfig
//   - Unix: ~/.config/bearminder/trayconfig
//
// INI format:
//
//	[bearminder]
//	root = /Users/me/src/bearminder
//	env_file =
//	python =
//	module = bearminder.main
//
//	[sync]
//	since_hours = 1
//	ignore_last_sync = false
//	dry_run = false
//
//	[tray]
//	status_refresh_seconds = 30
//	notifications = true
type TrayConfig struct {
	Tool ToolSection
	Sync SyncSection
	Tray TraySection
}

// ToolSection locates the sync tool.
type ToolSection struct {
	// Root is the sync tool checkout; it is the working directory of every run.
	Root string `ini:"root"`

	// EnvFile overrides the settings file. Default: <root>/.env
	EnvFile string `ini:"env_file"`

	// Python overrides interpreter resolution when non-empty.
	Python string `ini:"python"`

	// Module is passed to "python -m". Default: bearminder.main
	Module string `ini:"module"`
}

// SyncSection holds the arguments used by the tray "Sync now" action.
type SyncSection struct {
	// SinceHours is the lookback window. Range: 1-720, Default: 1
	SinceHours int `ini:"since_hours"`

	IgnoreLastSync bool `ini:"ignore_last_sync"`
	DryRun         bool `ini:"dry_run"`
}

// TraySection holds tray behavior settings.
type TraySection struct {
	// StatusRefreshSeconds is the status.json poll interval. Default: 30
	StatusRefreshSeconds int `ini:"status_refresh_seconds"`

	// Notifications enables desktop notifications for sync results.
	Notifications bool `ini:"notifications"`
}

const (
	DefaultModule               = "bearminder.main"
	DefaultSinceHours           = 1
	DefaultStatusRefreshSeconds = 30
	MaxSinceHours               = 720

	// EnvRoot overrides [bearminder] root.
	EnvRoot = "BEARMINDER_ROOT"
	// EnvDryRun overrides [sync] dry_run. The sync tool reads the same variable.
	EnvDryRun = "BEAR_MINDER_DRY_RUN"
	// EnvDBPath moves the sync tool's database, and status.json with it.
	EnvDBPath = "BEAR_MINDER_DB"
)

// Validation errors
var (
	ErrMissingRoot         = errors.New("bearminder root is required (set root in trayconfig, --root or BEARMINDER_ROOT)")
	ErrInvalidSinceHours   = fmt.Errorf("since_hours must be between 1 and %d", MaxSinceHours)
	ErrInvalidRefreshDelay = errors.New("status_refresh_seconds must be at least 1")
	ErrInvalidToolConfig   = errors.New("sync tool config.yaml is invalid")
)

// NewTrayConfig creates a TrayConfig with default values.
func NewTrayConfig() *TrayConfig {
	return &TrayConfig{
		Tool: ToolSection{
			Module: DefaultModule,
		},
		Sync: SyncSection{
			SinceHours: DefaultSinceHours,
		},
		Tray: TraySection{
			StatusRefreshSeconds: DefaultStatusRefreshSeconds,
			Notifications:        true,
		},
	}
}

// DefaultTrayConfigPath returns the default trayconfig location.
func DefaultTrayConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return "", fmt.Errorf("failed to get config directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "bearminder", "trayconfig"), nil
}

// LoadTrayConfig loads configuration from an INI file.
// If the file doesn't exist, returns defaults and no error.
// Environment overrides are applied in both cases.
func LoadTrayConfig(path string) (*TrayConfig, error) {
	cfg := NewTrayConfig()

	if path == "" {
		var err error
		path, err = DefaultTrayConfigPath()
		if err != nil {
			cfg.applyEnv()
			return cfg, nil
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg.applyEnv()
		return cfg, nil
	}

	iniFile, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load trayconfig: %w", err)
	}

	tool := iniFile.Section("bearminder")
	cfg.Tool.Root = tool.Key("root").String()
	cfg.Tool.EnvFile = tool.Key("env_file").String()
	cfg.Tool.Python = tool.Key("python").String()
	cfg.Tool.Module = tool.Key("module").MustString(DefaultModule)

	sync := iniFile.Section("sync")
	cfg.Sync.SinceHours = sync.Key("since_hours").MustInt(DefaultSinceHours)
	cfg.Sync.IgnoreLastSync = sync.Key("ignore_last_sync").MustBool(false)
	cfg.Sync.DryRun = sync.Key("dry_run").MustBool(false)

	tray := iniFile.Section("tray")
	cfg.Tray.StatusRefreshSeconds = tray.Key("status_refresh_seconds").MustInt(DefaultStatusRefreshSeconds)
	cfg.Tray.Notifications = tray.Key("notifications").MustBool(true)

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv applies environment variable overrides.
func (cfg *TrayConfig) applyEnv() {
	if root := os.Getenv(EnvRoot); root != "" {
		cfg.Tool.Root = root
	}
	if v, ok := os.LookupEnv(EnvDryRun); ok {
		cfg.Sync.DryRun = ParseBool(v)
	}
}

// ParseBool interprets the truthy spellings the sync tool accepts.
func ParseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}

// SaveTrayConfig writes configuration to an INI file.
// Creates parent directories if they don't exist.
func SaveTrayConfig(cfg *TrayConfig, path string) error {
	if path == "" {
		var err error
		path, err = DefaultTrayConfigPath()
		if err != nil {
			return fmt.Errorf("failed to determine config path: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	iniFile := ini.Empty()

	tool, err := iniFile.NewSection("bearminder")
	if err != nil {
		return fmt.Errorf("failed to create bearminder section: %w", err)
	}
	tool.Key("root").SetValue(cfg.Tool.Root)
	tool.Key("env_file").SetValue(cfg.Tool.EnvFile)
	tool.Key("python").SetValue(cfg.Tool.Python)
	tool.Key("module").SetValue(cfg.Tool.Module)

	sync, err := iniFile.NewSection("sync")
	if err != nil {
		return fmt.Errorf("failed to create sync section: %w", err)
	}
	sync.Key("since_hours").SetValue(fmt.Sprintf("%d", cfg.Sync.SinceHours))
	sync.Key("ignore_last_sync").SetValue(fmt.Sprintf("%t", cfg.Sync.IgnoreLastSync))
	sync.Key("dry_run").SetValue(fmt.Sprintf("%t", cfg.Sync.DryRun))

	tray, err := iniFile.NewSection("tray")
	if err != nil {
		return fmt.Errorf("failed to create tray section: %w", err)
	}
	tray.Key("status_refresh_seconds").SetValue(fmt.Sprintf("%d", cfg.Tray.StatusRefreshSeconds))
	tray.Key("notifications").SetValue(fmt.Sprintf("%t", cfg.Tray.Notifications))

	// Temporary file + rename so a crash never leaves a half-written config
	tmpPath := path + ".tmp"
	if err := iniFile.SaveTo(tmpPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if runtime.GOOS != "windows" {
		if err := os.Chmod(tmpPath, 0600); err != nil {
			os.Remove(tmpPath)
			return fmt.Errorf("failed to set config permissions: %w", err)
		}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// Validate checks the configuration before a sync can run.
func (cfg *TrayConfig) Validate() error {
	if strings.TrimSpace(cfg.Tool.Root) == "" {
		return ErrMissingRoot
	}
	if cfg.Sync.SinceHours < 1 || cfg.Sync.SinceHours > MaxSinceHours {
		return ErrInvalidSinceHours
	}
	if cfg.Tray.StatusRefreshSeconds < 1 {
		return ErrInvalidRefreshDelay
	}
	return nil
}

// StatusRefreshInterval returns the status poll interval.
func (cfg *TrayConfig) StatusRefreshInterval() time.Duration {
	if cfg.Tray.StatusRefreshSeconds < 1 {
		return DefaultStatusRefreshSeconds * time.Second
	}
	return time.Duration(cfg.Tray.StatusRefreshSeconds) * time.Second
}
