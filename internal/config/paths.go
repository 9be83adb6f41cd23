package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bearminder/bearminder-tray/internal/envfile"
)

// Paths are the locations the tray reads, writes or opens. All of them derive
// from the configured root; nothing depends on where the binary was built.
type Paths struct {
	RepoRoot   string `json:"repo_root"`
	EnvPath    string `json:"env_path"`
	ConfigPath string `json:"config_path"`
	DataDir    string `json:"data_dir"`
	StatusPath string `json:"status_path"`
}

// ResolvePaths computes Paths for cfg. The data directory is where the sync
// tool writes status.json: next to its database, which BEAR_MINDER_DB (process
// environment first, then .env) or app.db_path in config.yaml can move.
//
// A config.yaml that cannot be read or parsed does not stop resolution: the
// returned Paths use the remaining sources and the error wraps
// ErrInvalidToolConfig.
func ResolvePaths(cfg *TrayConfig) (*Paths, error) {
	if strings.TrimSpace(cfg.Tool.Root) == "" {
		return nil, ErrMissingRoot
	}
	root, err := filepath.Abs(ExpandHome(cfg.Tool.Root))
	if err != nil {
		return nil, err
	}

	p := &Paths{
		RepoRoot:   root,
		EnvPath:    filepath.Join(root, ".env"),
		ConfigPath: filepath.Join(root, "config.yaml"),
		DataDir:    filepath.Join(root, "data"),
	}
	if cfg.Tool.EnvFile != "" {
		p.EnvPath = resolveAgainst(root, cfg.Tool.EnvFile)
	}

	var toolErr error
	tool, err := ReadToolConfig(p.ConfigPath)
	if err != nil {
		toolErr = fmt.Errorf("%w: %v", ErrInvalidToolConfig, err)
	} else if tool.App.DBPath != "" {
		p.DataDir = filepath.Dir(resolveAgainst(root, tool.App.DBPath))
	}
	if db := dbOverride(p.EnvPath); db != "" {
		p.DataDir = filepath.Dir(resolveAgainst(root, db))
	}
	p.StatusPath = filepath.Join(p.DataDir, "status.json")

	return p, toolErr
}

// dbOverride returns BEAR_MINDER_DB from the environment, else from the
// .env file at envPath. The tool loads .env without overriding variables
// that are already set.
func dbOverride(envPath string) string {
	if v := strings.TrimSpace(os.Getenv(EnvDBPath)); v != "" {
		return v
	}
	v, _ := envfile.Lookup(envPath, EnvDBPath)
	return strings.TrimSpace(v)
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

func resolveAgainst(root, path string) string {
	path = ExpandHome(path)
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// LogDirectory returns the log directory for the tray and settings window.
//
// Locations:
//   - Windows: %LOCALAPPDATA%\BearMinder\logs
//   - Unix: ~/.config/bearminder/logs
func LogDirectory() string {
	if runtime.GOOS == "windows" {
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return filepath.Join(os.TempDir(), "bearminder-logs")
			}
			localAppData = filepath.Join(homeDir, "AppData", "Local")
		}
		return filepath.Join(localAppData, "BearMinder", "logs")
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "bearminder-logs")
		}
		return filepath.Join(homeDir, ".config", "bearminder", "logs")
	}
	return filepath.Join(configDir, "bearminder", "logs")
}

// EnsureLogDirectory creates the log directory if it doesn't exist.
func EnsureLogDirectory() error {
	return os.MkdirAll(LogDirectory(), 0700)
}
