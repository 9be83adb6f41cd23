package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// ToolConfig is the part of the sync tool's config.yaml the tray looks at.
// The tool owns the file; the tray never writes it.
type ToolConfig struct {
	Beeminder struct {
		Username string `yaml:"username"`
		GoalName string `yaml:"goal_name"`
	} `yaml:"beeminder"`
	App struct {
		DBPath string `yaml:"db_path"`
		DryRun *bool  `yaml:"dry_run"`
	} `yaml:"app"`
}

// ReadToolConfig parses config.yaml at path. A missing file yields a zero
// ToolConfig and no error.
func ReadToolConfig(path string) (*ToolConfig, error) {
	cfg := &ToolConfig{}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}
