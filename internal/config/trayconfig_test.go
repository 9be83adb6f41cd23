package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv unsets the override variables for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvRoot, EnvDryRun} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestNewTrayConfig(t *testing.T) {
	cfg := NewTrayConfig()

	if cfg.Tool.Module != "bearminder.main" {
		t.Errorf("expected default Module bearminder.main, got %s", cfg.Tool.Module)
	}
	if cfg.Sync.SinceHours != 1 {
		t.Errorf("expected default SinceHours 1, got %d", cfg.Sync.SinceHours)
	}
	if cfg.Sync.DryRun {
		t.Error("expected DryRun to default to false")
	}
	if !cfg.Tray.Notifications {
		t.Error("expected Notifications to default to true")
	}
	if cfg.StatusRefreshInterval() != 30*time.Second {
		t.Errorf("expected 30s refresh, got %v", cfg.StatusRefreshInterval())
	}
}

func TestSaveAndLoadTrayConfig(t *testing.T) {
	clearEnv(t)

	configPath := filepath.Join(t.TempDir(), "bearminder", "trayconfig")

	cfg := &TrayConfig{
		Tool: ToolSection{
			Root:    "/opt/bearminder",
			EnvFile: "secrets/.env",
			Python:  "/usr/bin/python3.12",
			Module:  "bearminder.main",
		},
		Sync: SyncSection{SinceHours: 24, IgnoreLastSync: true, DryRun: true},
		Tray: TraySection{StatusRefreshSeconds: 5, Notifications: false},
	}

	if err := SaveTrayConfig(cfg, configPath); err != nil {
		t.Fatalf("SaveTrayConfig failed: %v", err)
	}
	if _, err := os.Stat(configPath + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should not remain after save")
	}

	loaded, err := LoadTrayConfig(configPath)
	if err != nil {
		t.Fatalf("LoadTrayConfig failed: %v", err)
	}

	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", *loaded, *cfg)
	}
}

func TestLoadTrayConfig_NonExistent(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadTrayConfig(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("LoadTrayConfig should not fail for non-existent file: %v", err)
	}
	if *cfg != *NewTrayConfig() {
		t.Errorf("expected defaults, got %+v", *cfg)
	}
}

func TestLoadTrayConfig_EnvOverrides(t *testing.T) {
	t.Setenv(EnvRoot, "/from/env")
	t.Setenv(EnvDryRun, "yes")

	configPath := filepath.Join(t.TempDir(), "trayconfig")
	if err := os.WriteFile(configPath, []byte("[bearminder]\nroot = /from/file\n[sync]\ndry_run = false\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadTrayConfig(configPath)
	if err != nil {
		t.Fatalf("LoadTrayConfig failed: %v", err)
	}
	if cfg.Tool.Root != "/from/env" {
		t.Errorf("expected root from env, got %s", cfg.Tool.Root)
	}
	if !cfg.Sync.DryRun {
		t.Error("expected dry run from env")
	}
}

func TestTrayConfig_Validate(t *testing.T) {
	valid := func() *TrayConfig {
		cfg := NewTrayConfig()
		cfg.Tool.Root = "/opt/bearminder"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*TrayConfig)
		wantErr error
	}{
		{"valid", func(*TrayConfig) {}, nil},
		{"missing root", func(c *TrayConfig) { c.Tool.Root = "  " }, ErrMissingRoot},
		{"zero since hours", func(c *TrayConfig) { c.Sync.SinceHours = 0 }, ErrInvalidSinceHours},
		{"too many since hours", func(c *TrayConfig) { c.Sync.SinceHours = MaxSinceHours + 1 }, ErrInvalidSinceHours},
		{"zero refresh", func(c *TrayConfig) { c.Tray.StatusRefreshSeconds = 0 }, ErrInvalidRefreshDelay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseBool(t *testing.T) {
	for _, v := range []string{"1", "true", "TRUE", "yes", "y", "on", " On "} {
		if !ParseBool(v) {
			t.Errorf("ParseBool(%q) = false, want true", v)
		}
	}
	for _, v := range []string{"", "0", "false", "no", "off", "maybe"} {
		if ParseBool(v) {
			t.Errorf("ParseBool(%q) = true, want false", v)
		}
	}
}
