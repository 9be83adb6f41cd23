package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestResolvePaths_Defaults(t *testing.T) {
	t.Setenv(EnvDBPath, "")
	root := t.TempDir()
	cfg := NewTrayConfig()
	cfg.Tool.Root = root

	p, err := ResolvePaths(cfg)
	if err != nil {
		t.Fatalf("ResolvePaths failed: %v", err)
	}

	want := Paths{
		RepoRoot:   root,
		EnvPath:    filepath.Join(root, ".env"),
		ConfigPath: filepath.Join(root, "config.yaml"),
		DataDir:    filepath.Join(root, "data"),
		StatusPath: filepath.Join(root, "data", "status.json"),
	}
	if *p != want {
		t.Errorf("got %+v, want %+v", *p, want)
	}
}

func TestResolvePaths_FollowsToolDBPath(t *testing.T) {
	t.Setenv(EnvDBPath, "")
	root := t.TempDir()
	yaml := "beeminder:\n  username: alice\napp:\n  db_path: state/bearminder.db\n  dry_run: false\n"
	if err := os.WriteFile(filepath.Join(root, "config.yaml"), []byte(yaml), 0600); err != nil {
		t.Fatal(err)
	}

	cfg := NewTrayConfig()
	cfg.Tool.Root = root
	cfg.Tool.EnvFile = "/etc/bearminder.env"

	p, err := ResolvePaths(cfg)
	if err != nil {
		t.Fatalf("ResolvePaths failed: %v", err)
	}
	if p.DataDir != filepath.Join(root, "state") {
		t.Errorf("DataDir = %s, want %s", p.DataDir, filepath.Join(root, "state"))
	}
	if p.StatusPath != filepath.Join(root, "state", "status.json") {
		t.Errorf("StatusPath = %s", p.StatusPath)
	}
	if p.EnvPath != "/etc/bearminder.env" {
		t.Errorf("EnvPath = %s, want /etc/bearminder.env", p.EnvPath)
	}
}

func TestResolvePaths_MissingRoot(t *testing.T) {
	if _, err := ResolvePaths(NewTrayConfig()); err != ErrMissingRoot {
		t.Errorf("expected ErrMissingRoot, got %v", err)
	}
}

func TestResolvePaths_InvalidToolConfig(t *testing.T) {
	t.Setenv(EnvDBPath, "")
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "config.yaml"), []byte("app:\n  db_path: [unterminated"), 0600); err != nil {
		t.Fatal(err)
	}
	cfg := NewTrayConfig()
	cfg.Tool.Root = root

	p, err := ResolvePaths(cfg)
	if !errors.Is(err, ErrInvalidToolConfig) {
		t.Fatalf("expected ErrInvalidToolConfig, got %v", err)
	}
	if p == nil {
		t.Fatal("paths should still be resolved")
	}
	if p.DataDir != filepath.Join(root, "data") {
		t.Errorf("DataDir = %s, want default", p.DataDir)
	}
	if p.EnvPath != filepath.Join(root, ".env") || p.ConfigPath != filepath.Join(root, "config.yaml") {
		t.Errorf("unexpected paths %+v", *p)
	}
}

func TestResolvePaths_DBOverride(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		dotenv  string
		yaml    string
		wantDir string
	}{
		{
			name:    "from .env",
			dotenv:  "BEEMINDER_USERNAME=alice\nBEAR_MINDER_DB=\"state/bm.db\"\n",
			wantDir: "state",
		},
		{
			name:    "environment wins over .env",
			env:     "elsewhere/bm.db",
			dotenv:  "BEAR_MINDER_DB=state/bm.db\n",
			wantDir: "elsewhere",
		},
		{
			name:    ".env wins over config.yaml",
			dotenv:  "BEAR_MINDER_DB=state/bm.db\n",
			yaml:    "app:\n  db_path: yaml/bm.db\n",
			wantDir: "state",
		},
		{
			name:    "environment wins over config.yaml",
			env:     "elsewhere/bm.db",
			yaml:    "app:\n  db_path: yaml/bm.db\n",
			wantDir: "elsewhere",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			t.Setenv(EnvDBPath, tt.env)
			if tt.dotenv != "" {
				if err := os.WriteFile(filepath.Join(root, ".env"), []byte(tt.dotenv), 0600); err != nil {
					t.Fatal(err)
				}
			}
			if tt.yaml != "" {
				if err := os.WriteFile(filepath.Join(root, "config.yaml"), []byte(tt.yaml), 0600); err != nil {
					t.Fatal(err)
				}
			}

			cfg := NewTrayConfig()
			cfg.Tool.Root = root
			p, err := ResolvePaths(cfg)
			if err != nil {
				t.Fatalf("ResolvePaths failed: %v", err)
			}
			want := filepath.Join(root, tt.wantDir)
			if p.DataDir != want {
				t.Errorf("DataDir = %s, want %s", p.DataDir, want)
			}
			if p.StatusPath != filepath.Join(want, "status.json") {
				t.Errorf("StatusPath = %s", p.StatusPath)
			}
		})
	}
}

func TestResolvePaths_DBOverrideAbsolute(t *testing.T) {
	root := t.TempDir()
	other := filepath.Join(t.TempDir(), "db")
	t.Setenv(EnvDBPath, filepath.Join(other, "bm.db"))

	cfg := NewTrayConfig()
	cfg.Tool.Root = root
	p, err := ResolvePaths(cfg)
	if err != nil {
		t.Fatalf("ResolvePaths failed: %v", err)
	}
	if p.DataDir != other {
		t.Errorf("DataDir = %s, want %s", p.DataDir, other)
	}
}

func TestReadToolConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "beeminder:\n  username: alice\n  goal_name: writing\napp:\n  dry_run: true\n"
	if err := os.WriteFile(path, []byte(yaml), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := ReadToolConfig(path)
	if err != nil {
		t.Fatalf("ReadToolConfig failed: %v", err)
	}
	if cfg.Beeminder.Username != "alice" || cfg.Beeminder.GoalName != "writing" {
		t.Errorf("unexpected beeminder section: %+v", cfg.Beeminder)
	}
	if cfg.App.DryRun == nil || !*cfg.App.DryRun {
		t.Error("expected app.dry_run true")
	}
	if cfg.App.DBPath != "" {
		t.Errorf("expected empty db_path, got %s", cfg.App.DBPath)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/Library/bear", filepath.Join(home, "Library", "bear")},
		{"/abs/path", "/abs/path"},
		{"relative/~", "relative/~"},
		{"~other/x", "~other/x"},
	}
	for _, tt := range tests {
		if got := ExpandHome(tt.in); got != tt.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
