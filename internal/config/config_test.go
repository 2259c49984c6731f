package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOrCreate_WritesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mdb", "config.toml")

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate failed: %v", err)
	}
	if cfg.ServerPath != "" || cfg.LogLevel != "" || len(cfg.Roots) != 0 {
		t.Errorf("expected default config, got %+v", cfg)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file not created: %v", err)
	}
}

func TestLoadOrCreate_ReadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "server_path = \"/opt/mdbase/mdbase-lsp\"\nlog_level = \"debug\"\nroots = [\"/home/user/vault\"]\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate failed: %v", err)
	}

	if cfg.ServerPath != "/opt/mdbase/mdbase-lsp" {
		t.Errorf("ServerPath = %q", cfg.ServerPath)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if len(cfg.Roots) != 1 || cfg.Roots[0] != "/home/user/vault" {
		t.Errorf("Roots = %v", cfg.Roots)
	}
}

func TestLoadOrCreate_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("server_path = [broken\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := LoadOrCreate(path); err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}

func TestExpandPath(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		t.Skip("no home directory in test environment")
	}

	got := expandPath("~/vault")
	want := filepath.Join(homeDir, "vault")
	if got != want {
		t.Errorf("expandPath(~/vault) = %q, want %q", got, want)
	}

	if got := expandPath("/abs/path"); got != "/abs/path" {
		t.Errorf("absolute path altered: %q", got)
	}
}
