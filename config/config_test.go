package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv(BackendURLEnv, "")
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("defaults (-want +got):\n%s", diff)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv(BackendURLEnv, "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	cfg.UserName = "Kim"
	cfg.CaseID = 12
	cfg.Theme = "light"
	cfg.Layout.SidebarWidth = 40

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	t.Setenv(BackendURLEnv, "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("user_name: Ana\nrequest_timeout: 5s\n"), 0644)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.UserName != "Ana" || cfg.RequestTimeout != 5*time.Second {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Layout.ChatMin != 42 || cfg.BackendURL != Default().BackendURL {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestEnvOverridesBackendURL(t *testing.T) {
	t.Setenv(BackendURLEnv, "https://cases.example.com/api")
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BackendURL != "https://cases.example.com/api" {
		t.Errorf("env override ignored: %s", cfg.BackendURL)
	}
}

func TestValidate(t *testing.T) {
	tests := map[string]func(*Config){
		"bad url":     func(c *Config) { c.BackendURL = "localhost:8000" },
		"bad theme":   func(c *Config) { c.Theme = "sepia" },
		"bad level":   func(c *Config) { c.Log.Level = "loud" },
		"neg timeout": func(c *Config) { c.RequestTimeout = -time.Second },
		"neg width":   func(c *Config) { c.Layout.ChatMin = -1 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
	if err := Default().Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestConfigDirOverride(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "home")
	t.Setenv(HomeEnv, dir)
	if Exists() {
		t.Fatalf("fresh directory should have no config")
	}
	path, err := GetConfigFile()
	if err != nil || path != filepath.Join(dir, "config.yaml") {
		t.Fatalf("GetConfigFile = %q, %v", path, err)
	}
	Save(path, Default())
	if !Exists() {
		t.Errorf("config should exist after save")
	}
}

func TestWatchReloads(t *testing.T) {
	t.Setenv(BackendURLEnv, "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	Save(path, Default())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan Config, 4)
	reload := func(c Config) {
		select {
		case got <- c:
		default:
		}
	}
	if err := Watch(ctx, path, reload); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	cfg := Default()
	cfg.Theme = "light"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	select {
	case c := <-got:
		if c.Theme != "light" {
			t.Errorf("reloaded theme %q", c.Theme)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}
