package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
session:
  public_connections: 8
  match_type: "Coop"
provider:
  owner_name: "alice"
  seed_lobbies: 3
events:
  enabled: true
  port: 9191
log:
  level: debug
  development: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Session.PublicConnections != 8 {
		t.Errorf("PublicConnections = %d, want 8", cfg.Session.PublicConnections)
	}
	if cfg.Session.MatchType != "Coop" {
		t.Errorf("MatchType = %q, want Coop", cfg.Session.MatchType)
	}
	if cfg.Provider.OwnerName != "alice" || cfg.Provider.SeedLobbies != 3 {
		t.Errorf("Provider = %+v", cfg.Provider)
	}
	if !cfg.Events.Enabled || cfg.Events.Addr() != "127.0.0.1:9191" {
		t.Errorf("Events = %+v, Addr() = %q", cfg.Events, cfg.Events.Addr())
	}
	if cfg.Log.Level != "debug" || !cfg.Log.Development {
		t.Errorf("Log = %+v", cfg.Log)
	}

	// Unset fields keep their defaults.
	if cfg.Session.LobbyPath != "/Game/Maps/Lobby" {
		t.Errorf("LobbyPath = %q, want default", cfg.Session.LobbyPath)
	}
	if cfg.Session.MaxSearchResults != 10 {
		t.Errorf("MaxSearchResults = %d, want 10", cfg.Session.MaxSearchResults)
	}
	if cfg.Provider.Subsystem != "NULL" {
		t.Errorf("Subsystem = %q, want NULL", cfg.Provider.Subsystem)
	}
}

func TestLoadMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")
	if _, err := Load(missing); err == nil {
		t.Error("Load of missing file succeeded")
	}

	cfg, err := LoadOrDefault(missing)
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if cfg.Session.PublicConnections != defaultConfig().Session.PublicConnections {
		t.Errorf("LoadOrDefault did not return defaults: %+v", cfg.Session)
	}
}

func TestLoadOrDefaultReportsParseErrors(t *testing.T) {
	path := writeConfig(t, "session: [unterminated")
	if _, err := LoadOrDefault(path); err == nil {
		t.Error("LoadOrDefault swallowed a parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"zero connections", func(c *Config) { c.Session.PublicConnections = 0 }, "public_connections"},
		{"zero results", func(c *Config) { c.Session.MaxSearchResults = 0 }, "max_search_results"},
		{"no lobby", func(c *Config) { c.Session.LobbyPath = "" }, "lobby_path"},
		{"negative seed", func(c *Config) { c.Provider.SeedLobbies = -1 }, "seed_lobbies"},
		{"bad port when enabled", func(c *Config) { c.Events.Enabled = true; c.Events.Port = 0 }, "events.port"},
		{"bad port when disabled", func(c *Config) { c.Events.Port = 0 }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error mentioning %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := writeConfig(t, "session:\n  public_connections: 0\n")
	if _, err := Load(path); err == nil {
		t.Error("Load accepted zero public connections")
	}
}
