package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Session  SessionConfig  `yaml:"session"`
	Provider ProviderConfig `yaml:"provider"`
	Events   EventsConfig   `yaml:"events"`
	Log      LogConfig      `yaml:"log"`
	Settings SettingsConfig `yaml:"settings"`
}

type SessionConfig struct {
	PublicConnections int    `yaml:"public_connections"`
	MatchType         string `yaml:"match_type"`
	LobbyPath         string `yaml:"lobby_path"`
	MaxSearchResults  int    `yaml:"max_search_results"`
}

type ProviderConfig struct {
	Subsystem   string `yaml:"subsystem"`
	OwnerName   string `yaml:"owner_name"`
	Address     string `yaml:"address"`
	SeedLobbies int    `yaml:"seed_lobbies"`
}

type EventsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type SettingsConfig struct {
	// Dir holds settings.yaml; empty means the XDG config directory.
	Dir string `yaml:"dir"`
}

func defaultConfig() *Config {
	return &Config{
		Session: SessionConfig{
			PublicConnections: 4,
			MatchType:         "FreeForAll",
			LobbyPath:         "/Game/Maps/Lobby",
			MaxSearchResults:  10,
		},
		Provider: ProviderConfig{
			Subsystem: "NULL",
			Address:   "127.0.0.1:7777",
		},
		Events: EventsConfig{
			Host: "127.0.0.1",
			Port: 8090,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault is Load, except a missing file yields the defaults.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return defaultConfig(), nil
	}
	return cfg, err
}

func (c *Config) Validate() error {
	if c.Session.PublicConnections < 1 {
		return fmt.Errorf("session.public_connections must be at least 1, got %d", c.Session.PublicConnections)
	}
	if c.Session.MaxSearchResults < 1 {
		return fmt.Errorf("session.max_search_results must be at least 1, got %d", c.Session.MaxSearchResults)
	}
	if c.Session.LobbyPath == "" {
		return errors.New("session.lobby_path is required")
	}
	if c.Provider.SeedLobbies < 0 {
		return fmt.Errorf("provider.seed_lobbies must not be negative, got %d", c.Provider.SeedLobbies)
	}
	if c.Events.Enabled && (c.Events.Port < 1 || c.Events.Port > 65535) {
		return fmt.Errorf("events.port out of range: %d", c.Events.Port)
	}
	return nil
}

// Addr returns host:port for the event feed listener.
func (e EventsConfig) Addr() string {
	return fmt.Sprintf("%s:%d", e.Host, e.Port)
}
