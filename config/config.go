// Package config loads editor settings from the user config directory with
// environment overrides on top.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

const (
	FrontendTcell     = "tcell"
	FrontendBubbletea = "bubbletea"

	DefaultTabWidth = 4

	configName = "config.json"
)

const (
	envFrontend = "HUE_FRONTEND"
	envLanguage = "HUE_LANGUAGE"
	envLog      = "HUE_LOG"
	envTabWidth = "HUE_TAB_WIDTH"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Frontend string `json:"frontend"`
	Language string `json:"language,omitempty"`
	TabWidth int    `json:"tabWidth"`
	LogFile  string `json:"logFile,omitempty"`
}

func Default() Config {
	return Config{
		Frontend: FrontendTcell,
		TabWidth: DefaultTabWidth,
	}
}

// Load reads the config file, writing the defaults out when none exists, and
// applies environment overrides.
func Load() (Config, error) {
	cfg := Default()

	path, err := Path()
	if err != nil {
		log.Printf("config: failed to resolve config path: %v", err)
	} else {
		exists, err := readConfig(path, &cfg)
		if err != nil {
			return cfg, fmt.Errorf("read %s: %w", path, err)
		}
		if !exists {
			if err := writeConfig(path, cfg); err != nil {
				log.Printf("config: failed to write default config: %v", err)
			}
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Frontend {
	case FrontendTcell, FrontendBubbletea:
	default:
		return fmt.Errorf("%w: unknown frontend %q", ErrInvalid, c.Frontend)
	}
	if c.TabWidth <= 0 {
		return fmt.Errorf("%w: tab width must be positive, got %d", ErrInvalid, c.TabWidth)
	}
	return nil
}

// Path is the location of the config file.
func Path() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "hue", configName), nil
}

func applyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv(envFrontend); ok && v != "" {
		cfg.Frontend = v
	}
	if v, ok := os.LookupEnv(envLanguage); ok && v != "" {
		cfg.Language = v
	}
	if v, ok := os.LookupEnv(envLog); ok && v != "" {
		cfg.LogFile = v
	}
	if v, ok := os.LookupEnv(envTabWidth); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalid, envTabWidth, v, err)
		}
		cfg.TabWidth = n
	}
	return nil
}

func readConfig(path string, cfg *Config) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return true, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return true, nil
}

func writeConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
