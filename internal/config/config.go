package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config represents the full Tamarind configuration
type Config struct {
	API APIConfig `json:"api"`
	AI  AIConfig  `json:"ai"`
	Log LogConfig `json:"log"`
	UI  UIConfig  `json:"ui"`
}

// APIConfig contains settings for the remote service connection
type APIConfig struct {
	BaseURL   string `json:"baseUrl"`
	TimeoutMs int    `json:"timeoutMs"`
}

// AIConfig contains settings for the AI generation endpoints. Enabled is a
// pointer so an absent key falls back to the default while an explicit
// false in the file still turns AI off.
type AIConfig struct {
	Enabled   *bool `json:"enabled,omitempty"`
	TimeoutMs int   `json:"timeoutMs"`
}

// IsEnabled reports whether AI features are on.
func (a AIConfig) IsEnabled() bool {
	return a.Enabled != nil && *a.Enabled
}

// LogConfig contains logging settings. The TUI owns stdout, so logs go
// to a rotating file instead.
type LogConfig struct {
	File       string `json:"file"`
	Level      string `json:"level"`
	MaxSizeMB  int    `json:"maxSizeMb"`
	MaxBackups int    `json:"maxBackups"`
}

// UIConfig contains refresh and polling settings
type UIConfig struct {
	RefreshIntervalSec int `json:"refreshIntervalSec"`
	NotifyIntervalSec  int `json:"notifyIntervalSec"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		API: APIConfig{
			BaseURL:   "https://api.tamarind.app/api",
			TimeoutMs: 15000,
		},
		AI: AIConfig{
			Enabled:   boolPtr(true),
			TimeoutMs: 60000,
		},
		Log: LogConfig{
			File:       filepath.Join(homeDir, ".tamarind", "logs", "tamarind.log"),
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		UI: UIConfig{
			RefreshIntervalSec: 120,
			NotifyIntervalSec:  60,
		},
	}
}

// LoadConfig loads configuration with priority:
// 1. Environment variables (TAMARIND_*), including a .env file if present
// 2. .tamarind.json in the home directory
// 3. Defaults
func LoadConfig(path string) (*Config, error) {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	cfg := &Config{}
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg = MergeWithDefaults(cfg)
	applyEnv(cfg)
	return cfg, nil
}

// SaveConfig saves configuration to the specified path
func SaveConfig(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeWithDefaults fills in missing values with defaults
func MergeWithDefaults(cfg *Config) *Config {
	defaults := DefaultConfig()

	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = defaults.API.BaseURL
	}
	if cfg.API.TimeoutMs == 0 {
		cfg.API.TimeoutMs = defaults.API.TimeoutMs
	}

	if cfg.AI.Enabled == nil {
		cfg.AI.Enabled = defaults.AI.Enabled
	}
	if cfg.AI.TimeoutMs == 0 {
		cfg.AI.TimeoutMs = defaults.AI.TimeoutMs
	}

	if cfg.Log.File == "" {
		cfg.Log.File = defaults.Log.File
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
	if cfg.Log.MaxSizeMB == 0 {
		cfg.Log.MaxSizeMB = defaults.Log.MaxSizeMB
	}
	if cfg.Log.MaxBackups == 0 {
		cfg.Log.MaxBackups = defaults.Log.MaxBackups
	}

	if cfg.UI.RefreshIntervalSec == 0 {
		cfg.UI.RefreshIntervalSec = defaults.UI.RefreshIntervalSec
	}
	if cfg.UI.NotifyIntervalSec == 0 {
		cfg.UI.NotifyIntervalSec = defaults.UI.NotifyIntervalSec
	}

	return cfg
}

// applyEnv overrides config values from TAMARIND_* environment variables
func applyEnv(cfg *Config) {
	if v := os.Getenv("TAMARIND_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("TAMARIND_API_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			cfg.API.TimeoutMs = ms
		}
	}
	if v := os.Getenv("TAMARIND_AI_ENABLED"); v != "" {
		if on, err := strconv.ParseBool(v); err == nil {
			cfg.AI.Enabled = &on
		}
	}
	if v := os.Getenv("TAMARIND_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("TAMARIND_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func boolPtr(b bool) *bool {
	return &b
}

// DefaultPath returns the default config file location
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".tamarind.json"), nil
}

// Load is a convenience function that loads config from the default path
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfig(path)
}
