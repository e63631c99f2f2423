// Package config loads service configuration from a JSON file at
// $XDG_CONFIG_HOME/humaine/config.json (falling back to ~/.config), with
// HUMAINE_* environment variables overriding file values.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
)

type Config struct {
	Server  ServerConfig  `json:"server"`
	LLM     LLMConfig     `json:"llm"`
	Storage StorageConfig `json:"storage"`
	Log     LogConfig     `json:"log"`
	API     APIConfig     `json:"api"`
}

type ServerConfig struct {
	Port int `json:"port" env:"HUMAINE_PORT"`
}

type LLMConfig struct {
	APIKey  string `json:"api_key" env:"HUMAINE_LLM_API_KEY"`
	BaseURL string `json:"base_url" env:"HUMAINE_LLM_BASE_URL"`
	Model   string `json:"model" env:"HUMAINE_LLM_MODEL"`
}

type StorageConfig struct {
	DataDir string `json:"data_dir" env:"HUMAINE_DATA_DIR"`
	// SaveIntervalMS is the profile flush poll interval.
	SaveIntervalMS int `json:"save_interval_ms" env:"HUMAINE_SAVE_INTERVAL_MS"`
}

type LogConfig struct {
	Level string `json:"level" env:"HUMAINE_LOG_LEVEL"`
}

type APIConfig struct {
	Token string `json:"token" env:"HUMAINE_API_TOKEN"`
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 8000,
		},
		LLM: LLMConfig{
			BaseURL: "https://api.openai.com/v1",
			Model:   "gpt-3.5-turbo",
		},
		Storage: StorageConfig{
			DataDir:        defaultDataDir(),
			SaveIntervalMS: 2000,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Path returns the config file location.
func Path() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "humaine", "config.json"), nil
}

func defaultDataDir() string {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./data"
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "humaine")
}

// Load builds the effective config: defaults, then the config file if it
// exists, then environment overrides.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Config{}, err
	}
	return loadFrom(path)
}

func loadFrom(path string) (Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	if err == nil {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}

	return cfg, nil
}

// Save writes the config file, creating its directory if needed.
func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return saveTo(path, cfg)
}

func saveTo(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// EnsureAPIToken generates and persists a bearer token on first run, so the
// CLI and server agree on it without manual setup. Returns the effective
// token.
func EnsureAPIToken(cfg *Config) (string, error) {
	if cfg.API.Token != "" {
		return cfg.API.Token, nil
	}
	cfg.API.Token = uuid.NewString()
	if err := Save(*cfg); err != nil {
		return "", fmt.Errorf("persisting generated API token: %w", err)
	}
	return cfg.API.Token, nil
}
