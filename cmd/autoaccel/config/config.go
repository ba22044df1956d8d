// Package config loads and persists AutoAccel's user preferences.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config holds user preferences.
type Config struct {
	Theme        string `json:"theme"`          // "system", "light" or "dark"
	Endpoint     string `json:"endpoint"`       // generation API URL
	GeminiAPIKey string `json:"gemini_api_key"` // direct Gemini backend when no endpoint is set
	GeminiModel  string `json:"gemini_model"`
	Verbose      bool   `json:"verbose"` // debug-level logging
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Theme: "system",
	}
}

// Dir returns the directory where config, tokens and logs are stored.
// A project-local .autoaccel directory wins over the home-level one.
func Dir() (string, error) {
	if cwd, err := os.Getwd(); err == nil {
		localDir := filepath.Join(cwd, ".autoaccel")
		if stat, err := os.Stat(localDir); err == nil && stat.IsDir() {
			return localDir, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".autoaccel"), nil
}

// File returns the full path to the config file.
func File() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the configuration from disk and applies environment overrides.
// A missing file yields the defaults, not an error.
func Load() (Config, error) {
	path, err := File()
	if err != nil {
		return DefaultConfig(), err
	}
	return LoadFrom(path)
}

// LoadFrom reads the configuration from an explicit path.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err == nil {
		if uerr := json.Unmarshal(data, &cfg); uerr != nil {
			cfg = DefaultConfig()
			err = uerr
		}
	} else if os.IsNotExist(err) {
		err = nil
	}

	cfg.applyEnvOverrides()
	return cfg, err
}

// Save writes the configuration to disk.
func Save(cfg Config) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := File()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// applyEnvOverrides lets the environment win over the file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("AUTOACCEL_ENDPOINT"); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv("AUTOACCEL_THEME"); v != "" {
		c.Theme = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.GeminiAPIKey = v
	}
	if v := os.Getenv("AUTOACCEL_GEMINI_MODEL"); v != "" {
		c.GeminiModel = v
	}
	if os.Getenv("AUTOACCEL_VERBOSE") == "1" {
		c.Verbose = true
	}
}
