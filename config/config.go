package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ServerConfig holds the upload server settings
type ServerConfig struct {
	// Host to bind (empty = all interfaces)
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// OutputConfig holds output settings for one-shot runs
type OutputConfig struct {
	// Dir is where generated assets are written
	Dir string `toml:"dir"`
	// Zip writes a single bundle archive instead of loose files
	Zip bool `toml:"zip"`
}

// DefaultsConfig holds per-run defaults that flags can override
type DefaultsConfig struct {
	// Radius is the base corner radius at the 192px reference size
	Radius     int    `toml:"radius"`
	AppName    string `toml:"app_name"`
	ShortName  string `toml:"short_name"`
	ThemeColor string `toml:"theme_color"`
}

// LogConfig holds logging settings
type LogConfig struct {
	// Level is "debug", "info", "warn", "error" or "silent"
	Level string `toml:"level"`
}

// Config holds the generator configuration
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Output   OutputConfig   `toml:"output"`
	Defaults DefaultsConfig `toml:"defaults"`
	Log      LogConfig      `toml:"log"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "",
			Port: 8787,
		},
		Output: OutputConfig{
			Dir: "dist",
			Zip: false,
		},
		Defaults: DefaultsConfig{
			Radius:     40,
			AppName:    "",
			ShortName:  "",
			ThemeColor: "#ffffff",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Addr returns the listen address for the upload server
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetConfigDir returns the config directory path
func GetConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".config/icon-forge"
	}
	return filepath.Join(homeDir, ".config", "icon-forge")
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	return filepath.Join(GetConfigDir(), "config.toml")
}

// Load loads the configuration from disk
func Load() (*Config, error) {
	configPath := GetConfigPath()

	// Ensure config directory exists
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, err
	}

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Create default config
		cfg := DefaultConfig()
		if err := cfg.Save(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	// Load existing config
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(configPath, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	configPath := GetConfigPath()

	// Ensure config directory exists
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	// Write config file
	f, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(c)
}
