package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/adrg/xdg"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Config represents the tomzim configuration
type Config struct {
	TomboyDir       string        `yaml:"tomboy_dir"`
	ZimDir          string        `yaml:"zim_dir"`
	NotebookName    string        `yaml:"notebook_name"`
	StartNote       string        `yaml:"start_note"`
	LogFile         string        `yaml:"log_file,omitempty"`
	LogLevel        string        `yaml:"log_level,omitempty"`
	Workers         int           `yaml:"workers"`
	Debounce        time.Duration `yaml:"debounce"`
	ExcludePatterns []string      `yaml:"exclude_patterns,omitempty"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		TomboyDir:       filepath.Join(home, ".local", "share", "tomboy"),
		ZimDir:          filepath.Join(home, "Notebooks"),
		NotebookName:    "Tomboy Notes",
		StartNote:       "Starts Here",
		LogLevel:        "info",
		Workers:         runtime.NumCPU(),
		Debounce:        500 * time.Millisecond,
		ExcludePatterns: []string{},
	}
}

// ConfigPath returns the path to the config file
// Uses ~/.config on all platforms for consistency
// Can be overridden for testing
var ConfigPath = func() string {
	if p := os.Getenv("TOMZIM_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to XDG if home dir unavailable
		return filepath.Join(xdg.ConfigHome, "tomzim", "config.yaml")
	}
	return filepath.Join(home, ".config", "tomzim", "config.yaml")
}

// StateFilePath returns the path to the state file
// Uses platform-specific XDG data directory
// Can be overridden for testing
var StateFilePath = func() string {
	return filepath.Join(xdg.DataHome, "tomzim", "state.json")
}

// Load reads configuration from ConfigPath
func Load() (*Config, error) {
	return LoadFile(ConfigPath())
}

// LoadFile reads configuration from path. Values missing from the file
// keep their defaults, and ${VAR} references are expanded from the
// environment
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		// Use the defaults if the file doesn't exist
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.ExcludePatterns == nil {
		cfg.ExcludePatterns = []string{}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.ExpandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	return cfg, nil
}

// Save writes configuration to ConfigPath
func (c *Config) Save() error {
	return c.SaveFile(ConfigPath())
}

// SaveFile writes configuration to configPath
func (c *Config) SaveFile(configPath string) error {

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.TomboyDir, validation.Required.Error("tomboy_dir cannot be empty")),
		validation.Field(&c.ZimDir, validation.Required.Error("zim_dir cannot be empty")),
		validation.Field(&c.NotebookName, validation.Required),
		validation.Field(&c.StartNote, validation.Required),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.Workers, validation.Required, validation.Min(1)),
		validation.Field(&c.Debounce, validation.Min(time.Duration(0))),
	); err != nil {
		return err
	}

	for _, pattern := range c.ExcludePatterns {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("invalid exclude pattern '%s': %w", pattern, err)
		}
	}

	return nil
}

// ExpandPaths expands any ~ or relative paths to absolute paths
func (c *Config) ExpandPaths() error {
	var err error

	c.TomboyDir, err = expandPath(c.TomboyDir)
	if err != nil {
		return fmt.Errorf("failed to expand tomboy_dir: %w", err)
	}

	c.ZimDir, err = expandPath(c.ZimDir)
	if err != nil {
		return fmt.Errorf("failed to expand zim_dir: %w", err)
	}

	c.LogFile, err = expandPath(c.LogFile)
	if err != nil {
		return fmt.Errorf("failed to expand log_file: %w", err)
	}

	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}

	// Expand ~ to home directory
	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		path = filepath.Join(homeDir, path[1:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return absPath, nil
}
