package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load(f *Flags) (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Try to load from file (explicit path takes priority)
	configPath := ""
	if f != nil {
		configPath = f.Config
	}
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	// Apply CLI flags (highest priority)
	applyFlags(cfg, f)

	if err := cfg.Import.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./csvmesh.yaml",
		"./csvmesh.toml",
		filepath.Join(ConfigDir(), "config.yaml"),
		filepath.Join(ConfigDir(), "config.toml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "csvmesh")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "csvmesh")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "csvmesh")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "csvmesh")
	}
}

// isTOML reports whether path names a TOML file.
func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// loadFromFile loads config from a YAML or TOML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if isTOML(path) {
		if err := resetTOMLSlots(cfg, data); err != nil {
			return err
		}
		return toml.Unmarshal(data, cfg)
	}
	return yaml.Unmarshal(data, cfg)
}

// resetTOMLSlots clears the slot lists a TOML file redefines, so that
// [[import.uv]] tables replace the defaults the way YAML sequences do.
func resetTOMLSlots(cfg *Config, data []byte) error {
	var probe struct {
		Import map[string]any `toml:"import"`
	}
	if err := toml.Unmarshal(data, &probe); err != nil {
		return err
	}
	if _, ok := probe.Import["uv"]; ok {
		cfg.Import.UV = nil
	}
	if _, ok := probe.Import["rgb"]; ok {
		cfg.Import.RGB = nil
	}
	if _, ok := probe.Import["alpha"]; ok {
		cfg.Import.Alpha = nil
	}
	return nil
}
