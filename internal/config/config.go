// Package config loads optional CLI defaults from a YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds scan defaults a user can persist instead of repeating
// flags. Flags always win over file values.
type Config struct {
	Method          string   `yaml:"method"`
	Algo            string   `yaml:"algo"`
	Workers         int      `yaml:"workers"`
	Threshold       int      `yaml:"threshold"`
	MinSize         string   `yaml:"min_size"`
	MaxSize         string   `yaml:"max_size"`
	ImageExtensions []string `yaml:"image_extensions"`
	CacheFile       string   `yaml:"cache_file"`
}

// DefaultPath returns the conventional config location, or "" when the
// user config dir cannot be resolved.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "dupefinder", "config.yaml")
}

// Load reads the config at path. A missing file is not an error: the
// zero Config is returned so flag defaults apply.
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
