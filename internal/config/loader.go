package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	fileName  = "config.yaml"
	localDir  = "configs"
	localFile = "dungeoncrawler.yaml"
)

// Load loads the configuration.
// Search order: customPath -> ~/.dungeoncrawler/config.yaml -> ./configs/dungeoncrawler.yaml -> embedded default
//
// Files are decoded over the defaults, so a partial file only overrides the
// keys it sets. An explicit customPath must exist and parse.
func Load(customPath string) (Config, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	// Try user config directory
	if userCfgPath := userConfigPath(fileName); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parse(data); err == nil {
				return cfg, cfg.Validate()
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join(localDir, localFile)); err == nil {
		if cfg, err := parse(data); err == nil {
			return cfg, cfg.Validate()
		}
	}

	return Embedded(), nil
}

// Embedded returns the embedded default YAML, or Default() if it cannot be decoded.
func Embedded() Config {
	cfg, err := parse(defaultYAML)
	if err != nil {
		return Default()
	}
	return cfg
}

func parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".dungeoncrawler", filename)
}
