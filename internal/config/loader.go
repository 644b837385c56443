package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const dicefallFile = "dicefall.yaml"

// LoadDicefall loads Dicefall configuration.
// Search order: customPath -> ~/.dicefall/configs/dicefall.yaml -> ./configs/dicefall.yaml -> embedded default
// Files are layered over the built-in defaults, so a partial file only
// overrides what it names. Only an unreadable or invalid customPath is an error.
func LoadDicefall(customPath string) (DicefallConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DicefallConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parseDicefall(data)
		if err != nil {
			return DicefallConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(dicefallFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parseDicefall(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", dicefallFile)); err == nil {
		if cfg, err := parseDicefall(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := parseDicefall(defaultDicefallYAML)
	if err != nil {
		return DefaultDicefallConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// parseDicefall decodes data over the hardcoded defaults and validates it.
func parseDicefall(data []byte) (DicefallConfig, error) {
	cfg := DefaultDicefallConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DicefallConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return DicefallConfig{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".dicefall", "configs", filename)
}
