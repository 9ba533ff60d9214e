package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads the configuration.
// Search order: customPath -> ~/.mazebrawl/config.yaml ->
// ./configs/config.yaml -> embedded default. Every file is layered on
// top of the embedded default, so partial configs only override the
// keys they name.
func Load(customPath string) (Config, error) {
	cfg, err := defaults()
	if err != nil {
		return cfg, err
	}

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: cannot read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: cannot parse %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	for _, path := range []string{userConfigPath(), filepath.Join("configs", "config.yaml")} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: cannot parse %s: %w", path, err)
		}
		break
	}
	return cfg, cfg.Validate()
}

// Default returns the compiled-in configuration.
func Default() Config {
	cfg, err := defaults()
	if err != nil {
		// The embedded file is validated by the package tests.
		panic(err)
	}
	return cfg
}

func defaults() (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return cfg, fmt.Errorf("config: embedded default is broken: %w", err)
	}
	return cfg, nil
}

// userConfigPath returns ~/.mazebrawl/config.yaml, or empty when the
// home directory is unavailable.
func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".mazebrawl", "config.yaml")
}
