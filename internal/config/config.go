package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by every command. Zero values mean "use
// the command's default": Workers 0 becomes the CPU-based default at the CLI
// layer, Output "" lets each command pick its own output name.
type Config struct {
	Exclude       []string `yaml:"exclude"`
	Workers       int      `yaml:"workers"`
	ProgressEvery int      `yaml:"progress_every"`
	Output        string   `yaml:"output"`
}

func DefaultConfig() *Config {
	return &Config{
		Exclude: []string{
			".git/",
			".svn/",
			"node_modules/",
			"vendor/",
			"__pycache__/",
			"*.tmp",
			"*.swp",
			".DS_Store",
			"Thumbs.db",
		},
		ProgressEvery: 100,
	}
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	// Initialize Exclude slice if nil (for empty configs)
	if cfg.Exclude == nil {
		cfg.Exclude = []string{}
	}
	if cfg.ProgressEvery <= 0 {
		cfg.ProgressEvery = 100
	}

	return &cfg, nil
}
