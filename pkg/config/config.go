package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Engine EngineConfig `yaml:"engine"`
	Log    LogConfig    `yaml:"log"`
}

type EngineConfig struct {
	DefaultStrategy string `yaml:"default_strategy"`
	Language        string `yaml:"language"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{DefaultStrategy: "hunk"},
		Log:    LogConfig{Level: "info", Format: "console"},
	}
}

// LoadConfig reads a YAML file on top of Default. Keys missing from the
// file keep their default values.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", filename, err)
	}

	return config, nil
}

func (c *Config) Validate() error {
	switch c.Engine.DefaultStrategy {
	case "hunk", "symbol":
	default:
		return fmt.Errorf("engine.default_strategy must be hunk or symbol, got %q", c.Engine.DefaultStrategy)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}

	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}

	return nil
}
