// Package config holds the run settings for clean-tags and loads the optional
// YAML settings file.
//
// Defaults only live here, at the command boundary. The cleaning pipeline
// itself receives every value explicitly.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"cleantags/internal/tags"
)

const (
	DefaultInput     = "data.js"
	DefaultThreshold = 2
)

// Config mirrors the settings file. Every field is optional in the file.
type Config struct {
	Input     string `yaml:"input"`
	Threshold *int   `yaml:"threshold,omitempty"`
	Block     string `yaml:"block"`
	Suffix    string `yaml:"suffix"`
	SQLite    string `yaml:"sqlite,omitempty"`
}

// Default returns the settings used when neither flags nor a file set them.
func Default() Config {
	threshold := DefaultThreshold
	return Config{
		Input:     DefaultInput,
		Threshold: &threshold,
		Block:     tags.DefaultBlock,
		Suffix:    tags.DefaultSuffix,
	}
}

// ThresholdValue returns the configured threshold or the default.
func (c Config) ThresholdValue() int {
	if c.Threshold == nil {
		return DefaultThreshold
	}
	return *c.Threshold
}

// Load reads path and fills unset fields with defaults. A missing file is an
// error because the path was requested explicitly.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: %s does not exist", path)
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return parsed, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if strings.TrimSpace(c.Input) == "" {
		c.Input = def.Input
	}
	if c.Threshold == nil {
		c.Threshold = def.Threshold
	}
	if strings.TrimSpace(c.Block) == "" {
		c.Block = def.Block
	}
	if c.Suffix == "" {
		c.Suffix = def.Suffix
	}
}

func (c *Config) normalize() {
	c.Input = strings.TrimSpace(c.Input)
	c.Block = strings.TrimSpace(c.Block)
	c.SQLite = strings.TrimSpace(c.SQLite)
}

// Validate checks values that would make a run meaningless or unsafe.
func (c Config) Validate() error {
	if c.ThresholdValue() < 0 {
		return fmt.Errorf("threshold must be >= 0, got %d", c.ThresholdValue())
	}
	if !tags.ValidBlockName(c.Block) {
		return fmt.Errorf("block %q is not a valid declaration name", c.Block)
	}
	if c.Suffix == "" {
		return fmt.Errorf("suffix must not be empty")
	}
	if strings.ContainsAny(c.Suffix, `/\`) {
		return fmt.Errorf("suffix %q must not contain path separators", c.Suffix)
	}
	return nil
}
