// Package config loads the modelgql configuration file.
//
// A missing file yields the defaults:
//
//	auto_camel_case: true
//	strict_hints: false
//	partial_nullable: true
//
// The scalars section overrides the builtin scalar of a column type:
//
//	scalars:
//	  json: Map
//	  decimal: String
package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/syssam/modelgql/merge"
	"github.com/syssam/modelgql/model"
)

// Config holds the registry settings.
type Config struct {
	// AutoCamelCase exposes snake_case field names in camelCase.
	AutoCamelCase bool `yaml:"auto_camel_case"`
	// StrictHints makes missing optimizer hints a configuration error.
	StrictHints bool `yaml:"strict_hints"`
	// PartialNullable makes every field of a partial input nullable.
	PartialNullable bool `yaml:"partial_nullable"`
	// Scalars maps column type names, such as "json", to GraphQL scalars.
	Scalars map[string]string `yaml:"scalars,omitempty"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		AutoCamelCase:   true,
		PartialNullable: true,
		Scalars:         make(map[string]string),
	}
}

// Load reads the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML configuration. Omitted keys keep their defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Scalars == nil {
		cfg.Scalars = make(map[string]string)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks the scalar mapping.
func (c *Config) Validate() error {
	for name, scalar := range c.Scalars {
		if _, err := model.ParseColumnType(name); err != nil {
			return fmt.Errorf("config: scalars: %w", err)
		}
		if scalar == "" {
			return fmt.Errorf("config: scalars: empty scalar for %s", name)
		}
	}
	return nil
}

// MergerOptions returns the merge options the configuration implies.
func (c *Config) MergerOptions() ([]merge.Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	opts := []merge.Option{
		merge.CamelCase(c.AutoCamelCase),
		merge.PartialNullable(c.PartialNullable),
	}
	for _, name := range slices.Sorted(maps.Keys(c.Scalars)) {
		t, _ := model.ParseColumnType(name)
		opts = append(opts, merge.Scalar(t, c.Scalars[name]))
	}
	return opts, nil
}
