// Package config handles configuration loading for the API server.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults are camera parameters used when a request omits them.
type Defaults struct {
	TileSize int     `yaml:"tile_size,omitempty" json:"tile_size"`
	Zoom     float64 `yaml:"zoom,omitempty" json:"zoom"`
}

// Limits bound the camera parameters a request may ask for.
type Limits struct {
	MaxZoom     float64 `yaml:"max_zoom,omitempty" json:"max_zoom"`
	MaxViewport float64 `yaml:"max_viewport,omitempty" json:"max_viewport"`
	MaxPreview  int     `yaml:"max_preview,omitempty" json:"max_preview"`
}

// Config represents the root configuration file structure.
type Config struct {
	Attribution string   `yaml:"attribution,omitempty" json:"attribution,omitempty"`
	CacheSize   int      `yaml:"cache_size,omitempty" json:"-"`
	Defaults    Defaults `yaml:"defaults,omitempty" json:"defaults"`
	Limits      Limits   `yaml:"limits,omitempty" json:"limits"`
}

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.Normalize()

	return &cfg, nil
}

// Default returns the built-in configuration used when no file is given.
func Default() *Config {
	cfg := &Config{CacheSize: 1024}
	cfg.Normalize()

	return cfg
}

// Normalize fills unset fields with working defaults. CacheSize is left
// alone so the server flag can still override an unset value.
func (c *Config) Normalize() {
	if c.Defaults.TileSize <= 0 {
		c.Defaults.TileSize = 256
	}
	if c.Defaults.Zoom <= 0 {
		c.Defaults.Zoom = 2
	}
	if c.Limits.MaxZoom <= 0 {
		c.Limits.MaxZoom = 24
	}
	if c.Limits.MaxViewport <= 0 {
		c.Limits.MaxViewport = 8192
	}
	if c.Limits.MaxPreview <= 0 {
		c.Limits.MaxPreview = 2048
	}
}
