// pkg/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults for a simulation nobody configured.
const (
	DefaultWidth        = 800.0
	DefaultHeight       = 600.0
	DefaultGravity      = 9.81
	DefaultTickInterval = 300 * time.Millisecond
	DefaultFramePeriod  = 16 * time.Millisecond
	DefaultSpawnCount   = 1
	DefaultRectWidth    = 100.0
	DefaultRectHeight   = 100.0
)

// Config holds the full configuration for a simulation run
type Config struct {
	Viewport ViewportConfig `yaml:"viewport"`
	World    WorldConfig    `yaml:"world"`
	Loop     LoopConfig     `yaml:"loop"`
	Spawn    SpawnConfig    `yaml:"spawn"`
}

// ViewportConfig sizes the render surface
type ViewportConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// WorldConfig contains the global world properties
type WorldConfig struct {
	Gravity float64 `yaml:"gravity"`
}

// LoopConfig paces the simulation loop. TickInterval is the minimum
// elapsed time between performed tick/render passes; FramePeriod is how
// often the host clock delivers frame callbacks.
type LoopConfig struct {
	TickInterval time.Duration `yaml:"tick_interval"`
	FramePeriod  time.Duration `yaml:"frame_period"`
}

// SpawnConfig controls the entities spawned at startup
type SpawnConfig struct {
	Count      int     `yaml:"count"`
	RectWidth  float64 `yaml:"rect_width"`
	RectHeight float64 `yaml:"rect_height"`
}

// DefaultConfig returns the default simulation configuration
func DefaultConfig() *Config {
	return &Config{
		Viewport: ViewportConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
		},
		World: WorldConfig{
			Gravity: DefaultGravity,
		},
		Loop: LoopConfig{
			TickInterval: DefaultTickInterval,
			FramePeriod:  DefaultFramePeriod,
		},
		Spawn: SpawnConfig{
			Count:      DefaultSpawnCount,
			RectWidth:  DefaultRectWidth,
			RectHeight: DefaultRectHeight,
		},
	}
}

// Load reads a configuration file, layering it over the defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save writes a configuration to a file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
