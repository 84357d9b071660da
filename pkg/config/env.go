// pkg/config/env.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Environment variables recognized by ApplyEnvironmentOverrides.
const (
	EnvWidth        = "BOXSIM_WIDTH"
	EnvHeight       = "BOXSIM_HEIGHT"
	EnvGravity      = "BOXSIM_GRAVITY"
	EnvTickInterval = "BOXSIM_TICK_INTERVAL"
	EnvFramePeriod  = "BOXSIM_FRAME_PERIOD"
	EnvSpawnCount   = "BOXSIM_SPAWN_COUNT"
)

// ApplyEnvironmentOverrides layers BOXSIM_* environment variables over
// an already-loaded configuration. Durations use Go syntax ("250ms").
func ApplyEnvironmentOverrides(cfg *Config) error {
	if err := overrideFloat(EnvWidth, &cfg.Viewport.Width); err != nil {
		return err
	}
	if err := overrideFloat(EnvHeight, &cfg.Viewport.Height); err != nil {
		return err
	}
	if err := overrideFloat(EnvGravity, &cfg.World.Gravity); err != nil {
		return err
	}
	if err := overrideDuration(EnvTickInterval, &cfg.Loop.TickInterval); err != nil {
		return err
	}
	if err := overrideDuration(EnvFramePeriod, &cfg.Loop.FramePeriod); err != nil {
		return err
	}
	if err := overrideInt(EnvSpawnCount, &cfg.Spawn.Count); err != nil {
		return err
	}
	return nil
}

func overrideFloat(key string, dst *float64) error {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	*dst = v
	return nil
}

func overrideInt(key string, dst *int) error {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	*dst = v
	return nil
}

func overrideDuration(key string, dst *time.Duration) error {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	*dst = v
	return nil
}
