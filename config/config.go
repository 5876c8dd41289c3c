// Package config reads process settings from TRAVELCAM_* environment
// variables. Flags given to a command override them.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/milk9111/travelcam/rig"
)

type Config struct {
	Scene   string `env:"TRAVELCAM_SCENE"   envDefault:"scenes/three_targets.yaml"`
	Watch   bool   `env:"TRAVELCAM_WATCH"`
	FPS     int    `env:"TRAVELCAM_FPS"     envDefault:"24"`
	Workers int    `env:"TRAVELCAM_WORKERS"`

	// Rig overrides; unset leaves rig.yaml in charge.
	CameraHeight *float64 `env:"TRAVELCAM_CAMERA_HEIGHT"`
	FrameSpacing *float64 `env:"TRAVELCAM_FRAME_SPACING"`
	FrameOffset  *float64 `env:"TRAVELCAM_FRAME_OFFSET"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.FPS <= 0 {
		return Config{}, fmt.Errorf("config: TRAVELCAM_FPS must be positive, got %d", cfg.FPS)
	}
	if cfg.FrameSpacing != nil && *cfg.FrameSpacing <= 0 {
		return Config{}, fmt.Errorf("config: TRAVELCAM_FRAME_SPACING must be positive, got %g", *cfg.FrameSpacing)
	}
	return cfg, nil
}

// ApplyRig overlays the environment's rig overrides on base.
func (c Config) ApplyRig(base rig.Config) rig.Config {
	if c.CameraHeight != nil {
		base.CameraHeight = *c.CameraHeight
	}
	if c.FrameSpacing != nil {
		base.FrameSpacing = *c.FrameSpacing
	}
	if c.FrameOffset != nil {
		base.FrameOffset = *c.FrameOffset
	}
	return base
}
