package storage

import (
	"github.com/san-kum/orbsim/internal/config"
	"github.com/san-kum/orbsim/internal/orbit"
	"github.com/san-kum/orbsim/internal/sim"
)

// MetadataFor describes a run of cfg seeded with seed. Counts and metric
// values are filled in by Save.
func MetadataFor(cfg *config.Config, seed int64, run sim.Config) RunMetadata {
	rng := cfg.RNG
	if rng == "" {
		rng = "std"
	}
	return RunMetadata{
		Variant:   cfg.Variant,
		RNG:       rng,
		Seed:      seed,
		Width:     cfg.Width,
		Height:    cfg.Height,
		Count:     cfg.Count,
		Increment: cfg.Increment,
		Mode:      cfg.Mode,
		Stepper:   cfg.Stepper,
		Threshold: cfg.Threshold(),
		Stride:    run.Stride,
	}
}

// Bounds is the field the run was recorded in. Metadata written without a
// size falls back to the default window.
func (m *RunMetadata) Bounds() orbit.Bounds {
	if m.Width <= 0 || m.Height <= 0 {
		return orbit.Bounds{Width: config.DefaultWidth, Height: config.DefaultHeight}
	}
	return orbit.Bounds{Width: m.Width, Height: m.Height}
}
