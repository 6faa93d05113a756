package sim

import (
	"time"

	"github.com/san-kum/orbsim/internal/config"
	"github.com/san-kum/orbsim/internal/orbit"
)

// FromConfig builds a simulator for cfg. The returned seed is the one the
// sampler was actually built from, so a clock-seeded run can be replayed.
func FromConfig(cfg *config.Config, now time.Time) (*Simulator, int64, error) {
	if err := cfg.Validate(); err != nil {
		return nil, 0, err
	}
	f, err := cfg.NewField()
	if err != nil {
		return nil, 0, err
	}
	sampler, seed := cfg.NewSampler(now)
	return New(f, orbit.NewCycle(cfg.Threshold()), sampler, cfg.Bounds()), seed, nil
}
