package metrics

import (
	"github.com/san-kum/orbsim/internal/orbit"
	"github.com/san-kum/orbsim/internal/sim"
)

// Default is the metric set attached to headless runs.
func Default(b orbit.Bounds) []sim.Metric {
	return []sim.Metric{
		NewSpread(),
		NewMaxSpread(),
		NewMeanSpeed(),
		NewMaxSpeed(),
		NewContainment(b),
		NewResets(),
	}
}
