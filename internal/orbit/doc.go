// Package orbit provides the orbiter field: a fixed population of points whose
// velocities are nudged every frame by pairwise comparison of their positions.
//
// The package defines the core types and operations:
//
//   - [Orbiter]: position and velocity of a single point
//   - [Field]: fixed-length set of orbiters updated in place
//   - [Stepper]: strategy for the O(n²) pairwise velocity pass
//   - [Cycle]: periodic reset to random positions with zero velocity
//   - [Sampler]: source of uniform coordinates for resets
//
// # Example
//
//	f, _ := orbit.NewField(32, 0.005)
//	c := orbit.NewCycle(orbit.ThresholdFor(60, 8))
//	s := orbit.NewRandSampler(42)
//	for {
//		c.Advance(f, s, orbit.Bounds{Width: 768, Height: 768})
//	}
//
// # Thread Safety
//
// Field and Cycle are NOT thread-safe. Hand a [Snapshot] to other goroutines.
package orbit
