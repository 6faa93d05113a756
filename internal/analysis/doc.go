// Package analysis characterizes recorded orbiter runs and sampler output.
//
//   - [PowerSpectrum] and [DominantPeriod]: frequency content of a metric series
//   - [Divergence]: sensitivity of a field to a small position perturbation
//   - [ChiSquare] and [ChiSquareQuantile]: uniformity check for bounded draws
//
// # Reset Cycles
//
// A spread series sampled every frame oscillates with the reset cycle, so its
// dominant period is expected near threshold+2 frames:
//
//	period, _ := analysis.DominantPeriod(result.Series["spread"])
package analysis
