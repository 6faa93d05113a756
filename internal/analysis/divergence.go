package analysis

import (
	"math"

	"github.com/san-kum/orbsim/internal/orbit"
)

// Divergence estimates how fast two copies of f separate when the first
// orbiter of one copy is shifted by eps along x. Both copies are updated for
// frames frames without resets and the mean of ln(d(t)/eps) is returned.
//
// The pairwise rule only reacts to orderings, so a perturbation that flips no
// comparison leaves the result at 0.
func Divergence(f *orbit.Field, eps float64, frames int) float64 {
	if f.Len() == 0 || eps <= 0 || frames <= 0 {
		return 0
	}

	base := f.Orbiters()
	shifted := f.Orbiters()
	shifted[0].Pos.X += eps

	a, err := orbit.FromOrbiters(base, f.Increment())
	if err != nil {
		return 0
	}
	b, err := orbit.FromOrbiters(shifted, f.Increment())
	if err != nil {
		return 0
	}
	a.SetMode(f.Mode())
	b.SetMode(f.Mode())

	sumLog := 0.0
	count := 0
	for i := 0; i < frames; i++ {
		a.Update()
		b.Update()

		sep := separation(a, b)
		if sep > 0 {
			sumLog += math.Log(sep / eps)
			count++
		}
	}

	if count == 0 {
		return 0
	}
	return sumLog / float64(count)
}

func separation(a, b *orbit.Field) float64 {
	sum := 0.0
	for i := 0; i < a.Len(); i++ {
		d := a.At(i).Pos.Sub(b.At(i).Pos)
		sum += d.X*d.X + d.Y*d.Y
	}
	return math.Sqrt(sum)
}
