package orbit

import "math/rand"

// Sampler draws coordinates for resets.
type Sampler interface {
	// Uniform returns a value in [lo, hi).
	Uniform(lo, hi float64) float64
}

// RandSampler draws from math/rand.
type RandSampler struct {
	r *rand.Rand
}

func NewRandSampler(seed int64) *RandSampler {
	return &RandSampler{r: rand.New(rand.NewSource(seed))}
}

// NewSourceSampler wraps any math/rand source, such as a PCG generator.
func NewSourceSampler(src rand.Source) *RandSampler {
	return &RandSampler{r: rand.New(src)}
}

func (s *RandSampler) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*s.r.Float64()
}
