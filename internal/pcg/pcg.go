// Package pcg implements the 32-bit PCG-XSH-RR generator: a 64-bit linear
// congruential state whose output is permuted by an xorshift and a
// state-dependent rotation.
package pcg

import (
	"math/bits"
	"time"
)

// Multiplier is the LCG multiplier for the 64-bit state.
const Multiplier uint64 = 6364136223846793005

type PCG struct {
	state uint64
	inc   uint64
}

// New returns a generator with the given raw state and increment. The low
// bit of the increment is forced on at every step.
func New(state, inc uint64) *PCG {
	return &PCG{state: state, inc: inc}
}

// Seeded follows the reference seeding procedure, so published test vectors
// for (initstate, initseq) apply.
func Seeded(initstate, initseq uint64) *PCG {
	p := &PCG{inc: initseq<<1 | 1}
	p.Uint32()
	p.state += initstate
	p.Uint32()
	return p
}

// FromClock seeds state and increment from the same wall-clock second.
// Two generators started within one second produce identical streams.
func FromClock(t time.Time) *PCG {
	s := uint64(t.Unix())
	return New(s, s)
}

func (p *PCG) Uint32() uint32 {
	old := p.state
	p.state = old*Multiplier + (p.inc | 1)
	xorshifted := uint32(((old >> 18) ^ old) >> 27)
	rot := int(old >> 59)
	return bits.RotateLeft32(xorshifted, -rot)
}

// Bounded returns a uniform value in [0, bound). Draws below (-bound % bound)
// are rejected so every residue is equally likely. Bounded(0) returns 0.
func (p *PCG) Bounded(bound uint32) uint32 {
	if bound == 0 {
		return 0
	}
	t := threshold(bound)
	for {
		r := p.Uint32()
		if r >= t {
			return r % bound
		}
	}
}

func threshold(bound uint32) uint32 {
	return -bound % bound
}

func (p *PCG) Uint64() uint64 {
	hi := uint64(p.Uint32())
	lo := uint64(p.Uint32())
	return hi<<32 | lo
}

// Float64 returns a value in [0, 1) with 53 bits of precision.
func (p *PCG) Float64() float64 {
	return float64(p.Uint64()>>11) / (1 << 53)
}

// Uniform returns a value in [lo, hi).
func (p *PCG) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*p.Float64()
}

// Int63 and Seed make PCG a math/rand.Source64.
func (p *PCG) Int63() int64 { return int64(p.Uint64() >> 1) }

// Seed resets the generator the way FromClock does, using seed for both the
// state and the increment.
func (p *PCG) Seed(seed int64) {
	p.state = uint64(seed)
	p.inc = uint64(seed)
}

// State exposes the raw state and increment, mostly for recording a run.
func (p *PCG) State() (state, inc uint64) { return p.state, p.inc }
