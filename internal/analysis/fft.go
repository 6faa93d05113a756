package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// FFT transforms data, zero padding it to a power of two so that the bins of
// PowerSpectrum line up with integer periods.
func FFT(data []float64) []complex128 {
	if p := nextPow2(len(data)); p != len(data) {
		padded := make([]float64, p)
		copy(padded, data)
		data = padded
	}
	return fft.FFTReal(data)
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func PowerSpectrum(data []float64) []float64 {
	fft := FFT(data)
	ps := make([]float64, len(fft)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}

	return ps
}

// DominantPeriod returns the period in samples of the strongest non-constant
// component of series, and that component's magnitude. The mean is removed
// first. A series too short or flat to have one yields 0, 0.
func DominantPeriod(series []float64) (float64, float64) {
	if len(series) < 4 {
		return 0, 0
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))

	centered := make([]float64, len(series))
	for i, v := range series {
		centered[i] = v - mean
	}

	ps := PowerSpectrum(centered)
	n := 2 * len(ps)
	best, power := 0, 0.0
	for k := 1; k < len(ps); k++ {
		if ps[k] > power {
			best, power = k, ps[k]
		}
	}
	if best == 0 {
		return 0, 0
	}
	return float64(n) / float64(best), power
}
