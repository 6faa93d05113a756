package audio

import (
	"fmt"
	"math"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/san-kum/orbsim/internal/orbit"
)

const (
	SampleRate = 44100
	BufferSize = 1024
)

// Pad is a sustained chord whose low-pass cutoff opens as the field spreads.
// It is fed as a sim observer and rendered from the portaudio callback.
type Pad struct {
	stream *portaudio.Stream
	bounds orbit.Bounds

	mu     sync.Mutex
	target float64 // normalized spread, 0 at a point, about 0.4 uniform

	smooth float64
	time   float64
	filter [2]float64
	delay  [2][]float64
	head   int
	active bool
}

func NewPad(b orbit.Bounds) *Pad {
	delayLen := int(float64(SampleRate) * 0.45)
	return &Pad{
		bounds: b,
		delay:  [2][]float64{make([]float64, delayLen), make([]float64, delayLen)},
	}
}

// Start opens an output-only default stream.
func (p *Pad) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio init: %w", err)
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, p.Process)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("open stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("start stream: %w", err)
	}
	p.stream = stream
	p.active = true
	return nil
}

func (p *Pad) Stop() {
	if !p.active {
		return
	}
	p.stream.Stop()
	p.stream.Close()
	portaudio.Terminate()
	p.active = false
}

func (p *Pad) OnFrame(f *orbit.Field, frame int, reset bool) {
	diag := math.Hypot(p.bounds.Width, p.bounds.Height)
	if diag == 0 {
		return
	}
	spread := orbit.Spread(f.Orbiters()) / diag

	p.mu.Lock()
	p.target = spread
	p.mu.Unlock()
}

// Target is the last normalized spread observed.
func (p *Pad) Target() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.target
}

func triangle(phase float64) float64 {
	x := phase - math.Floor(phase)
	return 4.0*math.Abs(x-0.5) - 1.0
}

// one-pole low-pass
func lpf(sample, cutoff, dt, state float64) float64 {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	return state + alpha*(sample-state)
}

// A minor add9, A2 C3 E3 G3 B3.
var padFreqs = []float64{110.00, 130.81, 164.81, 196.00, 246.94}

// Process fills a stereo output buffer.
func (p *Pad) Process(out [][]float32) {
	p.mu.Lock()
	target := p.target
	p.mu.Unlock()

	dt := 1.0 / float64(SampleRate)
	const vol = 0.25

	for i := range out[0] {
		p.smooth = p.smooth*0.9995 + target*0.0005
		cutoff := 250.0 + math.Min(p.smooth*2500.0, 1500.0)

		var left, right float64
		g := 1.0 / float64(len(padFreqs))
		for j, f := range padFreqs {
			lfo := math.Sin(p.time*0.2 + float64(j))
			left += triangle(p.time*f*0.999) * g * (0.7 + 0.3*lfo)
			right += triangle(p.time*f*1.001) * g * (0.7 + 0.3*lfo)
		}

		p.filter[0] = lpf(left, cutoff, dt, p.filter[0])
		p.filter[1] = lpf(right, cutoff, dt, p.filter[1])

		dl, dr := p.delay[0][p.head], p.delay[1][p.head]
		mixL := p.filter[0] + dl*0.3 + dr*0.1
		mixR := p.filter[1] + dr*0.3 + dl*0.1
		p.delay[0][p.head] = mixL * 0.6
		p.delay[1][p.head] = mixR * 0.6
		p.head = (p.head + 1) % len(p.delay[0])

		out[0][i] = float32(clamp(mixL * vol))
		out[1][i] = float32(clamp(mixR * vol))
		p.time += dt
	}
}

func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
