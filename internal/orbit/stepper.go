package orbit

import (
	"fmt"
	"sort"
)

// Stepper applies the pairwise velocity pass to os. For every pair (i, j)
// with i <= j it compares each axis independently; d is the signed increment
// the larger coordinate receives and the smaller gives up. Positions are not
// touched.
type Stepper interface {
	Name() string
	Step(os []Orbiter, d float64)
}

// Accumulate collects every pairwise delta into a scratch buffer and applies
// the sums in a second pass.
type Accumulate struct {
	acc []Vec2
}

func NewAccumulate() *Accumulate { return &Accumulate{} }

func (a *Accumulate) Name() string { return "accumulate" }

func (a *Accumulate) Step(os []Orbiter, d float64) {
	n := len(os)
	if cap(a.acc) < n {
		a.acc = make([]Vec2, n)
	}
	acc := a.acc[:n]
	for i := range acc {
		acc[i] = Vec2{}
	}

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			dx := nudge(os[i].Pos.X, os[j].Pos.X, d)
			dy := nudge(os[i].Pos.Y, os[j].Pos.Y, d)
			acc[i].X += dx
			acc[j].X -= dx
			acc[i].Y += dy
			acc[j].Y -= dy
		}
	}

	for i := range os {
		os[i].Vel.X += acc[i].X
		os[i].Vel.Y += acc[i].Y
	}
}

// InPlace mutates both velocities of a pair directly through their indices.
// Comparisons read positions only, which do not change during the pass.
type InPlace struct{}

func NewInPlace() *InPlace { return &InPlace{} }

func (InPlace) Name() string { return "inplace" }

func (InPlace) Step(os []Orbiter, d float64) {
	n := len(os)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			dx := nudge(os[i].Pos.X, os[j].Pos.X, d)
			dy := nudge(os[i].Pos.Y, os[j].Pos.Y, d)
			os[i].Vel.X += dx
			os[j].Vel.X -= dx
			os[i].Vel.Y += dy
			os[j].Vel.Y -= dy
		}
	}
}

// Parallel splits the rows of the comparison matrix across workers. Each
// worker owns a disjoint range of accumulator rows and compares its rows
// against every orbiter, so no two goroutines write the same slot.
type Parallel struct {
	acc      []Vec2
	workers  int
	minChunk int
}

func NewParallel(workers int) *Parallel {
	return &Parallel{workers: workers, minChunk: 8}
}

func (p *Parallel) Name() string { return "parallel" }

func (p *Parallel) Step(os []Orbiter, d float64) {
	n := len(os)
	if cap(p.acc) < n {
		p.acc = make([]Vec2, n)
	}
	acc := p.acc[:n]

	ParallelFor(n, p.minChunk, p.workers, func(start, end int) {
		for i := start; i < end; i++ {
			var sum Vec2
			for j := 0; j < n; j++ {
				sum.X += nudge(os[i].Pos.X, os[j].Pos.X, d)
				sum.Y += nudge(os[i].Pos.Y, os[j].Pos.Y, d)
			}
			acc[i] = sum
		}
	})

	for i := range os {
		os[i].Vel.X += acc[i].X
		os[i].Vel.Y += acc[i].Y
	}
}

var steppers = map[string]func() Stepper{
	"accumulate": func() Stepper { return NewAccumulate() },
	"inplace":    func() Stepper { return NewInPlace() },
	"parallel":   func() Stepper { return NewParallel(0) },
}

// NewStepper returns a fresh stepper by name. An empty name selects
// accumulate.
func NewStepper(name string) (Stepper, error) {
	if name == "" {
		name = "accumulate"
	}
	mk, ok := steppers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStepper, name)
	}
	return mk(), nil
}

func StepperNames() []string {
	names := make([]string, 0, len(steppers))
	for k := range steppers {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
