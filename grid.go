package ocgen

import (
	"fmt"
	"math"

	"github.com/gonum/floats"
)

// machEps is the double-precision machine epsilon. Step-count ceilings are
// guarded with a 10*machEps margin so that durations which are exact
// multiples of the step size do not get rounded up by floating-point noise.
const machEps = 2.220446049250313e-16

// Grid is an ordered set of shooting-interval boundaries: strictly
// increasing times partitioning [FirstTime, LastTime] into NumIntervals
// intervals. The zero value is an unconfigured grid.
type Grid struct {
	times []float64
}

// NewGrid returns a grid from explicit, strictly increasing time points.
func NewGrid(times ...float64) (Grid, error) {
	if len(times) < 2 {
		return Grid{}, fmt.Errorf("grid needs at least two time points, got %d", len(times))
	}
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			return Grid{}, fmt.Errorf("grid times must be strictly increasing (t[%d]=%g, t[%d]=%g)", i-1, times[i-1], i, times[i])
		}
	}
	cp := make([]float64, len(times))
	copy(cp, times)
	return Grid{cp}, nil
}

// NewEquidistantGrid returns a uniformly spaced grid of `points` time points
// over [t0, tf].
func NewEquidistantGrid(t0, tf float64, points int) (Grid, error) {
	if points < 2 {
		return Grid{}, fmt.Errorf("equidistant grid needs at least two points, got %d", points)
	}
	if tf <= t0 {
		return Grid{}, fmt.Errorf("equidistant grid needs tf > t0 (t0=%g, tf=%g)", t0, tf)
	}
	times := make([]float64, points)
	h := (tf - t0) / float64(points-1)
	for i := range times {
		times[i] = t0 + float64(i)*h
	}
	times[points-1] = tf // kill accumulation error on the last point
	return Grid{times}, nil
}

// IsZero returns whether this grid has not been configured.
func (g Grid) IsZero() bool {
	return len(g.times) == 0
}

// NumIntervals returns the number of shooting intervals.
func (g Grid) NumIntervals() int {
	if g.IsZero() {
		return 0
	}
	return len(g.times) - 1
}

// FirstTime returns the first grid time.
func (g Grid) FirstTime() float64 {
	return g.times[0]
}

// LastTime returns the last grid time.
func (g Grid) LastTime() float64 {
	return g.times[len(g.times)-1]
}

// Time returns the i-th grid time (0 <= i <= NumIntervals).
func (g Grid) Time(i int) float64 {
	return g.times[i]
}

// IsEquidistant returns whether all intervals of this grid have the same
// duration, within floating tolerance.
func (g Grid) IsEquidistant() bool {
	if g.NumIntervals() < 2 {
		return true
	}
	h := (g.LastTime() - g.FirstTime()) / float64(g.NumIntervals())
	for i := 1; i < len(g.times); i++ {
		if !floats.EqualWithinAbsOrRel(g.times[i]-g.times[i-1], h, 10*machEps, 10*machEps) {
			return false
		}
	}
	return true
}

func (g Grid) copyGrid() Grid {
	if g.IsZero() {
		return Grid{}
	}
	cp := make([]float64, len(g.times))
	copy(cp, g.times)
	return Grid{cp}
}

func (g Grid) String() string {
	if g.IsZero() {
		return "Grid{unset}"
	}
	return fmt.Sprintf("Grid{[%g, %g], N=%d, equidistant=%v}", g.FirstTime(), g.LastTime(), g.NumIntervals(), g.IsEquidistant())
}

// deriveStepCounts computes, for each interval of the outer grid, the number
// of integration steps of size h needed to cover its duration. An interval
// whose duration is an exact multiple of h must not be rounded up, hence the
// epsilon guard inside the ceiling.
func deriveStepCounts(ocpGrid Grid, h float64) []int {
	steps := make([]int, ocpGrid.NumIntervals())
	for i := range steps {
		steps[i] = int(math.Ceil((ocpGrid.Time(i+1)-ocpGrid.Time(i))/h - 10*machEps))
	}
	return steps
}
