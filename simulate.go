package ocgen

import (
	"fmt"
	"sync"

	"github.com/ChristopherRabotin/ode"
)

var wg sync.WaitGroup

/* Handles the offline replay of a derived step plan. */

// RHSFunc evaluates the continuous-time right-hand side. During validation
// it stands in for the code the emission backend will generate.
type RHSFunc func(t float64, x []float64) []float64

// Validation replays the step structure a session derived: it integrates a
// caller-supplied right-hand side over every shooting interval of the outer
// grid, applying exactly the per-interval step counts the generated code
// would replay each control cycle. It is an ode.Integrable.
type Validation struct {
	session  *ExportSession
	rhs      RHSFunc
	state    []float64
	t        float64 // current absolute time
	h        float64 // current step size
	steps    int     // steps remaining in the current interval
	histChan chan<- TrajState
}

// NewValidation returns a validation run for the given session and
// right-hand side.
func NewValidation(session *ExportSession, rhs RHSFunc) *Validation {
	return &Validation{session: session, rhs: rhs}
}

// Run integrates from x0 across every shooting interval of the outer grid.
// When conf is not useless, the sampled trajectory is streamed to its
// scenario file. Returns the final state.
func (v *Validation) Run(ocpGrid Grid, x0 []float64, conf TrajectoryExportConfig) ([]float64, error) {
	if v.session.Grid().IsZero() {
		return nil, fmt.Errorf("%w: no integration grid configured", ErrInvalidOption)
	}
	if ocpGrid.NumIntervals() < 1 {
		return nil, fmt.Errorf("%w: outer grid has no intervals", ErrInvalidOption)
	}
	if !conf.IsUseless() {
		histChan := make(chan TrajState, 1000) // a 1k entry buffer
		v.histChan = histChan
		wg.Add(1)
		go func() {
			defer wg.Done()
			StreamTrajectory(conf, histChan)
		}()
	} else {
		v.histChan = nil
	}

	v.state = append([]float64(nil), x0...)
	v.t = ocpGrid.FirstTime()
	if v.histChan != nil {
		// Write the first data point.
		v.histChan <- TrajState{Time: v.t, State: append([]float64(nil), v.state...)}
	}
	for i := 0; i < ocpGrid.NumIntervals(); i++ {
		steps := v.session.StepsForInterval(i)
		v.h = (ocpGrid.Time(i+1) - ocpGrid.Time(i)) / float64(steps)
		v.steps = steps
		v.t = ocpGrid.Time(i)
		ode.NewRK4(v.t, v.h, v).Solve() // Blocking.
	}
	if v.histChan != nil {
		close(v.histChan)
	}
	wg.Wait() // Don't return until we're done writing all the files.
	v.session.logger.Log("level", "notice", "subsys", "validate", "status", "finished", "tEnd", v.t)
	return append([]float64(nil), v.state...), nil
}

// GetState returns the state for the integrator.
func (v *Validation) GetState() []float64 {
	return append([]float64(nil), v.state...)
}

// SetState sets the updated state after one applied step.
func (v *Validation) SetState(t float64, s []float64) {
	copy(v.state, s)
	v.t += v.h
	v.steps--
	if v.histChan != nil {
		v.histChan <- TrajState{Time: v.t, State: append([]float64(nil), s...)}
	}
}

// Stop implements the stop call of the integrator: the current interval ends
// once its step budget is spent.
func (v *Validation) Stop(t float64) bool {
	return v.steps <= 0
}

// Func evaluates the right-hand side.
func (v *Validation) Func(t float64, x []float64) []float64 {
	return v.rhs(t, x)
}
