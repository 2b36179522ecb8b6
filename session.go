package ocgen

import (
	"fmt"
	"math"
	"os"

	kitlog "github.com/go-kit/kit/log"
)

// VarType tags the data type of a declared export variable.
type VarType uint8

const (
	// VarReal is a double-precision export variable.
	VarReal VarType = iota
	// VarInt is an integer export variable.
	VarInt
	// VarBool is a boolean-valued export variable.
	VarBool
)

func (v VarType) String() string {
	switch v {
	case VarInt:
		return "int"
	case VarBool:
		return "bool"
	default:
		return "real"
	}
}

// ExportVariable declares one symbol of the generated module. The name is
// qualified with the session's header prefix so that multiple generated
// modules can coexist without symbol collisions.
type ExportVariable struct {
	Name       string
	Rows, Cols int
	Type       VarType
}

// NewExportVariable declares a symbol qualified by the given prefix.
func NewExportVariable(prefix, name string, rows, cols int, t VarType) ExportVariable {
	return ExportVariable{Name: qualifySymbol(prefix, name), Rows: rows, Cols: cols, Type: t}
}

func qualifySymbol(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "_" + name
}

// Options groups the generation-wide flags. They travel together through the
// generation pipeline so that invariants between them are enforced at one
// site instead of via free-standing booleans.
type Options struct {
	// InlineRHS generates code for the right-hand side; when false, the
	// generated integrator calls an externally supplied function instead.
	InlineRHS bool
	// Equidistant marks the integration grid as uniform, permitting a single
	// reusable per-interval step template.
	Equidistant bool
	// SparseJacobian exports derivative matrices in compressed-row form
	// instead of a dense layout.
	SparseJacobian bool
}

// DefaultOptions returns the flags a fresh session starts from.
func DefaultOptions() Options {
	return Options{InlineRHS: true, Equidistant: true, SparseJacobian: false}
}

// ExportSession is the configuration stage of one integrator export: it owns
// the integration grid, the per-interval step counts, the right-hand-side
// binding, the registered outputs and the generation flags. A session is
// single-owner: configure it sequentially, then hand it read-only to the
// emission backend. It is not safe for concurrent mutation.
type ExportSession struct {
	headerName string
	opts       Options
	grid       Grid
	numSteps   []int
	rhs        modelBinding
	outputs    []OutputSpec
	resetVar   ExportVariable
	logger     kitlog.Logger
}

// NewExportSession returns a session whose exported symbols are qualified by
// headerName. Construction declares the reset symbol, the boolean export
// variable generated code reads to decide whether to discard its internal
// integrator state at the start of a control cycle.
func NewExportSession(headerName string) *ExportSession {
	klog := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	klog = kitlog.With(klog, "session", headerName)
	return &ExportSession{
		headerName: headerName,
		opts:       DefaultOptions(),
		resetVar:   NewExportVariable(headerName, "resetIntegrator", 1, 1, VarBool),
		logger:     klog,
	}
}

// NewExportSessionWithOptions returns a session seeded with the given
// generation flags, e.g. from OptionsFromConfig.
func NewExportSessionWithOptions(headerName string, opts Options) *ExportSession {
	s := NewExportSession(headerName)
	s.opts = opts
	return s
}

// HeaderName returns the namespace qualifier of this session.
func (s *ExportSession) HeaderName() string {
	return s.headerName
}

// ResetVariable returns the declared reset symbol.
func (s *ExportSession) ResetVariable() ExportVariable {
	return s.resetVar
}

// Options returns the current generation flags.
func (s *ExportSession) Options() Options {
	return s.opts
}

// SetOptions replaces the generation flags wholesale.
func (s *ExportSession) SetOptions(opts Options) {
	s.opts = opts
}

// SetGrid configures an explicit, possibly non-uniform integration grid and
// marks the session as non-equidistant. Any previously derived step vector
// is dropped since it was computed against another grid.
func (s *ExportSession) SetGrid(grid Grid) error {
	s.grid = grid.copyGrid()
	s.numSteps = nil
	s.opts.Equidistant = false
	return nil
}

// DeriveGrid derives the integration grid from the outer optimal-control
// discretization grid and a desired total number of integration steps.
//
// For an equidistant outer grid the result is one canonical interval of
// duration T/N: every shooting interval replays the same step template, so
// the step vector stays empty. For a non-equidistant outer grid the result
// degenerates to a single generic step of size h = T/numSteps, and the step
// vector records how many such steps each interval receives.
//
// On error the previously configured grid is left untouched.
func (s *ExportSession) DeriveGrid(ocpGrid Grid, numSteps uint) error {
	if numSteps == 0 {
		return fmt.Errorf("%w: desired total step count is zero", ErrDivisionByZero)
	}
	n := ocpGrid.NumIntervals()
	if n < 1 {
		return fmt.Errorf("%w: outer grid has no intervals", ErrDivisionByZero)
	}
	T := ocpGrid.LastTime() - ocpGrid.FirstTime()
	h := T / float64(numSteps)

	if ocpGrid.IsEquidistant() {
		// One applied step plus the boundary evaluation point is the minimal
		// usable point count for an interval.
		points := int(math.Ceil(float64(numSteps)/float64(n)-10*machEps)) + 1
		grid, err := NewEquidistantGrid(0, T/float64(n), points)
		if err != nil {
			return err
		}
		s.grid = grid
		s.numSteps = nil
		s.opts.Equidistant = true
		s.logger.Log("level", "info", "subsys", "grid", "derived", "equidistant", "intervals", n, "points", points)
		return nil
	}

	steps := deriveStepCounts(ocpGrid, h)
	grid, err := NewGrid(0, h)
	if err != nil {
		return err
	}
	s.grid = grid
	s.numSteps = steps
	s.opts.Equidistant = false
	s.logger.Log("level", "info", "subsys", "grid", "derived", "generic", "intervals", n, "h", h)
	return nil
}

// Grid returns a copy of the configured integration grid.
func (s *ExportSession) Grid() Grid {
	return s.grid.copyGrid()
}

// NumSteps returns a copy of the per-interval step-count vector. It is empty
// when the control grid is equidistant.
func (s *ExportSession) NumSteps() []int {
	if len(s.numSteps) == 0 {
		return nil
	}
	cp := make([]int, len(s.numSteps))
	copy(cp, s.numSteps)
	return cp
}

// EquidistantControlGrid returns whether every shooting interval shares the
// same step template, i.e. the step-count vector is empty.
func (s *ExportSession) EquidistantControlGrid() bool {
	return len(s.numSteps) == 0
}

// StepsForInterval returns the number of applied integration steps shooting
// interval i receives. For an equidistant control grid this is the implicit
// count carried by the canonical grid itself.
func (s *ExportSession) StepsForInterval(i int) int {
	if len(s.numSteps) > 0 {
		return s.numSteps[i]
	}
	return s.grid.NumIntervals()
}

// IntegrationInterval returns the zero-based index of the shooting interval
// owning the query time. The query is assumed pre-scaled to the grid's own
// time frame; a query exactly on a boundary belongs to the earlier interval,
// and queries beyond the last time clamp to the last interval. Queries below
// the first time are a caller precondition and are not validated here.
func (s *ExportSession) IntegrationInterval(time float64) int {
	index := 0
	scale := 1.0 / (s.grid.LastTime() - s.grid.FirstTime())
	for index < s.grid.NumIntervals()-1 && time > scale*s.grid.Time(index+1) {
		index++
	}
	return index
}

// SetModel attaches the generated right-hand side and its sensitivity
// expression. The binding is one-shot: a slot that is already bound, to
// either origin, cannot be redefined.
func (s *ExportSession) SetModel(rhs, diffs Expression) error {
	if rhs == nil || diffs == nil {
		return fmt.Errorf("%w: model expression may not be nil", ErrInvalidOption)
	}
	if err := s.rhs.bindGenerated(rhs, diffs); err != nil {
		return err
	}
	s.opts.InlineRHS = true
	s.logger.Log("level", "info", "subsys", "model", "bound", rhs.Name(), "dim", rhs.Dim())
	return nil
}

// BindExternalModel switches the right-hand-side slot to an externally
// supplied function pair and clears the inline-generation flag. It fails
// with ErrInvalidOption when a generated right-hand side of nonzero
// dimension is already attached, leaving all binding state unchanged.
func (s *ExportSession) BindExternalModel(nameRHS, nameDiffsRHS string) error {
	if err := s.rhs.bindExternal(nameRHS, nameDiffsRHS, 0); err != nil {
		return err
	}
	s.opts.InlineRHS = false
	s.logger.Log("level", "info", "subsys", "model", "bound", nameRHS, "external", true)
	return nil
}

// NameODE returns the symbol name of the right-hand side, whichever origin
// it is bound to.
func (s *ExportSession) NameODE() string {
	return s.rhs.funcName()
}

// NameDiffsODE returns the symbol name of the right-hand-side derivative.
func (s *ExportSession) NameDiffsODE() string {
	return s.rhs.derivName()
}

// DimODE returns the state dimension of the bound right-hand side.
func (s *ExportSession) DimODE() int {
	return s.rhs.funcDim()
}

// Copy returns a deep copy of this session: flags, grid, step vector,
// binding and output state are duplicated so that mutating the copy never
// leaks into the original. Expression handles are shared, matching the
// upstream expression system's value semantics. The copy is built fresh and
// replaces nothing partially.
func (s *ExportSession) Copy() *ExportSession {
	c := NewExportSession(s.headerName)
	c.opts = s.opts
	c.grid = s.grid.copyGrid()
	if len(s.numSteps) > 0 {
		c.numSteps = make([]int, len(s.numSteps))
		copy(c.numSteps, s.numSteps)
	}
	c.rhs = s.rhs
	if len(s.outputs) > 0 {
		c.outputs = make([]OutputSpec, len(s.outputs))
		for i, o := range s.outputs {
			c.outputs[i] = OutputSpec{binding: o.binding, grid: o.grid.copyGrid()}
		}
	}
	c.resetVar = s.resetVar
	return c
}
