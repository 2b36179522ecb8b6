package ocgen

import "fmt"

// OutputSpec describes one auxiliary output function evaluated along the
// integration. Each output carries its own binding and its own sampling
// grid, which may be finer than the main integration grid.
type OutputSpec struct {
	binding modelBinding
	grid    Grid
}

// Name returns the symbol name of this output function.
func (o OutputSpec) Name() string { return o.binding.funcName() }

// Dim returns the output dimension of this output function.
func (o OutputSpec) Dim() int { return o.binding.funcDim() }

// DiffsName returns the symbol name of this output's derivative function.
func (o OutputSpec) DiffsName() string { return o.binding.derivName() }

// Grid returns a copy of this output's sampling grid.
func (o OutputSpec) Grid() Grid { return o.grid.copyGrid() }

// RegisterOutput appends a generated output function with its sensitivity
// expression and its own sampling grid. Outputs accumulate for the lifetime
// of the session; there is no removal.
func (s *ExportSession) RegisterOutput(expr, diffs Expression, grid Grid) error {
	if expr == nil || diffs == nil {
		return fmt.Errorf("%w: output expression may not be nil", ErrInvalidOption)
	}
	if grid.IsZero() {
		return fmt.Errorf("%w: output grid may not be unset", ErrInvalidOption)
	}
	s.outputs = append(s.outputs, OutputSpec{binding: generatedBinding(expr, diffs), grid: grid.copyGrid()})
	s.logger.Log("level", "info", "subsys", "outputs", "registered", expr.Name(), "dim", expr.Dim(), "points", grid.NumIntervals()+1)
	return nil
}

// RegisterExternalOutput appends an externally supplied output function,
// identified only by its symbol names and declared dimension.
func (s *ExportSession) RegisterExternalOutput(name, diffsName string, dim int, grid Grid) error {
	if dim < 1 {
		return fmt.Errorf("%w: external output %q needs a positive dimension, got %d", ErrInvalidOption, name, dim)
	}
	if grid.IsZero() {
		return fmt.Errorf("%w: output grid may not be unset", ErrInvalidOption)
	}
	s.outputs = append(s.outputs, OutputSpec{binding: externalBinding(name, diffsName, dim), grid: grid.copyGrid()})
	s.logger.Log("level", "info", "subsys", "outputs", "registered", name, "dim", dim, "external", true)
	return nil
}

// NumOutputs returns the number of registered output functions.
func (s *ExportSession) NumOutputs() int {
	return len(s.outputs)
}

// OutputName returns the symbol name of the i-th output function,
// regardless of whether it is generated or external.
func (s *ExportSession) OutputName(i int) string {
	return s.outputs[i].Name()
}

// OutputDim returns the output dimension of the i-th output function.
func (s *ExportSession) OutputDim(i int) int {
	return s.outputs[i].Dim()
}

// OutputDiffsName returns the symbol name of the i-th output's derivative
// function.
func (s *ExportSession) OutputDiffsName(i int) string {
	return s.outputs[i].DiffsName()
}

// OutputExpressions returns a snapshot of all output functions as
// expressions. External outputs are exposed through the same interface via
// their stored name and declared dimension, so the emission backend can
// consume the list uniformly.
func (s *ExportSession) OutputExpressions() []Expression {
	exprs := make([]Expression, len(s.outputs))
	for i, o := range s.outputs {
		if o.binding.isGenerated() {
			exprs[i] = o.binding.expr
		} else {
			exprs[i] = SymbolicFunction{FuncName: o.binding.name, FuncDim: o.binding.dim}
		}
	}
	return exprs
}

// OutputGrids returns a snapshot of the sampling grids of all registered
// outputs, in registration order.
func (s *ExportSession) OutputGrids() []Grid {
	grids := make([]Grid, len(s.outputs))
	for i, o := range s.outputs {
		grids[i] = o.grid.copyGrid()
	}
	return grids
}
