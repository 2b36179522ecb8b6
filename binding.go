package ocgen

import "fmt"

// Expression is the opaque handle to a symbolic function produced by the
// modeling layer. This subsystem never evaluates or differentiates an
// expression; it only needs its exported name and output dimension.
type Expression interface {
	Name() string
	Dim() int
}

// SymbolicFunction is a minimal Expression for callers which assemble their
// model outside of a full symbolic engine.
type SymbolicFunction struct {
	FuncName string
	FuncDim  int
}

// Name implements Expression.
func (s SymbolicFunction) Name() string { return s.FuncName }

// Dim implements Expression.
func (s SymbolicFunction) Dim() int { return s.FuncDim }

type bindingKind uint8

const (
	bindingUnset bindingKind = iota
	bindingGenerated
	bindingExternal
)

// modelBinding ties one bindable slot (the main right-hand side, or one
// registered output) to either a generated expression pair or an external
// symbol pair. The kind tag makes the generated-and-external state
// unrepresentable.
type modelBinding struct {
	kind      bindingKind
	expr      Expression // generated only
	diffs     Expression // generated only
	name      string     // external only
	diffsName string     // external only
	dim       int        // external only (declared output dimension)
}

func generatedBinding(expr, diffs Expression) modelBinding {
	return modelBinding{kind: bindingGenerated, expr: expr, diffs: diffs}
}

func externalBinding(name, diffsName string, dim int) modelBinding {
	return modelBinding{kind: bindingExternal, name: name, diffsName: diffsName, dim: dim}
}

// bindGenerated attaches a generated expression pair to an unset slot.
func (b *modelBinding) bindGenerated(expr, diffs Expression) error {
	if b.kind != bindingUnset {
		return fmt.Errorf("%w: slot already bound to %q", ErrInvalidOption, b.funcName())
	}
	*b = generatedBinding(expr, diffs)
	return nil
}

// bindExternal switches the slot to an external symbol pair. Binding is
// one-shot: a slot holding a generated expression of nonzero dimension
// cannot be overridden.
func (b *modelBinding) bindExternal(name, diffsName string, dim int) error {
	if b.kind == bindingGenerated && b.expr.Dim() > 0 {
		return fmt.Errorf("%w: slot already bound to generated expression %q", ErrInvalidOption, b.expr.Name())
	}
	*b = externalBinding(name, diffsName, dim)
	return nil
}

// funcName returns the symbol name of the bound function, regardless of
// whether it is generated or external.
func (b modelBinding) funcName() string {
	if b.kind == bindingGenerated {
		return b.expr.Name()
	}
	return b.name
}

// derivName returns the symbol name of the bound derivative function.
func (b modelBinding) derivName() string {
	if b.kind == bindingGenerated {
		return b.diffs.Name()
	}
	return b.diffsName
}

// funcDim returns the output dimension of the bound function.
func (b modelBinding) funcDim() int {
	if b.kind == bindingGenerated {
		return b.expr.Dim()
	}
	return b.dim
}

func (b modelBinding) isGenerated() bool {
	return b.kind == bindingGenerated
}
