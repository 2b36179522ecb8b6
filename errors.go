package ocgen

import "errors"

// Configuration errors returned by an ExportSession. Every operation either
// fully applies or leaves the session unchanged, so a returned error never
// implies partial state.
var (
	// ErrInvalidOption flags a binding conflict, e.g. attaching an external
	// model over an already-defined generated one.
	ErrInvalidOption = errors.New("invalid option")
	// ErrDivisionByZero flags a grid derivation with a zero step count.
	ErrDivisionByZero = errors.New("division by zero")
)
