package core

import "errors"

// Error taxonomy shared by the delay line and the filter engine. Call sites wrap
// these with fmt.Errorf("%w: ...") so callers can test with errors.Is.
var (
	// ErrInvalidArgument reports a bad construction or control parameter.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrOutOfRange reports a tap index outside [0, capacity).
	ErrOutOfRange = errors.New("out of range")
	// ErrInvalidState reports processing attempted before a valid sample rate was set.
	ErrInvalidState = errors.New("invalid state")
	// ErrNumericDegeneracy reports a coefficient derivation that hit an undefined value.
	ErrNumericDegeneracy = errors.New("numeric degeneracy")
)
