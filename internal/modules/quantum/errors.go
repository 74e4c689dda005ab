package quantum

import "errors"

// Input and lookup failures. All of them are returned wrapped with detail;
// match them with errors.Is.
var (
	ErrInvalidQuantumNumbers = errors.New("invalid quantum numbers")
	ErrUnknownBasis          = errors.New("unknown basis")
	ErrUnknownGate           = errors.New("unknown gate")
	ErrUnknownPlane          = errors.New("unknown plane")
	ErrUnknownAxis           = errors.New("unknown axis")
	ErrUnknownNamedState     = errors.New("unknown named state")
	ErrNonUnitary            = errors.New("gate matrix is not a 2x2 unitary")
)
