package ec

import "github.com/pkg/errors"

// Errors returned by the curve arithmetic. They are wrapped with context by
// the functions that return them; match with errors.Is.
var (
	ErrScalarOutOfRange = errors.New("ec: scalar out of range [1, n-1]")
	ErrNoInverse        = errors.New("ec: element has no modular inverse")
	ErrNotOnCurve       = errors.New("ec: point is not on the curve")
	ErrInvalidParams    = errors.New("ec: invalid curve parameters")
	ErrMalformedPoint   = errors.New("ec: malformed point encoding")
)
