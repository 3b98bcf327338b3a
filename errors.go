package vrf

import (
	"errors"
)

// Structural errors are raised before any protocol equation is evaluated.
// A proof that fails the equations is reported as a plain false from the
// verify functions, never as an error.
var (
	ErrProofLength   = errors.New("vrf: invalid proof length")
	ErrPointDecode   = errors.New("vrf: invalid point encoding")
	ErrScalarRange   = errors.New("vrf: scalar out of range")
	ErrIdentityPoint = errors.New("vrf: identity point where a nonzero point is required")
	ErrSRS           = errors.New("vrf: srs missing or too small")
	ErrEmptyRing     = errors.New("vrf: empty ring")
	ErrNotInRing     = errors.New("vrf: signer key not in ring")
)
