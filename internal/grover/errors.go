package grover

import (
	"errors"

	"qgrover/internal/statevec"
)

var (
	// ErrInvalidArgument rejects a configuration before any allocation.
	ErrInvalidArgument = errors.New("grover: invalid argument")

	// ErrResourceExhausted means the register does not fit the memory ceiling.
	ErrResourceExhausted = statevec.ErrResourceExhausted

	// ErrNumericalIntegrity is fatal: a gate broke normalization.
	ErrNumericalIntegrity = statevec.ErrNumericalIntegrity
)
