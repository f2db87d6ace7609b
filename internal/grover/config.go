package grover

import (
	"fmt"
	"math"

	"github.com/charmbracelet/log"

	"qgrover/internal/statevec"
)

// Mode selects how the oracle's phase flip is simulated.
type Mode string

const (
	// ModeFolded applies the kickback phase flip directly.
	ModeFolded Mode = "folded"
	// ModeLiteral expands it into H, multi-controlled X, H on the ancilla.
	ModeLiteral Mode = "literal"
)

const (
	DefaultQubits  = 8
	DefaultTarget  = 'A'
	DefaultEpsilon = 1e-9

	// AutoIterations selects OptimalIterations for the register.
	AutoIterations = -1
)

// Config holds the parameters of one search.
type Config struct {
	// Qubits is the register size including the ancilla.
	Qubits int
	// Target is the data pattern to amplify, in [0, 2^(Qubits-1)).
	Target int
	// Iterations is the number of oracle+diffusion rounds, or AutoIterations.
	// Zero records only the prepared state.
	Iterations int
	Mode       Mode
	// Workers > 1 splits each gate over goroutines.
	Workers  int
	MaxBytes uint64
	Epsilon  float64
	// CheckNorm verifies normalization after every gate.
	CheckNorm bool

	Logger *log.Logger
	// OnStep, when set, receives every trace entry as it is produced.
	OnStep func(Step)
}

func DefaultConfig() Config {
	return Config{
		Qubits:     DefaultQubits,
		Target:     DefaultTarget,
		Iterations: AutoIterations,
		Mode:       ModeFolded,
		Workers:    1,
		MaxBytes:   statevec.DefaultMaxBytes,
		Epsilon:    DefaultEpsilon,
		CheckNorm:  true,
	}
}

// Validate rejects bad input before anything is allocated.
func (c Config) Validate() error {
	if c.Qubits < 2 {
		return fmt.Errorf("%w: register needs at least 2 qubits, got %d", ErrInvalidArgument, c.Qubits)
	}
	if err := statevec.CheckCeiling(c.Qubits, c.MaxBytes); err != nil {
		return err
	}
	if space := 1 << (c.Qubits - 1); c.Target < 0 || c.Target >= space {
		return fmt.Errorf("%w: target %d outside [0, %d)", ErrInvalidArgument, c.Target, space)
	}
	if c.Iterations < AutoIterations {
		return fmt.Errorf("%w: negative iteration count %d", ErrInvalidArgument, c.Iterations)
	}
	switch c.Mode {
	case ModeFolded, ModeLiteral:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidArgument, c.Mode)
	}
	if c.Epsilon <= 0 || math.IsNaN(c.Epsilon) {
		return fmt.Errorf("%w: epsilon must be positive", ErrInvalidArgument)
	}
	return nil
}

// OptimalIterations is floor(π/4 · √(2^(n-1))), the Grover count for a single
// marked item among the 2^(n-1) data patterns.
func OptimalIterations(n int) int {
	return int(math.Floor(math.Pi / 4 * math.Sqrt(math.Ldexp(1, n-1))))
}
