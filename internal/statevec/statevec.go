// Package statevec holds the amplitude vector of a qubit register and applies
// gates to it in place using bitmask arithmetic over basis indices.
//
// Qubit i corresponds to bit i of a basis index, so a register of n qubits is a
// flat array of 2^n amplitudes. Gates never build matrices: single-qubit gates
// visit each pair of indices that differ only in the gate's bit, and controlled
// gates additionally test the control mask.
package statevec

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

type Complex = complex128

const (
	// DefaultMaxBytes is the allocation ceiling used when no option overrides it.
	DefaultMaxBytes uint64 = 1 << 30

	amplitudeBytes = 16

	// MaxQubits is the largest register whose amplitudes fit in one Go slice:
	// 2^48 bytes on 64-bit platforms, 2^30 on 32-bit ones.
	MaxQubits = 26 + 18*(strconv.IntSize/64)
)

var (
	ErrInvalidQubits      = errors.New("statevec: invalid qubit count")
	ErrResourceExhausted  = errors.New("statevec: amplitude vector exceeds memory ceiling")
	ErrNumericalIntegrity = errors.New("statevec: normalization lost")
)

type options struct {
	maxBytes uint64
	workers  int
}

// Option configures allocation and gate execution.
type Option func(*options)

// WithMaxBytes sets the largest amplitude array New and Uniform may allocate.
func WithMaxBytes(n uint64) Option {
	return func(o *options) {
		o.maxBytes = n
	}
}

// WithWorkers lets gate kernels split large vectors across n goroutines.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// StateVector is the complex amplitude vector of an n-qubit register.
type StateVector struct {
	amps      []Complex
	numQubits int
	workers   int
}

// RequiredBytes reports how many bytes the amplitudes of numQubits qubits occupy.
// It saturates at math.MaxUint64 for registers that cannot be addressed; no
// ceiling admits a saturated size.
func RequiredBytes(numQubits int) uint64 {
	if numQubits < 0 || numQubits > MaxQubits {
		return math.MaxUint64
	}
	return amplitudeBytes << uint(numQubits)
}

// CheckCeiling fails with ErrResourceExhausted when the amplitudes of
// numQubits qubits exceed maxBytes or cannot be addressed at all.
func CheckCeiling(numQubits int, maxBytes uint64) error {
	need := RequiredBytes(numQubits)
	if need == math.MaxUint64 {
		return fmt.Errorf("%w: %d qubits exceed the %d-qubit addressable limit",
			ErrResourceExhausted, numQubits, MaxQubits)
	}
	if need > maxBytes {
		return fmt.Errorf("%w: %d qubits need %d bytes, ceiling is %d",
			ErrResourceExhausted, numQubits, need, maxBytes)
	}
	return nil
}

func allocate(numQubits int, opts []Option) (*StateVector, error) {
	o := options{maxBytes: DefaultMaxBytes, workers: 1}
	for _, opt := range opts {
		opt(&o)
	}

	if numQubits < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQubits, numQubits)
	}
	if err := CheckCeiling(numQubits, o.maxBytes); err != nil {
		return nil, err
	}

	return &StateVector{
		amps:      make([]Complex, 1<<numQubits),
		numQubits: numQubits,
		workers:   max(o.workers, 1),
	}, nil
}

// New returns the |0…0⟩ basis state.
func New(numQubits int, opts ...Option) (*StateVector, error) {
	s, err := allocate(numQubits, opts)
	if err != nil {
		return nil, err
	}
	s.amps[0] = 1
	return s, nil
}

// Uniform returns the equal superposition over all 2^n basis states, which is
// what a Hadamard on every qubit of |0…0⟩ produces.
func Uniform(numQubits int, opts ...Option) (*StateVector, error) {
	s, err := allocate(numQubits, opts)
	if err != nil {
		return nil, err
	}
	a := complex(1/math.Sqrt(float64(len(s.amps))), 0)
	for i := range s.amps {
		s.amps[i] = a
	}
	return s, nil
}

func (s *StateVector) NumQubits() int { return s.numQubits }

func (s *StateVector) Len() int { return len(s.amps) }

// Amplitude returns the amplitude of basis state i.
func (s *StateVector) Amplitude(i int) Complex { return s.amps[i] }

// Probability returns |a_i|².
func (s *StateVector) Probability(i int) float64 {
	return sqMag(s.amps[i])
}

// Amplitudes returns a copy of the amplitude array.
func (s *StateVector) Amplitudes() []Complex {
	out := make([]Complex, len(s.amps))
	copy(out, s.amps)
	return out
}

func (s *StateVector) Clone() *StateVector {
	amps := make([]Complex, len(s.amps))
	copy(amps, s.amps)
	return &StateVector{amps: amps, numQubits: s.numQubits, workers: s.workers}
}

// Norm returns the sum of squared magnitudes.
func (s *StateVector) Norm() float64 {
	var sum float64
	for _, a := range s.amps {
		sum += sqMag(a)
	}
	return sum
}

// CheckNorm fails with ErrNumericalIntegrity when the norm is further than eps from 1.
func (s *StateVector) CheckNorm(eps float64) error {
	norm := s.Norm()
	if dev := math.Abs(norm - 1); dev > eps {
		return fmt.Errorf("%w: norm %.15f deviates by %.3g (tolerance %.3g)",
			ErrNumericalIntegrity, norm, dev, eps)
	}
	return nil
}

// ApplyHadamard maps each pair (a0, a1) differing in bit q to
// ((a0+a1)/√2, (a0−a1)/√2).
func (s *StateVector) ApplyHadamard(q int) {
	h := complex(1/math.Sqrt2, 0)
	s.forEachPair(q, func(i, j int) {
		a0, a1 := s.amps[i], s.amps[j]
		s.amps[i] = h * (a0 + a1)
		s.amps[j] = h * (a0 - a1)
	})
}

// ApplyPauliX swaps the amplitudes of each pair differing in bit q.
func (s *StateVector) ApplyPauliX(q int) {
	s.forEachPair(q, func(i, j int) {
		s.amps[i], s.amps[j] = s.amps[j], s.amps[i]
	})
}

// ApplyMultiControlledX flips bit target on every basis state whose control
// bits are all 1.
func (s *StateVector) ApplyMultiControlledX(controls []int, target int) {
	mask := maskOf(controls) &^ (1 << target)
	s.forEachPair(target, func(i, j int) {
		if i&mask == mask {
			s.amps[i], s.amps[j] = s.amps[j], s.amps[i]
		}
	})
}

// ApplyMultiControlledPhaseFlip negates every amplitude whose control bits are
// all 1. Target is excluded from the mask and never changed; it only names the
// qubit a gate-by-gate circuit would route the flip through.
func (s *StateVector) ApplyMultiControlledPhaseFlip(controls []int, target int) {
	mask := maskOf(controls) &^ (1 << target)
	s.forEachIndex(func(i int) {
		if i&mask == mask {
			s.amps[i] = -s.amps[i]
		}
	})
}

func maskOf(qubits []int) int {
	mask := 0
	for _, q := range qubits {
		mask |= 1 << q
	}
	return mask
}

func sqMag(a Complex) float64 {
	re, im := real(a), imag(a)
	return re*re + im*im
}
