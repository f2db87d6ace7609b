// Package circuit describes Grover circuits as replayable gate sequences:
// the marking oracle, the diffusion operator and their OpenQASM rendering.
package circuit

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"qgrover/internal/statevec"
)

var ErrInvalidGate = errors.New("circuit: invalid gate")

// Kind tags the gate variant.
type Kind int

const (
	Hadamard Kind = iota
	PauliX
	MultiControlledPhaseFlip
	MultiControlledX
)

func (k Kind) String() string {
	switch k {
	case Hadamard:
		return "H"
	case PauliX:
		return "X"
	case MultiControlledPhaseFlip:
		return "MCP"
	case MultiControlledX:
		return "MCX"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Gate is one operation of a sequence. Controls is empty for H and X.
type Gate struct {
	Kind     Kind
	Target   int
	Controls []int
}

func H(q int) Gate { return Gate{Kind: Hadamard, Target: q} }

func X(q int) Gate { return Gate{Kind: PauliX, Target: q} }

// PhaseFlip negates the controls-all-1 subspace by kickback onto target.
func PhaseFlip(controls []int, target int) Gate {
	return Gate{Kind: MultiControlledPhaseFlip, Target: target, Controls: slices.Clone(controls)}
}

func MCX(controls []int, target int) Gate {
	return Gate{Kind: MultiControlledX, Target: target, Controls: slices.Clone(controls)}
}

func (g Gate) String() string {
	if len(g.Controls) == 0 {
		return fmt.Sprintf("%s(%d)", g.Kind, g.Target)
	}
	ctrls := make([]string, len(g.Controls))
	for i, c := range g.Controls {
		ctrls[i] = fmt.Sprint(c)
	}
	return fmt.Sprintf("%s([%s]→%d)", g.Kind, strings.Join(ctrls, ","), g.Target)
}

// Validate checks that every qubit the gate touches exists in an n-qubit
// register and that the target is not also a control.
func (g Gate) Validate(n int) error {
	if g.Target < 0 || g.Target >= n {
		return fmt.Errorf("%w: %s target outside %d qubits", ErrInvalidGate, g, n)
	}
	switch g.Kind {
	case Hadamard, PauliX:
		if len(g.Controls) > 0 {
			return fmt.Errorf("%w: %s takes no controls", ErrInvalidGate, g)
		}
	case MultiControlledPhaseFlip, MultiControlledX:
		for _, c := range g.Controls {
			if c < 0 || c >= n {
				return fmt.Errorf("%w: %s control outside %d qubits", ErrInvalidGate, g, n)
			}
			if c == g.Target {
				return fmt.Errorf("%w: %s target is also a control", ErrInvalidGate, g)
			}
		}
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidGate, int(g.Kind))
	}
	return nil
}

// Apply runs the gate on s in place.
func (g Gate) Apply(s *statevec.StateVector) {
	switch g.Kind {
	case Hadamard:
		s.ApplyHadamard(g.Target)
	case PauliX:
		s.ApplyPauliX(g.Target)
	case MultiControlledPhaseFlip:
		s.ApplyMultiControlledPhaseFlip(g.Controls, g.Target)
	case MultiControlledX:
		s.ApplyMultiControlledX(g.Controls, g.Target)
	}
}

// Sequence is an ordered list of gates built once and replayed.
type Sequence []Gate

// Validate checks every gate against an n-qubit register.
func (seq Sequence) Validate(n int) error {
	for i, g := range seq {
		if err := g.Validate(n); err != nil {
			return fmt.Errorf("gate %d: %w", i, err)
		}
	}
	return nil
}

// Apply runs the gates in order. When after is non-nil it is called once per
// gate and the first error it returns stops the sequence.
func (seq Sequence) Apply(s *statevec.StateVector, after func(Gate) error) error {
	for _, g := range seq {
		g.Apply(s)
		if after == nil {
			continue
		}
		if err := after(g); err != nil {
			return err
		}
	}
	return nil
}

// Literal expands every kickback phase flip into H, MCX, H on its target, the
// gate-by-gate form of the same circuit.
func (seq Sequence) Literal() Sequence {
	out := make(Sequence, 0, len(seq))
	for _, g := range seq {
		if g.Kind != MultiControlledPhaseFlip {
			out = append(out, g)
			continue
		}
		out = append(out, H(g.Target), MCX(g.Controls, g.Target), H(g.Target))
	}
	return out
}
