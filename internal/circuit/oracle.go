package circuit

import (
	"errors"
	"fmt"
)

var ErrPatternRange = errors.New("circuit: pattern does not fit the data qubits")

// AntiControls returns the data-bit positions (ascending) that are 0 in pattern.
func AntiControls(pattern, dataBits int) []int {
	var out []int
	for i := 0; i < dataBits; i++ {
		if pattern&(1<<i) == 0 {
			out = append(out, i)
		}
	}
	return out
}

// PatternFromAntiControls is the inverse of AntiControls.
func PatternFromAntiControls(anti []int, dataBits int) int {
	pattern := 1<<dataBits - 1
	for _, q := range anti {
		pattern &^= 1 << q
	}
	return pattern
}

// PatternFromSymbol maps a character to the pattern of its code point. Code
// points wider than dataBits are rejected rather than truncated.
func PatternFromSymbol(r rune, dataBits int) (int, error) {
	if dataBits < 1 || dataBits > 31 {
		return 0, fmt.Errorf("%w: %d data bits", ErrPatternRange, dataBits)
	}
	if r < 0 || int64(r) >= 1<<dataBits {
		return 0, fmt.Errorf("%w: %q (U+%04X) needs more than %d bits", ErrPatternRange, r, r, dataBits)
	}
	return int(r), nil
}

// DataQubits lists the non-ancilla qubits of an n-qubit register.
func DataQubits(n int) []int {
	qs := make([]int, n-1)
	for i := range qs {
		qs[i] = i
	}
	return qs
}

// Ancilla is the kickback qubit of an n-qubit register.
func Ancilla(n int) int { return n - 1 }

// Oracle flips the sign of the data pattern whose zero bits are exactly anti:
// X on every anti-control, the kickback phase flip, X again.
func Oracle(n int, anti []int) Sequence {
	seq := make(Sequence, 0, 2*len(anti)+1)
	for _, q := range anti {
		seq = append(seq, X(q))
	}
	seq = append(seq, PhaseFlip(DataQubits(n), Ancilla(n)))
	for _, q := range anti {
		seq = append(seq, X(q))
	}
	return seq
}

// Diffusion reflects the state about the uniform superposition.
func Diffusion(n int) Sequence {
	seq := make(Sequence, 0, 4*n+1)
	for q := 0; q < n; q++ {
		seq = append(seq, H(q), X(q))
	}
	seq = append(seq, PhaseFlip(DataQubits(n), Ancilla(n)))
	for q := 0; q < n; q++ {
		seq = append(seq, X(q), H(q))
	}
	return seq
}

// Preparation puts every qubit of |0…0⟩ into superposition.
func Preparation(n int) Sequence {
	seq := make(Sequence, n)
	for q := range seq {
		seq[q] = H(q)
	}
	return seq
}

// Grover is the fixed gate plan of one search: the pattern never changes
// during a run, so both sequences are built once.
type Grover struct {
	NumQubits int
	Pattern   int
	Prepare   Sequence
	Oracle    Sequence
	Diffusion Sequence
}

// Build validates n and pattern and constructs the plan.
func Build(n, pattern int) (*Grover, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 qubits, got %d", ErrInvalidGate, n)
	}
	dataBits := n - 1
	if pattern < 0 || pattern >= 1<<dataBits {
		return nil, fmt.Errorf("%w: %d outside [0, %d)", ErrPatternRange, pattern, 1<<dataBits)
	}

	g := &Grover{
		NumQubits: n,
		Pattern:   pattern,
		Prepare:   Preparation(n),
		Oracle:    Oracle(n, AntiControls(pattern, dataBits)),
		Diffusion: Diffusion(n),
	}
	for _, seq := range []Sequence{g.Prepare, g.Oracle, g.Diffusion} {
		if err := seq.Validate(n); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Literal returns a copy of the plan with every phase flip expanded.
func (g *Grover) Literal() *Grover {
	return &Grover{
		NumQubits: g.NumQubits,
		Pattern:   g.Pattern,
		Prepare:   g.Prepare,
		Oracle:    g.Oracle.Literal(),
		Diffusion: g.Diffusion.Literal(),
	}
}

// Iteration is one oracle followed by one diffusion.
func (g *Grover) Iteration() Sequence {
	out := make(Sequence, 0, len(g.Oracle)+len(g.Diffusion))
	out = append(out, g.Oracle...)
	return append(out, g.Diffusion...)
}
