package circuit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qgrover/internal/statevec"
)

func TestAntiControls(t *testing.T) {
	tests := []struct {
		pattern  int
		dataBits int
		want     []int
	}{
		{0, 3, []int{0, 1, 2}},
		{0b111, 3, nil},
		{0b101, 3, []int{1}},
		{'A', 7, []int{1, 2, 3, 4, 5}},
	}
	for _, tt := range tests {
		got := AntiControls(tt.pattern, tt.dataBits)
		assert.Equal(t, tt.want, got, "pattern %b", tt.pattern)
		assert.Equal(t, tt.pattern, PatternFromAntiControls(got, tt.dataBits))
	}
}

func TestPatternFromSymbol(t *testing.T) {
	p, err := PatternFromSymbol('A', 7)
	require.NoError(t, err)
	assert.Equal(t, 65, p)

	_, err = PatternFromSymbol('é', 7)
	assert.ErrorIs(t, err, ErrPatternRange)

	_, err = PatternFromSymbol('A', 6)
	assert.ErrorIs(t, err, ErrPatternRange)
}

func TestOracleLayout(t *testing.T) {
	seq := Oracle(4, []int{0, 2})
	require.Len(t, seq, 5)
	assert.Equal(t, X(0), seq[0])
	assert.Equal(t, X(2), seq[1])
	assert.Equal(t, PhaseFlip([]int{0, 1, 2}, 3), seq[2])
	assert.Equal(t, X(0), seq[3])
	assert.Equal(t, X(2), seq[4])
}

func TestDiffusionLayout(t *testing.T) {
	n := 3
	seq := Diffusion(n)
	require.Len(t, seq, 4*n+1)
	assert.Equal(t, H(0), seq[0])
	assert.Equal(t, X(0), seq[1])
	assert.Equal(t, MultiControlledPhaseFlip, seq[2*n].Kind)
	assert.Equal(t, []int{0, 1}, seq[2*n].Controls)
	assert.Equal(t, 2, seq[2*n].Target)
	assert.Equal(t, X(2), seq[4*n-1])
	assert.Equal(t, H(2), seq[4*n])
}

// The oracle must negate exactly the target data pattern, for both values of
// the ancilla, and leave every magnitude alone.
func TestOracleMarksOnlyTarget(t *testing.T) {
	const n = 4
	for pattern := 0; pattern < 1<<(n-1); pattern++ {
		s, err := statevec.Uniform(n)
		require.NoError(t, err)
		a := s.Amplitude(0)

		require.NoError(t, Oracle(n, AntiControls(pattern, n-1)).Apply(s, nil))

		for i := 0; i < s.Len(); i++ {
			want := a
			if i&(1<<(n-1)-1) == pattern {
				want = -a
			}
			assert.InDelta(t, real(want), real(s.Amplitude(i)), 1e-12, "pattern %b index %b", pattern, i)
		}
	}
}

func TestGateValidate(t *testing.T) {
	assert.NoError(t, H(2).Validate(3))
	assert.ErrorIs(t, H(3).Validate(3), ErrInvalidGate)
	assert.ErrorIs(t, PhaseFlip([]int{0, 2}, 2).Validate(3), ErrInvalidGate)
	assert.ErrorIs(t, MCX([]int{0, 5}, 1).Validate(3), ErrInvalidGate)
	assert.ErrorIs(t, Gate{Kind: PauliX, Target: 0, Controls: []int{1}}.Validate(3), ErrInvalidGate)
}

func TestLiteralExpansion(t *testing.T) {
	seq := Sequence{X(0), PhaseFlip([]int{0, 1}, 2)}.Literal()
	require.Len(t, seq, 4)
	assert.Equal(t, X(0), seq[0])
	assert.Equal(t, H(2), seq[1])
	assert.Equal(t, MCX([]int{0, 1}, 2), seq[2])
	assert.Equal(t, H(2), seq[3])
}

func TestSequenceApplyStopsOnHookError(t *testing.T) {
	s, err := statevec.New(2)
	require.NoError(t, err)

	calls := 0
	stop := assert.AnError
	err = Sequence{H(0), H(1), X(0)}.Apply(s, func(Gate) error {
		calls++
		if calls == 2 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 2, calls)
}

func TestBuild(t *testing.T) {
	g, err := Build(8, 'A')
	require.NoError(t, err)
	assert.Equal(t, 8, g.NumQubits)
	assert.Len(t, g.Prepare, 8)
	assert.Len(t, g.Oracle, 2*5+1)
	assert.Len(t, g.Diffusion, 4*8+1)
	assert.Len(t, g.Iteration(), len(g.Oracle)+len(g.Diffusion))

	_, err = Build(1, 0)
	assert.ErrorIs(t, err, ErrInvalidGate)
	_, err = Build(4, 8)
	assert.ErrorIs(t, err, ErrPatternRange)
	_, err = Build(4, -1)
	assert.ErrorIs(t, err, ErrPatternRange)
}

func TestToQASM(t *testing.T) {
	g, err := Build(3, 0b10)
	require.NoError(t, err)
	qasm := g.ToQASM(1)

	assert.True(t, strings.HasPrefix(qasm, "OPENQASM 2.0;\ninclude \"qelib1.inc\";\n"))
	assert.Contains(t, qasm, "qreg q[3];")
	assert.Contains(t, qasm, "creg c[2];")
	assert.Contains(t, qasm, "// iteration 1\n")
	assert.Contains(t, qasm, "ccx q[0], q[1], q[2];")
	assert.Contains(t, qasm, "measure q[1] -> c[1];")
	assert.NotContains(t, qasm, "// iteration 2")

	big, err := Build(8, 'A')
	require.NoError(t, err)
	assert.Contains(t, big.ToQASM(1), "mcx q[0], q[1], q[2], q[3], q[4], q[5], q[6], q[7];")
}
