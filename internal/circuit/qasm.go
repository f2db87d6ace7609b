package circuit

import (
	"fmt"
	"strings"
)

// writeGateQASM writes one gate. Phase flips are written as the H, MCX, H
// sandwich on their target since OpenQASM 2.0 has no kickback primitive.
func writeGateQASM(sb *strings.Builder, g Gate) {
	switch g.Kind {
	case Hadamard:
		fmt.Fprintf(sb, "h q[%d];\n", g.Target)
	case PauliX:
		fmt.Fprintf(sb, "x q[%d];\n", g.Target)
	case MultiControlledX:
		writeMCX(sb, g)
	case MultiControlledPhaseFlip:
		fmt.Fprintf(sb, "h q[%d];\n", g.Target)
		writeMCX(sb, g)
		fmt.Fprintf(sb, "h q[%d];\n", g.Target)
	}
}

func writeMCX(sb *strings.Builder, g Gate) {
	switch len(g.Controls) {
	case 0:
		fmt.Fprintf(sb, "x q[%d];\n", g.Target)
	case 1:
		fmt.Fprintf(sb, "cx q[%d], q[%d];\n", g.Controls[0], g.Target)
	case 2:
		fmt.Fprintf(sb, "ccx q[%d], q[%d], q[%d];\n", g.Controls[0], g.Controls[1], g.Target)
	default:
		sb.WriteString("mcx ")
		for i, ctrl := range g.Controls {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(sb, "q[%d]", ctrl)
		}
		fmt.Fprintf(sb, ", q[%d];\n", g.Target)
	}
}

// QASM renders the sequence alone, without header or registers.
func (seq Sequence) QASM() string {
	var sb strings.Builder
	for _, g := range seq {
		writeGateQASM(&sb, g)
	}
	return sb.String()
}

// ToQASM renders the whole search as OpenQASM 2.0: preparation, the given
// number of oracle+diffusion rounds and a measurement of the data qubits.
func (g *Grover) ToQASM(iterations int) string {
	n := g.NumQubits
	dataBits := n - 1

	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "// grover search for pattern %0*b\n", dataBits, g.Pattern)
	fmt.Fprintf(&sb, "qreg q[%d];\n", n)
	fmt.Fprintf(&sb, "creg c[%d];\n\n", dataBits)

	sb.WriteString(g.Prepare.QASM())
	for i := 1; i <= iterations; i++ {
		fmt.Fprintf(&sb, "\n// iteration %d\n", i)
		sb.WriteString("// oracle\n")
		sb.WriteString(g.Oracle.QASM())
		sb.WriteString("// diffusion\n")
		sb.WriteString(g.Diffusion.QASM())
	}

	sb.WriteString("\n")
	for q := 0; q < dataBits; q++ {
		fmt.Fprintf(&sb, "measure q[%d] -> c[%d];\n", q, q)
	}
	return sb.String()
}
