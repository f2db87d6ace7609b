package grover

import "qgrover/internal/statevec"

// Distribution is the marginal probability over data patterns with the
// ancilla summed out.
type Distribution struct {
	Probabilities []float64
	Max           float64
	Argmax        int
}

// Extract marginalizes the ancilla (the top qubit) out of s. Ties on the
// maximum go to the lowest index.
func Extract(s *statevec.StateVector) Distribution {
	half := s.Len() >> 1
	if s.NumQubits() < 2 {
		half = s.Len()
	}

	d := Distribution{Probabilities: make([]float64, half), Max: -1}
	for i := range d.Probabilities {
		p := s.Probability(i)
		if half != s.Len() {
			p += s.Probability(i | half)
		}
		d.Probabilities[i] = p
		if p > d.Max {
			d.Max, d.Argmax = p, i
		}
	}
	return d
}
