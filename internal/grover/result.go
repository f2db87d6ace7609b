package grover

import (
	"encoding/binary"
	"math"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Step is one entry of the probability trace. Iteration 0 is the state before
// any oracle is applied.
type Step struct {
	Iteration      int     `json:"iteration"`
	MaxProbability float64 `json:"max_probability"`
	Argmax         int     `json:"argmax"`
}

// Result is the outcome of a run, handed to a sink for persistence.
type Result struct {
	ID         string        `json:"id"`
	Qubits     int           `json:"qubits"`
	Target     int           `json:"target"`
	Mode       Mode          `json:"mode"`
	Iterations int           `json:"iterations"`
	Steps      []Step        `json:"steps"`
	Final      Distribution  `json:"-"`
	Digest     string        `json:"digest"`
	StartedAt  time.Time     `json:"started_at"`
	Elapsed    time.Duration `json:"elapsed_ns"`
}

// Trace returns the maximum probability of every step in order.
func (r *Result) Trace() []float64 {
	out := make([]float64, len(r.Steps))
	for i, s := range r.Steps {
		out[i] = s.MaxProbability
	}
	return out
}

// Last returns the final step.
func (r *Result) Last() Step {
	return r.Steps[len(r.Steps)-1]
}

// TraceDigest hashes the exact bit patterns of a trace. Two runs with the same
// parameters and arithmetic order produce the same digest.
func TraceDigest(trace []float64) string {
	buf := make([]byte, 0, 8*len(trace))
	for _, p := range trace {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(p))
	}
	return strconv.FormatUint(xxhash.Sum64(buf), 16)
}
