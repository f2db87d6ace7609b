// Package grover drives amplitude amplification: it prepares the register,
// replays the oracle and diffusion sequences and records how the largest
// marginal probability evolves.
package grover

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"qgrover/internal/circuit"
	"qgrover/internal/statevec"
)

// Controller owns one search: its gate plan and, while running, the state.
type Controller struct {
	cfg        Config
	plan       *circuit.Grover
	iterations int
	log        *log.Logger
}

// NewController validates cfg and builds the gate plan. No amplitudes are
// allocated until Run.
func NewController(cfg Config) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	plan, err := circuit.Build(cfg.Qubits, cfg.Target)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if cfg.Mode == ModeLiteral {
		plan = plan.Literal()
	}

	iterations := cfg.Iterations
	if iterations == AutoIterations {
		iterations = OptimalIterations(cfg.Qubits)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Controller{
		cfg:        cfg,
		plan:       plan,
		iterations: iterations,
		log:        logger.WithPrefix("grover"),
	}, nil
}

func (c *Controller) Iterations() int { return c.iterations }

func (c *Controller) Plan() *circuit.Grover { return c.plan }

// Run executes the search and returns the full trace, iterations+1 entries
// long. Cancellation is checked between iterations.
func (c *Controller) Run(ctx context.Context) (*Result, error) {
	res := &Result{
		ID:         uuid.New().String(),
		Qubits:     c.cfg.Qubits,
		Target:     c.cfg.Target,
		Mode:       c.cfg.Mode,
		Iterations: c.iterations,
		Steps:      make([]Step, 0, c.iterations+1),
		StartedAt:  time.Now(),
	}
	logger := c.log.With("run", res.ID)
	logger.Info("search started",
		"qubits", c.cfg.Qubits, "target", c.cfg.Target, "mode", c.cfg.Mode, "iterations", c.iterations)

	state, err := c.prepare()
	if err != nil {
		return nil, err
	}

	record := func(i int) Distribution {
		d := Extract(state)
		step := Step{Iteration: i, MaxProbability: d.Max, Argmax: d.Argmax}
		res.Steps = append(res.Steps, step)
		logger.Debug("step", "iteration", i, "max", d.Max, "argmax", d.Argmax)
		if c.cfg.OnStep != nil {
			c.cfg.OnStep(step)
		}
		return d
	}

	verify := c.hook(state)
	final := record(0)
	for i := 1; i <= c.iterations; i++ {
		if err := ctx.Err(); err != nil {
			logger.Warn("search cancelled", "iteration", i, "err", err)
			return nil, err
		}
		if err := c.plan.Oracle.Apply(state, verify); err != nil {
			return nil, fmt.Errorf("iteration %d oracle: %w", i, err)
		}
		if err := c.plan.Diffusion.Apply(state, verify); err != nil {
			return nil, fmt.Errorf("iteration %d diffusion: %w", i, err)
		}
		final = record(i)
	}

	res.Final = final
	res.Digest = TraceDigest(res.Trace())
	res.Elapsed = time.Since(res.StartedAt)
	logger.Info("search finished",
		"max", final.Max, "argmax", final.Argmax, "digest", res.Digest, "elapsed", res.Elapsed)
	return res, nil
}

// prepare builds the uniform superposition. Folded runs allocate it directly;
// literal runs apply the Hadamards gate by gate to |0…0⟩.
func (c *Controller) prepare() (*statevec.StateVector, error) {
	opts := []statevec.Option{
		statevec.WithMaxBytes(c.cfg.MaxBytes),
		statevec.WithWorkers(c.cfg.Workers),
	}
	if c.cfg.Mode == ModeFolded {
		return statevec.Uniform(c.cfg.Qubits, opts...)
	}

	state, err := statevec.New(c.cfg.Qubits, opts...)
	if err != nil {
		return nil, err
	}
	if err := c.plan.Prepare.Apply(state, c.hook(state)); err != nil {
		return nil, fmt.Errorf("preparation: %w", err)
	}
	return state, nil
}

// hook returns the per-gate normalization check, or nil when checks are off.
func (c *Controller) hook(state *statevec.StateVector) func(circuit.Gate) error {
	if !c.cfg.CheckNorm {
		return nil
	}
	return func(g circuit.Gate) error {
		if err := state.CheckNorm(c.cfg.Epsilon); err != nil {
			c.log.Error("normalization lost", "gate", g, "err", err)
			return fmt.Errorf("after %s: %w", g, err)
		}
		return nil
	}
}
