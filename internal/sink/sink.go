// Package sink persists finished search results. Sinks are only called after a
// run completes; nothing here is touched by the simulation loop.
package sink

import (
	"context"
	"errors"
	"sync"

	"qgrover/internal/grover"
)

// Sink receives the ordered probability trace of a run.
type Sink interface {
	Write(ctx context.Context, res *grover.Result) error
	Close() error
}

// Multi fans a result out to several sinks in order, stopping at the first error.
type Multi []Sink

func (m Multi) Write(ctx context.Context, res *grover.Result) error {
	for _, s := range m {
		if err := s.Write(ctx, res); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}

// Memory keeps results in process; used by the TUI and tests.
type Memory struct {
	mu      sync.Mutex
	results []*grover.Result
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Write(ctx context.Context, res *grover.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, res)
	return nil
}

func (m *Memory) Close() error { return nil }

// Results returns the stored results in write order.
func (m *Memory) Results() []*grover.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*grover.Result, len(m.results))
	copy(out, m.results)
	return out
}
