package statevec

import "golang.org/x/sync/errgroup"

// parallelThreshold is the smallest amount of work (pairs or indices) that is
// split across workers.
const parallelThreshold = 1 << 14

const chunksPerWorker = 4

// forEachPair calls fn(i, j) once for every pair of indices that differ only in
// bit q, with i having the bit clear. Pairs are disjoint, so chunks of the pair
// space may run concurrently; fn must read both slots before writing either.
func (s *StateVector) forEachPair(q int, fn func(i, j int)) {
	bit := 1 << q
	low := bit - 1
	s.run(len(s.amps)>>1, func(start, end int) {
		for k := start; k < end; k++ {
			i := (k&^low)<<1 | k&low
			fn(i, i|bit)
		}
	})
}

func (s *StateVector) forEachIndex(fn func(i int)) {
	s.run(len(s.amps), func(start, end int) {
		for i := start; i < end; i++ {
			fn(i)
		}
	})
}

// run splits [0, n) into contiguous chunks, a few per worker so a slow chunk
// does not hold up the rest, and runs at most s.workers of them at once. Small
// ranges run on the calling goroutine.
func (s *StateVector) run(n int, fn func(start, end int)) {
	if s.workers <= 1 || n < parallelThreshold {
		fn(0, n)
		return
	}

	parts := s.workers * chunksPerWorker
	chunk := (n + parts - 1) / parts
	var g errgroup.Group
	g.SetLimit(s.workers)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	_ = g.Wait() // chunks never fail
}
