/*
DESCRIPTION
  executor.go is the concrete default implementation of the abstract
  "parallel-for" executor named in base spec §5: a small wrapper over
  golang.org/x/sync/errgroup that runs n independent, write-disjoint tasks
  and propagates the first failure.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package vc2enc

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Executor runs the two kinds of data-parallel task base spec §5 names:
// one per plane for the DWT, and one per slice for rate control and slice
// encoding. Tasks are assumed pure and write-disjoint; the executor itself
// holds no state between calls.
type Executor struct {
	// Workers bounds the number of goroutines errgroup.SetLimit allows;
	// 0 means unlimited (one goroutine per task), matching errgroup's
	// default.
	Workers int
}

// NewExecutor returns an Executor with the given worker limit (0 for
// unlimited).
func NewExecutor(workers int) *Executor { return &Executor{Workers: workers} }

// ForEach runs fn(i) for every i in [0,n) and blocks until all have
// completed (base spec §5, "the picture driver blocks on the executor
// barrier"). fn must not return an error; use ForEachErr for fallible
// tasks.
func (e *Executor) ForEach(n int, fn func(i int)) {
	_ = e.ForEachErr(n, func(i int) error { fn(i); return nil })
}

// ForEachErr runs fn(i) for every i in [0,n), returning the first error
// encountered (if any) after every task has finished.
func (e *Executor) ForEachErr(n int, fn func(i int) error) error {
	if n == 0 {
		return nil
	}
	g, _ := errgroup.WithContext(context.Background())
	if e.Workers > 0 {
		g.SetLimit(e.Workers)
	}
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error { return fn(i) })
	}
	return g.Wait()
}
