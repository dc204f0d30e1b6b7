package scheduler

import (
	"context"
)

type Work[T any] func(ctx context.Context) (T, error)

type Result[T any] struct {
	Data T
	Err  error
}

// OverflowPolicy decides what Submit does when every worker is busy.
type OverflowPolicy int

const (
	// Queue keeps the work in the pending queue until a worker frees up.
	Queue OverflowPolicy = iota
	// CallerRuns executes the work on the submitting goroutine.
	CallerRuns
	// Abort refuses the work with a PoolSaturatedError.
	Abort
)

func (p OverflowPolicy) String() string {
	switch p {
	case CallerRuns:
		return "caller-runs"
	case Abort:
		return "abort"
	default:
		return "queue"
	}
}

type Future[T any] struct {
	input  chan T
	cancel context.CancelFunc
}

func NewFuture[T any](input chan T, cancel context.CancelFunc) *Future[T] {
	f := &Future[T]{
		input:  input,
		cancel: cancel,
	}

	return f
}

func (f *Future[T]) C() chan T {
	return f.input
}

func (f *Future[T]) Stop() {
	f.cancel()
}
