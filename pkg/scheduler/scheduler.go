package scheduler

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	srvErrors "github.com/kubev2v/jobqueue/pkg/errors"
)

// fifo is the pending work list. Only the event loop touches it.
type fifo[T any] []T

func (f *fifo[T]) len() int { return len(*f) }

func (f *fifo[T]) push(t T) { *f = append(*f, t) }

func (f *fifo[T]) pop() T {
	old := *f
	head := old[0]
	var zero T
	old[0] = zero
	*f = old[1:]
	return head
}

type request struct {
	work     Work[any]
	result   chan Result[any]
	ctx      context.Context
	cancel   context.CancelFunc
	policy   OverflowPolicy
	accepted chan bool
}

// execute runs the work and turns a panic into an error result.
func (r request) execute() (res Result[any]) {
	defer func() {
		if rec := recover(); rec != nil {
			res = Result[any]{Err: fmt.Errorf("worker panicked: %v", rec)}
		}
		r.cancel()
	}()

	data, err := r.work(r.ctx)
	return Result[any]{Data: data, Err: err}
}

func (r request) abort() {
	r.cancel()
	r.result <- Result[any]{Err: context.Canceled}
}

// Scheduler is a fixed pool of worker goroutines. A single event loop owns
// the pending list and the free worker count, so neither needs a lock.
type Scheduler struct {
	size    int
	free    int
	idle    atomic.Int32
	pending fifo[request]

	submit   chan request
	released chan struct{}
	closing  chan struct{}
	stopped  chan struct{}

	ctx       context.Context
	cancel    context.CancelFunc
	inflight  sync.WaitGroup
	closeOnce sync.Once
}

// NewScheduler starts a pool of size workers. A non-positive size falls back
// to GOMAXPROCS.
func NewScheduler(size int) *Scheduler {
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		size:     size,
		free:     size,
		submit:   make(chan request),
		released: make(chan struct{}, size),
		closing:  make(chan struct{}),
		stopped:  make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
	s.idle.Store(int32(size))

	go s.loop()
	return s
}

// Size returns the number of workers in the pool.
func (s *Scheduler) Size() int { return s.size }

// Idle returns how many workers were free the last time the event loop
// looked.
func (s *Scheduler) Idle() int { return int(s.idle.Load()) }

// AddWork queues w and returns its future. Work submitted after Close
// receives context.Canceled.
func (s *Scheduler) AddWork(w Work[any]) *Future[Result[any]] {
	f, _ := s.Submit(w, Queue)
	return f
}

// Submit hands w to the pool, applying policy when no worker is free.
func (s *Scheduler) Submit(w Work[any], policy OverflowPolicy) (*Future[Result[any]], error) {
	ctx, cancel := context.WithCancel(s.ctx)
	r := request{
		work:     w,
		result:   make(chan Result[any], 1),
		ctx:      ctx,
		cancel:   cancel,
		policy:   policy,
		accepted: make(chan bool, 1),
	}
	future := NewFuture(r.result, cancel)

	select {
	case <-s.ctx.Done():
		r.abort()
		return future, nil
	case s.submit <- r:
	}

	if <-r.accepted {
		return future, nil
	}

	if policy == CallerRuns {
		r.result <- r.execute()
		return future, nil
	}
	cancel()
	return nil, srvErrors.NewPoolSaturatedError(s.size)
}

// Close cancels every work context and waits for in-flight work. Work still
// pending receives context.Canceled.
func (s *Scheduler) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		s.closing <- struct{}{}
		<-s.stopped
	})
}

func (s *Scheduler) loop() {
	defer close(s.stopped)

	for {
		select {
		case r := <-s.submit:
			if r.policy != Queue && s.free == 0 {
				r.accepted <- false
				continue
			}
			r.accepted <- true
			s.pending.push(r)
		case <-s.released:
			s.free++
		case <-s.closing:
			for s.pending.len() > 0 {
				s.pending.pop().abort()
			}
			s.inflight.Wait()
			return
		}
		s.assign()
	}
}

// assign starts pending work while workers are free.
func (s *Scheduler) assign() {
	for s.free > 0 && s.pending.len() > 0 {
		r := s.pending.pop()
		s.free--
		s.inflight.Add(1)
		go s.work(r)
	}
	s.idle.Store(int32(s.free))
}

func (s *Scheduler) work(r request) {
	defer func() {
		s.released <- struct{}{}
		s.inflight.Done()
	}()

	r.result <- r.execute()
}
