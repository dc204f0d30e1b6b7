package jobqueue_test

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/kubev2v/jobqueue/pkg/jobqueue"
	"github.com/kubev2v/jobqueue/pkg/scheduler"
)

// syncExecutor runs work on the calling goroutine, which makes the
// dispatcher's execution order deterministic.
type syncExecutor struct {
	calls atomic.Int32
}

func (e *syncExecutor) Submit(w scheduler.Work[any], _ scheduler.OverflowPolicy) (*scheduler.Future[scheduler.Result[any]], error) {
	e.calls.Add(1)
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan scheduler.Result[any], 1)
	v, err := w(ctx)
	cancel()
	c <- scheduler.Result[any]{Data: v, Err: err}
	return scheduler.NewFuture(c, cancel), nil
}

// recorder collects the ranks of the jobs in the order they ran.
type recorder struct {
	mu    sync.Mutex
	ranks []int
}

func (r *recorder) task(rank int) jobqueue.TaskFunc {
	return func(ctx context.Context) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.ranks = append(r.ranks, rank)
		return nil
	}
}

func (r *recorder) Ranks() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.ranks...)
}

// blockingTask runs until release is closed.
type blockingTask struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingTask() *blockingTask {
	return &blockingTask{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (t *blockingTask) Run(ctx context.Context) error {
	close(t.started)
	<-t.release
	return nil
}

func (t *blockingTask) Release() {
	t.once.Do(func() { close(t.release) })
}

// hookedTask counts its executions and lifecycle hook calls.
type hookedTask struct {
	runs          atomic.Int32
	beforeStarts  atomic.Int32
	afterFinishes atomic.Int32
	lastErr       atomic.Value
}

func (t *hookedTask) Run(ctx context.Context) error {
	t.runs.Add(1)
	return nil
}

func (t *hookedTask) BeforeStart(job *jobqueue.Job) {
	t.beforeStarts.Add(1)
}

func (t *hookedTask) AfterFinish(job *jobqueue.Job, err error) {
	t.afterFinishes.Add(1)
	if err != nil {
		t.lastErr.Store(err)
	}
}

// mergingTask keeps every parameter it was asked to handle.
type mergingTask struct {
	params []string
}

func (t *mergingTask) Run(ctx context.Context) error { return nil }

func (t *mergingTask) ReplaceWith(newer jobqueue.Task) jobqueue.Task {
	if n, ok := newer.(*mergingTask); ok {
		return &mergingTask{params: append(append([]string{}, t.params...), n.params...)}
	}
	return newer
}

func noop(ctx context.Context) error { return nil }
