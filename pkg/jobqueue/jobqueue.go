package jobqueue

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	srvErrors "github.com/kubev2v/jobqueue/pkg/errors"
	"github.com/kubev2v/jobqueue/pkg/scheduler"
)

const (
	DefaultCapacity    int64 = 1 << 20
	DefaultStopTimeout       = time.Second
)

// Executor runs jobs asynchronously. *scheduler.Scheduler implements it.
type Executor interface {
	Submit(w scheduler.Work[any], policy scheduler.OverflowPolicy) (*scheduler.Future[scheduler.Result[any]], error)
}

// FinishListener is called once per finished job, after its done channel is
// closed.
type FinishListener func(job *Job)

// JobQueue is a priority queue of jobs drained by a single dispatcher
// goroutine. See the package documentation for the full contract.
type JobQueue struct {
	queue    *PriorityQueue
	registry *Registry
	inflight inflightCounter
	executor Executor

	capacity    int64
	permits     int
	mayRunTasks bool
	stopTimeout time.Duration
	maxAddWait  time.Duration
	listeners   []FinishListener

	workers *semaphore.Weighted
	busy    atomic.Int32
	active  sync.Map

	poison  *Job
	ctx     context.Context
	cancel  context.CancelFunc
	started atomic.Bool
	closed  atomic.Bool
	admitMu sync.RWMutex
	stopMu  sync.Mutex
	stopped chan struct{}
}

func New(executor Executor, opts ...Option) *JobQueue {
	ctx, cancel := context.WithCancel(context.Background())
	q := &JobQueue{
		queue:       NewPriorityQueue(),
		registry:    NewRegistry(),
		executor:    executor,
		capacity:    DefaultCapacity,
		permits:     2 * runtime.GOMAXPROCS(0),
		mayRunTasks: true,
		stopTimeout: DefaultStopTimeout,
		poison:      NewJob("__poison__", MinRank, nil, WithForced()),
		ctx:         ctx,
		cancel:      cancel,
		stopped:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(q)
	}
	q.workers = semaphore.NewWeighted(int64(q.permits))
	return q
}

// Start launches the dispatcher. Jobs admitted before Start wait in the queue.
func (q *JobQueue) Start() {
	q.stopMu.Lock()
	defer q.stopMu.Unlock()

	if q.closed.Load() || !q.started.CompareAndSwap(false, true) {
		return
	}

	zap.S().Named("job_queue").Infow("dispatcher started",
		"capacity", q.capacity, "permits", q.permits, "dispatcher_runs_tasks", q.mayRunTasks)

	go q.consume()
}

// Admit tries to accept job. It returns nil when the job is scheduled or was
// absorbed by an already queued job with the same identifier.
func (q *JobQueue) Admit(job *Job) error {
	if job == nil {
		return srvErrors.NewInvalidArgumentError("job is nil")
	}

	// Stop flips closed under the write lock, so a job offered here is always
	// ahead of the poison job and gets dispatched or abandoned.
	q.admitMu.RLock()
	defer q.admitMu.RUnlock()

	if q.closed.Load() {
		return srvErrors.NewQueueClosedError()
	}
	if !q.inflight.TryAcquire(q.capacity) {
		return srvErrors.NewCapacityExceededError(job.ID(), q.capacity)
	}

	if job.Forced() {
		return q.enqueue(job)
	}

	for {
		existing, added := q.registry.PutIfAbsent(job)
		if added {
			return q.enqueue(job)
		}

		if job.Rank() <= existing.Rank() {
			q.inflight.Release()
			return srvErrors.NewDuplicateLowerRankError(job.ID(), job.Rank(), existing.Rank())
		}

		// the existing job keeps the slot
		if existing.replaceWith(job) {
			q.inflight.Release()
			return nil
		}

		// existing already started: job takes over the identifier and is
		// queued on its own
		if q.registry.Swap(existing, job) {
			return q.enqueue(job)
		}
		// existing finished or was taken over meanwhile, look again
	}
}

// enqueue offers an admitted job, rolling the admission back on failure.
func (q *JobQueue) enqueue(job *Job) error {
	if q.queue.Offer(job) {
		return nil
	}
	if !job.Forced() {
		q.registry.Remove(job)
	}
	q.inflight.Release()
	return srvErrors.NewCapacityExceededError(job.ID(), q.capacity)
}

// Submit reports whether job was admitted.
func (q *JobQueue) Submit(job *Job) bool {
	return q.Admit(job) == nil
}

// TryAddJob is Submit.
func (q *JobQueue) TryAddJob(job *Job) bool {
	return q.Submit(job)
}

// AddJob waits for capacity instead of failing when the queue is full. It
// gives up when ctx is done or the job is rejected for another reason, and
// returns that reason.
func (q *JobQueue) AddJob(ctx context.Context, job *Job) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 5 * time.Millisecond
	b.MaxInterval = 250 * time.Millisecond

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := q.Admit(job)
		if err == nil || srvErrors.IsCapacityExceededError(err) {
			return struct{}{}, err
		}
		return struct{}{}, backoff.Permanent(err)
	}, q.addJobRetryOptions(b)...)
	if err != nil {
		zap.S().Named("job_queue").Debugw("job not added", "job", job, "error", err)
		return err
	}
	return nil
}

func (q *JobQueue) addJobRetryOptions(b backoff.BackOff) []backoff.RetryOption {
	// zero disables the elapsed time limit of backoff.Retry
	return []backoff.RetryOption{
		backoff.WithBackOff(b),
		backoff.WithMaxElapsedTime(q.maxAddWait),
	}
}

// Stop shuts the dispatcher down. It wakes it with the poison job and waits
// up to the stop timeout before canceling it. Calling Stop again is a no-op.
func (q *JobQueue) Stop() {
	q.stopMu.Lock()
	defer q.stopMu.Unlock()

	q.admitMu.Lock()
	closing := q.closed.CompareAndSwap(false, true)
	q.admitMu.Unlock()
	if !closing {
		return
	}
	defer q.cancel()

	q.queue.Offer(q.poison)

	if !q.started.Load() {
		q.abandon(q.queue.DrainTo(nil), context.Canceled)
		close(q.stopped)
		return
	}

	timer := time.NewTimer(q.stopTimeout)
	defer timer.Stop()

	select {
	case <-q.stopped:
		zap.S().Named("job_queue").Info("dispatcher stopped")
	case <-timer.C:
		zap.S().Named("job_queue").Warnw("dispatcher did not stop in time, canceling it", "timeout", q.stopTimeout)
	}
}

// Stopped is closed when the dispatcher has returned.
func (q *JobQueue) Stopped() <-chan struct{} {
	return q.stopped
}

// finish cleans up after job and fires the lifecycle hooks.
func (q *JobQueue) finish(job *Job, err error) {
	q.active.Delete(job)
	if !job.Forced() {
		q.registry.Remove(job)
	}
	q.inflight.Release()

	if err != nil {
		zap.S().Named("job_queue").Debugw("job finished with error", "job", job, "error", err)
	}
	job.afterFinish(err)

	for _, l := range q.listeners {
		l(job)
	}
}

// abandon finishes jobs that will never be dispatched.
func (q *JobQueue) abandon(jobs []*Job, cause error) {
	for _, job := range jobs {
		if job == q.poison {
			continue
		}
		q.finish(job, srvErrors.NewInterruptedError(job.ID(), cause))
	}
}
