package jobqueue

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	srvErrors "github.com/kubev2v/jobqueue/pkg/errors"
	"github.com/kubev2v/jobqueue/pkg/scheduler"
)

const (
	// MaxRank runs almost immediately.
	MaxRank = math.MaxInt32
	// MinRank runs almost never.
	MinRank     = math.MinInt32
	DefaultRank = 0
)

// Task is the behaviour a Job executes.
type Task interface {
	Run(ctx context.Context) error
}

type TaskFunc func(ctx context.Context) error

func (f TaskFunc) Run(ctx context.Context) error { return f(ctx) }

// BeforeStarter is implemented by tasks that want to be called right before Run.
type BeforeStarter interface {
	BeforeStart(job *Job)
}

// AfterFinisher is implemented by tasks that want to be called once the job
// is finished, whether it ran, failed or was canceled.
type AfterFinisher interface {
	AfterFinish(job *Job, err error)
}

// Replacer is implemented by tasks that merge the parameters of a newer,
// higher ranked request for the same identifier. Tasks that don't implement
// it are swapped for the newer task.
type Replacer interface {
	ReplaceWith(newer Task) Task
}

type JobOption func(*Job)

// WithForced exempts the job from identifier based deduplication.
func WithForced() JobOption {
	return func(j *Job) { j.forced = true }
}

// WithRank sets the rank of jobs built by NewFuncJob.
func WithRank(rank int) JobOption {
	return func(j *Job) { j.rank = rank }
}

// Job is a unit of work held by the queue. Identifier, rank and forced are
// fixed at construction; the state flags may be flipped from any goroutine.
type Job struct {
	id        string
	rank      int
	forced    bool
	createdAt time.Time

	canceled atomic.Bool
	paused   atomic.Bool
	running  atomic.Bool
	finished atomic.Bool
	done     chan struct{}

	mu         sync.Mutex
	task       Task
	started    Task
	failure    error
	handle     *scheduler.Future[scheduler.Result[any]]
	startedAt  time.Time
	finishedAt time.Time
	absorbedBy *Job
}

func NewJob(id string, rank int, task Task, opts ...JobOption) *Job {
	j := &Job{
		id:        id,
		rank:      rank,
		task:      task,
		createdAt: time.Now(),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// NewFuncJob wraps fn into a forced job with a generated identifier.
func NewFuncJob(fn TaskFunc, opts ...JobOption) *Job {
	return NewJob(uuid.NewString(), DefaultRank, fn, append(opts, WithForced())...)
}

func (j *Job) ID() string { return j.id }

func (j *Job) Rank() int { return j.rank }

func (j *Job) Forced() bool { return j.forced }

func (j *Job) CreatedAt() time.Time { return j.createdAt }

// SameID reports whether both jobs carry the same identifier, ignoring case.
func (j *Job) SameID(other *Job) bool {
	return other != nil && strings.EqualFold(j.id, other.id)
}

// Cancel marks the job so the dispatcher skips it. A job already running is
// not interrupted.
func (j *Job) Cancel() { j.canceled.Store(true) }

func (j *Job) Canceled() bool { return j.canceled.Load() }

// Pause asks the dispatcher to put the job back in the queue once instead of
// running it.
func (j *Job) Pause() { j.paused.Store(true) }

func (j *Job) Paused() bool { return j.paused.Load() }

func (j *Job) Running() bool { return j.running.Load() }

func (j *Job) IsDone() bool { return j.finished.Load() }

// Done is closed once the job is finished.
func (j *Job) Done() <-chan struct{} { return j.done }

func (j *Job) Task() Task {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.task
}

// Failure returns the error captured while executing the job, if any.
func (j *Job) Failure() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.failure
}

// Handle returns the future of the pool execution, nil when the job is not
// running on the pool.
func (j *Job) Handle() *scheduler.Future[scheduler.Result[any]] {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.handle
}

func (j *Job) StartedAt() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.startedAt
}

func (j *Job) FinishedAt() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.finishedAt
}

// AbsorbedBy returns the already queued job that took over this request, nil
// if the job was admitted on its own.
func (j *Job) AbsorbedBy() *Job {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.absorbedBy
}

// Wait blocks until the job, or the job that absorbed it, is finished.
func (j *Job) Wait(ctx context.Context) error {
	target := j
	for next := target.AbsorbedBy(); next != nil; next = target.AbsorbedBy() {
		target = next
	}

	select {
	case <-target.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	if err := target.Failure(); err != nil {
		return err
	}
	if target.Canceled() && target.StartedAt().IsZero() {
		return srvErrors.NewCanceledError(target.id)
	}
	return nil
}

func (j *Job) String() string {
	return fmt.Sprintf("job(%s, rank=%d, forced=%t)", j.id, j.rank, j.forced)
}

// replaceWith lets j represent the newer request from now on. It reports
// false, leaving both jobs untouched, once j has started: the running task
// can no longer take the newer parameters into account.
func (j *Job) replaceWith(newer *Job) bool {
	newTask := newer.Task()

	j.mu.Lock()
	if j.started != nil {
		j.mu.Unlock()
		return false
	}
	if r, ok := j.task.(Replacer); ok {
		j.task = r.ReplaceWith(newTask)
	} else {
		j.task = newTask
	}
	j.mu.Unlock()

	newer.mu.Lock()
	newer.absorbedBy = j
	newer.mu.Unlock()
	return true
}

func (j *Job) setHandle(f *scheduler.Future[scheduler.Result[any]]) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.finished.Load() {
		return
	}
	j.handle = f
}

func (j *Job) beforeStart() {
	j.mu.Lock()
	j.startedAt = time.Now()
	j.started = j.task
	task := j.started
	j.mu.Unlock()

	j.running.Store(true)
	if h, ok := task.(BeforeStarter); ok {
		h.BeforeStart(j)
	}
}

// runningTask is the task captured by beforeStart, so Run and the hooks
// always see the same task.
func (j *Job) runningTask() Task {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.started != nil {
		return j.started
	}
	return j.task
}

func (j *Job) run(ctx context.Context) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = srvErrors.NewExecutionFailedError(j.id, fmt.Errorf("panic: %v", rec))
		}
	}()

	if runErr := j.runningTask().Run(ctx); runErr != nil {
		return srvErrors.NewExecutionFailedError(j.id, runErr)
	}
	return nil
}

// afterFinish records the outcome and releases waiters. Only the first call
// has any effect.
func (j *Job) afterFinish(err error) {
	j.mu.Lock()
	if !j.finished.CompareAndSwap(false, true) {
		j.mu.Unlock()
		return
	}
	j.failure = err
	j.finishedAt = time.Now()
	j.handle = nil
	task := j.task
	if j.started != nil {
		task = j.started
	}
	j.mu.Unlock()

	if h, ok := task.(AfterFinisher); ok {
		h.AfterFinish(j, err)
	}

	j.running.Store(false)
	close(j.done)
}
