package jobqueue

import (
	"time"
)

// Option configures a JobQueue.
type Option func(*JobQueue)

// WithCapacity sets the ceiling on admitted but unfinished jobs.
func WithCapacity(n int64) Option {
	return func(q *JobQueue) {
		if n > 0 {
			q.capacity = n
		}
	}
}

// WithPermits sets how many jobs may execute on the executor at once.
// The default is twice GOMAXPROCS.
func WithPermits(n int) Option {
	return func(q *JobQueue) {
		if n > 0 {
			q.permits = n
		}
	}
}

// WithDispatcherMayRunTasks controls what the dispatcher does when no permit
// is free: run the job itself (true, the default) or wait for a permit.
func WithDispatcherMayRunTasks(b bool) Option {
	return func(q *JobQueue) { q.mayRunTasks = b }
}

// WithStopTimeout bounds how long Stop waits for the dispatcher.
func WithStopTimeout(d time.Duration) Option {
	return func(q *JobQueue) {
		if d > 0 {
			q.stopTimeout = d
		}
	}
}

// WithMaxAddJobWait bounds how long AddJob waits for capacity. The default,
// zero, leaves the wait to the caller's context.
func WithMaxAddJobWait(d time.Duration) Option {
	return func(q *JobQueue) {
		if d >= 0 {
			q.maxAddWait = d
		}
	}
}

// WithFinishListener registers fn to be called after every job is finished.
func WithFinishListener(fn FinishListener) Option {
	return func(q *JobQueue) {
		if fn != nil {
			q.listeners = append(q.listeners, fn)
		}
	}
}
