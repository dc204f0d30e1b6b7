// Package jobqueue implements a priority job queue with bounded,
// duplicate-aware concurrent execution.
//
// Producers admit jobs from any goroutine. A single dispatcher goroutine
// drains the queue in rank order and hands every job either to an Executor
// (the scheduler worker pool) or, when the pool is saturated, runs it itself.
//
// # Architecture Overview
//
//	  Submit / Admit / AddJob (any goroutine)
//	                 │
//	                 ▼
//	┌──────────────────────────────────────┐
//	│          Admission                    │
//	│  in-flight counter (CAS, ceiling)     │
//	│  Registry.PutIfAbsent (dedup by id)   │
//	└──────────────────┬───────────────────┘
//	                   │ Offer
//	                   ▼
//	┌──────────────────────────────────────┐
//	│      PriorityQueue (rank desc)        │
//	│  [rank 10] [rank 5] [rank 1] ...      │
//	└──────────────────┬───────────────────┘
//	                   │ Take (only when empty) + DrainTo
//	                   ▼
//	┌──────────────────────────────────────┐
//	│          Dispatcher (consume)         │
//	│  canceled → finish, no run            │
//	│  paused   → clear flag, re-Offer      │
//	│  else     → worker semaphore          │
//	└──────────┬──────────────────┬────────┘
//	   permit  │                  │ no permit
//	           ▼                  ▼
//	┌──────────────────┐  ┌──────────────────────────┐
//	│ Executor.Submit  │  │ run inline on dispatcher │
//	│ (CallerRuns)     │  │ or block for a permit    │
//	└──────────────────┘  └──────────────────────────┘
//
// # Admission
//
// Admit returns nil when the job is scheduled, or a tagged error from
// pkg/errors otherwise. Submit and TryAddJob flatten that to a bool.
//
//	┌─────────────────────────────┬──────────────────────────────────────┐
//	│ Situation                   │ Result                               │
//	├─────────────────────────────┼──────────────────────────────────────┤
//	│ nil job                     │ InvalidArgument                      │
//	│ queue stopped               │ QueueClosed                          │
//	│ counter at capacity         │ CapacityExceeded                     │
//	│ forced job                  │ enqueued, registry untouched         │
//	│ new identifier              │ registered and enqueued              │
//	│ same id, higher rank        │ existing job absorbs it, accepted    │
//	│ same id, higher rank, but   │ takes over the identifier, enqueued  │
//	│ existing job already began  │                                      │
//	│ same id, equal/lower rank   │ DuplicateLowerRank                   │
//	└─────────────────────────────┴──────────────────────────────────────┘
//
// The comparison is strict: on equal ranks the job already queued wins.
// A job that was absorbed never runs on its own; Job.Wait on it waits for the
// job that absorbed it. A job that already started keeps the task it started
// with, so Run and both hooks always see the same task.
//
// Admission and Stop exclude each other: every admitted job is queued ahead
// of the poison job, so it is either dispatched or finished as Interrupted.
//
// AddJob retries CapacityExceeded with exponential backoff until the job is
// admitted, denied for another reason, or the context is done. It returns
// the reason the job was not added. Only the context bounds the wait unless
// WithMaxAddJobWait sets a limit.
//
// # Dispatcher
//
// The dispatcher blocks in Take only when the queue is empty. Otherwise it
// drains everything already queued into a batch and dispatches the batch in
// order. The poison job pushed by Stop ends the loop once the batch holding
// it is dispatched.
//
// When no semaphore permit is free the dispatcher runs the job itself, which
// bounds concurrency at permits + 1 without dropping work. With
// WithDispatcherMayRunTasks(false) it waits for a permit instead.
//
// Errors and panics from Task.Run are stored on the job (Job.Failure) as
// ExecutionFailed and logged at debug level; the dispatcher keeps going.
//
// # Cancellation and Pause
//
// Job.Cancel and Job.Pause are only looked at when the dispatcher pops the
// job. A canceled job is finished without running; its after-finish hook
// still runs exactly once. A paused job has the flag cleared and goes back in
// the queue once.
//
// # Shutdown
//
// Stop marks the queue closed, pushes the poison job and waits for the
// dispatcher up to the stop timeout (one second by default). On timeout the
// dispatcher context is canceled. Jobs that can no longer be dispatched are
// finished with an Interrupted error so waiters are released. Stop is
// idempotent.
//
// # Usage Example
//
//	pool := scheduler.NewScheduler(8)
//	defer pool.Close()
//
//	q := jobqueue.New(pool, jobqueue.WithPermits(8))
//	q.Start()
//	defer q.Stop()
//
//	job := jobqueue.NewJob("reindex-users", 10, jobqueue.TaskFunc(func(ctx context.Context) error {
//	    return reindex(ctx)
//	}))
//	if !q.Submit(job) {
//	    // not scheduled: retry later or run it synchronously
//	}
//	err := job.Wait(ctx)
package jobqueue
