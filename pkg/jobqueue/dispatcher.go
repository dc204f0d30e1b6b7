package jobqueue

import (
	"context"
	"slices"
	"sync/atomic"

	"go.uber.org/zap"

	srvErrors "github.com/kubev2v/jobqueue/pkg/errors"
	"github.com/kubev2v/jobqueue/pkg/scheduler"
)

// consume is the dispatcher loop. It blocks only when the queue is empty and
// otherwise works through everything queued in one batch.
func (q *JobQueue) consume() {
	defer close(q.stopped)
	defer func() {
		// jobs admitted while the dispatcher was going away
		q.abandon(q.queue.DrainTo(nil), context.Canceled)
	}()

	batch := make([]*Job, 0, 64)
	for {
		batch = batch[:0]

		if q.queue.Len() == 0 {
			job, err := q.queue.Take(q.ctx)
			if err != nil {
				zap.S().Named("job_queue").Debugw("dispatcher interrupted while waiting", "error", err)
				return
			}
			if job == q.poison {
				return
			}
			batch = append(batch, job)
		}
		batch = q.queue.DrainTo(batch)

		terminate := false
		batch = slices.DeleteFunc(batch, func(j *Job) bool {
			if j == q.poison {
				terminate = true
				return true
			}
			return false
		})

		for i, job := range batch {
			if err := q.ctx.Err(); err != nil {
				q.abandon(batch[i:], err)
				return
			}
			q.dispatch(job)
		}

		if terminate {
			return
		}
	}
}

func (q *JobQueue) dispatch(job *Job) {
	switch {
	case job.Canceled():
		q.finish(job, nil)
	case job.paused.CompareAndSwap(true, false):
		q.queue.Offer(job)
	default:
		q.execute(job)
	}
}

// execute runs job on the executor when a permit is free. Otherwise the
// dispatcher either runs it itself or waits for a permit.
func (q *JobQueue) execute(job *Job) {
	if q.workers.TryAcquire(1) {
		q.busy.Add(1)
		q.runAsync(job)
		return
	}

	if q.mayRunTasks {
		q.runInline(job)
		return
	}

	if err := q.workers.Acquire(q.ctx, 1); err != nil {
		q.finish(job, srvErrors.NewInterruptedError(job.ID(), err))
		return
	}
	q.busy.Add(1)
	q.runAsync(job)
}

func (q *JobQueue) runInline(job *Job) {
	q.active.Store(job, struct{}{})
	job.beforeStart()
	q.finish(job, job.run(q.ctx))
}

func (q *JobQueue) runAsync(job *Job) {
	q.active.Store(job, struct{}{})

	var ran atomic.Bool
	work := func(ctx context.Context) (any, error) {
		ran.Store(true)
		defer q.releasePermit()

		job.beforeStart()
		err := job.run(ctx)
		q.finish(job, err)
		return nil, err
	}

	future, err := q.executor.Submit(work, scheduler.CallerRuns)
	if err != nil {
		q.releasePermit()
		q.finish(job, srvErrors.NewInterruptedError(job.ID(), err))
		return
	}

	// a closed executor answers without ever calling work
	select {
	case res := <-future.C():
		future.C() <- res
		if !ran.Load() {
			q.releasePermit()
			q.finish(job, srvErrors.NewInterruptedError(job.ID(), res.Err))
			return
		}
	default:
	}

	job.setHandle(future)
}

func (q *JobQueue) releasePermit() {
	q.busy.Add(-1)
	q.workers.Release(1)
}
