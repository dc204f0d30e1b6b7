package jobqueue

import (
	"slices"
	"strings"

	"github.com/kubev2v/jobqueue/internal/models"
)

// CurrentJobs returns the jobs known to the queue: registered ones and the
// ones executing right now. The result is best effort and may miss jobs
// that change state while it is built.
func (q *JobQueue) CurrentJobs() []models.JobDescriptor {
	seen := make(map[*Job]struct{})
	descriptors := make([]models.JobDescriptor, 0, q.registry.Len())

	add := func(job *Job) {
		if _, ok := seen[job]; ok || job.IsDone() {
			return
		}
		seen[job] = struct{}{}
		descriptors = append(descriptors, DescribeJob(job))
	}

	q.active.Range(func(key, _ any) bool {
		add(key.(*Job))
		return true
	})
	for _, job := range q.registry.Jobs() {
		add(job)
	}
	return descriptors
}

// QueuedJobs returns the jobs waiting in the queue, forced ones included.
func (q *JobQueue) QueuedJobs() []models.JobDescriptor {
	jobs := q.queue.Snapshot()
	descriptors := make([]models.JobDescriptor, 0, len(jobs))
	for _, job := range jobs {
		if job == q.poison {
			continue
		}
		descriptors = append(descriptors, DescribeJob(job))
	}
	return descriptors
}

// Find returns the unfinished job with the given identifier. Identifiers are
// compared case-insensitively.
func (q *JobQueue) Find(id string) (*Job, bool) {
	if job, ok := q.registry.Lookup(id); ok {
		return job, true
	}

	var found *Job
	q.active.Range(func(key, _ any) bool {
		if job := key.(*Job); strings.EqualFold(job.ID(), id) {
			found = job
			return false
		}
		return true
	})
	if found != nil {
		return found, true
	}

	for _, job := range q.queue.Snapshot() {
		if job != q.poison && strings.EqualFold(job.ID(), id) {
			return job, true
		}
	}
	return nil, false
}

// HasHigherRankedJobInQueue reports whether a long running job of the given
// rank should yield: a higher ranked job is waiting and no permit is free to
// run it.
func (q *JobQueue) HasHigherRankedJobInQueue(rank int) bool {
	head, ok := q.queue.Peek()
	if !ok || head == q.poison || head.Rank() <= rank {
		return false
	}
	return int(q.busy.Load()) >= q.permits
}

func (q *JobQueue) Stats() models.QueueStats {
	executing := 0
	q.active.Range(func(_, _ any) bool {
		executing++
		return true
	})

	queued := q.queue.Len()
	if q.closed.Load() && slices.Contains(q.queue.Snapshot(), q.poison) {
		queued--
	}

	return models.QueueStats{
		Running:     q.started.Load() && !q.closed.Load(),
		Capacity:    q.capacity,
		InFlight:    q.inflight.Load(),
		Queued:      queued,
		Registered:  q.registry.Len(),
		Executing:   executing,
		Permits:     q.permits,
		BusyPermits: int(q.busy.Load()),
	}
}

// DescribeJob returns a point-in-time view of job.
func DescribeJob(job *Job) models.JobDescriptor {
	d := models.JobDescriptor{
		ID:        job.ID(),
		Rank:      job.Rank(),
		Forced:    job.Forced(),
		State:     models.JobStateQueued,
		CreatedAt: job.CreatedAt(),
	}

	switch {
	case job.Running():
		d.State = models.JobStateRunning
	case job.Canceled():
		d.State = models.JobStateCanceled
	case job.Paused():
		d.State = models.JobStatePaused
	}

	if started := job.StartedAt(); !started.IsZero() {
		d.StartedAt = &started
	}
	return d
}
