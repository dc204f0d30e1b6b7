package jobqueue

import (
	"strings"
	"sync"
	"sync/atomic"
)

// Registry maps identifiers to the non-forced job currently admitted under
// them. It is safe for concurrent use.
type Registry struct {
	jobs sync.Map
	size atomic.Int64
}

func NewRegistry() *Registry {
	return &Registry{}
}

// PutIfAbsent stores job under its identifier unless another job is already
// there. It returns the job that ends up registered and whether it was job.
func (r *Registry) PutIfAbsent(job *Job) (*Job, bool) {
	actual, loaded := r.jobs.LoadOrStore(job.ID(), job)
	if loaded {
		return actual.(*Job), false
	}
	r.size.Add(1)
	return job, true
}

// Get retrieves the job registered under id.
func (r *Registry) Get(id string) (*Job, bool) {
	v, ok := r.jobs.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*Job), true
}

// Lookup is Get with a case-insensitive fallback.
func (r *Registry) Lookup(id string) (*Job, bool) {
	if job, ok := r.Get(id); ok {
		return job, true
	}

	var found *Job
	r.jobs.Range(func(key, value any) bool {
		if strings.EqualFold(key.(string), id) {
			found = value.(*Job)
			return false
		}
		return true
	})
	return found, found != nil
}

// Remove deletes job only if it is still the one registered under its identifier.
func (r *Registry) Remove(job *Job) bool {
	if r.jobs.CompareAndDelete(job.ID(), job) {
		r.size.Add(-1)
		return true
	}
	return false
}

// Swap registers newer in place of old, only if old is still the job
// registered under their identifier.
func (r *Registry) Swap(old, newer *Job) bool {
	return r.jobs.CompareAndSwap(old.ID(), old, newer)
}

// Len returns the number of registered jobs.
func (r *Registry) Len() int {
	return int(r.size.Load())
}

// Jobs returns a snapshot of the registered jobs.
func (r *Registry) Jobs() []*Job {
	jobs := make([]*Job, 0, r.Len())
	r.jobs.Range(func(_, value any) bool {
		jobs = append(jobs, value.(*Job))
		return true
	})
	return jobs
}
