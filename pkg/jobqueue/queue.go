package jobqueue

import (
	"container/heap"
	"context"
	"sync"
	"time"
)

type entry struct {
	job *Job
	seq uint64
}

// jobHeap is a max-heap on rank; equal ranks keep insertion order.
type jobHeap []entry

func (h jobHeap) Len() int { return len(h) }

func (h jobHeap) Less(i, j int) bool {
	if h[i].job.Rank() != h[j].job.Rank() {
		return h[i].job.Rank() > h[j].job.Rank()
	}
	return h[i].seq < h[j].seq
}

func (h jobHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *jobHeap) Push(x any) { *h = append(*h, x.(entry)) }

func (h *jobHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = entry{}
	*h = old[:n-1]
	return e
}

// PriorityQueue is an unbounded blocking queue of jobs ordered by rank,
// highest first. Producers never block; Take blocks until a job is available.
type PriorityQueue struct {
	mu     sync.Mutex
	items  jobHeap
	seq    uint64
	signal chan struct{}
}

func NewPriorityQueue() *PriorityQueue {
	return &PriorityQueue{
		items:  make(jobHeap, 0, 64),
		signal: make(chan struct{}, 1),
	}
}

// Offer inserts job. It only fails for a nil job.
func (q *PriorityQueue) Offer(job *Job) bool {
	if job == nil {
		return false
	}

	q.mu.Lock()
	q.seq++
	heap.Push(&q.items, entry{job: job, seq: q.seq})
	q.mu.Unlock()

	q.notify()
	return true
}

// Poll removes the head of the queue without waiting.
func (q *PriorityQueue) Poll() (*Job, bool) {
	q.mu.Lock()
	if q.items.Len() == 0 {
		q.mu.Unlock()
		return nil, false
	}
	e := heap.Pop(&q.items).(entry)
	remaining := q.items.Len()
	q.mu.Unlock()

	// pass the wake-up on to the next waiter
	if remaining > 0 {
		q.notify()
	}
	return e.job, true
}

// Take removes the head of the queue, waiting until one is available or ctx
// is done.
func (q *PriorityQueue) Take(ctx context.Context) (*Job, error) {
	for {
		if job, ok := q.Poll(); ok {
			return job, nil
		}
		select {
		case <-q.signal:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// PollTimeout removes the head of the queue, waiting at most d.
func (q *PriorityQueue) PollTimeout(d time.Duration) (*Job, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()

	job, err := q.Take(ctx)
	if err != nil {
		return nil, false
	}
	return job, true
}

// DrainTo appends every job currently queued to batch, in dequeue order,
// without waiting for more.
func (q *PriorityQueue) DrainTo(batch []*Job) []*Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.items.Len() > 0 {
		batch = append(batch, heap.Pop(&q.items).(entry).job)
	}
	return batch
}

// Peek returns the head of the queue without removing it.
func (q *PriorityQueue) Peek() (*Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.items.Len() == 0 {
		return nil, false
	}
	return q.items[0].job, true
}

func (q *PriorityQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}

// Snapshot returns the queued jobs in no particular order.
func (q *PriorityQueue) Snapshot() []*Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	jobs := make([]*Job, 0, q.items.Len())
	for _, e := range q.items {
		jobs = append(jobs, e.job)
	}
	return jobs
}

func (q *PriorityQueue) notify() {
	select {
	case q.signal <- struct{}{}:
	default:
	}
}
