package jobqueue

import "sync/atomic"

// inflightCounter counts admitted jobs that were not cleaned up yet.
type inflightCounter struct {
	n atomic.Int64
}

// TryAcquire increments the counter unless it already reached ceiling.
func (c *inflightCounter) TryAcquire(ceiling int64) bool {
	for {
		cur := c.n.Load()
		if cur >= ceiling {
			return false
		}
		if c.n.CompareAndSwap(cur, cur+1) {
			return true
		}
	}
}

// Release decrements the counter. It never goes below zero.
func (c *inflightCounter) Release() {
	for {
		cur := c.n.Load()
		if cur <= 0 {
			return
		}
		if c.n.CompareAndSwap(cur, cur-1) {
			return
		}
	}
}

func (c *inflightCounter) Load() int64 {
	return c.n.Load()
}
