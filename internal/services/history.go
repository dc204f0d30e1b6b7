package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kubev2v/jobqueue/internal/models"
	"github.com/kubev2v/jobqueue/internal/store"
	srvErrors "github.com/kubev2v/jobqueue/pkg/errors"
	"github.com/kubev2v/jobqueue/pkg/jobqueue"
)

const (
	DefaultHistoryBuffer = 1024
	historySaveTimeout   = 5 * time.Second
)

// HistoryRecorder writes one execution record per finished job. Record is
// meant to be registered as the queue's finish listener; it never blocks the
// dispatcher, records that don't fit in the buffer are dropped.
type HistoryRecorder struct {
	store   *store.Store
	records chan models.Execution
	done    chan struct{}
	dropped atomic.Int64

	mu     sync.RWMutex
	closed bool
}

func NewHistoryRecorder(st *store.Store, buffer int) *HistoryRecorder {
	if buffer <= 0 {
		buffer = DefaultHistoryBuffer
	}
	h := &HistoryRecorder{
		store:   st,
		records: make(chan models.Execution, buffer),
		done:    make(chan struct{}),
	}
	go h.run()
	return h
}

// Record queues the execution record of job.
func (h *HistoryRecorder) Record(job *jobqueue.Job) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}

	select {
	case h.records <- NewExecution(job):
	default:
		h.dropped.Add(1)
		zap.S().Named("history").Warnw("history buffer full, execution dropped", "job", job.ID())
	}
}

// Dropped returns how many records were lost to a full buffer.
func (h *HistoryRecorder) Dropped() int64 {
	return h.dropped.Load()
}

// Close writes the buffered records and stops the recorder.
func (h *HistoryRecorder) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		<-h.done
		return
	}
	h.closed = true
	close(h.records)
	h.mu.Unlock()

	<-h.done
}

func (h *HistoryRecorder) run() {
	defer close(h.done)
	log := zap.S().Named("history")

	for e := range h.records {
		ctx, cancel := context.WithTimeout(context.Background(), historySaveTimeout)
		if err := h.store.Execution().Save(ctx, &e); err != nil {
			log.Errorw("failed to save execution", "job", e.JobID, "error", err)
		}
		cancel()
	}
}

// NewExecution builds the execution record of a finished job.
func NewExecution(job *jobqueue.Job) models.Execution {
	e := models.Execution{
		JobID:      job.ID(),
		Rank:       job.Rank(),
		Forced:     job.Forced(),
		Status:     models.ExecutionStatusCompleted,
		CreatedAt:  job.CreatedAt(),
		FinishedAt: job.FinishedAt(),
	}
	if k, ok := job.Task().(kinded); ok {
		e.Kind = k.Kind()
	}
	if started := job.StartedAt(); !started.IsZero() {
		e.StartedAt = &started
	}
	if e.FinishedAt.IsZero() {
		e.FinishedAt = time.Now()
	}

	err := job.Failure()
	switch {
	case err == nil && job.Canceled() && e.StartedAt == nil:
		e.Status = models.ExecutionStatusCanceled
	case srvErrors.IsInterruptedError(err):
		e.Status = models.ExecutionStatusInterrupted
	case err != nil:
		e.Status = models.ExecutionStatusFailed
	}
	if err != nil {
		e.Error = err.Error()
	}
	return e
}
