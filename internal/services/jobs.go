package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kubev2v/jobqueue/internal/models"
	"github.com/kubev2v/jobqueue/internal/store"
	srvErrors "github.com/kubev2v/jobqueue/pkg/errors"
	"github.com/kubev2v/jobqueue/pkg/jobqueue"
)

// JobService turns API requests into queue jobs and exposes the queue state.
type JobService struct {
	queue *jobqueue.JobQueue
	store *store.Store
}

func NewJobService(q *jobqueue.JobQueue, st *store.Store) *JobService {
	return &JobService{queue: q, store: st}
}

type SubmitRequest struct {
	// ID is required unless the job is forced.
	ID     string
	Kind   string
	Rank   int
	Forced bool
	// Duration applies to sleep jobs.
	Duration time.Duration
	// Message is the error returned by fail jobs.
	Message string
	// WaitForCapacity blocks until the queue has room instead of failing.
	WaitForCapacity bool
}

// Submit builds the job described by req and admits it.
func (s *JobService) Submit(ctx context.Context, req SubmitRequest) (*jobqueue.Job, error) {
	task, err := newTask(req)
	if err != nil {
		return nil, err
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		if !req.Forced {
			return nil, srvErrors.NewInvalidArgumentError("job id is required for jobs that are not forced")
		}
		id = uuid.NewString()
	}

	var opts []jobqueue.JobOption
	if req.Forced {
		opts = append(opts, jobqueue.WithForced())
	}
	job := jobqueue.NewJob(id, req.Rank, task, opts...)

	if req.WaitForCapacity {
		err = s.queue.AddJob(ctx, job)
	} else {
		err = s.queue.Admit(job)
	}
	if err != nil {
		return nil, err
	}

	zap.S().Named("job_service").Debugw("job submitted", "id", id, "kind", req.Kind, "rank", req.Rank, "forced", req.Forced)
	return job, nil
}

// Cancel marks the job so it is skipped when dispatched.
func (s *JobService) Cancel(id string) (models.JobDescriptor, error) {
	job, ok := s.queue.Find(id)
	if !ok {
		return models.JobDescriptor{}, srvErrors.NewJobNotFoundError(id)
	}
	job.Cancel()
	return jobqueue.DescribeJob(job), nil
}

// Pause asks the dispatcher to put the job back in the queue once.
func (s *JobService) Pause(id string) (models.JobDescriptor, error) {
	job, ok := s.queue.Find(id)
	if !ok {
		return models.JobDescriptor{}, srvErrors.NewJobNotFoundError(id)
	}
	job.Pause()
	return jobqueue.DescribeJob(job), nil
}

// List returns the registered and executing jobs plus the queued forced ones.
func (s *JobService) List() []models.JobDescriptor {
	jobs := s.queue.CurrentJobs()
	for _, d := range s.queue.QueuedJobs() {
		if d.Forced {
			jobs = append(jobs, d)
		}
	}
	return jobs
}

func (s *JobService) Stats() models.QueueStats {
	return s.queue.Stats()
}

// ShouldYield reports whether work running at rank should give way to a
// waiting, higher ranked job.
func (s *JobService) ShouldYield(rank int) bool {
	return s.queue.HasHigherRankedJobInQueue(rank)
}

type ExecutionListParams struct {
	Statuses []models.ExecutionStatus
	JobID    string
	Limit    uint64
	Offset   uint64
}

type ExecutionListResult struct {
	Executions []models.Execution
	Total      int
}

func (s *JobService) Executions(ctx context.Context, params ExecutionListParams) (*ExecutionListResult, error) {
	filters := []store.ListOption{
		store.ByStatus(params.Statuses...),
		store.ByJobID(params.JobID),
	}

	opts := filters
	if params.Limit > 0 {
		opts = append(opts, store.WithLimit(params.Limit))
	}
	if params.Offset > 0 {
		opts = append(opts, store.WithOffset(params.Offset))
	}

	executions, err := s.store.Execution().List(ctx, opts...)
	if err != nil {
		return nil, err
	}

	total, err := s.store.Execution().Count(ctx, filters...)
	if err != nil {
		return nil, err
	}

	return &ExecutionListResult{
		Executions: executions,
		Total:      total,
	}, nil
}

func newTask(req SubmitRequest) (jobqueue.Task, error) {
	switch req.Kind {
	case TaskKindSleep:
		if req.Duration < 0 {
			return nil, srvErrors.NewInvalidArgumentError("sleep duration must not be negative")
		}
		return &sleepTask{duration: req.Duration}, nil
	case TaskKindNoop, "":
		return noopTask{}, nil
	case TaskKindFail:
		msg := req.Message
		if msg == "" {
			msg = "job failed"
		}
		return &failTask{message: msg}, nil
	default:
		return nil, srvErrors.NewInvalidArgumentError("unknown job kind %q", req.Kind)
	}
}
