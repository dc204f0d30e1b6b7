package v1

import (
	"time"

	"github.com/kubev2v/jobqueue/internal/models"
	"github.com/kubev2v/jobqueue/internal/services"
	srvErrors "github.com/kubev2v/jobqueue/pkg/errors"
)

// NewJobFromModel converts a models.JobDescriptor to an API Job.
func NewJobFromModel(d models.JobDescriptor) Job {
	return Job{
		Id:        d.ID,
		Rank:      d.Rank,
		Forced:    d.Forced,
		State:     JobState(d.State),
		CreatedAt: d.CreatedAt,
		StartedAt: d.StartedAt,
	}
}

func NewQueueStatsFromModel(s models.QueueStats) QueueStats {
	return QueueStats{
		Running:     s.Running,
		Capacity:    s.Capacity,
		InFlight:    s.InFlight,
		Queued:      s.Queued,
		Registered:  s.Registered,
		Executing:   s.Executing,
		Permits:     s.Permits,
		BusyPermits: s.BusyPermits,
	}
}

// NewExecutionFromModel converts a models.Execution to an API Execution.
func NewExecutionFromModel(e models.Execution) Execution {
	apiExecution := Execution{
		Id:         e.ID,
		JobId:      e.JobID,
		Kind:       e.Kind,
		Rank:       e.Rank,
		Forced:     e.Forced,
		Status:     ExecutionStatus(e.Status),
		CreatedAt:  e.CreatedAt,
		StartedAt:  e.StartedAt,
		FinishedAt: e.FinishedAt,
	}

	if e.Error != "" {
		apiExecution.Error = &e.Error
	}

	return apiExecution
}

// ToService converts the request into a service request.
func (r SubmitJobRequest) ToService() (services.SubmitRequest, error) {
	req := services.SubmitRequest{Kind: services.TaskKindNoop}

	if r.Id != nil {
		req.ID = *r.Id
	}
	if r.Kind != nil {
		req.Kind = *r.Kind
	}
	if r.Rank != nil {
		req.Rank = *r.Rank
	}
	if r.Forced != nil {
		req.Forced = *r.Forced
	}
	if r.Message != nil {
		req.Message = *r.Message
	}
	if r.Wait != nil {
		req.WaitForCapacity = *r.Wait
	}
	if r.Duration != nil {
		d, err := time.ParseDuration(*r.Duration)
		if err != nil {
			return services.SubmitRequest{}, srvErrors.NewInvalidArgumentError("invalid duration %q", *r.Duration)
		}
		req.Duration = d
	}

	return req, nil
}

// ParseExecutionStatuses converts API status filters to model statuses.
func ParseExecutionStatuses(values []string) ([]models.ExecutionStatus, error) {
	statuses := make([]models.ExecutionStatus, 0, len(values))
	for _, v := range values {
		s, err := models.ParseExecutionStatus(v)
		if err != nil {
			return nil, srvErrors.NewInvalidArgumentError("%s", err)
		}
		statuses = append(statuses, s)
	}
	return statuses, nil
}
