package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/kubev2v/jobqueue/api/v1"
	"github.com/kubev2v/jobqueue/internal/services"
	srvErrors "github.com/kubev2v/jobqueue/pkg/errors"
	"github.com/kubev2v/jobqueue/pkg/jobqueue"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListJobs returns the jobs in flight
// (GET /jobs)
func (h *Handler) ListJobs(c *gin.Context) {
	jobs := h.jobSrv.List()

	apiJobs := make([]v1.Job, 0, len(jobs))
	for _, d := range jobs {
		apiJobs = append(apiJobs, v1.NewJobFromModel(d))
	}

	c.JSON(http.StatusOK, v1.JobList{
		Jobs:  apiJobs,
		Total: len(apiJobs),
	})
}

// SubmitJob admits a new job
// (POST /jobs)
func (h *Handler) SubmitJob(c *gin.Context) {
	var body v1.SubmitJobRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, v1.Error{Error: "invalid request body: " + err.Error()})
		return
	}

	req, err := body.ToService()
	if err != nil {
		abortWithError(c, "invalid job request", err)
		return
	}

	job, err := h.jobSrv.Submit(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, "failed to submit job", err)
		return
	}

	// an absorbed request reports the job that will run it
	if target := job.AbsorbedBy(); target != nil {
		c.JSON(http.StatusOK, v1.NewJobFromModel(jobqueue.DescribeJob(target)))
		return
	}
	c.JSON(http.StatusAccepted, v1.NewJobFromModel(jobqueue.DescribeJob(job)))
}

// CancelJob marks a job to be skipped
// (POST /jobs/{id}/cancel)
func (h *Handler) CancelJob(c *gin.Context, id string) {
	d, err := h.jobSrv.Cancel(id)
	if err != nil {
		abortWithError(c, "failed to cancel job", err)
		return
	}
	c.JSON(http.StatusOK, v1.NewJobFromModel(d))
}

// PauseJob sends a job back to the queue once
// (POST /jobs/{id}/pause)
func (h *Handler) PauseJob(c *gin.Context, id string) {
	d, err := h.jobSrv.Pause(id)
	if err != nil {
		abortWithError(c, "failed to pause job", err)
		return
	}
	c.JSON(http.StatusOK, v1.NewJobFromModel(d))
}

// GetStats returns the queue counters
// (GET /stats)
func (h *Handler) GetStats(c *gin.Context, params v1.GetStatsParams) {
	stats := v1.NewQueueStatsFromModel(h.jobSrv.Stats())
	if params.Rank != nil {
		yield := h.jobSrv.ShouldYield(*params.Rank)
		stats.ShouldYield = &yield
	}
	c.JSON(http.StatusOK, stats)
}

// ListExecutions returns the execution history with filtering and pagination
// (GET /executions)
func (h *Handler) ListExecutions(c *gin.Context, params v1.ListExecutionsParams) {
	limit := defaultPageSize
	if params.Limit != nil && *params.Limit > 0 {
		limit = min(*params.Limit, maxPageSize)
	}
	offset := 0
	if params.Offset != nil {
		if *params.Offset < 0 {
			abortWithError(c, "invalid offset", srvErrors.NewInvalidArgumentError("offset must not be negative"))
			return
		}
		offset = *params.Offset
	}

	svcParams := services.ExecutionListParams{
		Limit:  uint64(limit),
		Offset: uint64(offset),
	}
	if params.Id != nil {
		svcParams.JobID = *params.Id
	}
	if params.Status != nil {
		statuses, err := v1.ParseExecutionStatuses(*params.Status)
		if err != nil {
			abortWithError(c, "invalid status", err)
			return
		}
		svcParams.Statuses = statuses
	}

	result, err := h.jobSrv.Executions(c.Request.Context(), svcParams)
	if err != nil {
		abortWithError(c, "failed to list executions", err)
		return
	}

	apiExecutions := make([]v1.Execution, 0, len(result.Executions))
	for _, e := range result.Executions {
		apiExecutions = append(apiExecutions, v1.NewExecutionFromModel(e))
	}

	c.JSON(http.StatusOK, v1.ExecutionList{
		Executions: apiExecutions,
		Total:      result.Total,
	})
}
