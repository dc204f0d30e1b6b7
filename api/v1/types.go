package v1

import "time"

// JobState is the dispatch state of an in-flight job.
type JobState string

const (
	JobStateQueued   JobState = "queued"
	JobStatePaused   JobState = "paused"
	JobStateCanceled JobState = "canceled"
	JobStateRunning  JobState = "running"
)

// ExecutionStatus is how a finished job ended.
type ExecutionStatus string

const (
	ExecutionStatusCompleted   ExecutionStatus = "completed"
	ExecutionStatusFailed      ExecutionStatus = "failed"
	ExecutionStatusCanceled    ExecutionStatus = "canceled"
	ExecutionStatusInterrupted ExecutionStatus = "interrupted"
)

// Job defines model for Job.
type Job struct {
	Id        string     `json:"id"`
	Rank      int        `json:"rank"`
	Forced    bool       `json:"forced"`
	State     JobState   `json:"state"`
	CreatedAt time.Time  `json:"createdAt"`
	StartedAt *time.Time `json:"startedAt,omitempty"`
}

// JobList defines model for JobList.
type JobList struct {
	Jobs  []Job `json:"jobs"`
	Total int   `json:"total"`
}

// SubmitJobRequest defines model for SubmitJobRequest.
type SubmitJobRequest struct {
	Id     *string `json:"id,omitempty"`
	Kind   *string `json:"kind,omitempty"`
	Rank   *int    `json:"rank,omitempty"`
	Forced *bool   `json:"forced,omitempty"`
	// Duration of sleep jobs, in Go duration syntax ("1.5s").
	Duration *string `json:"duration,omitempty"`
	// Message returned by fail jobs.
	Message *string `json:"message,omitempty"`
	// Wait for queue capacity instead of failing with 429.
	Wait *bool `json:"wait,omitempty"`
}

// QueueStats defines model for QueueStats.
type QueueStats struct {
	Running     bool  `json:"running"`
	Capacity    int64 `json:"capacity"`
	InFlight    int64 `json:"inFlight"`
	Queued      int   `json:"queued"`
	Registered  int   `json:"registered"`
	Executing   int   `json:"executing"`
	Permits     int   `json:"permits"`
	BusyPermits int   `json:"busyPermits"`
	// ShouldYield is set when the rank query parameter is given.
	ShouldYield *bool `json:"shouldYield,omitempty"`
}

// Execution defines model for Execution.
type Execution struct {
	Id         int64           `json:"id"`
	JobId      string          `json:"jobId"`
	Kind       string          `json:"kind,omitempty"`
	Rank       int             `json:"rank"`
	Forced     bool            `json:"forced"`
	Status     ExecutionStatus `json:"status"`
	Error      *string         `json:"error,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	StartedAt  *time.Time      `json:"startedAt,omitempty"`
	FinishedAt time.Time       `json:"finishedAt"`
}

// ExecutionList defines model for ExecutionList.
type ExecutionList struct {
	Executions []Execution `json:"executions"`
	Total      int         `json:"total"`
}

// Error defines model for Error.
type Error struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// GetStatsParams defines parameters for GetStats.
type GetStatsParams struct {
	Rank *int `form:"rank,omitempty" json:"rank,omitempty"`
}

// ListExecutionsParams defines parameters for ListExecutions.
type ListExecutionsParams struct {
	Status *[]string `form:"status,omitempty" json:"status,omitempty"`
	Id     *string   `form:"id,omitempty" json:"id,omitempty"`
	Limit  *int      `form:"limit,omitempty" json:"limit,omitempty"`
	Offset *int      `form:"offset,omitempty" json:"offset,omitempty"`
}
