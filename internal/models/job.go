package models

import "time"

type JobState string

const (
	JobStateQueued   JobState = "queued"
	JobStatePaused   JobState = "paused"
	JobStateCanceled JobState = "canceled"
	JobStateRunning  JobState = "running"
)

// JobDescriptor is a point-in-time view of an in-flight job.
type JobDescriptor struct {
	ID        string
	Rank      int
	Forced    bool
	State     JobState
	CreatedAt time.Time
	StartedAt *time.Time
}

// QueueStats holds job queue counters.
type QueueStats struct {
	Running     bool
	Capacity    int64
	InFlight    int64
	Queued      int
	Registered  int
	Executing   int
	Permits     int
	BusyPermits int
}
