package models

import (
	"fmt"
	"time"
)

type ExecutionStatus string

const (
	ExecutionStatusCompleted   ExecutionStatus = "completed"
	ExecutionStatusFailed      ExecutionStatus = "failed"
	ExecutionStatusCanceled    ExecutionStatus = "canceled"
	ExecutionStatusInterrupted ExecutionStatus = "interrupted"
)

func ParseExecutionStatus(s string) (ExecutionStatus, error) {
	switch s {
	case "completed":
		return ExecutionStatusCompleted, nil
	case "failed":
		return ExecutionStatusFailed, nil
	case "canceled":
		return ExecutionStatusCanceled, nil
	case "interrupted":
		return ExecutionStatusInterrupted, nil
	default:
		return "", fmt.Errorf("invalid execution status: %s", s)
	}
}

// Execution records how a finished job ended.
type Execution struct {
	ID         int64
	JobID      string
	Kind       string
	Rank       int
	Forced     bool
	Status     ExecutionStatus
	Error      string
	CreatedAt  time.Time
	StartedAt  *time.Time
	FinishedAt time.Time
}
