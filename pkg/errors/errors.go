package errors

import (
	"errors"
	"fmt"
)

// Kind tags every error produced by the job queue and its pool.
type Kind int

const (
	KindUnknown Kind = iota
	KindCapacityExceeded
	KindDuplicateLowerRank
	KindCanceled
	KindInterrupted
	KindExecutionFailed
	KindQueueClosed
	KindPoolSaturated
	KindResourceNotFound
	KindInvalidArgument
)

func (k Kind) String() string {
	switch k {
	case KindCapacityExceeded:
		return "capacity_exceeded"
	case KindDuplicateLowerRank:
		return "duplicate_lower_rank"
	case KindCanceled:
		return "canceled"
	case KindInterrupted:
		return "interrupted"
	case KindExecutionFailed:
		return "execution_failed"
	case KindQueueClosed:
		return "queue_closed"
	case KindPoolSaturated:
		return "pool_saturated"
	case KindResourceNotFound:
		return "resource_not_found"
	case KindInvalidArgument:
		return "invalid_argument"
	default:
		return "unknown"
	}
}

type kinded interface {
	Kind() Kind
}

// KindOf returns the kind of the first tagged error in err's chain.
func KindOf(err error) Kind {
	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindUnknown
}

type CapacityExceededError struct {
	id       string
	capacity int64
}

func NewCapacityExceededError(id string, capacity int64) *CapacityExceededError {
	return &CapacityExceededError{id: id, capacity: capacity}
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("job %q rejected: queue is at capacity (%d)", e.id, e.capacity)
}

func (e *CapacityExceededError) Kind() Kind { return KindCapacityExceeded }

func IsCapacityExceededError(err error) bool {
	var e *CapacityExceededError
	return errors.As(err, &e)
}

type DuplicateLowerRankError struct {
	id           string
	rank         int
	existingRank int
}

func NewDuplicateLowerRankError(id string, rank, existingRank int) *DuplicateLowerRankError {
	return &DuplicateLowerRankError{id: id, rank: rank, existingRank: existingRank}
}

func (e *DuplicateLowerRankError) Error() string {
	return fmt.Sprintf("job %q with rank %d denied: already queued with rank %d", e.id, e.rank, e.existingRank)
}

func (e *DuplicateLowerRankError) Kind() Kind { return KindDuplicateLowerRank }

func IsDuplicateLowerRankError(err error) bool {
	var e *DuplicateLowerRankError
	return errors.As(err, &e)
}

type CanceledError struct {
	id string
}

func NewCanceledError(id string) *CanceledError {
	return &CanceledError{id: id}
}

func (e *CanceledError) Error() string {
	return fmt.Sprintf("job %q canceled", e.id)
}

func (e *CanceledError) Kind() Kind { return KindCanceled }

func IsCanceledError(err error) bool {
	var e *CanceledError
	return errors.As(err, &e)
}

type InterruptedError struct {
	id  string
	err error
}

func NewInterruptedError(id string, err error) *InterruptedError {
	return &InterruptedError{id: id, err: err}
}

func (e *InterruptedError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("job %q interrupted", e.id)
	}
	return fmt.Sprintf("job %q interrupted: %v", e.id, e.err)
}

func (e *InterruptedError) Unwrap() error { return e.err }

func (e *InterruptedError) Kind() Kind { return KindInterrupted }

func IsInterruptedError(err error) bool {
	var e *InterruptedError
	return errors.As(err, &e)
}

type ExecutionFailedError struct {
	id  string
	err error
}

func NewExecutionFailedError(id string, err error) *ExecutionFailedError {
	return &ExecutionFailedError{id: id, err: err}
}

func (e *ExecutionFailedError) Error() string {
	return fmt.Sprintf("job %q failed: %v", e.id, e.err)
}

func (e *ExecutionFailedError) Unwrap() error { return e.err }

func (e *ExecutionFailedError) Kind() Kind { return KindExecutionFailed }

func IsExecutionFailedError(err error) bool {
	var e *ExecutionFailedError
	return errors.As(err, &e)
}

type QueueClosedError struct{}

func NewQueueClosedError() *QueueClosedError {
	return &QueueClosedError{}
}

func (e *QueueClosedError) Error() string { return "job queue is stopped" }

func (e *QueueClosedError) Kind() Kind { return KindQueueClosed }

func IsQueueClosedError(err error) bool {
	var e *QueueClosedError
	return errors.As(err, &e)
}

type PoolSaturatedError struct {
	size int
}

func NewPoolSaturatedError(size int) *PoolSaturatedError {
	return &PoolSaturatedError{size: size}
}

func (e *PoolSaturatedError) Error() string {
	return fmt.Sprintf("all %d workers are busy", e.size)
}

func (e *PoolSaturatedError) Kind() Kind { return KindPoolSaturated }

func IsPoolSaturatedError(err error) bool {
	var e *PoolSaturatedError
	return errors.As(err, &e)
}

type ResourceNotFoundError struct {
	resource string
	id       string
}

func NewResourceNotFoundError(resource, id string) *ResourceNotFoundError {
	return &ResourceNotFoundError{resource: resource, id: id}
}

func NewJobNotFoundError(id string) *ResourceNotFoundError {
	return NewResourceNotFoundError("job", id)
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.resource, e.id)
}

func (e *ResourceNotFoundError) Kind() Kind { return KindResourceNotFound }

func IsResourceNotFoundError(err error) bool {
	var e *ResourceNotFoundError
	return errors.As(err, &e)
}

type InvalidArgumentError struct {
	msg string
}

func NewInvalidArgumentError(format string, args ...any) *InvalidArgumentError {
	return &InvalidArgumentError{msg: fmt.Sprintf(format, args...)}
}

func (e *InvalidArgumentError) Error() string { return e.msg }

func (e *InvalidArgumentError) Kind() Kind { return KindInvalidArgument }

func IsInvalidArgumentError(err error) bool {
	var e *InvalidArgumentError
	return errors.As(err, &e)
}
