package services

import (
	"context"
	"errors"
	"time"

	"github.com/kubev2v/jobqueue/pkg/jobqueue"
)

const (
	TaskKindSleep = "sleep"
	TaskKindNoop  = "noop"
	TaskKindFail  = "fail"
)

// kinded is implemented by the catalog tasks so the history can tell them apart.
type kinded interface {
	Kind() string
}

// sleepTask waits for its duration or until its context is canceled.
type sleepTask struct {
	duration time.Duration
}

func (t *sleepTask) Kind() string { return TaskKindSleep }

func (t *sleepTask) Run(ctx context.Context) error {
	timer := time.NewTimer(t.duration)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ReplaceWith keeps the longest of the two requested durations.
func (t *sleepTask) ReplaceWith(newer jobqueue.Task) jobqueue.Task {
	n, ok := newer.(*sleepTask)
	if !ok {
		return newer
	}
	return &sleepTask{duration: max(t.duration, n.duration)}
}

type noopTask struct{}

func (noopTask) Kind() string { return TaskKindNoop }

func (noopTask) Run(ctx context.Context) error { return nil }

// failTask always fails with its message.
type failTask struct {
	message string
}

func (t *failTask) Kind() string { return TaskKindFail }

func (t *failTask) Run(ctx context.Context) error {
	return errors.New(t.message)
}
