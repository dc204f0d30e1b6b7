// Package services implements the business logic layer for the jobqueue service.
//
// Services sit between the HTTP handlers and the job queue and store. They
// turn API requests into jobs and keep the execution history.
//
// # Service Dependency Graph
//
//	Handlers (HTTP endpoints)
//	    │
//	    ▼
//	Services Layer
//	    ├── JobService ───────► JobQueue, Store
//	    └── HistoryRecorder ──► Store   (finish listener of the JobQueue)
//
// # JobService
//
// JobService builds jobs from a small catalog of task kinds and admits them:
//
//	┌─────────┬───────────────────────────────────────────────────────────┐
//	│ Kind    │ Behaviour                                                 │
//	├─────────┼───────────────────────────────────────────────────────────┤
//	│ noop    │ Returns immediately (also used when no kind is given)     │
//	│ sleep   │ Waits for Duration or until canceled; a higher ranked     │
//	│         │ duplicate keeps the longest of both durations             │
//	│ fail    │ Fails with Message                                        │
//	└─────────┴───────────────────────────────────────────────────────────┘
//
// Key behaviors:
//   - Jobs that are not forced need an ID; forced jobs without one get a uuid
//   - Admission errors (capacity, duplicate, closed queue) are returned as is
//   - WaitForCapacity blocks on the queue's AddJob until admitted or ctx is done
//   - Cancel and Pause look the job up case-insensitively and return
//     ResourceNotFoundError when it is not in flight
//
// Usage:
//
//	jobService := services.NewJobService(queue, store)
//	job, err := jobService.Submit(ctx, services.SubmitRequest{
//	    ID:       "reindex",
//	    Kind:     services.TaskKindSleep,
//	    Rank:     10,
//	    Duration: 2 * time.Second,
//	})
//	descriptor, err := jobService.Cancel("reindex")
//	result, err := jobService.Executions(ctx, services.ExecutionListParams{Limit: 50})
//
// # HistoryRecorder
//
// HistoryRecorder.Record is registered with jobqueue.WithFinishListener. It
// runs on the dispatcher, so it only converts the job into an execution and
// hands it to a buffered channel. A background goroutine saves the records.
//
// Status mapping:
//
//	┌──────────────────────────────────────────┬─────────────┐
//	│ Job outcome                              │ Status      │
//	├──────────────────────────────────────────┼─────────────┤
//	│ no failure                               │ completed   │
//	│ canceled before it started               │ canceled    │
//	│ InterruptedError (shutdown, pool closed) │ interrupted │
//	│ any other failure                        │ failed      │
//	└──────────────────────────────────────────┴─────────────┘
//
// Close flushes the buffer; it must be called after the queue is stopped so
// interrupted jobs are recorded too.
//
// # Thread Safety
//
// JobService is stateless apart from its references. HistoryRecorder guards
// its closed flag with a sync.RWMutex so Record never sends on a closed
// channel.
package services
