// Package scheduler implements the worker pool the job queue hands its
// asynchronous executions to.
//
// A Scheduler runs at most Size work functions at once. AddWork and Submit
// return a Future carrying the single Result of the work.
//
// # Event Loop
//
//	Submit / AddWork ──► submit chan ──┐
//	                                   ▼
//	                       ┌───────────────────────┐
//	   worker released ───►│  loop()               │──► go work(request)
//	                       │  pending fifo         │    (one goroutine per
//	   Close ─────────────►│  free worker count    │     running request)
//	                       └───────────────────────┘
//
// loop is the only goroutine that reads or writes the pending list and the
// free count. After every event it calls assign, which starts pending
// requests until either runs out. Idle reports the free count as of the last
// assign.
//
// # Overflow Policies
//
// Submit takes an OverflowPolicy that applies when no worker is idle at the
// moment loop receives the request:
//
//	┌─────────────┬────────────────────────────────────────────────────┐
//	│ Policy      │ Behavior when saturated                            │
//	├─────────────┼────────────────────────────────────────────────────┤
//	│ Queue       │ Work waits in the queue (AddWork uses this)        │
//	│ CallerRuns  │ Work runs on the submitting goroutine before       │
//	│             │ Submit returns; the future already holds a result  │
//	│ Abort       │ Submit returns a PoolSaturatedError                │
//	└─────────────┴────────────────────────────────────────────────────┘
//
// # Futures
//
// Every accepted submission returns a Future whose channel receives exactly
// one Result. Future.Stop cancels the context passed to the work function.
// Workers recover from panics and report them as the Result's error.
//
// # Cancellation
//
// Each request runs with a context derived from the pool context.
// Future.Stop cancels one of them; Close cancels the pool context and with it
// every request.
//
// # Graceful Shutdown
//
// Close answers every still pending request with context.Canceled and waits
// for the running ones before loop returns.
// Close is idempotent. Work submitted after Close receives context.Canceled.
//
// # Usage Example
//
//	sched := scheduler.NewScheduler(4)
//	defer sched.Close()
//
//	future, err := sched.Submit(func(ctx context.Context) (any, error) {
//	    return "done", nil
//	}, scheduler.CallerRuns)
//	if err != nil {
//	    return err
//	}
//	result := <-future.C()
package scheduler
