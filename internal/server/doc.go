// Package server provides the HTTP server for the jobqueue service.
//
// The server uses the Gin web framework. It serves plain HTTP in both modes;
// the mode only switches Gin between debug and release.
//
// # Architecture Overview
//
//	┌───────────────────────────────────────────────────────────────┐
//	│                         HTTP Server                           │
//	│                     :HTTPPort (default 8000)                  │
//	├───────────────────────────────────────────────────────────────┤
//	│                       Middleware Stack                        │
//	│  ┌─────────────────────────────────────────────────────────┐  │
//	│  │  ginzap.Ginzap (request logging, "http" logger)         │  │
//	│  │  ginzap.RecoveryWithZap (panic recovery, stack traces)  │  │
//	│  └─────────────────────────────────────────────────────────┘  │
//	├───────────────────────────────────────────────────────────────┤
//	│  /health                       liveness probe                 │
//	├───────────────────────────────────────────────────────────────┤
//	│                       Router (/api/v1)                        │
//	│  ┌─────────────────────────────────────────────────────────┐  │
//	│  │  Handlers (registered via callback)                     │  │
//	│  └─────────────────────────────────────────────────────────┘  │
//	├───────────────────────────────────────────────────────────────┤
//	│  NoRoute: JSON 404 under /api, empty 404 elsewhere            │
//	└───────────────────────────────────────────────────────────────┘
//
// # Modes
//
// "dev" puts Gin in debug mode, which prints every registered route at
// startup. "prod" switches to release mode. Any other value is rejected by
// NewServer.
//
// # Routes
//
//	GET  /health                      {"status":"ok"}
//	GET  /api/v1/jobs                 in-flight jobs
//	POST /api/v1/jobs                 submit a job
//	POST /api/v1/jobs/:id/cancel      cancel a queued job
//	POST /api/v1/jobs/:id/pause       put a queued job back once
//	GET  /api/v1/stats[?rank=N]       queue counters, shouldYield for rank N
//	GET  /api/v1/executions           execution history, paginated
//
// The /api/v1 routes are added by the callback given to NewServer, normally
// v1.RegisterHandlers.
//
// Start blocks and returns nil after Stop; request contexts derive from the
// context given to Start, so canceling it aborts long requests such as a
// submission waiting for capacity.
package server
