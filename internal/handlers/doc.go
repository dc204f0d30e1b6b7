// Package handlers implements the HTTP API layer for the jobqueue service.
//
// Handlers delegate to the services layer and focus on request validation,
// response formatting and HTTP semantics.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                     HTTP Request (Gin)                          │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│          v1.ServerInterfaceWrapper (parameter binding)          │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Handler (this package)                     │
//	│  - Request validation                                           │
//	│  - Error mapping to HTTP status codes                           │
//	│  - Model-to-API conversion                                      │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Services Layer                             │
//	│                        JobService                               │
//	└─────────────────────────────────────────────────────────────────┘
//
// The Handler implements v1.ServerInterface and is registered with:
//
//	v1.RegisterHandlers(router, handlers.New(jobService))
//
// # API Endpoints
//
//	┌────────┬────────────────────────┬───────────────────────────────────────┐
//	│ Method │ Endpoint               │ Description                           │
//	├────────┼────────────────────────┼───────────────────────────────────────┤
//	│ GET    │ /jobs                  │ List jobs in flight                   │
//	│ POST   │ /jobs                  │ Submit a job                          │
//	│ POST   │ /jobs/{id}/cancel      │ Skip a job when it is dispatched      │
//	│ POST   │ /jobs/{id}/pause       │ Send a job back to the queue once     │
//	│ GET    │ /stats                 │ Queue counters, ?rank= adds yield hint│
//	│ GET    │ /executions            │ Execution history, filtered and paged │
//	└────────┴────────────────────────┴───────────────────────────────────────┘
//
// POST /jobs - Request:
//
//	{
//	    "id": "reindex",        // required unless forced
//	    "kind": "sleep",        // noop (default), sleep, fail
//	    "rank": 10,
//	    "forced": false,
//	    "duration": "2s",       // sleep only
//	    "message": "disk full", // fail only
//	    "wait": false           // wait for capacity instead of 429
//	}
//
// Responses:
//   - 202 Accepted: the job was queued
//   - 200 OK: an already queued job with the same id absorbed the request;
//     the body describes that job
//
// GET /executions - Query parameters:
//   - status: completed|failed|canceled|interrupted (repeatable)
//   - id: job identifier, case-insensitive
//   - limit: page size, default 20, max 100
//   - offset: rows to skip
//
// # Error Mapping
//
//	┌────────────────────┬─────────────────────────────┐
//	│ Error kind         │ HTTP status                 │
//	├────────────────────┼─────────────────────────────┤
//	│ invalid_argument   │ 400 Bad Request             │
//	│ resource_not_found │ 404 Not Found               │
//	│ duplicate_lower_   │ 409 Conflict                │
//	│ rank               │                             │
//	│ capacity_exceeded  │ 429 Too Many Requests       │
//	│ queue_closed       │ 503 Service Unavailable     │
//	│ anything else      │ 500 Internal Server Error   │
//	└────────────────────┴─────────────────────────────┘
//
// Error body:
//
//	{ "error": "job \"sync\" with rank 5 denied: already queued with rank 5", "kind": "duplicate_lower_rank" }
//
// Internal errors are logged and answered with a generic message.
package handlers
