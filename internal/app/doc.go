// Package app wires the process together: DuckDB store and migrations,
// execution history recorder, scheduler pool, job queue, services, handlers
// and HTTP server.
//
// Shutdown order is fixed:
//
//	HTTP server Stop → queue Stop → pool Close → history recorder Close → store Close
//
// so that no request can admit a job into a stopped queue, and every job
// finished during shutdown still reaches the history before the store is
// closed.
package app
