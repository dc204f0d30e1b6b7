// Package store implements the data access layer for the jobqueue service.
//
// The store keeps the execution history of finished jobs in DuckDB. Queued
// jobs are never persisted; the history only records how jobs ended.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                         Store (facade)                          │
//	├─────────────────────────────────────────────────────────────────┤
//	│                        ExecutionStore                           │
//	│                              ▼                                  │
//	│                   QueryInterceptor (debug log)                  │
//	│                              ▼                                  │
//	│                    executions (DuckDB table)                    │
//	└─────────────────────────────────────────────────────────────────┘
//
// # Tables
//
// Tables created by migrations (internal/store/migrations/sql/):
//
//	┌────────────────────┬─────────────────────────────────────────────┐
//	│  Table             │  Purpose                                    │
//	├────────────────────┼─────────────────────────────────────────────┤
//	│  executions        │  One row per finished job                   │
//	│  schema_migrations │  Migration version tracking                 │
//	└────────────────────┴─────────────────────────────────────────────┘
//
// # Initialization Flow
//
//	db, err := store.NewDB(path)      // "" or ":memory:" for in-memory
//	err = migrations.Run(ctx, db)     // creates executions
//	s := store.NewStore(db)
//
// # ExecutionStore
//
// Schema:
//
//	executions (
//	    id BIGINT PRIMARY KEY DEFAULT nextval('executions_id_seq'),
//	    job_id VARCHAR NOT NULL,
//	    kind VARCHAR,
//	    job_rank INTEGER NOT NULL,
//	    forced BOOLEAN NOT NULL,
//	    status VARCHAR NOT NULL,     -- completed, failed, canceled, interrupted
//	    error VARCHAR,
//	    created_at TIMESTAMP NOT NULL,
//	    started_at TIMESTAMP,        -- NULL when the job never ran
//	    finished_at TIMESTAMP NOT NULL
//	)
//
// Methods:
//   - Save(ctx, *models.Execution) → error (sets ID via RETURNING)
//   - List(ctx, ...ListOption) → []models.Execution, newest first
//   - Count(ctx, ...ListOption) → int, ignoring limit and offset
//
// List Options:
//
// List and Count use the functional options pattern. Each ListOption is a
// function that modifies the squirrel.SelectBuilder:
//
//	executions, err := s.Execution().List(ctx,
//	    store.ByStatus(models.ExecutionStatusFailed),
//	    store.ByJobID("reindex-users"),
//	    store.WithLimit(50),
//	    store.WithOffset(100),
//	)
//
// # QueryInterceptor
//
// Stores talk to the database through a QueryInterceptor that logs every
// statement, its arguments and its duration at debug level under the
// "store" logger.
package store
