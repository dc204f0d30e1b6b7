package store

import "database/sql"

// Store provides access to all storage repositories.
type Store struct {
	db        *sql.DB
	execution *ExecutionStore
}

func NewStore(db *sql.DB) *Store {
	qi := newLoggingInterceptor(db)
	return &Store{
		db:        db,
		execution: NewExecutionStore(qi),
	}
}

func (s *Store) Execution() *ExecutionStore {
	return s.execution
}

func (s *Store) Close() error {
	return s.db.Close()
}
