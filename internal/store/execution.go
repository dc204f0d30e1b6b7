package store

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"github.com/kubev2v/jobqueue/internal/models"
)

// ExecutionStore persists the history of finished jobs.
type ExecutionStore struct {
	db QueryInterceptor
}

func NewExecutionStore(db QueryInterceptor) *ExecutionStore {
	return &ExecutionStore{db: db}
}

// Save inserts e and sets its ID.
func (s *ExecutionStore) Save(ctx context.Context, e *models.Execution) error {
	var startedAt any
	if e.StartedAt != nil {
		startedAt = *e.StartedAt
	}

	query, args, err := sq.Insert(executionsTable).
		Columns(executionColumns[1:]...).
		Values(
			e.JobID,
			e.Kind,
			e.Rank,
			e.Forced,
			string(e.Status),
			e.Error,
			e.CreatedAt,
			startedAt,
			e.FinishedAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return err
	}

	return s.db.QueryRowContext(ctx, query, args...).Scan(&e.ID)
}

func (s *ExecutionStore) List(ctx context.Context, opts ...ListOption) ([]models.Execution, error) {
	builder := sq.Select(executionColumns...).
		From(executionsTable).
		OrderBy("finished_at DESC", "id DESC")

	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	executions := []models.Execution{}
	for rows.Next() {
		var (
			e         models.Execution
			status    string
			errMsg    sql.NullString
			kind      sql.NullString
			startedAt sql.NullTime
		)
		err := rows.Scan(
			&e.ID,
			&e.JobID,
			&kind,
			&e.Rank,
			&e.Forced,
			&status,
			&errMsg,
			&e.CreatedAt,
			&startedAt,
			&e.FinishedAt,
		)
		if err != nil {
			return nil, err
		}
		e.Kind = kind.String
		e.Status = models.ExecutionStatus(status)
		e.Error = errMsg.String
		if startedAt.Valid {
			t := startedAt.Time
			e.StartedAt = &t
		}
		executions = append(executions, e)
	}

	return executions, rows.Err()
}

// Count ignores limit and offset options.
func (s *ExecutionStore) Count(ctx context.Context, opts ...ListOption) (int, error) {
	builder := sq.Select("COUNT(*)").From(executionsTable)

	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.RemoveLimit().RemoveOffset().ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

type ListOption func(sq.SelectBuilder) sq.SelectBuilder

func ByStatus(statuses ...models.ExecutionStatus) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(statuses) == 0 {
			return b
		}
		values := make([]string, 0, len(statuses))
		for _, s := range statuses {
			values = append(values, string(s))
		}
		return b.Where(sq.Eq{"status": values})
	}
}

// ByJobID matches job identifiers ignoring case.
func ByJobID(id string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if id == "" {
			return b
		}
		return b.Where(sq.Expr("lower(job_id) = lower(?)", id))
	}
}

func WithLimit(limit uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Limit(limit)
	}
}

func WithOffset(offset uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Offset(offset)
	}
}
