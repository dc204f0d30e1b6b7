package store

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// QueryInterceptor is the subset of *sql.DB the stores use.
type QueryInterceptor interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// loggingInterceptor logs every statement at debug level.
type loggingInterceptor struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

func newLoggingInterceptor(db *sql.DB) *loggingInterceptor {
	return &loggingInterceptor{db: db, log: zap.S().Named("store")}
}

func (i *loggingInterceptor) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	defer i.trace(time.Now(), query, args)
	return i.db.QueryRowContext(ctx, query, args...)
}

func (i *loggingInterceptor) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	defer i.trace(time.Now(), query, args)
	return i.db.QueryContext(ctx, query, args...)
}

func (i *loggingInterceptor) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	defer i.trace(time.Now(), query, args)
	return i.db.ExecContext(ctx, query, args...)
}

func (i *loggingInterceptor) trace(start time.Time, query string, args []any) {
	i.log.Debugw("query", "sql", query, "args", args, "duration", time.Since(start))
}
