package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/kubev2v/jobqueue/api/v1"
	"github.com/kubev2v/jobqueue/internal/config"
	"github.com/kubev2v/jobqueue/internal/handlers"
	"github.com/kubev2v/jobqueue/internal/server"
	"github.com/kubev2v/jobqueue/internal/services"
	"github.com/kubev2v/jobqueue/internal/store"
	"github.com/kubev2v/jobqueue/internal/store/migrations"
	"github.com/kubev2v/jobqueue/pkg/jobqueue"
	"github.com/kubev2v/jobqueue/pkg/scheduler"
)

// App owns every long lived component of the process.
type App struct {
	store    *store.Store
	recorder *services.HistoryRecorder
	pool     *scheduler.Scheduler
	queue    *jobqueue.JobQueue
	jobSrv   *services.JobService
	server   *server.Server

	closeOnce sync.Once
}

// New opens and migrates the store, then builds the worker pool, the queue
// and the HTTP server. The dispatcher is running when New returns; the HTTP
// server is not.
func New(ctx context.Context, cfg *config.Configuration) (*App, error) {
	db, err := store.NewDB(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	if err := migrations.Run(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate store: %w", err)
	}

	a := &App{store: store.NewStore(db)}
	a.recorder = services.NewHistoryRecorder(a.store, services.DefaultHistoryBuffer)

	permits := cfg.Queue.Permits
	if permits == 0 {
		permits = 2 * runtime.GOMAXPROCS(0)
	}
	a.pool = scheduler.NewScheduler(permits)

	a.queue = jobqueue.New(a.pool,
		jobqueue.WithCapacity(cfg.Queue.Capacity),
		jobqueue.WithPermits(permits),
		jobqueue.WithDispatcherMayRunTasks(cfg.Queue.DispatcherRunsTasks),
		jobqueue.WithStopTimeout(cfg.Queue.StopTimeout),
		jobqueue.WithFinishListener(a.recorder.Record),
	)
	a.queue.Start()

	a.jobSrv = services.NewJobService(a.queue, a.store)
	a.server, err = server.NewServer(cfg, func(router *gin.RouterGroup) {
		v1.RegisterHandlers(router, handlers.New(a.jobSrv))
	})
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	return a, nil
}

func (a *App) Handler() http.Handler { return a.server.Handler() }

func (a *App) Queue() *jobqueue.JobQueue { return a.queue }

func (a *App) Jobs() *services.JobService { return a.jobSrv }

// Run serves HTTP until ctx is done or the server fails, then shuts the
// whole application down, giving in-flight requests up to shutdownTimeout.
func (a *App) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Start(ctx)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		zap.S().Info("shutdown signal received")
	case serveErr = <-errCh:
		errCh <- nil
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Stop(sctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		zap.S().Errorw("failed to stop http server", "error", err)
	}
	if err := <-errCh; err != nil {
		zap.S().Errorw("http server stopped with error", "error", err)
	}

	a.Close(sctx)

	if serveErr != nil {
		return fmt.Errorf("http server failed: %w", serveErr)
	}
	return nil
}

// Close stops the queue, then the pool, flushes the execution history and
// closes the store. It is safe to call more than once.
func (a *App) Close(_ context.Context) {
	a.closeOnce.Do(func() {
		a.queue.Stop()
		a.pool.Close()

		a.recorder.Close()
		if dropped := a.recorder.Dropped(); dropped > 0 {
			zap.S().Warnw("execution records dropped", "count", dropped)
		}

		if err := a.store.Close(); err != nil {
			zap.S().Errorw("failed to close store", "error", err)
		}
	})
}
