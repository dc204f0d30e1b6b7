package services_test

import (
	"context"
	"database/sql"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/jobqueue/internal/models"
	"github.com/kubev2v/jobqueue/internal/services"
	"github.com/kubev2v/jobqueue/internal/store"
	"github.com/kubev2v/jobqueue/internal/store/migrations"
	"github.com/kubev2v/jobqueue/pkg/jobqueue"
	"github.com/kubev2v/jobqueue/pkg/scheduler"
)

var _ = Describe("HistoryRecorder", func() {
	var (
		ctx      context.Context
		db       *sql.DB
		st       *store.Store
		recorder *services.HistoryRecorder
		pool     *scheduler.Scheduler
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())
		Expect(migrations.Run(ctx, db)).To(Succeed())
		st = store.NewStore(db)

		recorder = services.NewHistoryRecorder(st, 16)
		pool = scheduler.NewScheduler(1)
	})

	AfterEach(func() {
		pool.Close()
		recorder.Close()
		db.Close()
	})

	listStatuses := func() []models.ExecutionStatus {
		executions, err := st.Execution().List(ctx)
		Expect(err).NotTo(HaveOccurred())
		statuses := make([]models.ExecutionStatus, 0, len(executions))
		for _, e := range executions {
			statuses = append(statuses, e.Status)
		}
		return statuses
	}

	// Given jobs that end in every possible way
	// When the queue finishes them
	// Then one execution per job is stored with the matching status
	It("should store one execution per finished job", func() {
		q := jobqueue.New(pool, jobqueue.WithFinishListener(recorder.Record))

		completed := jobqueue.NewJob("completed", 4, jobqueue.TaskFunc(func(ctx context.Context) error { return nil }))
		failed := jobqueue.NewJob("failed", 3, jobqueue.TaskFunc(func(ctx context.Context) error { return errors.New("boom") }))
		canceled := jobqueue.NewJob("canceled", 2, jobqueue.TaskFunc(func(ctx context.Context) error { return nil }))
		for _, j := range []*jobqueue.Job{completed, failed, canceled} {
			Expect(q.Submit(j)).To(BeTrue())
		}
		canceled.Cancel()

		q.Start()
		for _, j := range []*jobqueue.Job{completed, failed, canceled} {
			Eventually(j.Done()).Should(BeClosed())
		}
		q.Stop()

		// flush
		recorder.Close()

		Expect(listStatuses()).To(ConsistOf(
			models.ExecutionStatusCompleted,
			models.ExecutionStatusFailed,
			models.ExecutionStatusCanceled,
		))
		Expect(recorder.Dropped()).To(BeZero())
	})

	It("should record jobs left behind at shutdown as interrupted", func() {
		q := jobqueue.New(pool, jobqueue.WithFinishListener(recorder.Record))
		Expect(q.Submit(jobqueue.NewJob("never", 1, jobqueue.TaskFunc(func(ctx context.Context) error { return nil })))).To(BeTrue())

		q.Stop()
		recorder.Close()

		Expect(listStatuses()).To(Equal([]models.ExecutionStatus{models.ExecutionStatusInterrupted}))
	})

	It("should ignore records after Close", func() {
		recorder.Close()
		job := jobqueue.NewJob("late", 1, jobqueue.TaskFunc(func(ctx context.Context) error { return nil }))

		Expect(func() { recorder.Record(job) }).NotTo(Panic())
		Expect(listStatuses()).To(BeEmpty())
	})

	It("should build an execution from a job that never ran", func() {
		job := jobqueue.NewJob("pending", 7, jobqueue.TaskFunc(func(ctx context.Context) error { return nil }), jobqueue.WithForced())

		e := services.NewExecution(job)
		Expect(e.JobID).To(Equal("pending"))
		Expect(e.Rank).To(Equal(7))
		Expect(e.Forced).To(BeTrue())
		Expect(e.StartedAt).To(BeNil())
		Expect(e.FinishedAt).NotTo(BeZero())
		Expect(e.Status).To(Equal(models.ExecutionStatusCompleted))
	})
})
