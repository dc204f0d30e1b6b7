package handlers_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/kubev2v/jobqueue/api/v1"
	"github.com/kubev2v/jobqueue/internal/handlers"
	"github.com/kubev2v/jobqueue/internal/services"
	"github.com/kubev2v/jobqueue/internal/store"
	"github.com/kubev2v/jobqueue/internal/store/migrations"
	"github.com/kubev2v/jobqueue/pkg/jobqueue"
	"github.com/kubev2v/jobqueue/pkg/scheduler"
)

var _ = Describe("Job handlers", func() {
	var (
		ctx      context.Context
		db       *sql.DB
		pool     *scheduler.Scheduler
		queue    *jobqueue.JobQueue
		recorder *services.HistoryRecorder
		router   *gin.Engine
	)

	setup := func(opts ...jobqueue.Option) {
		st := store.NewStore(db)
		recorder = services.NewHistoryRecorder(st, 0)
		queue = jobqueue.New(pool, append(opts, jobqueue.WithFinishListener(recorder.Record))...)

		router = gin.New()
		v1.RegisterHandlers(router.Group("/api/v1"), handlers.New(services.NewJobService(queue, st)))
	}

	do := func(method, path string, body any) *httptest.ResponseRecorder {
		var reader *bytes.Reader
		if body != nil {
			raw, ok := body.(string)
			if !ok {
				b, err := json.Marshal(body)
				Expect(err).NotTo(HaveOccurred())
				raw = string(b)
			}
			reader = bytes.NewReader([]byte(raw))
		} else {
			reader = bytes.NewReader(nil)
		}

		req := httptest.NewRequest(method, path, reader)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	decode := func(w *httptest.ResponseRecorder, v any) {
		Expect(json.Unmarshal(w.Body.Bytes(), v)).To(Succeed())
	}

	ptr := func(s string) *string { return &s }

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())
		Expect(migrations.Run(ctx, db)).To(Succeed())

		pool = scheduler.NewScheduler(2)
	})

	AfterEach(func() {
		queue.Stop()
		pool.Close()
		recorder.Close()
		db.Close()
	})

	Context("POST /jobs", func() {
		BeforeEach(func() { setup() })

		It("should accept a new job", func() {
			rank := 5
			w := do(http.MethodPost, "/api/v1/jobs", v1.SubmitJobRequest{Id: ptr("reindex"), Kind: ptr("noop"), Rank: &rank})

			Expect(w.Code).To(Equal(http.StatusAccepted))
			var job v1.Job
			decode(w, &job)
			Expect(job.Id).To(Equal("reindex"))
			Expect(job.Rank).To(Equal(5))
			Expect(job.State).To(Equal(v1.JobStateQueued))
		})

		It("should reject a malformed body", func() {
			w := do(http.MethodPost, "/api/v1/jobs", "{not json")
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should reject a job without id", func() {
			w := do(http.MethodPost, "/api/v1/jobs", v1.SubmitJobRequest{Kind: ptr("noop")})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			var apiErr v1.Error
			decode(w, &apiErr)
			Expect(apiErr.Kind).To(Equal("invalid_argument"))
		})

		It("should reject an invalid duration", func() {
			w := do(http.MethodPost, "/api/v1/jobs", v1.SubmitJobRequest{Id: ptr("nap"), Kind: ptr("sleep"), Duration: ptr("soon")})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should answer conflict for a lower ranked duplicate", func() {
			Expect(do(http.MethodPost, "/api/v1/jobs", v1.SubmitJobRequest{Id: ptr("dup")}).Code).To(Equal(http.StatusAccepted))

			w := do(http.MethodPost, "/api/v1/jobs", v1.SubmitJobRequest{Id: ptr("dup")})
			Expect(w.Code).To(Equal(http.StatusConflict))
		})

		It("should report the absorbing job for a higher ranked duplicate", func() {
			Expect(do(http.MethodPost, "/api/v1/jobs", v1.SubmitJobRequest{Id: ptr("dup")}).Code).To(Equal(http.StatusAccepted))

			rank := 10
			w := do(http.MethodPost, "/api/v1/jobs", v1.SubmitJobRequest{Id: ptr("dup"), Rank: &rank})
			Expect(w.Code).To(Equal(http.StatusOK))

			var job v1.Job
			decode(w, &job)
			Expect(job.Rank).To(BeZero())
		})

		It("should generate an id for forced jobs", func() {
			forced := true
			w := do(http.MethodPost, "/api/v1/jobs", v1.SubmitJobRequest{Forced: &forced})

			Expect(w.Code).To(Equal(http.StatusAccepted))
			var job v1.Job
			decode(w, &job)
			Expect(job.Id).NotTo(BeEmpty())
			Expect(job.Forced).To(BeTrue())
		})
	})

	Context("capacity", func() {
		BeforeEach(func() { setup(jobqueue.WithCapacity(1)) })

		It("should answer too many requests when the queue is full", func() {
			Expect(do(http.MethodPost, "/api/v1/jobs", v1.SubmitJobRequest{Id: ptr("a")}).Code).To(Equal(http.StatusAccepted))

			w := do(http.MethodPost, "/api/v1/jobs", v1.SubmitJobRequest{Id: ptr("b")})
			Expect(w.Code).To(Equal(http.StatusTooManyRequests))
		})
	})

	Context("GET /jobs", func() {
		BeforeEach(func() { setup() })

		It("should list jobs in flight", func() {
			do(http.MethodPost, "/api/v1/jobs", v1.SubmitJobRequest{Id: ptr("a")})
			do(http.MethodPost, "/api/v1/jobs", v1.SubmitJobRequest{Id: ptr("b")})

			w := do(http.MethodGet, "/api/v1/jobs", nil)
			Expect(w.Code).To(Equal(http.StatusOK))

			var list v1.JobList
			decode(w, &list)
			Expect(list.Total).To(Equal(2))
			Expect(list.Jobs).To(HaveLen(2))
		})
	})

	Context("cancel and pause", func() {
		BeforeEach(func() { setup() })

		It("should answer not found for an unknown job", func() {
			Expect(do(http.MethodPost, "/api/v1/jobs/missing/cancel", nil).Code).To(Equal(http.StatusNotFound))
			Expect(do(http.MethodPost, "/api/v1/jobs/missing/pause", nil).Code).To(Equal(http.StatusNotFound))
		})

		It("should cancel a queued job", func() {
			do(http.MethodPost, "/api/v1/jobs", v1.SubmitJobRequest{Id: ptr("a")})

			w := do(http.MethodPost, "/api/v1/jobs/a/cancel", nil)
			Expect(w.Code).To(Equal(http.StatusOK))

			var job v1.Job
			decode(w, &job)
			Expect(job.State).To(Equal(v1.JobStateCanceled))
		})

		It("should pause a queued job", func() {
			do(http.MethodPost, "/api/v1/jobs", v1.SubmitJobRequest{Id: ptr("a")})

			w := do(http.MethodPost, "/api/v1/jobs/A/pause", nil)
			Expect(w.Code).To(Equal(http.StatusOK))

			var job v1.Job
			decode(w, &job)
			Expect(job.State).To(Equal(v1.JobStatePaused))
		})
	})

	Context("GET /stats", func() {
		BeforeEach(func() { setup(jobqueue.WithPermits(3)) })

		It("should return the queue counters", func() {
			do(http.MethodPost, "/api/v1/jobs", v1.SubmitJobRequest{Id: ptr("a")})

			w := do(http.MethodGet, "/api/v1/stats", nil)
			Expect(w.Code).To(Equal(http.StatusOK))

			var stats v1.QueueStats
			decode(w, &stats)
			Expect(stats.Queued).To(Equal(1))
			Expect(stats.Permits).To(Equal(3))
			Expect(stats.ShouldYield).To(BeNil())
		})

		It("should tell whether a rank should yield", func() {
			w := do(http.MethodGet, "/api/v1/stats?rank=1", nil)
			Expect(w.Code).To(Equal(http.StatusOK))

			var stats v1.QueueStats
			decode(w, &stats)
			Expect(stats.ShouldYield).NotTo(BeNil())
			Expect(*stats.ShouldYield).To(BeFalse())
		})

		It("should reject a malformed rank", func() {
			Expect(do(http.MethodGet, "/api/v1/stats?rank=high", nil).Code).To(Equal(http.StatusBadRequest))
		})
	})

	Context("GET /executions", func() {
		BeforeEach(func() { setup() })

		It("should list finished jobs", func() {
			queue.Start()
			do(http.MethodPost, "/api/v1/jobs", v1.SubmitJobRequest{Id: ptr("ok")})
			do(http.MethodPost, "/api/v1/jobs", v1.SubmitJobRequest{Id: ptr("bad"), Kind: ptr("fail"), Message: ptr("nope")})

			Eventually(func() int {
				var list v1.ExecutionList
				decode(do(http.MethodGet, "/api/v1/executions", nil), &list)
				return list.Total
			}).Should(Equal(2))

			w := do(http.MethodGet, "/api/v1/executions?status=failed&limit=5", nil)
			Expect(w.Code).To(Equal(http.StatusOK))

			var list v1.ExecutionList
			decode(w, &list)
			Expect(list.Total).To(Equal(1))
			Expect(list.Executions).To(HaveLen(1))
			Expect(list.Executions[0].JobId).To(Equal("bad"))
			Expect(list.Executions[0].Error).NotTo(BeNil())
			Expect(*list.Executions[0].Error).To(ContainSubstring("nope"))
		})

		It("should reject an unknown status", func() {
			Expect(do(http.MethodGet, "/api/v1/executions?status=bogus", nil).Code).To(Equal(http.StatusBadRequest))
		})

		It("should reject a negative offset", func() {
			Expect(do(http.MethodGet, "/api/v1/executions?offset=-1", nil).Code).To(Equal(http.StatusBadRequest))
		})
	})
})
