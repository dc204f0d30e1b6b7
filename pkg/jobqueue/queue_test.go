package jobqueue_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/jobqueue/pkg/jobqueue"
)

var _ = Describe("PriorityQueue", func() {
	var pq *jobqueue.PriorityQueue

	BeforeEach(func() {
		pq = jobqueue.NewPriorityQueue()
	})

	ranksOf := func(jobs []*jobqueue.Job) []int {
		ranks := make([]int, 0, len(jobs))
		for _, j := range jobs {
			ranks = append(ranks, j.Rank())
		}
		return ranks
	}

	It("should dequeue the highest rank first", func() {
		for _, r := range []int{1, 10, 5, jobqueue.MinRank, jobqueue.MaxRank} {
			Expect(pq.Offer(jobqueue.NewJob("job", r, jobqueue.TaskFunc(noop)))).To(BeTrue())
		}

		Expect(ranksOf(pq.DrainTo(nil))).To(Equal([]int{jobqueue.MaxRank, 10, 5, 1, jobqueue.MinRank}))
		Expect(pq.Len()).To(BeZero())
	})

	It("should keep insertion order between equal ranks", func() {
		first := jobqueue.NewJob("first", 3, jobqueue.TaskFunc(noop))
		second := jobqueue.NewJob("second", 3, jobqueue.TaskFunc(noop))
		third := jobqueue.NewJob("third", 3, jobqueue.TaskFunc(noop))
		pq.Offer(first)
		pq.Offer(second)
		pq.Offer(third)

		Expect(pq.DrainTo(nil)).To(Equal([]*jobqueue.Job{first, second, third}))
	})

	It("should refuse a nil job", func() {
		Expect(pq.Offer(nil)).To(BeFalse())
		Expect(pq.Len()).To(BeZero())
	})

	It("should peek without removing", func() {
		_, ok := pq.Peek()
		Expect(ok).To(BeFalse())

		pq.Offer(jobqueue.NewJob("low", 1, jobqueue.TaskFunc(noop)))
		pq.Offer(jobqueue.NewJob("high", 9, jobqueue.TaskFunc(noop)))

		head, ok := pq.Peek()
		Expect(ok).To(BeTrue())
		Expect(head.ID()).To(Equal("high"))
		Expect(pq.Len()).To(Equal(2))
		Expect(pq.Snapshot()).To(HaveLen(2))
	})

	It("should poll without waiting", func() {
		_, ok := pq.Poll()
		Expect(ok).To(BeFalse())

		pq.Offer(jobqueue.NewJob("a", 1, jobqueue.TaskFunc(noop)))
		job, ok := pq.Poll()
		Expect(ok).To(BeTrue())
		Expect(job.ID()).To(Equal("a"))
	})

	It("should time out in PollTimeout when empty", func() {
		start := time.Now()
		_, ok := pq.PollTimeout(50 * time.Millisecond)
		Expect(ok).To(BeFalse())
		Expect(time.Since(start)).To(BeNumerically(">=", 50*time.Millisecond))
	})

	It("should wake a blocked Take when a job is offered", func() {
		got := make(chan *jobqueue.Job, 1)
		go func() {
			defer GinkgoRecover()
			job, err := pq.Take(context.Background())
			Expect(err).NotTo(HaveOccurred())
			got <- job
		}()

		// Given Take is waiting on an empty queue
		Consistently(got, 50*time.Millisecond).ShouldNot(Receive())

		// When a job is offered
		job := jobqueue.NewJob("late", 1, jobqueue.TaskFunc(noop))
		pq.Offer(job)

		// Then Take returns it
		Eventually(got, time.Second).Should(Receive(Equal(job)))
	})

	It("should return the context error from Take", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := pq.Take(ctx)
		Expect(err).To(MatchError(context.Canceled))
	})
})

var _ = Describe("Registry", func() {
	var r *jobqueue.Registry

	BeforeEach(func() {
		r = jobqueue.NewRegistry()
	})

	It("should register a job only once per identifier", func() {
		first := jobqueue.NewJob("sync", 1, jobqueue.TaskFunc(noop))
		second := jobqueue.NewJob("sync", 2, jobqueue.TaskFunc(noop))

		got, added := r.PutIfAbsent(first)
		Expect(added).To(BeTrue())
		Expect(got).To(Equal(first))

		got, added = r.PutIfAbsent(second)
		Expect(added).To(BeFalse())
		Expect(got).To(Equal(first))
		Expect(r.Len()).To(Equal(1))
	})

	It("should only remove the registered job", func() {
		first := jobqueue.NewJob("sync", 1, jobqueue.TaskFunc(noop))
		other := jobqueue.NewJob("sync", 1, jobqueue.TaskFunc(noop))
		r.PutIfAbsent(first)

		Expect(r.Remove(other)).To(BeFalse())
		Expect(r.Len()).To(Equal(1))

		Expect(r.Remove(first)).To(BeTrue())
		Expect(r.Len()).To(BeZero())
		_, ok := r.Get("sync")
		Expect(ok).To(BeFalse())
	})

	It("should swap only the registered job", func() {
		first := jobqueue.NewJob("sync", 1, jobqueue.TaskFunc(noop))
		second := jobqueue.NewJob("sync", 2, jobqueue.TaskFunc(noop))
		third := jobqueue.NewJob("sync", 3, jobqueue.TaskFunc(noop))
		r.PutIfAbsent(first)

		Expect(r.Swap(first, second)).To(BeTrue())
		Expect(r.Swap(first, third)).To(BeFalse())
		Expect(r.Len()).To(Equal(1))

		got, ok := r.Get("sync")
		Expect(ok).To(BeTrue())
		Expect(got).To(BeIdenticalTo(second))

		// the replaced job finishing leaves its successor registered
		Expect(r.Remove(first)).To(BeFalse())
		Expect(r.Len()).To(Equal(1))
	})

	It("should look identifiers up case-insensitively", func() {
		job := jobqueue.NewJob("Refresh-Cache", 1, jobqueue.TaskFunc(noop))
		r.PutIfAbsent(job)

		_, ok := r.Get("refresh-cache")
		Expect(ok).To(BeFalse())

		found, ok := r.Lookup("refresh-cache")
		Expect(ok).To(BeTrue())
		Expect(found).To(Equal(job))
		Expect(r.Jobs()).To(ConsistOf(job))
	})
})
