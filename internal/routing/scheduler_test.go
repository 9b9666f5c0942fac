package routing_test

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/frahmantamala/deptdesk/internal/routing"
	"github.com/frahmantamala/deptdesk/pkg/clock"
	"github.com/frahmantamala/deptdesk/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type countingRouter struct {
	calls atomic.Int32
	fail  bool
}

func (r *countingRouter) AutoRoute(ctx context.Context) (*routing.AutoRouteReport, error) {
	r.calls.Add(1)
	if r.fail {
		return nil, errors.New("database unavailable")
	}
	return &routing.AutoRouteReport{RoutedCount: 1}, nil
}

var _ = Describe("Scheduler", func() {
	var (
		clk    *clock.FakeClock
		router *countingRouter
		cancel context.CancelFunc
		done   chan error
	)

	start := func(interval time.Duration) {
		var ctx context.Context
		ctx, cancel = context.WithCancel(context.Background())
		done = make(chan error, 1)
		scheduler := routing.NewScheduler(router, clk, interval, logger.Discard())
		go func() { done <- scheduler.Run(ctx) }()
		clk.WaitForTickers(1)
	}

	BeforeEach(func() {
		clk = clock.Fake(routedAt)
		router = &countingRouter{}
	})

	AfterEach(func() {
		if cancel != nil {
			cancel()
			Eventually(done).Should(Receive(BeNil()))
		}
	})

	It("should auto-route on every tick", func() {
		start(time.Minute)
		Consistently(router.calls.Load, "50ms").Should(BeZero())

		clk.Advance(time.Minute)
		Eventually(router.calls.Load).Should(BeEquivalentTo(1))

		clk.Advance(time.Minute)
		Eventually(router.calls.Load).Should(BeEquivalentTo(2))
	})

	It("should keep running after a failed pass", func() {
		router.fail = true
		start(time.Minute)

		clk.Advance(time.Minute)
		Eventually(router.calls.Load).Should(BeEquivalentTo(1))
		clk.Advance(time.Minute)
		Eventually(router.calls.Load).Should(BeEquivalentTo(2))
	})

	It("should stop its ticker when cancelled", func() {
		start(time.Minute)
		cancel()
		Eventually(done).Should(Receive(BeNil()))
		cancel = nil
		Eventually(clk.ActiveTickers).Should(BeZero())
	})
})
