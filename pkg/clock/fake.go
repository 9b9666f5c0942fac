package clock

import (
	"sync"
	"time"
)

// FakeClock only moves when Advance is called.
type FakeClock struct {
	mu             sync.Mutex
	now            time.Time
	tickers        []*fakeTicker
	tickersChanged *sync.Cond
}

type fakeTicker struct {
	ch       chan time.Time
	interval time.Duration
	next     time.Time
	stopped  bool
}

func Fake(initial time.Time) *FakeClock {
	c := &FakeClock{now: initial}
	c.tickersChanged = sync.NewCond(&c.mu)
	return c
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) NewTicker(d time.Duration) *Ticker {
	if d <= 0 {
		panic("clock: non-positive interval for NewTicker")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	ft := &fakeTicker{
		ch:       make(chan time.Time, 1),
		interval: d,
		next:     c.now.Add(d),
	}
	c.tickers = append(c.tickers, ft)
	c.tickersChanged.Broadcast()

	return &Ticker{
		C: ft.ch,
		stop: func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			ft.stopped = true
			c.tickersChanged.Broadcast()
		},
	}
}

// Advance moves the clock forward by d and fires every ticker whose
// deadline falls inside the window. A ticker fires at most once per
// Advance call, matching the single-slot channel of time.Ticker.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
	for _, ft := range c.tickers {
		if ft.stopped || ft.next.After(c.now) {
			continue
		}
		for !ft.next.After(c.now) {
			ft.next = ft.next.Add(ft.interval)
		}
		select {
		case ft.ch <- c.now:
		default:
		}
	}
}

// WaitForTickers blocks until at least n tickers are active. Call it
// before Advance when the ticker is created by another goroutine.
func (c *FakeClock) WaitForTickers(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.activeLocked() < n {
		c.tickersChanged.Wait()
	}
}

func (c *FakeClock) ActiveTickers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeLocked()
}

func (c *FakeClock) activeLocked() int {
	n := 0
	for _, ft := range c.tickers {
		if !ft.stopped {
			n++
		}
	}
	return n
}
