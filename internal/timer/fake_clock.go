package timer

import (
	"sync"
	"time"
)

var _ Clock = (*FakeClock)(nil)

// FakeClock hands out tickers that only tick when Fire is called.
type FakeClock struct {
	mutex   sync.Mutex
	tickers []*FakeTicker
}

func NewFakeClock() *FakeClock {
	return &FakeClock{}
}

func (fc *FakeClock) NewTicker(_ time.Duration) Ticker {
	fc.mutex.Lock()
	defer fc.mutex.Unlock()

	ft := &FakeTicker{
		c:       make(chan time.Time),
		stopped: make(chan struct{}),
	}
	fc.tickers = append(fc.tickers, ft)
	return ft
}

// Fire delivers one tick to every ticker that is not stopped and returns
// how many received it. A receiver may still be processing the tick when
// Fire returns.
func (fc *FakeClock) Fire() int {
	fc.mutex.Lock()
	tickers := append([]*FakeTicker(nil), fc.tickers...)
	fc.mutex.Unlock()

	delivered := 0
	for _, ft := range tickers {
		select {
		case ft.c <- time.Time{}:
			delivered++
		case <-ft.stopped:
		}
	}
	return delivered
}

// Active returns the number of tickers not yet stopped.
func (fc *FakeClock) Active() int {
	fc.mutex.Lock()
	defer fc.mutex.Unlock()

	active := 0
	for _, ft := range fc.tickers {
		select {
		case <-ft.stopped:
		default:
			active++
		}
	}
	return active
}

type FakeTicker struct {
	c        chan time.Time
	stopOnce sync.Once
	stopped  chan struct{}
}

func (ft *FakeTicker) C() <-chan time.Time {
	return ft.c
}

func (ft *FakeTicker) Stop() {
	ft.stopOnce.Do(func() {
		close(ft.stopped)
	})
}
