package timer

import "time"

// DefaultInterval is the length of one timer unit (one second).
const DefaultInterval = time.Second

// Clock creates tickers. Timers never read wall-clock time directly,
// so a fake clock makes them fully deterministic.
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// RealClock is backed by time.Ticker.
var RealClock Clock = realClock{}

type realClock struct{}

func (realClock) NewTicker(d time.Duration) Ticker {
	return &realTicker{ticker: time.NewTicker(d)}
}

type realTicker struct {
	ticker *time.Ticker
}

func (rt *realTicker) C() <-chan time.Time {
	return rt.ticker.C
}

func (rt *realTicker) Stop() {
	rt.ticker.Stop()
}

// ticking runs onTick for every tick until stopped. One ticking loop
// exists per Running period of a timer; onTick receives the loop so a
// timer can ignore ticks from a loop it already abandoned.
type ticking struct {
	stop     chan struct{}
	stopped  bool
	finished chan struct{}
}

func startTicking(clock Clock, interval time.Duration, onTick func(*ticking)) *ticking {
	t := &ticking{
		stop:     make(chan struct{}),
		finished: make(chan struct{}),
	}
	ticker := clock.NewTicker(interval)
	go func() {
		defer close(t.finished)
		defer ticker.Stop()
		for {
			select {
			case <-t.stop:
				return
			case <-ticker.C():
				onTick(t)
			}
		}
	}()
	return t
}

// halt signals the loop to exit. It does not wait, so it is safe to call
// from within onTick. Callers must hold the owning timer's lock.
func (t *ticking) halt() {
	if t == nil || t.stopped {
		return
	}
	t.stopped = true
	close(t.stop)
}
