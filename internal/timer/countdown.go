package timer

import (
	"sync"
	"time"
)

type CountdownState string

const (
	CountdownIdle     CountdownState = "idle"
	CountdownRunning  CountdownState = "running"
	CountdownPaused   CountdownState = "paused"
	CountdownFinished CountdownState = "finished"
)

// Countdown counts down from a fixed duration, one unit per tick.
// It never goes below zero; reaching zero finishes it and stops ticking.
type Countdown struct {
	mutex     sync.Mutex
	clock     Clock
	interval  time.Duration
	initial   int
	remaining int
	state     CountdownState
	ticking   *ticking
	onFinish  func()
}

func NewCountdown(clock Clock, interval time.Duration, duration int) *Countdown {
	if duration < 0 {
		duration = 0
	}
	return &Countdown{
		clock:     clock,
		interval:  interval,
		initial:   duration,
		remaining: duration,
		state:     CountdownIdle,
	}
}

// OnFinish registers a callback run (outside the lock) when the countdown reaches zero.
func (c *Countdown) OnFinish(fn func()) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.onFinish = fn
}

// Start resumes ticking. It is a no-op when already running or at zero;
// use Restart to re-arm a finished countdown.
func (c *Countdown) Start() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.startLocked()
}

func (c *Countdown) startLocked() bool {
	if c.state == CountdownRunning || c.remaining == 0 {
		return false
	}
	c.state = CountdownRunning
	c.ticking = startTicking(c.clock, c.interval, c.tick)
	return true
}

func (c *Countdown) Pause() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.state != CountdownRunning {
		return
	}
	c.stopLocked()
	c.state = CountdownPaused
}

// Reset stops the countdown and restores the initial duration.
func (c *Countdown) Reset() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.stopLocked()
	c.remaining = c.initial
	c.state = CountdownIdle
}

// Restart re-arms the full duration and starts ticking.
func (c *Countdown) Restart() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.stopLocked()
	c.remaining = c.initial
	c.state = CountdownIdle
	return c.startLocked()
}

// Tick advances the countdown by one unit. Ignored unless running.
func (c *Countdown) Tick() {
	c.tick(nil)
}

func (c *Countdown) tick(src *ticking) {
	c.mutex.Lock()
	if c.state != CountdownRunning || (src != nil && src != c.ticking) {
		c.mutex.Unlock()
		return
	}

	c.remaining--
	var onFinish func()
	if c.remaining <= 0 {
		c.remaining = 0
		c.stopLocked()
		c.state = CountdownFinished
		onFinish = c.onFinish
	}
	c.mutex.Unlock()

	if onFinish != nil {
		onFinish()
	}
}

// Close stops any ticking without changing the remaining time.
func (c *Countdown) Close() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.state == CountdownRunning {
		c.state = CountdownPaused
	}
	c.stopLocked()
}

func (c *Countdown) stopLocked() {
	c.ticking.halt()
	c.ticking = nil
}

func (c *Countdown) Remaining() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.remaining
}

func (c *Countdown) State() CountdownState {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.state
}

// percentLocked is the remaining share of the initial duration, 0..100.
func (c *Countdown) percentLocked() float64 {
	if c.initial == 0 {
		return 0
	}
	return float64(c.remaining*100) / float64(c.initial)
}

type CountdownSnapshot struct {
	Initial   int            `json:"initial"`
	Remaining int            `json:"remaining"`
	State     CountdownState `json:"state"`
	Percent   float64        `json:"percent"`
}

func (c *Countdown) Snapshot() CountdownSnapshot {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	snap := CountdownSnapshot{
		Initial:   c.initial,
		Remaining: c.remaining,
		State:     c.state,
		Percent:   c.percentLocked(),
	}
	return snap
}
