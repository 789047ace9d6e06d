package timer

import (
	"sync"
	"time"
)

type StopwatchState string

const (
	StopwatchStopped StopwatchState = "stopped"
	StopwatchRunning StopwatchState = "running"
)

// Stopwatch counts up, one unit per tick, with no upper bound.
// The caller decides when it runs.
type Stopwatch struct {
	mutex    sync.Mutex
	clock    Clock
	interval time.Duration
	elapsed  int
	state    StopwatchState
	ticking  *ticking
}

func NewStopwatch(clock Clock, interval time.Duration) *Stopwatch {
	return &Stopwatch{
		clock:    clock,
		interval: interval,
		state:    StopwatchStopped,
	}
}

func (s *Stopwatch) Start() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.state == StopwatchRunning {
		return false
	}
	s.state = StopwatchRunning
	s.ticking = startTicking(s.clock, s.interval, s.tick)
	return true
}

func (s *Stopwatch) Pause() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.stopLocked()
}

// Reset zeroes the elapsed time and stops the stopwatch.
func (s *Stopwatch) Reset() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.stopLocked()
	s.elapsed = 0
}

// Close stops ticking; same as Pause, named for teardown.
func (s *Stopwatch) Close() {
	s.Pause()
}

func (s *Stopwatch) Tick() {
	s.tick(nil)
}

func (s *Stopwatch) tick(src *ticking) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if src != nil && src != s.ticking {
		return
	}
	if s.state == StopwatchRunning {
		s.elapsed++
	}
}

func (s *Stopwatch) stopLocked() {
	s.ticking.halt()
	s.ticking = nil
	s.state = StopwatchStopped
}

func (s *Stopwatch) Elapsed() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.elapsed
}

func (s *Stopwatch) State() StopwatchState {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.state
}

type StopwatchSnapshot struct {
	Elapsed int            `json:"elapsed"`
	State   StopwatchState `json:"state"`
}

func (s *Stopwatch) Snapshot() StopwatchSnapshot {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return StopwatchSnapshot{
		Elapsed: s.elapsed,
		State:   s.state,
	}
}
