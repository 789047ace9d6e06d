package session

import (
	"errors"
	"fmt"

	"github.com/2beens/gymtracker/internal/timer"
)

var (
	ErrUnknownAction = errors.New("unknown timer action")
	ErrNoRestOpen    = errors.New("no rest timer open")
)

type TimerAction string

const (
	ActionStart   TimerAction = "start"
	ActionPause   TimerAction = "pause"
	ActionReset   TimerAction = "reset"
	ActionRestart TimerAction = "restart"
)

func applyStopwatch(sw *timer.Stopwatch, action TimerAction) error {
	switch action {
	case ActionStart:
		sw.Start()
	case ActionPause:
		sw.Pause()
	case ActionReset:
		sw.Reset()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	return nil
}

func applyCountdown(c *timer.Countdown, action TimerAction) error {
	switch action {
	case ActionStart:
		c.Start()
	case ActionPause:
		c.Pause()
	case ActionReset:
		c.Reset()
	case ActionRestart:
		c.Restart()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	return nil
}

// ControlStopwatch drives the session stopwatch.
func (wr *WorkoutRunner) ControlStopwatch(action TimerAction) error {
	wr.mutex.Lock()
	defer wr.mutex.Unlock()

	if wr.closed {
		return ErrRunnerClosed
	}
	return applyStopwatch(wr.stopwatch, action)
}

// ControlRest drives the open rest countdown. Restart is the "new" action
// once the rest is over.
func (wr *WorkoutRunner) ControlRest(action TimerAction) error {
	wr.mutex.Lock()
	defer wr.mutex.Unlock()

	if wr.closed {
		return ErrRunnerClosed
	}
	if wr.rest == nil {
		return ErrNoRestOpen
	}
	return applyCountdown(wr.rest, action)
}

func (wr *WorkoutRunner) ControlExerciseTimer(g, e int, action TimerAction) error {
	c, err := wr.ExerciseTimer(g, e)
	if err != nil {
		return err
	}

	wr.mutex.Lock()
	defer wr.mutex.Unlock()
	if wr.closed {
		return ErrRunnerClosed
	}
	return applyCountdown(c, action)
}

func (er *ExtraRunner) ControlStopwatch(action TimerAction) error {
	er.mutex.Lock()
	defer er.mutex.Unlock()

	if er.closed {
		return ErrRunnerClosed
	}
	if er.activity < 0 {
		return ErrNoActivitySelected
	}
	return applyStopwatch(er.stopwatch, action)
}
