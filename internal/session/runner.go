package session

import (
	"context"
	"errors"
	"time"

	"github.com/2beens/gymtracker/internal/catalogue"
	"github.com/2beens/gymtracker/internal/timer"
	"github.com/2beens/gymtracker/internal/workouts"
)

var (
	ErrIndexOutOfRange    = errors.New("index out of range")
	ErrNoActivitySelected = errors.New("no activity selected")
	ErrNoRestTimer        = errors.New("exercise has no rest period")
	ErrNotTimed           = errors.New("exercise is not timed")
	ErrRunnerClosed       = errors.New("session already closed")
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=session_test

type historyAppender interface {
	Append(ctx context.Context, w workouts.Workout) (workouts.Workout, error)
}

// Runner is one active session instance. Its state lives only until it is
// finished or discarded; nothing is saved for a discarded runner.
type Runner interface {
	Session() catalogue.Session
	State() State
	Finish(ctx context.Context, now time.Time) (workouts.Workout, error)
	Discard()
}

// Timing drives every timer created by a runner.
type Timing struct {
	Clock    timer.Clock
	Interval time.Duration
}

func DefaultTiming() Timing {
	return Timing{
		Clock:    timer.RealClock,
		Interval: timer.DefaultInterval,
	}
}

// NewRunner starts a fresh runner fitting the session type.
func NewRunner(s catalogue.Session, history historyAppender, timing Timing) Runner {
	if s.IsExtra() {
		return NewExtraRunner(s, history, timing)
	}
	return NewWorkoutRunner(s, history, timing)
}
