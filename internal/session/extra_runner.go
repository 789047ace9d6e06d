package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/gymtracker/internal/catalogue"
	"github.com/2beens/gymtracker/internal/telemetry/tracing"
	"github.com/2beens/gymtracker/internal/timer"
	"github.com/2beens/gymtracker/internal/workouts"
	"github.com/2beens/gymtracker/pkg"

	log "github.com/sirupsen/logrus"
)

// ExtraRunner runs an extra session: pick an activity, time it, finish.
type ExtraRunner struct {
	mutex     sync.Mutex
	session   catalogue.Session
	history   historyAppender
	stopwatch *timer.Stopwatch
	activity  int
	closed    bool
}

func NewExtraRunner(s catalogue.Session, history historyAppender, timing Timing) *ExtraRunner {
	return &ExtraRunner{
		session:   s,
		history:   history,
		stopwatch: timer.NewStopwatch(timing.Clock, timing.Interval),
		activity:  -1,
	}
}

func (er *ExtraRunner) Session() catalogue.Session {
	return er.session
}

func (er *ExtraRunner) Stopwatch() *timer.Stopwatch {
	return er.stopwatch
}

// Select pins an activity and starts timing it from zero.
func (er *ExtraRunner) Select(idx int) (catalogue.Activity, error) {
	er.mutex.Lock()
	defer er.mutex.Unlock()

	if er.closed {
		return catalogue.Activity{}, ErrRunnerClosed
	}
	if idx < 0 || idx >= len(er.session.Activities) {
		return catalogue.Activity{}, fmt.Errorf("%w: activity %d", ErrIndexOutOfRange, idx)
	}

	er.activity = idx
	er.stopwatch.Reset()
	er.stopwatch.Start()
	return er.session.Activities[idx], nil
}

// Activity returns the pinned activity, if any.
func (er *ExtraRunner) Activity() (catalogue.Activity, bool) {
	er.mutex.Lock()
	defer er.mutex.Unlock()

	if er.activity < 0 {
		return catalogue.Activity{}, false
	}
	return er.session.Activities[er.activity], true
}

// Back returns to the activity choice; the elapsed time is dropped.
func (er *ExtraRunner) Back() {
	er.mutex.Lock()
	defer er.mutex.Unlock()

	er.activity = -1
	er.stopwatch.Reset()
}

func (er *ExtraRunner) Finish(ctx context.Context, now time.Time) (_ workouts.Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.extra.finish")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	er.mutex.Lock()
	defer er.mutex.Unlock()

	if er.closed {
		return workouts.Workout{}, ErrRunnerClosed
	}
	if er.activity < 0 {
		return workouts.Workout{}, ErrNoActivitySelected
	}

	activity := er.session.Activities[er.activity]
	record := workouts.Workout{
		ID:            workouts.NewWorkoutID(now),
		Date:          now.UTC().Truncate(time.Millisecond),
		SessionID:     er.session.ID,
		SessionName:   fmt.Sprintf("%s — %s", er.session.Label, activity.Name),
		ActivityType:  activity.Name,
		Duration:      er.stopwatch.Elapsed(),
		Completed:     true,
		Exercises:     []workouts.ExerciseSummary{},
		TotalSets:     0,
		CompletedSets: 0,
	}

	saved, err := er.history.Append(ctx, record)
	if err != nil {
		return workouts.Workout{}, fmt.Errorf("save activity: %w", err)
	}

	er.closed = true
	er.stopwatch.Close()
	log.Infof("activity finished: %s in %s", saved.SessionName, pkg.FormatDuration(saved.Duration))
	return saved, nil
}

func (er *ExtraRunner) Discard() {
	er.mutex.Lock()
	defer er.mutex.Unlock()

	er.closed = true
	er.stopwatch.Close()
}
