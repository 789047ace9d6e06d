package session

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/2beens/gymtracker/internal/catalogue"
	"github.com/2beens/gymtracker/internal/telemetry/tracing"
	"github.com/2beens/gymtracker/internal/timer"
	"github.com/2beens/gymtracker/internal/workouts"
	"github.com/2beens/gymtracker/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type ExerciseRef struct {
	Group    int `json:"group"`
	Exercise int `json:"exercise"`
}

// WorkoutRunner tracks completed sets and per-set notes for one workout
// session, mirroring the session's group/exercise tree.
type WorkoutRunner struct {
	mutex   sync.Mutex
	session catalogue.Session
	history historyAppender
	timing  Timing

	done  [][]int
	notes [][][]string

	stopwatch      *timer.Stopwatch
	rest           *timer.Countdown
	restRef        ExerciseRef
	exerciseTimers map[ExerciseRef]*timer.Countdown
	closed         bool
}

func NewWorkoutRunner(s catalogue.Session, history historyAppender, timing Timing) *WorkoutRunner {
	done := make([][]int, len(s.Groups))
	notes := make([][][]string, len(s.Groups))
	for g, group := range s.Groups {
		done[g] = make([]int, len(group.Exercises))
		notes[g] = make([][]string, len(group.Exercises))
		for e, ex := range group.Exercises {
			notes[g][e] = make([]string, ex.Sets)
		}
	}

	return &WorkoutRunner{
		session:        s,
		history:        history,
		timing:         timing,
		done:           done,
		notes:          notes,
		stopwatch:      timer.NewStopwatch(timing.Clock, timing.Interval),
		exerciseTimers: make(map[ExerciseRef]*timer.Countdown),
	}
}

func (wr *WorkoutRunner) Session() catalogue.Session {
	return wr.session
}

// Stopwatch measures the session duration. It is started by the user.
func (wr *WorkoutRunner) Stopwatch() *timer.Stopwatch {
	return wr.stopwatch
}

func (wr *WorkoutRunner) exercise(g, e int) (catalogue.Exercise, error) {
	if g < 0 || g >= len(wr.session.Groups) {
		return catalogue.Exercise{}, fmt.Errorf("%w: group %d", ErrIndexOutOfRange, g)
	}
	exercises := wr.session.Groups[g].Exercises
	if e < 0 || e >= len(exercises) {
		return catalogue.Exercise{}, fmt.Errorf("%w: exercise %d in group %d", ErrIndexOutOfRange, e, g)
	}
	return exercises[e], nil
}

func (wr *WorkoutRunner) set(g, e, s int) (catalogue.Exercise, error) {
	ex, err := wr.exercise(g, e)
	if err != nil {
		return ex, err
	}
	if s < 0 || s >= ex.Sets {
		return ex, fmt.Errorf("%w: set %d of %q", ErrIndexOutOfRange, s, ex.Name)
	}
	return ex, nil
}

// ToggleSet treats a tap on set s as "filled up to here": when s is already
// done the count drops to s, un-marking it and every later set; otherwise the
// count becomes s+1, marking it and every earlier set. Returns the new count.
func (wr *WorkoutRunner) ToggleSet(g, e, s int) (int, error) {
	wr.mutex.Lock()
	defer wr.mutex.Unlock()

	if wr.closed {
		return 0, ErrRunnerClosed
	}
	if _, err := wr.set(g, e, s); err != nil {
		return 0, err
	}

	if wr.done[g][e] > s {
		wr.done[g][e] = s
	} else {
		wr.done[g][e] = s + 1
	}
	return wr.done[g][e], nil
}

// SetNote overwrites the note of one set. An empty text clears it.
func (wr *WorkoutRunner) SetNote(g, e, s int, text string) error {
	wr.mutex.Lock()
	defer wr.mutex.Unlock()

	if wr.closed {
		return ErrRunnerClosed
	}
	if _, err := wr.set(g, e, s); err != nil {
		return err
	}
	wr.notes[g][e][s] = text
	return nil
}

func (wr *WorkoutRunner) DoneSets() int {
	wr.mutex.Lock()
	defer wr.mutex.Unlock()
	return wr.doneSetsLocked()
}

func (wr *WorkoutRunner) doneSetsLocked() int {
	total := 0
	for _, group := range wr.done {
		for _, c := range group {
			total += c
		}
	}
	return total
}

func (wr *WorkoutRunner) TotalSets() int {
	return wr.session.TotalSets()
}

// Progress is the share of completed sets, rounded to a whole percent.
func (wr *WorkoutRunner) Progress() int {
	wr.mutex.Lock()
	defer wr.mutex.Unlock()
	return progress(wr.doneSetsLocked(), wr.session.TotalSets())
}

func progress(done, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(done) / float64(total)))
}

// OpenRest opens the rest countdown of an exercise, already running.
// Only one rest countdown is open at a time; opening another replaces it.
func (wr *WorkoutRunner) OpenRest(g, e int) (*timer.Countdown, error) {
	wr.mutex.Lock()
	defer wr.mutex.Unlock()

	if wr.closed {
		return nil, ErrRunnerClosed
	}
	ex, err := wr.exercise(g, e)
	if err != nil {
		return nil, err
	}
	if ex.Rest <= 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoRestTimer, ex.Name)
	}

	wr.closeRestLocked()
	wr.rest = timer.NewCountdown(wr.timing.Clock, wr.timing.Interval, ex.Rest)
	wr.restRef = ExerciseRef{Group: g, Exercise: e}
	// runs on the ticking goroutine: must not take wr.mutex
	wr.rest.OnFinish(func() {
		log.Infof("rest over: %s (%ds)", ex.Name, ex.Rest)
	})
	wr.rest.Start()
	return wr.rest, nil
}

// Rest returns the open rest countdown, if any.
func (wr *WorkoutRunner) Rest() (*timer.Countdown, ExerciseRef, bool) {
	wr.mutex.Lock()
	defer wr.mutex.Unlock()
	return wr.rest, wr.restRef, wr.rest != nil
}

func (wr *WorkoutRunner) CloseRest() {
	wr.mutex.Lock()
	defer wr.mutex.Unlock()
	wr.closeRestLocked()
}

func (wr *WorkoutRunner) closeRestLocked() {
	if wr.rest != nil {
		wr.rest.Close()
		wr.rest = nil
		wr.restRef = ExerciseRef{}
	}
}

// ExerciseTimer returns the countdown of a timed exercise, creating it on first use.
func (wr *WorkoutRunner) ExerciseTimer(g, e int) (*timer.Countdown, error) {
	wr.mutex.Lock()
	defer wr.mutex.Unlock()

	if wr.closed {
		return nil, ErrRunnerClosed
	}
	ex, err := wr.exercise(g, e)
	if err != nil {
		return nil, err
	}
	if !ex.IsTimed || ex.Duration <= 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotTimed, ex.Name)
	}

	ref := ExerciseRef{Group: g, Exercise: e}
	if c, ok := wr.exerciseTimers[ref]; ok {
		return c, nil
	}
	c := timer.NewCountdown(wr.timing.Clock, wr.timing.Interval, ex.Duration)
	c.OnFinish(func() {
		log.Infof("timed exercise done: %s (%ds)", ex.Name, ex.Duration)
	})
	wr.exerciseTimers[ref] = c
	return c, nil
}

// Finish builds the workout record from the current run state and appends
// it to the history. When the append fails the runner stays open.
func (wr *WorkoutRunner) Finish(ctx context.Context, now time.Time) (_ workouts.Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.workout.finish")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	wr.mutex.Lock()
	defer wr.mutex.Unlock()

	if wr.closed {
		return workouts.Workout{}, ErrRunnerClosed
	}

	record := wr.recordLocked(now)
	span.SetAttributes(
		attribute.Int("session.id", record.SessionID),
		attribute.Int("workout.completed_sets", record.CompletedSets),
	)

	saved, err := wr.history.Append(ctx, record)
	if err != nil {
		return workouts.Workout{}, fmt.Errorf("save workout: %w", err)
	}

	wr.closeLocked()
	log.Infof("workout finished: %s, %d/%d sets in %s", saved.SessionName, saved.CompletedSets, saved.TotalSets, pkg.FormatDuration(saved.Duration))
	return saved, nil
}

func (wr *WorkoutRunner) recordLocked(now time.Time) workouts.Workout {
	summaries := make([]workouts.ExerciseSummary, 0)
	for g, group := range wr.session.Groups {
		for e, ex := range group.Exercises {
			summaries = append(summaries, workouts.ExerciseSummary{
				Name:          ex.Name,
				SetsCompleted: wr.done[g][e],
				SetsTotal:     ex.Sets,
				Reps:          ex.Reps,
				Notes:         workouts.NonEmptyNotes(wr.notes[g][e]),
			})
		}
	}

	return workouts.Workout{
		ID:            workouts.NewWorkoutID(now),
		Date:          now.UTC().Truncate(time.Millisecond),
		SessionID:     wr.session.ID,
		SessionName:   wr.session.Label,
		Duration:      wr.stopwatch.Elapsed(),
		Completed:     true,
		Exercises:     summaries,
		TotalSets:     wr.session.TotalSets(),
		CompletedSets: wr.doneSetsLocked(),
	}
}

// Discard stops every timer; the run state is dropped.
func (wr *WorkoutRunner) Discard() {
	wr.mutex.Lock()
	defer wr.mutex.Unlock()
	wr.closeLocked()
}

func (wr *WorkoutRunner) closeLocked() {
	if wr.closed {
		return
	}
	wr.closed = true
	wr.stopwatch.Close()
	wr.closeRestLocked()
	for _, c := range wr.exerciseTimers {
		c.Close()
	}
}

func (wr *WorkoutRunner) Closed() bool {
	wr.mutex.Lock()
	defer wr.mutex.Unlock()
	return wr.closed
}
