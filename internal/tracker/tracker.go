package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/gymtracker/internal/catalogue"
	"github.com/2beens/gymtracker/internal/session"
	"github.com/2beens/gymtracker/internal/workouts"
	log "github.com/sirupsen/logrus"
)

var (
	ErrNoActiveSession  = errors.New("no active session")
	ErrWrongSessionType = errors.New("active session has another type")
)

type View string

const (
	ViewHome      View = "home"
	ViewSession   View = "session"
	ViewDashboard View = "dashboard"
)

type historyRepo interface {
	Append(ctx context.Context, w workouts.Workout) (workouts.Workout, error)
	List(ctx context.Context) []workouts.Workout
	Last(ctx context.Context) (workouts.Workout, bool)
}

// Tracker is the top-level navigator: it owns the current view and at most
// one active session runner. Leaving the session view discards the runner.
type Tracker struct {
	mutex     sync.Mutex
	catalogue *catalogue.Catalogue
	history   historyRepo
	timing    session.Timing
	view      View
	runner    session.Runner
}

func New(c *catalogue.Catalogue, history historyRepo, timing session.Timing) *Tracker {
	return &Tracker{
		catalogue: c,
		history:   history,
		timing:    timing,
		view:      ViewHome,
	}
}

func (t *Tracker) Catalogue() *catalogue.Catalogue {
	return t.catalogue
}

func (t *Tracker) View() View {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.view
}

func (t *Tracker) Home() {
	t.navigate(ViewHome)
}

func (t *Tracker) OpenDashboard() {
	t.navigate(ViewDashboard)
}

func (t *Tracker) navigate(view View) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.discardLocked()
	t.view = view
}

func (t *Tracker) discardLocked() {
	if t.runner != nil {
		log.Debugf("tracker: discarding session %d", t.runner.Session().ID)
		t.runner.Discard()
		t.runner = nil
	}
}

// SelectSession starts a fresh runner for the session, replacing any active one.
func (t *Tracker) SelectSession(id int) (session.Runner, error) {
	s, err := t.catalogue.ByID(id)
	if err != nil {
		return nil, err
	}

	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.discardLocked()
	t.runner = session.NewRunner(s, t.history, t.timing)
	t.view = ViewSession
	return t.runner, nil
}

func (t *Tracker) Runner() (session.Runner, error) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.runner == nil {
		return nil, ErrNoActiveSession
	}
	return t.runner, nil
}

func (t *Tracker) WorkoutRunner() (*session.WorkoutRunner, error) {
	r, err := t.Runner()
	if err != nil {
		return nil, err
	}
	wr, ok := r.(*session.WorkoutRunner)
	if !ok {
		return nil, fmt.Errorf("%w: want a workout session", ErrWrongSessionType)
	}
	return wr, nil
}

func (t *Tracker) ExtraRunner() (*session.ExtraRunner, error) {
	r, err := t.Runner()
	if err != nil {
		return nil, err
	}
	er, ok := r.(*session.ExtraRunner)
	if !ok {
		return nil, fmt.Errorf("%w: want an extra session", ErrWrongSessionType)
	}
	return er, nil
}

// FinishSession saves the active session and goes back home. On a failed
// save the session stays active so it can be finished again.
func (t *Tracker) FinishSession(ctx context.Context, now time.Time) (workouts.Workout, error) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.runner == nil {
		return workouts.Workout{}, ErrNoActiveSession
	}

	record, err := t.runner.Finish(ctx, now)
	if err != nil {
		return workouts.Workout{}, err
	}

	t.runner = nil
	t.view = ViewHome
	return record, nil
}

// State is what the current view shows.
type State struct {
	View    View           `json:"view"`
	Session *session.State `json:"session,omitempty"`
}

func (t *Tracker) State() State {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	state := State{View: t.view}
	if t.runner != nil {
		s := t.runner.State()
		state.Session = &s
	}
	return state
}

type LastWorkout struct {
	Workout workouts.Workout  `json:"workout"`
	Session catalogue.Session `json:"session"`
}

// LastWorkout returns the most recent record, with its session when that
// session is still in the catalogue, to offer repeating it.
func (t *Tracker) LastWorkout(ctx context.Context) (*LastWorkout, bool) {
	w, ok := t.history.Last(ctx)
	if !ok {
		return nil, false
	}
	s, err := t.catalogue.ByID(w.SessionID)
	if err != nil {
		return nil, false
	}
	return &LastWorkout{Workout: w, Session: s}, true
}

type HomeSummary struct {
	Sessions      []catalogue.Session `json:"sessions"`
	WorkoutCount  int                 `json:"workoutCount"`
	TotalDuration int                 `json:"totalDuration"`
	Last          *LastWorkout        `json:"last,omitempty"`
}

func (t *Tracker) HomeSummary(ctx context.Context) HomeSummary {
	history := t.history.List(ctx)
	summary := HomeSummary{
		Sessions:     t.catalogue.Sessions,
		WorkoutCount: len(history),
	}
	for _, w := range history {
		summary.TotalDuration += w.Duration
	}
	if last, ok := t.LastWorkout(ctx); ok {
		summary.Last = last
	}
	return summary
}

// Close discards the active runner, stopping its timers.
func (t *Tracker) Close() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.discardLocked()
}
