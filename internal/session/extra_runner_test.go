package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/2beens/gymtracker/internal/catalogue"
	"github.com/2beens/gymtracker/internal/session"
	"github.com/2beens/gymtracker/internal/timer"
	"github.com/2beens/gymtracker/internal/workouts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extraSession(t *testing.T) catalogue.Session {
	t.Helper()
	s, err := catalogue.Default().ByID(4)
	require.NoError(t, err)
	return s
}

func TestExtraRunner_SelectBackFinish(t *testing.T) {
	ctx := context.Background()
	timing, _ := fakeTiming()
	repo := newRepo()
	er := session.NewExtraRunner(extraSession(t), repo, timing)

	_, err := er.Finish(ctx, time.Now())
	assert.ErrorIs(t, err, session.ErrNoActivitySelected)

	_, err = er.Select(2)
	assert.ErrorIs(t, err, session.ErrIndexOutOfRange)

	activity, err := er.Select(0)
	require.NoError(t, err)
	assert.Equal(t, "Gravel Bike", activity.Name)
	assert.Equal(t, timer.StopwatchRunning, er.Stopwatch().State(), "selecting starts the stopwatch")
	for i := 0; i < 30; i++ {
		er.Stopwatch().Tick()
	}

	// going back discards the elapsed time
	er.Back()
	_, selected := er.Activity()
	assert.False(t, selected)
	assert.Equal(t, 0, er.Stopwatch().Elapsed())
	assert.Equal(t, timer.StopwatchStopped, er.Stopwatch().State())

	_, err = er.Select(1)
	require.NoError(t, err)
	for i := 0; i < 1800; i++ {
		er.Stopwatch().Tick()
	}
	state := er.State()
	require.NotNil(t, state.Activity)
	assert.Equal(t, "Passeggiata", state.Activity.Name)
	assert.Equal(t, 1800, state.Stopwatch.Elapsed)

	now := time.Date(2025, 3, 8, 9, 0, 0, 0, time.UTC)
	record, err := er.Finish(ctx, now)
	require.NoError(t, err)

	assert.Equal(t, workouts.Workout{
		ID:            workouts.NewWorkoutID(now),
		Date:          now,
		SessionID:     4,
		SessionName:   "Attività Extra — Passeggiata",
		ActivityType:  "Passeggiata",
		Duration:      1800,
		Completed:     true,
		Exercises:     []workouts.ExerciseSummary{},
		TotalSets:     0,
		CompletedSets: 0,
	}, record)
	assert.Equal(t, workouts.SessionKindExtra, record.Kind())
	assert.Len(t, repo.List(ctx), 1)

	_, err = er.Select(0)
	assert.ErrorIs(t, err, session.ErrRunnerClosed)
}

func TestExtraRunner_Discard(t *testing.T) {
	ctx := context.Background()
	timing, clock := fakeTiming()
	repo := newRepo()
	er := session.NewExtraRunner(extraSession(t), repo, timing)

	_, err := er.Select(0)
	require.NoError(t, err)
	er.Discard()

	require.Eventually(t, func() bool {
		return clock.Active() == 0
	}, time.Second, time.Millisecond)
	_, err = er.Finish(ctx, time.Now())
	assert.ErrorIs(t, err, session.ErrRunnerClosed)
	assert.Empty(t, repo.List(ctx))
}

func TestNewRunner(t *testing.T) {
	timing, _ := fakeTiming()
	c := catalogue.Default()

	workout := session.NewRunner(c.Sessions[0], newRepo(), timing)
	defer workout.Discard()
	_, ok := workout.(*session.WorkoutRunner)
	assert.True(t, ok)
	assert.Equal(t, 1, workout.Session().ID)

	extra := session.NewRunner(c.Sessions[3], newRepo(), timing)
	defer extra.Discard()
	_, ok = extra.(*session.ExtraRunner)
	assert.True(t, ok)

	assert.Equal(t, timer.RealClock, session.DefaultTiming().Clock)
}
