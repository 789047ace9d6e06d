package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/2beens/gymtracker/internal/catalogue"
	"github.com/2beens/gymtracker/internal/session"
	"github.com/2beens/gymtracker/internal/storage"
	"github.com/2beens/gymtracker/internal/timer"
	"github.com/2beens/gymtracker/internal/workouts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type failingStore struct {
	storage.Store
	failWrites bool
}

func (fs *failingStore) Set(ctx context.Context, key, value string) error {
	if fs.failWrites {
		return errors.New("quota exceeded")
	}
	return fs.Store.Set(ctx, key, value)
}

func newTestTracker(t *testing.T) (*Tracker, *workouts.Repo, *timer.FakeClock, *failingStore) {
	t.Helper()
	store := &failingStore{Store: storage.NewMemoryStore()}
	repo := workouts.NewRepo(storage.NewJSONStore(store), workouts.DefaultHistoryKey, nil)
	clock := timer.NewFakeClock()
	tr := New(catalogue.Default(), repo, session.Timing{Clock: clock, Interval: time.Second})
	t.Cleanup(tr.Close)
	return tr, repo, clock, store
}

func TestTracker_Navigation(t *testing.T) {
	tr, _, _, _ := newTestTracker(t)
	assert.Equal(t, ViewHome, tr.View())
	assert.Nil(t, tr.State().Session)

	_, err := tr.SelectSession(1)
	require.NoError(t, err)
	assert.Equal(t, ViewSession, tr.View())
	state := tr.State()
	require.NotNil(t, state.Session)
	assert.Equal(t, 1, state.Session.SessionID)
	assert.Equal(t, 27, state.Session.TotalSets)

	tr.OpenDashboard()
	assert.Equal(t, ViewDashboard, tr.View())
	_, err = tr.Runner()
	assert.ErrorIs(t, err, ErrNoActiveSession)

	tr.Home()
	assert.Equal(t, ViewHome, tr.View())
}

func TestTracker_SelectUnknownSession(t *testing.T) {
	tr, _, _, _ := newTestTracker(t)
	_, err := tr.SelectSession(99)
	assert.ErrorIs(t, err, catalogue.ErrSessionNotFound)
	assert.Equal(t, ViewHome, tr.View())
}

func TestTracker_SelectingAgainStartsFresh(t *testing.T) {
	tr, _, _, _ := newTestTracker(t)

	_, err := tr.SelectSession(1)
	require.NoError(t, err)
	wr, err := tr.WorkoutRunner()
	require.NoError(t, err)
	_, err = wr.ToggleSet(0, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 1, wr.DoneSets())

	_, err = tr.SelectSession(1)
	require.NoError(t, err)
	fresh, err := tr.WorkoutRunner()
	require.NoError(t, err)
	assert.NotSame(t, wr, fresh)
	assert.Equal(t, 0, fresh.DoneSets())
	assert.True(t, wr.Closed())
}

func TestTracker_RunnerTypeChecks(t *testing.T) {
	tr, _, _, _ := newTestTracker(t)

	_, err := tr.WorkoutRunner()
	assert.ErrorIs(t, err, ErrNoActiveSession)

	_, err = tr.SelectSession(4)
	require.NoError(t, err)
	_, err = tr.WorkoutRunner()
	assert.ErrorIs(t, err, ErrWrongSessionType)
	_, err = tr.ExtraRunner()
	assert.NoError(t, err)

	_, err = tr.SelectSession(2)
	require.NoError(t, err)
	_, err = tr.ExtraRunner()
	assert.ErrorIs(t, err, ErrWrongSessionType)
}

func TestTracker_FinishWorkout(t *testing.T) {
	tr, repo, _, _ := newTestTracker(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 12, 18, 0, 0, 0, time.UTC)

	_, err := tr.FinishSession(ctx, now)
	assert.ErrorIs(t, err, ErrNoActiveSession)

	_, err = tr.SelectSession(2)
	require.NoError(t, err)
	wr, err := tr.WorkoutRunner()
	require.NoError(t, err)
	for s := 0; s < 3; s++ {
		_, err = wr.ToggleSet(0, 0, s)
		require.NoError(t, err)
	}

	record, err := tr.FinishSession(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 2, record.SessionID)
	assert.Equal(t, 3, record.CompletedSets)
	assert.Equal(t, 19, record.TotalSets)
	assert.False(t, record.Completed)

	assert.Equal(t, ViewHome, tr.View())
	assert.Nil(t, tr.State().Session)
	assert.Equal(t, []workouts.Workout{record}, repo.List(ctx))
}

func TestTracker_FailedFinishKeepsSession(t *testing.T) {
	tr, repo, _, store := newTestTracker(t)
	ctx := context.Background()

	_, err := tr.SelectSession(1)
	require.NoError(t, err)

	store.failWrites = true
	_, err = tr.FinishSession(ctx, time.Now())
	require.ErrorIs(t, err, workouts.ErrNotPersisted)
	assert.Equal(t, ViewSession, tr.View())
	assert.Empty(t, repo.List(ctx))

	store.failWrites = false
	_, err = tr.FinishSession(ctx, time.Now())
	require.NoError(t, err)
	assert.Len(t, repo.List(ctx), 1)
	assert.Equal(t, ViewHome, tr.View())
}

func TestTracker_FinishExtraNeedsActivity(t *testing.T) {
	tr, _, clock, _ := newTestTracker(t)
	ctx := context.Background()

	_, err := tr.SelectSession(4)
	require.NoError(t, err)
	_, err = tr.FinishSession(ctx, time.Now())
	assert.ErrorIs(t, err, session.ErrNoActivitySelected)

	er, err := tr.ExtraRunner()
	require.NoError(t, err)
	_, err = er.Select(1)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		clock.Fire()
	}
	require.Eventually(t, func() bool {
		return er.State().Stopwatch.Elapsed == 5
	}, time.Second, 5*time.Millisecond)

	record, err := tr.FinishSession(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Passeggiata", record.ActivityType)
	assert.Equal(t, 5, record.Duration)
	assert.Equal(t, workouts.SessionKindExtra, record.Kind())
}

func TestTracker_LastWorkoutAndHomeSummary(t *testing.T) {
	tr, repo, _, _ := newTestTracker(t)
	ctx := context.Background()

	_, ok := tr.LastWorkout(ctx)
	assert.False(t, ok)
	summary := tr.HomeSummary(ctx)
	assert.Len(t, summary.Sessions, 4)
	assert.Zero(t, summary.WorkoutCount)
	assert.Nil(t, summary.Last)

	first := workouts.Workout{ID: "1", Date: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC), SessionID: 1, SessionName: "Sessione 1", Duration: 1800}
	second := workouts.Workout{ID: "2", Date: time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC), SessionID: 3, SessionName: "Sessione 3", Duration: 2400}
	_, err := repo.Append(ctx, first)
	require.NoError(t, err)
	_, err = repo.Append(ctx, second)
	require.NoError(t, err)

	last, ok := tr.LastWorkout(ctx)
	require.True(t, ok)
	assert.Equal(t, "2", last.Workout.ID)
	assert.Equal(t, 3, last.Session.ID)

	summary = tr.HomeSummary(ctx)
	assert.Equal(t, 2, summary.WorkoutCount)
	assert.Equal(t, 4200, summary.TotalDuration)
	require.NotNil(t, summary.Last)
	assert.Equal(t, "2", summary.Last.Workout.ID)

	// a record whose session left the catalogue is not offered for repeat
	_, err = repo.Append(ctx, workouts.Workout{ID: "3", Date: time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC), SessionID: 42})
	require.NoError(t, err)
	_, ok = tr.LastWorkout(ctx)
	assert.False(t, ok)
}
