package timer

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestCountdown_StartTickFinish(t *testing.T) {
	clock := NewFakeClock()
	c := NewCountdown(clock, DefaultInterval, 3)
	defer c.Close()

	assert.Equal(t, CountdownIdle, c.State())
	assert.Equal(t, 3, c.Remaining())
	assert.Equal(t, float64(100), c.Snapshot().Percent)

	// ticks before start are ignored
	c.Tick()
	assert.Equal(t, 3, c.Remaining())

	require.True(t, c.Start())
	assert.False(t, c.Start(), "already running")
	assert.Equal(t, CountdownRunning, c.State())

	c.Tick()
	c.Tick()
	assert.Equal(t, 1, c.Remaining())
	c.Tick()
	assert.Equal(t, 0, c.Remaining())
	assert.Equal(t, CountdownFinished, c.State())

	// never negative, stops ticking
	c.Tick()
	c.Tick()
	assert.Equal(t, 0, c.Remaining())
	assert.Equal(t, CountdownFinished, c.State())
	assert.Equal(t, float64(0), c.Snapshot().Percent)
}

func TestCountdown_StartAtZeroIsNoop(t *testing.T) {
	clock := NewFakeClock()
	c := NewCountdown(clock, DefaultInterval, 1)
	defer c.Close()

	require.True(t, c.Start())
	c.Tick()
	require.Equal(t, CountdownFinished, c.State())

	assert.False(t, c.Start())
	assert.Equal(t, CountdownFinished, c.State())
	assert.Equal(t, 0, clock.Active())

	zero := NewCountdown(clock, DefaultInterval, 0)
	assert.False(t, zero.Start())
	assert.Equal(t, CountdownIdle, zero.State())
}

func TestCountdown_PauseResume(t *testing.T) {
	clock := NewFakeClock()
	c := NewCountdown(clock, DefaultInterval, 10)
	defer c.Close()

	require.True(t, c.Start())
	c.Tick()
	c.Pause()
	assert.Equal(t, CountdownPaused, c.State())
	assert.Equal(t, 0, clock.Active())

	c.Tick()
	assert.Equal(t, 9, c.Remaining(), "paused countdown does not tick")

	require.True(t, c.Start())
	c.Tick()
	assert.Equal(t, 8, c.Remaining())
	assert.Equal(t, float64(80), c.Snapshot().Percent)
}

func TestCountdown_ResetRestoresDurationExactly(t *testing.T) {
	clock := NewFakeClock()
	c := NewCountdown(clock, DefaultInterval, 45)
	defer c.Close()

	require.True(t, c.Start())
	for i := 0; i < 17; i++ {
		c.Tick()
	}
	c.Reset()
	assert.Equal(t, 45, c.Remaining())
	assert.Equal(t, CountdownIdle, c.State())
	assert.Equal(t, 0, clock.Active())

	// reset from finished as well
	short := NewCountdown(clock, DefaultInterval, 1)
	require.True(t, short.Start())
	short.Tick()
	short.Reset()
	assert.Equal(t, 1, short.Remaining())
	assert.Equal(t, CountdownIdle, short.State())
}

func TestCountdown_RestartRearms(t *testing.T) {
	clock := NewFakeClock()
	c := NewCountdown(clock, DefaultInterval, 2)
	defer c.Close()

	require.True(t, c.Start())
	c.Tick()
	c.Tick()
	require.Equal(t, CountdownFinished, c.State())

	require.True(t, c.Restart())
	assert.Equal(t, 2, c.Remaining())
	assert.Equal(t, CountdownRunning, c.State())
}

func TestCountdown_DrivenByClock(t *testing.T) {
	clock := NewFakeClock()
	c := NewCountdown(clock, DefaultInterval, 2)
	defer c.Close()

	var finished atomic.Int32
	c.OnFinish(func() {
		finished.Add(1)
	})

	require.True(t, c.Start())
	require.Equal(t, 1, clock.Active())

	require.Equal(t, 1, clock.Fire())
	require.Eventually(t, func() bool {
		return c.Remaining() == 1
	}, time.Second, time.Millisecond)

	require.Equal(t, 1, clock.Fire())
	require.Eventually(t, func() bool {
		return c.State() == CountdownFinished
	}, time.Second, time.Millisecond)
	assert.Equal(t, int32(1), finished.Load())

	// the ticking loop exits once finished
	require.Eventually(t, func() bool {
		return clock.Active() == 0
	}, time.Second, time.Millisecond)
	assert.Equal(t, 0, clock.Fire())
}

func TestCountdown_Snapshot(t *testing.T) {
	c := NewCountdown(NewFakeClock(), DefaultInterval, 4)
	defer c.Close()

	require.True(t, c.Start())
	c.Tick()
	assert.Equal(t, CountdownSnapshot{
		Initial:   4,
		Remaining: 3,
		State:     CountdownRunning,
		Percent:   75,
	}, c.Snapshot())
}

func TestCountdown_CloseStopsTicking(t *testing.T) {
	clock := NewFakeClock()
	c := NewCountdown(clock, DefaultInterval, 60)

	require.True(t, c.Start())
	c.Close()
	assert.Equal(t, CountdownPaused, c.State())
	require.Eventually(t, func() bool {
		return clock.Active() == 0
	}, time.Second, time.Millisecond)
}
