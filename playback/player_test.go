package playback

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matt-g-everett/algoviz/storyboard"
)

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// fakeScheduler records timers and fires them only when asked.
type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{d: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) active() []*fakeTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*fakeTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			out = append(out, t)
		}
	}
	return out
}

// fire runs the oldest active timer and reports whether there was one.
func (s *fakeScheduler) fire() bool {
	active := s.active()
	if len(active) == 0 {
		return false
	}
	t := active[0]
	t.fired = true
	t.f()
	return true
}

func frames(n int) storyboard.Storyboard {
	out := make(storyboard.Storyboard, n)
	for i := range out {
		out[i] = storyboard.Frame{
			Step: i,
			DataStructureState: storyboard.State{
				Values: []storyboard.Value{"1", "2"},
			},
		}
	}
	return out
}

func newTestPlayer(speed time.Duration) (*Player, *fakeScheduler) {
	s := &fakeScheduler{}
	return NewPlayer(storyboard.NewStore(), s, speed), s
}

func TestLoad(t *testing.T) {
	p, _ := newTestPlayer(100 * time.Millisecond)
	assert.Equal(t, Idle, p.Status().State)

	p.Load(frames(3))
	st := p.Status()
	assert.Equal(t, Paused, st.State)
	assert.Equal(t, 0, st.Cursor)
	assert.Equal(t, 3, st.Length)
	require.NotNil(t, st.Frame)
	assert.Equal(t, 0, st.Frame.Step)

	p.Load(nil)
	st = p.Status()
	assert.Equal(t, Idle, st.State)
	assert.Nil(t, st.Frame)
	assert.Equal(t, uint64(2), st.Load)
}

func TestPlayRunsToFinished(t *testing.T) {
	for _, n := range []int{2, 4, 7} {
		p, s := newTestPlayer(50 * time.Millisecond)
		p.Load(frames(n))
		require.True(t, p.Play())
		assert.Equal(t, Playing, p.Status().State)

		ticks := 0
		for s.fire() {
			ticks++
			assert.LessOrEqual(t, len(s.active()), 1, "more than one pending tick")
		}

		st := p.Status()
		assert.Equal(t, n-1, ticks)
		assert.Equal(t, Finished, st.State)
		assert.Equal(t, n-1, st.Cursor)
		assert.False(t, p.pending())
	}
}

func TestPlayIgnored(t *testing.T) {
	p, s := newTestPlayer(0)
	assert.False(t, p.Play(), "idle")

	p.Load(frames(1))
	assert.False(t, p.Play(), "single frame is already at the end")
	assert.Equal(t, Paused, p.Status().State)

	p.Load(frames(3))
	require.True(t, p.Play())
	assert.False(t, p.Play(), "already playing")
	assert.Len(t, s.active(), 1)

	for s.fire() {
	}
	assert.False(t, p.Play(), "finished")
	assert.Equal(t, Finished, p.Status().State)
}

func TestStepClamps(t *testing.T) {
	p, _ := newTestPlayer(0)
	assert.False(t, p.Next(), "idle")

	p.Load(frames(4))
	assert.False(t, p.Prev())
	assert.Equal(t, 0, p.Status().Cursor)

	for i := 0; i < 10; i++ {
		p.Next()
		st := p.Status()
		assert.GreaterOrEqual(t, st.Cursor, 0)
		assert.LessOrEqual(t, st.Cursor, 3)
	}
	st := p.Status()
	assert.Equal(t, 3, st.Cursor)
	assert.Equal(t, Paused, st.State)
	assert.False(t, p.Next())

	assert.True(t, p.Step(-10))
	assert.Equal(t, 0, p.Status().Cursor)
}

func TestStepDisabledWhilePlaying(t *testing.T) {
	p, _ := newTestPlayer(0)
	p.Load(frames(4))
	p.Play()

	assert.False(t, p.Next())
	assert.False(t, p.Prev())
	assert.Equal(t, 0, p.Status().Cursor)
}

func TestStepFromFinished(t *testing.T) {
	p, s := newTestPlayer(0)
	p.Load(frames(3))
	p.Play()
	for s.fire() {
	}
	require.Equal(t, Finished, p.Status().State)

	assert.False(t, p.Next())
	assert.Equal(t, Finished, p.Status().State)

	require.True(t, p.Prev())
	st := p.Status()
	assert.Equal(t, Paused, st.State)
	assert.Equal(t, 1, st.Cursor)

	require.True(t, p.Play())
	assert.True(t, s.fire())
	assert.Equal(t, Finished, p.Status().State)
}

func TestReset(t *testing.T) {
	p, s := newTestPlayer(0)
	assert.False(t, p.Reset(), "idle")

	p.Load(frames(5))
	p.Play()
	s.fire()
	s.fire()
	require.Equal(t, 2, p.Status().Cursor)
	stale := s.active()[0]

	require.True(t, p.Reset())
	st := p.Status()
	assert.Equal(t, Paused, st.State)
	assert.Equal(t, 0, st.Cursor)
	assert.False(t, p.pending())
	assert.Empty(t, s.active())

	// A timer that fires after being stopped must not advance.
	stale.f()
	assert.Equal(t, 0, p.Status().Cursor)

	require.True(t, p.Play())
	for s.fire() {
	}
	require.Equal(t, Finished, p.Status().State)
	require.True(t, p.Reset())
	assert.Equal(t, Paused, p.Status().State)
	assert.Equal(t, 0, p.Status().Cursor)
}

func TestPause(t *testing.T) {
	p, s := newTestPlayer(0)
	p.Load(frames(5))
	assert.False(t, p.Pause())

	p.Play()
	s.fire()
	require.True(t, p.Pause())
	st := p.Status()
	assert.Equal(t, Paused, st.State)
	assert.Equal(t, 1, st.Cursor)
	assert.False(t, s.fire())
}

func TestSetSpeedAppliesToNextTick(t *testing.T) {
	p, s := newTestPlayer(500 * time.Millisecond)
	p.Load(frames(4))
	p.Play()

	assert.False(t, p.SetSpeed(0))
	assert.False(t, p.SetSpeed(-time.Second))
	require.True(t, p.SetSpeed(100*time.Millisecond))

	active := s.active()
	require.Len(t, active, 1)
	assert.Equal(t, 500*time.Millisecond, active[0].d)

	s.fire()
	active = s.active()
	require.Len(t, active, 1)
	assert.Equal(t, 100*time.Millisecond, active[0].d)
	assert.Equal(t, 100*time.Millisecond, p.Status().Speed)
}

func TestLoadWhilePlayingCancelsTick(t *testing.T) {
	p, s := newTestPlayer(0)
	p.Load(frames(5))
	p.Play()
	s.fire()
	stale := s.active()[0]

	p.Load(frames(3))
	assert.Empty(t, s.active())
	stale.f()

	st := p.Status()
	assert.Equal(t, Paused, st.State)
	assert.Equal(t, 0, st.Cursor)
	assert.Equal(t, 3, st.Length)
}

func TestSubscribe(t *testing.T) {
	p, s := newTestPlayer(0)
	var seen []Status
	p.Subscribe(func(st Status) { seen = append(seen, st) })

	p.Load(frames(3))
	p.Play()
	for s.fire() {
	}
	p.Prev()
	p.Prev()
	p.Prev() // clamped, no change

	states := make([]State, len(seen))
	cursors := make([]int, len(seen))
	for i, st := range seen {
		states[i] = st.State
		cursors[i] = st.Cursor
	}
	assert.Equal(t, []State{Paused, Playing, Playing, Finished, Paused, Paused}, states)
	assert.Equal(t, []int{0, 0, 1, 2, 1, 0}, cursors)
}

func TestSpeedFromControl(t *testing.T) {
	fast, slow := 100*time.Millisecond, 2*time.Second
	tests := []struct {
		value int
		want  time.Duration
	}{
		{1, slow},
		{10, fast},
		{-5, slow},
		{99, fast},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SpeedFromControl(tt.value, 1, 10, fast, slow), "value %d", tt.value)
	}

	mid := SpeedFromControl(5, 1, 10, fast, slow)
	assert.Less(t, mid, slow)
	assert.Greater(t, mid, fast)
	assert.Less(t, SpeedFromControl(6, 1, 10, fast, slow), mid)
}

func TestDo(t *testing.T) {
	p, s := newTestPlayer(time.Second)
	p.Load(frames(3))

	changed, err := p.Do("play")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Len(t, s.active(), 1)

	changed, err = p.Do("next")
	require.NoError(t, err)
	assert.False(t, changed, "stepping is disabled while playing")

	changed, err = p.Do("pause")
	require.NoError(t, err)
	assert.True(t, changed)

	_, err = p.Do("rewind")
	assert.ErrorIs(t, err, ErrUnknownAction)

	for _, a := range Actions {
		_, err := p.Do(a)
		assert.NoError(t, err, a)
	}
}

func TestSpeedControl(t *testing.T) {
	c := SpeedControl{Min: 1, Max: 10, Fastest: 100 * time.Millisecond, Slowest: 2 * time.Second}
	assert.Equal(t, c.Slowest, c.Speed(1))
	assert.Equal(t, c.Fastest, c.Speed(10))
	for v := c.Min; v <= c.Max; v++ {
		assert.Equal(t, v, c.Value(c.Speed(v)), "value %d", v)
	}
	assert.Equal(t, c.Max, c.Value(time.Millisecond))
	assert.Equal(t, c.Min, c.Value(time.Hour))
}

func TestObserverCallingBackSeesLatestStatusLast(t *testing.T) {
	p, s := newTestPlayer(time.Second)
	p.Load(frames(4))

	p.Subscribe(func(st Status) {
		if st.State == Playing && st.Cursor == 2 {
			p.Reset()
		}
	})
	var got []Status
	p.Subscribe(func(st Status) {
		got = append(got, st)
	})

	require.True(t, p.Play())
	require.True(t, s.fire())
	require.True(t, s.fire())

	require.Len(t, got, 4)
	assert.Equal(t, Playing, got[2].State)
	assert.Equal(t, 2, got[2].Cursor)
	last := got[len(got)-1]
	assert.Equal(t, Paused, last.State)
	assert.Equal(t, 0, last.Cursor)
	assert.Equal(t, p.Status().State, last.State)
	assert.Empty(t, s.active())
}

func TestConcurrentTickAndResetDeliverInOrder(t *testing.T) {
	for i := 0; i < 200; i++ {
		p, s := newTestPlayer(time.Second)
		p.Load(frames(4))

		var mu sync.Mutex
		var last Status
		p.Subscribe(func(st Status) {
			mu.Lock()
			last = st
			mu.Unlock()
		})
		require.True(t, p.Play())
		active := s.active()
		require.Len(t, active, 1)
		tick := active[0].f

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			tick()
		}()
		go func() {
			defer wg.Done()
			p.Reset()
		}()
		wg.Wait()

		now := p.Status()
		mu.Lock()
		assert.Equal(t, now.State, last.State, "iteration %d", i)
		assert.Equal(t, now.Cursor, last.Cursor, "iteration %d", i)
		mu.Unlock()
	}
}
