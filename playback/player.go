package playback

import (
	"sync"
	"time"

	"github.com/matt-g-everett/algoviz/storyboard"
)

// DefaultSpeed is the tick interval used when none is configured.
const DefaultSpeed = 800 * time.Millisecond

// Player drives a cursor through the frames of a Store, either on demand or
// on a timer. Disallowed actions are ignored rather than reported as errors;
// each transition returns whether it changed anything.
type Player struct {
	mu        sync.Mutex
	store     *storyboard.Store
	scheduler Scheduler
	state     State
	cursor    int
	speed     time.Duration
	load      uint64

	// At most one tick is pending. tick is bumped on every cancel and
	// schedule so a timer that fires after being stopped is ignored.
	timer Timer
	tick  uint64

	observers  []func(Status)
	queue      []Status
	delivering bool
}

// NewPlayer creates an Idle Player over store.
func NewPlayer(store *storyboard.Store, scheduler Scheduler, speed time.Duration) *Player {
	p := new(Player)
	p.store = store
	p.scheduler = scheduler
	p.state = Idle
	p.speed = speed
	if p.speed <= 0 {
		p.speed = DefaultSpeed
	}
	return p
}

// Subscribe registers fn to be called with the new Status after every change.
// Statuses arrive in the order the changes happened. fn may call back into
// the Player; the resulting Status is delivered after the current one.
func (p *Player) Subscribe(fn func(Status)) {
	p.mu.Lock()
	p.observers = append(p.observers, fn)
	p.mu.Unlock()
}

// Status returns the current state.
func (p *Player) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.statusLocked()
}

// Load replaces the storyboard. Any pending tick is cancelled first. The
// Player ends Paused at cursor 0, or Idle when frames is empty.
func (p *Player) Load(frames storyboard.Storyboard) {
	p.update(func() bool {
		p.cancelLocked()
		p.store.Replace(frames)
		p.cursor = 0
		p.load++
		if len(frames) == 0 {
			p.state = Idle
		} else {
			p.state = Paused
		}
		return true
	})
}

// Clear unloads the storyboard.
func (p *Player) Clear() {
	p.Load(nil)
}

// Play starts automatic advance from Paused. It does nothing when Idle,
// already Playing, or when the cursor is on the last frame.
func (p *Player) Play() bool {
	return p.update(func() bool {
		if p.state != Paused {
			return false
		}
		if p.cursor >= p.store.Len()-1 {
			return false
		}
		p.state = Playing
		p.scheduleLocked()
		return true
	})
}

// Pause stops automatic advance.
func (p *Player) Pause() bool {
	return p.update(func() bool {
		if p.state != Playing {
			return false
		}
		p.cancelLocked()
		p.state = Paused
		return true
	})
}

// Step moves the cursor by delta, clamped to the storyboard. Manual
// stepping is only allowed while Paused or Finished.
func (p *Player) Step(delta int) bool {
	return p.update(func() bool {
		if p.state != Paused && p.state != Finished {
			return false
		}
		last := p.store.Len() - 1
		next := p.cursor + delta
		if next < 0 {
			next = 0
		}
		if next > last {
			next = last
		}
		if next == p.cursor {
			return false
		}
		p.cursor = next
		if p.cursor != last {
			p.state = Paused
		}
		return true
	})
}

// Next steps forward one frame.
func (p *Player) Next() bool {
	return p.Step(1)
}

// Prev steps back one frame.
func (p *Player) Prev() bool {
	return p.Step(-1)
}

// Reset rewinds to the first frame and pauses.
func (p *Player) Reset() bool {
	return p.update(func() bool {
		if p.state == Idle {
			return false
		}
		p.cancelLocked()
		p.cursor = 0
		p.state = Paused
		return true
	})
}

// SetSpeed sets the tick interval. A tick that is already pending keeps
// its original deadline; the new interval applies from the next one.
func (p *Player) SetSpeed(d time.Duration) bool {
	return p.update(func() bool {
		if d <= 0 || d == p.speed {
			return false
		}
		p.speed = d
		return true
	})
}

func (p *Player) onTick(seq uint64) {
	p.update(func() bool {
		if seq != p.tick || p.state != Playing {
			return false
		}
		p.timer = nil
		last := p.store.Len() - 1
		if p.cursor < last {
			p.cursor++
		}
		if p.cursor >= last {
			p.state = Finished
			return true
		}
		p.scheduleLocked()
		return true
	})
}

func (p *Player) scheduleLocked() {
	p.tick++
	seq := p.tick
	p.timer = p.scheduler.AfterFunc(p.speed, func() {
		p.onTick(seq)
	})
}

func (p *Player) cancelLocked() {
	p.tick++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

// pending reports whether a tick is scheduled.
func (p *Player) pending() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.timer != nil
}

func (p *Player) statusLocked() Status {
	st := Status{
		State:  p.state,
		Cursor: p.cursor,
		Length: p.store.Len(),
		Speed:  p.speed,
		Load:   p.load,
	}
	if p.state != Idle {
		if f, err := p.store.FrameAt(p.cursor); err == nil {
			st.Frame = &f
		}
	}
	return st
}

// update runs fn under the lock and, when fn reports a change, queues the
// new Status for observers. Statuses are delivered outside the lock in the
// order they were queued. A caller that finds delivery already running,
// including an observer calling back into the Player, leaves its Status to
// the running delivery.
func (p *Player) update(fn func() bool) bool {
	p.mu.Lock()
	if !fn() {
		p.mu.Unlock()
		return false
	}
	p.queue = append(p.queue, p.statusLocked())
	if p.delivering {
		p.mu.Unlock()
		return true
	}

	p.delivering = true
	for len(p.queue) > 0 {
		st := p.queue[0]
		p.queue = p.queue[1:]
		observers := make([]func(Status), len(p.observers))
		copy(observers, p.observers)
		p.mu.Unlock()

		for _, o := range observers {
			o(st)
		}

		p.mu.Lock()
	}
	p.delivering = false
	p.mu.Unlock()
	return true
}
