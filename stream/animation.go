package stream

import (
	"math"
	"sync"
	"time"

	"github.com/matt-g-everett/algoviz/scene"
	"github.com/matt-g-everett/algoviz/util"
)

// Animation plays the transition into the latest scene one frame at a time.
type Animation struct {
	mu        sync.Mutex
	interval  time.Duration
	easing    util.Easing
	scene     scene.Scene
	elapsed   time.Duration
	remaining int
}

// NewAnimation creates an Animation advancing by one frame at frameRate.
func NewAnimation(frameRate float64, easing util.Easing) *Animation {
	a := new(Animation)
	if frameRate <= 0 {
		frameRate = 30
	}
	a.interval = time.Duration(float64(time.Second) / frameRate)
	a.easing = easing
	return a
}

// Interval is the time between frames.
func (a *Animation) Interval() time.Duration {
	return a.interval
}

// Show starts the transition into s. Frames are produced until the slowest
// element has settled.
func (a *Animation) Show(s scene.Scene) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.scene = s
	a.elapsed = 0
	a.remaining = int(math.Ceil(float64(s.Duration())/float64(a.interval))) + 1
}

// CalculateFrame returns the next frame, or nil when the scene has settled
// and already been sent.
func (a *Animation) CalculateFrame() *Frame {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.remaining == 0 {
		return nil
	}
	f := NewFrame(a.scene.Sample(a.elapsed, a.easing))
	a.elapsed += a.interval
	a.remaining--
	return f
}
