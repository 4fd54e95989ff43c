package scene

import (
	"sync"

	"github.com/matt-g-everett/algoviz/playback"
)

// Tracker remembers the scene on display so each new frame is rendered
// against it. A new storyboard load drops the remembered scene.
type Tracker struct {
	mu       sync.Mutex
	renderer *Renderer
	last     *Scene
	load     uint64
	cursor   int
}

// NewTracker creates a Tracker using r.
func NewTracker(r *Renderer) *Tracker {
	t := new(Tracker)
	t.renderer = r
	return t
}

// Update returns the scene for st. Calling it again with the same load and
// cursor returns the same scene.
func (t *Tracker) Update(st playback.Status) Scene {
	t.mu.Lock()
	defer t.mu.Unlock()

	if st.Frame == nil {
		t.last = nil
		t.load = st.Load
		return Scene{}
	}
	if t.last != nil && t.load == st.Load && t.cursor == st.Cursor {
		return *t.last
	}

	var prev *Scene
	if t.last != nil && t.load == st.Load {
		prev = t.last
	}
	s := t.renderer.Render(prev, st.Frame)
	t.last = &s
	t.load = st.Load
	t.cursor = st.Cursor
	return s
}
