package scene

import (
	"fmt"
	"time"

	"github.com/matt-g-everett/algoviz/storyboard"
)

// Renderer maps frames to scenes. It holds only configuration, so Render
// is a pure function of its arguments.
type Renderer struct {
	Palette Palette
	Layout  Layout
	// Duration of element transitions between consecutive scenes.
	Duration time.Duration
	// LiftHeight is how far a swapping element is raised.
	LiftHeight float64
}

// NewRenderer creates a Renderer with the default palette and layout.
func NewRenderer() *Renderer {
	r := new(Renderer)
	r.Palette = DefaultPalette()
	r.Layout = Layout{CellWidth: 56, Gap: 12}
	r.Duration = 300 * time.Millisecond
	r.LiftHeight = 8
	return r
}

// Render builds the scene for f. prev is the scene currently on display, or
// nil when f is the first frame of a freshly loaded storyboard.
//
// Highlight indices outside the values are ignored and reported. When the
// number of values differs from prev, elements cannot be matched by
// position, so identity tracking restarts for this frame.
func (r *Renderer) Render(prev *Scene, f *storyboard.Frame) Scene {
	if f == nil {
		return Scene{}
	}

	values := f.DataStructureState.Values
	highlights := f.DataStructureState.Highlights
	n := len(values)

	s := Scene{
		Step:        f.Step,
		Explanation: f.Explanation,
		Elements:    make([]Element, n),
		Violations:  storyboard.InvalidIndices(f),
	}

	continuous := prev != nil && len(prev.Elements) == n
	if prev != nil && !continuous {
		s.Restarted = true
		s.Violations = append(s.Violations, storyboard.Violation{
			Kind:   storyboard.ShapeChanged,
			Step:   f.Step,
			Detail: fmt.Sprintf("values length changed from %d to %d", len(prev.Elements), n),
		})
		s.Exits = make([]Element, len(prev.Elements))
		for i, e := range prev.Elements {
			e.Transition = Transition{
				Kind:         Exit,
				FromFill:     e.Fill,
				FromPosition: e.Position,
				FromLift:     e.Lift,
				Duration:     r.Duration,
			}
			s.Exits[i] = e
		}
	}

	for i, v := range values {
		role := r.Palette.Role(highlights, i)
		e := Element{
			Key:      i,
			Value:    v,
			Role:     role,
			Fill:     r.Palette.Fill(role),
			Position: r.Layout.Position(i, n),
		}
		if highlights.Has(storyboard.Swapping, i) {
			e.Lift = r.LiftHeight
		}

		if continuous {
			from := prev.Elements[i]
			e.Transition = Transition{
				Kind:         Update,
				FromFill:     from.Fill,
				FromPosition: from.Position,
				FromLift:     from.Lift,
				Duration:     r.Duration,
			}
		} else {
			e.Transition = Transition{
				Kind:         Enter,
				FromFill:     e.Fill,
				FromPosition: e.Position,
				FromLift:     e.Lift,
			}
		}
		s.Elements[i] = e
	}

	return s
}
