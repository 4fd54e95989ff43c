package scene

import (
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matt-g-everett/algoviz/storyboard"
	"github.com/matt-g-everett/algoviz/util"
)

// TransitionKind says how an element arrives in a scene.
type TransitionKind int

const (
	// Enter creates the element in place, with no transition in.
	Enter TransitionKind = iota
	// Update animates the element from its state in the previous scene.
	Update
	// Exit removes an element that has no counterpart in the new scene.
	Exit
)

func (k TransitionKind) String() string {
	switch k {
	case Enter:
		return "enter"
	case Update:
		return "update"
	case Exit:
		return "exit"
	}
	return "unknown"
}

// Transition describes where an element animates from.
type Transition struct {
	Kind         TransitionKind
	FromFill     colorful.Color
	FromPosition Point
	FromLift     float64
	Duration     time.Duration
}

// Element is one visual cell. Key is the positional index in the frame's
// values and is the element's identity across scenes.
type Element struct {
	Key        int
	Value      storyboard.Value
	Role       storyboard.Category
	Fill       colorful.Color
	Position   Point
	Lift       float64
	Transition Transition
}

// Scene is the rendering of one frame.
type Scene struct {
	Step        int
	Explanation string
	Elements    []Element
	// Exits are elements of the previous scene dropped when identity
	// tracking restarted.
	Exits []Element
	// Restarted is set when the previous scene could not be matched by
	// position and every element entered afresh.
	Restarted  bool
	Violations []storyboard.Violation
}

// Sample is an element's visual state part way through its transition.
type Sample struct {
	Key      int
	Value    storyboard.Value
	Fill     colorful.Color
	Position Point
	Lift     float64
}

// Duration is the longest transition in the scene.
func (s *Scene) Duration() time.Duration {
	var d time.Duration
	for _, e := range s.Elements {
		if e.Transition.Duration > d {
			d = e.Transition.Duration
		}
	}
	return d
}

// Settled reports whether every transition has completed after elapsed.
func (s *Scene) Settled(elapsed time.Duration) bool {
	return elapsed >= s.Duration()
}

// Sample interpolates every element elapsed into its transition.
func (s *Scene) Sample(elapsed time.Duration, easing util.Easing) []Sample {
	out := make([]Sample, len(s.Elements))
	for i, e := range s.Elements {
		t := 1.0
		if e.Transition.Kind == Update && e.Transition.Duration > 0 {
			t = util.Clamp01(float64(elapsed) / float64(e.Transition.Duration))
		}
		t = easing(t)
		out[i] = Sample{
			Key:      e.Key,
			Value:    e.Value,
			Fill:     e.Transition.FromFill.BlendHcl(e.Fill, t).Clamped(),
			Position: lerpPoint(e.Transition.FromPosition, e.Position, t),
			Lift:     lerp(e.Transition.FromLift, e.Lift, t),
		}
	}
	return out
}
