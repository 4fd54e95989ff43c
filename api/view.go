package api

import (
	"github.com/matt-g-everett/algoviz/listing"
	"github.com/matt-g-everett/algoviz/playback"
	"github.com/matt-g-everett/algoviz/scene"
	"github.com/matt-g-everett/algoviz/session"
)

type elementBody struct {
	Key        int     `json:"key"`
	Value      string  `json:"value"`
	Role       string  `json:"role"`
	Fill       string  `json:"fill"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Lift       float64 `json:"lift"`
	Transition string  `json:"transition"`
	FromFill   string  `json:"from_fill"`
	FromX      float64 `json:"from_x"`
	FromY      float64 `json:"from_y"`
	FromLift   float64 `json:"from_lift"`
	DurationMs int64   `json:"duration_ms"`
}

type viewBody struct {
	State        string          `json:"state"`
	Cursor       int             `json:"cursor"`
	Length       int             `json:"length"`
	SpeedMs      int64           `json:"speed_ms"`
	SpeedControl int             `json:"speed_control"`
	Loading      bool            `json:"loading"`
	Error        string          `json:"error,omitempty"`
	Counter      string          `json:"counter,omitempty"`
	Step         int             `json:"step"`
	Explanation  string          `json:"explanation"`
	Elements     []elementBody   `json:"elements"`
	Exits        []elementBody   `json:"exits,omitempty"`
	Violations   []string        `json:"violations,omitempty"`
	Listing      listing.Listing `json:"listing"`
}

func newElementBody(e scene.Element) elementBody {
	return elementBody{
		Key:        e.Key,
		Value:      e.Value.String(),
		Role:       string(e.Role),
		Fill:       e.Fill.Hex(),
		X:          e.Position.X,
		Y:          e.Position.Y,
		Lift:       e.Lift,
		Transition: e.Transition.Kind.String(),
		FromFill:   e.Transition.FromFill.Hex(),
		FromX:      e.Transition.FromPosition.X,
		FromY:      e.Transition.FromPosition.Y,
		FromLift:   e.Transition.FromLift,
		DurationMs: e.Transition.Duration.Milliseconds(),
	}
}

func newViewBody(v session.View, speed playback.SpeedControl) viewBody {
	b := viewBody{
		State:        v.Status.State.String(),
		Cursor:       v.Status.Cursor,
		Length:       v.Status.Length,
		SpeedMs:      v.Status.Speed.Milliseconds(),
		SpeedControl: speed.Value(v.Status.Speed),
		Loading:      v.Loading,
		Error:        v.Error,
		Counter:      v.Counter,
		Step:         v.Scene.Step,
		Explanation:  v.Scene.Explanation,
		Elements:     make([]elementBody, 0, len(v.Scene.Elements)),
		Listing:      v.Listing,
	}
	for _, e := range v.Scene.Elements {
		b.Elements = append(b.Elements, newElementBody(e))
	}
	for _, e := range v.Scene.Exits {
		b.Exits = append(b.Exits, newElementBody(e))
	}
	for _, violation := range v.Scene.Violations {
		b.Violations = append(b.Violations, violation.String())
	}
	return b
}
