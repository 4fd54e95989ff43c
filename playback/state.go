package playback

import (
	"time"

	"github.com/matt-g-everett/algoviz/storyboard"
)

// State of a Player.
type State int

const (
	// Idle means no storyboard is loaded.
	Idle State = iota
	// Paused means a storyboard is loaded and the cursor is fixed.
	Paused
	// Playing means a tick is pending and the cursor advances on it.
	Playing
	// Finished is Paused reached by playing through the last frame.
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Paused:
		return "paused"
	case Playing:
		return "playing"
	case Finished:
		return "finished"
	}
	return "unknown"
}

// MarshalText lets State appear by name in JSON views.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Status is a snapshot of a Player.
type Status struct {
	State  State         `json:"state"`
	Cursor int           `json:"cursor"`
	Length int           `json:"length"`
	Speed  time.Duration `json:"speed"`
	// Load increments each time a storyboard is loaded, so observers can tell
	// a fresh storyboard from a cursor move.
	Load  uint64            `json:"load"`
	Frame *storyboard.Frame `json:"frame,omitempty"`
}

// AtEnd reports whether the cursor is on the last frame.
func (s Status) AtEnd() bool {
	return s.Length > 0 && s.Cursor == s.Length-1
}
