package playback

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownAction is returned by Do for an action it does not recognise.
var ErrUnknownAction = errors.New("playback: unknown action")

// Actions lists the names accepted by Do.
var Actions = []string{"play", "pause", "next", "prev", "reset"}

// Do applies a named control action. It reports whether the player changed.
func (p *Player) Do(action string) (bool, error) {
	switch action {
	case "play":
		return p.Play(), nil
	case "pause":
		return p.Pause(), nil
	case "next":
		return p.Next(), nil
	case "prev":
		return p.Prev(), nil
	case "reset":
		return p.Reset(), nil
	}
	return false, fmt.Errorf("%w: %q", ErrUnknownAction, action)
}

// SpeedControl describes the speed slider shown to users.
type SpeedControl struct {
	Min     int
	Max     int
	Fastest time.Duration
	Slowest time.Duration
}

// Speed converts a slider value to a tick interval.
func (c SpeedControl) Speed(value int) time.Duration {
	return SpeedFromControl(value, c.Min, c.Max, c.Fastest, c.Slowest)
}

// Value is the slider position closest to d.
func (c SpeedControl) Value(d time.Duration) int {
	if c.Max <= c.Min || c.Slowest <= c.Fastest {
		return c.Max
	}
	frac := float64(c.Slowest-d) / float64(c.Slowest-c.Fastest)
	v := c.Min + int(frac*float64(c.Max-c.Min)+0.5)
	if v < c.Min {
		return c.Min
	}
	if v > c.Max {
		return c.Max
	}
	return v
}
