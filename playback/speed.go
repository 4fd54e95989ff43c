package playback

import "time"

// SpeedFromControl maps a slider value in [lo, hi] to a tick interval.
// The mapping is inverted so that a larger value plays faster: lo gives
// slowest and hi gives fastest. Values outside the range are clamped.
func SpeedFromControl(value, lo, hi int, fastest, slowest time.Duration) time.Duration {
	if hi <= lo {
		return fastest
	}
	if value < lo {
		value = lo
	}
	if value > hi {
		value = hi
	}
	span := slowest - fastest
	frac := float64(value-lo) / float64(hi-lo)
	return slowest - time.Duration(frac*float64(span))
}
