package util

import (
	"math"

	"github.com/fogleman/ease"
)

// Easing maps linear progress in [0, 1] to eased progress.
type Easing func(t float64) float64

var easings = map[string]Easing{
	"linear":       ease.Linear,
	"in-out-quad":  ease.InOutQuad,
	"in-out-cubic": ease.InOutCubic,
	"in-out-sine":  ease.InOutSine,
	"out-quad":     ease.OutQuad,
	"out-cubic":    ease.OutCubic,
}

// DefaultEasing is the curve used for element transitions.
const DefaultEasing = "in-out-quad"

// LookupEasing finds a named curve.
func LookupEasing(name string) (Easing, bool) {
	e, ok := easings[name]
	return e, ok
}

// Clamp01 limits t to [0, 1].
func Clamp01(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}

// GenerateLut samples fn at length evenly spaced points from 0 to 1 inclusive.
func GenerateLut(length int, fn Easing) []float64 {
	if length <= 0 {
		return nil
	}
	lut := make([]float64, length)
	if length == 1 {
		lut[0] = fn(1)
		return lut
	}
	increment := 1.0 / float64(length-1)
	for i := 0; i < length; i++ {
		lut[i] = fn(float64(i) * increment)
	}
	return lut
}

// LutEasing returns an Easing that reads the nearest entry of lut.
func LutEasing(lut []float64) Easing {
	if len(lut) == 0 {
		return ease.Linear
	}
	last := float64(len(lut) - 1)
	return func(t float64) float64 {
		return lut[int(math.Round(Clamp01(t)*last))]
	}
}
