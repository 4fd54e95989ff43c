package stream

import (
	"encoding/binary"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matt-g-everett/algoviz/scene"
)

// Frame is one rendered step as a strip of pixels, one per element, each
// with the height it is lifted by.
type Frame struct {
	pixels []colorful.Color
	lift   []float64
}

// NewFrame creates a Frame from sampled elements.
func NewFrame(samples []scene.Sample) *Frame {
	f := new(Frame)
	f.pixels = make([]colorful.Color, len(samples))
	f.lift = make([]float64, len(samples))
	for i, s := range samples {
		f.pixels[i] = s.Fill
		f.lift[i] = s.Lift
	}
	return f
}

// Len is the number of pixels.
func (f *Frame) Len() int {
	return len(f.pixels)
}

// MarshalBinary encodes the frame as a little endian uint16 pixel count
// followed by R, G, B and lift bytes for each pixel. Lift is rounded and
// clamped to a byte.
func (f *Frame) MarshalBinary() (data []byte, err error) {
	data = make([]byte, 2, (len(f.pixels)*4)+2)
	binary.LittleEndian.PutUint16(data, uint16(len(f.pixels)))
	for i, p := range f.pixels {
		r, g, b := p.Clamped().RGB255()
		lift := math.Round(math.Max(0, math.Min(255, f.lift[i])))
		data = append(data, r, g, b, byte(lift))
	}

	return data, nil
}
