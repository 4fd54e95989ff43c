package scene

// Point is a position in scene units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func lerpPoint(a, b Point, t float64) Point {
	return Point{X: lerp(a.X, b.X, t), Y: lerp(a.Y, b.Y, t)}
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Layout places n cells left to right, centred on x = 0.
type Layout struct {
	CellWidth float64
	Gap       float64
}

// Position is the resting position of cell i of n.
func (l Layout) Position(i, n int) Point {
	pitch := l.CellWidth + l.Gap
	return Point{X: (float64(i) - float64(n-1)/2) * pitch}
}
