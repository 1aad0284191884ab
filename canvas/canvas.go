package canvas

// A4 page at 96 DPI.
const (
	Width  = 794
	Height = 1123
)

// Point is a pointer position in canvas coordinates (origin top-left).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is the box of a placed element, in pixels relative to the canvas.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Origin returns the top-left corner of the rectangle.
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// MoveTo returns a copy of r with its top-left corner at p.
func (r Rect) MoveTo(p Point) Rect {
	r.X, r.Y = p.X, p.Y
	return r
}

// Contains reports whether p lies inside r (edges included).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Canvas is a bounded surface on which elements are positioned.
type Canvas struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// A4 is the only surface the application uses.
var A4 = Canvas{Width: Width, Height: Height}

// Clamp keeps an element of the given size inside the canvas. Each axis is
// clamped independently to [0, dimension-size]; when the element is larger
// than the canvas the range is inverted and the coordinate is pinned to 0.
func (c Canvas) Clamp(p Point, w, h float64) Point {
	return Point{
		X: clamp(p.X, c.Width-w),
		Y: clamp(p.Y, c.Height-h),
	}
}

// Fits reports whether r already lies within the canvas bounds.
func (c Canvas) Fits(r Rect) bool {
	return c.Clamp(r.Origin(), r.W, r.H) == r.Origin()
}

func clamp(v, max float64) float64 {
	if v > max {
		v = max
	}
	if v < 0 {
		v = 0
	}
	return v
}
