package interact

import "math"

// Default zoom bounds.
const (
	DefaultMinScale = 0.1
	DefaultMaxScale = 4.0

	// wheelRate converts a wheel delta into a scale exponent: one notch of
	// 120 units zooms by 2^(-0.24).
	wheelRate = 0.002
)

// Point is a 2D coordinate. Whether it is in screen or graph space depends
// on context.
type Point struct {
	X, Y float64
}

func (p Point) finite() bool { return finite(p.X) && finite(p.Y) }

// Transform maps graph coordinates to screen coordinates: a uniform scale K
// followed by a translation (X, Y).
type Transform struct {
	X, Y float64
	K    float64
}

// Identity is the transform that leaves coordinates unchanged.
var Identity = Transform{K: 1}

// Apply maps a graph point to screen space.
func (t Transform) Apply(p Point) Point {
	return Point{X: p.X*t.K + t.X, Y: p.Y*t.K + t.Y}
}

// Invert maps a screen point back to graph space.
func (t Transform) Invert(p Point) Point {
	return Point{X: (p.X - t.X) / t.K, Y: (p.Y - t.Y) / t.K}
}

// Zoom holds the scale bounds every transform change is clamped to.
type Zoom struct {
	MinScale float64
	MaxScale float64
}

// DefaultZoom returns the default zoom bounds [0.1, 4].
func DefaultZoom() Zoom {
	return Zoom{MinScale: DefaultMinScale, MaxScale: DefaultMaxScale}
}

func (z Zoom) bounds() (lo, hi float64) {
	lo, hi = z.MinScale, z.MaxScale
	if lo <= 0 || !finite(lo) {
		lo = DefaultMinScale
	}
	if hi <= 0 || !finite(hi) {
		hi = DefaultMaxScale
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}

// Clamp limits k to [MinScale, MaxScale]. NaN clamps to 1 within bounds.
func (z Zoom) Clamp(k float64) float64 {
	lo, hi := z.bounds()
	if math.IsNaN(k) {
		k = 1
	}
	return math.Max(lo, math.Min(hi, k))
}

// ScaleTo sets the scale to k while keeping the graph point under anchor
// fixed on screen. Non-finite input leaves t unchanged.
func (z Zoom) ScaleTo(t Transform, k float64, anchor Point) Transform {
	if math.IsNaN(k) || !anchor.finite() {
		return z.normalize(t)
	}
	t = z.normalize(t)
	g := t.Invert(anchor)
	k = z.Clamp(k)
	return Transform{X: anchor.X - g.X*k, Y: anchor.Y - g.Y*k, K: k}
}

// ScaleBy multiplies the scale by factor around anchor. Negative or NaN
// factors leave t unchanged; zero and infinite factors clamp to the bounds.
func (z Zoom) ScaleBy(t Transform, factor float64, anchor Point) Transform {
	if math.IsNaN(factor) || factor < 0 {
		return z.normalize(t)
	}
	t = z.normalize(t)
	return z.ScaleTo(t, t.K*factor, anchor)
}

// Wheel applies a mouse wheel delta around anchor. Positive deltas zoom out.
func (z Zoom) Wheel(t Transform, delta float64, anchor Point) Transform {
	if math.IsNaN(delta) {
		return z.normalize(t)
	}
	return z.ScaleBy(t, math.Exp2(-delta*wheelRate), anchor)
}

// Pan translates the view by a screen-space offset.
func (z Zoom) Pan(t Transform, dx, dy float64) Transform {
	t = z.normalize(t)
	if !finite(dx) || !finite(dy) {
		return t
	}
	t.X += dx
	t.Y += dy
	return t
}

// Fit returns a transform showing the graph rectangle [lo, hi] centred in a
// width x height viewport with padding on every side.
func (z Zoom) Fit(lo, hi Point, width, height, padding float64) Transform {
	if !lo.finite() || !hi.finite() || width <= 0 || height <= 0 {
		return Identity
	}
	bw, bh := hi.X-lo.X, hi.Y-lo.Y
	k := 1.0
	aw, ah := width-2*padding, height-2*padding
	if aw <= 0 || ah <= 0 {
		aw, ah = width, height
	}
	switch {
	case bw > 0 && bh > 0:
		k = math.Min(aw/bw, ah/bh)
	case bw > 0:
		k = aw / bw
	case bh > 0:
		k = ah / bh
	}
	k = z.Clamp(k)
	cx, cy := (lo.X+hi.X)/2, (lo.Y+hi.Y)/2
	return Transform{X: width/2 - cx*k, Y: height/2 - cy*k, K: k}
}

// normalize repairs a transform with a scale outside the bounds or
// non-finite components.
func (z Zoom) normalize(t Transform) Transform {
	if !finite(t.X) {
		t.X = 0
	}
	if !finite(t.Y) {
		t.Y = 0
	}
	if !finite(t.K) {
		t.K = 1
	}
	t.K = z.Clamp(t.K)
	return t
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
