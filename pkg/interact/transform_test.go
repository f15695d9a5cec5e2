package interact

import (
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestTransformApplyInvert(t *testing.T) {
	tr := Transform{X: 40, Y: -15, K: 2.5}
	p := Point{X: 12, Y: 7}
	s := tr.Apply(p)
	if s.X != 70 || s.Y != 2.5 {
		t.Errorf("Apply = %v, want {70 2.5}", s)
	}
	back := tr.Invert(s)
	if !near(back.X, p.X) || !near(back.Y, p.Y) {
		t.Errorf("Invert(Apply(p)) = %v, want %v", back, p)
	}
}

func TestZoomClampsExtremeInput(t *testing.T) {
	z := DefaultZoom()
	anchor := Point{X: 400, Y: 300}

	tests := []struct {
		name string
		do   func(Transform) Transform
		want float64
	}{
		{"huge wheel out", func(tr Transform) Transform { return z.Wheel(tr, 1e12, anchor) }, DefaultMinScale},
		{"huge wheel in", func(tr Transform) Transform { return z.Wheel(tr, -1e12, anchor) }, DefaultMaxScale},
		{"infinite wheel in", func(tr Transform) Transform { return z.Wheel(tr, math.Inf(-1), anchor) }, DefaultMaxScale},
		{"scale by zero", func(tr Transform) Transform { return z.ScaleBy(tr, 0, anchor) }, DefaultMinScale},
		{"scale by huge", func(tr Transform) Transform { return z.ScaleBy(tr, 1e300, anchor) }, DefaultMaxScale},
		{"scale to tiny", func(tr Transform) Transform { return z.ScaleTo(tr, 1e-9, anchor) }, DefaultMinScale},
		{"scale to negative", func(tr Transform) Transform { return z.ScaleTo(tr, -3, anchor) }, DefaultMinScale},
		{"NaN wheel ignored", func(tr Transform) Transform { return z.Wheel(tr, math.NaN(), anchor) }, 1},
		{"negative factor ignored", func(tr Transform) Transform { return z.ScaleBy(tr, -2, anchor) }, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.do(Identity)
			if got.K != tt.want {
				t.Errorf("K = %v, want %v", got.K, tt.want)
			}
			if got.K < DefaultMinScale || got.K > DefaultMaxScale {
				t.Errorf("K = %v escaped [%v, %v]", got.K, DefaultMinScale, DefaultMaxScale)
			}
			if !finite(got.X) || !finite(got.Y) {
				t.Errorf("translation not finite: %+v", got)
			}
		})
	}
}

func TestZoomRepeatedWheelStaysInBounds(t *testing.T) {
	z := Zoom{MinScale: 0.5, MaxScale: 2}
	tr := Identity
	for i := range 500 {
		delta := 240.0
		if i%3 == 0 {
			delta = -720
		}
		tr = z.Wheel(tr, delta, Point{X: float64(i), Y: 10})
		if tr.K < 0.5 || tr.K > 2 {
			t.Fatalf("step %d: K = %v out of bounds", i, tr.K)
		}
	}
}

func TestZoomKeepsAnchorFixed(t *testing.T) {
	z := DefaultZoom()
	tr := Transform{X: 20, Y: 30, K: 1.5}
	anchor := Point{X: 310, Y: 205}
	before := tr.Invert(anchor)

	tr = z.Wheel(tr, -120, anchor)
	after := tr.Invert(anchor)
	if !near(before.X, after.X) || !near(before.Y, after.Y) {
		t.Errorf("graph point under anchor moved from %v to %v", before, after)
	}
	if tr.K <= 1.5 {
		t.Errorf("negative delta should zoom in, K = %v", tr.K)
	}
}

func TestZoomPan(t *testing.T) {
	z := DefaultZoom()
	tr := z.Pan(Identity, 15, -5)
	if tr.X != 15 || tr.Y != -5 || tr.K != 1 {
		t.Errorf("Pan = %+v", tr)
	}
	if got := z.Pan(tr, math.Inf(1), 0); got != tr {
		t.Errorf("non-finite pan should be ignored, got %+v", got)
	}
}

func TestZoomFit(t *testing.T) {
	z := DefaultZoom()
	tr := z.Fit(Point{X: 0, Y: 0}, Point{X: 400, Y: 200}, 800, 600, 0)
	if tr.K != 2 {
		t.Errorf("K = %v, want 2", tr.K)
	}
	c := tr.Apply(Point{X: 200, Y: 100})
	if !near(c.X, 400) || !near(c.Y, 300) {
		t.Errorf("centre maps to %v, want {400 300}", c)
	}

	single := z.Fit(Point{X: 5, Y: 5}, Point{X: 5, Y: 5}, 800, 600, 20)
	if single.K != 1 {
		t.Errorf("single point K = %v, want 1", single.K)
	}

	wide := z.Fit(Point{X: 0, Y: 0}, Point{X: 1e6, Y: 1}, 800, 600, 0)
	if wide.K != DefaultMinScale {
		t.Errorf("K = %v, want clamp to %v", wide.K, DefaultMinScale)
	}
}

func TestZoomClampCustomBounds(t *testing.T) {
	tests := []struct {
		zoom Zoom
		in   float64
		want float64
	}{
		{Zoom{MinScale: 0.5, MaxScale: 2}, 10, 2},
		{Zoom{MinScale: 0.5, MaxScale: 2}, 0.01, 0.5},
		{Zoom{MinScale: 2, MaxScale: 0.5}, 10, 2},
		{Zoom{}, 100, DefaultMaxScale},
		{Zoom{}, math.NaN(), 1},
	}
	for _, tt := range tests {
		if got := tt.zoom.Clamp(tt.in); got != tt.want {
			t.Errorf("%+v.Clamp(%v) = %v, want %v", tt.zoom, tt.in, got, tt.want)
		}
	}
}
