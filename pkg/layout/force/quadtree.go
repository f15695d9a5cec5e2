package force

import "math"

// maxQuadDepth bounds subdivision so coincident points end up sharing a leaf
// instead of splitting forever.
const maxQuadDepth = 32

// quad is a Barnes-Hut cell. Leaves hold point indices; internal cells hold
// up to four children. Every cell carries the count and centroid of the
// points below it.
type quad struct {
	x0, y0, x1, y1 float64
	children       [4]*quad
	points         []int
	count          int
	cx, cy         float64
}

func (q *quad) leaf() bool { return q.points != nil }

func (q *quad) contains(x, y float64) bool {
	return x >= q.x0 && x <= q.x1 && y >= q.y0 && y <= q.y1
}

// buildQuadtree indexes the given positions. The root is a square covering
// every point so cells stay square as they split.
func buildQuadtree(xs, ys []float64) *quad {
	if len(xs) == 0 {
		return nil
	}
	x0, y0 := math.Inf(1), math.Inf(1)
	x1, y1 := math.Inf(-1), math.Inf(-1)
	for i := range xs {
		x0, x1 = math.Min(x0, xs[i]), math.Max(x1, xs[i])
		y0, y1 = math.Min(y0, ys[i]), math.Max(y1, ys[i])
	}
	size := math.Max(x1-x0, y1-y0)
	if size == 0 {
		size = 1
	}
	idx := make([]int, len(xs))
	for i := range idx {
		idx[i] = i
	}
	return subdivide(idx, xs, ys, x0, y0, x0+size, y0+size, 0)
}

func subdivide(idx []int, xs, ys []float64, x0, y0, x1, y1 float64, depth int) *quad {
	q := &quad{x0: x0, y0: y0, x1: x1, y1: y1, count: len(idx)}
	for _, i := range idx {
		q.cx += xs[i]
		q.cy += ys[i]
	}
	q.cx /= float64(len(idx))
	q.cy /= float64(len(idx))

	if len(idx) == 1 || depth >= maxQuadDepth {
		q.points = idx
		return q
	}

	mx, my := (x0+x1)/2, (y0+y1)/2
	var parts [4][]int
	for _, i := range idx {
		k := 0
		if xs[i] >= mx {
			k |= 1
		}
		if ys[i] >= my {
			k |= 2
		}
		parts[k] = append(parts[k], i)
	}
	for k, part := range parts {
		if len(part) == 0 {
			continue
		}
		cx0, cx1 := x0, mx
		if k&1 != 0 {
			cx0, cx1 = mx, x1
		}
		cy0, cy1 := y0, my
		if k&2 != 0 {
			cy0, cy1 = my, y1
		}
		q.children[k] = subdivide(part, xs, ys, cx0, cy0, cx1, cy1, depth+1)
	}
	return q
}
