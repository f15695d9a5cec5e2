package force

import "math"

// jiggleScale is the magnitude of the random offset applied when two points
// coincide, so the force between them has a direction.
const jiggleScale = 1e-6

// accumulateLink adds spring contributions toward each edge's rest length.
// Stiffness is the edge strength divided by the smaller endpoint degree; the
// displacement is split between endpoints in proportion to degree so hubs
// move less.
func (e *Engine) accumulateLink(xs, ys, fx, fy []float64) {
	st := e.state
	for _, edge := range st.Edges {
		s, t := edge.Source, edge.Target
		dx := xs[t] - xs[s]
		dy := ys[t] - ys[s]
		if dx == 0 {
			dx = e.jiggle()
		}
		if dy == 0 {
			dy = e.jiggle()
		}
		l := math.Sqrt(dx*dx + dy*dy)
		ds, dt := float64(e.degree[s]), float64(e.degree[t])
		k := edge.Strength / math.Min(ds, dt)
		f := (l - e.cfg.TargetDistance(edge.Strength)) / l * k
		dx *= f
		dy *= f
		bias := ds / (ds + dt)
		fx[t] -= dx * bias
		fy[t] -= dy * bias
		fx[s] += dx * (1 - bias)
		fy[s] += dy * (1 - bias)
	}
}

// accumulateCharge adds the many-body contribution for every node using a
// Barnes-Hut quadtree over the start-of-tick positions.
func (e *Engine) accumulateCharge(xs, ys, fx, fy []float64) {
	root := buildQuadtree(xs, ys)
	if root == nil {
		return
	}
	theta2 := e.cfg.ChargeTheta * e.cfg.ChargeTheta
	dmin2 := e.cfg.ChargeDistanceMin * e.cfg.ChargeDistanceMin
	for i := range xs {
		gx, gy := e.charge(root, i, xs, ys, theta2, dmin2)
		fx[i] += gx
		fy[i] += gy
	}
}

func (e *Engine) charge(q *quad, i int, xs, ys []float64, theta2, dmin2 float64) (float64, float64) {
	xi, yi := xs[i], ys[i]
	if !q.leaf() {
		dx, dy := q.cx-xi, q.cy-yi
		l := dx*dx + dy*dy
		w := q.x1 - q.x0
		if !q.contains(xi, yi) && w*w/theta2 < l {
			if l < dmin2 {
				l = math.Sqrt(dmin2 * l)
			}
			f := e.cfg.ChargeStrength * float64(q.count) / l
			return dx * f, dy * f
		}
		var gx, gy float64
		for _, c := range q.children {
			if c == nil {
				continue
			}
			cx, cy := e.charge(c, i, xs, ys, theta2, dmin2)
			gx += cx
			gy += cy
		}
		return gx, gy
	}

	var gx, gy float64
	for _, j := range q.points {
		if j == i {
			continue
		}
		dx, dy := xs[j]-xi, ys[j]-yi
		if dx == 0 {
			dx = e.jiggle()
		}
		if dy == 0 {
			dy = e.jiggle()
		}
		l := dx*dx + dy*dy
		if l < dmin2 {
			l = math.Sqrt(dmin2 * l)
		}
		f := e.cfg.ChargeStrength / l
		gx += dx * f
		gy += dy * f
	}
	return gx, gy
}

// applyCenter translates free nodes so the centroid of the start-of-tick
// positions moves toward the canvas centre. It returns without effect when
// every node is pinned.
func (e *Engine) applyCenter(xs, ys []float64) {
	st := e.state
	var sx, sy float64
	for i := range xs {
		sx += xs[i]
		sy += ys[i]
	}
	n := float64(len(xs))
	cx, cy := e.cfg.Center()
	shiftX := (cx - sx/n) * e.cfg.CenterStrength
	shiftY := (cy - sy/n) * e.cfg.CenterStrength
	for i := range st.Nodes {
		if st.Nodes[i].Pinned() {
			continue
		}
		st.Nodes[i].X += shiftX
		st.Nodes[i].Y += shiftY
	}
}

// resolveCollisions pushes overlapping discs apart. Each pass computes every
// correction from the positions at the start of the pass, then applies them,
// so the result does not depend on node order. A pinned node never moves;
// its partner takes the whole correction.
func (e *Engine) resolveCollisions() {
	st := e.state
	r := e.cfg.CollideRadius
	if r <= 0 || len(st.Nodes) < 2 {
		return
	}
	sep := 2 * r
	n := len(st.Nodes)
	xs, ys := e.scratch(&e.cxs, n), e.scratch(&e.cys, n)
	dx, dy := e.scratch(&e.cdx, n), e.scratch(&e.cdy, n)

	for pass := 0; pass < e.cfg.CollideIterations; pass++ {
		for i := range st.Nodes {
			xs[i], ys[i] = st.Nodes[i].X, st.Nodes[i].Y
			dx[i], dy[i] = 0, 0
		}
		grid := newCellGrid(xs, ys, sep)
		moved := false
		grid.pairs(xs, ys, func(i, j int) {
			px, py := xs[j]-xs[i], ys[j]-ys[i]
			if px == 0 && py == 0 {
				px, py = e.jiggle(), e.jiggle()
			}
			l := math.Sqrt(px*px + py*py)
			if l >= sep {
				return
			}
			overlap := (sep - l) / l * e.cfg.CollideStrength
			px *= overlap
			py *= overlap
			pi, pj := st.Nodes[i].Pinned(), st.Nodes[j].Pinned()
			switch {
			case pi && pj:
				return
			case pi:
				dx[j] += px
				dy[j] += py
			case pj:
				dx[i] -= px
				dy[i] -= py
			default:
				dx[i] -= px / 2
				dy[i] -= py / 2
				dx[j] += px / 2
				dy[j] += py / 2
			}
			moved = true
		})
		if !moved {
			return
		}
		for i := range st.Nodes {
			st.Nodes[i].X += dx[i]
			st.Nodes[i].Y += dy[i]
		}
	}
}

func (e *Engine) jiggle() float64 {
	return (e.rng.Float64() - 0.5) * jiggleScale
}

func (e *Engine) scratch(buf *[]float64, n int) []float64 {
	if cap(*buf) < n {
		*buf = make([]float64, n)
	}
	*buf = (*buf)[:n]
	return *buf
}

// cellGrid buckets points into square cells of the collision separation so
// only neighbouring cells are compared.
type cellGrid struct {
	size  float64
	cells map[[2]int][]int
}

func newCellGrid(xs, ys []float64, size float64) *cellGrid {
	g := &cellGrid{size: size, cells: make(map[[2]int][]int)}
	for i := range xs {
		k := g.key(xs[i], ys[i])
		g.cells[k] = append(g.cells[k], i)
	}
	return g
}

func (g *cellGrid) key(x, y float64) [2]int {
	return [2]int{int(math.Floor(x / g.size)), int(math.Floor(y / g.size))}
}

// pairs calls fn once for every unordered pair of points in the same or
// adjacent cells, with i < j.
func (g *cellGrid) pairs(xs, ys []float64, fn func(i, j int)) {
	for i := range xs {
		k := g.key(xs[i], ys[i])
		for ox := -1; ox <= 1; ox++ {
			for oy := -1; oy <= 1; oy++ {
				for _, j := range g.cells[[2]int{k[0] + ox, k[1] + oy}] {
					if j > i {
						fn(i, j)
					}
				}
			}
		}
	}
}
