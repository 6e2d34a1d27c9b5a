package gfx

// Shape primitives. All of them clip to the surface bounds and overwrite
// pixels with the current draw color; nothing here blends.

// Point draws a single pixel.
func (s *Surface) Point(x, y int32) {
	s.set(x, y, s.color.packed())
}

// Line draws with Bresenham's algorithm, endpoints inclusive.
func (s *Surface) Line(x0, y0, x1, y1 int32) {
	c := s.color.packed()

	dx := abs32(x1 - x0)
	dy := -abs32(y1 - y0)
	sx := int32(1)
	if x0 >= x1 {
		sx = -1
	}
	sy := int32(1)
	if y0 >= y1 {
		sy = -1
	}
	err := dx + dy

	for {
		s.set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Rect draws a filled axis-aligned rectangle.
func (s *Surface) Rect(x, y int32, w, h uint32) {
	c := s.color.packed()

	x0 := max32(x, 0)
	y0 := max32(y, 0)
	x1 := min32(x+int32(w), int32(s.width))
	y1 := min32(y+int32(h), int32(s.height))
	if x0 >= x1 || y0 >= y1 {
		return
	}

	for cy := y0; cy < y1; cy++ {
		row := uint32(cy) * s.width
		for cx := x0; cx < x1; cx++ {
			s.pix[row+uint32(cx)] = c
		}
	}
}

// RectOutline draws the four edges of a rectangle.
func (s *Surface) RectOutline(x, y int32, w, h uint32) {
	s.Line(x, y, x+int32(w), y)
	s.Line(x, y+int32(h), x+int32(w), y+int32(h))
	s.Line(x, y, x, y+int32(h))
	s.Line(x+int32(w), y, x+int32(w), y+int32(h))
}

// Circle draws a filled circle: every pixel whose center lies within the
// analytic radius is covered, nothing else is.
func (s *Surface) Circle(cx, cy int32, r uint32) {
	c := s.color.packed()
	ri := int64(r)
	rsq := ri * ri

	y0 := clipExtent(int64(cy)-ri, int64(s.height))
	y1 := clipExtent(int64(cy)+ri+1, int64(s.height))
	x0 := clipExtent(int64(cx)-ri, int64(s.width))
	x1 := clipExtent(int64(cx)+ri+1, int64(s.width))

	for y := y0; y < y1; y++ {
		dy := int64(y) - int64(cy)
		row := uint32(y) * s.width
		for x := x0; x < x1; x++ {
			dx := int64(x) - int64(cx)
			if dx*dx+dy*dy <= rsq {
				s.pix[row+uint32(x)] = c
			}
		}
	}
}

// CircleOutline draws a circle outline with the midpoint algorithm.
func (s *Surface) CircleOutline(cx, cy int32, r uint32) {
	c := s.color.packed()

	x := int32(0)
	y := int32(r)
	d := 3 - 2*int32(r)

	for y >= x {
		s.set(cx+x, cy+y, c)
		s.set(cx-x, cy+y, c)
		s.set(cx+x, cy-y, c)
		s.set(cx-x, cy-y, c)
		s.set(cx+y, cy+x, c)
		s.set(cx-y, cy+x, c)
		s.set(cx+y, cy-x, c)
		s.set(cx-y, cy-x, c)

		x++
		if d > 0 {
			y--
			d += 4*(x-y) + 10
		} else {
			d += 4*x + 6
		}
	}
}

// edge is the signed-area function for directed edge a->b against point p.
// Positive means p is on the left of a->b in the y-down frame.
func edge(ax, ay, bx, by, px, py int32) int64 {
	return (int64(px)-int64(ax))*(int64(by)-int64(ay)) -
		(int64(py)-int64(ay))*(int64(bx)-int64(ax))
}

// topLeft classifies a directed edge for the fill tie-break: pixels exactly
// on a top or left edge are covered, pixels on the opposite edges are not,
// so adjacent triangles sharing an edge never double-cover it.
func topLeft(ax, ay, bx, by int32) bool {
	dy := by - ay
	dx := bx - ax
	if dy == 0 {
		return dx < 0
	}
	return dy > 0
}

// Triangle draws a filled triangle with integer edge functions. Coverage is
// invariant under any permutation or reversal of the vertices: the edge
// signs are normalized to a single orientation before testing, and the
// zero-edge tie-break is geometric.
func (s *Surface) Triangle(x1, y1, x2, y2, x3, y3 int32) {
	c := s.color.packed()

	area := edge(x1, y1, x2, y2, x3, y3)
	if area == 0 {
		return
	}
	// Orient to a fixed winding so the directed edge cycle does not depend
	// on input order.
	if area < 0 {
		x2, y2, x3, y3 = x3, y3, x2, y2
	}

	minX := max32(min32(min32(x1, x2), x3), 0)
	maxX := min32(max32(max32(x1, x2), x3), int32(s.width)-1)
	minY := max32(min32(min32(y1, y2), y3), 0)
	maxY := min32(max32(max32(y1, y2), y3), int32(s.height)-1)
	if minX > maxX || minY > maxY {
		return
	}

	tl0 := topLeft(x2, y2, x3, y3)
	tl1 := topLeft(x3, y3, x1, y1)
	tl2 := topLeft(x1, y1, x2, y2)

	for y := minY; y <= maxY; y++ {
		row := uint32(y) * s.width
		for x := minX; x <= maxX; x++ {
			w0 := edge(x2, y2, x3, y3, x, y)
			w1 := edge(x3, y3, x1, y1, x, y)
			w2 := edge(x1, y1, x2, y2, x, y)

			if inside(w0, tl0) && inside(w1, tl1) && inside(w2, tl2) {
				s.pix[row+uint32(x)] = c
			}
		}
	}
}

func inside(w int64, tl bool) bool {
	if w > 0 {
		return true
	}
	return w == 0 && tl
}

// TriangleOutline draws the three edges of a triangle.
func (s *Surface) TriangleOutline(x1, y1, x2, y2, x3, y3 int32) {
	s.Line(x1, y1, x2, y2)
	s.Line(x2, y2, x3, y3)
	s.Line(x3, y3, x1, y1)
}

// BezierQuadratic strokes a quadratic Bezier as a polyline with the given
// segment count. Zero segments draws nothing.
func (s *Surface) BezierQuadratic(x1, y1, cx, cy, x2, y2 int32, segments uint32) {
	if segments == 0 {
		return
	}
	px, py := float32(x1), float32(y1)
	for i := uint32(1); i <= segments; i++ {
		t := float32(i) / float32(segments)
		u := 1 - t
		x := u*u*float32(x1) + 2*u*t*float32(cx) + t*t*float32(x2)
		y := u*u*float32(y1) + 2*u*t*float32(cy) + t*t*float32(y2)
		s.Line(int32(px), int32(py), int32(x), int32(y))
		px, py = x, y
	}
}

// BezierCubic strokes a cubic Bezier as a polyline with the given segment
// count. Zero segments draws nothing.
func (s *Surface) BezierCubic(x1, y1, cx1, cy1, cx2, cy2, x2, y2 int32, segments uint32) {
	if segments == 0 {
		return
	}
	px, py := float32(x1), float32(y1)
	for i := uint32(1); i <= segments; i++ {
		t := float32(i) / float32(segments)
		u := 1 - t
		x := u*u*u*float32(x1) + 3*u*u*t*float32(cx1) + 3*u*t*t*float32(cx2) + t*t*t*float32(x2)
		y := u*u*u*float32(y1) + 3*u*u*t*float32(cy1) + 3*u*t*t*float32(cy2) + t*t*t*float32(y2)
		s.Line(int32(px), int32(py), int32(x), int32(y))
		px, py = x, y
	}
}

// Pill draws a filled capsule: a center rect with circular caps.
func (s *Surface) Pill(x, y int32, w, h uint32) {
	if w == 0 || h == 0 {
		return
	}
	r := int32(minu32(w, h) / 2)
	s.Rect(x+r, y, w-2*uint32(r), h)
	s.Circle(x+r, y+r, uint32(r))
	s.Circle(x+int32(w)-r, y+r, uint32(r))
}

// PillOutline draws a capsule outline.
func (s *Surface) PillOutline(x, y int32, w, h uint32) {
	if w == 0 || h == 0 {
		return
	}
	r := int32(minu32(w, h) / 2)
	s.RectOutline(x+r, y, w-2*uint32(r), h)
	s.CircleOutline(x+r, y+r, uint32(r))
	s.CircleOutline(x+int32(w)-r, y+r, uint32(r))
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func minu32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}
