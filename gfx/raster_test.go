package gfx

import "testing"

func testSurface(t *testing.T, w, h uint32) *Surface {
	t.Helper()
	s := NewSurface()
	if !s.Configure(w, h, PixelXRGB8888) {
		t.Fatalf("Configure(%d, %d) failed", w, h)
	}
	s.SetColor(Color{R: 255, G: 255, B: 255, A: 255})
	return s
}

func paintedPixels(s *Surface) map[[2]int32]bool {
	set := make(map[[2]int32]bool)
	for y := int32(0); uint32(y) < s.Height(); y++ {
		for x := int32(0); uint32(x) < s.Width(); x++ {
			if s.Pixel(x, y) != 0 {
				set[[2]int32{x, y}] = true
			}
		}
	}
	return set
}

func trianglePixels(t *testing.T, v [6]int32) map[[2]int32]bool {
	t.Helper()
	s := testSurface(t, 64, 64)
	s.Triangle(v[0], v[1], v[2], v[3], v[4], v[5])
	return paintedPixels(s)
}

func samePixels(a, b map[[2]int32]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for p := range a {
		if !b[p] {
			return false
		}
	}
	return true
}

func TestTriangleWindingInvariance(t *testing.T) {
	// Every ordering of the same three vertices must cover the identical
	// pixel set.
	a := [2]int32{5, 5}
	b := [2]int32{44, 12}
	c := [2]int32{20, 40}

	perms := [][3][2]int32{
		{a, b, c}, {a, c, b},
		{b, a, c}, {b, c, a},
		{c, a, b}, {c, b, a},
	}

	want := trianglePixels(t, [6]int32{a[0], a[1], b[0], b[1], c[0], c[1]})
	if len(want) == 0 {
		t.Fatal("reference triangle covered no pixels")
	}

	for i, p := range perms[1:] {
		got := trianglePixels(t, [6]int32{p[0][0], p[0][1], p[1][0], p[1][1], p[2][0], p[2][1]})
		if !samePixels(want, got) {
			t.Errorf("permutation %d: covered %d pixels, reference %d, sets differ", i+1, len(got), len(want))
		}
	}
}

func TestTriangleSharedEdgeCoversOnce(t *testing.T) {
	// A quad split along its diagonal: the shared edge must belong to
	// exactly one of the two triangles.
	first := trianglePixels(t, [6]int32{10, 10, 50, 10, 50, 50})
	second := trianglePixels(t, [6]int32{10, 10, 50, 50, 10, 50})

	for p := range first {
		if second[p] {
			t.Fatalf("pixel (%d, %d) covered by both triangles of a shared edge", p[0], p[1])
		}
	}
	if len(first) == 0 || len(second) == 0 {
		t.Fatalf("split quad halves covered %d and %d pixels", len(first), len(second))
	}
}

func TestTriangleDegenerate(t *testing.T) {
	cases := []struct {
		name string
		v    [6]int32
	}{
		{"collinear", [6]int32{5, 5, 15, 15, 30, 30}},
		{"repeated vertex", [6]int32{5, 5, 5, 5, 30, 10}},
		{"single point", [6]int32{7, 7, 7, 7, 7, 7}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := trianglePixels(t, tc.v); len(got) != 0 {
				t.Errorf("degenerate triangle covered %d pixels", len(got))
			}
		})
	}
}

func TestCircleDiskIsAnalytic(t *testing.T) {
	// Configure 320x240, black background, red disk r=50 at center. Every
	// pixel inside dx*dx+dy*dy <= r*r is red, everything outside untouched.
	s := testSurface(t, 320, 240)
	s.Background(0, 0, 0)
	s.SetColor(Color{R: 255, A: 255})

	const cx, cy, r = 160, 120, 50
	s.Circle(cx, cy, r)

	for y := int32(0); y < 240; y++ {
		for x := int32(0); x < 320; x++ {
			dx := int64(x - cx)
			dy := int64(y - cy)
			inside := dx*dx+dy*dy <= r*r

			got := s.Pixel(x, y)
			if inside && got != 0xFF0000 {
				t.Fatalf("pixel (%d, %d) inside disk = %#06x, want red", x, y, got)
			}
			if !inside && got != 0 {
				t.Fatalf("pixel (%d, %d) outside disk = %#06x, want black", x, y, got)
			}
		}
	}
}

func TestRectClipping(t *testing.T) {
	s := testSurface(t, 32, 32)
	s.Rect(-10, -10, 20, 20)

	if got := len(paintedPixels(s)); got != 100 {
		t.Fatalf("clipped rect covered %d pixels, want 100", got)
	}
	if s.Pixel(0, 0) == 0 {
		t.Error("clipped rect missing origin pixel")
	}
	if s.Pixel(10, 10) != 0 {
		t.Error("clipped rect painted outside its bounds")
	}
}

func TestLineEndpoints(t *testing.T) {
	s := testSurface(t, 32, 32)
	s.Line(2, 3, 29, 17)

	if s.Pixel(2, 3) == 0 || s.Pixel(29, 17) == 0 {
		t.Error("line endpoints not painted")
	}
}

func TestBezierZeroSegmentsDrawsNothing(t *testing.T) {
	s := testSurface(t, 32, 32)
	s.BezierQuadratic(0, 0, 16, 30, 31, 0, 0)
	s.BezierCubic(0, 0, 8, 30, 24, 30, 31, 0, 0)

	if got := len(paintedPixels(s)); got != 0 {
		t.Errorf("zero-segment curves covered %d pixels", got)
	}
}

func TestMeshDrawFillsTriangles(t *testing.T) {
	s := testSurface(t, 64, 64)
	s.Triangle(10, 10, 40, 10, 10, 40)
	want := paintedPixels(s)

	s2 := testSurface(t, 64, 64)
	s2.DrawMesh(meshFromVerts(t, []float32{10, 10, 40, 10, 10, 40}), 0, 0)
	if !samePixels(want, paintedPixels(s2)) {
		t.Error("mesh triangle differs from direct triangle")
	}
}

func TestCircleHugeRadiusCoversSurface(t *testing.T) {
	// The squared radius exceeds int32; coverage must still be exact.
	s := testSurface(t, 64, 64)
	s.Circle(32, 32, 50000)

	if got := len(paintedPixels(s)); got != 64*64 {
		t.Errorf("huge-radius circle painted %d pixels, want full %d", got, 64*64)
	}
}
