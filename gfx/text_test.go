package gfx

import (
	"image"
	"image/color"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/wasm96/core/resource"
)

func builtinFont(t *testing.T, size uint32) *resource.Font {
	t.Helper()
	f, err := resource.BuiltinFont(size)
	if err != nil {
		t.Fatalf("BuiltinFont(%d): %v", size, err)
	}
	return f
}

func TestDrawTextStaysInsideMeasuredBox(t *testing.T) {
	f := builtinFont(t, 16)
	w, h := f.Measure("Hi")
	if w == 0 || h == 0 {
		t.Fatalf("Measure(Hi) = %dx%d", w, h)
	}

	s := testSurface(t, 256, 128)
	const ox, oy = 10, 5
	s.DrawText(f, ox, oy, "Hi")

	painted := paintedPixels(s)
	if len(painted) == 0 {
		t.Fatal("DrawText painted nothing")
	}
	for p := range painted {
		if p[0] < ox || p[0] >= ox+int32(w) || p[1] < oy || p[1] >= oy+int32(h) {
			t.Fatalf("pixel (%d, %d) outside measured box %dx%d at (%d, %d)", p[0], p[1], w, h, ox, oy)
		}
	}
}

func TestMeasureMultiline(t *testing.T) {
	f := builtinFont(t, 8)

	w1, h1 := f.Measure("bb")
	w2, h2 := f.Measure("a\nbb")

	if h2 != 2*h1 {
		t.Errorf("two-line height = %d, want %d", h2, 2*h1)
	}
	if w2 != w1 {
		t.Errorf("two-line width = %d, want widest line %d", w2, w1)
	}

	if w, h := f.Measure(""); w != 0 || h != 0 {
		t.Errorf("Measure(empty) = %dx%d, want 0x0", w, h)
	}
}

func TestBuiltinFontScalesWithSize(t *testing.T) {
	small, _ := builtinFont(t, 8).Measure("x")
	large, _ := builtinFont(t, 16).Measure("x")
	if large != small*2 {
		t.Errorf("size 16 width = %d, want double of size 8 width %d", large, small)
	}

	if _, err := resource.BuiltinFont(13); err == nil {
		t.Error("unsupported builtin size accepted")
	}
}

const (
	kernAdvance = 10
	kernPair    = -3
)

// kernedFace is a fixed-metrics face whose Kern pulls every glyph pair
// closer. Its glyph boxes span the full advance, so drawing and measuring
// only agree when both account for the kerning.
type kernedFace struct{}

func (kernedFace) Close() error { return nil }

func (kernedFace) Glyph(dot fixed.Point26_6, r rune) (image.Rectangle, image.Image, image.Point, fixed.Int26_6, bool) {
	x := dot.X.Floor()
	y := dot.Y.Floor()
	dr := image.Rect(x, y-8, x+kernAdvance, y)
	return dr, image.NewUniform(color.Alpha{A: 0xFF}), image.Point{}, fixed.I(kernAdvance), true
}

func (kernedFace) GlyphBounds(r rune) (fixed.Rectangle26_6, fixed.Int26_6, bool) {
	return fixed.R(0, -8, kernAdvance, 0), fixed.I(kernAdvance), true
}

func (kernedFace) GlyphAdvance(r rune) (fixed.Int26_6, bool) {
	return fixed.I(kernAdvance), true
}

func (kernedFace) Kern(r0, r1 rune) fixed.Int26_6 { return fixed.I(kernPair) }

func (kernedFace) Metrics() font.Metrics {
	return font.Metrics{Height: fixed.I(12), Ascent: fixed.I(8), Descent: fixed.I(4)}
}

func TestDrawTextAppliesKerning(t *testing.T) {
	f := resource.FontFromFace(kernedFace{})

	w, h := f.Measure("abc")
	if want := uint32(3*kernAdvance + 2*kernPair); w != want {
		t.Fatalf("Measure width = %d, want %d", w, want)
	}

	s := testSurface(t, 64, 32)
	s.DrawText(f, 0, 0, "abc")

	painted := paintedPixels(s)
	if len(painted) == 0 {
		t.Fatal("DrawText painted nothing")
	}
	for p := range painted {
		if p[0] >= int32(w) || p[1] >= int32(h) {
			t.Fatalf("pixel (%d, %d) outside measured box %dx%d", p[0], p[1], w, h)
		}
	}
}

func TestDrawTextBlendsCoverage(t *testing.T) {
	// Half-transparent draw color over a blue background must land between
	// the two, never replace the background wholesale.
	f := builtinFont(t, 16)
	s := testSurface(t, 128, 64)
	s.Background(0, 0, 200)
	s.SetColor(Color{R: 255, A: 128})

	s.DrawText(f, 4, 4, "H")

	sawBlend := false
	for y := int32(0); y < 64 && !sawBlend; y++ {
		for x := int32(0); x < 128; x++ {
			p := s.Pixel(x, y)
			r := p >> 16
			b := p & 0xFF
			if r > 0 && b > 0 && b < 200 {
				sawBlend = true
				break
			}
		}
	}
	if !sawBlend {
		t.Error("no blended pixel found; text rendering overwrites instead of compositing")
	}
}
