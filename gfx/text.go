package gfx

import (
	"strings"

	"golang.org/x/image/math/fixed"

	"github.com/wasm96/core/resource"
)

// DrawText renders text with the current draw color, the top-left corner of
// the layout box at (x, y). Newlines start a new line one line-height down.
// Glyph coverage is source-over blended, and every painted pixel falls inside
// the box the font's Measure reports for the same string. Runes the face has
// no glyph for are skipped, matching measurement.
func (s *Surface) DrawText(f *resource.Font, x, y int32, text string) {
	if f == nil || text == "" {
		return
	}

	face := f.Face()
	scale := int32(f.Scale())
	lineHeight := int32(f.LineHeight())
	ascent := int32(f.Ascent())
	c := s.DrawColor()

	for li, line := range strings.Split(text, "\n") {
		baseY := y + int32(li)*lineHeight + ascent
		dot := fixed.Point26_6{}

		prev := rune(-1)
		for _, r := range line {
			// Kerning accumulates exactly as font.MeasureString does, so the
			// painted run never escapes the measured box.
			if prev >= 0 {
				dot.X += face.Kern(prev, r)
			}
			dr, mask, maskp, advance, ok := face.Glyph(dot, r)
			if !ok {
				continue
			}

			for gy := dr.Min.Y; gy < dr.Max.Y; gy++ {
				for gx := dr.Min.X; gx < dr.Max.X; gx++ {
					_, _, _, ma := mask.At(maskp.X+gx-dr.Min.X, maskp.Y+gy-dr.Min.Y).RGBA()
					cov := uint8(ma >> 8)
					if cov == 0 {
						continue
					}

					px := x + int32(gx)*scale
					py := baseY + int32(gy)*scale
					for sy := int32(0); sy < scale; sy++ {
						for sx := int32(0); sx < scale; sx++ {
							s.BlendPixel(px+sx, py+sy, c, cov)
						}
					}
				}
			}

			dot.X += advance
			prev = r
		}
	}
}
