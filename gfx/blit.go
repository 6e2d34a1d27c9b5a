package gfx

// BlitRGBA copies a w*h RGBA8888 pixel block to (x, y), clipped to the
// surface. Pixels with zero alpha are skipped; everything else overwrites.
// data shorter than w*h*4 draws nothing.
func (s *Surface) BlitRGBA(x, y int32, w, h uint32, data []byte) {
	if uint64(len(data)) < uint64(w)*uint64(h)*4 {
		return
	}

	x0 := max32(x, 0)
	y0 := max32(y, 0)
	x1 := min32(x+int32(w), int32(s.width))
	y1 := min32(y+int32(h), int32(s.height))
	if x0 >= x1 || y0 >= y1 {
		return
	}

	for cy := y0; cy < y1; cy++ {
		srcRow := uint32(cy-y) * w * 4
		dstRow := uint32(cy) * s.width
		for cx := x0; cx < x1; cx++ {
			i := srcRow + uint32(cx-x)*4
			a := data[i+3]
			if a == 0 {
				continue
			}
			s.pix[dstRow+uint32(cx)] = uint32(data[i])<<16 | uint32(data[i+1])<<8 | uint32(data[i+2])
		}
	}
}

// BlitRGBAScaled blits with nearest-neighbor resampling to dstW x dstH.
// A zero destination dimension means natural size. No interpolation: the wire
// contract pins scaling to the nearest source texel. Source pixels are sampled
// per visible destination pixel, so the cost is bounded by the surface size
// regardless of how large a destination the guest asks for.
func (s *Surface) BlitRGBAScaled(x, y int32, srcW, srcH, dstW, dstH uint32, data []byte) {
	if srcW == 0 || srcH == 0 || uint64(len(data)) < uint64(srcW)*uint64(srcH)*4 {
		return
	}
	if dstW == 0 || dstH == 0 {
		s.BlitRGBA(x, y, srcW, srcH, data)
		return
	}

	x0 := max32(x, 0)
	y0 := max32(y, 0)
	x1 := clipExtent(int64(x)+int64(dstW), int64(s.width))
	y1 := clipExtent(int64(y)+int64(dstH), int64(s.height))
	if x0 >= x1 || y0 >= y1 {
		return
	}

	for cy := y0; cy < y1; cy++ {
		sy := uint32(uint64(cy-y) * uint64(srcH) / uint64(dstH))
		if sy >= srcH {
			sy = srcH - 1
		}
		srcRow := uint64(sy) * uint64(srcW) * 4
		dstRow := uint32(cy) * s.width

		for cx := x0; cx < x1; cx++ {
			sx := uint32(uint64(cx-x) * uint64(srcW) / uint64(dstW))
			if sx >= srcW {
				sx = srcW - 1
			}

			i := srcRow + uint64(sx)*4
			if data[i+3] == 0 {
				continue
			}
			s.pix[dstRow+uint32(cx)] = uint32(data[i])<<16 | uint32(data[i+1])<<8 | uint32(data[i+2])
		}
	}
}

// clipExtent clamps an int64 coordinate to [0, hi] as int32, so extents
// computed from guest-sized dimensions cannot wrap.
func clipExtent(v, hi int64) int32 {
	if v > hi {
		v = hi
	}
	if v < 0 {
		v = 0
	}
	return int32(v)
}

// BlendPixel source-over composites a color at coverage cov (0..255) against
// the existing framebuffer content. Used by glyph rendering so transparent
// glyph regions never stamp an opaque background.
func (s *Surface) BlendPixel(x, y int32, c Color, cov uint8) {
	if cov == 0 {
		return
	}
	if x < 0 || y < 0 || uint32(x) >= s.width || uint32(y) >= s.height {
		return
	}

	a := uint32(cov) * uint32(c.A) / 255
	if a == 0 {
		return
	}
	inv := 255 - a

	idx := uint32(y)*s.width + uint32(x)
	bg := s.pix[idx]

	r := (uint32(c.R)*a + ((bg>>16)&0xFF)*inv) / 255
	g := (uint32(c.G)*a + ((bg>>8)&0xFF)*inv) / 255
	b := (uint32(c.B)*a + (bg&0xFF)*inv) / 255

	s.pix[idx] = r<<16 | g<<8 | b
}
