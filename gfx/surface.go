package gfx

import (
	"encoding/binary"
)

// PixelFormat selects the packed layout of presented frames. The numeric
// values are part of the wire contract and must not change.
type PixelFormat uint32

const (
	// PixelXRGB8888 is 4 bytes per pixel, 0x00RRGGBB packed little-endian.
	PixelXRGB8888 PixelFormat = 0
	// PixelRGB565 is 2 bytes per pixel, RRRRRGGGGGGBBBBB little-endian.
	PixelRGB565 PixelFormat = 1
)

// BytesPerPixel returns the packed size of one pixel, or 0 for an unknown
// format.
func (f PixelFormat) BytesPerPixel() uint32 {
	switch f {
	case PixelXRGB8888:
		return 4
	case PixelRGB565:
		return 2
	default:
		return 0
	}
}

// Color is the current draw color. Alpha participates in text blending only;
// shape primitives overwrite.
type Color struct {
	R, G, B, A uint8
}

func (c Color) packed() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Surface is the host-owned framebuffer. The working representation is
// always XRGB8888; the configured format only affects the presented bytes
// and the upload contract.
//
// Surfaces are not safe for concurrent use. The frame loop mutates them only
// while the guest call is on the stack; frontends consume the snapshot taken
// by Present between frames.
type Surface struct {
	width  uint32
	height uint32
	format PixelFormat

	pix   []uint32
	color Color

	presented []byte
	ready     bool
}

const (
	defaultWidth  = 320
	defaultHeight = 240
)

// NewSurface returns a surface at the default 320x240 XRGB8888 mode. Guests
// that never call video_config draw into this.
func NewSurface() *Surface {
	s := &Surface{color: Color{R: 255, G: 255, B: 255, A: 255}}
	s.Configure(defaultWidth, defaultHeight, PixelXRGB8888)
	return s
}

// Configure (re)allocates the framebuffer for the given mode. A mid-run
// dimension change drops all pixel content. Returns false without mutating
// anything when the mode is invalid.
func (s *Surface) Configure(width, height uint32, format PixelFormat) bool {
	if width == 0 || height == 0 || format.BytesPerPixel() == 0 {
		return false
	}

	s.width = width
	s.height = height
	s.format = format
	s.pix = make([]uint32, width*height)
	s.presented = nil
	s.ready = false
	return true
}

// Resize keeps the current pixel format and reconfigures dimensions. This
// backs the immediate-mode set_size call.
func (s *Surface) Resize(width, height uint32) bool {
	return s.Configure(width, height, s.format)
}

func (s *Surface) Width() uint32       { return s.width }
func (s *Surface) Height() uint32      { return s.height }
func (s *Surface) Format() PixelFormat { return s.format }

// PitchBytes is always width * bytes-per-pixel; frames carry no padding.
func (s *Surface) PitchBytes() uint32 {
	return s.width * s.format.BytesPerPixel()
}

// SetColor sets the current draw color for subsequent primitives.
func (s *Surface) SetColor(c Color) { s.color = c }

// DrawColor returns the current draw color.
func (s *Surface) DrawColor() Color { return s.color }

// Background clears the whole framebuffer to an opaque RGB color. Alpha is
// ignored by contract.
func (s *Surface) Background(r, g, b uint8) {
	c := Color{R: r, G: g, B: b}.packed()
	for i := range s.pix {
		s.pix[i] = c
	}
}

// Upload replaces the whole framebuffer with guest-supplied packed pixels.
// byte_len must be exactly height * pitch for the configured spec and pitch
// must be the unpadded width * bpp, or the call fails with the framebuffer
// untouched.
func (s *Surface) Upload(data []byte, pitchBytes uint32) bool {
	bpp := s.format.BytesPerPixel()
	if pitchBytes != s.width*bpp {
		return false
	}
	if uint32(len(data)) != s.height*pitchBytes {
		return false
	}

	switch s.format {
	case PixelXRGB8888:
		for i := range s.pix {
			s.pix[i] = binary.LittleEndian.Uint32(data[i*4:]) & 0x00FFFFFF
		}
	case PixelRGB565:
		for i := range s.pix {
			s.pix[i] = unpack565(binary.LittleEndian.Uint16(data[i*2:]))
		}
	default:
		return false
	}
	return true
}

// Present snapshots the working pixels into the configured packed format and
// marks the frame ready for the frontend. The copy happens here so that the
// guest can keep drawing into the working buffer without tearing what the
// frontend reads.
func (s *Surface) Present() {
	bpp := s.format.BytesPerPixel()
	out := make([]byte, uint32(len(s.pix))*bpp)

	switch s.format {
	case PixelXRGB8888:
		for i, p := range s.pix {
			binary.LittleEndian.PutUint32(out[i*4:], p)
		}
	case PixelRGB565:
		for i, p := range s.pix {
			binary.LittleEndian.PutUint16(out[i*2:], pack565(p))
		}
	}

	s.presented = out
	s.ready = true
}

// Frame returns the last presented frame, or nil if nothing has been
// presented since the last configure.
func (s *Surface) Frame() []byte {
	if !s.ready {
		return nil
	}
	return s.presented
}

// Pixel returns the working pixel at (x, y) as packed XRGB, for tests and
// host-side readback. Out-of-bounds reads return 0.
func (s *Surface) Pixel(x, y int32) uint32 {
	if x < 0 || y < 0 || uint32(x) >= s.width || uint32(y) >= s.height {
		return 0
	}
	return s.pix[uint32(y)*s.width+uint32(x)]
}

func (s *Surface) set(x, y int32, packed uint32) {
	if x < 0 || y < 0 || uint32(x) >= s.width || uint32(y) >= s.height {
		return
	}
	s.pix[uint32(y)*s.width+uint32(x)] = packed
}

func unpack565(p uint16) uint32 {
	r := uint32(p>>11) & 0x1F
	g := uint32(p>>5) & 0x3F
	b := uint32(p) & 0x1F
	// Expand to 8 bits replicating the high bits.
	r8 := r<<3 | r>>2
	g8 := g<<2 | g>>4
	b8 := b<<3 | b>>2
	return r8<<16 | g8<<8 | b8
}

func pack565(p uint32) uint16 {
	r := (p >> 16) & 0xFF
	g := (p >> 8) & 0xFF
	b := p & 0xFF
	return uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
}
