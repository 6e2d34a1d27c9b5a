package gfx

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/wasm96/core/resource"
)

func meshFromVerts(t *testing.T, verts []float32) *resource.Mesh {
	t.Helper()
	raw := make([]byte, len(verts)*4)
	for i, v := range verts {
		binary.LittleEndian.PutUint32(raw[i*4:], math.Float32bits(v))
	}
	m, err := resource.DecodeMesh(raw)
	if err != nil {
		t.Fatalf("DecodeMesh: %v", err)
	}
	return m
}

func TestConfigureValidation(t *testing.T) {
	cases := []struct {
		name   string
		w, h   uint32
		format PixelFormat
		ok     bool
	}{
		{"xrgb", 320, 240, PixelXRGB8888, true},
		{"rgb565", 640, 480, PixelRGB565, true},
		{"zero width", 0, 240, PixelXRGB8888, false},
		{"zero height", 320, 0, PixelXRGB8888, false},
		{"unknown format", 320, 240, PixelFormat(7), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSurface()
			if got := s.Configure(tc.w, tc.h, tc.format); got != tc.ok {
				t.Errorf("Configure(%d, %d, %d) = %v, want %v", tc.w, tc.h, tc.format, got, tc.ok)
			}
		})
	}
}

func TestConfigureFailureKeepsState(t *testing.T) {
	s := NewSurface()
	s.Background(1, 2, 3)

	if s.Configure(0, 0, PixelXRGB8888) {
		t.Fatal("invalid Configure succeeded")
	}
	if s.Width() != 320 || s.Height() != 240 {
		t.Errorf("dimensions changed to %dx%d after rejected Configure", s.Width(), s.Height())
	}
	if s.Pixel(0, 0) != 0x010203 {
		t.Error("pixel content changed after rejected Configure")
	}
}

func TestUploadLengthValidation(t *testing.T) {
	s := NewSurface()
	if !s.Configure(4, 3, PixelXRGB8888) {
		t.Fatal("Configure failed")
	}
	s.Background(9, 9, 9)
	want := s.Pixel(0, 0)

	exact := s.Height() * s.PitchBytes()
	cases := []struct {
		name  string
		data  []byte
		pitch uint32
		ok    bool
	}{
		{"exact", make([]byte, exact), s.PitchBytes(), true},
		{"short", make([]byte, exact-1), s.PitchBytes(), false},
		{"long", make([]byte, exact+4), s.PitchBytes(), false},
		{"padded pitch", make([]byte, (s.PitchBytes()+16)*s.Height()), s.PitchBytes() + 16, false},
		{"empty", nil, s.PitchBytes(), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s.Background(9, 9, 9)
			got := s.Upload(tc.data, tc.pitch)
			if got != tc.ok {
				t.Fatalf("Upload(len=%d, pitch=%d) = %v, want %v", len(tc.data), tc.pitch, got, tc.ok)
			}
			if !tc.ok && s.Pixel(0, 0) != want {
				t.Error("failed upload mutated the framebuffer")
			}
		})
	}
}

func TestUploadRGB565(t *testing.T) {
	s := NewSurface()
	if !s.Configure(2, 1, PixelRGB565) {
		t.Fatal("Configure failed")
	}

	// Pure red and pure green in 565.
	data := make([]byte, 4)
	binary.LittleEndian.PutUint16(data[0:], 0xF800)
	binary.LittleEndian.PutUint16(data[2:], 0x07E0)

	if !s.Upload(data, s.PitchBytes()) {
		t.Fatal("Upload failed")
	}
	if got := s.Pixel(0, 0); got != 0xFF0000 {
		t.Errorf("red 565 pixel = %#06x", got)
	}
	if got := s.Pixel(1, 0); got != 0x00FF00 {
		t.Errorf("green 565 pixel = %#06x", got)
	}
}

func TestPresentSnapshotIsStable(t *testing.T) {
	s := NewSurface()
	if !s.Configure(2, 2, PixelXRGB8888) {
		t.Fatal("Configure failed")
	}

	if s.Frame() != nil {
		t.Fatal("Frame returned data before any Present")
	}

	s.Background(0, 0, 255)
	s.Present()
	frame := s.Frame()
	if frame == nil {
		t.Fatal("Frame nil after Present")
	}
	if got := binary.LittleEndian.Uint32(frame); got != 0x0000FF {
		t.Fatalf("presented pixel = %#06x, want blue", got)
	}

	// Drawing after Present must not alter the snapshot.
	s.Background(255, 0, 0)
	if got := binary.LittleEndian.Uint32(s.Frame()); got != 0x0000FF {
		t.Error("presented frame changed by drawing after Present")
	}

	byteLen := len(frame)
	if uint32(byteLen) != s.Height()*s.PitchBytes() {
		t.Errorf("frame length %d, want height*pitch %d", byteLen, s.Height()*s.PitchBytes())
	}
}

func TestBlitSkipsTransparentPixels(t *testing.T) {
	s := NewSurface()
	if !s.Configure(4, 4, PixelXRGB8888) {
		t.Fatal("Configure failed")
	}
	s.Background(0, 0, 255)

	// 2x1 block: opaque red then fully transparent.
	data := []byte{255, 0, 0, 255, 0, 255, 0, 0}
	s.BlitRGBA(0, 0, 2, 1, data)

	if got := s.Pixel(0, 0); got != 0xFF0000 {
		t.Errorf("opaque pixel = %#06x, want red", got)
	}
	if got := s.Pixel(1, 0); got != 0x0000FF {
		t.Errorf("transparent pixel = %#06x, want untouched blue", got)
	}
}

func TestBlitScaledSamplesNearest(t *testing.T) {
	s := testSurface(t, 32, 4)

	// 2x1 source: red texel then green texel, stretched across the surface.
	data := []byte{255, 0, 0, 255, 0, 255, 0, 255}
	s.BlitRGBAScaled(0, 0, 2, 1, 32, 4, data)

	if got := s.Pixel(0, 0); got != 0xFF0000 {
		t.Errorf("left half = %#06x, want red", got)
	}
	if got := s.Pixel(15, 3); got != 0xFF0000 {
		t.Errorf("last left-half pixel = %#06x, want red", got)
	}
	if got := s.Pixel(16, 0); got != 0x00FF00 {
		t.Errorf("first right-half pixel = %#06x, want green", got)
	}
	if got := s.Pixel(31, 3); got != 0x00FF00 {
		t.Errorf("right half = %#06x, want green", got)
	}
}

func TestBlitScaledClipsHugeDestination(t *testing.T) {
	s := testSurface(t, 32, 32)

	// A destination far larger than the surface touches only visible pixels.
	src := []byte{255, 0, 0, 255}
	s.BlitRGBAScaled(0, 0, 1, 1, 0xFFFFFFFF, 0xFFFFFFFF, src)

	if got := len(paintedPixels(s)); got != 32*32 {
		t.Fatalf("painted %d pixels, want the full %d", got, 32*32)
	}
	if got := s.Pixel(31, 31); got != 0xFF0000 {
		t.Errorf("corner pixel = %#06x, want red", got)
	}
}
