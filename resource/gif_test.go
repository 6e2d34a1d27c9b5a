package resource

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"testing"
)

func palettedFrame(w, h int, c color.RGBA) *image.Paletted {
	p := image.NewPaletted(image.Rect(0, 0, w, h), color.Palette{
		color.RGBA{},
		c,
	})
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p.SetColorIndex(x, y, 1)
		}
	}
	return p
}

func encodeGIF(t *testing.T, g *gif.GIF) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, g); err != nil {
		t.Fatalf("encode gif: %v", err)
	}
	return buf.Bytes()
}

func frameRGBA(a *Animation, frame int, x, y int) [4]byte {
	i := (y*int(a.Width) + x) * 4
	return [4]byte{a.Frames[frame][i], a.Frames[frame][i+1], a.Frames[frame][i+2], a.Frames[frame][i+3]}
}

func TestDecodeAnimationFrames(t *testing.T) {
	data := encodeGIF(t, &gif.GIF{
		Image: []*image.Paletted{
			palettedFrame(4, 4, color.RGBA{R: 255, A: 255}),
			palettedFrame(4, 4, color.RGBA{G: 255, A: 255}),
		},
		Delay:    []int{10, 20},
		Disposal: []byte{gif.DisposalNone, gif.DisposalNone},
		Config:   image.Config{Width: 4, Height: 4},
	})

	anim, err := DecodeAnimation(data)
	if err != nil {
		t.Fatalf("DecodeAnimation: %v", err)
	}
	if len(anim.Frames) != 2 || anim.Width != 4 || anim.Height != 4 {
		t.Fatalf("decoded %d frames at %dx%d", len(anim.Frames), anim.Width, anim.Height)
	}
	if anim.DelaysMS[0] != 100 || anim.DelaysMS[1] != 200 {
		t.Errorf("delays = %v ms, want [100 200]", anim.DelaysMS)
	}

	if got := frameRGBA(anim, 0, 1, 1); got[0] != 255 {
		t.Errorf("frame 0 pixel = %v, want red", got)
	}
	if got := frameRGBA(anim, 1, 1, 1); got[1] != 255 {
		t.Errorf("frame 1 pixel = %v, want green", got)
	}
}

func TestDecodeAnimationPartialFrameComposites(t *testing.T) {
	// Second frame covers only the top-left quadrant; the rest must show
	// the first frame through (disposal none).
	small := palettedFrame(2, 2, color.RGBA{G: 255, A: 255})

	data := encodeGIF(t, &gif.GIF{
		Image: []*image.Paletted{
			palettedFrame(4, 4, color.RGBA{R: 255, A: 255}),
			small,
		},
		Delay:    []int{10, 10},
		Disposal: []byte{gif.DisposalNone, gif.DisposalNone},
		Config:   image.Config{Width: 4, Height: 4},
	})

	anim, err := DecodeAnimation(data)
	if err != nil {
		t.Fatalf("DecodeAnimation: %v", err)
	}

	if got := frameRGBA(anim, 1, 0, 0); got[1] != 255 {
		t.Errorf("overlapped pixel = %v, want green", got)
	}
	if got := frameRGBA(anim, 1, 3, 3); got[0] != 255 {
		t.Errorf("uncovered pixel = %v, want prior frame red", got)
	}
}

func TestDecodeAnimationBackgroundDisposal(t *testing.T) {
	data := encodeGIF(t, &gif.GIF{
		Image: []*image.Paletted{
			palettedFrame(4, 4, color.RGBA{R: 255, A: 255}),
			palettedFrame(2, 2, color.RGBA{B: 255, A: 255}),
		},
		Delay:    []int{10, 10},
		Disposal: []byte{gif.DisposalBackground, gif.DisposalNone},
		Config:   image.Config{Width: 4, Height: 4},
	})

	anim, err := DecodeAnimation(data)
	if err != nil {
		t.Fatalf("DecodeAnimation: %v", err)
	}

	// Frame 0's rect is cleared before frame 1 is composited, so the area
	// outside frame 1's bounds is transparent, not leftover red.
	if got := frameRGBA(anim, 1, 3, 3); got != [4]byte{} {
		t.Errorf("disposed region = %v, want transparent", got)
	}
	if got := frameRGBA(anim, 1, 0, 0); got[2] != 255 {
		t.Errorf("frame 1 pixel = %v, want blue", got)
	}
}

func TestFrameIndexTiming(t *testing.T) {
	data := encodeGIF(t, &gif.GIF{
		Image: []*image.Paletted{
			palettedFrame(1, 1, color.RGBA{R: 255, A: 255}),
			palettedFrame(1, 1, color.RGBA{G: 255, A: 255}),
		},
		// Zero delay plays at the 100ms fallback.
		Delay:    []int{0, 5},
		Disposal: []byte{gif.DisposalNone, gif.DisposalNone},
		Config:   image.Config{Width: 1, Height: 1},
	})

	anim, err := DecodeAnimation(data)
	if err != nil {
		t.Fatalf("DecodeAnimation: %v", err)
	}

	cases := []struct {
		nowMS uint64
		want  int
	}{
		{0, 0},
		{99, 0},
		{100, 1},
		{149, 1},
		{150, 0}, // wrapped: total duration 150ms
		{250, 1},
	}
	for _, tc := range cases {
		if got := anim.FrameIndex(tc.nowMS); got != tc.want {
			t.Errorf("FrameIndex(%d) = %d, want %d", tc.nowMS, got, tc.want)
		}
	}
}

func TestFrameIndexSingleFrame(t *testing.T) {
	data := encodeGIF(t, &gif.GIF{
		Image:  []*image.Paletted{palettedFrame(1, 1, color.RGBA{R: 255, A: 255})},
		Delay:  []int{10},
		Config: image.Config{Width: 1, Height: 1},
	})

	anim, err := DecodeAnimation(data)
	if err != nil {
		t.Fatalf("DecodeAnimation: %v", err)
	}
	for _, now := range []uint64{0, 50, 1000000} {
		if got := anim.FrameIndex(now); got != 0 {
			t.Errorf("FrameIndex(%d) = %d on single-frame animation", now, got)
		}
	}
}
