package resource

import (
	"bytes"
	"image"
	"image/gif"

	"github.com/wasm96/core/errors"
)

// Animation is a decoded animated image. Frames are fully composited
// RGBA8888 canvases: indexed pixels are expanded at decode time (the decoder
// applies each frame's local palette, or the global one when a frame omits
// its own, and unrolls interlaced row ordering), and each frame's disposal
// method has already been applied to its successor. Playback is then a pure
// time-to-index lookup.
type Animation struct {
	Width    uint32
	Height   uint32
	Frames   [][]byte
	DelaysMS []uint32
	totalMS  uint64
}

// minFrameDelayMS substitutes for zero or missing per-frame delays, matching
// the common viewer convention so broken assets do not spin at an unbounded
// rate.
const minFrameDelayMS = 100

// DecodeAnimation decodes GIF bytes, compositing every frame against the
// logical canvas with its predecessor's disposal method applied.
func DecodeAnimation(data []byte) (*Animation, error) {
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseResource, errors.KindInvalidData, err, "decode gif")
	}
	if len(g.Image) == 0 {
		return nil, errors.InvalidInput(errors.PhaseResource, "gif has no frames")
	}

	w := g.Config.Width
	h := g.Config.Height
	if w <= 0 || h <= 0 {
		b := g.Image[0].Bounds()
		w, h = b.Max.X, b.Max.Y
	}
	if w <= 0 || h <= 0 {
		return nil, errors.InvalidInput(errors.PhaseResource, "gif has empty canvas")
	}

	anim := &Animation{Width: uint32(w), Height: uint32(h)}

	canvas := make([]byte, w*h*4)
	previous := make([]byte, w*h*4)

	lastDisposal := byte(gif.DisposalNone)
	var lastRect image.Rectangle

	for i, frame := range g.Image {
		// Apply the prior frame's disposal before compositing this one.
		switch lastDisposal {
		case gif.DisposalBackground:
			clearRect(canvas, w, h, lastRect)
		case gif.DisposalPrevious:
			copy(canvas, previous)
		}

		disposal := byte(gif.DisposalNone)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			copy(previous, canvas)
		}
		lastDisposal = disposal
		lastRect = frame.Bounds()

		compositePaletted(canvas, w, h, frame)

		snapshot := make([]byte, len(canvas))
		copy(snapshot, canvas)
		anim.Frames = append(anim.Frames, snapshot)

		delayMS := uint32(0)
		if i < len(g.Delay) && g.Delay[i] > 0 {
			delayMS = uint32(g.Delay[i]) * 10
		}
		anim.DelaysMS = append(anim.DelaysMS, delayMS)
		anim.totalMS += uint64(effectiveDelay(delayMS))
	}

	return anim, nil
}

// FrameIndex maps a millisecond clock onto a frame, looping over the total
// animation duration.
func (a *Animation) FrameIndex(nowMS uint64) int {
	if len(a.Frames) <= 1 || a.totalMS == 0 {
		return 0
	}

	rem := nowMS % a.totalMS
	for i, d := range a.DelaysMS {
		ed := uint64(effectiveDelay(d))
		if rem < ed {
			return i
		}
		rem -= ed
	}
	return 0
}

func effectiveDelay(ms uint32) uint32 {
	if ms == 0 {
		return minFrameDelayMS
	}
	return ms
}

func clearRect(canvas []byte, w, h int, r image.Rectangle) {
	r = r.Intersect(image.Rect(0, 0, w, h))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := (y*w + r.Min.X) * 4
		for x := r.Min.X; x < r.Max.X; x++ {
			canvas[row] = 0
			canvas[row+1] = 0
			canvas[row+2] = 0
			canvas[row+3] = 0
			row += 4
		}
	}
}

func compositePaletted(canvas []byte, w, h int, frame *image.Paletted) {
	b := frame.Bounds().Intersect(image.Rect(0, 0, w, h))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := frame.At(x, y).RGBA()
			if a == 0 {
				continue // transparent index, underlying canvas shows through
			}
			i := (y*w + x) * 4
			canvas[i] = uint8(r >> 8)
			canvas[i+1] = uint8(g >> 8)
			canvas[i+2] = uint8(bl >> 8)
			canvas[i+3] = uint8(a >> 8)
		}
	}
}
