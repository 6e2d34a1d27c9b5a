package resource

import (
	"bytes"
	"image"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/wasm96/core/errors"
)

// Vector is a parsed scalable image. The SVG tree is kept and rasterized on
// demand at whatever size a draw call asks for; rasterizations are cached per
// size so animating a static icon does not re-tessellate every frame.
type Vector struct {
	icon *oksvg.SvgIcon

	// Intrinsic size from the document viewBox, used when a draw call passes
	// zero dimensions.
	Width  uint32
	Height uint32

	cache map[uint64]*Image
}

// DecodeVector parses SVG bytes.
func DecodeVector(data []byte) (*Vector, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseResource, errors.KindInvalidData, err, "parse svg")
	}

	w := uint32(icon.ViewBox.W)
	h := uint32(icon.ViewBox.H)
	if w == 0 {
		w = 1
	}
	if h == 0 {
		h = 1
	}

	return &Vector{
		icon:   icon,
		Width:  w,
		Height: h,
		cache:  make(map[uint64]*Image),
	}, nil
}

// maxRasterDim bounds a single rasterization, and with it the cache entry a
// guest-supplied size can allocate.
const maxRasterDim = 4096

// Rasterize renders the vector at w x h pixels. Zero dimensions fall back to
// the intrinsic size; dimensions beyond maxRasterDim render at the cap.
func (v *Vector) Rasterize(w, h uint32) *Image {
	if w == 0 {
		w = v.Width
	}
	if h == 0 {
		h = v.Height
	}
	if w > maxRasterDim {
		w = maxRasterDim
	}
	if h > maxRasterDim {
		h = maxRasterDim
	}

	sizeKey := uint64(w)<<32 | uint64(h)
	if img, ok := v.cache[sizeKey]; ok {
		return img
	}

	rgba := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	scanner := rasterx.NewScannerGV(int(w), int(h), rgba, rgba.Bounds())
	raster := rasterx.NewDasher(int(w), int(h), scanner)

	v.icon.SetTarget(0, 0, float64(w), float64(h))
	v.icon.Draw(raster, 1.0)

	img := &Image{Width: w, Height: h, Pix: rgba.Pix}
	v.cache[sizeKey] = img
	return img
}
