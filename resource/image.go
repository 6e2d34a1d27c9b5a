package resource

import (
	"bytes"
	"image"
	"image/draw"
	"image/png"

	"github.com/wasm96/core/errors"
)

// Image is a decoded raster asset, stored as straight RGBA8888.
type Image struct {
	Width  uint32
	Height uint32
	Pix    []byte
}

// DecodeImage decodes PNG bytes into RGBA. Any color model the decoder
// produces (grayscale, paletted, RGB) is expanded here so blitting never has
// to branch on source format.
func DecodeImage(data []byte) (*Image, error) {
	src, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseResource, errors.KindInvalidData, err, "decode png")
	}

	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, errors.InvalidInput(errors.PhaseResource, "png has empty bounds")
	}

	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)

	return &Image{
		Width:  uint32(b.Dx()),
		Height: uint32(b.Dy()),
		Pix:    rgba.Pix,
	}, nil
}
