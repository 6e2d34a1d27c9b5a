package resource

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"

	"github.com/wasm96/core/errors"
)

// ttfPixelSize is the single rendering size for outline fonts. The wire
// contract carries no size parameter on text draws, so outline faces are
// rasterized once at a fixed size.
const ttfPixelSize = 16

// builtinScale maps a requested built-in font size to an integer
// magnification of the 8px base bitmap face.
var builtinScale = map[uint32]uint32{
	8:  1,
	16: 2,
	24: 3,
	32: 4,
	64: 8,
}

// Font is a registered text face: either a parsed outline font or the
// built-in bitmap family at one of its fixed sizes. Measurement and drawing
// share the same face and scale, so a measured box always contains every
// pixel a draw of the same string touches.
type Font struct {
	face  font.Face
	scale uint32
}

// DecodeFont parses TTF/OTF bytes and prepares a face at the standard
// rendering size.
func DecodeFont(data []byte) (*Font, error) {
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseResource, errors.KindInvalidData, err, "parse font")
	}

	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    ttfPixelSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, errors.Wrap(errors.PhaseResource, errors.KindInvalidData, err, "build font face")
	}

	return &Font{face: face, scale: 1}, nil
}

// BuiltinFont returns the built-in bitmap family at the given pixel size.
// Only the fixed size set is available; anything else fails.
func BuiltinFont(size uint32) (*Font, error) {
	scale, ok := builtinScale[size]
	if !ok {
		return nil, errors.InvalidInput(errors.PhaseResource, "unsupported builtin font size")
	}
	return &Font{face: basicfont.Face7x13, scale: scale}, nil
}

// FontFromFace wraps an already-built face at native scale, for embedders
// that bring their own glyph source.
func FontFromFace(face font.Face) *Font {
	return &Font{face: face, scale: 1}
}

// Face exposes the underlying face for glyph rasterization.
func (f *Font) Face() font.Face { return f.face }

// Scale is the integer magnification applied to every glyph mask and metric.
func (f *Font) Scale() uint32 { return f.scale }

// LineHeight is the vertical distance between baselines, in pixels.
func (f *Font) LineHeight() uint32 {
	m := f.face.Metrics()
	return uint32(m.Height.Ceil()) * f.scale
}

// Ascent is the baseline offset from the top of a line, in pixels.
func (f *Font) Ascent() uint32 {
	m := f.face.Metrics()
	return uint32(m.Ascent.Ceil()) * f.scale
}

// Measure returns the layout box of text: the widest line's advance by the
// number of lines times the line height. Newlines split lines; an empty
// string measures zero by zero.
func (f *Font) Measure(text string) (w, h uint32) {
	if text == "" {
		return 0, 0
	}

	lines := strings.Split(text, "\n")
	for _, line := range lines {
		adv := uint32(font.MeasureString(f.face, line).Ceil()) * f.scale
		if adv > w {
			w = adv
		}
	}
	return w, uint32(len(lines)) * f.LineHeight()
}
