package resource

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestKeyStability(t *testing.T) {
	if KeyOfString("player") != KeyOf([]byte("player")) {
		t.Error("string and byte hashing disagree")
	}
	if KeyOfString("player") == KeyOfString("Player") {
		t.Error("case-different keys collide")
	}
	if KeyOfString("ab") == KeyOfString("ba") {
		t.Error("hash is not order-sensitive")
	}
}

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry()
	key := KeyOfString("sprite")

	if r.Image(key) != nil {
		t.Fatal("empty registry returned an image")
	}

	if !r.RegisterImage(key, encodePNG(t, 2, 2, color.RGBA{R: 255, A: 255})) {
		t.Fatal("register valid png failed")
	}
	img := r.Image(key)
	if img == nil || img.Width != 2 || img.Height != 2 {
		t.Fatalf("registered image = %+v", img)
	}

	r.UnregisterImage(key)
	if r.Image(key) != nil {
		t.Error("image survives unregister")
	}

	// Unregister of an absent key is a no-op.
	r.UnregisterImage(key)
}

func TestRegisterReplacesOnlyOnSuccess(t *testing.T) {
	r := NewRegistry()
	key := KeyOfString("sprite")

	if !r.RegisterImage(key, encodePNG(t, 1, 1, color.RGBA{R: 255, A: 255})) {
		t.Fatal("register failed")
	}

	// A failed re-register must keep the prior resource intact.
	if r.RegisterImage(key, []byte("not a png")) {
		t.Fatal("register accepted garbage")
	}
	if img := r.Image(key); img == nil || img.Pix[0] != 255 {
		t.Error("failed register disturbed the existing resource")
	}

	// A successful re-register replaces it.
	if !r.RegisterImage(key, encodePNG(t, 1, 1, color.RGBA{G: 255, A: 255})) {
		t.Fatal("re-register failed")
	}
	if img := r.Image(key); img.Pix[0] != 0 || img.Pix[1] != 255 {
		t.Error("re-register did not replace the resource")
	}
}

func TestRegistryKindsAreIndependent(t *testing.T) {
	r := NewRegistry()
	key := KeyOfString("shared-name")

	if !r.RegisterImage(key, encodePNG(t, 1, 1, color.RGBA{A: 255})) {
		t.Fatal("register image failed")
	}
	if !r.RegisterFontBuiltin(key, 16) {
		t.Fatal("register font failed")
	}

	r.UnregisterFont(key)
	if r.Image(key) == nil {
		t.Error("unregistering a font removed the image under the same key")
	}
}

func TestRegistryReset(t *testing.T) {
	r := NewRegistry()
	key := KeyOfString("a")
	if !r.RegisterImage(key, encodePNG(t, 1, 1, color.RGBA{A: 255})) {
		t.Fatal("register failed")
	}
	if !r.RegisterFontBuiltin(key, 8) {
		t.Fatal("register font failed")
	}

	r.Reset()
	if r.Image(key) != nil || r.Font(key) != nil {
		t.Error("Reset left resources behind")
	}
}

func TestDecodeMeshValidation(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		ok   bool
	}{
		{"one triangle", make([]byte, 24), true},
		{"two triangles", make([]byte, 48), true},
		{"empty", nil, false},
		{"ragged f32", make([]byte, 25), false},
		{"partial triangle", make([]byte, 16), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := DecodeMesh(tc.data)
			if tc.ok && err != nil {
				t.Fatalf("DecodeMesh: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatal("DecodeMesh accepted invalid payload")
			}
			if tc.ok && m.Triangles() != len(tc.data)/24 {
				t.Errorf("Triangles() = %d, want %d", m.Triangles(), len(tc.data)/24)
			}
		})
	}
}
