package abi

import (
	"context"
	"encoding/binary"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wasm96/core/audio"
	"github.com/wasm96/core/engine"
	"github.com/wasm96/core/gfx"
	"github.com/wasm96/core/input"
	"github.com/wasm96/core/resource"
	"github.com/wasm96/core/storage"
)

// Env bundles the host subsystems the import surface is backed by. Every
// import touches exactly one of them; nothing here is reachable from the
// guest except through these calls.
type Env struct {
	Video     *gfx.Surface
	Audio     *audio.Mixer
	Resources *resource.Registry
	Storage   *storage.Store

	// Input returns the current frame's snapshot. Must never return nil.
	Input func() *input.Snapshot

	// Millis is the monotonic clock behind wasm96_system_millis and
	// animation frame selection. Injectable for deterministic tests.
	Millis func() uint64

	// Drained receives mixed samples when the guest itself drains the
	// mixer, so the frontend can still present them. Optional.
	Drained func(pcm []int16)

	Log *zap.Logger
}

func (e *Env) logger() *zap.Logger {
	if e.Log != nil {
		return e.Log
	}
	return engine.Logger()
}

// hostFunc is one row of the import table.
type hostFunc struct {
	name    string
	params  []api.ValueType
	results []api.ValueType
	handler api.GoModuleFunc
}

var (
	vi32 = api.ValueTypeI32
	vi64 = api.ValueTypeI64
)

func sig(t ...api.ValueType) []api.ValueType { return t }

// Bind instantiates the "env" host module, exposing the full import surface
// backed by env. Called once per runtime, before the cartridge itself is
// instantiated.
func Bind(ctx context.Context, rt wazero.Runtime, env *Env) (api.Module, error) {
	builder := rt.NewHostModuleBuilder(ImportModule)
	for _, f := range env.funcs() {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(f.handler, f.params, f.results).
			Export(f.name)
	}
	return builder.Instantiate(ctx)
}

// bytes reads a guest (ptr, len) range. Failures are logged and reported as
// absent; boundary calls surface them to the guest as a zero return.
func (e *Env) bytes(mod api.Module, ptr, length uint64) ([]byte, bool) {
	data, err := engine.ReadBytes(mod, uint32(ptr), uint32(length))
	if err != nil {
		e.logger().Debug("guest range rejected", zap.Error(err))
		return nil, false
	}
	return data, true
}

func (e *Env) key(mod api.Module, ptr, length uint64) (resource.Key, bool) {
	raw, ok := e.bytes(mod, ptr, length)
	if !ok {
		return 0, false
	}
	return resource.KeyOf(raw), true
}

func boolRet(stack []uint64, ok bool) {
	if ok {
		stack[0] = 1
	} else {
		stack[0] = 0
	}
}

func (e *Env) funcs() []hostFunc {
	return []hostFunc{
		// System.
		{SysABIVersion, nil, sig(vi32), func(_ context.Context, _ api.Module, stack []uint64) {
			stack[0] = uint64(Version)
		}},
		{SysMillis, nil, sig(vi64), func(_ context.Context, _ api.Module, stack []uint64) {
			stack[0] = e.Millis()
		}},
		{SysLog, sig(vi32, vi32), nil, func(_ context.Context, mod api.Module, stack []uint64) {
			if msg, ok := e.bytes(mod, stack[0], stack[1]); ok {
				e.logger().Info("cartridge", zap.ByteString("msg", msg))
			}
		}},

		// Video presentation.
		{VideoConfig, sig(vi32, vi32, vi32), sig(vi32), func(_ context.Context, _ api.Module, stack []uint64) {
			boolRet(stack, e.Video.Configure(uint32(stack[0]), uint32(stack[1]), gfx.PixelFormat(stack[2])))
		}},
		{VideoUpload, sig(vi32, vi32, vi32), sig(vi32), func(_ context.Context, mod api.Module, stack []uint64) {
			data, ok := e.bytes(mod, stack[0], stack[1])
			if !ok {
				boolRet(stack, false)
				return
			}
			boolRet(stack, e.Video.Upload(data, uint32(stack[2])))
		}},
		{VideoPresent, nil, nil, func(_ context.Context, _ api.Module, _ []uint64) {
			e.Video.Present()
		}},

		// Immediate-mode drawing.
		{GfxSetSize, sig(vi32, vi32), nil, func(_ context.Context, _ api.Module, stack []uint64) {
			e.Video.Resize(uint32(stack[0]), uint32(stack[1]))
		}},
		{GfxSetColor, sig(vi32, vi32, vi32, vi32), nil, func(_ context.Context, _ api.Module, stack []uint64) {
			e.Video.SetColor(gfx.Color{
				R: clampU8(stack[0]), G: clampU8(stack[1]),
				B: clampU8(stack[2]), A: clampU8(stack[3]),
			})
		}},
		{GfxBackground, sig(vi32, vi32, vi32), nil, func(_ context.Context, _ api.Module, stack []uint64) {
			e.Video.Background(clampU8(stack[0]), clampU8(stack[1]), clampU8(stack[2]))
		}},
		{GfxPoint, sig(vi32, vi32), nil, func(_ context.Context, _ api.Module, stack []uint64) {
			e.Video.Point(i32(stack[0]), i32(stack[1]))
		}},
		{GfxLine, sig(vi32, vi32, vi32, vi32), nil, func(_ context.Context, _ api.Module, stack []uint64) {
			e.Video.Line(i32(stack[0]), i32(stack[1]), i32(stack[2]), i32(stack[3]))
		}},
		{GfxRect, sig(vi32, vi32, vi32, vi32), nil, func(_ context.Context, _ api.Module, stack []uint64) {
			e.Video.Rect(i32(stack[0]), i32(stack[1]), uint32(stack[2]), uint32(stack[3]))
		}},
		{GfxRectOutline, sig(vi32, vi32, vi32, vi32), nil, func(_ context.Context, _ api.Module, stack []uint64) {
			e.Video.RectOutline(i32(stack[0]), i32(stack[1]), uint32(stack[2]), uint32(stack[3]))
		}},
		{GfxCircle, sig(vi32, vi32, vi32), nil, func(_ context.Context, _ api.Module, stack []uint64) {
			e.Video.Circle(i32(stack[0]), i32(stack[1]), uint32(stack[2]))
		}},
		{GfxCircleOutline, sig(vi32, vi32, vi32), nil, func(_ context.Context, _ api.Module, stack []uint64) {
			e.Video.CircleOutline(i32(stack[0]), i32(stack[1]), uint32(stack[2]))
		}},
		{GfxTriangle, sig(vi32, vi32, vi32, vi32, vi32, vi32), nil, func(_ context.Context, _ api.Module, stack []uint64) {
			e.Video.Triangle(i32(stack[0]), i32(stack[1]), i32(stack[2]), i32(stack[3]), i32(stack[4]), i32(stack[5]))
		}},
		{GfxTriangleOutline, sig(vi32, vi32, vi32, vi32, vi32, vi32), nil, func(_ context.Context, _ api.Module, stack []uint64) {
			e.Video.TriangleOutline(i32(stack[0]), i32(stack[1]), i32(stack[2]), i32(stack[3]), i32(stack[4]), i32(stack[5]))
		}},
		{GfxBezierQuadratic, sig(vi32, vi32, vi32, vi32, vi32, vi32, vi32), nil, func(_ context.Context, _ api.Module, stack []uint64) {
			e.Video.BezierQuadratic(i32(stack[0]), i32(stack[1]), i32(stack[2]), i32(stack[3]), i32(stack[4]), i32(stack[5]), uint32(stack[6]))
		}},
		{GfxBezierCubic, sig(vi32, vi32, vi32, vi32, vi32, vi32, vi32, vi32, vi32), nil, func(_ context.Context, _ api.Module, stack []uint64) {
			e.Video.BezierCubic(i32(stack[0]), i32(stack[1]), i32(stack[2]), i32(stack[3]), i32(stack[4]), i32(stack[5]), i32(stack[6]), i32(stack[7]), uint32(stack[8]))
		}},
		{GfxPill, sig(vi32, vi32, vi32, vi32), nil, func(_ context.Context, _ api.Module, stack []uint64) {
			e.Video.Pill(i32(stack[0]), i32(stack[1]), uint32(stack[2]), uint32(stack[3]))
		}},
		{GfxPillOutline, sig(vi32, vi32, vi32, vi32), nil, func(_ context.Context, _ api.Module, stack []uint64) {
			e.Video.PillOutline(i32(stack[0]), i32(stack[1]), uint32(stack[2]), uint32(stack[3]))
		}},
		{GfxImage, sig(vi32, vi32, vi32, vi32, vi32, vi32), nil, func(_ context.Context, mod api.Module, stack []uint64) {
			if data, ok := e.bytes(mod, stack[4], stack[5]); ok {
				e.Video.BlitRGBA(i32(stack[0]), i32(stack[1]), uint32(stack[2]), uint32(stack[3]), data)
			}
		}},
		{GfxImagePNG, sig(vi32, vi32, vi32, vi32), nil, func(_ context.Context, mod api.Module, stack []uint64) {
			data, ok := e.bytes(mod, stack[2], stack[3])
			if !ok {
				return
			}
			img, err := resource.DecodeImage(data)
			if err != nil {
				return
			}
			e.Video.BlitRGBA(i32(stack[0]), i32(stack[1]), img.Width, img.Height, img.Pix)
		}},

		// Keyed raster images.
		{GfxPNGRegister, sig(vi32, vi32, vi32, vi32), sig(vi32), func(_ context.Context, mod api.Module, stack []uint64) {
			boolRet(stack, e.registerKeyed(mod, stack, e.Resources.RegisterImage))
		}},
		{GfxPNGDrawKey, sig(vi32, vi32, vi32, vi32), nil, func(_ context.Context, mod api.Module, stack []uint64) {
			if img := e.imageAt(mod, stack[0], stack[1]); img != nil {
				e.Video.BlitRGBA(i32(stack[2]), i32(stack[3]), img.Width, img.Height, img.Pix)
			}
		}},
		{GfxPNGDrawScaled, sig(vi32, vi32, vi32, vi32, vi32, vi32), nil, func(_ context.Context, mod api.Module, stack []uint64) {
			if img := e.imageAt(mod, stack[0], stack[1]); img != nil {
				e.Video.BlitRGBAScaled(i32(stack[2]), i32(stack[3]), img.Width, img.Height, uint32(stack[4]), uint32(stack[5]), img.Pix)
			}
		}},
		{GfxPNGUnregister, sig(vi32, vi32), nil, func(_ context.Context, mod api.Module, stack []uint64) {
			if k, ok := e.key(mod, stack[0], stack[1]); ok {
				e.Resources.UnregisterImage(k)
			}
		}},

		// Keyed animations.
		{GfxGIFRegister, sig(vi32, vi32, vi32, vi32), sig(vi32), func(_ context.Context, mod api.Module, stack []uint64) {
			boolRet(stack, e.registerKeyed(mod, stack, e.Resources.RegisterAnimation))
		}},
		{GfxGIFDrawKey, sig(vi32, vi32, vi32, vi32), nil, func(_ context.Context, mod api.Module, stack []uint64) {
			if anim := e.animationAt(mod, stack[0], stack[1]); anim != nil {
				frame := anim.Frames[anim.FrameIndex(e.Millis())]
				e.Video.BlitRGBA(i32(stack[2]), i32(stack[3]), anim.Width, anim.Height, frame)
			}
		}},
		{GfxGIFDrawScaled, sig(vi32, vi32, vi32, vi32, vi32, vi32), nil, func(_ context.Context, mod api.Module, stack []uint64) {
			if anim := e.animationAt(mod, stack[0], stack[1]); anim != nil {
				frame := anim.Frames[anim.FrameIndex(e.Millis())]
				e.Video.BlitRGBAScaled(i32(stack[2]), i32(stack[3]), anim.Width, anim.Height, uint32(stack[4]), uint32(stack[5]), frame)
			}
		}},
		{GfxGIFUnregister, sig(vi32, vi32), nil, func(_ context.Context, mod api.Module, stack []uint64) {
			if k, ok := e.key(mod, stack[0], stack[1]); ok {
				e.Resources.UnregisterAnimation(k)
			}
		}},

		// Keyed vectors.
		{GfxSVGRegister, sig(vi32, vi32, vi32, vi32), sig(vi32), func(_ context.Context, mod api.Module, stack []uint64) {
			boolRet(stack, e.registerKeyed(mod, stack, e.Resources.RegisterVector))
		}},
		{GfxSVGDrawKey, sig(vi32, vi32, vi32, vi32, vi32, vi32), nil, func(_ context.Context, mod api.Module, stack []uint64) {
			k, ok := e.key(mod, stack[0], stack[1])
			if !ok {
				return
			}
			v := e.Resources.Vector(k)
			if v == nil {
				return
			}
			img := v.Rasterize(uint32(stack[4]), uint32(stack[5]))
			e.Video.BlitRGBA(i32(stack[2]), i32(stack[3]), img.Width, img.Height, img.Pix)
		}},
		{GfxSVGUnregister, sig(vi32, vi32), nil, func(_ context.Context, mod api.Module, stack []uint64) {
			if k, ok := e.key(mod, stack[0], stack[1]); ok {
				e.Resources.UnregisterVector(k)
			}
		}},

		// Keyed meshes.
		{GfxMeshRegister, sig(vi32, vi32, vi32, vi32), sig(vi32), func(_ context.Context, mod api.Module, stack []uint64) {
			boolRet(stack, e.registerKeyed(mod, stack, e.Resources.RegisterMesh))
		}},
		{GfxMeshDrawKey, sig(vi32, vi32, vi32, vi32), nil, func(_ context.Context, mod api.Module, stack []uint64) {
			k, ok := e.key(mod, stack[0], stack[1])
			if !ok {
				return
			}
			e.Video.DrawMesh(e.Resources.Mesh(k), i32(stack[2]), i32(stack[3]))
		}},
		{GfxMeshUnregister, sig(vi32, vi32), nil, func(_ context.Context, mod api.Module, stack []uint64) {
			if k, ok := e.key(mod, stack[0], stack[1]); ok {
				e.Resources.UnregisterMesh(k)
			}
		}},

		// Fonts and text.
		{GfxFontRegisterTTF, sig(vi32, vi32, vi32, vi32), sig(vi32), func(_ context.Context, mod api.Module, stack []uint64) {
			boolRet(stack, e.registerKeyed(mod, stack, e.Resources.RegisterFontTTF))
		}},
		{GfxFontBuiltin, sig(vi32, vi32, vi32), sig(vi32), func(_ context.Context, mod api.Module, stack []uint64) {
			k, ok := e.key(mod, stack[0], stack[1])
			if !ok {
				boolRet(stack, false)
				return
			}
			boolRet(stack, e.Resources.RegisterFontBuiltin(k, uint32(stack[2])))
		}},
		{GfxFontUnregister, sig(vi32, vi32), nil, func(_ context.Context, mod api.Module, stack []uint64) {
			if k, ok := e.key(mod, stack[0], stack[1]); ok {
				e.Resources.UnregisterFont(k)
			}
		}},
		{GfxTextKey, sig(vi32, vi32, vi32, vi32, vi32, vi32), nil, func(_ context.Context, mod api.Module, stack []uint64) {
			k, ok := e.key(mod, stack[2], stack[3])
			if !ok {
				return
			}
			font := e.Resources.Font(k)
			if font == nil {
				return
			}
			text, ok := e.bytes(mod, stack[4], stack[5])
			if !ok {
				return
			}
			e.Video.DrawText(font, i32(stack[0]), i32(stack[1]), string(text))
		}},
		{GfxTextMeasureKey, sig(vi32, vi32, vi32, vi32), sig(vi64), func(_ context.Context, mod api.Module, stack []uint64) {
			k, ok := e.key(mod, stack[0], stack[1])
			if !ok {
				stack[0] = 0
				return
			}
			font := e.Resources.Font(k)
			if font == nil {
				stack[0] = 0
				return
			}
			text, ok := e.bytes(mod, stack[2], stack[3])
			if !ok {
				stack[0] = 0
				return
			}
			w, h := font.Measure(string(text))
			stack[0] = uint64(w)<<32 | uint64(h)
		}},

		// Audio.
		{AudioConfig, sig(vi32, vi32), sig(vi32), func(_ context.Context, _ api.Module, stack []uint64) {
			boolRet(stack, e.Audio.Configure(uint32(stack[0]), uint32(stack[1])))
		}},
		{AudioPushI16, sig(vi32, vi32), sig(vi32), func(_ context.Context, mod api.Module, stack []uint64) {
			frames := uint32(stack[1])
			byteLen := uint64(frames) * uint64(e.Audio.Channels()) * 2
			data, ok := e.bytes(mod, stack[0], byteLen)
			if !ok {
				stack[0] = 0
				return
			}
			samples := make([]int16, len(data)/2)
			for i := range samples {
				samples[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
			}
			stack[0] = uint64(e.Audio.PushI16(samples))
		}},
		{AudioDrain, sig(vi32), sig(vi32), func(_ context.Context, _ api.Module, stack []uint64) {
			pcm := e.Audio.Drain(uint32(stack[0]))
			if e.Drained != nil && len(pcm) > 0 {
				e.Drained(pcm)
			}
			stack[0] = uint64(len(pcm) / int(e.Audio.Channels()))
		}},
		{AudioPlayWAV, sig(vi32, vi32), sig(vi32), func(_ context.Context, mod api.Module, stack []uint64) {
			data, ok := e.bytes(mod, stack[0], stack[1])
			boolRet(stack, ok && e.Audio.PlayWAV(data))
		}},
		{AudioPlayQOA, sig(vi32, vi32), sig(vi32), func(_ context.Context, mod api.Module, stack []uint64) {
			data, ok := e.bytes(mod, stack[0], stack[1])
			boolRet(stack, ok && e.Audio.PlayQOA(data))
		}},
		{AudioPlayXM, sig(vi32, vi32), sig(vi32), func(_ context.Context, mod api.Module, stack []uint64) {
			data, ok := e.bytes(mod, stack[0], stack[1])
			boolRet(stack, ok && e.Audio.PlayXM(data))
		}},

		// Input queries.
		{InputJoypadPressed, sig(vi32, vi32), sig(vi32), func(_ context.Context, _ api.Module, stack []uint64) {
			boolRet(stack, e.Input().JoypadPressed(uint32(stack[0]), uint32(stack[1])))
		}},
		{InputKeyPressed, sig(vi32), sig(vi32), func(_ context.Context, _ api.Module, stack []uint64) {
			boolRet(stack, e.Input().KeyPressed(uint32(stack[0])))
		}},
		{InputMouseX, nil, sig(vi32), func(_ context.Context, _ api.Module, stack []uint64) {
			stack[0] = api.EncodeI32(e.Input().MouseX)
		}},
		{InputMouseY, nil, sig(vi32), func(_ context.Context, _ api.Module, stack []uint64) {
			stack[0] = api.EncodeI32(e.Input().MouseY)
		}},
		{InputMouseButtons, nil, sig(vi32), func(_ context.Context, _ api.Module, stack []uint64) {
			stack[0] = uint64(e.Input().MouseBtn)
		}},
		{InputLightgunX, sig(vi32), sig(vi32), func(_ context.Context, _ api.Module, stack []uint64) {
			stack[0] = api.EncodeI32(e.Input().LightgunAt(uint32(stack[0])).X)
		}},
		{InputLightgunY, sig(vi32), sig(vi32), func(_ context.Context, _ api.Module, stack []uint64) {
			stack[0] = api.EncodeI32(e.Input().LightgunAt(uint32(stack[0])).Y)
		}},
		{InputLightgunButtons, sig(vi32), sig(vi32), func(_ context.Context, _ api.Module, stack []uint64) {
			stack[0] = uint64(e.Input().LightgunAt(uint32(stack[0])).Buttons)
		}},

		// Storage.
		{StorageSave, sig(vi32, vi32, vi32, vi32), nil, func(_ context.Context, mod api.Module, stack []uint64) {
			key, ok := e.bytes(mod, stack[0], stack[1])
			if !ok {
				return
			}
			value, ok := e.bytes(mod, stack[2], stack[3])
			if !ok {
				return
			}
			e.Storage.Save(string(key), value)
		}},
		{StorageLoad, sig(vi32, vi32), sig(vi64), func(ctx context.Context, mod api.Module, stack []uint64) {
			stack[0] = e.storageLoad(ctx, mod, stack[0], stack[1])
		}},
		{StorageFree, sig(vi32, vi32), nil, func(ctx context.Context, mod api.Module, stack []uint64) {
			free := mod.ExportedFunction(ExportFree)
			if free == nil {
				return
			}
			if _, err := free.Call(ctx, stack[0], stack[1]); err != nil {
				e.logger().Debug("guest free failed", zap.Error(err))
			}
		}},
	}
}

// registerKeyed covers the common (key_ptr, key_len, data_ptr, data_len)
// registration shape.
func (e *Env) registerKeyed(mod api.Module, stack []uint64, register func(resource.Key, []byte) bool) bool {
	k, ok := e.key(mod, stack[0], stack[1])
	if !ok {
		return false
	}
	data, ok := e.bytes(mod, stack[2], stack[3])
	if !ok {
		return false
	}
	return register(k, data)
}

func (e *Env) imageAt(mod api.Module, ptr, length uint64) *resource.Image {
	k, ok := e.key(mod, ptr, length)
	if !ok {
		return nil
	}
	return e.Resources.Image(k)
}

func (e *Env) animationAt(mod api.Module, ptr, length uint64) *resource.Animation {
	k, ok := e.key(mod, ptr, length)
	if !ok {
		return nil
	}
	anim := e.Resources.Animation(k)
	if anim == nil || len(anim.Frames) == 0 {
		return nil
	}
	return anim
}

// storageLoad copies a stored blob into guest memory through the guest's own
// allocator export and packs (ptr<<32)|len. Zero means missing, no allocator,
// or a failed allocation; the guest frees the block via wasm96_storage_free.
func (e *Env) storageLoad(ctx context.Context, mod api.Module, keyPtr, keyLen uint64) uint64 {
	key, ok := e.bytes(mod, keyPtr, keyLen)
	if !ok {
		return 0
	}
	blob, ok := e.Storage.Load(string(key))
	if !ok || len(blob) == 0 {
		return 0
	}

	alloc := mod.ExportedFunction(ExportAlloc)
	if alloc == nil {
		return 0
	}
	res, err := alloc.Call(ctx, uint64(uint32(len(blob))))
	if err != nil || len(res) == 0 {
		e.logger().Debug("guest alloc failed", zap.Error(err))
		return 0
	}
	ptr := uint32(res[0])
	if ptr == 0 {
		return 0
	}
	if err := engine.WriteBytes(mod, ptr, blob); err != nil {
		e.logger().Debug("storage load write failed", zap.Error(err))
		return 0
	}
	return uint64(ptr)<<32 | uint64(uint32(len(blob)))
}

func i32(v uint64) int32 { return int32(uint32(v)) }

func clampU8(v uint64) uint8 {
	if uint32(v) > 255 {
		return 255
	}
	return uint8(v)
}
