// Package abi pins the wire contract between the host and a cartridge: the
// import module name, every host symbol the guest may import, the guest
// export names the host looks for, and the shared numeric enums. Everything
// crossing this boundary is a plain integer.
package abi

// Version is reported to guests through the version query. Guest SDKs are
// expected to compare it against their compiled expectation and refuse to
// run on mismatch; the host itself never rejects a guest over it.
const Version uint32 = 1

// ImportModule is the module name every host import lives under.
const ImportModule = "env"

// Guest exports.
const (
	// ExportSetup is the only required guest export, called once after
	// instantiation.
	ExportSetup = "setup"

	// ExportUpdate runs per-frame logic before drawing. Optional; absent
	// means no-op.
	ExportUpdate = "update"

	// ExportDraw is the preferred per-frame draw entrypoint. When absent the
	// host falls back to ExportStart, then ExportMain.
	ExportDraw  = "draw"
	ExportStart = "_start"
	ExportMain  = "main"

	// Optional lifecycle hooks.
	ExportInit   = "wasm96_init"
	ExportDeinit = "wasm96_deinit"
	ExportReset  = "wasm96_reset"

	// Guest allocator exports used by storage loads. Both optional; a load
	// with no allocator reports missing.
	ExportAlloc = "wasm96_alloc"
	ExportFree  = "wasm96_free"
)

// Host imports: system.
const (
	SysABIVersion = "wasm96_abi_version"
	SysLog        = "wasm96_system_log"
	SysMillis     = "wasm96_system_millis"
)

// Host imports: video presentation.
const (
	VideoConfig  = "wasm96_video_config"
	VideoUpload  = "wasm96_video_upload"
	VideoPresent = "wasm96_video_present"
)

// Host imports: immediate-mode drawing.
const (
	GfxSetSize         = "wasm96_graphics_set_size"
	GfxSetColor        = "wasm96_graphics_set_color"
	GfxBackground      = "wasm96_graphics_background"
	GfxPoint           = "wasm96_graphics_point"
	GfxLine            = "wasm96_graphics_line"
	GfxRect            = "wasm96_graphics_rect"
	GfxRectOutline     = "wasm96_graphics_rect_outline"
	GfxCircle          = "wasm96_graphics_circle"
	GfxCircleOutline   = "wasm96_graphics_circle_outline"
	GfxTriangle        = "wasm96_graphics_triangle"
	GfxTriangleOutline = "wasm96_graphics_triangle_outline"
	GfxBezierQuadratic = "wasm96_graphics_bezier_quadratic"
	GfxBezierCubic     = "wasm96_graphics_bezier_cubic"
	GfxPill            = "wasm96_graphics_pill"
	GfxPillOutline     = "wasm96_graphics_pill_outline"
	GfxImage           = "wasm96_graphics_image"
	GfxImagePNG        = "wasm96_graphics_image_png"
)

// Host imports: keyed resources.
const (
	GfxPNGRegister     = "wasm96_graphics_png_register"
	GfxPNGDrawKey      = "wasm96_graphics_png_draw_key"
	GfxPNGDrawScaled   = "wasm96_graphics_png_draw_key_scaled"
	GfxPNGUnregister   = "wasm96_graphics_png_unregister"
	GfxGIFRegister     = "wasm96_graphics_gif_register"
	GfxGIFDrawKey      = "wasm96_graphics_gif_draw_key"
	GfxGIFDrawScaled   = "wasm96_graphics_gif_draw_key_scaled"
	GfxGIFUnregister   = "wasm96_graphics_gif_unregister"
	GfxSVGRegister     = "wasm96_graphics_svg_register"
	GfxSVGDrawKey      = "wasm96_graphics_svg_draw_key"
	GfxSVGUnregister   = "wasm96_graphics_svg_unregister"
	GfxMeshRegister    = "wasm96_graphics_mesh_register"
	GfxMeshDrawKey     = "wasm96_graphics_mesh_draw_key"
	GfxMeshUnregister  = "wasm96_graphics_mesh_unregister"
	GfxFontRegisterTTF = "wasm96_graphics_font_register_ttf"
	GfxFontBuiltin     = "wasm96_graphics_font_register_builtin"
	GfxFontUnregister  = "wasm96_graphics_font_unregister"
	GfxTextKey         = "wasm96_graphics_text_key"
	GfxTextMeasureKey  = "wasm96_graphics_text_measure_key"
)

// Host imports: audio.
const (
	AudioConfig  = "wasm96_audio_config"
	AudioPushI16 = "wasm96_audio_push_i16"
	AudioDrain   = "wasm96_audio_drain"
	AudioPlayWAV = "wasm96_audio_play_wav"
	AudioPlayQOA = "wasm96_audio_play_qoa"
	AudioPlayXM  = "wasm96_audio_play_xm"
)

// Host imports: input queries.
const (
	InputJoypadPressed   = "wasm96_joypad_button_pressed"
	InputKeyPressed      = "wasm96_key_pressed"
	InputMouseX          = "wasm96_mouse_x"
	InputMouseY          = "wasm96_mouse_y"
	InputMouseButtons    = "wasm96_mouse_buttons"
	InputLightgunX       = "wasm96_lightgun_x"
	InputLightgunY       = "wasm96_lightgun_y"
	InputLightgunButtons = "wasm96_lightgun_buttons"
)

// Host imports: storage.
const (
	StorageSave = "wasm96_storage_save"
	StorageLoad = "wasm96_storage_load"
	StorageFree = "wasm96_storage_free"
)

// Joypad button ids.
const (
	ButtonB uint32 = iota
	ButtonY
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
	ButtonA
	ButtonX
	ButtonL1
	ButtonR1
	ButtonL2
	ButtonR2
	ButtonL3
	ButtonR3
)

// Mouse button bits.
const (
	MouseLeft uint32 = 1 << iota
	MouseRight
	MouseMiddle
	MouseButton4
	MouseButton5
)

// Lightgun button bits.
const (
	LightgunTrigger uint32 = 1 << iota
	LightgunReload
	LightgunStart
	LightgunSelect
	LightgunAuxA
	LightgunAuxB
	LightgunAuxC
	LightgunOffscreen
)
