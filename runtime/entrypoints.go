package runtime

import (
	"github.com/tetratelabs/wazero/api"

	"github.com/wasm96/core/abi"
	"github.com/wasm96/core/errors"
)

// DrawRole records which export was chosen as the per-frame draw call. The
// choice is made once at load; per-frame dispatch never re-resolves.
type DrawRole uint8

const (
	// DrawNone means the guest has no draw-capable export; draw is a no-op.
	DrawNone DrawRole = iota
	// DrawExport is the canonical "draw" export.
	DrawExport
	// DrawStart is the "_start" fallback used by toolchains that emit a
	// command-style module.
	DrawStart
	// DrawMain is the last-resort "main" fallback.
	DrawMain
)

func (r DrawRole) String() string {
	switch r {
	case DrawExport:
		return abi.ExportDraw
	case DrawStart:
		return abi.ExportStart
	case DrawMain:
		return abi.ExportMain
	}
	return "none"
}

// entrypoints is the resolved view of a cartridge's lifecycle exports. Only
// setup is required; nil slots are treated as no-ops.
type entrypoints struct {
	setup  api.Function
	update api.Function
	draw   api.Function
	role   DrawRole

	init   api.Function
	deinit api.Function
	reset  api.Function
}

// resolveEntrypoints inspects a freshly instantiated cartridge. A guest
// exporting both "draw" and "_start" gets only "draw" called per frame; the
// startup export is then left alone entirely.
func resolveEntrypoints(mod api.Module) (entrypoints, error) {
	setup := mod.ExportedFunction(abi.ExportSetup)
	if setup == nil {
		return entrypoints{}, errors.MissingExport(abi.ExportSetup)
	}

	ep := entrypoints{
		setup:  setup,
		update: mod.ExportedFunction(abi.ExportUpdate),
		init:   mod.ExportedFunction(abi.ExportInit),
		deinit: mod.ExportedFunction(abi.ExportDeinit),
		reset:  mod.ExportedFunction(abi.ExportReset),
	}

	switch {
	case mod.ExportedFunction(abi.ExportDraw) != nil:
		ep.draw = mod.ExportedFunction(abi.ExportDraw)
		ep.role = DrawExport
	case mod.ExportedFunction(abi.ExportStart) != nil:
		ep.draw = mod.ExportedFunction(abi.ExportStart)
		ep.role = DrawStart
	case mod.ExportedFunction(abi.ExportMain) != nil:
		ep.draw = mod.ExportedFunction(abi.ExportMain)
		ep.role = DrawMain
	}

	return ep, nil
}
