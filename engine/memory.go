package engine

import (
	"github.com/tetratelabs/wazero/api"

	"github.com/wasm96/core/errors"
)

// Guest pointers are plain u32 offsets into the cartridge's linear memory.
// Every (ptr, len) pair that crosses the ABI is untrusted: it is bounds
// checked here and the bytes are copied out, so no view ever survives past
// the host call that produced it. The guest may grow or repurpose its memory
// between calls.

// ReadBytes copies len bytes at ptr out of the guest's linear memory.
func ReadBytes(mod api.Module, ptr, length uint32) ([]byte, error) {
	mem := mod.Memory()
	if mem == nil {
		return nil, errors.NotInitialized(errors.PhaseMemory, "guest memory")
	}

	view, ok := mem.Read(ptr, length)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseMemory, ptr, length)
	}

	out := make([]byte, length)
	copy(out, view)
	return out, nil
}

// ReadString copies a guest UTF-8 string. Invalid UTF-8 is passed through;
// callers that need validity check it themselves.
func ReadString(mod api.Module, ptr, length uint32) (string, error) {
	b, err := ReadBytes(mod, ptr, length)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WriteBytes copies data into guest memory at ptr.
func WriteBytes(mod api.Module, ptr uint32, data []byte) error {
	mem := mod.Memory()
	if mem == nil {
		return errors.NotInitialized(errors.PhaseMemory, "guest memory")
	}

	if !mem.Write(ptr, data) {
		return errors.OutOfBounds(errors.PhaseMemory, ptr, uint32(len(data)))
	}
	return nil
}
