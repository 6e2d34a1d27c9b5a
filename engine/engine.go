package engine

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wasm96/core/errors"
)

// Engine wraps a wazero runtime configured for cartridge execution.
type Engine struct {
	runtime wazero.Runtime
}

// Config holds configuration for engine creation
type Config struct {
	// MemoryLimitPages sets the maximum guest memory in pages (64KB each).
	// 0 means the wazero default (65536 pages = 4GB).
	// 256 = 16MB, 1024 = 64MB, 4096 = 256MB
	MemoryLimitPages uint32
}

// New creates a new wazero-based engine
func New(ctx context.Context, cfg *Config) (*Engine, error) {
	runtimeCfg := wazero.NewRuntimeConfig()

	if cfg != nil && cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}

	runtime := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)
	return &Engine{runtime: runtime}, nil
}

// Runtime exposes the underlying wazero runtime for host module registration.
func (e *Engine) Runtime() wazero.Runtime {
	return e.runtime
}

// Compile validates and compiles cartridge bytes. Only binary modules are
// accepted; the caller is expected to have sniffed the \0asm magic already
// if it wants a friendlier error.
func (e *Engine) Compile(ctx context.Context, wasmBytes []byte) (wazero.CompiledModule, error) {
	if !IsWASM(wasmBytes) {
		return nil, errors.InvalidInput(errors.PhaseLoad, "not a WebAssembly binary (missing \\0asm magic)")
	}

	compiled, err := e.runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, errors.Load("compile cartridge", err)
	}
	return compiled, nil
}

// Instantiate creates a live instance of a compiled cartridge.
// Start functions are not run automatically; entrypoint dispatch is the
// runtime package's job.
func (e *Engine) Instantiate(ctx context.Context, compiled wazero.CompiledModule) (api.Module, error) {
	cfg := wazero.NewModuleConfig().
		WithName("cartridge").
		WithStartFunctions() // no implicit _start; it may be the guest's draw role

	mod, err := e.runtime.InstantiateModule(ctx, compiled, cfg)
	if err != nil {
		return nil, errors.Instantiation(err)
	}
	return mod, nil
}

// Close releases all engine resources. All instances must be closed first.
func (e *Engine) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

// IsWASM reports whether bytes begin with the \0asm magic.
func IsWASM(b []byte) bool {
	return len(b) >= 4 && b[0] == 0 && b[1] == 'a' && b[2] == 's' && b[3] == 'm'
}
