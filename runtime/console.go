// Package runtime drives cartridge execution: loading, entrypoint
// resolution, the per-frame update/draw sequence, and teardown. A Console is
// the single object a frontend embeds.
package runtime

import (
	"context"
	"sync"
	"time"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wasm96/core/abi"
	"github.com/wasm96/core/audio"
	"github.com/wasm96/core/engine"
	"github.com/wasm96/core/errors"
	"github.com/wasm96/core/gfx"
	"github.com/wasm96/core/input"
	"github.com/wasm96/core/resource"
	"github.com/wasm96/core/storage"
)

// Config tunes a Console. The zero value is usable.
type Config struct {
	// MemoryLimitPages caps the cartridge's linear memory, in 64KiB pages.
	// Zero means the engine default.
	MemoryLimitPages uint32

	// Logger receives host-side events and guest log calls. Nil means the
	// process logger.
	Logger *zap.Logger

	// Millis overrides the monotonic clock guests observe. Nil means wall
	// time since console creation.
	Millis func() uint64
}

// cartridge is the live guest: its compiled form, instance, and resolved
// entrypoints.
type cartridge struct {
	compiled wazero.CompiledModule
	module   api.Module
	entry    entrypoints
}

// Console owns one engine and the full subsystem set, and runs at most one
// cartridge at a time. Frame driving is single-threaded: SetInput, RunFrame
// and the frame-output accessors are meant to be called from one goroutine.
type Console struct {
	engine    *engine.Engine
	video     *gfx.Surface
	mixer     *audio.Mixer
	resources *resource.Registry
	store     *storage.Store
	log       *zap.Logger
	millis    func() uint64

	mu      sync.Mutex
	snap    *input.Snapshot
	pcm     []int16
	cart    *cartridge
	hostMod api.Module
}

// NewConsole builds the engine, wires every subsystem into the guest import
// surface, and leaves the console ready for Load.
func NewConsole(ctx context.Context, cfg *Config) (*Console, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	eng, err := engine.New(ctx, &engine.Config{MemoryLimitPages: cfg.MemoryLimitPages})
	if err != nil {
		return nil, err
	}

	log := cfg.Logger
	if log == nil {
		log = engine.Logger()
	}

	millis := cfg.Millis
	if millis == nil {
		start := time.Now()
		millis = func() uint64 { return uint64(time.Since(start).Milliseconds()) }
	}

	c := &Console{
		engine:    eng,
		video:     gfx.NewSurface(),
		mixer:     audio.NewMixer(),
		resources: resource.NewRegistry(),
		store:     storage.NewStore(),
		log:       log,
		millis:    millis,
		snap:      &input.Snapshot{},
	}

	env := &abi.Env{
		Video:     c.video,
		Audio:     c.mixer,
		Resources: c.resources,
		Storage:   c.store,
		Input:     c.currentInput,
		Millis:    millis,
		Drained:   c.bufferAudio,
		Log:       log,
	}

	hostMod, err := abi.Bind(ctx, eng.Runtime(), env)
	if err != nil {
		eng.Close(ctx)
		return nil, errors.Instantiation(err)
	}
	c.hostMod = hostMod

	return c, nil
}

// Load compiles and instantiates a cartridge, replacing any previous one.
// The guest's init hook (when exported) and required setup run before Load
// returns; a setup trap fails the load.
func (c *Console) Load(ctx context.Context, wasmBytes []byte) error {
	compiled, err := c.engine.Compile(ctx, wasmBytes)
	if err != nil {
		return err
	}

	if err := c.Unload(ctx); err != nil {
		compiled.Close(ctx)
		return err
	}

	mod, err := c.engine.Instantiate(ctx, compiled)
	if err != nil {
		compiled.Close(ctx)
		return err
	}

	entry, err := resolveEntrypoints(mod)
	if err != nil {
		mod.Close(ctx)
		compiled.Close(ctx)
		return err
	}

	c.log.Info("cartridge loaded",
		zap.String("draw_role", entry.role.String()),
		zap.Bool("has_update", entry.update != nil))

	cart := &cartridge{compiled: compiled, module: mod, entry: entry}

	if entry.init != nil {
		if _, err := entry.init.Call(ctx); err != nil {
			cart.close(ctx)
			return errors.Wrap(errors.PhaseLoad, errors.KindInstantiation, err, "guest init trapped")
		}
	}
	if _, err := entry.setup.Call(ctx); err != nil {
		cart.close(ctx)
		return errors.Wrap(errors.PhaseLoad, errors.KindInstantiation, err, "guest setup trapped")
	}

	c.mu.Lock()
	c.cart = cart
	c.mu.Unlock()
	return nil
}

// SetInput publishes the snapshot the next frame's queries observe.
func (c *Console) SetInput(snap input.Snapshot) {
	c.mu.Lock()
	c.snap = &snap
	c.mu.Unlock()
}

// RunFrame drives one frame: guest update (when exported), then the resolved
// draw call. Guest traps surface as errors; the cartridge stays loaded so
// the frontend chooses whether to reset or unload.
func (c *Console) RunFrame(ctx context.Context) error {
	cart := c.current()
	if cart == nil {
		return errors.NotInitialized(errors.PhaseLoad, "cartridge")
	}

	if cart.entry.update != nil {
		if _, err := cart.entry.update.Call(ctx); err != nil {
			return errors.Wrap(errors.PhaseABI, errors.KindInstantiation, err, "guest update trapped")
		}
	}
	if cart.entry.draw != nil {
		if _, err := cart.entry.draw.Call(ctx); err != nil {
			return errors.Wrap(errors.PhaseABI, errors.KindInstantiation, err, "guest draw trapped")
		}
	}
	return nil
}

// Reset invokes the guest's reset hook when present, then re-runs setup so a
// hook-less cartridge still restarts cleanly.
func (c *Console) Reset(ctx context.Context) error {
	cart := c.current()
	if cart == nil {
		return errors.NotInitialized(errors.PhaseLoad, "cartridge")
	}

	if cart.entry.reset != nil {
		if _, err := cart.entry.reset.Call(ctx); err != nil {
			return errors.Wrap(errors.PhaseABI, errors.KindInstantiation, err, "guest reset trapped")
		}
		return nil
	}

	if _, err := cart.entry.setup.Call(ctx); err != nil {
		return errors.Wrap(errors.PhaseABI, errors.KindInstantiation, err, "guest setup trapped")
	}
	return nil
}

// Unload tears down the current cartridge, calling its deinit hook first,
// and drops every registered resource. No-op when nothing is loaded.
func (c *Console) Unload(ctx context.Context) error {
	c.mu.Lock()
	cart := c.cart
	c.cart = nil
	c.mu.Unlock()

	if cart == nil {
		return nil
	}

	if cart.entry.deinit != nil {
		if _, err := cart.entry.deinit.Call(ctx); err != nil {
			c.log.Warn("guest deinit trapped", zap.Error(err))
		}
	}
	cart.close(ctx)
	c.resources.Reset()
	return nil
}

// Close unloads and releases the engine.
func (c *Console) Close(ctx context.Context) error {
	if err := c.Unload(ctx); err != nil {
		return err
	}
	return c.engine.Close(ctx)
}

// Loaded reports whether a cartridge is live.
func (c *Console) Loaded() bool { return c.current() != nil }

// DrawRole exposes which export draws each frame, for diagnostics.
func (c *Console) DrawRole() DrawRole {
	cart := c.current()
	if cart == nil {
		return DrawNone
	}
	return cart.entry.role
}

// Video is the framebuffer the frontend presents from.
func (c *Console) Video() *gfx.Surface { return c.video }

// Audio is the mixer the frontend drains.
func (c *Console) Audio() *audio.Mixer { return c.mixer }

// Resources exposes the registry, mainly for tests and tooling.
func (c *Console) Resources() *resource.Registry { return c.resources }

// Storage is the save-state store, for frontend persistence.
func (c *Console) Storage() *storage.Store { return c.store }

// TakeAudio returns and clears samples the guest drained itself, so frames
// mixed inside a guest call still reach the speakers.
func (c *Console) TakeAudio() []int16 {
	c.mu.Lock()
	defer c.mu.Unlock()
	pcm := c.pcm
	c.pcm = nil
	return pcm
}

func (c *Console) current() *cartridge {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cart
}

func (c *Console) currentInput() *input.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

func (c *Console) bufferAudio(pcm []int16) {
	c.mu.Lock()
	c.pcm = append(c.pcm, pcm...)
	c.mu.Unlock()
}

func (cart *cartridge) close(ctx context.Context) {
	cart.module.Close(ctx)
	cart.compiled.Close(ctx)
}
