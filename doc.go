// Package wasm96 is the host-side core of the wasm96 console: it loads an
// untrusted WebAssembly cartridge, exposes a small fixed import surface under
// the "env" module, and drives the guest once per display frame to produce a
// video frame and an audio chunk.
//
// # Architecture Overview
//
// The library is organized into packages with distinct responsibilities:
//
//	wasm96/           Root package (documentation only)
//	├── runtime/      Console: cartridge loading, entrypoints, frame loop
//	├── abi/          Host import surface and wire-contract constants
//	├── engine/       wazero integration and guest memory views
//	├── gfx/          Software rasterizer and framebuffer
//	├── resource/     Keyed asset registry and decoders
//	├── audio/        Multi-channel mixer and sample sources
//	├── input/        Per-frame input snapshot
//	├── storage/      Key/value save-state store
//	├── errors/       Structured error types for debugging
//	└── cmd/run/      Cartridge runner CLI
//
// # Quick Start
//
// Load and run a cartridge:
//
//	con, err := runtime.NewConsole(ctx, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer con.Close(ctx)
//
//	if err := con.Load(ctx, cartBytes); err != nil {
//	    log.Fatal(err)
//	}
//
//	for i := 0; i < 60; i++ {
//	    con.SetInput(input.Snapshot{})
//	    if err := con.RunFrame(ctx); err != nil {
//	        log.Fatal(err)
//	    }
//	    frame := con.Video().Frame()
//	    pcm := con.Audio().Drain(0)
//	    _ = frame
//	    _ = pcm
//	}
//
// The guest's only communication channel is the ABI: plain-integer host
// imports plus exported entrypoints (setup, update, draw). Offsets passed by
// the guest are treated as untrusted and bounds-checked before every read.
package wasm96
