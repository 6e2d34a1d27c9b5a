// Package errors provides structured error types for the wasm96 core.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). Boundary errors never cross into the guest: the ABI dispatcher
// converts them into the zero/nonzero return codes the wire contract uses.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseResource, errors.KindInvalidData).
//		Path("gif", "frame").
//		Detail("truncated image descriptor").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.OutOfBounds(errors.PhaseMemory, ptr, length)
//	err := errors.MissingExport("setup")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
