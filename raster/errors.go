// errors.go - error taxonomy for the rasterization core (spec §7).
package raster

import "errors"

var (
	// ErrInvalidDimensions: W or H not positive when creating a texture,
	// cube texture or framebuffer, or an unsupported framebuffer sample
	// count. Rejected at the API boundary; no state mutated. A mip level
	// count beyond the chain is clamped rather than rejected, and no Device
	// method takes a cube face index.
	ErrInvalidDimensions = errors.New("raster: invalid dimensions")

	// ErrAllocationFailure: the aligned allocator could not satisfy a
	// request. Partial allocations are rolled back before this is returned.
	ErrAllocationFailure = errors.New("raster: allocation failure")

	// ErrShaderLinkMismatch: vertex and fragment shader varyings block
	// sizes disagree, surfaced at CreateShaderProgram.
	ErrShaderLinkMismatch = errors.New("raster: shader link mismatch")

	// ErrDrawContractViolation: Draw without BeginDraw, VAO index out of
	// vertex range, or primitive type inconsistent with index count. The
	// framebuffer is left unchanged. Sampler bindings are not checked.
	ErrDrawContractViolation = errors.New("raster: draw contract violation")

	// ErrUnknownHandle: a handle passed to a Device method was never
	// created by that Device, or was already destroyed.
	ErrUnknownHandle = errors.New("raster: unknown handle")
)

// NumericDegenerate conditions (triangle area <= epsilon after screen
// mapping, w <= 0 with all vertices behind the near plane) are not errors:
// the pipeline discards the primitive silently and draw still succeeds
// (spec §7).
