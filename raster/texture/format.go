// format.go - texture formats, wrap/filter modes (spec §3, §4.2).
package texture

import "errors"

// Format is the stored texel format. The core always samples out to linear
// RGBA floats regardless of storage format.
type Format int

const (
	RGBA8 Format = iota
	RGBAFloat32
)

// Wrap selects how out-of-[0,1] UV coordinates are handled.
type Wrap int

const (
	Repeat Wrap = iota
	MirroredRepeat
	ClampToEdge
	ClampToBorder
)

// Filter selects the per-level sampling kernel.
type Filter int

const (
	Nearest Filter = iota
	Linear
)

// MipFilter selects how two adjacent mip levels are combined.
type MipFilter int

const (
	MipNearest MipFilter = iota
	MipLinear
)

// Face indexes the six faces of a cube texture, in the standard order.
type Face int

const (
	FacePositiveX Face = iota
	FaceNegativeX
	FacePositiveY
	FaceNegativeY
	FacePositiveZ
	FaceNegativeZ
)

var (
	// ErrInvalidDimensions is returned when width or height is not positive
	// (spec §7). Out-of-range mip levels and cube faces are not errors:
	// Level and Face return nil for them.
	ErrInvalidDimensions = errors.New("texture: invalid dimensions")
)

// DefaultBorderColor is the default ClampToBorder color (spec §3).
var DefaultBorderColor = RGBA{0, 0, 0, 0}

// MaxMipLevels returns floor(log2(max(w,h))) + 1, the spec §3 mip count cap.
func MaxMipLevels(w, h int) int {
	m := w
	if h > m {
		m = h
	}
	levels := 1
	for m > 1 {
		m >>= 1
		levels++
	}
	return levels
}
