// frustum.go - world-space frustum, and the six homogeneous clip-space
// planes used for per-vertex clip mask computation (spec §3, §4.3).
package geom

// Frustum is six world-space planes bounding a view volume, in the order
// near, far, top, bottom, left, right. Used for coarse culling ahead of
// vertex transformation (spec §4.6).
type Frustum struct {
	Planes [6]Plane
	Bounds AABB
}

// IntersectsAABB applies the pre-reject shortcut from spec §4.6: the box is
// rejected if any plane reports Back for it, unless the frustum's own bounds
// still overlap the box (in which case treat it as a potential intersection
// rather than a hard reject).
func (f Frustum) IntersectsAABB(box AABB) bool {
	for _, p := range f.Planes {
		if p.IntersectsAABB(box) == Back {
			if !f.Bounds.Intersects(box) {
				return false
			}
		}
	}
	return true
}

// ClipMask is the 6-bit per-vertex clip mask from spec §3: bit i set means
// the vertex is outside plane i.
type ClipMask uint8

const (
	ClipPositiveX ClipMask = 1 << 0
	ClipNegativeX ClipMask = 1 << 1
	ClipPositiveY ClipMask = 1 << 2
	ClipNegativeY ClipMask = 1 << 3
	ClipPositiveZ ClipMask = 1 << 4
	ClipNegativeZ ClipMask = 1 << 5

	ClipMaskAll ClipMask = ClipPositiveX | ClipNegativeX | ClipPositiveY | ClipNegativeY | ClipPositiveZ | ClipNegativeZ
)

// ClipPlanes holds the six standard unit clip cube planes, in homogeneous
// clip space: a point p is inside plane i iff dot(ClipPlanes[i], p) >= 0.
// Coefficients and bit order grounded on original_source/src/Base/Geometry.h
// (FrustumClipPlane/FrustumClipMask).
var ClipPlanes = [6]Vec4{
	{-1, 0, 0, 1}, // +X: w - x >= 0
	{1, 0, 0, 1},  // -X: w + x >= 0
	{0, -1, 0, 1}, // +Y: w - y >= 0
	{0, 1, 0, 1},  // -Y: w + y >= 0
	{0, 0, -1, 1}, // +Z: w - z >= 0
	{0, 0, 1, 1},  // -Z: w + z >= 0
}

var clipMaskBits = [6]ClipMask{
	ClipPositiveX, ClipNegativeX, ClipPositiveY, ClipNegativeY, ClipPositiveZ, ClipNegativeZ,
}

// ComputeClipMask returns the clip mask for a clip-space point, per spec §3:
// bit i is set iff dot(ClipPlanes[i], p) < 0 (the vertex is outside plane i).
func ComputeClipMask(p Vec4) ClipMask {
	var mask ClipMask
	for i, plane := range ClipPlanes {
		if plane.Dot(p) < 0 {
			mask |= clipMaskBits[i]
		}
	}
	return mask
}
