// varyings.go - flat float32 varyings block with typed accessors, and quad
// finite-difference derivative helpers (spec §3 PixelQuadContext, §4.5).
package shader

// Varyings is a flat, fixed-size block of interpolated per-vertex outputs.
// Shaders address components by index; helper accessors read/write
// 2/3/4-component groups for convenience.
type Varyings []float32

// NewVaryings allocates a zeroed varyings block of n components.
func NewVaryings(n int) Varyings { return make(Varyings, n) }

// Lerp linearly interpolates two equally-sized varyings blocks into dst:
// dst = a*(1-t) + b*t. Used by the clipper (spec §4.4).
func Lerp(dst, a, b Varyings, t float32) {
	for i := range dst {
		dst[i] = a[i] + (b[i]-a[i])*t
	}
}

// Combine3 computes the perspective-correct barycentric combination
// dst = invZ * (alpha*v0/w0 + beta*v1/w1 + gamma*v2/w2), per spec §4.5.
func Combine3(dst, v0, v1, v2 Varyings, alpha, beta, gamma, invW0, invW1, invW2, invZ float32) {
	for i := range dst {
		dst[i] = invZ * (alpha*v0[i]*invW0 + beta*v1[i]*invW1 + gamma*v2[i]*invW2)
	}
}

func (v Varyings) Vec2(offset int) (float32, float32) {
	return v[offset], v[offset+1]
}

func (v Varyings) Vec3(offset int) (float32, float32, float32) {
	return v[offset], v[offset+1], v[offset+2]
}

func (v Varyings) Vec4(offset int) (float32, float32, float32, float32) {
	return v[offset], v[offset+1], v[offset+2], v[offset+3]
}

func (v Varyings) SetVec2(offset int, x, y float32) {
	v[offset], v[offset+1] = x, y
}

func (v Varyings) SetVec3(offset int, x, y, z float32) {
	v[offset], v[offset+1], v[offset+2] = x, y, z
}

func (v Varyings) SetVec4(offset int, x, y, z, w float32) {
	v[offset], v[offset+1], v[offset+2], v[offset+3] = x, y, z, w
}

// QuadLanes indexes a 2x2 pixel quad: p0 bottom-left, p1 bottom-right, p2
// top-left, p3 top-right (spec §3 PixelQuadContext).
const (
	LaneBottomLeft = iota
	LaneBottomRight
	LaneTopLeft
	LaneTopRight
)

// DFdx returns the per-component screen-space X derivative of a varyings
// component across a quad: V(p1) - V(p0) (spec §4.5).
func DFdx(quad [4]Varyings, component int) float32 {
	return quad[LaneBottomRight][component] - quad[LaneBottomLeft][component]
}

// DFdy returns the per-component screen-space Y derivative: V(p2) - V(p0).
func DFdy(quad [4]Varyings, component int) float32 {
	return quad[LaneTopLeft][component] - quad[LaneBottomLeft][component]
}
