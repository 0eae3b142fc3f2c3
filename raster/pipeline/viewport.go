// viewport.go - viewport transform parameters (spec §3 Viewport).
package pipeline

import "github.com/lumenray/raster/raster/geom"

// Viewport maps NDC coordinates to screen space: screen = ndc*P + O.
type Viewport struct {
	X, Y, W, H         float32
	MinDepth, MaxDepth float32

	O geom.Vec4 // offset
	P geom.Vec4 // scale

	AbsMinDepth, AbsMaxDepth float32
}

// NewViewport precomputes O, P, and the ordered depth bounds (spec §3).
func NewViewport(x, y, w, h, minDepth, maxDepth float32) Viewport {
	vp := Viewport{X: x, Y: y, W: w, H: h, MinDepth: minDepth, MaxDepth: maxDepth}
	vp.O = geom.Vec4{X: x + w/2, Y: y + h/2, Z: (maxDepth + minDepth) / 2, W: 0}
	vp.P = geom.Vec4{X: w / 2, Y: -h / 2, Z: (maxDepth - minDepth) / 2, W: 1}
	if minDepth < maxDepth {
		vp.AbsMinDepth, vp.AbsMaxDepth = minDepth, maxDepth
	} else {
		vp.AbsMinDepth, vp.AbsMaxDepth = maxDepth, minDepth
	}
	return vp
}

// ToScreen applies the viewport transform to a clip-space position,
// returning the screen-space position (x,y in pixels, z mapped into the
// viewport's [MinDepth, MaxDepth] range)
// and 1/w for perspective-correct interpolation (spec §4.5 "Setup").
func (vp Viewport) ToScreen(clip geom.Vec4) (screen geom.Vec4, invW float32) {
	invW = 1 / clip.W
	ndc := geom.Vec4{X: clip.X * invW, Y: clip.Y * invW, Z: clip.Z * invW, W: 1}
	screen = geom.Vec4{
		X: ndc.X*vp.P.X + vp.O.X,
		Y: ndc.Y*vp.P.Y + vp.O.Y,
		Z: ndc.Z*vp.P.Z + vp.O.Z,
		W: 1,
	}
	return screen, invW
}
