// rasterizer.go - triangle setup, backface cull, 2x2 pixel-quad traversal,
// edge functions with the top-left rule, MSAA coverage, perspective-correct
// interpolation, early-Z, and fragment invocation (spec §4.5).
package pipeline

import (
	"math"

	"github.com/lumenray/raster/raster/framebuffer"
	"github.com/lumenray/raster/raster/geom"
	"github.com/lumenray/raster/raster/shader"
	"github.com/lumenray/raster/raster/texture"
)

const degenerateAreaEpsilon = 1e-6

// screenTriangle is one clipped, viewport-mapped triangle ready for
// rasterization.
type screenTriangle struct {
	pos      [3]geom.Vec4 // screen-space x,y,z; w unused (already divided)
	invW     [3]float32
	varyings [3]shader.Varyings

	depthMin, depthMax float32 // viewport depth range, for clamping interpolated z
}

// setupTriangle performs perspective divide and viewport mapping for a
// clipped triangle, returning nil if it is numerically degenerate (spec §7
// NumericDegenerate) or back-face culled per state.
func setupTriangle(tri [3]ClipVertex, vp Viewport, state RenderState) *screenTriangle {
	var st screenTriangle
	st.depthMin, st.depthMax = vp.AbsMinDepth, vp.AbsMaxDepth
	for i, v := range tri {
		if v.Pos.W <= 0 {
			return nil // behind the eye; a well-formed clip should prevent this
		}
		screen, invW := vp.ToScreen(v.Pos)
		st.pos[i] = screen
		st.invW[i] = invW
		st.varyings[i] = v.Varyings
	}

	area := edgeFunction(st.pos[0], st.pos[1], st.pos[2])
	if math.Abs(float64(area)) <= degenerateAreaEpsilon {
		return nil
	}

	// The viewport flips y, so a triangle wound counter-clockwise in NDC has
	// a negative screen-space area.
	frontFacing := area < 0
	if state.FrontFace == CW {
		frontFacing = !frontFacing
	}
	switch state.CullMode {
	case CullBack:
		if !frontFacing {
			return nil
		}
	case CullFront:
		if frontFacing {
			return nil
		}
	}
	return &st
}

func edgeFunction(a, b, c geom.Vec4) float32 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// isTopLeft reports whether edge (a -> b) is a top or left edge, for the
// top-left fill rule (spec §4.5). The edge must be taken from a triangle
// with negative screen-space area (counter-clockwise on the y-down screen);
// for the other winding, callers pass the edge reversed.
func isTopLeft(a, b geom.Vec4) bool {
	top := a.Y == b.Y && b.X < a.X
	left := b.Y > a.Y
	return top || left
}

// Tile is a screen-space rectangle processed independently by one worker
// (spec §5).
type Tile struct {
	MinX, MinY, MaxX, MaxY int
}

// RasterizeTriangle draws one clipped screen-space triangle into fb,
// restricted to tile, using prog/uniforms/samplers and state. Primitives
// within a tile must be drawn in submission order by the caller (spec §5).
func RasterizeTriangle(fb *framebuffer.FrameBuffer, vp Viewport, tri [3]ClipVertex, prog *shader.Program, uniforms shader.Uniforms, samplers shader.Sampler, state RenderState, tile Tile) {
	st := setupTriangle(tri, vp, state)
	if st == nil {
		return
	}

	minX, minY, maxX, maxY := triangleBounds(st, tile)
	if minX >= maxX || minY >= maxY {
		return
	}
	// Align to even coordinates so 2x2 quads tile cleanly (spec §4.5).
	minX &^= 1
	minY &^= 1

	for qy := minY; qy < maxY; qy += 2 {
		for qx := minX; qx < maxX; qx += 2 {
			rasterizeQuad(fb, st, prog, uniforms, samplers, state, qx, qy)
		}
	}
}

func triangleBounds(st *screenTriangle, tile Tile) (minX, minY, maxX, maxY int) {
	minXf := math.Min(float64(st.pos[0].X), math.Min(float64(st.pos[1].X), float64(st.pos[2].X)))
	minYf := math.Min(float64(st.pos[0].Y), math.Min(float64(st.pos[1].Y), float64(st.pos[2].Y)))
	maxXf := math.Max(float64(st.pos[0].X), math.Max(float64(st.pos[1].X), float64(st.pos[2].X)))
	maxYf := math.Max(float64(st.pos[0].Y), math.Max(float64(st.pos[1].Y), float64(st.pos[2].Y)))

	minX = maxInt(int(math.Floor(minXf)), tile.MinX)
	minY = maxInt(int(math.Floor(minYf)), tile.MinY)
	maxX = minInt(int(math.Ceil(maxXf))+1, tile.MaxX)
	maxY = minInt(int(math.Ceil(maxYf))+1, tile.MaxY)
	return
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// lanePixel returns the framebuffer (x,y) of quad lane i, given the quad's
// top-left (smallest x and y) pixel (qx,qy): p0 bottom-left, p1 bottom-right, p2 top-left,
// p3 top-right (spec §3 PixelQuadContext). Screen space has y increasing
// downward, so "bottom" in framebuffer rows is the larger y.
func lanePixel(qx, qy, lane int) (int, int) {
	switch lane {
	case shader.LaneBottomLeft:
		return qx, qy + 1
	case shader.LaneBottomRight:
		return qx + 1, qy + 1
	case shader.LaneTopLeft:
		return qx, qy
	default: // LaneTopRight
		return qx + 1, qy
	}
}

func rasterizeQuad(fb *framebuffer.FrameBuffer, st *screenTriangle, prog *shader.Program, uniforms shader.Uniforms, samplers shader.Sampler, state RenderState, qx, qy int) {
	sampleCount := fb.SampleCount
	varyingsSize := prog.Fragment.VaryingsSize()

	var laneInputs [4]shader.FragmentInputs
	var laneCoverage [4]int
	var laneShadingSample [4]sampleResult

	// Varyings are computed off the triangle plane for all four lanes
	// unconditionally, including lanes outside the triangle or the
	// framebuffer: derivatives (DFdx/DFdy) need every lane defined, not
	// just covered ones (spec §4.5, §9).
	for lane := 0; lane < 4; lane++ {
		px, py := lanePixel(qx, qy, lane)
		cx, cy := float32(px)+0.5, float32(py)+0.5
		bary := baryAt(st, cx, cy)

		v := shader.NewVaryings(varyingsSize)
		if varyingsSize > 0 {
			shader.Combine3(v, st.varyings[0], st.varyings[1], st.varyings[2],
				bary.alpha, bary.beta, bary.gamma,
				st.invW[0], st.invW[1], st.invW[2], bary.invZ)
		}
		laneInputs[lane] = shader.FragmentInputs{Varyings: v}

		if px < 0 || py < 0 || px >= fb.Width || py >= fb.Height {
			continue
		}

		_, coverage, shading, hasShading := evalPixelSamples(st, sampleCount, px, py)
		laneCoverage[lane] = coverage
		if hasShading {
			laneShadingSample[lane] = shading
		}
	}

	anyCovered := false
	for lane := 0; lane < 4; lane++ {
		if laneCoverage[lane] > 0 {
			anyCovered = true
		}
	}
	if !anyCovered {
		return
	}

	// Early-Z: test/write depth per sample before invoking the shader, when
	// permitted (spec §4.5 "Early depth").
	earlyZ := prog.Fragment.EarlyZPermitted()
	var passedSamples [4][4]bool // [lane][sample]
	if earlyZ {
		for lane := 0; lane < 4; lane++ {
			if laneCoverage[lane] == 0 {
				continue
			}
			px, py := lanePixel(qx, qy, lane)
			passedSamples[lane] = depthTestPixel(fb, px, py, sampleCount, st, state, nil)
			if !anyTrue(passedSamples[lane][:sampleCount]) {
				laneCoverage[lane] = 0
			}
		}
	}

	anyCovered = false
	for lane := 0; lane < 4; lane++ {
		if laneCoverage[lane] > 0 {
			laneInputs[lane].Covered = true
			anyCovered = true
		} else {
			laneInputs[lane].Covered = false
		}
	}
	if !anyCovered {
		return
	}

	out := prog.Fragment.Run(laneInputs, uniforms, samplers)

	for lane := 0; lane < 4; lane++ {
		if !laneInputs[lane].Covered {
			continue
		}
		if out[lane].Discard {
			continue
		}
		px, py := lanePixel(qx, qy, lane)
		shading := laneShadingSample[lane]

		if !earlyZ {
			var override *float32
			if out[lane].WritesDepth {
				d := out[lane].DepthOverride
				override = &d
			}
			passedSamples[lane] = depthTestPixel(fb, px, py, sampleCount, st, state, override)
			if !anyTrue(passedSamples[lane][:sampleCount]) {
				continue
			}
		}

		writePixel(fb, px, py, sampleCount, passedSamples[lane], shading, out[lane], state)
	}
}

type sampleResult struct {
	alpha, beta, gamma float32
	invZ               float32
	z                  float32
}

// evalPixelSamples computes per-MSAA-sample coverage for one pixel and
// picks the shading sample (pixel center if inside, else first covered
// sample) per spec §4.5 MSAA.
func evalPixelSamples(st *screenTriangle, sampleCount int, px, py int) (results [4]sampleResult, coverage int, shading sampleResult, hasShading bool) {
	if sampleCount == 1 {
		cx, cy := float32(px)+0.5, float32(py)+0.5
		r, inside := evalSample(st, cx, cy)
		if inside {
			coverage = 1
			return results, coverage, r, true
		}
		return results, 0, sampleResult{}, false
	}

	var centerInside bool
	var center sampleResult
	cx, cy := float32(px)+0.5, float32(py)+0.5
	center, centerInside = evalSample(st, cx, cy)

	for s := 0; s < 4; s++ {
		off := framebuffer.MSAASamplePositions[s]
		sx := float32(px) + off[0]
		sy := float32(py) + off[1]
		r, inside := evalSample(st, sx, sy)
		results[s] = r
		if inside {
			coverage++
			if !hasShading {
				hasShading = true
				shading = r
			}
		}
	}
	if centerInside {
		shading = center
		hasShading = hasShading || coverage > 0
	}
	if coverage == 0 {
		hasShading = false
	}
	return results, coverage, shading, hasShading
}

// baryAt computes barycentric weights and perspective-correct 1/z for (x,y)
// against st's plane unconditionally — off-triangle positions included. Used
// to fill varyings at every quad lane regardless of coverage, so that
// screen-space derivatives are defined at silhouette edges (spec §4.5, §9).
func baryAt(st *screenTriangle, x, y float32) sampleResult {
	p := geom.Vec4{X: x, Y: y}
	e0 := edgeFunction(st.pos[1], st.pos[2], p)
	e1 := edgeFunction(st.pos[2], st.pos[0], p)
	e2 := edgeFunction(st.pos[0], st.pos[1], p)

	area := edgeFunction(st.pos[0], st.pos[1], st.pos[2])
	invArea := 1 / area
	alpha := e0 * invArea
	beta := e1 * invArea
	gamma := e2 * invArea
	invZ := 1 / (alpha*st.invW[0] + beta*st.invW[1] + gamma*st.invW[2])
	z := alpha*st.pos[0].Z + beta*st.pos[1].Z + gamma*st.pos[2].Z

	return sampleResult{alpha: alpha, beta: beta, gamma: gamma, invZ: invZ, z: z}
}

func evalSample(st *screenTriangle, x, y float32) (sampleResult, bool) {
	p := geom.Vec4{X: x, Y: y}
	e0 := edgeFunction(st.pos[1], st.pos[2], p)
	e1 := edgeFunction(st.pos[2], st.pos[0], p)
	e2 := edgeFunction(st.pos[0], st.pos[1], p)

	area := edgeFunction(st.pos[0], st.pos[1], st.pos[2])
	positive := area > 0

	in0 := edgeInside(e0, positive, st.pos[1], st.pos[2])
	in1 := edgeInside(e1, positive, st.pos[2], st.pos[0])
	in2 := edgeInside(e2, positive, st.pos[0], st.pos[1])
	if !(in0 && in1 && in2) {
		return sampleResult{}, false
	}

	return baryAt(st, x, y), true
}

func edgeInside(e float32, positive bool, a, b geom.Vec4) bool {
	if !positive {
		e = -e
	}
	if e > 0 {
		return true
	}
	if e < 0 {
		return false
	}
	if positive {
		return isTopLeft(b, a)
	}
	return isTopLeft(a, b)
}

func anyTrue(bs []bool) bool {
	for _, b := range bs {
		if b {
			return true
		}
	}
	return false
}

// depthTestPixel runs the depth test/write for each MSAA sample of one
// pixel. depthOverride, when non-nil, replaces the interpolated z for every
// sample (spec §4.5: a fragment shader that sets FragmentOutput.WritesDepth
// supplies its own depth and must report EarlyZPermitted()==false, so this
// path only runs post-shading for such shaders). The tested/stored z is
// always clamped to the viewport's depth range (spec §3 Viewport).
func depthTestPixel(fb *framebuffer.FrameBuffer, px, py, sampleCount int, st *screenTriangle, state RenderState, depthOverride *float32) [4]bool {
	var passed [4]bool
	for s := 0; s < sampleCount; s++ {
		var r sampleResult
		var inside bool
		if sampleCount == 1 {
			r, inside = evalSample(st, float32(px)+0.5, float32(py)+0.5)
		} else {
			off := framebuffer.MSAASamplePositions[s]
			r, inside = evalSample(st, float32(px)+off[0], float32(py)+off[1])
		}
		if !inside {
			continue
		}
		z := r.z
		if depthOverride != nil {
			z = *depthOverride
		}
		z = max32(st.depthMin, min32(st.depthMax, z))
		if !state.DepthTest {
			passed[s] = true
			continue
		}
		depthBuf := fb.DepthSample(s)
		buffered := depthBuf.Get(px, py)
		if buffered == nil {
			continue
		}
		if compareDepth(state.DepthCompare, z, *buffered) {
			passed[s] = true
			if state.DepthWrite {
				depthBuf.Set(px, py, z)
			}
		}
	}
	return passed
}

func writePixel(fb *framebuffer.FrameBuffer, px, py, sampleCount int, passed [4]bool, shading sampleResult, out shader.FragmentOutput, state RenderState) {
	for s := 0; s < sampleCount; s++ {
		if !passed[s] {
			continue
		}
		colorBuf := fb.ColorSample(s)
		var final texture.RGBA
		if state.BlendEnable {
			dst := colorBuf.Get(px, py)
			if dst == nil {
				continue
			}
			final = blendColor(out.Color, *dst, state)
		} else {
			final = out.Color
		}
		colorBuf.Set(px, py, final)
	}
}

// blendColor combines src over dst per the configured equation/factors. The
// color buffer is treated as an opaque display target (spec §6 readPixels
// returns RGBA but the core owns no further compositing stage), so the
// output alpha always reports fully opaque rather than being blended
// itself — matching S5's expected (128,0,127,255).
func blendColor(src, dst texture.RGBA, state RenderState) texture.RGBA {
	sf := blendFactorValue(state.BlendSrc, src.A, dst.A)
	df := blendFactorValue(state.BlendDst, src.A, dst.A)
	return texture.RGBA{
		R: blendCombine(state.BlendEq, src.R*sf, dst.R*df),
		G: blendCombine(state.BlendEq, src.G*sf, dst.G*df),
		B: blendCombine(state.BlendEq, src.B*sf, dst.B*df),
		A: 1,
	}
}
