package pipeline

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/lumenray/raster/raster/buffer"
	"github.com/lumenray/raster/raster/framebuffer"
	"github.com/lumenray/raster/raster/geom"
	"github.com/lumenray/raster/raster/shader"
	"github.com/lumenray/raster/raster/shader/builtin"
	"github.com/lumenray/raster/raster/texture"
)

func packFloat32s(vs ...float32) []byte {
	out := make([]byte, len(vs)*4)
	for i, v := range vs {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

func positionOnlyVA(verts [][4]float32, indices []int32) *VertexArray {
	var data []byte
	for _, v := range verts {
		data = append(data, packFloat32s(v[0], v[1], v[2], v[3])...)
	}
	attrs := []AttributeDesc{{Components: 4, Stride: 16, Offset: 0}}
	return NewVertexArray(data, attrs, indices, len(verts))
}

func newTestFB(t *testing.T, w, h, samples int) *framebuffer.FrameBuffer {
	t.Helper()
	fb, err := framebuffer.New(w, h, samples, buffer.Linear)
	if err != nil {
		t.Fatalf("framebuffer.New: %v", err)
	}
	return fb
}

// S1 - Opaque red triangle (spec §8).
func TestDraw_S1_OpaqueRedTriangle(t *testing.T) {
	fb := newTestFB(t, 256, 256, 1)
	fb.Clear(framebuffer.ClearColor|framebuffer.ClearDepth, texture.RGBA{A: 1}, 1.0)

	verts := [][4]float32{
		{-0.5, -0.5, 0, 1},
		{0.5, -0.5, 0, 1},
		{0.0, 0.5, 0, 1},
	}
	va := positionOnlyVA(verts, []int32{0, 1, 2})
	prog := builtin.NewConstantColorProgram(texture.RGBA{R: 1, A: 1})
	vp := NewViewport(0, 0, 256, 256, 0, 1)

	err := Draw(fb, vp, va, prog, nil, nil, Triangles, Default())
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	fb.Resolve()

	center := *fb.Color.Get(128, 128)
	if center.R < 0.99 {
		t.Errorf("pixel (128,128) = %+v, want red", center)
	}
	corner := *fb.Color.Get(5, 5)
	if corner.R > 0.01 {
		t.Errorf("pixel (5,5) = %+v, want black background", corner)
	}

	depth := *fb.DepthSample(0).Get(128, 128)
	if depth < 0.45 || depth > 0.55 {
		t.Errorf("depth(128,128) = %v, want ~0.5", depth)
	}
}

// S3 - Backface cull (spec §8).
func TestDraw_S3_BackfaceCullLeavesFramebufferUnchanged(t *testing.T) {
	fb := newTestFB(t, 64, 64, 1)
	clearColor := texture.RGBA{A: 1}
	fb.Clear(framebuffer.ClearColor|framebuffer.ClearDepth, clearColor, 1.0)

	// CW winding under default CCW front-face + back-face cull.
	verts := [][4]float32{
		{-0.5, -0.5, 0, 1},
		{0.0, 0.5, 0, 1},
		{0.5, -0.5, 0, 1},
	}
	va := positionOnlyVA(verts, []int32{0, 1, 2})
	prog := builtin.NewConstantColorProgram(texture.RGBA{R: 1, A: 1})
	vp := NewViewport(0, 0, 64, 64, 0, 1)

	if err := Draw(fb, vp, va, prog, nil, nil, Triangles, Default()); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	fb.Resolve()

	center := *fb.Color.Get(32, 32)
	if center != clearColor {
		t.Errorf("pixel (32,32) = %+v, want unchanged clear color %+v", center, clearColor)
	}
}

// S5 - Alpha blend over (spec §8).
func TestDraw_S5_AlphaBlendOver(t *testing.T) {
	fb := newTestFB(t, 4, 4, 1)
	bg := texture.RGBA{R: 0, G: 0, B: 1, A: 1}
	fb.Clear(framebuffer.ClearColor|framebuffer.ClearDepth, bg, 1.0)

	verts := [][4]float32{
		{-1, -1, 0, 1},
		{1, -1, 0, 1},
		{0, 1, 0, 1},
	}
	va := positionOnlyVA(verts, []int32{0, 1, 2})
	src := texture.RGBA{R: 1, G: 0, B: 0, A: 0.5}
	prog := builtin.NewConstantColorProgram(src)
	vp := NewViewport(0, 0, 4, 4, 0, 1)

	state := Default()
	state.BlendEnable = true
	state.BlendSrc = BlendSrcAlpha
	state.BlendDst = BlendOneMinusSrcAlpha
	state.DepthTest = false

	if err := Draw(fb, vp, va, prog, nil, nil, Triangles, state); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	fb.Resolve()

	got := *fb.Color.Get(2, 2)
	want := texture.RGBA{R: 0.5, G: 0, B: 0.5, A: 1}
	if !approxRGBA(got, want, 0.02) {
		t.Errorf("pixel(2,2) = %+v, want ~%+v", got, want)
	}
}

// Spec §8 property 5: a shared edge between two triangles yields exactly
// one covered sample per pixel along the edge (top-left rule).
func TestRasterize_TopLeftRule_SharedEdgeNoDoubleCoverageNoGap(t *testing.T) {
	// Two triangles sharing the vertical edge x=0.125 (NDC), i.e. screen
	// x=4.5 in an 8-wide viewport: the centers of pixel column x=4 lie
	// exactly on the shared edge.
	left := [][4]float32{
		{-1, -1, 0, 1},
		{0.125, -1, 0, 1},
		{0.125, 1, 0, 1},
	}
	right := [][4]float32{
		{0.125, -1, 0, 1},
		{1, -1, 0, 1},
		{0.125, 1, 0, 1},
	}
	vp := NewViewport(0, 0, 8, 8, 0, 1)
	state := Default()
	state.DepthTest = false
	state.CullMode = CullNone
	// Additive blending: a pixel covered by both triangles ends up with
	// both R and G set.
	state.BlendEnable = true
	state.BlendSrc = BlendOne
	state.BlendDst = BlendOne

	fbA := newTestFB(t, 8, 8, 1)
	vaA := positionOnlyVA(left, []int32{0, 1, 2})
	progA := builtin.NewConstantColorProgram(texture.RGBA{R: 1, A: 1})
	if err := Draw(fbA, vp, vaA, progA, nil, nil, Triangles, state); err != nil {
		t.Fatalf("Draw left: %v", err)
	}
	fbA.Resolve()

	vaB := positionOnlyVA(right, []int32{0, 1, 2})
	progB := builtin.NewConstantColorProgram(texture.RGBA{G: 1, A: 1})
	if err := Draw(fbA, vp, vaB, progB, nil, nil, Triangles, state); err != nil {
		t.Fatalf("Draw right: %v", err)
	}
	fbA.Resolve()

	// Along the shared edge column (x=4), every pixel must be exactly one
	// color or the other, never background and never double-blended.
	for y := 0; y < 8; y++ {
		c := *fbA.Color.Get(4, y)
		if c.R == 0 && c.G == 0 {
			t.Errorf("pixel(4,%d) uncovered by either triangle: %+v", y, c)
		}
		if c.R > 0 && c.G > 0 {
			t.Errorf("pixel(4,%d) covered by both triangles: %+v", y, c)
		}
	}
}

// passthroughPosVertex forwards attribute 0 as clip-space position and
// emits no varyings; used by fixtures below that only need depth/coverage.
type passthroughPosVertex struct{}

func (passthroughPosVertex) VaryingsSize() int { return 0 }
func (passthroughPosVertex) Run(in shader.VertexInput, _ shader.Uniforms) shader.VertexOutput {
	a := in.Attributes[0]
	return shader.VertexOutput{Position: shader.Vec4{X: a[0], Y: a[1], Z: a[2], W: a[3]}}
}

// passthroughValueVertex forwards attribute 0 as position and attribute 1's
// first component as a single-float varying.
type passthroughValueVertex struct{}

func (passthroughValueVertex) VaryingsSize() int { return 1 }
func (passthroughValueVertex) Run(in shader.VertexInput, _ shader.Uniforms) shader.VertexOutput {
	pos := in.Attributes[0]
	val := in.Attributes[1]
	v := shader.NewVaryings(1)
	v[0] = val[0]
	return shader.VertexOutput{Position: shader.Vec4{X: pos[0], Y: pos[1], Z: pos[2], W: pos[3]}, Varyings: v}
}

// captureFragment records every quad it is invoked with, covered or not, so
// a test can inspect the varyings of an uncovered lane.
type captureFragment struct{ captured *[4]shader.FragmentInputs }

func (captureFragment) VaryingsSize() int { return 1 }
func (f captureFragment) Run(quad [4]shader.FragmentInputs, _ shader.Uniforms, _ shader.Sampler) [4]shader.FragmentOutput {
	*f.captured = quad
	var out [4]shader.FragmentOutput
	for i, lane := range quad {
		if lane.Covered {
			out[i] = shader.FragmentOutput{Color: texture.RGBA{A: 1}}
		}
	}
	return out
}
func (captureFragment) EarlyZPermitted() bool { return true }

// Spec §4.5/§9: varyings must be defined at every quad lane, covered or
// not, by extrapolating barycentrics off the triangle plane, so that
// DFdx/DFdy are defined along silhouette edges.
func TestRasterizeQuad_VaryingsExtrapolatedForUncoveredLane(t *testing.T) {
	fb := newTestFB(t, 4, 4, 1)
	fb.Clear(framebuffer.ClearColor|framebuffer.ClearDepth, texture.RGBA{A: 1}, 1.0)

	// Screen-space triangle A(0,4) B(4,4) C(0,0) — the quad at
	// (qx=2,qy=2) straddles the hypotenuse: pixel (3,2) (lane
	// LaneTopRight) sits just outside it.
	type vertex struct {
		pos [4]float32
		val [4]float32
	}
	verts := []vertex{
		{pos: [4]float32{-1, -1, 0, 1}, val: [4]float32{10}}, // screen (0,4) = A
		{pos: [4]float32{1, -1, 0, 1}, val: [4]float32{20}},  // screen (4,4) = B
		{pos: [4]float32{-1, 1, 0, 1}, val: [4]float32{30}},  // screen (0,0) = C
	}
	var data []byte
	for _, v := range verts {
		data = append(data, packFloat32s(v.pos[0], v.pos[1], v.pos[2], v.pos[3])...)
		data = append(data, packFloat32s(v.val[0], v.val[1], v.val[2], v.val[3])...)
	}
	attrs := []AttributeDesc{
		{Components: 4, Stride: 32, Offset: 0},
		{Components: 4, Stride: 32, Offset: 16},
	}
	va := NewVertexArray(data, attrs, []int32{0, 1, 2}, 3)

	var captured [4]shader.FragmentInputs
	prog := &shader.Program{Vertex: passthroughValueVertex{}, Fragment: captureFragment{captured: &captured}}
	vp := NewViewport(0, 0, 4, 4, 0, 1)
	state := Default()
	state.CullMode = CullNone

	if err := Draw(fb, vp, va, prog, nil, nil, Triangles, state); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	lane := captured[shader.LaneTopRight]
	if lane.Covered {
		t.Fatalf("pixel (3,2) expected uncovered (outside the triangle)")
	}
	const want = 26.25 // alpha*10 + beta*20 + gamma*30 extrapolated off-plane
	if got := lane.Varyings[0]; !approxF(got, want, 0.05) {
		t.Errorf("uncovered lane varying = %v, want ~%v (zero would mean it was not extrapolated)", got, want)
	}
}

// depthOverrideFragment always reports it cannot early-Z (since it supplies
// its own depth) and asks the pipeline to use depth instead of the
// interpolated z.
type depthOverrideFragment struct{ depth float32 }

func (depthOverrideFragment) VaryingsSize() int { return 0 }
func (f depthOverrideFragment) Run(quad [4]shader.FragmentInputs, _ shader.Uniforms, _ shader.Sampler) [4]shader.FragmentOutput {
	var out [4]shader.FragmentOutput
	for i, lane := range quad {
		if !lane.Covered {
			continue
		}
		out[i] = shader.FragmentOutput{Color: texture.RGBA{R: 1, A: 1}, WritesDepth: true, DepthOverride: f.depth}
	}
	return out
}
func (depthOverrideFragment) EarlyZPermitted() bool { return false }

// Spec §4.5: FragmentOutput.DepthOverride/WritesDepth must replace the
// interpolated depth for the depth test and write, not be silently ignored.
func TestDraw_HonorsFragmentShaderDepthOverride(t *testing.T) {
	verts := [][4]float32{
		{-0.9, -0.9, 0, 1},
		{0.9, -0.9, 0, 1},
		{0, 0.9, 0, 1},
	}
	va := positionOnlyVA(verts, []int32{0, 1, 2})
	vp := NewViewport(0, 0, 8, 8, 0, 1)
	state := Default()
	state.CullMode = CullNone
	bg := texture.RGBA{A: 1}

	// Interpolated z here is ~0.5, which would pass Less against a 0.6
	// buffer. An override of 0.9 must fail that same compare.
	fbFail := newTestFB(t, 8, 8, 1)
	fbFail.Clear(framebuffer.ClearColor|framebuffer.ClearDepth, bg, 0.6)
	progFail := &shader.Program{Vertex: passthroughPosVertex{}, Fragment: depthOverrideFragment{depth: 0.9}}
	if err := Draw(fbFail, vp, va, progFail, nil, nil, Triangles, state); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	fbFail.Resolve()
	if c := *fbFail.Color.Get(4, 4); c != bg {
		t.Errorf("pixel(4,4) = %+v, want unchanged background %+v (override depth should fail the compare)", c, bg)
	}
	if d := *fbFail.DepthSample(0).Get(4, 4); d != 0.6 {
		t.Errorf("depth(4,4) = %v, want unchanged 0.6", d)
	}

	// An override of 0.1 passes the same compare, and the stored depth
	// must be the override, not the interpolated ~0.5.
	fbPass := newTestFB(t, 8, 8, 1)
	fbPass.Clear(framebuffer.ClearColor|framebuffer.ClearDepth, bg, 0.6)
	progPass := &shader.Program{Vertex: passthroughPosVertex{}, Fragment: depthOverrideFragment{depth: 0.1}}
	if err := Draw(fbPass, vp, va, progPass, nil, nil, Triangles, state); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	fbPass.Resolve()
	if c := *fbPass.Color.Get(4, 4); c.R < 0.99 {
		t.Errorf("pixel(4,4) R = %v, want ~1 (override depth should pass the compare)", c.R)
	}
	if d := *fbPass.DepthSample(0).Get(4, 4); d < 0.09 || d > 0.11 {
		t.Errorf("depth(4,4) = %v, want ~0.1 (stored override, not the interpolated z)", d)
	}
}

// Spec §3 Viewport: interpolated/overridden depth must clamp to
// [AbsMinDepth, AbsMaxDepth] before test and write.
func TestDepthTestPixel_ClampsToViewportDepthRange(t *testing.T) {
	st := &screenTriangle{
		pos: [3]geom.Vec4{
			{X: 0, Y: 0, Z: -3},
			{X: 10, Y: 0, Z: -3},
			{X: 0, Y: 10, Z: -3},
		},
		invW:     [3]float32{1, 1, 1},
		depthMin: 0,
		depthMax: 1,
	}
	fb := newTestFB(t, 4, 4, 1)
	fb.Clear(framebuffer.ClearColor|framebuffer.ClearDepth, texture.RGBA{A: 1}, 0.0)
	state := Default()
	state.DepthCompare = DepthGEqual

	// Unclamped z=-3 fails ">= 0"; clamped to depthMin=0 it passes.
	passed := depthTestPixel(fb, 2, 2, 1, st, state, nil)
	if !passed[0] {
		t.Fatalf("expected depth test to pass once z is clamped to AbsMinDepth")
	}
	if d := *fb.DepthSample(0).Get(2, 2); d != 0 {
		t.Errorf("stored depth = %v, want clamped 0 (not raw -3)", d)
	}
}

func approxRGBA(a, b texture.RGBA, eps float32) bool {
	return approxF(a.R, b.R, eps) && approxF(a.G, b.G, eps) && approxF(a.B, b.B, eps) && approxF(a.A, b.A, eps)
}

func approxF(a, b, eps float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}
