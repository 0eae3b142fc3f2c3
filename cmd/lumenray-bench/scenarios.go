// scenarios.go - the six concrete end-to-end scenarios from spec §8.
package main

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/lumenray/raster/raster"
	"github.com/lumenray/raster/raster/buffer"
	"github.com/lumenray/raster/raster/framebuffer"
	"github.com/lumenray/raster/raster/pipeline"
	"github.com/lumenray/raster/raster/shader/builtin"
	"github.com/lumenray/raster/raster/texture"
)

type scenario struct {
	name        string
	description string
	run         func(verbose bool) error
}

func allScenarios() []scenario {
	return []scenario{
		{"S1", "opaque red triangle", runS1},
		{"S2", "clipping at near plane", runS2},
		{"S3", "backface cull", runS3},
		{"S4", "perspective-correct UV", runS4},
		{"S5", "alpha blend over", runS5},
		{"S6", "4x MSAA edge coverage", runS6},
	}
}

func packVerts(verts [][4]float32) []byte {
	out := make([]byte, 0, len(verts)*16)
	for _, v := range verts {
		for _, f := range v {
			var b [4]byte
			binary.LittleEndian.PutUint32(b[:], math.Float32bits(f))
			out = append(out, b[:]...)
		}
	}
	return out
}

func positionAttrs() []pipeline.AttributeDesc {
	return []pipeline.AttributeDesc{{Components: 4, Stride: 16, Offset: 0}}
}

func checkPixelApprox(d *raster.Device, fbHandle raster.FrameBufferHandle, w, h, x, y int, want [4]byte, tol int) error {
	out := make([]byte, w*h*4)
	if err := d.ReadPixels(fbHandle, 0, 0, w, h, out); err != nil {
		return err
	}
	i := (y*w + x) * 4
	got := [4]byte{out[i], out[i+1], out[i+2], out[i+3]}
	for c := 0; c < 4; c++ {
		d := int(got[c]) - int(want[c])
		if d < -tol || d > tol {
			return fmt.Errorf("pixel(%d,%d) = %v, want ~%v", x, y, got, want)
		}
	}
	return nil
}

func runS1(verbose bool) error {
	d := raster.NewDevice(nil)
	fbHandle, err := d.CreateFrameBuffer(256, 256, 1, buffer.Linear)
	if err != nil {
		return err
	}
	data := packVerts([][4]float32{
		{-0.5, -0.5, 0, 1},
		{0.5, -0.5, 0, 1},
		{0.0, 0.5, 0, 1},
	})
	vao := d.CreateVertexArrayObject(data, positionAttrs(), []int32{0, 1, 2}, 3)
	prog := builtin.NewConstantColorProgram(texture.RGBA{R: 1, A: 1})
	shaderHandle, err := d.CreateShaderProgram(prog.Vertex, prog.Fragment)
	if err != nil {
		return err
	}
	vp := pipeline.NewViewport(0, 0, 256, 256, 0, 1)
	if err := d.BeginDraw(fbHandle, vp, framebuffer.ClearColor|framebuffer.ClearDepth, texture.RGBA{A: 1}, 1.0); err != nil {
		return err
	}
	if err := d.Draw(vao, shaderHandle, nil, nil, pipeline.Triangles, pipeline.Default()); err != nil {
		return err
	}
	if err := d.EndDraw(); err != nil {
		return err
	}

	if err := checkPixelApprox(d, fbHandle, 256, 256, 128, 128, [4]byte{255, 0, 0, 255}, 2); err != nil {
		return err
	}
	return checkPixelApprox(d, fbHandle, 256, 256, 5, 5, [4]byte{0, 0, 0, 255}, 2)
}

func runS2(verbose bool) error {
	d := raster.NewDevice(nil)
	fbHandle, err := d.CreateFrameBuffer(256, 256, 1, buffer.Linear)
	if err != nil {
		return err
	}
	// Both base corners sit behind the near plane (z < -w); only the apex
	// is inside. After clipping, just the narrow wedge near the apex
	// survives — the wide base is discarded (spec §8 S2, §4.4).
	data := packVerts([][4]float32{
		{-0.5, -0.5, -2, 1},
		{0.5, -0.5, -2, 1},
		{0.0, 0.5, 0, 1},
	})
	vao := d.CreateVertexArrayObject(data, positionAttrs(), []int32{0, 1, 2}, 3)
	prog := builtin.NewConstantColorProgram(texture.RGBA{R: 1, A: 1})
	shaderHandle, err := d.CreateShaderProgram(prog.Vertex, prog.Fragment)
	if err != nil {
		return err
	}
	vp := pipeline.NewViewport(0, 0, 256, 256, 0, 1)
	if err := d.BeginDraw(fbHandle, vp, framebuffer.ClearColor|framebuffer.ClearDepth, texture.RGBA{A: 1}, 1.0); err != nil {
		return err
	}
	if err := d.Draw(vao, shaderHandle, nil, nil, pipeline.Triangles, pipeline.Default()); err != nil {
		return err
	}
	if err := d.EndDraw(); err != nil {
		return err
	}
	// Near the apex (screen ~(128,64)): still colored.
	if err := checkPixelApprox(d, fbHandle, 256, 256, 128, 70, [4]byte{255, 0, 0, 255}, 2); err != nil {
		return err
	}
	// Near the original base (screen ~(128,190)): clipped away, background.
	return checkPixelApprox(d, fbHandle, 256, 256, 128, 190, [4]byte{0, 0, 0, 255}, 2)
}

func runS3(verbose bool) error {
	d := raster.NewDevice(nil)
	fbHandle, err := d.CreateFrameBuffer(64, 64, 1, buffer.Linear)
	if err != nil {
		return err
	}
	// CW winding under default CCW front-face + back-face cull.
	data := packVerts([][4]float32{
		{-0.5, -0.5, 0, 1},
		{0.0, 0.5, 0, 1},
		{0.5, -0.5, 0, 1},
	})
	vao := d.CreateVertexArrayObject(data, positionAttrs(), []int32{0, 1, 2}, 3)
	prog := builtin.NewConstantColorProgram(texture.RGBA{R: 1, A: 1})
	shaderHandle, err := d.CreateShaderProgram(prog.Vertex, prog.Fragment)
	if err != nil {
		return err
	}
	vp := pipeline.NewViewport(0, 0, 64, 64, 0, 1)
	clearColor := texture.RGBA{A: 1}
	if err := d.BeginDraw(fbHandle, vp, framebuffer.ClearColor|framebuffer.ClearDepth, clearColor, 1.0); err != nil {
		return err
	}
	if err := d.Draw(vao, shaderHandle, nil, nil, pipeline.Triangles, pipeline.Default()); err != nil {
		return err
	}
	if err := d.EndDraw(); err != nil {
		return err
	}
	return checkPixelApprox(d, fbHandle, 64, 64, 32, 32, [4]byte{0, 0, 0, 255}, 0)
}

type checkerSampler struct{ tex *texture.Texture2D }

func (c checkerSampler) Sample2D(name string, u, v, lod float32) texture.RGBA {
	return c.tex.Sample2D(u, v, lod)
}
func (c checkerSampler) SampleCube(name string, x, y, z, lod float32) texture.RGBA {
	return texture.RGBA{}
}

func runS4(verbose bool) error {
	d := raster.NewDevice(nil)
	fbHandle, err := d.CreateFrameBuffer(64, 64, 1, buffer.Linear)
	if err != nil {
		return err
	}

	checker := []byte{
		255, 255, 255, 255, 0, 0, 0, 255,
		0, 0, 0, 255, 255, 255, 255, 255,
	}
	texHandle, err := d.CreateTexture2D(2, 2, 1, checker)
	if err != nil {
		return err
	}
	tex := d.Texture2D(texHandle)
	tex.Filter = texture.Nearest

	// Position attribute (0): 4 floats. UV attribute (1): 4 floats
	// (components=2, padded).
	verts := []struct {
		pos [4]float32
		uv  [4]float32
	}{
		{pos: [4]float32{-1, -1, 0, 1}, uv: [4]float32{0, 1, 0, 0}},
		{pos: [4]float32{1, -1, 2, 2}, uv: [4]float32{1, 1, 0, 0}},
		{pos: [4]float32{1, 1, 2, 2}, uv: [4]float32{1, 0, 0, 0}},
		{pos: [4]float32{-1, 1, 0, 1}, uv: [4]float32{0, 0, 0, 0}},
	}
	var data []byte
	for _, v := range verts {
		data = append(data, packVerts([][4]float32{v.pos})...)
		data = append(data, packVerts([][4]float32{v.uv})...)
	}
	attrs := []pipeline.AttributeDesc{
		{Components: 4, Stride: 32, Offset: 0},
		{Components: 2, Stride: 32, Offset: 16},
	}
	vao := d.CreateVertexArrayObject(data, attrs, []int32{0, 1, 2, 0, 2, 3}, 4)

	prog := builtin.NewUnlitTexturedProgram("albedo")
	shaderHandle, err := d.CreateShaderProgram(prog.Vertex, prog.Fragment)
	if err != nil {
		return err
	}

	vp := pipeline.NewViewport(0, 0, 64, 64, 0, 1)
	if err := d.BeginDraw(fbHandle, vp, framebuffer.ClearColor|framebuffer.ClearDepth, texture.RGBA{A: 1}, 1.0); err != nil {
		return err
	}
	sampler := checkerSampler{tex: tex}
	if err := d.Draw(vao, shaderHandle, nil, sampler, pipeline.Triangles, pipeline.Default()); err != nil {
		return err
	}
	if err := d.EndDraw(); err != nil {
		return err
	}
	// Center pixel must differ from the clear color: the textured quad
	// (NDC x from -1 to 0.5) covers the viewport center, so a checker texel
	// should have drawn there.
	out := make([]byte, 64*64*4)
	if err := d.ReadPixels(fbHandle, 0, 0, 64, 64, out); err != nil {
		return err
	}
	i := (32*64 + 32) * 4
	if out[i] == 0 && out[i+1] == 0 && out[i+2] == 0 {
		return fmt.Errorf("center pixel still background, textured quad did not draw")
	}
	return nil
}

func runS5(verbose bool) error {
	d := raster.NewDevice(nil)
	fbHandle, err := d.CreateFrameBuffer(4, 4, 1, buffer.Linear)
	if err != nil {
		return err
	}
	bg := texture.RGBA{B: 1, A: 1}
	data := packVerts([][4]float32{
		{-1, -1, 0, 1},
		{1, -1, 0, 1},
		{0, 1, 0, 1},
	})
	vao := d.CreateVertexArrayObject(data, positionAttrs(), []int32{0, 1, 2}, 3)
	src := texture.RGBA{R: 1, A: 0.5019608}
	prog := builtin.NewConstantColorProgram(src)
	shaderHandle, err := d.CreateShaderProgram(prog.Vertex, prog.Fragment)
	if err != nil {
		return err
	}
	vp := pipeline.NewViewport(0, 0, 4, 4, 0, 1)
	if err := d.BeginDraw(fbHandle, vp, framebuffer.ClearColor|framebuffer.ClearDepth, bg, 1.0); err != nil {
		return err
	}
	state := pipeline.Default()
	state.BlendEnable = true
	state.BlendSrc = pipeline.BlendSrcAlpha
	state.BlendDst = pipeline.BlendOneMinusSrcAlpha
	state.DepthTest = false
	if err := d.Draw(vao, shaderHandle, nil, nil, pipeline.Triangles, state); err != nil {
		return err
	}
	if err := d.EndDraw(); err != nil {
		return err
	}
	return checkPixelApprox(d, fbHandle, 4, 4, 2, 2, [4]byte{128, 0, 127, 255}, 2)
}

func runS6(verbose bool) error {
	d := raster.NewDevice(nil)
	fbHandle, err := d.CreateFrameBuffer(1, 1, 4, buffer.Linear)
	if err != nil {
		return err
	}
	// Edge at x=0.5 (pixel center) bisects the single pixel's 4 sample
	// positions 2/2 (spec §3 sample offsets straddle x=0.5).
	data := packVerts([][4]float32{
		{-1, -1, 0, 1},
		{0, -1, 0, 1},
		{0, 1, 0, 1},
		{-1, 1, 0, 1},
	})
	vao := d.CreateVertexArrayObject(data, positionAttrs(), []int32{0, 1, 2, 0, 2, 3}, 4)
	prog := builtin.NewConstantColorProgram(texture.RGBA{R: 1, A: 1})
	shaderHandle, err := d.CreateShaderProgram(prog.Vertex, prog.Fragment)
	if err != nil {
		return err
	}
	vp := pipeline.NewViewport(0, 0, 1, 1, 0, 1)
	clear := texture.RGBA{A: 1}
	if err := d.BeginDraw(fbHandle, vp, framebuffer.ClearColor|framebuffer.ClearDepth, clear, 1.0); err != nil {
		return err
	}
	if err := d.Draw(vao, shaderHandle, nil, nil, pipeline.Triangles, pipeline.Default()); err != nil {
		return err
	}
	if err := d.EndDraw(); err != nil {
		return err
	}
	return checkPixelApprox(d, fbHandle, 1, 1, 0, 0, [4]byte{128, 0, 0, 255}, 4)
}
