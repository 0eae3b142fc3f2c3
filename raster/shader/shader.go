// shader.go - abstract vertex/fragment shader interface and varyings block
// (spec §4.3, GLOSSARY "Varyings").
package shader

import "github.com/lumenray/raster/raster/texture"

// Uniforms carries shader-global inputs for a draw call; the core treats it
// as an opaque blob indexed by the shader's own keys.
type Uniforms map[string]any

// Sampler resolves a texture binding by name for a draw call.
type Sampler interface {
	Sample2D(name string, u, v, lod float32) texture.RGBA
	SampleCube(name string, x, y, z, lod float32) texture.RGBA
}

// VertexInput is the raw per-vertex attribute payload, addressed by
// attribute index (spec §3 VertexArray: component count, stride, offset
// are resolved by the vertex stage before the shader runs).
type VertexInput struct {
	Attributes [][4]float32
}

// VertexOutput is what a vertex shader produces: clip-space position and a
// varyings block consumed by the rasterizer's interpolation.
type VertexOutput struct {
	Position Vec4
	Varyings Varyings
}

// Vec4 is the shader-facing homogeneous position type (mirrors geom.Vec4 to
// keep this package free of a geom import cycle on the shader boundary).
type Vec4 struct {
	X, Y, Z, W float32
}

// VertexShader transforms one vertex's attributes into clip space plus
// varyings.
type VertexShader interface {
	// VaryingsSize reports the number of float32 components per varyings
	// block; both shaders in a program must agree (spec §7
	// ShaderLinkMismatch).
	VaryingsSize() int
	Run(in VertexInput, uniforms Uniforms) VertexOutput
}

// FragmentInputs is one pixel-quad lane's interpolated state (spec §4.5
// "Quad coupling of fragment shader").
type FragmentInputs struct {
	Varyings Varyings
	Covered  bool
}

// FragmentOutput is a single lane's shading result.
type FragmentOutput struct {
	Color   texture.RGBA
	Discard bool
	// DepthOverride, if WritesDepth is true, replaces the interpolated
	// depth for this lane.
	DepthOverride float32
	WritesDepth   bool
}

// FragmentShader runs once per covered pixel, given all four quad lanes so
// derivatives are defined at every lane (spec §4.5, §9).
type FragmentShader interface {
	VaryingsSize() int
	Run(quad [4]FragmentInputs, uniforms Uniforms, samplers Sampler) [4]FragmentOutput
	// EarlyZPermitted reports whether the pipeline may test depth before
	// invoking this shader (spec §4.5 "Early depth"). Shaders that
	// conditionally discard or write depth must return false.
	EarlyZPermitted() bool
}

// Program links a vertex and fragment shader pair.
type Program struct {
	Vertex   VertexShader
	Fragment FragmentShader
}

// ErrShaderLinkMismatch indicates the vertex and fragment shaders disagree
// on varyings block size (spec §7).
var ErrShaderLinkMismatch = shaderLinkMismatchError{}

type shaderLinkMismatchError struct{}

func (shaderLinkMismatchError) Error() string {
	return "shader: varyings block size mismatch between vertex and fragment stage"
}

// NewProgram links vs and fs, checking varyings-size agreement.
func NewProgram(vs VertexShader, fs FragmentShader) (*Program, error) {
	if vs.VaryingsSize() != fs.VaryingsSize() {
		return nil, ErrShaderLinkMismatch
	}
	return &Program{Vertex: vs, Fragment: fs}, nil
}
