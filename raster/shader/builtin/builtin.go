// builtin.go - fixture shader programs used by pipeline tests and the S1-S6
// benchmark scenarios (spec §8). These are examples of the shader contract,
// not part of the core's public surface.
package builtin

import (
	"github.com/lumenray/raster/raster/shader"
	"github.com/lumenray/raster/raster/texture"
)

// ConstantColor is a vertex/fragment pair that passes position through
// unchanged and shades every covered pixel with a fixed color (used by S1,
// S2, S3).
type ConstantColor struct {
	Color texture.RGBA
}

func (ConstantColor) VaryingsSize() int { return 0 }

// RunVertex implements shader.VertexShader: attribute 0 is already a
// clip-space (x,y,z,w) position.
func (c ConstantColor) RunVertex(in shader.VertexInput, _ shader.Uniforms) shader.VertexOutput {
	a := in.Attributes[0]
	return shader.VertexOutput{Position: shader.Vec4{X: a[0], Y: a[1], Z: a[2], W: a[3]}}
}

func (c ConstantColor) RunFragment(quad [4]shader.FragmentInputs, _ shader.Uniforms, _ shader.Sampler) [4]shader.FragmentOutput {
	var out [4]shader.FragmentOutput
	for i, lane := range quad {
		if !lane.Covered {
			continue
		}
		out[i] = shader.FragmentOutput{Color: c.Color}
	}
	return out
}

func (ConstantColor) EarlyZPermitted() bool { return true }

// constantColorVertex/Fragment adapt ConstantColor's methods to the
// shader.VertexShader/FragmentShader interfaces (Go has no multiple
// inheritance; one fixture struct backs two small adapters).
type constantColorVertex struct{ ConstantColor }
type constantColorFragment struct{ ConstantColor }

func (v constantColorVertex) Run(in shader.VertexInput, u shader.Uniforms) shader.VertexOutput {
	return v.RunVertex(in, u)
}

func (f constantColorFragment) Run(quad [4]shader.FragmentInputs, u shader.Uniforms, s shader.Sampler) [4]shader.FragmentOutput {
	return f.RunFragment(quad, u, s)
}

// NewConstantColorProgram builds a shader.Program that shades every
// covered fragment with color.
func NewConstantColorProgram(color texture.RGBA) *shader.Program {
	cc := ConstantColor{Color: color}
	return &shader.Program{
		Vertex:   constantColorVertex{cc},
		Fragment: constantColorFragment{cc},
	}
}

// Gouraud interpolates a per-vertex RGBA varying (4 floats) written by the
// vertex shader from attribute 1.
type Gouraud struct{}

func (Gouraud) VaryingsSize() int { return 4 }

type gouraudVertex struct{}

func (gouraudVertex) VaryingsSize() int { return 4 }
func (gouraudVertex) Run(in shader.VertexInput, _ shader.Uniforms) shader.VertexOutput {
	pos := in.Attributes[0]
	col := in.Attributes[1]
	v := shader.NewVaryings(4)
	v.SetVec4(0, col[0], col[1], col[2], col[3])
	return shader.VertexOutput{
		Position: shader.Vec4{X: pos[0], Y: pos[1], Z: pos[2], W: pos[3]},
		Varyings: v,
	}
}

type gouraudFragment struct{}

func (gouraudFragment) VaryingsSize() int { return 4 }
func (gouraudFragment) Run(quad [4]shader.FragmentInputs, _ shader.Uniforms, _ shader.Sampler) [4]shader.FragmentOutput {
	var out [4]shader.FragmentOutput
	for i, lane := range quad {
		if !lane.Covered {
			continue
		}
		r, g, b, a := lane.Varyings.Vec4(0)
		out[i] = shader.FragmentOutput{Color: texture.RGBA{R: r, G: g, B: b, A: a}}
	}
	return out
}
func (gouraudFragment) EarlyZPermitted() bool { return true }

// NewGouraudProgram builds a program that interpolates a per-vertex color
// across the triangle.
func NewGouraudProgram() *shader.Program {
	return &shader.Program{Vertex: gouraudVertex{}, Fragment: gouraudFragment{}}
}

// unlitTexturedVertex/unlitTexturedFragment sample a single 2D texture at an
// interpolated UV (varying 0,1), used by S4's perspective-correct UV scenario.
type unlitTexturedVertex struct{}

func (unlitTexturedVertex) VaryingsSize() int { return 2 }
func (unlitTexturedVertex) Run(in shader.VertexInput, _ shader.Uniforms) shader.VertexOutput {
	pos := in.Attributes[0]
	uv := in.Attributes[1]
	v := shader.NewVaryings(2)
	v.SetVec2(0, uv[0], uv[1])
	return shader.VertexOutput{
		Position: shader.Vec4{X: pos[0], Y: pos[1], Z: pos[2], W: pos[3]},
		Varyings: v,
	}
}

type unlitTexturedFragment struct {
	SamplerName string
}

func (unlitTexturedFragment) VaryingsSize() int { return 2 }
func (f unlitTexturedFragment) Run(quad [4]shader.FragmentInputs, _ shader.Uniforms, s shader.Sampler) [4]shader.FragmentOutput {
	var out [4]shader.FragmentOutput
	for i, lane := range quad {
		if !lane.Covered {
			continue
		}
		u, v := lane.Varyings.Vec2(0)
		out[i] = shader.FragmentOutput{Color: s.Sample2D(f.SamplerName, u, v, 0)}
	}
	return out
}
func (unlitTexturedFragment) EarlyZPermitted() bool { return true }

// NewUnlitTexturedProgram builds a program that samples samplerName at an
// interpolated UV varying and outputs it unmodified.
func NewUnlitTexturedProgram(samplerName string) *shader.Program {
	return &shader.Program{
		Vertex:   unlitTexturedVertex{},
		Fragment: unlitTexturedFragment{SamplerName: samplerName},
	}
}
