// vertexstage.go - runs the vertex shader once per unique index and caches
// results for the draw (spec §4.3).
package pipeline

import (
	"github.com/lumenray/raster/raster/geom"
	"github.com/lumenray/raster/raster/shader"
)

// VertexHolder is the per-vertex pipeline state produced by the vertex
// stage (spec §3).
type VertexHolder struct {
	ClipPos  geom.Vec4
	Varyings shader.Varyings
	ClipMask geom.ClipMask
}

// VertexStage runs a vertex shader over a VertexArray, caching one
// VertexHolder per unique index referenced.
type VertexStage struct {
	cache map[int32]*VertexHolder
}

// NewVertexStage creates an empty per-draw vertex cache.
func NewVertexStage() *VertexStage {
	return &VertexStage{cache: make(map[int32]*VertexHolder)}
}

// Get returns the cached holder for idx, running vs.Run and computing the
// clip mask on first access (spec §4.3).
func (s *VertexStage) Get(idx int32, va *VertexArray, vs shader.VertexShader, uniforms shader.Uniforms) *VertexHolder {
	if h, ok := s.cache[idx]; ok {
		return h
	}

	in := shader.VertexInput{Attributes: make([][4]float32, len(va.Attributes))}
	for i, a := range va.Attributes {
		in.Attributes[i] = va.ReadAttribute(idx, a)
	}

	out := vs.Run(in, uniforms)
	pos := geom.Vec4{X: out.Position.X, Y: out.Position.Y, Z: out.Position.Z, W: out.Position.W}

	h := &VertexHolder{
		ClipPos:  pos,
		Varyings: out.Varyings,
		ClipMask: geom.ComputeClipMask(pos),
	}
	s.cache[idx] = h
	return h
}

// Reset discards the cache; called at the end of a draw (spec §5 resource
// acquisition: per-draw allocations are released deterministically).
func (s *VertexStage) Reset() {
	s.cache = make(map[int32]*VertexHolder)
}
