// clipper.go - Sutherland-Hodgman triangle clipping in homogeneous clip
// space (spec §4.4).
package pipeline

import (
	"github.com/lumenray/raster/raster/geom"
	"github.com/lumenray/raster/raster/shader"
)

// ClipVertex is one vertex of a polygon being clipped: clip position plus
// its varyings, interpolated as needed by the clipper.
type ClipVertex struct {
	Pos      geom.Vec4
	Varyings shader.Varyings
}

// ClipTriangle clips a triangle (given by its three VertexHolders) against
// the homogeneous clip cube, returning the resulting convex polygon as a
// fan-ready vertex list. A nil/empty result means the triangle is fully
// discarded (spec §4.4).
func ClipTriangle(v0, v1, v2 *VertexHolder) []ClipVertex {
	combinedMask := v0.ClipMask | v1.ClipMask | v2.ClipMask
	if combinedMask == 0 {
		// Trivial accept: all three vertices inside every plane.
		return []ClipVertex{
			{Pos: v0.ClipPos, Varyings: v0.Varyings},
			{Pos: v1.ClipPos, Varyings: v1.Varyings},
			{Pos: v2.ClipPos, Varyings: v2.Varyings},
		}
	}
	if v0.ClipMask&v1.ClipMask&v2.ClipMask != 0 {
		// Trivial reject: some single plane has all three vertices outside.
		return nil
	}

	poly := []ClipVertex{
		{Pos: v0.ClipPos, Varyings: v0.Varyings},
		{Pos: v1.ClipPos, Varyings: v1.Varyings},
		{Pos: v2.ClipPos, Varyings: v2.Varyings},
	}

	for plane, coeffs := range geom.ClipPlanes {
		bit := geom.ClipMask(1 << uint(plane))
		if combinedMask&bit == 0 {
			continue // no vertex violates this plane; skip it
		}
		poly = clipAgainstPlane(poly, coeffs)
		if len(poly) == 0 {
			return nil
		}
	}
	return poly
}

func clipAgainstPlane(poly []ClipVertex, plane geom.Vec4) []ClipVertex {
	n := len(poly)
	if n == 0 {
		return nil
	}
	out := make([]ClipVertex, 0, n+1)

	for i := 0; i < n; i++ {
		a := poly[i]
		b := poly[(i+1)%n]
		distA := plane.Dot(a.Pos)
		distB := plane.Dot(b.Pos)
		aInside := distA >= 0
		bInside := distB >= 0

		switch {
		case aInside && bInside:
			out = append(out, b)
		case aInside && !bInside:
			out = append(out, intersect(a, b, distA, distB))
		case !aInside && bInside:
			out = append(out, intersect(a, b, distA, distB), b)
		default:
			// both outside: emit nothing
		}
	}
	return out
}

func intersect(a, b ClipVertex, distA, distB float32) ClipVertex {
	t := distA / (distA - distB)
	pos := a.Pos.Lerp(b.Pos, t)
	v := shader.NewVaryings(len(a.Varyings))
	if len(a.Varyings) > 0 {
		shader.Lerp(v, a.Varyings, b.Varyings, t)
	}
	return ClipVertex{Pos: pos, Varyings: v}
}

// Triangulate fans a convex polygon (as produced by ClipTriangle) into a
// list of triangles, each as three ClipVertex (spec §4.4 "re-triangulate by
// fan from vertex[0]").
func Triangulate(poly []ClipVertex) [][3]ClipVertex {
	if len(poly) < 3 {
		return nil
	}
	tris := make([][3]ClipVertex, 0, len(poly)-2)
	for i := 1; i < len(poly)-1; i++ {
		tris = append(tris, [3]ClipVertex{poly[0], poly[i], poly[i+1]})
	}
	return tris
}
