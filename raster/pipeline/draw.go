// draw.go - partitions the framebuffer into independent tiles and drives
// them through vertex stage, clipper, and rasterizer (spec §5 concurrency
// model). Grounded on golang.org/x/sync/errgroup for the worker fan-out.
package pipeline

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/lumenray/raster/raster/framebuffer"
	"github.com/lumenray/raster/raster/shader"
)

// TileSize is the edge length of a screen-space partition (spec §5: the
// rasterizer partitions the bounding box into independent tiles).
const TileSize = 64

// ErrDrawContractViolation covers VAO index out of range or a primitive type
// inconsistent with the index count (spec §7). Sampler bindings are not
// checked.
var ErrDrawContractViolation = errors.New("pipeline: draw contract violation")

// Draw runs one draw call: vertex stage, per-triangle clipping, and
// tile-parallel rasterization. It is synchronous from the caller's
// perspective — every tile's primitives commit in submission order before
// Draw returns (spec §5 "Ordering").
func Draw(fb *framebuffer.FrameBuffer, vp Viewport, va *VertexArray, prog *shader.Program, uniforms shader.Uniforms, samplers shader.Sampler, primType PrimitiveType, state RenderState) error {
	triangleIndices, err := assemblePrimitives(va, primType)
	if err != nil {
		return err
	}

	vs := NewVertexStage()
	defer vs.Reset()

	clipped := make([][3]ClipVertex, 0, len(triangleIndices))
	for _, idx := range triangleIndices {
		for _, i := range idx {
			if int(i) >= va.VertexCount || i < 0 {
				return ErrDrawContractViolation
			}
		}
		h0 := vs.Get(idx[0], va, prog.Vertex, uniforms)
		h1 := vs.Get(idx[1], va, prog.Vertex, uniforms)
		h2 := vs.Get(idx[2], va, prog.Vertex, uniforms)

		poly := ClipTriangle(h0, h1, h2)
		for _, t := range Triangulate(poly) {
			clipped = append(clipped, t)
		}
	}

	tiles := partitionTiles(fb.Width, fb.Height, TileSize)

	g, _ := errgroup.WithContext(context.Background())
	for _, tile := range tiles {
		tile := tile
		g.Go(func() error {
			for _, tri := range clipped {
				RasterizeTriangle(fb, vp, tri, prog, uniforms, samplers, state, tile)
			}
			return nil
		})
	}
	return g.Wait()
}

// assemblePrimitives expands a VAO's index buffer into a list of
// triangle-index triples for the given primitive type (spec §7
// DrawContractViolation: primitive type inconsistent with index count).
func assemblePrimitives(va *VertexArray, primType PrimitiveType) ([][3]int32, error) {
	idx := va.Indices
	switch primType {
	case Triangles:
		if len(idx)%3 != 0 {
			return nil, ErrDrawContractViolation
		}
		tris := make([][3]int32, 0, len(idx)/3)
		for i := 0; i < len(idx); i += 3 {
			tris = append(tris, [3]int32{idx[i], idx[i+1], idx[i+2]})
		}
		return tris, nil
	case TriangleStrip:
		if len(idx) < 3 {
			return nil, ErrDrawContractViolation
		}
		tris := make([][3]int32, 0, len(idx)-2)
		for i := 0; i+2 < len(idx); i++ {
			if i%2 == 0 {
				tris = append(tris, [3]int32{idx[i], idx[i+1], idx[i+2]})
			} else {
				tris = append(tris, [3]int32{idx[i+1], idx[i], idx[i+2]})
			}
		}
		return tris, nil
	default:
		return nil, ErrDrawContractViolation
	}
}

func partitionTiles(width, height, size int) []Tile {
	var tiles []Tile
	for y := 0; y < height; y += size {
		for x := 0; x < width; x += size {
			tiles = append(tiles, Tile{
				MinX: x, MinY: y,
				MaxX: minInt(x+size, width),
				MaxY: minInt(y+size, height),
			})
		}
	}
	return tiles
}
