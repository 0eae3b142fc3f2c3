// cube.go - six-face cube texture and direction-vector sampling (spec §3,
// §4.2). Face selection table grounded on
// original_source/src/Base/ImageUtils.cpp.
package texture

// TextureCube owns one Texture2D per face, all ClampToEdge wrapped (cube
// sampling never wraps across a seam).
type TextureCube struct {
	Filter    Filter
	MipFilter MipFilter
	faces     [6]*Texture2D
}

// NewTextureCube builds a cube texture from six equal-sized RGBA8 face
// images, each row-major width*height*4 bytes, ordered per the Face
// constants (+X,-X,+Y,-Y,+Z,-Z).
func NewTextureCube(size, mipLevels int, faceData [6][]byte) (*TextureCube, error) {
	if size <= 0 {
		return nil, ErrInvalidDimensions
	}
	tc := &TextureCube{Filter: Linear, MipFilter: MipLinear}
	for f := 0; f < 6; f++ {
		tex, err := NewTexture2D(size, size, mipLevels, faceData[f])
		if err != nil {
			return nil, err
		}
		tex.WrapS, tex.WrapT = ClampToEdge, ClampToEdge
		tex.Filter = tc.Filter
		tex.MipFilter = tc.MipFilter
		tc.faces[f] = tex
	}
	return tc, nil
}

// Face returns the Texture2D backing a given face, or nil if out of range.
func (tc *TextureCube) Face(f Face) *Texture2D {
	if f < FacePositiveX || f > FaceNegativeZ {
		return nil
	}
	return tc.faces[f]
}

// SampleCube resolves a direction vector (x,y,z) to a face and (u,v), then
// samples that face's mip chain at lod (spec §4.2 cube-face table).
func (tc *TextureCube) SampleCube(x, y, z, lod float32) RGBA {
	face, u, v := selectFace(x, y, z)
	tex := tc.faces[face]
	if tex == nil {
		return DefaultBorderColor
	}
	return tex.Sample2D(u, v, lod)
}

// selectFace picks the major axis (largest absolute component) and derives
// the per-face (u,v) in [0,1] following the standard cubemap convention.
func selectFace(x, y, z float32) (Face, float32, float32) {
	ax, ay, az := abs32(x), abs32(y), abs32(z)

	var face Face
	var sc, tc, ma float32
	switch {
	case ax >= ay && ax >= az:
		if x > 0 {
			face, sc, tc, ma = FacePositiveX, -z, -y, ax
		} else {
			face, sc, tc, ma = FaceNegativeX, z, -y, ax
		}
	case ay >= ax && ay >= az:
		if y > 0 {
			face, sc, tc, ma = FacePositiveY, x, z, ay
		} else {
			face, sc, tc, ma = FaceNegativeY, x, -z, ay
		}
	default:
		if z > 0 {
			face, sc, tc, ma = FacePositiveZ, x, -y, az
		} else {
			face, sc, tc, ma = FaceNegativeZ, -x, -y, az
		}
	}
	u, v := faceUV(sc, tc, ma)
	return face, u, v
}

func faceUV(sc, tc, ma float32) (float32, float32) {
	u := 0.5 * (sc/ma + 1)
	v := 0.5 * (tc/ma + 1)
	return u, v
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
