// color.go - RGBA texel type shared by texture storage and the framebuffer.
package texture

// RGBA is a texel/pixel in linear [0,1] float components.
type RGBA struct {
	R, G, B, A float32
}

func (c RGBA) Add(o RGBA) RGBA {
	return RGBA{c.R + o.R, c.G + o.G, c.B + o.B, c.A + o.A}
}

func (c RGBA) Scale(s float32) RGBA {
	return RGBA{c.R * s, c.G * s, c.B * s, c.A * s}
}

func (c RGBA) Lerp(o RGBA, t float32) RGBA {
	return c.Scale(1 - t).Add(o.Scale(t))
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (c RGBA) Clamp() RGBA {
	return RGBA{clamp01(c.R), clamp01(c.G), clamp01(c.B), clamp01(c.A)}
}

// ToBytes packs c as 8-bit RGBA, clamping to [0,1] first.
func (c RGBA) ToBytes() [4]byte {
	c = c.Clamp()
	return [4]byte{
		byte(c.R*255 + 0.5),
		byte(c.G*255 + 0.5),
		byte(c.B*255 + 0.5),
		byte(c.A*255 + 0.5),
	}
}

// RGBAFromBytes unpacks 8-bit RGBA into linear [0,1] floats.
func RGBAFromBytes(r, g, b, a byte) RGBA {
	const inv255 = 1.0 / 255.0
	return RGBA{float32(r) * inv255, float32(g) * inv255, float32(b) * inv255, float32(a) * inv255}
}
