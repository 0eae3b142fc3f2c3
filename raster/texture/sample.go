// sample.go - sample2D: wrap, mip selection, nearest/bilinear filtering
// (spec §4.2).
package texture

import (
	"math"

	"github.com/lumenray/raster/raster/buffer"
)

// Sample2D samples the texture at uv (s,t) and mip level lod, returning
// linear [0,1] RGBA (spec §4.2).
func (t *Texture2D) Sample2D(u, v, lod float32) RGBA {
	maxLevel := float32(len(t.mips) - 1)
	l := clampf(lod, 0, maxLevel)

	if t.MipFilter == MipNearest || l == float32(int(l)) {
		return t.sampleLevel(int(l+0.5), u, v)
	}

	lo := int(math.Floor(float64(l)))
	hi := lo + 1
	if hi > len(t.mips)-1 {
		hi = lo
	}
	frac := l - float32(lo)
	c0 := t.sampleLevel(lo, u, v)
	c1 := t.sampleLevel(hi, u, v)
	return c0.Lerp(c1, frac)
}

func (t *Texture2D) sampleLevel(lvl int, u, v float32) RGBA {
	buf := t.Level(lvl)
	if buf == nil {
		return t.BorderColor
	}
	w, h := buf.Width(), buf.Height()

	wrappedU, borderU := wrap(u, t.WrapS)
	wrappedV, borderV := wrap(v, t.WrapT)
	if borderU || borderV {
		return t.BorderColor
	}

	if t.Filter == Nearest {
		x := clampIndex(int(wrappedU*float32(w)), w)
		y := clampIndex(int(wrappedV*float32(h)), h)
		return *buf.Get(x, y)
	}

	// Bilinear: sample at texel centers, gather the 4 neighbors.
	fx := wrappedU*float32(w) - 0.5
	fy := wrappedV*float32(h) - 0.5
	x0 := int(math.Floor(float64(fx)))
	y0 := int(math.Floor(float64(fy)))
	tx := fx - float32(x0)
	ty := fy - float32(y0)

	c00 := texelWrapped(buf, x0, y0, w, h, t.WrapS, t.WrapT, t.BorderColor)
	c10 := texelWrapped(buf, x0+1, y0, w, h, t.WrapS, t.WrapT, t.BorderColor)
	c01 := texelWrapped(buf, x0, y0+1, w, h, t.WrapS, t.WrapT, t.BorderColor)
	c11 := texelWrapped(buf, x0+1, y0+1, w, h, t.WrapS, t.WrapT, t.BorderColor)

	top := c00.Lerp(c10, tx)
	bottom := c01.Lerp(c11, tx)
	return top.Lerp(bottom, ty)
}

func texelWrapped(buf *buffer.Buffer[RGBA], x, y, w, h int, wrapS, wrapT Wrap, border RGBA) RGBA {
	xi, outX := wrapIndex(x, w, wrapS)
	yi, outY := wrapIndex(y, h, wrapT)
	if outX || outY {
		return border
	}
	return *buf.Get(xi, yi)
}

// wrapIndex applies a wrap mode to an integer texel coordinate.
func wrapIndex(x, size int, mode Wrap) (idx int, useBorder bool) {
	switch mode {
	case ClampToBorder:
		if x < 0 || x >= size {
			return 0, true
		}
		return x, false
	case ClampToEdge:
		return clampIndex(x, size), false
	case MirroredRepeat:
		period := 2 * size
		m := ((x % period) + period) % period
		if m >= size {
			m = period - 1 - m
		}
		return m, false
	default: // Repeat
		return ((x % size) + size) % size, false
	}
}

func clampIndex(x, size int) int {
	if x < 0 {
		return 0
	}
	if x >= size {
		return size - 1
	}
	return x
}

// wrap applies a wrap mode to a continuous UV coordinate, per spec §4.2:
// Repeat = fract; MirroredRepeat = triangle wave; ClampToEdge = clamp to
// [0.5/W, 1-0.5/W] (approximated here in normalized space as [0,1] clamp,
// the half-texel correction happens in sampleLevel's texel indexing);
// ClampToBorder reports out-of-range via the border flag.
func wrap(c float32, mode Wrap) (wrapped float32, useBorder bool) {
	switch mode {
	case Repeat:
		f := c - float32(math.Floor(float64(c)))
		return f, false
	case MirroredRepeat:
		t := c - 2*float32(math.Floor(float64(c)/2))
		if t > 1 {
			t = 2 - t
		}
		return t, false
	case ClampToEdge:
		return clampf(c, 0, 1), false
	case ClampToBorder:
		if c < 0 || c > 1 {
			return 0, true
		}
		return c, false
	default:
		return c, false
	}
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
