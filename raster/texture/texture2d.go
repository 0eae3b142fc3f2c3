// texture2d.go - mip-chained 2D texture over buffer.Buffer[RGBA] (spec §3).
package texture

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	"github.com/lumenray/raster/raster/buffer"
)

// Texture2D owns one buffer.Buffer[RGBA] per mip level.
type Texture2D struct {
	Format       Format
	WrapS, WrapT Wrap
	Filter       Filter
	MipFilter    MipFilter
	BorderColor  RGBA

	mips []*buffer.Buffer[RGBA]
}

// NewTexture2D allocates a texture with level 0 set from data (row-major
// RGBA8, width*height*4 bytes) and generates the rest of the mip chain by
// bilinear downsampling (grounded on golang.org/x/image/draw, see
// DESIGN.md). mipLevels is clamped to MaxMipLevels(width, height); pass 1 to
// skip mip generation entirely.
func NewTexture2D(width, height, mipLevels int, data []byte) (*Texture2D, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	maxLevels := MaxMipLevels(width, height)
	if mipLevels <= 0 || mipLevels > maxLevels {
		mipLevels = maxLevels
	}

	t := &Texture2D{
		WrapS: Repeat, WrapT: Repeat,
		Filter:      Linear,
		MipFilter:   MipLinear,
		BorderColor: DefaultBorderColor,
		mips:        make([]*buffer.Buffer[RGBA], mipLevels),
	}

	base := buffer.New[RGBA](width, height, buffer.Linear, nil)
	fillFromRGBA8(base, width, height, data)
	t.mips[0] = base

	prevImg := toStdImage(base, width, height)
	w, h := width, height
	for lvl := 1; lvl < mipLevels; lvl++ {
		w, h = max(w/2, 1), max(h/2, 1)
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.BiLinear.Scale(dst, dst.Bounds(), prevImg, prevImg.Bounds(), xdraw.Over, nil)
		lvlBuf := buffer.New[RGBA](w, h, buffer.Linear, nil)
		fillFromImage(lvlBuf, w, h, dst)
		t.mips[lvl] = lvlBuf
		prevImg = dst
	}

	return t, nil
}

// MipLevels returns the number of mip levels in the chain.
func (t *Texture2D) MipLevels() int { return len(t.mips) }

// Level returns the mip level buffer, or nil if lvl is out of range.
func (t *Texture2D) Level(lvl int) *buffer.Buffer[RGBA] {
	if lvl < 0 || lvl >= len(t.mips) {
		return nil
	}
	return t.mips[lvl]
}

func fillFromRGBA8(b *buffer.Buffer[RGBA], w, h int, data []byte) {
	if len(data) < w*h*4 {
		return
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			b.Set(x, y, RGBAFromBytes(data[i], data[i+1], data[i+2], data[i+3]))
		}
	}
}

func toStdImage(b *buffer.Buffer[RGBA], w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px := b.Get(x, y).ToBytes()
			img.SetRGBA(x, y, color.RGBA{R: px[0], G: px[1], B: px[2], A: px[3]})
		}
	}
	return img
}

func fillFromImage(b *buffer.Buffer[RGBA], w, h int, img *image.RGBA) {
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			b.Set(x, y, RGBAFromBytes(byte(r>>8), byte(g>>8), byte(bl>>8), byte(a>>8)))
		}
	}
}
