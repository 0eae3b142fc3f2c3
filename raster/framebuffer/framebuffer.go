// framebuffer.go - color + depth attachments, per-sample MSAA planes, clear
// and resolve (spec §3, §4.5 output merger).
package framebuffer

import (
	"errors"

	"github.com/lumenray/raster/raster/buffer"
	"github.com/lumenray/raster/raster/texture"
)

// ErrInvalidSampleCount is returned for unsupported MSAA sample counts.
var ErrInvalidSampleCount = errors.New("framebuffer: sample count must be 1 or 4")

// MSAASamplePositions are the fixed 4x sample offsets within a pixel
// (spec §3 PixelContext).
var MSAASamplePositions = [4][2]float32{
	{0.375, 0.875},
	{0.875, 0.625},
	{0.125, 0.375},
	{0.625, 0.125},
}

// FrameBuffer bundles a color attachment and a depth attachment. Each gets
// SampleCount per-sample planes in addition to the resolved display plane.
type FrameBuffer struct {
	Width, Height int
	SampleCount   int
	Layout        buffer.Layout

	// Resolved planes, sized Width x Height. Resolve writes Color; Depth is
	// only touched by Clear, since depth tests use the per-sample planes.
	Color *buffer.Buffer[texture.RGBA]
	Depth *buffer.Buffer[float32]

	// Per-sample planes, one per MSAA sample, sized Width x Height. Used
	// directly (colorSamples[0], depthSamples[0]) when SampleCount == 1.
	colorSamples []*buffer.Buffer[texture.RGBA]
	depthSamples []*buffer.Buffer[float32]
}

// New allocates a framebuffer of the given size, sample count (1 or 4), and
// pixel-buffer memory layout.
func New(width, height, sampleCount int, layout buffer.Layout) (*FrameBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, texture.ErrInvalidDimensions
	}
	if sampleCount != 1 && sampleCount != 4 {
		return nil, ErrInvalidSampleCount
	}

	fb := &FrameBuffer{
		Width: width, Height: height,
		SampleCount: sampleCount,
		Layout:      layout,
	}
	fb.Color = buffer.New[texture.RGBA](width, height, layout, nil)
	fb.Depth = buffer.New[float32](width, height, layout, nil)

	fb.colorSamples = make([]*buffer.Buffer[texture.RGBA], sampleCount)
	fb.depthSamples = make([]*buffer.Buffer[float32], sampleCount)
	for s := 0; s < sampleCount; s++ {
		fb.colorSamples[s] = buffer.New[texture.RGBA](width, height, layout, nil)
		fb.depthSamples[s] = buffer.New[float32](width, height, layout, nil)
	}
	return fb, nil
}

// ClearMask selects which attachments a Clear call touches.
type ClearMask uint8

const (
	ClearColor ClearMask = 1 << iota
	ClearDepth
)

// Clear resets the selected attachments, including every sample plane.
func (fb *FrameBuffer) Clear(mask ClearMask, color texture.RGBA, depth float32) {
	if mask&ClearColor != 0 {
		fb.Color.SetAll(color)
		for _, p := range fb.colorSamples {
			p.SetAll(color)
		}
	}
	if mask&ClearDepth != 0 {
		fb.Depth.SetAll(depth)
		for _, p := range fb.depthSamples {
			p.SetAll(depth)
		}
	}
}

// ColorSample returns the per-sample color plane for MSAA sample index s
// (s=0 for non-multisampled framebuffers).
func (fb *FrameBuffer) ColorSample(s int) *buffer.Buffer[texture.RGBA] { return fb.colorSamples[s] }

// DepthSample returns the per-sample depth plane for MSAA sample index s.
func (fb *FrameBuffer) DepthSample(s int) *buffer.Buffer[float32] { return fb.depthSamples[s] }

// Resolve averages the per-sample color planes into Color via a box filter
// (spec §4.5). For SampleCount==1 this is a straight copy. Depth is not
// resolved — depth tests always read/write the per-sample planes directly.
func (fb *FrameBuffer) Resolve() {
	if fb.SampleCount == 1 {
		copyPlane(fb.Color, fb.colorSamples[0], fb.Width, fb.Height)
		return
	}
	inv := 1.0 / float32(fb.SampleCount)
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			var sum texture.RGBA
			for s := 0; s < fb.SampleCount; s++ {
				sum = sum.Add(*fb.colorSamples[s].Get(x, y))
			}
			fb.Color.Set(x, y, sum.Scale(inv))
		}
	}
}

// ReadPixels copies the resolved color attachment's [x,y,x+w,y+h) region
// into out as tightly packed RGBA8 bytes, row-major top-to-bottom.
func (fb *FrameBuffer) ReadPixels(x, y, w, h int, out []byte) {
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			px := fb.Color.Get(x+col, y+row)
			i := (row*w + col) * 4
			if px == nil || i+4 > len(out) {
				continue
			}
			b := px.ToBytes()
			out[i+0], out[i+1], out[i+2], out[i+3] = b[0], b[1], b[2], b[3]
		}
	}
}

func copyPlane(dst, src *buffer.Buffer[texture.RGBA], w, h int) {
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Set(x, y, *src.Get(x, y))
		}
	}
}
