// buffer.go - Buffer[T]: rectangular typed storage with pluggable layout.
package buffer

import "unsafe"

const alignment = 32

// Buffer is a rectangular typed store of width x height, backed by a
// 32-byte-aligned allocation whose (x, y) -> offset mapping is fixed by
// Layout (spec §3, §4.1).
type Buffer[T any] struct {
	width, height      int
	innerWidth         int
	innerHeight        int
	layout             Layout
	data               []T
}

// New creates a Buffer of width w, height h under the given layout. If data
// is non-nil, it seeds the raw inner storage (must have InnerWidth*InnerHeight
// elements); otherwise the buffer starts zeroed.
func New[T any](w, h int, layout Layout, data []T) *Buffer[T] {
	b := &Buffer[T]{}
	b.Create(w, h, layout, data)
	return b
}

// Create (re)initializes the buffer. It is idempotent if the size and layout
// are unchanged (spec §4.1).
func (b *Buffer[T]) Create(w, h int, layout Layout, data []T) {
	if w <= 0 || h <= 0 {
		return
	}
	if b.width == w && b.height == h && b.layout == layout && b.data != nil {
		return
	}
	b.width, b.height, b.layout = w, h, layout
	b.innerWidth, b.innerHeight = innerDims(layout, w, h)
	n := b.innerWidth * b.innerHeight
	b.data = alignedAlloc[T](n)
	if data != nil {
		copy(b.data, data)
	}
}

// Destroy releases ownership of the backing storage.
func (b *Buffer[T]) Destroy() {
	b.width, b.height, b.innerWidth, b.innerHeight = 0, 0, 0, 0
	b.data = nil
}

func (b *Buffer[T]) Width() int  { return b.width }
func (b *Buffer[T]) Height() int { return b.height }
func (b *Buffer[T]) InnerWidth() int  { return b.innerWidth }
func (b *Buffer[T]) InnerHeight() int { return b.innerHeight }
func (b *Buffer[T]) Layout() Layout   { return b.layout }
func (b *Buffer[T]) Empty() bool      { return b.data == nil }

// Get returns a pointer to the element at (x, y), or nil (the null
// sentinel) when x >= Width or y >= Height.
func (b *Buffer[T]) Get(x, y int) *T {
	if b.data == nil || x < 0 || y < 0 || x >= b.width || y >= b.height {
		return nil
	}
	return &b.data[convertIndex(b.layout, b.innerWidth, x, y)]
}

// Set writes v at (x, y). Out-of-range coordinates are ignored.
func (b *Buffer[T]) Set(x, y int, v T) {
	if p := b.Get(x, y); p != nil {
		*p = v
	}
}

// SetAll fills the entire inner region (including layout padding) with v.
func (b *Buffer[T]) SetAll(v T) {
	for i := range b.data {
		b.data[i] = v
	}
}

// CopyRawDataTo writes the raw inner storage to out, optionally flipping
// rows vertically. For Linear layout this writes exactly Width*Height
// elements; for Tiled/Morton it writes InnerWidth*InnerHeight raw elements,
// in layout order (not a visible-region image) — spec §4.1.
func (b *Buffer[T]) CopyRawDataTo(out []T, flipY bool) {
	if b.data == nil {
		return
	}
	if !flipY {
		copy(out, b.data)
		return
	}
	for row := 0; row < b.innerHeight; row++ {
		srcRow := b.innerHeight - 1 - row
		copy(out[row*b.innerWidth:(row+1)*b.innerWidth], b.data[srcRow*b.innerWidth:(srcRow+1)*b.innerWidth])
	}
}

// RawLen returns the number of elements in the backing storage
// (InnerWidth*InnerHeight).
func (b *Buffer[T]) RawLen() int { return len(b.data) }

// alignedAlloc allocates n elements of T at a 32-byte-aligned address.
func alignedAlloc[T any](n int) []T {
	if n <= 0 {
		return nil
	}
	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	raw := make([]byte, n*elemSize+alignment-1)
	addr := uintptr(unsafe.Pointer(&raw[0]))
	pad := (alignment - int(addr%alignment)) % alignment
	return unsafe.Slice((*T)(unsafe.Pointer(&raw[pad])), n)
}
