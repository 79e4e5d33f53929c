package raster

import (
	"errors"
	"fmt"
	"image/color"
)

var ErrInvalidDimensions = errors.New("raster: width and height must be positive")

// Buffer is an uncompressed BGR or BGRA pixel store laid out the way a
// bottom-up BMP keeps it: row 0 is the bottom row of the picture.
type Buffer struct {
	width    int
	height   int
	channels int
	// pix holds the samples. The pixel at (x, y) starts at
	// pix[channels*(y*width+x)], in B, G, R[, A] order.
	pix []uint8
}

// New allocates a zeroed buffer. hasAlpha selects 32 bits per pixel (BGRA),
// otherwise 24 (BGR).
func New(width, height int, hasAlpha bool) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	channels := 3
	if hasAlpha {
		channels = 4
	}

	return &Buffer{
		width:    width,
		height:   height,
		channels: channels,
		pix:      make([]uint8, width*channels*height),
	}, nil
}

func (b *Buffer) Width() int {
	return b.width
}

func (b *Buffer) Height() int {
	return b.height
}

// Channels is 3 for BGR buffers and 4 for BGRA buffers.
func (b *Buffer) Channels() int {
	return b.channels
}

func (b *Buffer) BitDepth() int {
	return b.channels * 8
}

func (b *Buffer) HasAlpha() bool {
	return b.channels == 4
}

// RowStride is the number of bytes per row, without any file padding.
func (b *Buffer) RowStride() int {
	return b.width * b.channels
}

// Pix returns the backing samples. Callers must not retain it past the
// lifetime of the buffer's owner.
func (b *Buffer) Pix() []uint8 {
	return b.pix
}

// Offset returns the index of the first sample of (x, y), where y counts
// from the bottom row.
func (b *Buffer) Offset(x, y int) int {
	return b.channels * (y*b.width + x)
}

func (b *Buffer) inside(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// SetNRGBA stores c at (x, y) in bottom-up coordinates. Alpha is dropped on
// 3 channel buffers. Out of range coordinates are ignored.
func (b *Buffer) SetNRGBA(x, y int, c color.NRGBA) {
	if !b.inside(x, y) {
		return
	}

	i := b.Offset(x, y)
	s := b.pix[i : i+b.channels : i+b.channels]
	s[0] = c.B
	s[1] = c.G
	s[2] = c.R
	if b.channels == 4 {
		s[3] = c.A
	}
}

// NRGBAAt reads (x, y) in bottom-up coordinates. Pixels of 3 channel
// buffers are reported opaque.
func (b *Buffer) NRGBAAt(x, y int) color.NRGBA {
	if !b.inside(x, y) {
		return color.NRGBA{}
	}

	i := b.Offset(x, y)
	s := b.pix[i : i+b.channels : i+b.channels]
	c := color.NRGBA{B: s[0], G: s[1], R: s[2], A: 0xff}
	if b.channels == 4 {
		c.A = s[3]
	}
	return c
}
