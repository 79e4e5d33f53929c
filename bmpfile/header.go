package bmpfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

/*
typedef struct tagBITMAPFILEHEADER {
  WORD  bfType;
  DWORD bfSize;
  WORD  bfReserved1;
  WORD  bfReserved2;
  DWORD bfOffBits;
} BITMAPFILEHEADER;

typedef struct tagBITMAPINFOHEADER {
  DWORD biSize;
  LONG  biWidth;
  LONG  biHeight;
  WORD  biPlanes;
  WORD  biBitCount;
  DWORD biCompression;
  DWORD biSizeImage;
  LONG  biXPelsPerMeter;
  LONG  biYPelsPerMeter;
  DWORD biClrUsed;
  DWORD biClrImportant;
} BITMAPINFOHEADER;
*/

const (
	FileHeaderLen  = 14
	InfoHeaderLen  = 40
	ColorHeaderLen = 84

	compressionRGB       = 0
	compressionBitfields = 3

	// LCS_sRGB
	colorSpaceSRGB = 0x73524742
)

var (
	ErrUnsupportedBitDepth = errors.New("bmp: only 24 and 32 bits per pixel are supported")
	ErrInvalidDimensions   = errors.New("bmp: width and height must be positive")
	ErrTooLarge            = errors.New("bmp: image does not fit in 32-bit header fields")
)

type FileHeader struct {
	Type      [2]byte // "BM"
	Size      uint32  // whole file, in bytes
	Reserved1 uint16
	Reserved2 uint16
	OffBits   uint32 // start of the pixel array
}

type InfoHeader struct {
	Size            uint32
	Width           int32
	Height          int32 // positive: bottom-up rows
	Planes          uint16
	BitCount        uint16
	Compression     uint32
	SizeImage       uint32
	XPelsPerMeter   int32
	YPelsPerMeter   int32
	ColorsUsed      uint32
	ColorsImportant uint32
}

// ColorHeader carries the BGRA channel masks and color space of 32-bit
// images. Together with InfoHeader it forms a BITMAPV5HEADER.
type ColorHeader struct {
	RedMask        uint32
	GreenMask      uint32
	BlueMask       uint32
	AlphaMask      uint32
	ColorSpaceType uint32
	Unused         [16]uint32
}

// Headers is the metadata of a bitmap, derived from its dimensions and
// bit depth. Color is nil for 24-bit images.
type Headers struct {
	File  FileHeader
	Info  InfoHeader
	Color *ColorHeader
}

// RoundUp returns the smallest multiple of align that is >= n. It panics if
// align is not positive.
func RoundUp(n, align int) int {
	if align < 1 {
		panic(fmt.Sprintf("bmp: invalid alignment %d", align))
	}
	if r := n % align; r > 0 {
		n += align - r
	} else if r < 0 {
		n -= r
	}
	return n
}

// NewHeaders builds the headers of a width x height image with the given
// bit depth.
func NewHeaders(width, height, bitDepth int) (Headers, error) {
	if width <= 0 || height <= 0 {
		return Headers{}, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if width > math.MaxInt32 || height > math.MaxInt32 {
		return Headers{}, fmt.Errorf("%w: %dx%d", ErrTooLarge, width, height)
	}

	h := Headers{
		File: FileHeader{Type: [2]byte{'B', 'M'}},
		Info: InfoHeader{
			Size:     InfoHeaderLen,
			Width:    int32(width),
			Height:   int32(height),
			Planes:   1,
			BitCount: uint16(bitDepth),
		},
	}

	switch bitDepth {
	case 24:
		h.Info.Compression = compressionRGB
	case 32:
		h.Info.Size += ColorHeaderLen
		h.Info.Compression = compressionBitfields
		h.Color = &ColorHeader{
			RedMask:        0x00ff0000,
			GreenMask:      0x0000ff00,
			BlueMask:       0x000000ff,
			AlphaMask:      0xff000000,
			ColorSpaceType: colorSpaceSRGB,
		}
	default:
		return Headers{}, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}

	h.File.OffBits = uint32(FileHeaderLen + h.Info.Size)

	// the row stride can't overflow since width <= MaxInt32, but the
	// product with height can
	pixels := uint64(h.PaddedStride())
	if pixels > (math.MaxUint32-uint64(h.File.OffBits))/uint64(height) {
		return Headers{}, fmt.Errorf("%w: %dx%d at %d bits", ErrTooLarge, width, height, bitDepth)
	}
	h.File.Size = h.File.OffBits + uint32(pixels*uint64(height))
	return h, nil
}

func (h Headers) channels() int {
	return int(h.Info.BitCount) / 8
}

// RowStride is the number of pixel bytes in a row.
func (h Headers) RowStride() int {
	return int(h.Info.Width) * h.channels()
}

// PaddedStride is the number of bytes a row takes in the file.
func (h Headers) PaddedStride() int {
	return RoundUp(h.RowStride(), 4)
}

// Padding is the number of zero bytes written after each row.
func (h Headers) Padding() int {
	return h.PaddedStride() - h.RowStride()
}

// Len is the size of the serialized headers, which is also the offset of
// the pixel data.
func (h Headers) Len() int {
	return int(h.File.OffBits)
}

// AppendBinary appends the little-endian encoding of the headers to b.
func (h Headers) AppendBinary(b []byte) []byte {
	b = append(b, h.File.Type[:]...)
	b = binary.LittleEndian.AppendUint32(b, h.File.Size)
	b = binary.LittleEndian.AppendUint16(b, h.File.Reserved1)
	b = binary.LittleEndian.AppendUint16(b, h.File.Reserved2)
	b = binary.LittleEndian.AppendUint32(b, h.File.OffBits)

	b = binary.LittleEndian.AppendUint32(b, h.Info.Size)
	b = binary.LittleEndian.AppendUint32(b, uint32(h.Info.Width))
	b = binary.LittleEndian.AppendUint32(b, uint32(h.Info.Height))
	b = binary.LittleEndian.AppendUint16(b, h.Info.Planes)
	b = binary.LittleEndian.AppendUint16(b, h.Info.BitCount)
	b = binary.LittleEndian.AppendUint32(b, h.Info.Compression)
	b = binary.LittleEndian.AppendUint32(b, h.Info.SizeImage)
	b = binary.LittleEndian.AppendUint32(b, uint32(h.Info.XPelsPerMeter))
	b = binary.LittleEndian.AppendUint32(b, uint32(h.Info.YPelsPerMeter))
	b = binary.LittleEndian.AppendUint32(b, h.Info.ColorsUsed)
	b = binary.LittleEndian.AppendUint32(b, h.Info.ColorsImportant)

	if c := h.Color; c != nil {
		b = binary.LittleEndian.AppendUint32(b, c.RedMask)
		b = binary.LittleEndian.AppendUint32(b, c.GreenMask)
		b = binary.LittleEndian.AppendUint32(b, c.BlueMask)
		b = binary.LittleEndian.AppendUint32(b, c.AlphaMask)
		b = binary.LittleEndian.AppendUint32(b, c.ColorSpaceType)
		for _, v := range c.Unused {
			b = binary.LittleEndian.AppendUint32(b, v)
		}
	}

	return b
}
