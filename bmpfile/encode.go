package bmpfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"bmpgen/fileop"
)

var ErrIO = errors.New("bmp: i/o failure")

// Raster is the read-only view of a pixel buffer the encoder needs. Pix
// holds Height rows of Width*BitDepth/8 bytes, bottom row first, BGR(A).
type Raster interface {
	Width() int
	Height() int
	BitDepth() int
	Pix() []uint8
}

func headersFor(r Raster) (Headers, error) {
	h, err := NewHeaders(r.Width(), r.Height(), r.BitDepth())
	if err != nil {
		return Headers{}, err
	}

	if n, want := len(r.Pix()), h.RowStride()*r.Height(); n != want {
		return Headers{}, fmt.Errorf("bmp: pixel buffer holds %d bytes, want %d", n, want)
	}
	return h, nil
}

// Encode writes r to w as an uncompressed BMP file.
func Encode(w io.Writer, r Raster) error {
	h, err := headersFor(r)
	if err != nil {
		return err
	}

	pix := r.Pix()
	if err := writeBytes(w, h.AppendBinary(make([]byte, 0, h.Len()))); err != nil {
		return fmt.Errorf("%w: could not write headers: %w", ErrIO, err)
	}

	pad := h.Padding()
	if pad == 0 {
		if err := writeBytes(w, pix); err != nil {
			return fmt.Errorf("%w: could not write pixel data: %w", ErrIO, err)
		}
		return nil
	}

	stride := h.RowStride()
	padding := make([]byte, pad)
	for y := range r.Height() {
		if err := writeBytes(w, pix[y*stride:(y+1)*stride]); err != nil {
			return fmt.Errorf("%w: could not write row %d: %w", ErrIO, y, err)
		}
		if err := writeBytes(w, padding); err != nil {
			return fmt.Errorf("%w: could not write padding of row %d: %w", ErrIO, y, err)
		}
	}

	return nil
}

// WriteFile encodes r into the file at path, replacing it if it exists.
// The previous content is kept when encoding fails.
func WriteFile(path string, r Raster) error {
	if _, err := headersFor(r); err != nil {
		return err
	}

	err := fileop.WriteAtomic(path, func(w io.Writer) error {
		bw := bufio.NewWriter(w)
		if err := Encode(bw, r); err != nil {
			return err
		}
		if err := bw.Flush(); err != nil {
			return fmt.Errorf("%w: could not flush %q: %w", ErrIO, path, err)
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrIO) {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return err
}

func writeBytes(w io.Writer, b []byte) error {
	n, err := w.Write(b)
	if err != nil {
		return err
	} else if n != len(b) {
		return fmt.Errorf("wrote only %d/%d bytes", n, len(b))
	}

	return nil
}
