package paint

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"bmpgen/raster"
)

var ErrOutOfBounds = errors.New("paint: region does not fit in the image")

// Fill sets every pixel of the w x h region whose bottom-left corner is
// (x0, y0) to c. Coordinates count rows from the bottom of the image. Alpha
// is only stored by 4 channel buffers. buf is left untouched on error.
func Fill(buf *raster.Buffer, x0, y0, w, h int, c color.NRGBA) error {
	if x0 < 0 || y0 < 0 || w < 0 || h < 0 ||
		w > buf.Width()-x0 || h > buf.Height()-y0 {
		return fmt.Errorf("%w: %dx%d at (%d, %d) in %dx%d", ErrOutOfBounds,
			w, h, x0, y0, buf.Width(), buf.Height())
	}

	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			buf.SetNRGBA(x, y, c)
		}
	}
	return nil
}

// FillRect is Fill for a rectangle given in the same bottom-up coordinates.
func FillRect(buf *raster.Buffer, r image.Rectangle, c color.NRGBA) error {
	r = r.Canon()
	return Fill(buf, r.Min.X, r.Min.Y, r.Dx(), r.Dy(), c)
}
