package raster

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

var _ draw.Image = &Buffer{}

// The image.Image view uses the usual top-down coordinates: image row y is
// buffer row Height()-1-y.

func (b *Buffer) ColorModel() color.Model {
	return color.NRGBAModel
}

func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

func (b *Buffer) At(x, y int) color.Color {
	return b.NRGBAAt(x, b.height-1-y)
}

func (b *Buffer) Set(x, y int, c color.Color) {
	b.SetNRGBA(x, b.height-1-y, color.NRGBAModel.Convert(c).(color.NRGBA))
}

// FromImage copies img into a new buffer of the same size.
func FromImage(img image.Image, hasAlpha bool) (*Buffer, error) {
	r := img.Bounds()
	buf, err := New(r.Dx(), r.Dy(), hasAlpha)
	if err != nil {
		return nil, err
	}

	draw.Draw(buf, buf.Bounds(), img, r.Min, draw.Src)
	return buf, nil
}
