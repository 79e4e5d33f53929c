package convert

import (
	"image"
	"log/slog"
	"math"

	"bmpgen/raster"

	"golang.org/x/image/draw"
)

// resize scales img into a new buffer. A zero width or height follows the
// source aspect ratio.
func resize(logger *slog.Logger, img image.Image, width, height int, hasAlpha bool) (*raster.Buffer, error) {
	srcBounds := img.Bounds()
	srcWidth := float64(srcBounds.Dx())
	srcHeight := float64(srcBounds.Dy())

	destWidth, destHeight := width, height
	switch {
	case destWidth == 0 && srcHeight > 0:
		destWidth = int(math.Round(float64(destHeight) * srcWidth / srcHeight))
	case destHeight == 0 && srcWidth > 0:
		destHeight = int(math.Round(float64(destWidth) * srcHeight / srcWidth))
	}

	dest, err := raster.New(max(destWidth, 1), max(destHeight, 1), hasAlpha)
	if err != nil {
		return nil, err
	}

	logger.Info("resizing", "width", dest.Width(), "height", dest.Height())
	draw.CatmullRom.Scale(dest, dest.Bounds(), img, srcBounds, draw.Src, nil)

	return dest, nil
}
