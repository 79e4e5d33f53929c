package generate

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"

	"bmpgen/bmpfile"
	"bmpgen/fileop"
	"bmpgen/fractal"
	"bmpgen/paint"
	"bmpgen/parallel"
	"bmpgen/raster"

	"github.com/alecthomas/kong"
	xbmp "golang.org/x/image/bmp"
)

type CLICmd struct {
	Width        int         `help:"Image width in pixels" default:"1000"`
	Height       int         `help:"Image height in pixels" default:"1000"`
	Alpha        bool        `help:"Write a 32-bit BGRA image instead of a 24-bit BGR one" default:"false"`
	Mandelbrot   string      `help:"Render the Mandelbrot set, painting escaping points with this color (#RGB, #RGBA, #RRGGBB or #RRGGBBAA)"`
	Iterations   int         `help:"Mandelbrot escape iteration cap" default:"34"`
	Fill         []string    `help:"Fill a region, as x,y,w,h,#color with y counted from the bottom row. Applied after the Mandelbrot set, in order" sep:"none"`
	Out          string      `help:"Destination file" default:"mandel_image.bmp"`
	Force        bool        `help:"Overwrite the destination if it exists" default:"false"`
	Verify       bool        `help:"Decode the header of the written file to check it" default:"false"`
	Regions      []region    `kong:"-"`
	FractalColor color.NRGBA `kong:"-"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid image size: %dx%d", c.Width, c.Height)
	}

	depth := 24
	if c.Alpha {
		depth = 32
	}
	if _, err := bmpfile.NewHeaders(c.Width, c.Height, depth); err != nil {
		return fmt.Errorf("invalid image size: %w", err)
	}

	if c.Iterations < 1 {
		return fmt.Errorf("invalid iteration count: %d", c.Iterations)
	}

	if c.Mandelbrot != "" {
		col, err := parseHexToColor(c.Mandelbrot)
		if err != nil {
			return err
		}
		c.FractalColor = col
	}

	c.Regions = c.Regions[:0]
	for _, f := range c.Fill {
		r, err := parseRegion(f)
		if err != nil {
			return err
		}
		c.Regions = append(c.Regions, r)
	}

	out, err := filepath.Abs(c.Out)
	if err != nil {
		return fmt.Errorf("invalid destination path %q: %w", c.Out, err)
	}
	c.Out = out

	return nil
}

func (c *CLICmd) Run(worker parallel.WorkerFunc) error {
	logger := slog.Default().With("out", c.Out)

	if !c.Force {
		if err := fileop.CheckDest(c.Out); err != nil {
			return err
		}
	}

	buf, err := raster.New(c.Width, c.Height, c.Alpha)
	if err != nil {
		return err
	}

	if c.Mandelbrot != "" {
		logger.Info("rendering mandelbrot set", "width", c.Width, "height", c.Height, "iterations", c.Iterations)
		fractal.Mandelbrot{MaxIterations: c.Iterations}.Draw(buf, c.FractalColor, worker)
	}

	for i, r := range c.Regions {
		logger.Debug("filling region", "rect", r.Rect)
		if err := paint.FillRect(buf, r.Rect, r.Color); err != nil {
			return fmt.Errorf("could not fill region #%d: %w", i+1, err)
		}
	}

	if err := bmpfile.WriteFile(c.Out, buf); err != nil {
		return fmt.Errorf("could not write %q: %w", c.Out, err)
	}

	if c.Verify {
		if err := verify(c.Out, buf); err != nil {
			return err
		}
		logger.Debug("verified")
	}

	logger.Info("written", "width", buf.Width(), "height", buf.Height(), "bits", buf.BitDepth(), "alpha", buf.HasAlpha())
	return nil
}

func verify(path string, buf *raster.Buffer) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("could not open %q for verification: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Error("could not close file", "name", path, "error", closeErr)
		}
	}()

	conf, err := xbmp.DecodeConfig(f)
	if err != nil {
		return fmt.Errorf("could not decode %q: %w", path, err)
	}
	if conf.Width != buf.Width() || conf.Height != buf.Height() {
		return fmt.Errorf("decoded %q as %dx%d, want %dx%d", path,
			conf.Width, conf.Height, buf.Width(), buf.Height())
	}

	return nil
}
