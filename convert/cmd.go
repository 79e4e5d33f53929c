package convert

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"bmpgen/bmpfile"
	"bmpgen/fileop"
	"bmpgen/parallel"
	"bmpgen/raster"

	"github.com/alecthomas/kong"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/vp8l"
	_ "golang.org/x/image/webp"
)

type CLICmd struct {
	Scan   string `help:"Source folder to scan" default:"."`
	Dest   string `help:"Destination folder for bitmaps. Relative to scan dir if not absolute" default:"bmp"`
	Alpha  bool   `help:"Write 32-bit BGRA bitmaps instead of 24-bit BGR ones" default:"false"`
	Width  int    `help:"Resize to this width, 0 to keep the aspect ratio" group:"resize"`
	Height int    `help:"Resize to this height, 0 to keep the aspect ratio" group:"resize"`
	Force  bool   `help:"Overwrite existing bitmaps" default:"false"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	scanDir, err := filepath.Abs(c.Scan)
	var info os.FileInfo
	if err == nil {
		if info, err = os.Stat(scanDir); err == nil && !info.IsDir() {
			err = fmt.Errorf("not a directory")
		}
	}
	if err != nil {
		return fmt.Errorf("invalid scan path %q: %w", c.Scan, err)
	}
	c.Scan = scanDir

	if !filepath.IsAbs(c.Dest) {
		c.Dest = filepath.Join(scanDir, c.Dest)
	}

	switch {
	case c.Width < 0:
		return fmt.Errorf("invalid resize width: %d", c.Width)
	case c.Height < 0:
		return fmt.Errorf("invalid resize height: %d", c.Height)
	}

	return nil
}

func (c *CLICmd) Run(worker parallel.WorkerFunc) error {
	if err := os.MkdirAll(c.Dest, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", c.Dest, err)
	}

	entries, err := os.ReadDir(c.Scan)
	if err != nil {
		return fmt.Errorf("unable to read folder %q: %w", c.Scan, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, e.Name())
		}
	}

	var processedCount, errCount atomic.Uint64
	parallel.Each(worker, len(files), func(i int) {
		filePath := filepath.Join(c.Scan, files[i])
		logger := slog.Default().With("file", filePath)

		if err := c.convert(logger, filePath); err != nil {
			errCount.Add(1)
			logger.Error("could not convert image", "error", err)
			return
		}
		processedCount.Add(1)
	})

	processed := processedCount.Load()
	errors := errCount.Load()
	slog.Info("stats", "processed", processed, "errors", errors,
		"total", processed+errors)

	if errors > 0 {
		return fmt.Errorf("error processing %d files", errors)
	}
	return nil
}

func (c *CLICmd) convert(logger *slog.Logger, filePath string) error {
	name := filepath.Base(filePath)
	dest := filepath.Join(c.Dest, strings.TrimSuffix(name, filepath.Ext(name))+".bmp")
	if !c.Force {
		if err := fileop.CheckDest(dest); err != nil {
			return err
		}
	}

	img, err := decode(filePath)
	if err != nil {
		return err
	}

	var buf *raster.Buffer
	if c.Width > 0 || c.Height > 0 {
		buf, err = resize(logger, img, c.Width, c.Height, c.Alpha)
	} else {
		buf, err = raster.FromImage(img, c.Alpha)
	}
	if err != nil {
		return err
	}

	logger.Info("writing", "to", dest, "bits", buf.BitDepth())
	return bmpfile.WriteFile(dest, buf)
}

func decode(filePath string) (image.Image, error) {
	imgFile, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("could not open image: %w", err)
	}
	defer func() {
		if closeErr := imgFile.Close(); closeErr != nil {
			slog.Error("could not close image", "file", filePath, "error", closeErr)
		}
	}()

	img, _, err := image.Decode(imgFile)
	if err != nil {
		return nil, fmt.Errorf("could not decode image: %w", err)
	}
	return img, nil
}
