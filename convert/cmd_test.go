package convert_test

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"bmpgen/convert"
	"bmpgen/parallel"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"
	xbmp "golang.org/x/image/bmp"
)

type testCLI struct {
	Convert convert.CLICmd `cmd:""`
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	var cli testCLI
	parser, err := kong.New(&cli, kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)

	kctx, err := parser.Parse(append([]string{"convert"}, args...))
	if err != nil {
		return err
	}

	pool := parallel.Start(3)
	defer pool.Wait(true)
	return kctx.Run(pool.Do)
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func readBMP(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := xbmp.Decode(f)
	require.NoError(t, err)
	return img
}

func testImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 40), G: uint8(y * 40), B: 7, A: 0xff})
		}
	}
	return img
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	src := testImage(5, 3)
	writePNG(t, filepath.Join(dir, "a.png"), src)
	writePNG(t, filepath.Join(dir, "b.png"), testImage(2, 2))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	require.NoError(t, run(t, "--scan", dir))

	entries, err := os.ReadDir(filepath.Join(dir, "bmp"))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	img := readBMP(t, filepath.Join(dir, "bmp", "a.bmp"))
	require.Equal(t, src.Bounds(), img.Bounds())
	for y := range 3 {
		for x := range 5 {
			require.Equal(t, src.NRGBAAt(x, y), color.NRGBAModel.Convert(img.At(x, y)), "(%d, %d)", x, y)
		}
	}
}

func TestConvertAlpha(t *testing.T) {
	dir := t.TempDir()
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 0xff})
	src.SetNRGBA(1, 0, color.NRGBA{A: 0})
	writePNG(t, filepath.Join(dir, "a.png"), src)

	dest := filepath.Join(t.TempDir(), "out")
	require.NoError(t, run(t, "--scan", dir, "--dest", dest, "--alpha"))

	img := readBMP(t, filepath.Join(dest, "a.bmp"))
	require.Equal(t, color.NRGBA{R: 200, G: 100, B: 50, A: 0xff}, color.NRGBAModel.Convert(img.At(0, 0)))
	require.Equal(t, color.NRGBA{}, color.NRGBAModel.Convert(img.At(1, 0)))
}

func TestConvertResize(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), testImage(8, 4))

	require.NoError(t, run(t, "--scan", dir, "--width", "4"))

	img := readBMP(t, filepath.Join(dir, "bmp", "a.bmp"))
	require.Equal(t, image.Rect(0, 0, 4, 2), img.Bounds())
}

func TestConvertErrors(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), testImage(2, 2))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a picture"), 0o644))

	err := run(t, "--scan", dir)
	require.ErrorContains(t, err, "error processing 1 files")
	_, err = os.Stat(filepath.Join(dir, "bmp", "a.bmp"))
	require.NoError(t, err)

	// a second run refuses to overwrite
	require.NoError(t, os.Remove(filepath.Join(dir, "notes.txt")))
	require.ErrorContains(t, run(t, "--scan", dir), "error processing 1 files")
	require.NoError(t, run(t, "--scan", dir, "--force"))
}

func TestConvertValidation(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.png")
	writePNG(t, file, testImage(1, 1))

	require.Error(t, run(t, "--scan", file))
	require.Error(t, run(t, "--scan", filepath.Join(dir, "missing")))
	require.Error(t, run(t, "--scan", dir, "--width=-1"))
}
