package fractal

import (
	"image/color"
	"math/cmplx"

	"bmpgen/parallel"
	"bmpgen/raster"
)

const DefaultMaxIterations = 34

// Mandelbrot paints the escape-time classification of every pixel of a
// buffer. Pixel (i, j) maps to c = (i/width - 1.5) + (j/height - 0.5)i, so
// the view covers re [-1.5, -0.5), im [-0.5, 0.5) with row 0 at the bottom.
type Mandelbrot struct {
	// MaxIterations caps the iteration count, DefaultMaxIterations if < 1.
	MaxIterations int
	// Workers is the number of goroutines Render uses, GOMAXPROCS if < 1.
	Workers int
}

// Escape iterates z = z*z + c from z = 0 while |z| < 2 and n <= maxIter and
// returns the number of iterations done. Points that never escape return
// maxIter+1.
func Escape(c complex128, maxIter int) int {
	var z complex128
	n := 0
	for cmplx.Abs(z) < 2 && n <= maxIter {
		z = z*z + c
		n++
	}
	return n
}

func (m Mandelbrot) maxIterations() int {
	if m.MaxIterations < 1 {
		return DefaultMaxIterations
	}
	return m.MaxIterations
}

// Render overwrites every pixel of buf: points escaping before
// MaxIterations get c, the others (0, 0, 0, 0).
func (m Mandelbrot) Render(buf *raster.Buffer, c color.NRGBA) {
	pool := parallel.Start(m.Workers)
	defer pool.Wait(true)

	m.Draw(buf, c, pool.Do)
}

// Draw is Render on a caller owned pool. It returns once every row is done
// and leaves the pool open.
func (m Mandelbrot) Draw(buf *raster.Buffer, c color.NRGBA, worker parallel.WorkerFunc) {
	maxIter := m.maxIterations()
	w, h := float64(buf.Width()), float64(buf.Height())

	// rows do not share samples, so workers never touch the same bytes
	parallel.Each(worker, buf.Height(), func(j int) {
		im := float64(j)/h - 0.5
		for i := range buf.Width() {
			p := complex(float64(i)/w-1.5, im)
			if Escape(p, maxIter) < maxIter {
				buf.SetNRGBA(i, j, c)
			} else {
				buf.SetNRGBA(i, j, color.NRGBA{})
			}
		}
	})
}

// Render draws the Mandelbrot set into buf with the default settings.
func Render(buf *raster.Buffer, c color.NRGBA) {
	Mandelbrot{}.Render(buf, c)
}
