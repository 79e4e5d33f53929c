package generate

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"
)

func parseHexToColor(s string) (color.NRGBA, error) {
	var c color.NRGBA
	switch len(s) {
	case 4:
		n, err := fmt.Sscanf(s, "#%1x%1x%1x", &c.R, &c.G, &c.B)
		if err != nil {
			return c, fmt.Errorf("could not read color %q: %w", s, err)
		} else if n < 3 {
			return c, fmt.Errorf("insufficient color fields in %q: %d", s, n)
		}

		c.R |= c.R << 4
		c.G |= c.G << 4
		c.B |= c.B << 4
		c.A = 0xFF
	case 5:
		n, err := fmt.Sscanf(s, "#%1x%1x%1x%1x", &c.R, &c.G, &c.B, &c.A)
		if err != nil {
			return c, fmt.Errorf("could not read color %q: %w", s, err)
		} else if n < 4 {
			return c, fmt.Errorf("insufficient color fields in %q: %d", s, n)
		}

		c.R |= c.R << 4
		c.G |= c.G << 4
		c.B |= c.B << 4
		c.A |= c.A << 4
	case 7:
		n, err := fmt.Sscanf(s, "#%2x%2x%2x", &c.R, &c.G, &c.B)
		if err != nil {
			return c, fmt.Errorf("could not read color %q: %w", s, err)
		} else if n < 3 {
			return c, fmt.Errorf("insufficient color fields in %q: %d", s, n)
		}

		c.A = 0xFF
	case 9:
		n, err := fmt.Sscanf(s, "#%2x%2x%2x%2x", &c.R, &c.G, &c.B, &c.A)
		if err != nil {
			return c, fmt.Errorf("could not read color %q: %w", s, err)
		} else if n < 4 {
			return c, fmt.Errorf("insufficient color fields in %q: %d", s, n)
		}
	default:
		return c, fmt.Errorf("invalid color %q, should be #RGB, #RGBA, #RRGGBB or #RRGGBBAA", s)
	}

	return c, nil
}

// region is a --fill argument: x,y,w,h,#color. Rect uses the bottom-up
// coordinates of the raster buffer.
type region struct {
	Rect  image.Rectangle
	Color color.NRGBA
}

func parseRegion(s string) (region, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 5 {
		return region{}, fmt.Errorf("invalid region %q, should be x,y,w,h,#color", s)
	}

	var v [4]int
	for i := range v {
		n, err := strconv.Atoi(strings.TrimSpace(fields[i]))
		if err != nil {
			return region{}, fmt.Errorf("invalid region %q: %w", s, err)
		} else if n < 0 || n > math.MaxInt32 {
			return region{}, fmt.Errorf("invalid region %q: value %d out of range", s, n)
		}
		v[i] = n
	}

	c, err := parseHexToColor(strings.TrimSpace(fields[4]))
	if err != nil {
		return region{}, fmt.Errorf("invalid region %q: %w", s, err)
	}

	x, y, w, h := v[0], v[1], v[2], v[3]
	return region{Rect: image.Rect(x, y, x+w, y+h), Color: c}, nil
}
