package imageprocessing

import (
	"fmt"
	"image/color"
	"math"
)

// Gray is a palette entry. All three channels hold the same value.
type Gray struct {
	R, G, B uint8
}

// Palette is an ordered, immutable set of output colors
type Palette []Gray

// GeneratePalette creates colorCount evenly distributed grayscale levels from black to white
func GeneratePalette(colorCount int) (Palette, error) {
	if colorCount < MinColorCount || colorCount > MaxColorCount {
		return nil, fmt.Errorf("%w: cannot build a palette of %d colors", ErrInvalidConfiguration, colorCount)
	}

	palette := make(Palette, colorCount)
	step := 255.0 / float64(colorCount-1)
	for i := range palette {
		value := uint8(math.Round(float64(i) * step))
		palette[i] = Gray{R: value, G: value, B: value}
	}
	return palette, nil
}

// ColorPalette adapts the palette for image/color consumers
func (p Palette) ColorPalette() color.Palette {
	out := make(color.Palette, len(p))
	for i, c := range p {
		out[i] = color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
	}
	return out
}

// IndexOf returns the palette index of an exact RGB match, or -1
func (p Palette) IndexOf(r, g, b uint8) int {
	for i, c := range p {
		if c.R == r && c.G == g && c.B == b {
			return i
		}
	}
	return -1
}

// ClosestColor returns the palette entry nearest to (r, g, b) in RGB space and its index.
// Inputs may lie outside [0, 255]. Equidistant entries resolve to the earliest one.
func ClosestColor(r, g, b float64, palette Palette) (Gray, int) {
	best := 0
	bestDistance := math.Inf(1)

	for i, c := range palette {
		dr := r - float64(c.R)
		dg := g - float64(c.G)
		db := b - float64(c.B)
		// Squared distance has the same minimum as the Euclidean distance
		distance := dr*dr + dg*dg + db*db
		if distance < bestDistance {
			bestDistance = distance
			best = i
		}
	}

	return palette[best], best
}
