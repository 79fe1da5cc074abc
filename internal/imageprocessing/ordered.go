package imageprocessing

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// thresholdMap is the 4x4 matrix shared by the ordered and Bayer algorithms
var thresholdMap = [4][4]float64{
	{0, 8, 2, 10},
	{12, 4, 14, 6},
	{3, 11, 1, 9},
	{15, 7, 13, 5},
}

const thresholdScale = 16

// minRowsPerBand keeps small images on a single goroutine
const minRowsPerBand = 64

// Ordered quantizes src against the 4x4 threshold map
func Ordered(src *Raster, palette Palette) *Raster {
	return thresholdDither(src, palette, bandCount(src.Height))
}

// Bayer produces output identical to Ordered; both names are kept for callers that select by name
func Bayer(src *Raster, palette Palette) *Raster {
	return thresholdDither(src, palette, bandCount(src.Height))
}

func bandCount(height int) int {
	bands := height / minRowsPerBand
	if procs := runtime.GOMAXPROCS(0); bands > procs {
		bands = procs
	}
	if bands < 1 {
		bands = 1
	}
	return bands
}

// thresholdDither splits the rows into disjoint bands. No pixel depends on another,
// so the result does not depend on the band count.
func thresholdDither(src *Raster, palette Palette, bands int) *Raster {
	dst := src.Clone()

	rowsPerBand := (dst.Height + bands - 1) / bands
	var g errgroup.Group
	for start := 0; start < dst.Height; start += rowsPerBand {
		end := min(start+rowsPerBand, dst.Height)
		g.Go(func() error {
			thresholdRows(dst, palette, start, end)
			return nil
		})
	}
	// Workers never fail
	_ = g.Wait()

	return dst
}

func thresholdRows(dst *Raster, palette Palette, startY, endY int) {
	data := dst.Pix
	for y := startY; y < endY; y++ {
		for x := 0; x < dst.Width; x++ {
			idx := dst.offset(x, y)
			threshold := thresholdMap[y%4][x%4] * thresholdScale

			closest, _ := ClosestColor(
				float64(data[idx])+threshold,
				float64(data[idx+1])+threshold,
				float64(data[idx+2])+threshold,
				palette,
			)

			data[idx] = closest.R
			data[idx+1] = closest.G
			data[idx+2] = closest.B
		}
	}
}
