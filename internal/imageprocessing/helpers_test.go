package imageprocessing

import (
	"image/color"
	"testing"
)

// uniformRaster builds a width x height raster filled with c
func uniformRaster(t *testing.T, width, height int, c color.NRGBA) *Raster {
	t.Helper()
	r, err := NewRaster(width, height)
	if err != nil {
		t.Fatal(err)
	}
	r.Fill(c)
	return r
}

// patternRaster builds a deterministic, varied test image with some translucent pixels
func patternRaster(t *testing.T, width, height int) *Raster {
	t.Helper()
	r, err := NewRaster(width, height)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			a := uint8(255)
			if (x+y)%11 == 0 {
				a = uint8((x * 37) % 256)
			}
			r.Set(x, y, color.NRGBA{
				R: uint8((x * 255) / max(width-1, 1)),
				G: uint8((y * 255) / max(height-1, 1)),
				B: uint8((x*7 + y*13) % 256),
				A: a,
			})
		}
	}
	return r
}

func grayRow(r *Raster, y int) []uint8 {
	row := make([]uint8, r.Width)
	for x := range row {
		row[x] = r.At(x, y).R
	}
	return row
}

func assertPaletteOnly(t *testing.T, r *Raster, palette Palette) {
	t.Helper()
	for i := 0; i < len(r.Pix); i += 4 {
		if palette.IndexOf(r.Pix[i], r.Pix[i+1], r.Pix[i+2]) < 0 {
			t.Fatalf("pixel %d = (%d,%d,%d) is not in the palette", i/4, r.Pix[i], r.Pix[i+1], r.Pix[i+2])
		}
	}
}

func assertAlphaPreserved(t *testing.T, src, dst *Raster) {
	t.Helper()
	for i := 3; i < len(src.Pix); i += 4 {
		if src.Pix[i] != dst.Pix[i] {
			t.Fatalf("alpha of pixel %d changed from %d to %d", i/4, src.Pix[i], dst.Pix[i])
		}
	}
}
