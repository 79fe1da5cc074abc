package imageprocessing

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"
)

func TestEncodePNGPackedGrayscale(t *testing.T) {
	for _, tt := range []struct {
		colors   int
		bitDepth byte
	}{
		{2, 1},
		{4, 2},
		{16, 4},
		{256, 8},
	} {
		palette, _ := GeneratePalette(tt.colors)
		src := patternRaster(t, 13, 7)
		for i := 3; i < len(src.Pix); i += 4 {
			src.Pix[i] = 255
		}
		dithered := Ordered(src, palette)

		data, err := EncodePNG(dithered, palette)
		if err != nil {
			t.Fatalf("colors=%d: EncodePNG: %v", tt.colors, err)
		}
		// IHDR bit depth sits after the signature, chunk header, width and height
		if data[24] != tt.bitDepth || data[25] != 0 {
			t.Errorf("colors=%d: bit depth %d color type %d, want %d grayscale", tt.colors, data[24], data[25], tt.bitDepth)
		}

		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("colors=%d: decode: %v", tt.colors, err)
		}
		for y := 0; y < dithered.Height; y++ {
			for x := 0; x < dithered.Width; x++ {
				got := color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y
				if want := dithered.At(x, y).R; got != want {
					t.Fatalf("colors=%d: pixel (%d,%d) = %d, want %d", tt.colors, x, y, got, want)
				}
			}
		}
	}
}

func TestEncodePNGFallsBackToRGBA(t *testing.T) {
	tests := []struct {
		name   string
		colors int
		alpha  bool
	}{
		{"palette size without bit depth", 3, false},
		{"translucent pixels", 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			palette, _ := GeneratePalette(tt.colors)
			src := patternRaster(t, 9, 9)
			if !tt.alpha {
				for i := 3; i < len(src.Pix); i += 4 {
					src.Pix[i] = 255
				}
			}
			dithered := FloydSteinberg(src, palette)

			data, err := EncodePNG(dithered, palette)
			if err != nil {
				t.Fatal(err)
			}
			if data[25] == 0 {
				t.Fatal("expected a color PNG, got grayscale")
			}

			img, err := png.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatal(err)
			}
			for y := 0; y < dithered.Height; y++ {
				for x := 0; x < dithered.Width; x++ {
					got := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
					want := dithered.At(x, y)
					if want.A == 0 {
						continue
					}
					if got != want {
						t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
					}
				}
			}
		})
	}
}

func TestEncodePNGRejectsInvalidRaster(t *testing.T) {
	palette, _ := GeneratePalette(2)
	if _, err := EncodePNG(&Raster{Width: 1, Height: 1}, palette); err == nil {
		t.Error("expected an error for an empty buffer")
	}
}
