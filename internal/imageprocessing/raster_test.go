package imageprocessing

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewRaster(t *testing.T) {
	r, err := NewRaster(3, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Pix) != 3*2*4 {
		t.Errorf("len(Pix) = %d, want 24", len(r.Pix))
	}
	if err := r.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	for _, dims := range [][2]int{{0, 1}, {1, 0}, {-4, 4}} {
		if _, err := NewRaster(dims[0], dims[1]); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("NewRaster(%d, %d): err = %v, want ErrInvalidInput", dims[0], dims[1], err)
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	r := uniformRaster(t, 2, 2, color.NRGBA{1, 2, 3, 4})
	c := r.Clone()
	c.Pix[0] = 99
	if r.Pix[0] != 1 {
		t.Error("Clone shares its buffer with the original")
	}
}

func TestFromImage(t *testing.T) {
	// Non-zero origin and a premultiplied source
	img := image.NewRGBA(image.Rect(5, 5, 8, 7))
	img.SetRGBA(5, 5, color.RGBA{R: 100, G: 50, B: 0, A: 255})
	img.SetRGBA(7, 6, color.RGBA{R: 64, G: 32, B: 0, A: 128})

	r, err := FromImage(img)
	if err != nil {
		t.Fatal(err)
	}
	if r.Width != 3 || r.Height != 2 {
		t.Fatalf("size = %dx%d, want 3x2", r.Width, r.Height)
	}
	if got := r.At(0, 0); got != (color.NRGBA{100, 50, 0, 255}) {
		t.Errorf("pixel (0,0) = %v", got)
	}
	if got := r.At(2, 1); got != (color.NRGBA{127, 63, 0, 128}) {
		t.Errorf("pixel (2,1) = %v, want un-premultiplied", got)
	}

	if diff := cmp.Diff(r.Pix, FromImageMust(t, r.Image()).Pix); diff != "" {
		t.Errorf("Image round trip mismatch:\n%s", diff)
	}

	if _, err := FromImage(nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("FromImage(nil): err = %v, want ErrInvalidInput", err)
	}
}

func FromImageMust(t *testing.T, img image.Image) *Raster {
	t.Helper()
	r, err := FromImage(img)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestIsOpaque(t *testing.T) {
	r := uniformRaster(t, 2, 2, color.NRGBA{0, 0, 0, 255})
	if !r.IsOpaque() {
		t.Error("opaque raster reported translucent")
	}
	r.Pix[7] = 254
	if r.IsOpaque() {
		t.Error("translucent raster reported opaque")
	}
}
