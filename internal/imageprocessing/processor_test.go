package imageprocessing

import (
	"errors"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestProcessExample(t *testing.T) {
	src := uniformRaster(t, 2, 2, color.NRGBA{128, 128, 128, 255})
	options := DitherOptions{Algorithm: AlgorithmFloydSteinberg, ColorCount: 2, Contrast: 1.0, Brightness: 0.0}

	out, err := Process(src, options)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	want := []uint8{
		255, 255, 255, 255, 0, 0, 0, 255,
		0, 0, 0, 255, 255, 255, 255, 255,
	}
	if diff := cmp.Diff(want, out.Pix); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestProcessAppliesToneFirst(t *testing.T) {
	src := patternRaster(t, 20, 12)
	options := DitherOptions{Algorithm: AlgorithmAtkinson, ColorCount: 3, Contrast: 1.4, Brightness: -15}

	got, err := Process(src, options)
	if err != nil {
		t.Fatal(err)
	}
	palette, _ := GeneratePalette(3)
	want := Atkinson(AdjustTone(src, 1.4, -15), palette)
	if diff := cmp.Diff(want.Pix, got.Pix); diff != "" {
		t.Error("Process differs from AdjustTone followed by Atkinson")
	}
}

func TestProcessErrors(t *testing.T) {
	good := uniformRaster(t, 2, 2, color.NRGBA{1, 2, 3, 255})

	tests := []struct {
		name    string
		src     *Raster
		options DitherOptions
		want    error
	}{
		{"nil raster", nil, DefaultDitherOptions(), ErrInvalidInput},
		{"short buffer", &Raster{Width: 2, Height: 2, Pix: make([]uint8, 15)}, DefaultDitherOptions(), ErrInvalidInput},
		{"zero width", &Raster{Width: 0, Height: 2}, DefaultDitherOptions(), ErrInvalidInput},
		{"one color", good, DitherOptions{ColorCount: 1, Contrast: 1}, ErrInvalidConfiguration},
		{"zero colors", good, DitherOptions{}, ErrInvalidConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Process(tt.src, tt.options); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestProcessIsIdempotentFromSource(t *testing.T) {
	src := patternRaster(t, 33, 21)
	before := src.Clone()

	for _, algorithm := range Algorithms() {
		options := DitherOptions{Algorithm: algorithm, ColorCount: 4, Contrast: 1.2, Brightness: 5}
		first, err := Process(src, options)
		if err != nil {
			t.Fatal(err)
		}
		second, err := Process(src, options)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(first.Pix, second.Pix); diff != "" {
			t.Errorf("%s: second run differs from first", algorithm)
		}
	}

	if diff := cmp.Diff(before.Pix, src.Pix); diff != "" {
		t.Error("Process modified its source")
	}
}

func TestCoordinatorNoImage(t *testing.T) {
	c := NewCoordinator(0, 0)

	if _, err := c.Apply(DefaultDitherOptions()); !errors.Is(err, ErrNoImage) {
		t.Errorf("Apply before Load: err = %v, want ErrNoImage", err)
	}
	if _, err := c.Latest(); !errors.Is(err, ErrNoImage) {
		t.Errorf("Latest before Load: err = %v, want ErrNoImage", err)
	}
	if _, _, err := c.Source(); !errors.Is(err, ErrNoImage) {
		t.Errorf("Source before Load: err = %v, want ErrNoImage", err)
	}
}

func TestCoordinatorLoadRejectsInvalidRaster(t *testing.T) {
	c := NewCoordinator(10, 10)
	if err := c.Load(&Raster{Width: 3, Height: 3, Pix: make([]uint8, 4)}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestCoordinatorReprocessesFromSource(t *testing.T) {
	src := patternRaster(t, 120, 60)
	c := NewCoordinator(40, 30)
	if err := c.Load(src); err != nil {
		t.Fatal(err)
	}

	// Loading copies the source, so the caller may reuse its buffer
	src.Fill(color.NRGBA{})
	original := patternRaster(t, 120, 60)

	if _, err := c.Latest(); !errors.Is(err, ErrNoResult) {
		t.Errorf("Latest before Apply: err = %v, want ErrNoResult", err)
	}

	first := DitherOptions{Algorithm: AlgorithmOrdered, ColorCount: 2, Contrast: 1.5, Brightness: 10}
	if _, err := c.Apply(first); err != nil {
		t.Fatal(err)
	}

	second := DitherOptions{Algorithm: AlgorithmFloydSteinberg, ColorCount: 4, Contrast: 0.8, Brightness: -10}
	result, err := c.Apply(second)
	if err != nil {
		t.Fatal(err)
	}

	want, err := Process(original, second)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want.Pix, result.Full.Pix); diff != "" {
		t.Error("full-size result depends on earlier options")
	}

	_, preview, err := c.Source()
	if err != nil {
		t.Fatal(err)
	}
	if preview.Width != 40 || preview.Height != 20 {
		t.Errorf("preview = %dx%d, want 40x20", preview.Width, preview.Height)
	}
	wantPreview, err := Process(preview, second)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(wantPreview.Pix, result.Preview.Pix); diff != "" {
		t.Error("preview result depends on earlier options")
	}

	if result.Options != second || len(result.Palette) != 4 {
		t.Errorf("result metadata = %+v / %d colors", result.Options, len(result.Palette))
	}
	if c.Options() != second {
		t.Errorf("Options() = %+v, want %+v", c.Options(), second)
	}

	latest, err := c.Latest()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(result, latest); diff != "" {
		t.Errorf("Latest mismatch (-apply +latest):\n%s", diff)
	}
}

func TestCoordinatorLatestIsACopy(t *testing.T) {
	c := NewCoordinator(10, 10)
	if err := c.Load(patternRaster(t, 8, 8)); err != nil {
		t.Fatal(err)
	}
	result, err := c.Apply(DefaultDitherOptions())
	if err != nil {
		t.Fatal(err)
	}
	full := result.Full

	result.Full = nil
	result.Options.ColorCount = 99

	latest, err := c.Latest()
	if err != nil {
		t.Fatal(err)
	}
	if latest.Full != full || latest.Options.ColorCount != DefaultColorCount {
		t.Error("changing a returned result altered the stored one")
	}

	latest.Preview = nil
	again, _ := c.Latest()
	if again.Preview == nil {
		t.Error("changing the result from Latest altered the stored one")
	}
}

func TestCoordinatorApplyInvalidKeepsLatest(t *testing.T) {
	c := NewCoordinator(10, 10)
	if err := c.Load(patternRaster(t, 8, 8)); err != nil {
		t.Fatal(err)
	}
	result, err := c.Apply(DefaultDitherOptions())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.Apply(DitherOptions{ColorCount: 1}); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("err = %v, want ErrInvalidConfiguration", err)
	}
	if latest, _ := c.Latest(); latest.Full != result.Full || latest.Options != result.Options {
		t.Error("invalid options replaced the latest result")
	}
}

func TestCoordinatorReset(t *testing.T) {
	c := NewCoordinator(10, 10)
	if err := c.Load(patternRaster(t, 8, 8)); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Apply(DitherOptions{Algorithm: AlgorithmBayer, ColorCount: 8, Contrast: 2}); err != nil {
		t.Fatal(err)
	}

	c.Reset()

	if c.Options() != DefaultDitherOptions() {
		t.Errorf("Options after reset = %+v", c.Options())
	}
	if _, err := c.Latest(); !errors.Is(err, ErrNoResult) {
		t.Errorf("Latest after reset: err = %v, want ErrNoResult", err)
	}
	if _, _, err := c.Source(); err != nil {
		t.Errorf("source dropped by reset: %v", err)
	}
}

func TestCoordinatorLoadDropsResult(t *testing.T) {
	c := NewCoordinator(10, 10)
	if err := c.Load(patternRaster(t, 8, 8)); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Apply(DefaultDitherOptions()); err != nil {
		t.Fatal(err)
	}
	if err := c.Load(patternRaster(t, 4, 4)); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Latest(); !errors.Is(err, ErrNoResult) {
		t.Errorf("err = %v, want ErrNoResult", err)
	}
}
