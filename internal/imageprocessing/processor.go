package imageprocessing

import (
	"fmt"
	"sync"
	"time"

	"github.com/rmitchellscott/ditherlab/internal/logging"
)

const (
	DefaultPreviewWidth  = 400
	DefaultPreviewHeight = 300
)

// Process applies the full pipeline to src: tone adjustment, palette generation, then dithering.
// src is never modified.
func Process(src *Raster, options DitherOptions) (*Raster, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	options = options.Normalize()
	if err := options.Validate(); err != nil {
		return nil, err
	}

	palette, err := GeneratePalette(options.ColorCount)
	if err != nil {
		return nil, err
	}

	adjusted := AdjustTone(src, options.Contrast, options.Brightness)
	return Dither(adjusted, palette, options.Algorithm), nil
}

// Result is the output of one Coordinator run
type Result struct {
	Preview *Raster
	Full    *Raster
	Options DitherOptions
	Palette Palette
	Elapsed time.Duration
}

func (r *Result) copy() *Result {
	out := *r
	return &out
}

// Coordinator keeps a loaded source image and re-runs the pipeline over a preview-sized copy
// and the full-size original whenever the options change
type Coordinator struct {
	mu sync.Mutex

	previewWidth  int
	previewHeight int

	source  *Raster
	preview *Raster
	options DitherOptions
	latest  *Result
}

// NewCoordinator creates a coordinator whose previews fit within previewWidth x previewHeight
func NewCoordinator(previewWidth, previewHeight int) *Coordinator {
	if previewWidth <= 0 {
		previewWidth = DefaultPreviewWidth
	}
	if previewHeight <= 0 {
		previewHeight = DefaultPreviewHeight
	}
	return &Coordinator{
		previewWidth:  previewWidth,
		previewHeight: previewHeight,
		options:       DefaultDitherOptions(),
	}
}

// Load replaces the source image. Any previous result is discarded.
func (c *Coordinator) Load(src *Raster) error {
	if err := src.Validate(); err != nil {
		return err
	}

	source := src.Clone()
	preview := ResizeToFit(source, c.previewWidth, c.previewHeight)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.source = source
	c.preview = preview
	c.latest = nil
	return nil
}

// Apply reprocesses the preview and the full-size image from the untouched source.
// The returned result shares its pixel buffers with the coordinator, see Latest.
func (c *Coordinator) Apply(options DitherOptions) (*Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.source == nil {
		return nil, ErrNoImage
	}

	options = options.Normalize()
	if err := options.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()

	full, err := Process(c.source, options)
	if err != nil {
		return nil, fmt.Errorf("failed to process full-size image: %w", err)
	}
	preview, err := Process(c.preview, options)
	if err != nil {
		return nil, fmt.Errorf("failed to process preview image: %w", err)
	}
	palette, err := GeneratePalette(options.ColorCount)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Preview: preview,
		Full:    full,
		Options: options,
		Palette: palette,
		Elapsed: time.Since(start),
	}
	c.options = options
	c.latest = result.copy()

	logging.DebugWithComponent(logging.ComponentPipeline, "Processed image",
		"algorithm", options.Algorithm,
		"colors", options.ColorCount,
		"width", full.Width,
		"height", full.Height,
		"elapsed", result.Elapsed)

	return result, nil
}

// Latest returns a copy of the most recent result. The Preview and Full rasters and the
// Palette are shared with the coordinator; callers must not modify them.
func (c *Coordinator) Latest() (*Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.source == nil {
		return nil, ErrNoImage
	}
	if c.latest == nil {
		return nil, ErrNoResult
	}
	return c.latest.copy(), nil
}

// Reset restores the default options and clears the result. The source stays loaded.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.options = DefaultDitherOptions()
	c.latest = nil
}

// Options returns the options used by the latest Apply, or the defaults
func (c *Coordinator) Options() DitherOptions {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.options
}

// Source returns the loaded image and its preview-sized copy. Callers must not modify them.
func (c *Coordinator) Source() (source, preview *Raster, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.source == nil {
		return nil, nil, ErrNoImage
	}
	return c.source, c.preview, nil
}
