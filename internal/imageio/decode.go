package imageio

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"mime"
	"strings"

	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/webp" // Register WebP decoder

	"github.com/rmitchellscott/ditherlab/internal/imageprocessing"
)

// Decode reads an uploaded image into a raster. contentType may be empty; when set it must be image/*.
// Images with more than maxPixels pixels are rejected from their header before any pixel data is
// decoded; maxPixels <= 0 disables the check. The decoded format name is returned alongside the raster.
func Decode(r io.Reader, contentType string, maxPixels int) (*imageprocessing.Raster, string, error) {
	if err := checkContentType(contentType); err != nil {
		return nil, "", err
	}

	var header bytes.Buffer
	cfg, _, err := image.DecodeConfig(io.TeeReader(r, &header))
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to decode image: %v", imageprocessing.ErrInvalidInput, err)
	}
	if err := checkPixelCount(cfg.Width, cfg.Height, maxPixels); err != nil {
		return nil, "", err
	}

	img, format, err := image.Decode(io.MultiReader(&header, r))
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to decode image: %v", imageprocessing.ErrInvalidInput, err)
	}

	raster, err := imageprocessing.FromImage(img)
	if err != nil {
		return nil, "", err
	}
	return raster, format, nil
}

// DecodeBytes is Decode over an in-memory buffer
func DecodeBytes(data []byte, contentType string, maxPixels int) (*imageprocessing.Raster, string, error) {
	return Decode(bytes.NewReader(data), contentType, maxPixels)
}

func checkPixelCount(width, height, maxPixels int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: image has no pixels (%dx%d)", imageprocessing.ErrInvalidInput, width, height)
	}
	if maxPixels > 0 && int64(width)*int64(height) > int64(maxPixels) {
		return fmt.Errorf("%w: image is %dx%d, exceeding the limit of %d pixels",
			imageprocessing.ErrInvalidInput, width, height, maxPixels)
	}
	return nil
}

func checkContentType(contentType string) error {
	if contentType == "" {
		return nil
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return fmt.Errorf("%w: unreadable content type %q", imageprocessing.ErrInvalidInput, contentType)
	}
	if !strings.HasPrefix(mediaType, "image/") {
		return fmt.Errorf("%w: expected an image, got %s", imageprocessing.ErrInvalidInput, mediaType)
	}
	return nil
}
