package imageprocessing

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// FitDimensions calculates the scaled dimensions that fit within the bounding box while preserving aspect ratio.
// Images smaller than the box are scaled up. Neither result drops below 1.
func FitDimensions(srcWidth, srcHeight, maxWidth, maxHeight int) (int, int) {
	scaleX := float64(maxWidth) / float64(srcWidth)
	scaleY := float64(maxHeight) / float64(srcHeight)
	scale := scaleX
	if scaleY < scaleX {
		scale = scaleY
	}

	newWidth := int(float64(srcWidth) * scale)
	newHeight := int(float64(srcHeight) * scale)

	return max(newWidth, 1), max(newHeight, 1)
}

// ResizeToFit returns a copy of src scaled to fit within maxWidth x maxHeight
func ResizeToFit(src *Raster, maxWidth, maxHeight int) *Raster {
	width, height := FitDimensions(src.Width, src.Height, maxWidth, maxHeight)
	if width == src.Width && height == src.Height {
		return src.Clone()
	}

	resized := image.NewNRGBA(image.Rect(0, 0, width, height))

	// Use BiLinear interpolation for good quality/speed balance
	xdraw.BiLinear.Scale(resized, resized.Bounds(), src.Image(), image.Rect(0, 0, src.Width, src.Height), xdraw.Src, nil)

	return &Raster{Width: width, Height: height, Pix: resized.Pix}
}
