package imageprocessing

import "math"

// AdjustTone applies contrast around mid-gray and then a brightness offset to R, G and B.
// Alpha is copied unchanged. Out-of-range results are clamped, never rejected.
func AdjustTone(src *Raster, contrast, brightness float64) *Raster {
	if math.IsNaN(contrast) {
		contrast = DefaultContrast
	}
	if math.IsNaN(brightness) {
		brightness = DefaultBrightness
	}

	dst := &Raster{Width: src.Width, Height: src.Height, Pix: make([]uint8, len(src.Pix))}
	for i := 0; i < len(src.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			v := clampChannel((float64(src.Pix[i+c])-128)*contrast + 128)
			dst.Pix[i+c] = storeChannel(v + brightness)
		}
		dst.Pix[i+3] = src.Pix[i+3]
	}
	return dst
}

// clampChannel limits v to [0, 255]. NaN maps to 0.
func clampChannel(v float64) float64 {
	switch {
	case v > 255:
		return 255
	case v >= 0:
		return v
	default:
		return 0
	}
}

// storeChannel clamps v and rounds half to even, the way a clamped byte canvas buffer stores floats
func storeChannel(v float64) uint8 {
	return uint8(math.RoundToEven(clampChannel(v)))
}
