package imageprocessing

import (
	"image"

	"github.com/makeworld-the-better-one/dither/v2"
)

// Dither quantizes src to palette with the selected algorithm.
// Unknown algorithms fall back to Floyd-Steinberg.
func Dither(src *Raster, palette Palette, algorithm Algorithm) *Raster {
	switch ParseAlgorithm(string(algorithm)) {
	case AlgorithmOrdered:
		return Ordered(src, palette)
	case AlgorithmAtkinson:
		return Atkinson(src, palette)
	case AlgorithmBayer:
		return Bayer(src, palette)
	case AlgorithmStucki:
		return DitherWithMatrix(src, palette, dither.Stucki)
	case AlgorithmBurkes:
		return DitherWithMatrix(src, palette, dither.Burkes)
	case AlgorithmSierra:
		return DitherWithMatrix(src, palette, dither.Sierra)
	case AlgorithmSierraLite:
		return DitherWithMatrix(src, palette, dither.SierraLite)
	case AlgorithmJarvisJudiceNinke:
		return DitherWithMatrix(src, palette, dither.JarvisJudiceNinke)
	case AlgorithmClusteredDot:
		return DitherWithMapper(src, palette, dither.PixelMapperFromMatrix(dither.ClusteredDot4x4, 1.0))
	default:
		return FloydSteinberg(src, palette)
	}
}

// DitherWithMatrix applies an error diffusion matrix from the dither library
func DitherWithMatrix(src *Raster, palette Palette, matrix dither.ErrorDiffusionMatrix) *Raster {
	ditherer := dither.NewDitherer(palette.ColorPalette())
	ditherer.Matrix = matrix
	return drawWith(ditherer, src)
}

// DitherWithMapper applies an ordered pixel mapper from the dither library
func DitherWithMapper(src *Raster, palette Palette, mapper dither.PixelMapper) *Raster {
	ditherer := dither.NewDitherer(palette.ColorPalette())
	ditherer.Mapper = mapper
	return drawWith(ditherer, src)
}

// drawWith renders an opaque copy of src through the ditherer into a fresh buffer and restores
// the source alpha afterwards. The library skips fully transparent pixels, leaving their color
// off the palette.
func drawWith(ditherer *dither.Ditherer, src *Raster) *Raster {
	opaque := src.Image()
	for i := 3; i < len(opaque.Pix); i += 4 {
		opaque.Pix[i] = 255
	}

	dst := image.NewNRGBA(image.Rect(0, 0, src.Width, src.Height))
	ditherer.Draw(dst, dst.Bounds(), opaque, image.Point{})

	out := &Raster{Width: src.Width, Height: src.Height, Pix: dst.Pix}
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = src.Pix[i]
	}
	return out
}
