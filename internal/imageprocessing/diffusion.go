package imageprocessing

// diffusionWeight sends weight of a pixel's quantization error to the neighbor at (dx, dy)
type diffusionWeight struct {
	dx, dy int
	weight float64
}

// diffusionKernel only references pixels later in scan order
type diffusionKernel []diffusionWeight

var floydSteinbergKernel = diffusionKernel{
	{dx: 1, dy: 0, weight: 7.0 / 16},
	{dx: -1, dy: 1, weight: 3.0 / 16},
	{dx: 0, dy: 1, weight: 5.0 / 16},
	{dx: 1, dy: 1, weight: 1.0 / 16},
}

// atkinsonKernel propagates 6/8 of the error; the remaining 2/8 is dropped
var atkinsonKernel = diffusionKernel{
	{dx: 1, dy: 0, weight: 1.0 / 8},
	{dx: 2, dy: 0, weight: 1.0 / 8},
	{dx: -1, dy: 1, weight: 1.0 / 8},
	{dx: 0, dy: 1, weight: 1.0 / 8},
	{dx: 1, dy: 1, weight: 1.0 / 8},
	{dx: 0, dy: 2, weight: 1.0 / 8},
}

// totalWeight is the fraction of each pixel's error the kernel carries forward
func (k diffusionKernel) totalWeight() float64 {
	var sum float64
	for _, w := range k {
		sum += w.weight
	}
	return sum
}

// FloydSteinberg quantizes src with Floyd-Steinberg error diffusion
func FloydSteinberg(src *Raster, palette Palette) *Raster {
	return diffuse(src, palette, floydSteinbergKernel)
}

// Atkinson quantizes src with Atkinson error diffusion
func Atkinson(src *Raster, palette Palette) *Raster {
	return diffuse(src, palette, atkinsonKernel)
}

// diffuse runs error diffusion over a private working copy of src. Error is written into
// pixels that have not been visited yet, so the scan must stay sequential.
func diffuse(src *Raster, palette Palette, kernel diffusionKernel) *Raster {
	work := src.Clone()
	data := work.Pix

	for y := 0; y < work.Height; y++ {
		for x := 0; x < work.Width; x++ {
			idx := work.offset(x, y)
			r := float64(data[idx])
			g := float64(data[idx+1])
			b := float64(data[idx+2])

			closest, _ := ClosestColor(r, g, b, palette)
			errR := r - float64(closest.R)
			errG := g - float64(closest.G)
			errB := b - float64(closest.B)

			data[idx] = closest.R
			data[idx+1] = closest.G
			data[idx+2] = closest.B

			for _, w := range kernel {
				nx, ny := x+w.dx, y+w.dy
				if nx < 0 || nx >= work.Width || ny < 0 || ny >= work.Height {
					continue
				}
				n := work.offset(nx, ny)
				data[n] = storeChannel(float64(data[n]) + errR*w.weight)
				data[n+1] = storeChannel(float64(data[n+1]) + errG*w.weight)
				data[n+2] = storeChannel(float64(data[n+2]) + errB*w.weight)
			}
		}
	}

	return work
}
