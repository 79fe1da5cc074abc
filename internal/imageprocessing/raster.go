package imageprocessing

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// Raster is a decoded image held as a flat, non-premultiplied RGBA buffer.
// len(Pix) is always Width*Height*4.
type Raster struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewRaster allocates a zeroed raster of the given size
func NewRaster(width, height int) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidInput, width, height)
	}
	return &Raster{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}, nil
}

// Validate checks the size invariant of the raster
func (r *Raster) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: raster is nil", ErrInvalidInput)
	}
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidInput, r.Width, r.Height)
	}
	if len(r.Pix) != r.Width*r.Height*4 {
		return fmt.Errorf("%w: buffer holds %d bytes, want %d", ErrInvalidInput, len(r.Pix), r.Width*r.Height*4)
	}
	return nil
}

// Clone returns a deep copy so the caller owns its own buffer
func (r *Raster) Clone() *Raster {
	pix := make([]uint8, len(r.Pix))
	copy(pix, r.Pix)
	return &Raster{Width: r.Width, Height: r.Height, Pix: pix}
}

// offset returns the index of the R channel of pixel (x, y)
func (r *Raster) offset(x, y int) int {
	return (y*r.Width + x) * 4
}

// At returns the pixel at (x, y)
func (r *Raster) At(x, y int) color.NRGBA {
	i := r.offset(x, y)
	return color.NRGBA{R: r.Pix[i], G: r.Pix[i+1], B: r.Pix[i+2], A: r.Pix[i+3]}
}

// Set writes the pixel at (x, y)
func (r *Raster) Set(x, y int, c color.NRGBA) {
	i := r.offset(x, y)
	r.Pix[i] = c.R
	r.Pix[i+1] = c.G
	r.Pix[i+2] = c.B
	r.Pix[i+3] = c.A
}

// Fill sets every pixel to c
func (r *Raster) Fill(c color.NRGBA) {
	for i := 0; i < len(r.Pix); i += 4 {
		r.Pix[i] = c.R
		r.Pix[i+1] = c.G
		r.Pix[i+2] = c.B
		r.Pix[i+3] = c.A
	}
}

// IsOpaque reports whether every pixel has full alpha
func (r *Raster) IsOpaque() bool {
	for i := 3; i < len(r.Pix); i += 4 {
		if r.Pix[i] != 0xff {
			return false
		}
	}
	return true
}

// FromImage converts any image to a raster anchored at the origin
func FromImage(img image.Image) (*Raster, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: image is nil", ErrInvalidInput)
	}

	nrgba := ToNRGBA(img)
	bounds := nrgba.Bounds()
	r, err := NewRaster(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}

	rowBytes := r.Width * 4
	for y := 0; y < r.Height; y++ {
		srcStart := y * nrgba.Stride
		copy(r.Pix[y*rowBytes:(y+1)*rowBytes], nrgba.Pix[srcStart:srcStart+rowBytes])
	}
	return r, nil
}

// ToNRGBA converts any image to a non-premultiplied RGBA image with bounds starting at (0, 0)
func ToNRGBA(img image.Image) *image.NRGBA {
	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Bounds().Min == (image.Point{}) {
		return nrgba
	}

	bounds := img.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)
	return nrgba
}

// Image wraps a copy of the raster as an *image.NRGBA for encoders and drawers
func (r *Raster) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, r.Width, r.Height))
	copy(img.Pix, r.Pix)
	return img
}
