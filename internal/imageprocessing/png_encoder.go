package imageprocessing

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"image/png"

	"github.com/klauspost/compress/zlib"
)

// EncodePNG encodes a dithered raster for download. Opaque images whose pixels all come from a
// 2, 4, 16 or 256 level palette are written as packed grayscale; anything else falls back to RGBA.
func EncodePNG(r *Raster, palette Palette) ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	if bitDepth, ok := bitDepthForColors(len(palette)); ok && r.IsOpaque() {
		indices, ok := paletteIndices(r, palette)
		if ok {
			return encodeGrayscalePNG(r.Width, r.Height, indices, bitDepth)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, r.Image()); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// bitDepthForColors maps a palette size to a PNG grayscale bit depth
func bitDepthForColors(colors int) (int, bool) {
	switch colors {
	case 2:
		return 1, true
	case 4:
		return 2, true
	case 16:
		return 4, true
	case 256:
		return 8, true
	default:
		return 0, false
	}
}

// paletteIndices resolves every pixel to its palette index. It fails if any pixel is off-palette.
func paletteIndices(r *Raster, palette Palette) ([]uint8, bool) {
	indices := make([]uint8, r.Width*r.Height)
	for i := range indices {
		p := i * 4
		idx := palette.IndexOf(r.Pix[p], r.Pix[p+1], r.Pix[p+2])
		if idx < 0 {
			return nil, false
		}
		indices[i] = uint8(idx)
	}
	return indices, true
}

// encodeGrayscalePNG writes PNG color type 0 at the given bit depth.
// An evenly spaced palette of 2^bitDepth levels matches the PNG sample scale, so the palette index is the sample.
func encodeGrayscalePNG(width, height int, indices []uint8, bitDepth int) ([]byte, error) {
	var buf bytes.Buffer

	// PNG signature
	buf.Write([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A})

	writeChunk(&buf, "IHDR", func(data *bytes.Buffer) {
		binary.Write(data, binary.BigEndian, uint32(width))
		binary.Write(data, binary.BigEndian, uint32(height))
		data.WriteByte(uint8(bitDepth))
		data.WriteByte(0) // Color type: Grayscale
		data.WriteByte(0) // Compression method
		data.WriteByte(0) // Filter method
		data.WriteByte(0) // Interlace method
	})

	imageData := packGrayscaleRows(width, height, indices, bitDepth)

	compressedData, err := zlibCompress(imageData)
	if err != nil {
		return nil, fmt.Errorf("failed to compress image data: %w", err)
	}

	writeChunk(&buf, "IDAT", func(data *bytes.Buffer) {
		data.Write(compressedData)
	})

	writeChunk(&buf, "IEND", func(data *bytes.Buffer) {})

	return buf.Bytes(), nil
}

// packGrayscaleRows packs samples MSB-first with a leading filter byte per row
func packGrayscaleRows(width, height int, indices []uint8, bitDepth int) []byte {
	pixelsPerByte := 8 / bitDepth
	bytesPerRow := (width + pixelsPerByte - 1) / pixelsPerByte

	data := make([]byte, height*(bytesPerRow+1))

	for y := 0; y < height; y++ {
		rowStart := y * (bytesPerRow + 1)
		data[rowStart] = 0 // Filter type: None

		for x := 0; x < width; x++ {
			level := indices[y*width+x]
			byteIndex := rowStart + 1 + x/pixelsPerByte
			bitOffset := (pixelsPerByte - 1 - (x % pixelsPerByte)) * bitDepth
			data[byteIndex] |= level << bitOffset
		}
	}

	return data
}

// writeChunk writes a PNG chunk with proper CRC
func writeChunk(buf *bytes.Buffer, chunkType string, dataWriter func(*bytes.Buffer)) {
	var chunkData bytes.Buffer
	dataWriter(&chunkData)

	data := chunkData.Bytes()

	binary.Write(buf, binary.BigEndian, uint32(len(data)))
	buf.WriteString(chunkType)
	buf.Write(data)

	crc := crc32.NewIEEE()
	crc.Write([]byte(chunkType))
	crc.Write(data)
	binary.Write(buf, binary.BigEndian, crc.Sum32())
}

// zlibCompress compresses data at best compression
func zlibCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	writer, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("failed to create zlib writer: %w", err)
	}

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return nil, fmt.Errorf("failed to write data: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close zlib writer: %w", err)
	}

	return buf.Bytes(), nil
}
