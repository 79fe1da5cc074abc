package imageprocessing

import (
	"fmt"
	"strings"
)

// Algorithm names a quantization strategy
type Algorithm string

const (
	AlgorithmFloydSteinberg Algorithm = "floyd-steinberg"
	AlgorithmAtkinson       Algorithm = "atkinson"
	AlgorithmOrdered        Algorithm = "ordered"
	AlgorithmBayer          Algorithm = "bayer"

	// Kernels provided by the dither library
	AlgorithmStucki            Algorithm = "stucki"
	AlgorithmBurkes            Algorithm = "burkes"
	AlgorithmSierra            Algorithm = "sierra"
	AlgorithmSierraLite        Algorithm = "sierra-lite"
	AlgorithmJarvisJudiceNinke Algorithm = "jarvis-judice-ninke"
	AlgorithmClusteredDot      Algorithm = "clustered-dot"
)

const (
	DefaultColorCount = 4
	DefaultContrast   = 1.0
	DefaultBrightness = 0.0

	MinColorCount = 2
	MaxColorCount = 256
)

// Algorithms lists every supported algorithm, core ones first
func Algorithms() []Algorithm {
	return []Algorithm{
		AlgorithmFloydSteinberg,
		AlgorithmOrdered,
		AlgorithmAtkinson,
		AlgorithmBayer,
		AlgorithmStucki,
		AlgorithmBurkes,
		AlgorithmSierra,
		AlgorithmSierraLite,
		AlgorithmJarvisJudiceNinke,
		AlgorithmClusteredDot,
	}
}

// ParseAlgorithm normalizes an algorithm name. Unknown or empty names fall back to Floyd-Steinberg.
func ParseAlgorithm(name string) Algorithm {
	normalized := Algorithm(strings.ToLower(strings.TrimSpace(name)))
	for _, a := range Algorithms() {
		if a == normalized {
			return a
		}
	}
	return AlgorithmFloydSteinberg
}

// DitherOptions configures one pipeline run
type DitherOptions struct {
	Algorithm  Algorithm `json:"algorithm" yaml:"algorithm"`
	ColorCount int       `json:"colorCount" yaml:"colorCount"`
	Contrast   float64   `json:"contrast" yaml:"contrast"`
	Brightness float64   `json:"brightness" yaml:"brightness"`
}

// DefaultDitherOptions returns {floyd-steinberg, 4, 1.0, 0.0}
func DefaultDitherOptions() DitherOptions {
	return DitherOptions{
		Algorithm:  AlgorithmFloydSteinberg,
		ColorCount: DefaultColorCount,
		Contrast:   DefaultContrast,
		Brightness: DefaultBrightness,
	}
}

// Normalize returns a copy with the algorithm name resolved
func (o DitherOptions) Normalize() DitherOptions {
	o.Algorithm = ParseAlgorithm(string(o.Algorithm))
	return o
}

// Validate rejects options the palette generator cannot honor
func (o DitherOptions) Validate() error {
	if o.ColorCount < MinColorCount || o.ColorCount > MaxColorCount {
		return fmt.Errorf("%w: colorCount must be between %d and %d, got %d",
			ErrInvalidConfiguration, MinColorCount, MaxColorCount, o.ColorCount)
	}
	return nil
}
