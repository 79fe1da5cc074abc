package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/rmitchellscott/ditherlab/internal/imageprocessing"
)

// Preset is a named set of dither options
type Preset struct {
	Name        string                        `yaml:"name" json:"name"`
	Description string                        `yaml:"description" json:"description"`
	Options     imageprocessing.DitherOptions `yaml:"options" json:"options"`
}

// BuiltinPresets are served when no presets file is configured
func BuiltinPresets() []Preset {
	return []Preset{
		{
			Name:        "newsprint",
			Description: "Black and white error diffusion",
			Options:     imageprocessing.DitherOptions{Algorithm: imageprocessing.AlgorithmFloydSteinberg, ColorCount: 2, Contrast: 1.2, Brightness: 0},
		},
		{
			Name:        "classic-mac",
			Description: "Atkinson dithering at one bit",
			Options:     imageprocessing.DitherOptions{Algorithm: imageprocessing.AlgorithmAtkinson, ColorCount: 2, Contrast: 1.0, Brightness: 10},
		},
		{
			Name:        "eink-4",
			Description: "Four gray levels for 2-bit e-paper",
			Options:     imageprocessing.DitherOptions{Algorithm: imageprocessing.AlgorithmFloydSteinberg, ColorCount: 4, Contrast: 1.1, Brightness: 0},
		},
		{
			Name:        "halftone",
			Description: "Ordered threshold map",
			Options:     imageprocessing.DitherOptions{Algorithm: imageprocessing.AlgorithmOrdered, ColorCount: 4, Contrast: 1.0, Brightness: -20},
		},
	}
}

// ParsePresets decodes a YAML presets document. Options missing from an entry take the defaults.
func ParsePresets(data []byte) ([]Preset, error) {
	var raw struct {
		Presets []struct {
			Name        string `yaml:"name"`
			Description string `yaml:"description"`
			Options     struct {
				Algorithm  *string  `yaml:"algorithm"`
				ColorCount *int     `yaml:"colorCount"`
				Contrast   *float64 `yaml:"contrast"`
				Brightness *float64 `yaml:"brightness"`
			} `yaml:"options"`
		} `yaml:"presets"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse presets: %w", err)
	}

	presets := make([]Preset, 0, len(raw.Presets))
	seen := make(map[string]bool)
	for i, entry := range raw.Presets {
		if entry.Name == "" {
			return nil, fmt.Errorf("preset %d has no name", i)
		}
		if seen[entry.Name] {
			return nil, fmt.Errorf("duplicate preset %q", entry.Name)
		}
		seen[entry.Name] = true

		options := imageprocessing.DefaultDitherOptions()
		if entry.Options.Algorithm != nil {
			options.Algorithm = imageprocessing.ParseAlgorithm(*entry.Options.Algorithm)
		}
		if entry.Options.ColorCount != nil {
			options.ColorCount = *entry.Options.ColorCount
		}
		if entry.Options.Contrast != nil {
			options.Contrast = *entry.Options.Contrast
		}
		if entry.Options.Brightness != nil {
			options.Brightness = *entry.Options.Brightness
		}
		if err := options.Validate(); err != nil {
			return nil, fmt.Errorf("preset %q: %w", entry.Name, err)
		}

		presets = append(presets, Preset{Name: entry.Name, Description: entry.Description, Options: options})
	}

	sort.Slice(presets, func(i, j int) bool { return presets[i].Name < presets[j].Name })
	return presets, nil
}

// LoadPresets reads presets from path, or returns the built-in set when path is empty
func LoadPresets(path string) ([]Preset, error) {
	if path == "" {
		return BuiltinPresets(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets file: %w", err)
	}
	return ParsePresets(data)
}

// FindPreset looks up a preset by name
func FindPreset(presets []Preset, name string) (Preset, bool) {
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}
