package config

import (
	"strings"
	"time"

	"github.com/rmitchellscott/ditherlab/internal/imageprocessing"
)

// DefaultMaxPixels bounds decoded uploads to 25 megapixels
const DefaultMaxPixels = 25_000_000

// Settings holds the server configuration read from the environment
type Settings struct {
	Port               string
	GinMode            string
	PreviewMaxWidth    int
	PreviewMaxHeight   int
	MaxUploadBytes     int64
	MaxPixels          int
	SessionTTL         time.Duration
	RateLimitPerMinute int
	CORSAllowAll       bool
	CORSOrigins        []string
	PresetsFile        string
	LogLevel           string
	LogFormat          string
	DefaultOptions     imageprocessing.DitherOptions
}

// Load reads Settings from the environment, falling back to defaults for unset or unparsable values
func Load() Settings {
	defaults := imageprocessing.DefaultDitherOptions()

	s := Settings{
		Port:               Get("PORT", "8000"),
		GinMode:            Get("GIN_MODE", "release"),
		PreviewMaxWidth:    GetInt("PREVIEW_MAX_WIDTH", imageprocessing.DefaultPreviewWidth),
		PreviewMaxHeight:   GetInt("PREVIEW_MAX_HEIGHT", imageprocessing.DefaultPreviewHeight),
		MaxUploadBytes:     int64(GetInt("MAX_UPLOAD_MB", 20)) << 20,
		MaxPixels:          GetInt("MAX_PIXELS", DefaultMaxPixels),
		SessionTTL:         GetDuration("SESSION_TTL", 30*time.Minute),
		RateLimitPerMinute: GetInt("RATE_LIMIT_PER_MINUTE", 30),
		CORSAllowAll:       GetBool("CORS_ALLOW_ALL_ORIGINS", true),
		CORSOrigins:        splitList(Get("CORS_ORIGINS", "")),
		PresetsFile:        Get("PRESETS_FILE", ""),
		LogLevel:           Get("LOG_LEVEL", "info"),
		LogFormat:          Get("LOG_FORMAT", "text"),
		DefaultOptions: imageprocessing.DitherOptions{
			Algorithm:  imageprocessing.ParseAlgorithm(Get("DEFAULT_ALGORITHM", string(defaults.Algorithm))),
			ColorCount: GetInt("DEFAULT_COLOR_COUNT", defaults.ColorCount),
			Contrast:   GetFloat("DEFAULT_CONTRAST", defaults.Contrast),
			Brightness: GetFloat("DEFAULT_BRIGHTNESS", defaults.Brightness),
		},
	}

	switch s.GinMode {
	case "debug", "release", "test":
	default:
		s.GinMode = "release"
	}
	if s.PreviewMaxWidth <= 0 {
		s.PreviewMaxWidth = imageprocessing.DefaultPreviewWidth
	}
	if s.PreviewMaxHeight <= 0 {
		s.PreviewMaxHeight = imageprocessing.DefaultPreviewHeight
	}
	if s.MaxUploadBytes <= 0 {
		s.MaxUploadBytes = 20 << 20
	}
	// cors rejects a config with every origin disabled
	if !s.CORSAllowAll && len(s.CORSOrigins) == 0 {
		s.CORSAllowAll = true
	}
	if s.MaxPixels <= 0 {
		s.MaxPixels = DefaultMaxPixels
	}
	if s.DefaultOptions.Validate() != nil {
		s.DefaultOptions.ColorCount = defaults.ColorCount
	}

	return s
}

func splitList(val string) []string {
	var items []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
