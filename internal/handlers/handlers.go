package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rmitchellscott/ditherlab/internal/config"
	"github.com/rmitchellscott/ditherlab/internal/imageprocessing"
	"github.com/rmitchellscott/ditherlab/internal/middleware"
	"github.com/rmitchellscott/ditherlab/internal/session"
	"github.com/rmitchellscott/ditherlab/internal/version"
)

// API serves the dithering pipeline over HTTP
type API struct {
	settings config.Settings
	presets  []config.Preset
	sessions *session.Store
	limiter  *middleware.ClientRateLimiter
}

// NewAPI wires the handlers to their dependencies
func NewAPI(settings config.Settings, presets []config.Preset, sessions *session.Store, limiter *middleware.ClientRateLimiter) *API {
	return &API{
		settings: settings,
		presets:  presets,
		sessions: sessions,
		limiter:  limiter,
	}
}

// RegisterRoutes mounts every endpoint under /api
func (a *API) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")

	api.GET("/health", a.HealthHandler)   // GET /api/health - liveness
	api.GET("/version", a.VersionHandler) // GET /api/version - build information
	api.GET("/config", a.ConfigHandler)   // GET /api/config - defaults and supported algorithms
	api.GET("/presets", a.PresetsHandler) // GET /api/presets - named option presets

	upload := middleware.RequestSizeLimit(a.settings.MaxUploadBytes)
	limited := a.limiter.RateLimit()

	api.POST("/dither", limited, upload, a.DitherHandler) // POST /api/dither - one-shot dither, returns PNG

	sessions := api.Group("/sessions")
	{
		sessions.POST("", limited, upload, a.CreateSessionHandler)    // POST /api/sessions - upload image and process with defaults
		sessions.GET("/:id", a.GetSessionHandler)                     // GET /api/sessions/:id - session summary
		sessions.PUT("/:id/options", limited, a.UpdateOptionsHandler) // PUT /api/sessions/:id/options - reprocess with new options
		sessions.POST("/:id/reset", a.ResetSessionHandler)            // POST /api/sessions/:id/reset - restore defaults, drop result
		sessions.GET("/:id/preview", a.PreviewHandler)                // GET /api/sessions/:id/preview - preview PNG
		sessions.GET("/:id/download", a.DownloadHandler)              // GET /api/sessions/:id/download - full-size PNG attachment
		sessions.DELETE("/:id", a.DeleteSessionHandler)               // DELETE /api/sessions/:id - drop session
	}
}

// HealthHandler reports liveness
func (a *API) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// VersionHandler returns build information
func (a *API) VersionHandler(c *gin.Context) {
	c.JSON(http.StatusOK, version.Get())
}

// ConfigHandler returns defaults and limits for the frontend
func (a *API) ConfigHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"defaults":         a.settings.DefaultOptions,
		"algorithms":       imageprocessing.Algorithms(),
		"minColorCount":    imageprocessing.MinColorCount,
		"maxColorCount":    imageprocessing.MaxColorCount,
		"previewMaxWidth":  a.settings.PreviewMaxWidth,
		"previewMaxHeight": a.settings.PreviewMaxHeight,
		"maxUploadBytes":   a.settings.MaxUploadBytes,
		"maxPixels":        a.settings.MaxPixels,
	})
}

// PresetsHandler lists the configured presets
func (a *API) PresetsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"presets": a.presets})
}
