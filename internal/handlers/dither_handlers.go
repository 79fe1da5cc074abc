package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rmitchellscott/ditherlab/internal/config"
	"github.com/rmitchellscott/ditherlab/internal/imageio"
	"github.com/rmitchellscott/ditherlab/internal/imageprocessing"
	"github.com/rmitchellscott/ditherlab/internal/logging"
	"github.com/rmitchellscott/ditherlab/internal/session"
)

const downloadFilename = "dithered-image.png"

var errUnknownPreset = errors.New("unknown preset")

// optionsRequest carries partial dither options. Unset fields keep the preset or default value.
type optionsRequest struct {
	Preset     string   `json:"preset" form:"preset" binding:"omitempty,max=64"`
	Algorithm  string   `json:"algorithm" form:"algorithm" binding:"omitempty,max=64"`
	ColorCount *int     `json:"colorCount" form:"colorCount" binding:"omitempty,min=2,max=256"`
	Contrast   *float64 `json:"contrast" form:"contrast"`
	Brightness *float64 `json:"brightness" form:"brightness"`
}

// resolve merges the request over base, applying a named preset first
func (r optionsRequest) resolve(base imageprocessing.DitherOptions, presets []config.Preset) (imageprocessing.DitherOptions, error) {
	options := base
	if r.Preset != "" {
		preset, ok := config.FindPreset(presets, r.Preset)
		if !ok {
			return options, fmt.Errorf("%w: %s", errUnknownPreset, r.Preset)
		}
		options = preset.Options
	}
	if r.Algorithm != "" {
		options.Algorithm = imageprocessing.Algorithm(r.Algorithm)
	}
	if r.ColorCount != nil {
		options.ColorCount = *r.ColorCount
	}
	if r.Contrast != nil {
		options.Contrast = *r.Contrast
	}
	if r.Brightness != nil {
		options.Brightness = *r.Brightness
	}
	return options.Normalize(), nil
}

type sessionResponse struct {
	ID            string                        `json:"id"`
	Filename      string                        `json:"filename"`
	Format        string                        `json:"format"`
	Width         int                           `json:"width"`
	Height        int                           `json:"height"`
	PreviewWidth  int                           `json:"previewWidth"`
	PreviewHeight int                           `json:"previewHeight"`
	Options       imageprocessing.DitherOptions `json:"options"`
	Processed     bool                          `json:"processed"`
	ElapsedMs     int64                         `json:"elapsedMs,omitempty"`
	PreviewURL    string                        `json:"previewUrl,omitempty"`
	DownloadURL   string                        `json:"downloadUrl,omitempty"`
}

func newSessionResponse(sess *session.Session) (sessionResponse, error) {
	source, preview, err := sess.Coordinator.Source()
	if err != nil {
		return sessionResponse{}, err
	}

	resp := sessionResponse{
		ID:            sess.ID.String(),
		Filename:      sess.Filename,
		Format:        sess.Format,
		Width:         source.Width,
		Height:        source.Height,
		PreviewWidth:  preview.Width,
		PreviewHeight: preview.Height,
		Options:       sess.Coordinator.Options(),
	}

	if result, err := sess.Coordinator.Latest(); err == nil {
		resp.Processed = true
		resp.ElapsedMs = result.Elapsed.Milliseconds()
		resp.PreviewURL = "/api/sessions/" + resp.ID + "/preview"
		resp.DownloadURL = "/api/sessions/" + resp.ID + "/download"
	}
	return resp, nil
}

// readUpload decodes the multipart "image" field, rejecting images larger than maxPixels
func readUpload(c *gin.Context, maxPixels int) (*imageprocessing.Raster, string, string, error) {
	header, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", "", err
		}
		return nil, "", "", fmt.Errorf("%w: missing image upload", imageprocessing.ErrInvalidInput)
	}

	file, err := header.Open()
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	raster, format, err := imageio.Decode(file, header.Header.Get("Content-Type"), maxPixels)
	if err != nil {
		logging.WarnWithComponent(logging.ComponentDecode, "Rejected upload", "filename", header.Filename, "error", err)
		return nil, "", "", err
	}
	return raster, filepath.Base(header.Filename), format, nil
}

// DitherHandler processes an upload in one step and returns the full-size PNG
func (a *API) DitherHandler(c *gin.Context) {
	raster, _, _, err := readUpload(c, a.settings.MaxPixels)
	if err != nil {
		respondError(c, err)
		return
	}

	var req optionsRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}
	options, err := req.resolve(a.settings.DefaultOptions, a.presets)
	if err != nil {
		respondError(c, err)
		return
	}

	dithered, err := imageprocessing.Process(raster, options)
	if err != nil {
		respondError(c, err)
		return
	}
	palette, err := imageprocessing.GeneratePalette(options.ColorCount)
	if err != nil {
		respondError(c, err)
		return
	}

	writePNG(c, dithered, palette, "")
}

// CreateSessionHandler loads an upload into a new session and processes it once
func (a *API) CreateSessionHandler(c *gin.Context) {
	raster, filename, format, err := readUpload(c, a.settings.MaxPixels)
	if err != nil {
		respondError(c, err)
		return
	}

	var req optionsRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBindError(c, err)
		return
	}
	options, err := req.resolve(a.settings.DefaultOptions, a.presets)
	if err != nil {
		respondError(c, err)
		return
	}

	sess, err := a.sessions.Create(raster, filename, format)
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := sess.Coordinator.Apply(options); err != nil {
		a.sessions.Delete(sess.ID)
		respondError(c, err)
		return
	}

	resp, err := newSessionResponse(sess)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetSessionHandler returns the session summary
func (a *API) GetSessionHandler(c *gin.Context) {
	sess, ok := a.lookupSession(c)
	if !ok {
		return
	}
	resp, err := newSessionResponse(sess)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateOptionsHandler reprocesses the session source with new options
func (a *API) UpdateOptionsHandler(c *gin.Context) {
	sess, ok := a.lookupSession(c)
	if !ok {
		return
	}

	var req optionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	options, err := req.resolve(sess.Coordinator.Options(), a.presets)
	if err != nil {
		respondError(c, err)
		return
	}

	if _, err := sess.Coordinator.Apply(options); err != nil {
		respondError(c, err)
		return
	}

	resp, err := newSessionResponse(sess)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ResetSessionHandler restores default options and drops the processed result
func (a *API) ResetSessionHandler(c *gin.Context) {
	sess, ok := a.lookupSession(c)
	if !ok {
		return
	}
	sess.Coordinator.Reset()

	resp, err := newSessionResponse(sess)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PreviewHandler returns the preview-sized result as PNG
func (a *API) PreviewHandler(c *gin.Context) {
	sess, ok := a.lookupSession(c)
	if !ok {
		return
	}
	result, err := sess.Coordinator.Latest()
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	writePNG(c, result.Preview, result.Palette, "")
}

// DownloadHandler returns the full-size result as a PNG attachment
func (a *API) DownloadHandler(c *gin.Context) {
	sess, ok := a.lookupSession(c)
	if !ok {
		return
	}
	result, err := sess.Coordinator.Latest()
	if err != nil {
		respondError(c, err)
		return
	}
	writePNG(c, result.Full, result.Palette, downloadFilename)
}

// DeleteSessionHandler drops a session
func (a *API) DeleteSessionHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil || !a.sessions.Delete(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *API) lookupSession(c *gin.Context) (*session.Session, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return nil, false
	}
	sess, err := a.sessions.Get(id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return sess, true
}

func writePNG(c *gin.Context, r *imageprocessing.Raster, palette imageprocessing.Palette, attachment string) {
	data, err := imageprocessing.EncodePNG(r, palette)
	if err != nil {
		logging.ErrorWithComponent(logging.ComponentAPI, "Failed to encode PNG", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode image"})
		return
	}
	if attachment != "" {
		c.Header("Content-Disposition", `attachment; filename="`+attachment+`"`)
	}
	c.Data(http.StatusOK, "image/png", data)
}

// respondError maps pipeline errors to HTTP statuses
func respondError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request payload too large"})
	case errors.Is(err, session.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
	case errors.Is(err, imageprocessing.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, imageprocessing.ErrInvalidConfiguration), errors.Is(err, errUnknownPreset):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, imageprocessing.ErrNoImage), errors.Is(err, imageprocessing.ErrNoResult):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logging.ErrorWithComponent(logging.ComponentAPI, "Request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func respondBindError(c *gin.Context, err error) {
	if isValidationError(err) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": validationErrorMessage(err)})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + strings.TrimSpace(err.Error())})
}
