package main

import (
	// standard library
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// third-party
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	// internal
	"github.com/rmitchellscott/ditherlab/internal/config"
	"github.com/rmitchellscott/ditherlab/internal/handlers"
	"github.com/rmitchellscott/ditherlab/internal/logging"
	"github.com/rmitchellscott/ditherlab/internal/middleware"
	"github.com/rmitchellscott/ditherlab/internal/session"
	"github.com/rmitchellscott/ditherlab/internal/version"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Println(version.String())
		os.Exit(0)
	}

	_ = godotenv.Load()
	settings := config.Load()
	logging.Setup(os.Stderr, settings.LogLevel, settings.LogFormat)
	logging.InfoWithComponent(logging.ComponentStartup, "Starting ditherlab", "version", version.String())

	presets, err := config.LoadPresets(settings.PresetsFile)
	if err != nil {
		logging.ErrorWithComponent(logging.ComponentStartup, "Failed to load presets", "file", settings.PresetsFile, "error", err)
		os.Exit(1)
	}
	logging.InfoWithComponent(logging.ComponentConfig, "Presets loaded", "count", len(presets))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sessions := session.NewStore(settings.SessionTTL, settings.PreviewMaxWidth, settings.PreviewMaxHeight)
	go sessions.RunJanitor(ctx, time.Minute)

	limiter := middleware.NewClientRateLimiter(settings.RateLimitPerMinute)
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				limiter.Cleanup(time.Hour)
			}
		}
	}()

	gin.SetMode(settings.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.MaxMultipartMemory = settings.MaxUploadBytes

	corsConfig := cors.DefaultConfig()
	if settings.CORSAllowAll {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = settings.CORSOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition"}
	router.Use(cors.New(corsConfig))

	api := handlers.NewAPI(settings, presets, sessions, limiter)
	api.RegisterRoutes(router)

	addr := ":" + settings.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.InfoWithComponent(logging.ComponentStartup, "Listening", "address", addr,
			"preview_box", fmt.Sprintf("%dx%d", settings.PreviewMaxWidth, settings.PreviewMaxHeight))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.ErrorWithComponent(logging.ComponentStartup, "Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.InfoWithComponent(logging.ComponentShutdown, "Shutting down server")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorWithComponent(logging.ComponentShutdown, "Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logging.InfoWithComponent(logging.ComponentShutdown, "Server stopped")
}
