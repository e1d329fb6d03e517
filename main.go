package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"m3u-lineup/config"
	"m3u-lineup/handlers"
	"m3u-lineup/logger"
	"m3u-lineup/store"
	"m3u-lineup/updater"
)

func main() {
	configPath := pflag.String("config", os.Getenv("CONFIG_PATH"), "path to a YAML config file")
	port := pflag.Int("port", 0, "HTTP port (overrides config)")
	pflag.Parse()

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// manually set time zone
	if tz := os.Getenv("TZ"); tz != "" {
		var err error
		time.Local, err = time.LoadLocation(tz)
		if err != nil {
			logger.Default.Errorf("error loading location '%s': %v", tz, err)
		}
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Default.Fatalf("Error loading config: %v", err)
	}
	if *port > 0 {
		cfg.Port = *port
	}
	config.SetConfig(cfg)

	boundary, err := store.Open(cfg)
	if err != nil {
		logger.Default.Fatalf("Error opening %s store: %v", cfg.StoreDriver, err)
	}
	defer boundary.Close()

	playlistHandler := handlers.NewPlaylistHTTPHandler(logger.Default, boundary, cfg.PlaylistCacheTTL)

	up, err := updater.Initialize(ctx, logger.Default, boundary, playlistHandler)
	if err != nil {
		logger.Default.Fatalf("Error initializing updater: %v", err)
	}
	defer up.Cron.Stop()

	mux := http.NewServeMux()
	mux.Handle("/playlist.m3u", playlistHandler)
	handlers.NewLineupAPI(logger.Default, boundary, playlistHandler).Register(mux)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Default.Errorf("HTTP server shutdown error: %v", err)
		}
	}()

	logger.Default.Logf("Server is running on port %d...", cfg.Port)
	logger.Default.Log("Playlist Endpoint is running (`/playlist.m3u`)")
	logger.Default.Log("Lineup API is running (`/m3u/my`, `/m3u/current`, `/settings`)")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Default.Fatalf("HTTP server error: %v", err)
	}
}
