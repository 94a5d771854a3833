package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/eleven-am/caption-backend/internal/capture"
	"github.com/eleven-am/caption-backend/internal/client"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	serverURL := getEnv("SERVER_URL", "http://localhost:8080")
	framesDir := getEnv("FRAMES_DIR", "./frames")
	interval := getEnvDuration("CAPTURE_INTERVAL", 2*time.Second)
	quality := getEnvInt("CAPTURE_QUALITY", 80)
	sessionFile := getEnv("SESSION_FILE", defaultSessionFile())

	sessionID, err := client.GetOrCreateSessionID(sessionFile)
	if err != nil {
		logger.Error("failed to establish session identity", "error", err)
		os.Exit(1)
	}
	logger.Info("session established", "session_id", sessionID)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	capturer := capture.NewCapturer(capture.Config{
		Source:   newDirSource(framesDir),
		Interval: interval,
		Quality:  quality,
		Logger:   logger,
	})
	if err := capturer.Start(ctx); err != nil {
		var camErr *capture.CameraError
		if errors.As(err, &camErr) {
			logger.Error("camera unavailable", "reason", camErr.Message(), "recovery", camErr.Recovery())
		} else {
			logger.Error("failed to start capture", "error", err)
		}
		os.Exit(1)
	}

	api := client.NewAPI(client.Config{BaseURL: serverURL})

	viewer := client.NewViewer(api, logger)
	go func() {
		if err := viewer.Watch(ctx, sessionID); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("feed stopped", "error", err, "status", viewer.Feed().Status())
		}
	}()

	go capturer.Run(ctx)

	pipeline := client.NewPipeline(api, sessionID, logger)
	pipeline.Run(ctx, capturer.Frames())
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".caption-session"
	}
	return filepath.Join(home, ".caption-client", "session")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
