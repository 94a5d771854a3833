package bootstrap

import (
	"context"
	"log/slog"
	"os"

	"github.com/eleven-am/caption-backend/internal/caption"
	"github.com/eleven-am/caption-backend/internal/inference"
	"github.com/eleven-am/caption-backend/internal/realtime"
	"github.com/eleven-am/caption-backend/internal/session"
	"github.com/eleven-am/caption-backend/internal/storage"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/fx"
)

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ProvideLogger(cfg *Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
}

func ProvideStorageClient(cfg *Config) *storage.Client {
	return storage.NewClient(storage.Config{
		BaseURL:       cfg.StorageURL,
		ServiceKey:    cfg.StorageServiceKey,
		Bucket:        cfg.StorageBucket,
		FileSizeLimit: cfg.StorageFileSizeLimit,
	})
}

func ProvideInferenceClient(cfg *Config) *inference.Client {
	return inference.NewClient(inference.Config{
		BaseURL: cfg.ReplicateURL,
		Token:   cfg.ReplicateToken,
		Model:   cfg.ReplicateModel,
	})
}

func ProvideBroadcaster(redisClient *redis.Client, logger *slog.Logger) *realtime.Broadcaster {
	return realtime.NewBroadcaster(redisClient, logger.With("component", "broadcaster"))
}

func ProvideRealtimeManager(lc fx.Lifecycle, redisClient *redis.Client, logger *slog.Logger) *realtime.Manager {
	manager := realtime.NewManager(redisClient, logger.With("component", "realtime-manager"))
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			manager.Close()
			return nil
		},
	})
	return manager
}

func ProvideStorageHandler(client *storage.Client, logger *slog.Logger) *storage.Handler {
	return storage.NewHandler(client, logger.With("handler", "storage"))
}

func ProvideCaptionHandler(
	store *caption.Store,
	sessions *session.Store,
	generator *inference.Client,
	broadcaster *realtime.Broadcaster,
	storageClient *storage.Client,
	logger *slog.Logger,
) *caption.Handler {
	return caption.NewHandler(store, sessions, generator, broadcaster, storageClient, logger.With("handler", "caption"))
}

func ProvideRealtimeHandler(manager *realtime.Manager, logger *slog.Logger) *realtime.Handler {
	return realtime.NewHandler(manager, logger.With("handler", "realtime"))
}

type HandlerParams struct {
	fx.In

	StorageHandler  *storage.Handler
	CaptionHandler  *caption.Handler
	RealtimeHandler *realtime.Handler
}

func RegisterRoutes(e *echo.Echo, params HandlerParams) {
	api := e.Group("/api")

	params.StorageHandler.RegisterRoutes(api)
	params.CaptionHandler.RegisterRoutes(api)
	params.RealtimeHandler.RegisterRoutes(api)

	e.GET("/swagger/*", echoSwagger.EchoWrapHandler())
}

var HandlersModule = fx.Options(
	fx.Provide(
		ProvideLogger,
		ProvideStorageClient,
		ProvideInferenceClient,
		ProvideBroadcaster,
		ProvideRealtimeManager,
		ProvideStorageHandler,
		ProvideCaptionHandler,
		ProvideRealtimeHandler,
	),
	fx.Invoke(RegisterRoutes),
)
