package bootstrap

import (
	"github.com/eleven-am/caption-backend/internal/health"
	"github.com/eleven-am/caption-backend/internal/inference"
	"github.com/eleven-am/caption-backend/internal/realtime"
	"github.com/eleven-am/caption-backend/internal/storage"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

const version = "1.0.0"

func ProvideHealthHandler(
	db *gorm.DB,
	redisClient *redis.Client,
	storageClient *storage.Client,
	inferenceClient *inference.Client,
	manager *realtime.Manager,
) *health.Handler {
	return health.NewHandler(db, redisClient, storageClient, inferenceClient, manager, version)
}

func metricsMiddleware(h *health.Handler) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h.IncrementRequests()
			return next(c)
		}
	}
}

func RegisterHealthRoutes(e *echo.Echo, h *health.Handler) {
	e.Use(metricsMiddleware(h))
	h.RegisterRoutes(e)
}

var HealthModule = fx.Options(
	fx.Provide(ProvideHealthHandler),
	fx.Invoke(RegisterHealthRoutes),
)
