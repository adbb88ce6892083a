package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/sirupsen/logrus"

	"letme_backend/internals/configs"
	reqlog "letme_backend/internals/middlewares/logger"
)

// SetupMiddlewares urutan: recover, request ctx, log, cors, compress + etag, lalu limiter.
func SetupMiddlewares(app *fiber.App, cfg *configs.Config, log *logrus.Logger, storage fiber.Storage) {
	app.Use(RecoveryMiddleware(log))
	app.Use(RequestContext(time.Duration(cfg.RequestTimeout) * time.Second))
	app.Use(reqlog.LoggerMiddleware(log))
	app.Use(CorsMiddleware(cfg.AllowedOrigins()))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	app.Use(GlobalRateLimiter(cfg.RateLimitMax, time.Duration(cfg.RateLimitSecs)*time.Second, storage))
}
