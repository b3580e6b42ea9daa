package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/tair/inventory-dashboard/pkg/logger"
)

// AppConfig holds the public API server settings
type AppConfig struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins string
}

// NewApp builds the fiber app with the middleware stack and view routes.
// limiter and observer may be nil.
func NewApp(cfg AppConfig, handler *DashboardHandler, limiter *RateLimiter, observer RequestObserver) *fiber.App {
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		// forecast generation can run for a minute upstream
		cfg.WriteTimeout = 90 * time.Second
	}
	if cfg.AllowedOrigins == "" {
		cfg.AllowedOrigins = "*"
	}

	app := fiber.New(fiber.Config{
		AppName:      "Inventory Dashboard",
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  30 * time.Second,
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(requestid.New())
	app.Use(TracingMiddleware())
	app.Use(StructuredLoggingMiddleware())
	if observer != nil {
		app.Use(MetricsMiddleware(observer))
	}
	if limiter != nil {
		app.Use(limiter.Middleware())
	} else {
		logger.Logger.Warn().Msg("Rate limiting disabled")
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.AllowedOrigins,
		AllowMethods:  "GET,POST,PATCH,OPTIONS,HEAD",
		AllowHeaders:  "Origin, Content-Type, Accept, X-Request-Id, X-Client-Id, traceparent, tracestate",
		ExposeHeaders: "X-Request-Id, X-Trace-Id, X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset",
		MaxAge:        86400,
	}))
	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))

	handler.RegisterRoutes(app)
	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	return c.Status(code).JSON(Response{Success: false, Error: err.Error()})
}
