package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sensorcast/sensorcast/internal/config"
	"github.com/sensorcast/sensorcast/internal/handlers"
	"github.com/sensorcast/sensorcast/internal/logging"
	"github.com/sensorcast/sensorcast/internal/middleware"
	"github.com/sensorcast/sensorcast/internal/scheduler"
	"github.com/sensorcast/sensorcast/internal/utils"
)

// New creates the fiber app with the service's error handling and all
// routes configured
func New(logger *logging.Logger, manager *scheduler.Manager, cfg config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler:          middleware.ErrorHandler(logger),
		ReadTimeout:           utils.DefaultRequestTimeout,
		DisableStartupMessage: true,
	})
	Setup(app, logger, manager, cfg)
	return app
}

// Setup configures all routes and middlewares
func Setup(app *fiber.App, logger *logging.Logger, manager *scheduler.Manager, cfg config.Config) *handlers.Handler {
	h := handlers.New(logger, manager)

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-API-Key,X-Request-ID",
	}))
	app.Use(logging.FiberMiddleware(logger))

	// Health check (no auth required)
	app.Get("/health", h.Health)

	// API key authentication middleware
	authMiddleware := middleware.APIKeyAuth(logger, cfg.Auth.APIKeys, cfg.Auth.Enabled)

	// API v1 routes (protected by API key)
	v1 := app.Group("/v1", authMiddleware)

	v1.Get("/forecasters", h.ListForecasters)
	v1.Get("/forecasters/:id", h.GetForecaster)
	v1.Get("/forecasters/:id/forecast", h.GetForecast)
	v1.Post("/forecasters/:id/refresh", h.RefreshForecaster)

	// 404 handler
	app.Use(h.NotFound)

	return h
}
