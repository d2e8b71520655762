package routes

import (
	"time"

	"github.com/anjiri1684/college_crp/handlers"
	"github.com/anjiri1684/college_crp/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp builds the fiber application with every route mounted.
func NewApp(h *handlers.Handler, allowOrigins string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:       "College CRP",
		CaseSensitive: true,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  60 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler:  middleware.ErrorHandler,
	})

	// fiber refuses credentials with a wildcard origin
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowCredentials: allowOrigins != "*",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:     "GET, POST, HEAD, PUT, DELETE, PATCH, OPTIONS",
		MaxAge:           86400,
	}))
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", h.Root)

	api := app.Group("/api")
	StudentRoutes(api, h)
	FeeRoutes(api, h)
	PaymentRoutes(api, h)
	ExpenseRoutes(api, h)
	DashboardRoutes(api, h)
	MaintenanceRoutes(api, h)
	if h.Hub != nil {
		FeedRoutes(api, h)
	}

	return app
}
